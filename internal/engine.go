package internal

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/jlint/internal/jsast"
	"github.com/gnolang/jlint/internal/nolint"
	tt "github.com/gnolang/jlint/internal/types"
)

// Engine manages the linting process.
type Engine struct {
	logger       *zap.Logger
	rootDir      string
	ignoredRules map[string]bool
	ignoredPaths []string
	rules        map[string]LintRule
	cache        *Cache
	fingerprint  string
}

// NewEngine creates a new lint engine. Rule configuration is validated
// here, before any file is linted.
func NewEngine(rootDir string, rules map[string]tt.ConfigRule, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := &Engine{
		logger:  logger,
		rootDir: rootDir,
	}
	if err := engine.applyRules(rules); err != nil {
		return nil, err
	}

	fp, err := fingerprint(rules)
	if err != nil {
		return nil, err
	}
	engine.fingerprint = fp

	return engine, nil
}

// Define the ruleConstructor type
type ruleConstructor func() LintRule

// Define the ruleMap type
type ruleMap map[string]ruleConstructor

// Create a map to hold the mappings of rule names to their constructors
var allRuleConstructors = ruleMap{
	"prefer-early-return": NewPreferEarlyReturnRule,
}

// RuleNames lists every rule the engine knows, sorted.
func RuleNames() []string {
	names := make([]string, 0, len(allRuleConstructors))
	for name := range allRuleConstructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Engine) applyRules(rules map[string]tt.ConfigRule) error {
	e.rules = make(map[string]LintRule)
	e.registerDefaultRules()

	// Iterate over the rules and apply severity and options
	for key, rule := range rules {
		r := e.findRule(key)
		if r == nil {
			e.logger.Debug("unknown rule in configuration", zap.String("rule", key))
			continue
		}
		if err := r.Configure(rule.Data); err != nil {
			return err
		}
		if rule.Severity == tt.SeverityOff {
			e.IgnoreRule(key)
		}
		r.SetSeverity(rule.Severity)
	}
	return nil
}

func (e *Engine) registerDefaultRules() {
	// iterate over allRuleConstructors and add them to the rules map
	for key, newRuleCstr := range allRuleConstructors {
		e.rules[key] = newRuleCstr()
	}
}

func (e *Engine) findRule(name string) LintRule {
	if rule, ok := e.rules[name]; ok {
		return rule
	}
	return nil
}

// EnableCache stores results under dir and reuses them for unchanged files.
func (e *Engine) EnableCache(dir string) error {
	cache, err := NewCache(dir)
	if err != nil {
		return err
	}
	e.cache = cache
	return nil
}

// Run applies all lint rules to the given file and returns a slice of Issues.
func (e *Engine) Run(filename string) ([]tt.Issue, error) {
	if e.isIgnoredPath(filename) {
		e.logger.Debug("skipping ignored path", zap.String("file", filename))
		return nil, nil
	}

	if e.cache != nil {
		if issues, ok := e.cache.Get(filename, e.fingerprint); ok {
			e.logger.Debug("cache hit", zap.String("file", filename))
			return issues, nil
		}
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	issues, err := e.run(filename, src)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.Set(filename, e.fingerprint, issues); err != nil {
			e.logger.Warn("failed to update cache", zap.String("file", filename), zap.Error(err))
		}
	}
	return issues, nil
}

// RunSource applies all lint rules to the given source and returns a slice of Issues.
func (e *Engine) RunSource(source []byte) ([]tt.Issue, error) {
	return e.run("<input>", source)
}

func (e *Engine) run(filename string, src []byte) ([]tt.Issue, error) {
	file, err := jsast.Parse(filename, src)
	if err != nil {
		return nil, fmt.Errorf("error parsing file: %w", err)
	}

	// nolint scopes are per file; the engine itself is shared by workers
	nolintMgr := nolint.ParseComments(file)

	var wg sync.WaitGroup
	var mu sync.Mutex

	allIssues := make([]tt.Issue, 0)
	for _, rule := range e.rules {
		if e.ignoredRules[rule.Name()] {
			continue
		}
		wg.Add(1)
		go func(r LintRule) {
			defer wg.Done()
			issues, err := r.Check(file)
			if err != nil {
				e.logger.Warn("rule failed",
					zap.String("rule", r.Name()),
					zap.String("file", filename),
					zap.Error(err))
				return
			}

			severity := r.Severity()
			nolinted := filterNolintIssues(nolintMgr, issues)
			for i := range nolinted {
				nolinted[i].Severity = severity
			}

			mu.Lock()
			allIssues = append(allIssues, nolinted...)
			mu.Unlock()
		}(rule)
	}
	wg.Wait()

	sort.Slice(allIssues, func(i, j int) bool {
		a, b := allIssues[i], allIssues[j]
		if a.Start.Offset != b.Start.Offset {
			return a.Start.Offset < b.Start.Offset
		}
		return a.Rule < b.Rule
	})
	return allIssues, nil
}

func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[rule] = true
}

// IgnorePath excludes files matching a glob pattern or lying under a
// directory. Relative patterns are resolved against the root directory.
func (e *Engine) IgnorePath(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	e.ignoredPaths = append(e.ignoredPaths, path)
}

func (e *Engine) isIgnoredPath(filename string) bool {
	clean := filepath.Clean(filename)
	for _, pattern := range e.ignoredPaths {
		candidates := []string{pattern}
		if !filepath.IsAbs(pattern) && e.rootDir != "" {
			candidates = append(candidates, filepath.Join(e.rootDir, pattern))
		}
		for _, p := range candidates {
			p = filepath.Clean(p)
			if ok, _ := filepath.Match(p, clean); ok {
				return true
			}
			if ok, _ := filepath.Match(p, filepath.Base(clean)); ok {
				return true
			}
			if strings.HasPrefix(clean, p+string(filepath.Separator)) {
				return true
			}
		}
	}
	return false
}

// filterNolintIssues filters issues based on nolint comments.
func filterNolintIssues(mgr *nolint.Manager, issues []tt.Issue) []tt.Issue {
	if mgr == nil {
		return issues
	}
	filtered := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		pos := issue.Start
		pos.Filename = issue.Filename
		if !mgr.IsNolint(pos, issue.Rule) {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

// fingerprint identifies a rule configuration, so cached results produced
// under a different configuration are not reused.
func fingerprint(rules map[string]tt.ConfigRule) (string, error) {
	type entry struct {
		Severity string         `yaml:"severity"`
		Data     map[string]any `yaml:"data"`
	}
	normalized := make(map[string]entry, len(rules))
	for name, rule := range rules {
		normalized[name] = entry{Severity: rule.Severity.String(), Data: rule.Data}
	}
	// yaml.v3 sorts map keys, which keeps the encoding stable
	out, err := yaml.Marshal(normalized)
	if err != nil {
		return "", fmt.Errorf("error encoding rule configuration: %w", err)
	}
	return fmt.Sprintf("%x", md5.Sum(out)), nil
}

var sourceExtensions = map[string]bool{
	".js":  true,
	".mjs": true,
	".cjs": true,
}

// IsSourceFile reports whether path has a JavaScript file extension.
func IsSourceFile(path string) bool {
	return sourceExtensions[filepath.Ext(path)]
}

// SourceCode stores the content of a source code file.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	return &SourceCode{Lines: lines}, nil
}

func isDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
