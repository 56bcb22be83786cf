package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"go.uber.org/zap"

	"github.com/gnolang/jlint/formatter"
	"github.com/gnolang/jlint/internal"
	tt "github.com/gnolang/jlint/internal/types"
	"github.com/gnolang/jlint/lint"
)

var (
	ignoreRules    string
	ignorePaths    string
	lintJsonOutput bool
	outPath        string
	showSummary    bool
	cacheDir       string
)

type outputOptions struct {
	JSON     bool
	JSONPath string
	Summary  bool
}

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Run the normal lint process",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			atexit.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, err := newEngine(cacheDir)
		if err != nil {
			logger.Fatal("Failed to initialize lint engine", zap.Error(err))
		}

		opts := outputOptions{JSON: lintJsonOutput, JSONPath: outPath, Summary: showSummary}
		count, err := runNormalLintProcess(ctx, logger, engine, args, opts, os.Stdout)
		if err != nil {
			logger.Error("Error processing files", zap.Error(err))
			atexit.Exit(1)
		}
		if count > 0 {
			atexit.Exit(1)
		}
	},
}

func init() {
	lintCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of lint rules to ignore")
	lintCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
	lintCmd.Flags().BoolVar(&lintJsonOutput, "json", false, "Output issues in JSON format")
	lintCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	lintCmd.Flags().BoolVar(&showSummary, "summary", false, "Print a table of issue counts per rule")
	lintCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Reuse results for unchanged files from this directory")
}

// newEngine builds the engine from the global configuration flag and the
// lint command's ignore lists.
func newEngine(cache string) (*internal.Engine, error) {
	engine, err := lint.New(".", cfgFile, logger)
	if err != nil {
		return nil, err
	}

	if cache != "" {
		if err := engine.EnableCache(cache); err != nil {
			return nil, err
		}
	}

	applyIgnores(engine, ignoreRules, ignorePaths)
	return engine, nil
}

func applyIgnores(engine lint.LintEngine, rules, paths string) {
	for _, rule := range splitList(rules) {
		engine.IgnoreRule(rule)
	}
	for _, path := range splitList(paths) {
		engine.IgnorePath(path)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// runNormalLintProcess lints paths and reports the issues to w. It returns
// the number of issues found.
func runNormalLintProcess(ctx context.Context, logger *zap.Logger, engine lint.LintEngine, paths []string, opts outputOptions, w io.Writer) (int, error) {
	issues, err := lint.ProcessFiles(ctx, logger, engine, paths, lint.ProcessFile)
	if err != nil {
		return 0, err
	}

	if err := printIssues(logger, issues, opts, w); err != nil {
		return len(issues), err
	}
	return len(issues), nil
}

func printIssues(logger *zap.Logger, issues []tt.Issue, opts outputOptions, w io.Writer) error {
	if opts.JSON {
		d, err := formatter.GenerateJSON(issues)
		if err != nil {
			return fmt.Errorf("error marshalling issues to JSON: %w", err)
		}
		if opts.JSONPath == "" {
			_, err = fmt.Fprintln(w, string(d))
			return err
		}
		if err := os.WriteFile(opts.JSONPath, d, 0o644); err != nil {
			return fmt.Errorf("error writing JSON output file: %w", err)
		}
		return nil
	}

	issuesByFile := formatter.GroupByFile(issues)
	sortedFiles := make([]string, 0, len(issuesByFile))
	for filename := range issuesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	for _, filename := range sortedFiles {
		sourceCode, err := internal.ReadSourceCode(filename)
		if err != nil {
			logger.Error("Error reading source file", zap.String("file", filename), zap.Error(err))
			continue
		}
		fmt.Fprintln(w, formatter.GenerateFormattedIssue(issuesByFile[filename], sourceCode))
	}

	if opts.Summary {
		fmt.Fprintln(w, formatter.GenerateSummary(issues, formatter.SummaryASCII))
	}
	return nil
}
