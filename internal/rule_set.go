package internal

import (
	"fmt"

	"github.com/gnolang/jlint/internal/jsast"
	"github.com/gnolang/jlint/internal/lints"
	tt "github.com/gnolang/jlint/internal/types"
)

/*
* Implement each lint rule as a separate struct
 */

// LintRule defines the interface for all lint rules.
type LintRule interface {
	// Check runs the lint rule on the given file and returns a slice of Issues.
	Check(file *jsast.File) ([]tt.Issue, error)

	// Name returns the name of the lint rule.
	Name() string

	// Configure applies the rule's "data" section from the configuration file.
	Configure(data map[string]any) error

	Severity() tt.Severity
	SetSeverity(tt.Severity)
}

type PreferEarlyReturnRule struct {
	severity tt.Severity
	options  lints.EarlyReturnOptions
}

func NewPreferEarlyReturnRule() LintRule {
	return &PreferEarlyReturnRule{
		severity: tt.SeverityWarning,
		options:  lints.DefaultEarlyReturnOptions(),
	}
}

func (r *PreferEarlyReturnRule) Check(file *jsast.File) ([]tt.Issue, error) {
	return lints.DetectPreferEarlyReturn(file, r.options)
}

func (r *PreferEarlyReturnRule) Name() string {
	return lints.PreferEarlyReturnRule
}

func (r *PreferEarlyReturnRule) Configure(data map[string]any) error {
	opts, err := lints.ParseEarlyReturnOptions(data)
	if err != nil {
		return fmt.Errorf("configuring %s: %w", r.Name(), err)
	}
	r.options = opts
	return nil
}

func (r *PreferEarlyReturnRule) Severity() tt.Severity {
	return r.severity
}

func (r *PreferEarlyReturnRule) SetSeverity(severity tt.Severity) {
	if severity == tt.SeverityUnset {
		return
	}
	r.severity = severity
}
