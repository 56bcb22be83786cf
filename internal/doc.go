// Package internal provides the linting engine behind jlint.
//
// The engine parses JavaScript sources with jsast, runs every enabled rule
// over the resulting tree and returns the issues that survive nolint
// filtering, sorted by position.
//
// Key components:
//
// Engine: coordinates the linting process. It owns the rule set built from
// the configuration, the ignored rules and paths, and an optional result
// cache. Engines are safe for concurrent use by several workers.
//
// LintRule: the contract for a lint rule. A rule checks a parsed file,
// accepts its configuration data and carries a severity.
//
// Cache: keeps the issues of each file keyed by content hash and by a
// fingerprint of the rule configuration, so an unchanged file linted with
// the same configuration is not parsed again.
//
// Watch: re-lints files below a set of directories as they change.
//
// SourceCode: the lines of a source file, as used by the formatter.
//
// Usage:
//
//	engine, err := internal.NewEngine(".", rules, logger)
//	if err != nil {
//	    // handle error
//	}
//
//	issues, err := engine.Run("path/to/file.js")
//	if err != nil {
//	    // handle error
//	}
//
//	for _, issue := range issues {
//	    fmt.Printf("%s: %s\n", issue.Rule, issue.Message)
//	}
package internal
