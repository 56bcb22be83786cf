package lints

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/gnolang/jlint/internal/cond"
	"github.com/gnolang/jlint/internal/jsast"
	tt "github.com/gnolang/jlint/internal/types"
)

const (
	PreferEarlyReturnRule    = "prefer-early-return"
	preferEarlyReturnMessage = "Prefer an early return to a conditionally-wrapped function body"

	// DefaultMaximumStatements is the number of statements a lonely if may
	// wrap before the function is reported.
	DefaultMaximumStatements = 1
)

// ErrInvalidOption is returned for rule options that fail validation.
var ErrInvalidOption = errors.New("invalid rule option")

// EarlyReturnOptions configures the prefer-early-return rule.
type EarlyReturnOptions struct {
	MaximumStatements int
}

func DefaultEarlyReturnOptions() EarlyReturnOptions {
	return EarlyReturnOptions{MaximumStatements: DefaultMaximumStatements}
}

// ParseEarlyReturnOptions validates the "data" section of the rule
// configuration. The only accepted key is maximumStatements, which must be
// a non-negative integer.
func ParseEarlyReturnOptions(data map[string]any) (EarlyReturnOptions, error) {
	opts := DefaultEarlyReturnOptions()
	for key, raw := range data {
		if key != "maximumStatements" {
			return opts, fmt.Errorf("%w: unknown option %q for %s", ErrInvalidOption, key, PreferEarlyReturnRule)
		}
		n, ok := toInt(raw)
		if !ok {
			return opts, fmt.Errorf("%w: maximumStatements must be an integer, got %v", ErrInvalidOption, raw)
		}
		if n < 0 {
			return opts, fmt.Errorf("%w: maximumStatements must be non-negative, got %d", ErrInvalidOption, n)
		}
		opts.MaximumStatements = n
	}
	return opts, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case uint:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case float64:
		// JSON numbers
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// IsSimplifiable reports whether body consists of a single lonely if whose
// consequent wraps more than threshold statements. A bare expression
// statement consequent counts only when threshold is zero.
func IsSimplifiable(body *jsast.BlockStmt, threshold int) bool {
	if body == nil || len(body.List) != 1 {
		return false
	}
	ifStmt, ok := body.List[0].(*jsast.IfStmt)
	if !ok || ifStmt.Alt != nil {
		return false
	}

	switch cons := ifStmt.Cons.(type) {
	case *jsast.ExprStmt:
		return threshold == 0
	case *jsast.BlockStmt:
		return len(cons.List) > threshold
	}
	return false
}

// RewriteResult describes the early-return rewrite of one function.
type RewriteResult struct {
	Body *jsast.BlockStmt
	If   *jsast.IfStmt
	// NegatedGuard is the complement of the if condition.
	NegatedGuard string
	// Replacement is the text that replaces the if statement's span.
	Replacement string
	// Confidence is 1 unless the truth-table check found a valuation where
	// the negated guard and the original agree.
	Confidence float64
}

// refutedConfidence keeps rewrites with a disproved negation below the
// fixer's default threshold.
const refutedConfidence = 0.5

// negationConfidence maps a verification report to a fix confidence. A
// check that gives up (too many atoms) does not lower it.
func negationConfidence(r cond.VerificationReport) float64 {
	if r.Result == cond.NotEquivalent {
		return refutedConfidence
	}
	return 1.0
}

// Analyze checks a single function-like node and returns the rewrite for
// it, or nil when the function does not qualify.
func Analyze(f *jsast.File, fn jsast.Function, opts EarlyReturnOptions) *RewriteResult {
	body := fn.FuncBody()
	if !IsSimplifiable(body, opts.MaximumStatements) {
		return nil
	}
	ifStmt := body.List[0].(*jsast.IfStmt)
	guard := cond.FromAST(f, ifStmt.Test)
	negExpr := cond.Negate(guard)
	negated := cond.Render(negExpr)

	return &RewriteResult{
		Body:         body,
		If:           ifStmt,
		NegatedGuard: negated,
		Replacement:  emitEarlyReturn(f, ifStmt, negated),
		Confidence:   negationConfidence(cond.VerifyNegation(guard, negExpr)),
	}
}

// EmitEarlyReturn builds the early-return replacement for a qualifying if
// statement.
func EmitEarlyReturn(f *jsast.File, ifStmt *jsast.IfStmt) string {
	return emitEarlyReturn(f, ifStmt, cond.NegateText(cond.FromAST(f, ifStmt.Test)))
}

func emitEarlyReturn(f *jsast.File, ifStmt *jsast.IfStmt, negated string) string {
	baseIndent := leadingWhitespace(f.Line(ifStmt.Pos()))

	var stmts []string
	if block, ok := ifStmt.Cons.(*jsast.BlockStmt); ok {
		for _, s := range block.List {
			stmts = append(stmts, baseIndent+f.Text(s))
		}
	} else {
		stmts = append(stmts, baseIndent+f.Text(ifStmt.Cons))
	}

	lines := []string{
		"if (" + negated + ") {",
		baseIndent + "    return;",
		baseIndent + "}",
	}
	lines = append(lines, stmts...)
	return strings.Join(lines, "\n")
}

func leadingWhitespace(line string) string {
	trimmed := strings.TrimLeftFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\ufeff'
	})
	return line[:len(line)-len(trimmed)]
}

// DetectPreferEarlyReturn reports every function declaration, function
// expression, method and arrow function whose whole body is wrapped in a
// lonely if statement.
func DetectPreferEarlyReturn(f *jsast.File, opts EarlyReturnOptions) ([]tt.Issue, error) {
	var issues []tt.Issue

	jsast.InspectFile(f, func(n jsast.Node) bool {
		fn, ok := n.(jsast.Function)
		if !ok {
			return true
		}
		res := Analyze(f, fn, opts)
		if res == nil {
			return true
		}

		issues = append(issues, tt.Issue{
			Rule:       PreferEarlyReturnRule,
			Category:   "style",
			Filename:   f.Name,
			Message:    preferEarlyReturnMessage,
			Suggestion: res.Replacement,
			Note:       fmt.Sprintf("the guard can be inverted to `%s` and the body unindented", res.NegatedGuard),
			Start:      f.Position(res.Body.Pos()),
			End:        f.Position(res.Body.End()),
			Confidence: res.Confidence,
			Fix: &tt.TextEdit{
				Start:   f.Position(res.If.Pos()),
				End:     f.Position(res.If.End()),
				NewText: res.Replacement,
			},
		})
		// nested functions are analysed on their own
		return true
	})

	return issues, nil
}
