package formatter

import (
	"encoding/json"
	"go/token"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/jlint/internal"
	tt "github.com/gnolang/jlint/internal/types"
)

func init() {
	color.NoColor = true
}

func TestFormatIssuesWithArrows(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{
		Lines: []string{
			"function main() {",
			"    let x = 1;",
			"    if (x) {}",
			"}",
		},
	}

	issues := []tt.Issue{
		{
			Rule:     "no-unused-vars",
			Filename: "test.js",
			Severity: tt.SeverityError,
			Start:    token.Position{Line: 2, Column: 9},
			End:      token.Position{Line: 2, Column: 10},
			Message:  "x is never read",
		},
		{
			Rule:     "no-empty",
			Filename: "test.js",
			Severity: tt.SeverityInfo,
			Start:    token.Position{Line: 3, Column: 5},
			End:      token.Position{Line: 3, Column: 14},
			Message:  "empty block",
		},
	}

	expected := `error: no-unused-vars
 --> test.js:2:9
  |
2 | let x = 1;
  |     ~
  = x is never read

info: no-empty
 --> test.js:3:5
  |
3 | if (x) {}
  | ~~~~~~~~~
  = empty block

`

	result := GenerateFormattedIssue(issues, code)
	assert.Equal(t, expected, result)
}

func TestFormatIssuesWithArrows_Tabs(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{
		Lines: []string{
			"function main() {",
			"\tlet x = 1;",
			"}",
		},
	}

	issues := []tt.Issue{
		{
			Rule:     "no-unused-vars",
			Filename: "test.js",
			Severity: tt.SeverityWarning,
			Start:    token.Position{Line: 2, Column: 6},
			End:      token.Position{Line: 2, Column: 7},
			Message:  "x is never read",
		},
	}

	expected := `warning: no-unused-vars
 --> test.js:2:6
  |
2 | let x = 1;
  |     ~
  = x is never read

`

	assert.Equal(t, expected, GenerateFormattedIssue(issues, code))
}

func TestFormatIssuesWithArrows_MultipleDigitsLineNumbers(t *testing.T) {
	t.Parallel()
	lines := make([]string, 12)
	for i := range lines {
		lines[i] = "    call();"
	}
	lines[10] = "    let value = 1;"
	code := &internal.SourceCode{Lines: lines}

	issues := []tt.Issue{
		{
			Rule:     "no-unused-vars",
			Filename: "test.js",
			Severity: tt.SeverityError,
			Start:    token.Position{Line: 11, Column: 9},
			End:      token.Position{Line: 11, Column: 14},
			Message:  "value is never read",
		},
	}

	expected := `error: no-unused-vars
  --> test.js:11:9
   |
11 | let value = 1;
   |     ~~~~~
   = value is never read

`

	assert.Equal(t, expected, GenerateFormattedIssue(issues, code))
}

func TestEarlyReturnFormatter(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{
		Lines: []string{
			"function foo() {",
			"  if (x) {",
			"    bar();",
			"  }",
			"}",
		},
	}

	issue := tt.Issue{
		Rule:       PreferEarlyReturn,
		Filename:   "test.js",
		Severity:   tt.SeverityWarning,
		Start:      token.Position{Line: 1, Column: 16},
		End:        token.Position{Line: 5, Column: 2},
		Message:    "Prefer an early return to a conditionally-wrapped function body",
		Suggestion: "if (!x) {\n      return;\n  }\n  bar();",
		Note:       "the guard can be inverted to `!x` and the body unindented",
		Fix: &tt.TextEdit{
			Start: token.Position{Line: 2, Column: 3},
			End:   token.Position{Line: 4, Column: 4},
		},
	}

	expected := "warning: prefer-early-return\n" +
		" --> test.js:1:16\n" +
		"  |\n" +
		"1 | function foo() {\n" +
		"2 |   if (x) {\n" +
		"3 |     bar();\n" +
		"4 |   }\n" +
		"5 | }\n" +
		"  | " + strings.Repeat(" ", 15) + "~\n" +
		"  = Prefer an early return to a conditionally-wrapped function body\n" +
		"\n" +
		"Suggestion:\n" +
		"  |\n" +
		"2 | if (!x) {\n" +
		"3 |       return;\n" +
		"4 |   }\n" +
		"5 |   bar();\n" +
		"  |\n" +
		"\n" +
		"Note: the guard can be inverted to `!x` and the body unindented\n" +
		"\n"

	assert.Equal(t, expected, GenerateFormattedIssue([]tt.Issue{issue}, code))
}

func TestGeneralFormatterFixHint(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{
		Lines: []string{
			"let x = 1;",
		},
	}

	issue := tt.Issue{
		Rule:     "no-var",
		Filename: "test.js",
		Severity: tt.SeverityWarning,
		Start:    token.Position{Line: 1, Column: 1},
		End:      token.Position{Line: 1, Column: 4},
		Message:  "use const",
		Fix:      &tt.TextEdit{NewText: "const"},
	}

	expected := "warning: no-var\n" +
		" --> test.js:1:1\n" +
		"  |\n" +
		"1 | let x = 1;\n" +
		"  | ~~~\n" +
		"  = use const\n" +
		"\n" +
		"Help: run `jlint fix` to apply the no-var edit\n" +
		"\n"

	assert.Equal(t, expected, GenerateFormattedIssue([]tt.Issue{issue}, code))

	issue.Fix = nil
	assert.NotContains(t, GenerateFormattedIssue([]tt.Issue{issue}, code), "Help:")
}

func TestGetIssueFormatter(t *testing.T) {
	t.Parallel()
	assert.IsType(t, &EarlyReturnFormatter{}, getIssueFormatter(PreferEarlyReturn))
	assert.IsType(t, &GeneralIssueFormatter{}, getIssueFormatter("anything-else"))
}

func TestFormatIssueOutOfRange(t *testing.T) {
	t.Parallel()
	issue := tt.Issue{
		Rule:     "x",
		Filename: "gone.js",
		Start:    token.Position{Line: 40, Column: 1},
		End:      token.Position{Line: 41, Column: 1},
		Message:  "stale position",
	}

	out := GenerateFormattedIssue([]tt.Issue{issue}, nil)
	assert.Contains(t, out, "gone.js:40:1")
	assert.Contains(t, out, "| stale position")
}

func TestGenerateSummary(t *testing.T) {
	t.Parallel()
	assert.Empty(t, GenerateSummary(nil, SummaryASCII))

	issues := []tt.Issue{
		{Rule: PreferEarlyReturn, Filename: "a.js", Severity: tt.SeverityWarning, Fix: &tt.TextEdit{}},
		{Rule: PreferEarlyReturn, Filename: "b.js", Severity: tt.SeverityError, Fix: &tt.TextEdit{}},
		{Rule: "other", Filename: "a.js", Severity: tt.SeverityInfo},
	}

	ascii := GenerateSummary(issues, SummaryASCII)
	assert.Contains(t, ascii, PreferEarlyReturn)
	assert.Contains(t, strings.ToLower(ascii), "total")
	assert.Less(t, strings.Index(ascii, "other"), strings.Index(ascii, PreferEarlyReturn))

	md := GenerateSummary(issues, SummaryMarkdown)
	assert.True(t, strings.HasPrefix(md, "|"))
	assert.Contains(t, strings.ToLower(md), "fixable")
}

func TestGenerateJSON(t *testing.T) {
	t.Parallel()
	issues := []tt.Issue{
		{Rule: PreferEarlyReturn, Filename: "a.js", Message: "first"},
		{Rule: PreferEarlyReturn, Filename: "b.js", Message: "second"},
		{Rule: PreferEarlyReturn, Filename: "a.js", Message: "third"},
	}

	data, err := GenerateJSON(issues)
	require.NoError(t, err)

	var decoded map[string][]tt.Issue
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded["a.js"], 2)
	assert.Equal(t, "first", decoded["a.js"][0].Message)
	assert.Equal(t, "third", decoded["a.js"][1].Message)
	assert.Len(t, decoded["b.js"], 1)
}

func TestFindCommonIndent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		expected string
		lines    []string
	}{
		{
			name: "whitespace indent",
			lines: []string{
				"    if (foo) {",
				"        log();",
				"    }",
			},
			expected: "    ",
		},
		{
			name: "tab indent",
			lines: []string{
				"\tif (foo) {",
				"\t\tlog();",
				"\t}",
			},
			expected: "\t",
		},
		{
			name: "mixed indent (space and tab)",
			lines: []string{
				"\t    if (foo) {",
				"\t    \tlog();",
				"\t    }",
			},
			expected: "\t    ",
		},
		{
			name: "no indent",
			lines: []string{
				"if (foo) {",
				"log();",
				"}",
			},
			expected: "",
		},
		{
			name: "empty line",
			lines: []string{
				"    if (foo) {",
				"",
				"        log();",
				"    }",
			},
			expected: "    ",
		},
		{
			name: "various indent levels",
			lines: []string{
				"    if (foo) {",
				"      bar();",
				"        baz();",
				"    }",
			},
			expected: "    ",
		},
		{
			name:     "empty input",
			lines:    []string{},
			expected: "",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, findCommonIndent(tc.lines))
		})
	}
}
