package formatter

// EarlyReturnFormatter renders prefer-early-return issues. The suggestion
// is numbered from the line of the rewritten if statement, not from the
// start of the function body the diagnostic points at.
type EarlyReturnFormatter struct{}

func (f *EarlyReturnFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn -}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent}}

{{- if .Suggestion }}
{{suggestion .Suggestion .Padding .MaxLineNumWidth .FixLine}}
{{- end }}

{{- if .Note }}
{{note .Note}}
{{- end }}
`
}
