package formatter

import (
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	tt "github.com/gnolang/jlint/internal/types"
)

// SummaryMode selects how GenerateSummary renders its table.
type SummaryMode int

const (
	SummaryASCII    SummaryMode = iota // fixed-width terminal table
	SummaryMarkdown                    // GitHub-flavoured Markdown table
)

type summaryRow struct {
	rule     string
	errors   int
	warnings int
	infos    int
	fixable  int
	files    map[string]struct{}
}

// GenerateSummary renders per-rule issue counts, with a totals footer.
// It returns an empty string when there are no issues.
func GenerateSummary(issues []tt.Issue, mode SummaryMode) string {
	if len(issues) == 0 {
		return ""
	}

	rows := make(map[string]*summaryRow)
	allFiles := make(map[string]struct{})
	for _, issue := range issues {
		r, ok := rows[issue.Rule]
		if !ok {
			r = &summaryRow{rule: issue.Rule, files: make(map[string]struct{})}
			rows[issue.Rule] = r
		}
		switch issue.Severity {
		case tt.SeverityError:
			r.errors++
		case tt.SeverityInfo:
			r.infos++
		default:
			r.warnings++
		}
		if issue.Fix != nil {
			r.fixable++
		}
		r.files[issue.Filename] = struct{}{}
		allFiles[issue.Filename] = struct{}{}
	}

	rules := make([]string, 0, len(rows))
	for rule := range rows {
		rules = append(rules, rule)
	}
	sort.Strings(rules)

	w := table.NewWriter()
	w.AppendHeader(table.Row{"Rule", "Errors", "Warnings", "Info", "Fixable", "Files"})

	var total summaryRow
	for _, rule := range rules {
		r := rows[rule]
		w.AppendRow(table.Row{r.rule, r.errors, r.warnings, r.infos, r.fixable, len(r.files)})
		total.errors += r.errors
		total.warnings += r.warnings
		total.infos += r.infos
		total.fixable += r.fixable
	}
	w.AppendFooter(table.Row{"Total", total.errors, total.warnings, total.infos, total.fixable, len(allFiles)})

	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 5, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 6, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	if mode == SummaryMarkdown {
		return w.RenderMarkdown()
	}
	w.SetStyle(table.StyleLight)
	return w.Render()
}
