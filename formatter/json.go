package formatter

import (
	"encoding/json"

	tt "github.com/gnolang/jlint/internal/types"
)

// GroupByFile buckets issues by filename, preserving their order.
func GroupByFile(issues []tt.Issue) map[string][]tt.Issue {
	byFile := make(map[string][]tt.Issue)
	for _, issue := range issues {
		byFile[issue.Filename] = append(byFile[issue.Filename], issue)
	}
	return byFile
}

// GenerateJSON encodes issues as a JSON object keyed by filename.
func GenerateJSON(issues []tt.Issue) ([]byte, error) {
	return json.Marshal(GroupByFile(issues))
}
