package nolint

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/gnolang/jlint/internal/jsast"
)

const nolintPrefix = "nolint"

// Manager manages nolint scopes and checks if a position is nolinted.
type Manager struct {
	// scopes maps filename to a slice of nolint scopes.
	scopes map[string][]nolintScope
}

// nolintScope represents a range in the code where nolint applies.
type nolintScope struct {
	rules map[string]struct{}
	start token.Position
	end   token.Position
}

// ParseComments parses nolint comments in the given file and returns a Manager.
//
// A nolint comment is a line comment of the form "// nolint" or
// "// nolint:rule-a,rule-b". Its scope is, in order of preference:
//   - the whole file, when it precedes the first statement and is not
//     directly followed by one;
//   - the statement it trails on the same line;
//   - the statement or class member starting on the next line;
//   - otherwise, its own line.
func ParseComments(f *jsast.File) *Manager {
	manager := Manager{
		scopes: make(map[string][]nolintScope, len(f.Comments)),
	}
	nodeMap := indexNodesByLine(f)
	firstLine := firstStatementLine(f)

	for _, comment := range f.Comments {
		ns, err := parseComment(comment, f, nodeMap, firstLine)
		if err != nil {
			// ignore invalid nolint comments
			continue
		}
		filename := ns.start.Filename
		manager.scopes[filename] = append(manager.scopes[filename], ns)
	}
	return &manager
}

// parseComment parses a single nolint comment and determines its scope.
func parseComment(
	comment *jsast.Comment,
	f *jsast.File,
	nodeMap map[int]jsast.Node,
	firstLine int,
) (nolintScope, error) {
	var ns nolintScope
	if comment.Block {
		return ns, fmt.Errorf("block comments cannot carry nolint directives")
	}

	text := strings.TrimSpace(strings.TrimPrefix(comment.Text, "//"))
	if !strings.HasPrefix(text, nolintPrefix) {
		return ns, fmt.Errorf("invalid nolint comment")
	}
	rest := text[len(nolintPrefix):]

	// A nolint comment can either have a list of rules after a colon (:)
	// or if no rules are specified, it applies to all rules
	if len(rest) > 0 && rest[0] != ':' {
		return ns, fmt.Errorf("invalid nolint comment format")
	}
	if len(rest) > 0 && rest[0] == ':' {
		rest = strings.TrimSpace(rest[1:])
		if rest == "" {
			return ns, fmt.Errorf("invalid nolint comment: no rules specified after colon")
		}
	}
	ns.rules = parseIgnoreRuleNames(rest)
	pos := f.Position(comment.Pos())

	nextLine := pos.Line + 1
	_, nextIsCode := nodeMap[nextLine]

	// A header comment not attached to a statement applies to the whole file
	if pos.Line < firstLine && !nextIsCode {
		ns.start = f.Position(0)
		ns.end = f.Position(len(f.Src))
		return ns, nil
	}

	// Check if the comment is inline (appears after code on the same line)
	if node, exists := nodeMap[pos.Line]; exists && pos.Offset > node.Pos() {
		ns.start = f.Position(node.Pos())
		ns.end = f.Position(node.End())
		return ns, nil
	}

	// For standalone comments: if there's a statement on the next line,
	// apply to that statement's scope while including the comment line itself
	if node, exists := nodeMap[nextLine]; exists {
		ns.start = pos
		ns.end = f.Position(node.End())
		return ns, nil
	}

	// default behavior:
	// apply only to the comment line
	ns.start = pos
	ns.end = pos
	return ns, nil
}

// parseIgnoreRuleNames parses the rule list from the nolint comment.
func parseIgnoreRuleNames(text string) map[string]struct{} {
	rulesMap := make(map[string]struct{})
	if text == "" {
		return rulesMap
	}
	for _, rule := range strings.Split(text, ",") {
		rule = strings.TrimSpace(rule)
		if rule != "" {
			rulesMap[rule] = struct{}{}
		}
	}
	return rulesMap
}

// indexNodesByLine traverses the tree once and maps each line to the
// outermost statement or class member starting on it.
func indexNodesByLine(f *jsast.File) map[int]jsast.Node {
	nodeMap := make(map[int]jsast.Node)
	jsast.InspectFile(f, func(n jsast.Node) bool {
		if n == nil {
			return false
		}
		switch n.(type) {
		case jsast.Stmt, *jsast.ClassMember:
			line := f.Position(n.Pos()).Line
			if _, exists := nodeMap[line]; !exists {
				nodeMap[line] = n
			}
		}
		return true
	})
	return nodeMap
}

func firstStatementLine(f *jsast.File) int {
	if len(f.Body) == 0 {
		// no code: every comment is a header comment
		return int(^uint(0) >> 1)
	}
	return f.Position(f.Body[0].Pos()).Line
}

// IsNolint checks if a given position and rule are nolinted.
func (m *Manager) IsNolint(pos token.Position, ruleName string) bool {
	scopes, exists := m.scopes[pos.Filename]
	if !exists {
		return false
	}
	for _, ns := range scopes {
		if pos.Line < ns.start.Line || pos.Line > ns.end.Line {
			continue
		}
		// If the rules list is empty, nolint applies to all rules
		if len(ns.rules) == 0 {
			return true
		}
		if _, exists := ns.rules[ruleName]; exists {
			return true
		}
	}
	return false
}
