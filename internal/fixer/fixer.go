package fixer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/gnolang/jlint/internal/jsast"
	tt "github.com/gnolang/jlint/internal/types"
)

// MaxPasses bounds FixAll. Fixes that overlap an applied fix are retried in
// the next pass, after the file has been linted again.
const MaxPasses = 10

// ErrInvalidResult is returned when applying fixes would leave a file that
// no longer parses. The file is not modified.
var ErrInvalidResult = errors.New("fixed source does not parse")

type Fixer struct {
	DryRun        bool
	MinConfidence float64 // threshold for fixing issues
	// Out receives dry-run reports. Defaults to os.Stdout.
	Out io.Writer
}

func New(dryRun bool, threshold float64) *Fixer {
	return &Fixer{
		DryRun:        dryRun,
		MinConfidence: threshold,
		Out:           os.Stdout,
	}
}

// Result summarises one fixing pass over a file.
type Result struct {
	// Applied counts the edits written (or, in dry-run mode, that would be).
	Applied int
	// Deferred counts edits skipped because they overlap an applied edit.
	Deferred int
	// Content is the fixed source.
	Content []byte
}

// Fix applies the fixes carried by issues to filename in a single pass.
func (f *Fixer) Fix(filename string, issues []tt.Issue) (Result, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read file: %w", err)
	}

	var edits []tt.TextEdit
	for _, issue := range issues {
		if issue.Fix == nil || issue.Confidence < f.MinConfidence {
			continue
		}
		if f.DryRun {
			fmt.Fprintf(f.out(), "Would fix issue in %s at line %d: %s\n", filename, issue.Start.Line, issue.Message)
			fmt.Fprintf(f.out(), "Suggestion:\n%s\n", issue.Fix.NewText)
		}
		edits = append(edits, *issue.Fix)
	}
	if len(edits) == 0 {
		return Result{Content: content}, nil
	}

	fixed, applied, deferred := ApplyEdits(content, edits)
	res := Result{Applied: applied, Deferred: deferred, Content: fixed}

	if _, err := jsast.Parse(filename, fixed); err != nil {
		return Result{Content: content}, fmt.Errorf("%w: %s: %v", ErrInvalidResult, filename, err)
	}

	if f.DryRun {
		return res, nil
	}

	info, err := os.Stat(filename)
	if err != nil {
		return Result{}, fmt.Errorf("failed to stat file: %w", err)
	}
	if err := os.WriteFile(filename, fixed, info.Mode().Perm()); err != nil {
		return Result{}, fmt.Errorf("failed to write file: %w", err)
	}
	return res, nil
}

// FixAll lints and fixes filename repeatedly until no fix is left or
// MaxPasses is reached. It returns the total number of applied edits.
func (f *Fixer) FixAll(filename string, lint func(string) ([]tt.Issue, error)) (int, error) {
	total := 0
	for pass := 0; pass < MaxPasses; pass++ {
		issues, err := lint(filename)
		if err != nil {
			return total, err
		}
		res, err := f.Fix(filename, issues)
		if err != nil {
			return total, err
		}
		total += res.Applied
		// the file on disk is unchanged in dry-run mode, a second pass
		// would only repeat the first
		if res.Applied == 0 || res.Deferred == 0 || f.DryRun {
			break
		}
	}
	return total, nil
}

func (f *Fixer) out() io.Writer {
	if f.Out == nil {
		return os.Stdout
	}
	return f.Out
}

// ApplyEdits applies non-overlapping edits to src. Edits are taken in order
// of their start offset; an edit overlapping one already taken is deferred.
// It returns the new source and the number of applied and deferred edits.
func ApplyEdits(src []byte, edits []tt.TextEdit) ([]byte, int, int) {
	sorted := make([]tt.TextEdit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start.Offset != sorted[j].Start.Offset {
			return sorted[i].Start.Offset < sorted[j].Start.Offset
		}
		return sorted[i].End.Offset > sorted[j].End.Offset
	})

	var accepted []tt.TextEdit
	deferred := 0
	lastEnd := -1
	for _, e := range sorted {
		if e.Start.Offset < 0 || e.End.Offset > len(src) || e.Start.Offset > e.End.Offset {
			deferred++
			continue
		}
		if e.Start.Offset < lastEnd {
			deferred++
			continue
		}
		accepted = append(accepted, e)
		lastEnd = e.End.Offset
	}

	// apply back to front so earlier offsets stay valid
	out := append([]byte(nil), src...)
	for i := len(accepted) - 1; i >= 0; i-- {
		e := accepted[i]
		tail := append([]byte(e.NewText), out[e.End.Offset:]...)
		out = append(out[:e.Start.Offset], tail...)
	}
	return out, len(accepted), deferred
}
