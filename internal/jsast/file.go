package jsast

import (
	"fmt"
	"go/token"
	"os"
)

// File is a parsed JavaScript source file.
type File struct {
	Name     string
	Src      []byte
	Body     []Stmt
	Comments []*Comment

	Fset *token.FileSet
	tf   *token.File
}

// SyntaxError reports the first syntax error found in a source file.
type SyntaxError struct {
	Pos token.Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// ParseFile reads and parses the named file.
func ParseFile(filename string) (*File, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(filename, src)
}

// Position converts a byte offset into a line/column position.
func (f *File) Position(offset int) token.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > f.tf.Size() {
		offset = f.tf.Size()
	}
	return f.tf.Position(f.tf.Pos(offset))
}

// Text returns the source text covered by n.
func (f *File) Text(n Node) string {
	return string(f.Src[n.Pos():n.End()])
}

// LineStart returns the offset of the first byte of the line containing offset.
func (f *File) LineStart(offset int) int {
	for offset > 0 && f.Src[offset-1] != '\n' && f.Src[offset-1] != '\r' {
		offset--
	}
	return offset
}

// Line returns the full text of the line containing offset, without its
// line terminator.
func (f *File) Line(offset int) string {
	start := f.LineStart(offset)
	end := offset
	for end < len(f.Src) && f.Src[end] != '\n' && f.Src[end] != '\r' {
		end++
	}
	return string(f.Src[start:end])
}
