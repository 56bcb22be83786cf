package lint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/jlint/internal/jsast"
	tt "github.com/gnolang/jlint/internal/types"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

// TestProcessPathContextCancellation checks that an already cancelled
// context stops directory processing.
func TestProcessPathContextCancellation(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	files := make(map[string]string)
	for i := 0; i < 10; i++ {
		files[fmt.Sprintf("test%d.js", i)] = fmt.Sprintf("function test%d(x) {\n  if (x) {\n    run(x);\n    stop(x);\n  }\n}\n", i)
	}
	writeFiles(t, tempDir, files)

	engine, err := New(tempDir, "", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	issues, err := ProcessPath(ctx, nil, engine, tempDir, ProcessFile)

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotNil(t, issues)
}

// TestProcessPathCollectsEveryFile runs the real engine over a directory.
func TestProcessPathCollectsEveryFile(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	files := make(map[string]string)
	for i := 0; i < 5; i++ {
		content := ""
		for j := 0; j <= i; j++ {
			content += fmt.Sprintf("function f%d(x) {\n  if (x > %d) {\n    log(x);\n    flush();\n  }\n}\n", j, j)
		}
		files[fmt.Sprintf("test%d.js", i)] = content
	}
	writeFiles(t, tempDir, files)

	engine, err := New(tempDir, "", nil)
	require.NoError(t, err)

	issues, err := ProcessPath(context.Background(), nil, engine, tempDir, ProcessFile)
	require.NoError(t, err)

	perFile := make(map[string]int)
	for _, issue := range issues {
		perFile[filepath.Base(issue.Filename)]++
	}
	for i := 0; i < 5; i++ {
		assert.Equal(t, i+1, perFile[fmt.Sprintf("test%d.js", i)])
	}
}

// TestProcessPathSkipsJSXFiles checks that JSX sources in a directory are
// not handed to the parser.
func TestProcessPathSkipsJSXFiles(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeFiles(t, tempDir, map[string]string{
		"view.jsx": "export function View() {\n  return <div>hi</div>;\n}\n",
		"main.js":  "function f(x) {\n  if (x) {\n    log(x);\n    flush();\n  }\n}\n",
	})

	engine, err := New(tempDir, "", nil)
	require.NoError(t, err)

	issues, err := ProcessPath(context.Background(), nil, engine, tempDir, ProcessFile)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "main.js", filepath.Base(issues[0].Filename))
}

// TestConcurrentProcessingWithErrors checks that one broken file does not
// hide the results of the others.
func TestConcurrentProcessingWithErrors(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeFiles(t, tempDir, map[string]string{
		"valid0.js":  "function a(x) {\n  if (x) {\n    b();\n    c();\n  }\n}\n",
		"valid1.js":  "function c() {}\n",
		"invalid.js": "function (( {",
	})

	engine, err := New(tempDir, "", nil)
	require.NoError(t, err)

	issues, err := ProcessPath(context.Background(), nil, engine, tempDir, ProcessFile)

	require.Error(t, err)
	var synErr *jsast.SyntaxError
	assert.ErrorAs(t, err, &synErr)
	require.Len(t, issues, 1)
	assert.Equal(t, "valid0.js", filepath.Base(issues[0].Filename))
}

// TestErrorPropagationSingleFile checks that errors are propagated for single files.
func TestErrorPropagationSingleFile(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	invalidFile := filepath.Join(tempDir, "invalid.js")
	require.NoError(t, os.WriteFile(invalidFile, []byte("let = ;"), 0o644))

	engine, err := New(tempDir, "", nil)
	require.NoError(t, err)

	issues, err := ProcessPath(context.Background(), nil, engine, invalidFile, ProcessFile)

	assert.Error(t, err)
	assert.Equal(t, []tt.Issue{}, issues)
}

func TestProcessPathMissing(t *testing.T) {
	t.Parallel()
	engine, err := New(t.TempDir(), "", nil)
	require.NoError(t, err)

	_, err = ProcessPath(context.Background(), nil, engine, filepath.Join(t.TempDir(), "nope"), ProcessFile)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
