package internal

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/jlint/internal/jsast"
	"github.com/gnolang/jlint/internal/lints"
	tt "github.com/gnolang/jlint/internal/types"
)

// createTempDir creates a temporary directory and returns its path.
// It also registers a cleanup function to remove the directory after the test.
func createTempDir(t testing.TB, prefix string) string {
	tempDir, err := os.MkdirTemp("", prefix)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })
	return tempDir
}

const wrappedBody = `function process(user) {
  if (user.isActive) {
    load(user);
    render(user);
  }
}
`

func TestNewEngine(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(createTempDir(t, "engine_test"), nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, engine)
	assert.NotEmpty(t, engine.rules)
	assert.NotEmpty(t, engine.fingerprint)
	assert.Equal(t, []string{"prefer-early-return"}, RuleNames())
}

func TestNewEngineInvalidOptions(t *testing.T) {
	t.Parallel()

	rules := map[string]tt.ConfigRule{
		"prefer-early-return": {Data: map[string]any{"maximumStatements": -1}},
	}
	_, err := NewEngine("", rules, nil)
	assert.ErrorIs(t, err, lints.ErrInvalidOption)

	rules = map[string]tt.ConfigRule{
		"prefer-early-return": {Data: map[string]any{"unknown": true}},
	}
	_, err = NewEngine("", rules, nil)
	assert.ErrorIs(t, err, lints.ErrInvalidOption)
}

func TestEngine_IgnoreRule(t *testing.T) {
	t.Parallel()
	engine := &Engine{}
	engine.IgnoreRule("test_rule")

	assert.True(t, engine.ignoredRules["test_rule"])
}

func TestEngine_RunSource(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine("", nil, nil)
	require.NoError(t, err)

	issues, err := engine.RunSource([]byte(wrappedBody))
	require.NoError(t, err)
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, "prefer-early-return", issue.Rule)
	assert.Equal(t, tt.SeverityWarning, issue.Severity)
	assert.Equal(t, "<input>", issue.Filename)
	require.NotNil(t, issue.Fix)
	assert.Equal(t, "if (!user.isActive) {\n      return;\n  }\n  load(user);\n  render(user);", issue.Fix.NewText)
}

func TestEngine_Configuration(t *testing.T) {
	t.Parallel()

	src := []byte("function f() {\n  if (x) {\n    a();\n  }\n}\n")

	tests := []struct {
		name     string
		rules    map[string]tt.ConfigRule
		expected int
		severity tt.Severity
	}{
		{
			name:     "default threshold",
			expected: 0,
		},
		{
			name: "threshold zero",
			rules: map[string]tt.ConfigRule{
				"prefer-early-return": {Data: map[string]any{"maximumStatements": 0}},
			},
			expected: 1,
			severity: tt.SeverityWarning,
		},
		{
			name: "severity override",
			rules: map[string]tt.ConfigRule{
				"prefer-early-return": {Severity: tt.SeverityError, Data: map[string]any{"maximumStatements": 0}},
			},
			expected: 1,
			severity: tt.SeverityError,
		},
		{
			name: "rule turned off",
			rules: map[string]tt.ConfigRule{
				"prefer-early-return": {Severity: tt.SeverityOff, Data: map[string]any{"maximumStatements": 0}},
			},
			expected: 0,
		},
		{
			name: "unknown rules are ignored",
			rules: map[string]tt.ConfigRule{
				"no-such-rule": {Severity: tt.SeverityError},
			},
			expected: 0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			engine, err := NewEngine("", tt.rules, nil)
			require.NoError(t, err)

			issues, err := engine.RunSource(src)
			require.NoError(t, err)
			require.Len(t, issues, tt.expected)
			if tt.expected > 0 {
				assert.Equal(t, tt.severity, issues[0].Severity)
			}
		})
	}
}

func TestEngine_Nolint(t *testing.T) {
	t.Parallel()

	src := []byte(`// nolint:prefer-early-return
function a() {
  if (x) { b(); c(); }
}

function d() {
  if (x) { b(); c(); }
}

function e() { // nolint
  if (x) { b(); c(); }
}
`)
	engine, err := NewEngine("", nil, nil)
	require.NoError(t, err)

	issues, err := engine.RunSource(src)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, 6, issues[0].Start.Line)
}

func TestEngine_RunFile(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t, "run_test")

	path := filepath.Join(tempDir, "a.js")
	require.NoError(t, os.WriteFile(path, []byte(wrappedBody), 0o644))

	engine, err := NewEngine(tempDir, nil, nil)
	require.NoError(t, err)

	issues, err := engine.Run(path)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, path, issues[0].Filename)
	assert.Equal(t, path, issues[0].Start.Filename)

	_, err = engine.Run(filepath.Join(tempDir, "missing.js"))
	assert.Error(t, err)
}

func TestEngine_SyntaxError(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine("", nil, nil)
	require.NoError(t, err)

	_, err = engine.RunSource([]byte("function ("))
	require.Error(t, err)
	var synErr *jsast.SyntaxError
	assert.ErrorAs(t, err, &synErr)
}

func TestEngine_IgnorePath(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t, "ignore_test")

	vendor := filepath.Join(tempDir, "vendor")
	require.NoError(t, os.MkdirAll(vendor, 0o755))
	paths := map[string]string{
		"vendored": filepath.Join(vendor, "lib.js"),
		"minified": filepath.Join(tempDir, "app.min.js"),
		"regular":  filepath.Join(tempDir, "app.js"),
	}
	for _, p := range paths {
		require.NoError(t, os.WriteFile(p, []byte(wrappedBody), 0o644))
	}

	engine, err := NewEngine(tempDir, nil, nil)
	require.NoError(t, err)
	engine.IgnorePath("vendor")
	engine.IgnorePath("*.min.js")
	engine.IgnorePath("  ")

	for name, p := range paths {
		issues, err := engine.Run(p)
		require.NoError(t, err, name)
		if name == "regular" {
			assert.Len(t, issues, 1, name)
		} else {
			assert.Empty(t, issues, name)
		}
	}
}

func TestEngine_ConcurrentRuns(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine("", nil, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			issues, err := engine.RunSource([]byte(wrappedBody))
			assert.NoError(t, err)
			assert.Len(t, issues, 1)
		}()
	}
	wg.Wait()
}

func TestIsSourceFile(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"a.js", "b.mjs", "c.cjs"} {
		assert.True(t, IsSourceFile(name), name)
	}
	for _, name := range []string{"a.ts", "b.go", "c", "d.json", "e.jsx"} {
		assert.False(t, IsSourceFile(name), name)
	}
}

func TestReadSourceCode(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t, "source_test")

	path := filepath.Join(tempDir, "a.js")
	require.NoError(t, os.WriteFile(path, []byte("a();\nb();"), 0o644))

	sc, err := ReadSourceCode(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a();", "b();"}, sc.Lines)
}

func TestWatch(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t, "watch_test")

	engine, err := NewEngine(tempDir, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reports := make(chan []tt.Issue, 4)
	done := make(chan error, 1)
	go func() {
		done <- engine.Watch(ctx, []string{tempDir}, func(_ string, issues []tt.Issue, err error) {
			assert.NoError(t, err)
			reports <- issues
		})
	}()

	// give the watcher time to register the directory
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "ignored.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "w.js"), []byte(wrappedBody), 0o644))

	select {
	case issues := <-reports:
		assert.Len(t, issues, 1)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch report")
	}

	cancel()
	assert.NoError(t, <-done)
}
