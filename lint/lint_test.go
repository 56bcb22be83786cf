package lint

import (
	"context"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnolang/jlint/internal/types"
)

type mockLintEngine struct {
	mock.Mock
}

func (m *mockLintEngine) Run(filePath string) ([]types.Issue, error) {
	args := m.Called(filePath)
	return args.Get(0).([]types.Issue), args.Error(1)
}

func (m *mockLintEngine) RunSource(source []byte) ([]types.Issue, error) {
	args := m.Called(source)
	return args.Get(0).([]types.Issue), args.Error(1)
}

func (m *mockLintEngine) IgnoreRule(rule string) {
	m.Called(rule)
}

func (m *mockLintEngine) IgnorePath(path string) {
	m.Called(path)
}

func setupMockEngine(expectedIssues []types.Issue, filePath string) *mockLintEngine {
	mockEngine := new(mockLintEngine)
	mockEngine.On("Run", filePath).Return(expectedIssues, nil)
	return mockEngine
}

func setupSourceMockEngine(expectedIssues []types.Issue, content []byte) *mockLintEngine {
	mockEngine := new(mockLintEngine)
	mockEngine.On("RunSource", content).Return(expectedIssues, nil)
	return mockEngine
}

func testIssue(rule, filename, message string) types.Issue {
	return types.Issue{
		Rule:     rule,
		Filename: filename,
		Start:    token.Position{Filename: filename, Offset: 0, Line: 1, Column: 1},
		End:      token.Position{Filename: filename, Offset: 10, Line: 1, Column: 11},
		Message:  message,
	}
}

func TestProcessFile(t *testing.T) {
	t.Parallel()
	expectedIssues := []types.Issue{testIssue("test-rule", "test.js", "Test issue")}
	mockEngine := setupMockEngine(expectedIssues, "test.js")

	issues, err := ProcessFile(mockEngine, "test.js")

	assert.NoError(t, err)
	assert.Equal(t, expectedIssues, issues)
	mockEngine.AssertExpectations(t)
}

func TestProcessSource(t *testing.T) {
	t.Parallel()
	src := []byte("function f() {}")
	expectedIssues := []types.Issue{testIssue("test-rule", "<input>", "Test issue")}
	mockEngine := setupSourceMockEngine(expectedIssues, src)

	issues, err := ProcessSource(mockEngine, src)

	assert.NoError(t, err)
	assert.Equal(t, expectedIssues, issues)
	mockEngine.AssertExpectations(t)
}

func TestProcessPath(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()
	ctx := context.Background()

	tempDir := t.TempDir()
	paths := createTempFiles(t, tempDir, "test1.js", "test2.mjs", "notes.txt")

	expectedIssues := []types.Issue{
		testIssue("rule1", paths[0], "Test issue 1"),
		testIssue("rule2", paths[1], "Test issue 2"),
	}

	mockEngine := new(mockLintEngine)
	mockEngine.On("Run", paths[0]).Return([]types.Issue{expectedIssues[0]}, nil)
	mockEngine.On("Run", paths[1]).Return([]types.Issue{expectedIssues[1]}, nil)

	issues, err := ProcessPath(ctx, logger, mockEngine, tempDir, ProcessFile)

	assert.NoError(t, err)
	assert.Equal(t, expectedIssues, issues, "results follow file order")
	mockEngine.AssertExpectations(t)
	mockEngine.AssertNotCalled(t, "Run", paths[2])
}

func TestProcessPathSkipsVendorDirs(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	for _, dir := range []string{"node_modules", ".git", "src"} {
		require.NoError(t, os.Mkdir(filepath.Join(tempDir, dir), 0o755))
	}
	createTempFiles(t, filepath.Join(tempDir, "node_modules"), "dep.js")
	createTempFiles(t, filepath.Join(tempDir, ".git"), "hook.js")
	kept := createTempFiles(t, filepath.Join(tempDir, "src"), "app.js")

	files, err := CollectFiles(tempDir)
	require.NoError(t, err)
	assert.Equal(t, kept, files)
}

func TestProcessFiles(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()
	ctx := context.Background()

	tempDir := t.TempDir()
	paths := createTempFiles(t, tempDir, "test1.js", "test2.js")

	expectedIssues := []types.Issue{
		testIssue("rule1", paths[0], "Test issue 1"),
		testIssue("rule2", paths[1], "Test issue 2"),
	}

	mockEngine := new(mockLintEngine)
	mockEngine.On("Run", paths[0]).Return([]types.Issue{expectedIssues[0]}, nil)
	mockEngine.On("Run", paths[1]).Return([]types.Issue{expectedIssues[1]}, nil)

	issues, err := ProcessFiles(ctx, logger, mockEngine, paths, ProcessFile)

	assert.NoError(t, err)
	assert.Len(t, issues, 2)
	assert.Contains(t, issues, expectedIssues[0])
	assert.Contains(t, issues, expectedIssues[1])
	mockEngine.AssertExpectations(t)
}

func TestProcessSources(t *testing.T) {
	t.Parallel()
	logger, _ := zap.NewProduction()
	ctx := context.Background()

	expectedIssues := []types.Issue{
		testIssue("rule1", "<input>", "Test issue 1"),
		testIssue("rule2", "<input>", "Test issue 2"),
	}

	mockEngine := new(mockLintEngine)
	mockEngine.On("RunSource", []byte("f1()")).Return([]types.Issue{expectedIssues[0]}, nil)
	mockEngine.On("RunSource", []byte("f2()")).Return([]types.Issue{expectedIssues[1]}, nil)

	issues, err := ProcessSources(ctx, logger, mockEngine, [][]byte{[]byte("f1()"), []byte("f2()")}, ProcessSource)

	assert.NoError(t, err)
	assert.Equal(t, expectedIssues, issues)
	mockEngine.AssertExpectations(t)
}

func TestHasDesiredExtension(t *testing.T) {
	t.Parallel()
	assert.True(t, hasDesiredExtension("test.js"))
	assert.True(t, hasDesiredExtension("test.mjs"))
	assert.True(t, hasDesiredExtension("test.cjs"))
	assert.False(t, hasDesiredExtension("test.jsx"))
	assert.False(t, hasDesiredExtension("test.ts"))
	assert.False(t, hasDesiredExtension("test.go"))
	assert.False(t, hasDesiredExtension("test"))
}

func TestParseConfigurationFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}

	tests := []struct {
		name     string
		path     string
		wantErr  bool
		severity types.Severity
		data     map[string]any
	}{
		{name: "no path", path: ""},
		{name: "missing file", path: filepath.Join(dir, "absent.yaml")},
		{name: "empty file", path: write("empty.yaml", "")},
		{
			name: "full rule",
			path: write("full.yaml", `name: jlint
rules:
  prefer-early-return:
    severity: ERROR
    data:
      maximumStatements: 3
`),
			severity: types.SeverityError,
			data:     map[string]any{"maximumStatements": 3},
		},
		{name: "malformed", path: write("bad.yaml", "rules: [unterminated"), wantErr: true},
		{name: "bad severity", path: write("sev.yaml", "rules:\n  prefer-early-return:\n    severity: LOUD\n"), wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := parseConfigurationFile(tc.path)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			rule := cfg.Rules["prefer-early-return"]
			assert.Equal(t, tc.severity, rule.Severity)
			assert.Equal(t, tc.data, rule.Data)
		})
	}
}

func TestDefaultConfigRoundTripsThroughNew(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, DefaultConfigFile)
	require.NoError(t, WriteConfig(cfgPath, DefaultConfig()))

	engine, err := New(dir, cfgPath, nil)
	require.NoError(t, err)

	src := []byte("function f(a) {\n  if (a) {\n    g();\n    h();\n  }\n}\n")
	issues, err := engine.RunSource(src)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, types.SeverityWarning, issues[0].Severity)
}

func createTempFiles(t *testing.T, dir string, fileNames ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(fileNames))
	for _, fileName := range fileNames {
		filePath := filepath.Join(dir, fileName)
		f, err := os.Create(filePath)
		require.NoError(t, err)
		require.NoError(t, f.Close())
		paths = append(paths, filePath)
	}
	return paths
}
