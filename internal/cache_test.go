package internal

import (
	"go/token"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/gnolang/jlint/internal/types"
)

func TestCache(t *testing.T) {
	t.Parallel()
	tmpDir := createTempDir(t, "cache-test")

	cacheDir := filepath.Join(tmpDir, "cache")
	cache, err := NewCache(cacheDir)
	require.NoError(t, err)

	t.Run("SaveAndLoad", func(t *testing.T) {
		filename := filepath.Join(tmpDir, "test.js")
		writeTestFile(t, filename, "function main() {}\n")

		issues := []tt.Issue{
			{
				Rule:     "test-rule",
				Category: "test-category",
				Filename: filename,
				Message:  "test issue",
				Start:    token.Position{Line: 10, Column: 1, Filename: filename},
				End:      token.Position{Line: 10, Column: 10, Filename: filename},
				Fix:      &tt.TextEdit{NewText: "x"},
			},
		}
		require.NoError(t, cache.Set(filename, "fp", issues))

		loadedIssues, found := cache.Get(filename, "fp")
		assert.True(t, found)
		assert.Equal(t, issues, loadedIssues)

		// a fresh cache reads the persisted entries back
		reopened, err := NewCache(cacheDir)
		require.NoError(t, err)
		persisted, found := reopened.Get(filename, "fp")
		assert.True(t, found)
		assert.Equal(t, issues, persisted)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, found := cache.Get("nonexistent.js", "fp")
		assert.False(t, found)
	})

	t.Run("FingerprintChanged", func(t *testing.T) {
		filename := filepath.Join(tmpDir, "config.js")
		writeTestFile(t, filename, "function main() {}\n")

		require.NoError(t, cache.Set(filename, "old", nil))
		_, found := cache.Get(filename, "new")
		assert.False(t, found)
	})

	t.Run("FileModified", func(t *testing.T) {
		filename := filepath.Join(tmpDir, "modified.js")
		writeTestFile(t, filename, "function main() {}\n")

		require.NoError(t, cache.Set(filename, "fp", []tt.Issue{{Rule: "test-rule"}}))

		require.NoError(t, os.WriteFile(filename, []byte("function main() { hello(); }\n"), 0o644))

		_, found := cache.Get(filename, "fp")
		assert.False(t, found)
	})

	t.Run("Expired", func(t *testing.T) {
		filename := filepath.Join(tmpDir, "expired.js")
		writeTestFile(t, filename, "function main() {}\n")

		short, err := NewCache(filepath.Join(tmpDir, "short"))
		require.NoError(t, err)
		short.SetMaxAge(-time.Second)

		require.NoError(t, short.Set(filename, "fp", nil))
		_, found := short.Get(filename, "fp")
		assert.False(t, found)
	})
}

func TestCacheWithEngine(t *testing.T) {
	t.Parallel()
	tmpDir := createTempDir(t, "cache-engine-test")

	engine, err := NewEngine(tmpDir, nil, nil)
	require.NoError(t, err)
	require.NoError(t, engine.EnableCache(filepath.Join(tmpDir, "cache")))

	filename := filepath.Join(tmpDir, "test.js")
	writeTestFile(t, filename, "function main() {\n  if (ready) {\n    a();\n    b();\n  }\n}\n")

	issues, err := engine.Run(filename)
	require.NoError(t, err)
	require.Len(t, issues, 1)

	// second run hits the cache
	cachedIssues, err := engine.Run(filename)
	require.NoError(t, err)
	if diff := cmp.Diff(issues, cachedIssues); diff != "" {
		t.Errorf("cached issues mismatch (-want +got):\n%s", diff)
	}

	// after an edit the file is linted again
	require.NoError(t, os.WriteFile(filename, []byte("function main() {\n  a();\n}\n"), 0o644))
	newIssues, err := engine.Run(filename)
	require.NoError(t, err)
	assert.Empty(t, newIssues)
}

func TestCacheConcurrency(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t, "cache-concurrency-test")

	cache, err := NewCache(filepath.Join(tempDir, "cache"))
	require.NoError(t, err)

	testFile := filepath.Join(tempDir, "test.js")
	writeTestFile(t, testFile, "function main() {}\n")

	issues := []tt.Issue{{
		Rule:     "test-rule",
		Category: "test",
		Filename: testFile,
		Message:  "Test issue",
		Start:    token.Position{Line: 1, Column: 1},
		End:      token.Position{Line: 1, Column: 10},
	}}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, cache.Set(testFile, "fp", issues))
		}()
		go func() {
			defer wg.Done()
			_, _ = cache.Get(testFile, "fp")
		}()
	}
	wg.Wait()

	got, found := cache.Get(testFile, "fp")
	assert.True(t, found)
	assert.Equal(t, issues, got)
}

func writeTestFile(t *testing.T, filename string, content string) {
	t.Helper()
	err := os.WriteFile(filename, []byte(content), 0o644)
	require.NoError(t, err)
}
