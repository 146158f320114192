package file

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
	assert.Empty(t, store.Keys())
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "copilot")

	_, err := NewConfigStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("backend.url", "http://example:8000"))

	val, ok := store.Get("backend.url")
	assert.True(t, ok)
	assert.Equal(t, "http://example:8000", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("backend.url", "http://example:8000"))
	require.NoError(t, store.Set("poll.interval", "2s"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[backend]")
	assert.Contains(t, string(data), "[poll]")
	assert.NotContains(t, string(data), `"backend.url"`)
}

func TestConfigStore_Persistence(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("chat.limit", 12))
	require.NoError(t, store.Set("backend.rate_limit", 2.5))
	require.NoError(t, store.Set("claims.stale_after", "30s"))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, 12, reopened.GetInt("chat.limit"))
	assert.InDelta(t, 2.5, reopened.GetFloat("backend.rate_limit"), 1e-9)
	assert.Equal(t, 30*time.Second, reopened.GetDuration("claims.stale_after"))
	assert.Equal(t, []string{"backend.rate_limit", "chat.limit", "claims.stale_after"}, reopened.Keys())
}

func TestConfigStore_LoadHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[backend]
url = "http://research:9000"
timeout = "30s"

[poll]
interval = "500ms"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://research:9000", store.GetString("backend.url"))
	assert.Equal(t, 30*time.Second, store.GetDuration("backend.timeout"))
	assert.Equal(t, 500*time.Millisecond, store.GetDuration("poll.interval"))
}

func TestConfigStore_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Empty(t, store.Keys())
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[backend\nurl="), 0600))

	_, err := NewConfigStore(dir)
	assert.Error(t, err)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not enforced on windows")
	}
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("chat.limit", 4))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("chat.limit", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("chat.limit")
		}()
	}
	wg.Wait()

	_, ok := store.Get("chat.limit")
	assert.True(t, ok)
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"backend.url":     "u",
		"backend.timeout": "1s",
		"top":             1,
	})

	backend, ok := nested["backend"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "u", backend["url"])
	assert.Equal(t, "1s", backend["timeout"])
	assert.Equal(t, 1, nested["top"])
}

func TestFlattenMap(t *testing.T) {
	flat := flattenMap(map[string]any{
		"backend": map[string]any{"url": "u"},
		"top":     1,
	}, "")

	assert.Equal(t, map[string]any{"backend.url": "u", "top": 1}, flat)
}
