package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewConfigStore_ReadsTables(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[listen]
port = 9101

[storage]
dir = "/tmp/xochitl"

[journal]
enabled = false

[notify]
command = "systemctl restart xochitl"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	expected := map[string]any{
		"listen.port":     int64(9101),
		"storage.dir":     "/tmp/xochitl",
		"journal.enabled": false,
		"notify.command":  "systemctl restart xochitl",
	}
	for key, want := range expected {
		val, ok := store.Get(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, val, key)
	}
}

func TestNewConfigStore_CorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[listen\nport ="), 0600))

	_, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0600))

	_, err := NewConfigStore(filepath.Join(file, "sub"))

	assert.Error(t, err)
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	val, ok := store.Get("nonexistent")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_KeepsDecodedTypes(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"),
		[]byte("[listen]\nport = \"9100\"\n[journal]\nenabled = \"false\"\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	port, _ := store.Get("listen.port")
	assert.Equal(t, "9100", port)
	enabled, _ := store.Get("journal.enabled")
	assert.Equal(t, "false", enabled)
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("listen.port", 9100))
	require.NoError(t, store1.Set("storage.dir", "/data"))
	require.NoError(t, store1.Set("log.verbose", true))

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	port, _ := store2.Get("listen.port")
	assert.Equal(t, int64(9100), port)
	dir, _ := store2.Get("storage.dir")
	assert.Equal(t, "/data", dir)
	verbose, _ := store2.Get("log.verbose")
	assert.Equal(t, true, verbose)
}

func TestConfigStore_SaveWritesTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("listen.port", 9100))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "[listen]"), "expected a [listen] table, got:\n%s", data)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("listen.port", 9100))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Load_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, ok := store.Get("listen.port")
	assert.False(t, ok)
}

func TestFlattenAndNestMap(t *testing.T) {
	nested := map[string]any{
		"listen": map[string]any{"port": int64(9100)},
		"top":    "value",
	}

	flat := flattenMap(nested, "")
	assert.Equal(t, map[string]any{"listen.port": int64(9100), "top": "value"}, flat)
	assert.Equal(t, nested, nestMap(flat))
}
