package datastore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*DataStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.json")
	ds, err := New(path, 0, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { ds.Close() })
	return ds, path
}

func TestNewCreatesEmptyFile(t *testing.T) {
	_, path := newTestStore(t)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(raw))
}

func TestNewRejectsEmptyPath(t *testing.T) {
	_, err := New("", 0, zerolog.Nop())
	assert.Error(t, err)
}

func TestSetGetDelete(t *testing.T) {
	ds, _ := newTestStore(t)

	_, ok := ds.Get("k")
	assert.False(t, ok)

	ds.Set("k", "v")
	v, ok := ds.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	ds.Delete("k")
	_, ok = ds.Get("k")
	assert.False(t, ok)
}

func TestKeys(t *testing.T) {
	ds, _ := newTestStore(t)
	ds.Set("a", 1)
	ds.Set("b", 2)
	assert.ElementsMatch(t, []string{"a", "b"}, ds.Keys())
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	ds, err := New(path, 0, zerolog.Nop())
	require.NoError(t, err)
	ds.Set("greeting", "hello")
	require.NoError(t, ds.Close())

	reopened, err := New(path, 0, zerolog.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	v, ok := reopened.Get("greeting")
	require.True(t, ok)
	assert.Equal(t, "hello", v)
}

func TestCloseIsIdempotent(t *testing.T) {
	ds, _ := newTestStore(t)
	require.NoError(t, ds.Close())
	require.NoError(t, ds.Close())
}

func TestSaveSkipsUnchangedData(t *testing.T) {
	ds, path := newTestStore(t)
	ds.Set("k", "v")
	require.NoError(t, ds.Save())

	before, err := os.Stat(path)
	require.NoError(t, err)

	// Nothing changed, so the file should not be rewritten.
	require.NoError(t, ds.Save())
	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestSaveRetriesAfterFailedWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")

	ds, err := New(path, 0, zerolog.Nop())
	require.NoError(t, err)
	defer ds.Close()

	ds.Set("k", "v")

	// Block the flush by putting a directory where the file goes.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0o755))
	require.Error(t, ds.Save())

	// A failed flush must not mark the data as saved; once the path is
	// writable again the same mutation lands on disk.
	require.NoError(t, os.Remove(path))
	require.NoError(t, ds.Save())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"k"`)
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := New(path, 0, zerolog.Nop())
	assert.Error(t, err)
}
