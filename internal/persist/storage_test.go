package persist

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStorage runs the behaviour every backend must share.
func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()
	key := "consultation-draft:test-" + filepath.Base(t.Name()) + ":45"
	t.Cleanup(func() { _ = s.Delete(context.Background(), key) })

	_, err := s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, key, []byte(`{"version":1}`)))
	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(got))

	require.NoError(t, s.Set(ctx, key, []byte(`{"version":2}`)))
	got, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"version":2}`, string(got), "Set should overwrite")

	keys, err := s.(Lister).Keys(ctx)
	require.NoError(t, err)
	assert.Contains(t, keys, key)

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	keys, err = s.(Lister).Keys(ctx)
	require.NoError(t, err)
	assert.NotContains(t, keys, key)

	assert.NoError(t, s.Delete(ctx, key), "deleting a missing draft is not an error")
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage())
}

func TestMemoryStorage_CopiesValues(t *testing.T) {
	m := NewMemoryStorage()
	ctx := context.Background()
	buf := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", buf))
	buf[0] = 'x'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
	assert.Equal(t, 1, m.Len())
}

func TestFileStorage(t *testing.T) {
	fs, err := NewFileStorage(filepath.Join(t.TempDir(), "drafts"))
	require.NoError(t, err)
	exerciseStorage(t, fs)
}

func TestFileStorage_EscapesKey(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStorage(dir)
	require.NoError(t, err)

	require.NoError(t, fs.Set(context.Background(), "consultation-draft:jean-dupont:58", []byte("{}")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files should not be left behind")
	assert.Equal(t, "consultation-draft%3Ajean-dupont%3A58.json", entries[0].Name())
}

func TestFileStorage_KeysSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStorage(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, fs.Set(ctx, "consultation-draft:jean-dupont:58", []byte("{}")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".draft-123"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "old.json"), 0o755))

	keys, err := fs.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"consultation-draft:jean-dupont:58"}, keys)
}

func TestMemoryStorage_KeysSorted(t *testing.T) {
	m := NewMemoryStorage()
	ctx := context.Background()
	for _, k := range []string{"c", "a", "b"} {
		require.NoError(t, m.Set(ctx, k, []byte("{}")))
	}
	keys, err := m.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestFileStorage_RequiresDir(t *testing.T) {
	_, err := NewFileStorage("")
	assert.Error(t, err)
}

func TestSQLiteStorage(t *testing.T) {
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "drafts.db"))
	require.NoError(t, err)
	defer s.Close()
	exerciseStorage(t, s)
}

func TestSQLiteStorage_Keys(t *testing.T) {
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "nested", "drafts.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "a", []byte("1")))
	require.NoError(t, s.Set(ctx, "b", []byte("2")))
	require.NoError(t, s.Set(ctx, "a", []byte("3")))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)
}

func TestSQLiteStorage_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drafts.db")
	ctx := context.Background()

	s, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", []byte("persisted")))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStorage(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(got))
}

// Skip test if TEST_REDIS_URL is not set.
func TestRedisStorage(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set, skipping Redis tests")
	}
	s, err := NewRedisStorage(context.Background(), url)
	require.NoError(t, err)
	defer s.Close()
	exerciseStorage(t, s)
}

func TestRedisStorage_BadURL(t *testing.T) {
	_, err := NewRedisStorage(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		opts    OpenOptions
		wantErr bool
	}{
		{"memory", OpenOptions{Backend: BackendMemory}, false},
		{"file", OpenOptions{Backend: BackendFile, Path: filepath.Join(dir, "drafts")}, false},
		{"sqlite", OpenOptions{Backend: BackendSQLite, Path: filepath.Join(dir, "drafts.db")}, false},
		{"unknown", OpenOptions{Backend: "etcd"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, closeFn, err := Open(ctx, tt.opts)
			require.NotNil(t, closeFn)
			defer closeFn()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownBackend)
				return
			}
			require.NoError(t, err)
			exerciseStorage(t, s)
		})
	}
}
