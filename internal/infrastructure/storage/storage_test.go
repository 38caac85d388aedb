package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/cardle/internal/ports"
)

func backends(t *testing.T) map[string]ports.BlobStore {
	t.Helper()
	b, err := OpenBadger(InMemoryBadgerConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return map[string]ports.BlobStore{
		"fs":     NewFS(t.TempDir()),
		"memory": NewMemory(),
		"badger": b,
	}
}

func TestBlobStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Load(ctx, "data")
			assert.ErrorIs(t, err, ports.ErrNotFound)

			require.NoError(t, s.Save(ctx, "data", []byte(`{"version":"1","days":{}}`)))
			require.NoError(t, s.Save(ctx, "expert_data", []byte(`{"version":"1"}`)))
			require.NoError(t, s.Save(ctx, "data", []byte(`{"version":"1","days":{"2024-06-01":{"target":"a","guesses":["a"]}}}`)))

			got, err := s.Load(ctx, "data")
			require.NoError(t, err)
			assert.JSONEq(t, `{"version":"1","days":{"2024-06-01":{"target":"a","guesses":["a"]}}}`, string(got))

			keys, err := s.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"data", "expert_data"}, keys)
		})
	}
}

func TestFSLegacyFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data"), []byte(`{"2024-01-01":[]}`), 0o644))

	s := NewFS(dir)
	got, err := s.Load(context.Background(), "data")
	require.NoError(t, err)
	assert.Equal(t, `{"2024-01-01":[]}`, string(got))

	require.NoError(t, s.Save(context.Background(), "data", []byte(`{"version":"1","days":{}}`)))
	got, err = s.Load(context.Background(), "data")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1","days":{}}`, string(got), "new layout wins once written")
}

func TestFSRejectsPathKeys(t *testing.T) {
	s := NewFS(t.TempDir())
	assert.Error(t, s.Save(context.Background(), "../data", []byte("{}")))
	_, err := s.Load(context.Background(), "")
	assert.Error(t, err)
}

func TestMemoryCopiesData(t *testing.T) {
	m := NewMemory()
	data := []byte("abc")
	require.NoError(t, m.Save(context.Background(), "k", data))
	data[0] = 'x'
	got, err := m.Load(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
