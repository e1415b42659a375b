package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedejm/icecream-new-feature-test/internal/infrastructure/config"
	"github.com/fedejm/icecream-new-feature-test/internal/pkg/logger"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	return New(config.StorageConfig{DataDir: t.TempDir(), CacheTTL: ttl}, logger.NewNop())
}

func TestLoadMissingFile(t *testing.T) {
	s := newTestStore(t, time.Minute)

	var v map[string]any
	err := s.Load("nope.json", &v)
	assert.ErrorIs(t, err, ErrNotFound)

	// LoadOrDefault leaves the destination untouched.
	withDefault := map[string]any{"keep": true}
	require.NoError(t, s.LoadOrDefault("nope.json", &withDefault))
	assert.Equal(t, map[string]any{"keep": true}, withDefault)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t, time.Minute)

	in := map[string]float64{"milk": 1000, "sugar": 250}
	require.NoError(t, s.Save("inventory.json", in))

	var out map[string]float64
	require.NoError(t, s.Load("inventory.json", &out))
	assert.Equal(t, in, out)

	// Written documents are 2-space indented with a trailing newline.
	data, err := os.ReadFile(s.Path("inventory.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"milk\": 1000")
	assert.Equal(t, byte('\n'), data[len(data)-1])
}

func TestLoadMalformedJSON(t *testing.T) {
	s := newTestStore(t, time.Minute)
	require.NoError(t, os.WriteFile(s.Path("broken.json"), []byte(`{"a": `), 0o644))

	var v map[string]any
	err := s.Load("broken.json", &v)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Contains(t, decodeErr.Path, "broken.json")
}

func TestCacheBustsOnModTimeChange(t *testing.T) {
	s := newTestStore(t, time.Hour)
	path := s.Path("doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"v": 1}`), 0o644))

	var v map[string]int
	require.NoError(t, s.Load("doc.json", &v))
	assert.Equal(t, 1, v["v"])

	// Rewrite with a different mtime; the cache must notice even though
	// the TTL has not expired.
	require.NoError(t, os.WriteFile(path, []byte(`{"v": 2}`), 0o644))
	newer := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, newer, newer))

	require.NoError(t, s.Load("doc.json", &v))
	assert.Equal(t, 2, v["v"])
}

func TestSaveCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s := New(config.StorageConfig{DataDir: dir, CacheTTL: time.Minute}, logger.NewNop())
	require.NoError(t, s.Save("doc.json", []string{"a"}))
	assert.True(t, s.Exists("doc.json"))
}
