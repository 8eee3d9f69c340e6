package ratecache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/namboy94/papio/internal/adapters/ratecache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.msgpack")
	cache := ratecache.NewFileCache(path)

	stored := map[string]decimal.Decimal{
		"USD": decimal.RequireFromString("1.2023"),
		"BTC": decimal.RequireFromString("0.00015576323987538941"),
	}
	require.NoError(t, cache.Store(stored))

	loaded, err := cache.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.True(t, loaded["USD"].Equal(stored["USD"]))
	// Exact string representation survives the round trip.
	assert.Equal(t, stored["BTC"].String(), loaded["BTC"].String())
}

func TestFileCache_MissingFileIsColdStart(t *testing.T) {
	cache := ratecache.NewFileCache(filepath.Join(t.TempDir(), "absent.msgpack"))

	loaded, err := cache.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFileCache_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.msgpack")
	require.NoError(t, os.WriteFile(path, []byte("not msgpack at all"), 0o644))

	cache := ratecache.NewFileCache(path)
	_, err := cache.Load()
	assert.Error(t, err)
}

func TestFileCache_StoreOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.msgpack")
	cache := ratecache.NewFileCache(path)

	require.NoError(t, cache.Store(map[string]decimal.Decimal{"USD": decimal.NewFromInt(1)}))
	require.NoError(t, cache.Store(map[string]decimal.Decimal{"USD": decimal.NewFromInt(2)}))

	loaded, err := cache.Load()
	require.NoError(t, err)
	assert.True(t, loaded["USD"].Equal(decimal.NewFromInt(2)))
}

func TestFileCache_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "rates.msgpack")
	cache := ratecache.NewFileCache(path)

	require.NoError(t, cache.Store(map[string]decimal.Decimal{"ZAR": decimal.RequireFromString("14.87")}))

	loaded, err := cache.Load()
	require.NoError(t, err)
	assert.True(t, loaded["ZAR"].Equal(decimal.RequireFromString("14.87")))
}
