package ratecache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"
)

// FileCache persists the converter's fallback rate table as a msgpack file.
// Rates are stored as their exact decimal string representation so that a
// load round-trips without precision loss.
type FileCache struct {
	path string
}

// NewFileCache creates a FileCache at the given path. The file is created on
// the first Store call.
func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

// Load reads the cached rate table. A missing cache file is a normal cold
// start and yields an empty table; a present but unreadable file is an error.
func (c *FileCache) Load() (map[string]decimal.Decimal, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]decimal.Decimal{}, nil
		}
		return nil, fmt.Errorf("failed to read rate cache %s: %w", c.path, err)
	}

	var encoded map[string]string
	if err := msgpack.Unmarshal(data, &encoded); err != nil {
		return nil, fmt.Errorf("failed to decode rate cache %s: %w", c.path, err)
	}

	rates := make(map[string]decimal.Decimal, len(encoded))
	for code, text := range encoded {
		rate, err := decimal.NewFromString(text)
		if err != nil {
			return nil, fmt.Errorf("rate cache %s holds invalid rate %q for %s: %w", c.path, text, code, err)
		}
		rates[code] = rate
	}
	return rates, nil
}

// Store writes the rate table to disk. The file is written to a temporary
// sibling first and renamed into place, so a crash mid-write never leaves a
// truncated cache behind.
func (c *FileCache) Store(rates map[string]decimal.Decimal) error {
	encoded := make(map[string]string, len(rates))
	for code, rate := range rates {
		encoded[code] = rate.String()
	}

	data, err := msgpack.Marshal(encoded)
	if err != nil {
		return fmt.Errorf("failed to encode rate cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create rate cache directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create rate cache temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write rate cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close rate cache temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace rate cache %s: %w", c.path, err)
	}
	return nil
}
