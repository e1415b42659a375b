// Package storage is the persistence adapter: flat JSON documents in a data
// directory, read fully into memory and written fully back. Reads go through
// a bounded cache keyed by file modification time so external edits are
// picked up without a restart.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fedejm/icecream-new-feature-test/internal/infrastructure/config"
	"github.com/fedejm/icecream-new-feature-test/internal/pkg/logger"
	"go.uber.org/zap"
)

// ErrNotFound reports a document file that does not exist. Most callers
// treat it as "use the default value".
var ErrNotFound = errors.New("document not found")

// DecodeError reports a document that exists but is not valid JSON. It is
// surfaced to the operator rather than repaired.
type DecodeError struct {
	Path   string
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("decode %s at offset %d: %v", e.Path, e.Offset, e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type cacheEntry struct {
	data     []byte
	mtime    time.Time
	loadedAt time.Time
}

// Store reads and writes JSON documents under a single data directory.
type Store struct {
	dir    string
	ttl    time.Duration
	logger *logger.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// New creates a Store over the configured data directory.
func New(cfg config.StorageConfig, log *logger.Logger) *Store {
	return &Store{
		dir:    cfg.DataDir,
		ttl:    cfg.CacheTTL,
		logger: log.WithComponent("storage"),
		cache:  make(map[string]cacheEntry),
	}
}

// Path returns the absolute location of a named document.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Exists reports whether a named document is present on disk.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// read returns the document bytes, served from cache while the file's
// modification time is unchanged and the cache window has not lapsed.
func (s *Store) read(name string) ([]byte, error) {
	path := s.Path(name)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.cache[name]; ok {
		if entry.mtime.Equal(info.ModTime()) && time.Since(entry.loadedAt) < s.ttl {
			return entry.data, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s.cache[name] = cacheEntry{data: data, mtime: info.ModTime(), loadedAt: time.Now()}
	return data, nil
}

// Load reads and decodes a document into v. Missing files return ErrNotFound;
// files that are not valid JSON return a DecodeError with offset detail.
func (s *Store) Load(name string, v any) error {
	data, err := s.read(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return wrapDecodeError(s.Path(name), err)
	}
	return nil
}

// LoadBytes reads a document's raw bytes through the cache. Used by callers
// that do their own tolerant decoding.
func (s *Store) LoadBytes(name string) ([]byte, error) {
	return s.read(name)
}

// LoadOrDefault decodes a document into v, leaving v untouched when the file
// is missing. Decode errors still surface.
func (s *Store) LoadOrDefault(name string, v any) error {
	err := s.Load(name, v)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// Save writes the full document atomically-enough for a single-operator
// tool: marshal, then replace the file contents (2-space indent, trailing
// newline, UTF-8).
func (s *Store) Save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	path := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if info, err := os.Stat(path); err == nil {
		s.cache[name] = cacheEntry{data: data, mtime: info.ModTime(), loadedAt: time.Now()}
	} else {
		delete(s.cache, name)
	}

	s.logger.WithDocument(name).Debug("Document saved", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

func wrapDecodeError(path string, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &DecodeError{Path: path, Offset: syntaxErr.Offset, Err: err}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &DecodeError{Path: path, Offset: typeErr.Offset, Err: err}
	}
	return &DecodeError{Path: path, Err: err}
}
