package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	jsoniter "github.com/json-iterator/go"

	"github.com/okian/footstats/pkg/logger"
	"github.com/okian/footstats/pkg/metrics"
)

// Miss reasons reported to metrics.
const (
	missAbsent  = "absent"
	missCorrupt = "corrupt"
	missExpired = "expired"
	missDecode  = "decode"
)

const cacheFileExt = ".json"

var codec = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// cacheEntry is the on-disk envelope. ts is unix seconds with a fraction.
type cacheEntry struct {
	TS   *float64        `json:"ts"`
	Data json.RawMessage `json:"data"`
}

// FileCache stores one JSON file per key under a directory.
type FileCache struct {
	dir string
	now func() time.Time
	log logger.Logger
}

// NewFileCache creates the cache directory if needed and returns the cache.
func NewFileCache(dir string, opts ...Option) (*FileCache, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: empty cache directory", ErrInvalidPath)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create cache directory: %w", ErrStorageIO, err)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &FileCache{dir: dir, now: o.now, log: o.log}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// Get returns the payload stored under key if it is at most ttl old.
func (c *FileCache) Get(ctx context.Context, key string, ttl time.Duration) (json.RawMessage, bool) {
	bucket := Bucket(key)
	raw, err := os.ReadFile(c.path(key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.log.Warn(ctx, "cache read failed", logger.String("key", key), logger.Error(err))
		}
		metrics.RecordCacheMiss(bucket, missAbsent)
		return nil, false
	}

	var entry cacheEntry
	if err := codec.Unmarshal(raw, &entry); err != nil || entry.TS == nil || isNull(entry.Data) {
		c.log.Debug(ctx, "cache entry unreadable", logger.String("key", key))
		metrics.RecordCacheMiss(bucket, missCorrupt)
		return nil, false
	}

	age := c.unixSeconds() - *entry.TS
	if age > ttl.Seconds() {
		metrics.RecordCacheMiss(bucket, missExpired)
		return nil, false
	}

	metrics.RecordCacheHit(bucket)
	return entry.Data, true
}

// Set writes value under key with the current timestamp. The file is written
// to a temporary name and renamed into place.
func (c *FileCache) Set(ctx context.Context, key string, value any) {
	bucket := Bucket(key)
	data, err := codec.Marshal(value)
	if err != nil {
		c.writeFailed(ctx, key, bucket, fmt.Errorf("encode value: %w", err))
		return
	}
	ts := c.unixSeconds()
	payload, err := codec.MarshalIndent(cacheEntry{TS: &ts, Data: data}, "", "  ")
	if err != nil {
		c.writeFailed(ctx, key, bucket, fmt.Errorf("encode entry: %w", err))
		return
	}
	if err := writeFileAtomic(c.dir, c.path(key), payload); err != nil {
		c.writeFailed(ctx, key, bucket, err)
	}
}

func (c *FileCache) writeFailed(ctx context.Context, key, bucket string, err error) {
	c.log.Warn(ctx, "cache write failed", logger.String("key", key), logger.Error(err))
	metrics.RecordCacheWriteError(bucket)
}

func (c *FileCache) unixSeconds() float64 {
	return float64(c.now().UnixNano()) / float64(time.Second)
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, SanitizeKey(key)+cacheFileExt)
}

// GetAs reads key from c and decodes it into T. A payload that does not
// decode is treated as a miss.
func GetAs[T any](ctx context.Context, c Cache, key string, ttl time.Duration) (T, bool) {
	var out T
	raw, ok := c.Get(ctx, key, ttl)
	if !ok {
		return out, false
	}
	if err := codec.Unmarshal(raw, &out); err != nil {
		metrics.RecordCacheMiss(Bucket(key), missDecode)
		var zero T
		return zero, false
	}
	return out, true
}

// SanitizeKey maps every rune that is not a letter, digit, '-', '_' or '.'
// to '_'.
func SanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, key)
}

// Bucket is the key prefix before the first '_', used as a metrics label.
func Bucket(key string) string {
	if i := strings.IndexByte(key, '_'); i > 0 {
		return key[:i]
	}
	if key == "" {
		return "none"
	}
	return key
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

// writeFileAtomic writes data to a temp file in dir and renames it to path.
func writeFileAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", ErrStorageIO, err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return fmt.Errorf("%w: write temp file: %w", ErrStorageIO, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("%w: close temp file: %w", ErrStorageIO, err)
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("%w: rename into place: %w", ErrStorageIO, err)
	}
	return nil
}
