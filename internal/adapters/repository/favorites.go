package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/okian/footstats/pkg/logger"
	"github.com/okian/footstats/pkg/metrics"
)

// favoritesDoc is the on-disk favorites document.
type favoritesDoc struct {
	Favorites []int  `json:"favorites"`
	SavedAt   string `json:"saved_at"`
}

// looseFavoritesDoc accepts ids written as numbers or numeric strings.
type looseFavoritesDoc struct {
	Favorites []json.RawMessage `json:"favorites"`
}

// FavoritesFile keeps the favorites list in a single JSON file.
type FavoritesFile struct {
	path string
	now  func() time.Time
	log  logger.Logger
}

// NewFavoritesFile returns a store backed by path. The file and its
// directory are created on first Save.
func NewFavoritesFile(path string, opts ...Option) (*FavoritesFile, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty favorites file", ErrInvalidPath)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &FavoritesFile{path: path, now: o.now, log: o.log}, nil
}

// Path returns the backing file.
func (f *FavoritesFile) Path() string { return f.path }

// Load returns the stored ids in saved order, without duplicates.
func (f *FavoritesFile) Load(ctx context.Context) ([]int, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			metrics.UpdateFavoritesTotal(0)
			return []int{}, nil
		}
		return nil, fmt.Errorf("%w: read favorites: %w", ErrStorageIO, err)
	}

	var doc looseFavoritesDoc
	if err := codec.Unmarshal(raw, &doc); err != nil {
		f.log.Error(ctx, "favorites file is corrupt, starting empty",
			logger.String("path", f.path), logger.Error(err))
		metrics.UpdateFavoritesTotal(0)
		return []int{}, nil
	}

	ids := make([]int, 0, len(doc.Favorites))
	for _, item := range doc.Favorites {
		id, ok := parseFavoriteID(item)
		if !ok {
			f.log.Warn(ctx, "skipping unreadable favorite", logger.String("value", string(item)))
			continue
		}
		ids = append(ids, id)
	}
	ids = dedupe(ids)
	metrics.UpdateFavoritesTotal(len(ids))
	return ids, nil
}

// Save overwrites the file with ids and the current time.
func (f *FavoritesFile) Save(ctx context.Context, ids []int) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create favorites directory: %w", ErrStorageIO, err)
	}
	doc := favoritesDoc{
		Favorites: dedupe(ids),
		SavedAt:   f.now().Format(time.RFC3339),
	}
	payload, err := codec.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := writeFileAtomic(dir, f.path, payload); err != nil {
		return err
	}
	f.log.Debug(ctx, "favorites saved", logger.Int("count", len(doc.Favorites)))
	metrics.UpdateFavoritesTotal(len(doc.Favorites))
	return nil
}

func parseFavoriteID(raw json.RawMessage) (int, bool) {
	var n int
	if err := codec.Unmarshal(raw, &n); err == nil {
		return n, n > 0
	}
	var s string
	if err := codec.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func dedupe(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
