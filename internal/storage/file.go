package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jwebster45206/lost-in-space/pkg/world"
)

const (
	worldsDir        = "worlds"
	defaultCacheSize = 32
)

// FileStore reads world files from dataDir/worlds. Decoded definitions are
// kept in an expiring LRU so restarts do not hit the disk.
type FileStore struct {
	dataDir string
	cache   *expirable.LRU[string, *world.Definition]
	logger  *slog.Logger
}

var (
	_ WorldStore  = (*FileStore)(nil)
	_ Invalidator = (*FileStore)(nil)
)

// NewFileStore creates a file store. A ttl of zero keeps entries until evicted.
func NewFileStore(dataDir string, ttl time.Duration, logger *slog.Logger) *FileStore {
	if dataDir == "" {
		dataDir = "./data"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{
		dataDir: dataDir,
		cache:   expirable.NewLRU[string, *world.Definition](defaultCacheSize, nil, ttl),
		logger:  logger,
	}
}

func (f *FileStore) Ping(ctx context.Context) error {
	info, err := os.Stat(filepath.Join(f.dataDir, worldsDir))
	if err != nil {
		return fmt.Errorf("worlds directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("worlds path is not a directory: %s", info.Name())
	}
	return nil
}

func (f *FileStore) Close() error {
	f.cache.Purge()
	return nil
}

func (f *FileStore) ListWorlds(ctx context.Context) (map[string]string, error) {
	dir := filepath.Join(f.dataDir, worldsDir)
	worlds := make(map[string]string)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		format, ok := world.FormatFor(path)
		if !ok {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			f.logger.Warn("Failed to read world file", "path", path, "error", err)
			return nil
		}
		def, err := world.Decode(data, format)
		if err != nil {
			f.logger.Warn("Failed to decode world file", "path", path, "error", err)
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		title := def.Title
		if title == "" {
			title = rel
		}
		worlds[title] = filepath.ToSlash(rel)
		return nil
	})
	if err != nil {
		f.logger.Error("Failed to walk worlds directory", "error", err)
		return nil, fmt.Errorf("failed to list worlds: %w", err)
	}

	return worlds, nil
}

func (f *FileStore) GetDefinition(ctx context.Context, filename string) (*world.Definition, error) {
	if def, ok := f.cache.Get(filename); ok {
		f.logger.Debug("World cache hit", "filename", filename)
		return def, nil
	}

	path, err := f.resolve(filename)
	if err != nil {
		return nil, err
	}
	format, ok := world.FormatFor(path)
	if !ok {
		return nil, fmt.Errorf("unsupported world file type: %s", filename)
	}

	f.logger.Debug("Loading world", "filename", filename, "full_path", path)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrWorldNotFound, filename)
		}
		return nil, fmt.Errorf("failed to read world file: %w", err)
	}

	def, err := world.Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode world %s: %w", filename, err)
	}

	f.cache.Add(filename, def)
	return def, nil
}

// Invalidate evicts a decoded world from the LRU.
func (f *FileStore) Invalidate(ctx context.Context, filename string) error {
	if f.cache.Remove(filename) {
		f.logger.Debug("World evicted from cache", "filename", filename)
	}
	return nil
}

// resolve maps a file name to a path inside the worlds directory.
func (f *FileStore) resolve(filename string) (string, error) {
	if filename == "" || filepath.IsAbs(filename) {
		return "", fmt.Errorf("%w: %q", ErrWorldNotFound, filename)
	}
	clean := filepath.Clean(filepath.FromSlash(filename))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrWorldNotFound, filename)
	}
	return filepath.Join(f.dataDir, worldsDir, clean), nil
}
