package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/riskibarqy/lineup-dataset/internal/platform/logging"
	"github.com/riskibarqy/lineup-dataset/internal/platform/resilience"
)

// DiskStore keeps fetched payloads on disk, one file per key named by the
// md5 of the key. A zero TTL keeps entries forever.
type DiskStore struct {
	dir    string
	ext    string
	ttl    time.Duration
	flight resilience.Group[[]byte]
	now    func() time.Time
	logger *logging.Logger
}

func NewDiskStore(dir, ext string, ttl time.Duration, logger *logging.Logger) (*DiskStore, error) {
	if logger == nil {
		logger = logging.Default()
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("cache dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return &DiskStore{
		dir:    dir,
		ext:    ext,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}, nil
}

// Path returns the file backing key.
func (s *DiskStore) Path(key string) string {
	sum := md5.Sum([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+s.ext)
}

func (s *DiskStore) Get(_ context.Context, key string) ([]byte, bool) {
	if key == "" {
		return nil, false
	}

	path := s.Path(key)
	if s.ttl > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, false
		}
		if !info.ModTime().Add(s.ttl).After(s.now()) {
			_ = os.Remove(path)
			return nil, false
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return raw, true
}

func (s *DiskStore) Set(_ context.Context, key string, value []byte) error {
	if key == "" {
		return nil
	}

	path := s.Path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit cache entry: %w", err)
	}
	return nil
}

// GetOrLoad returns the cached payload or runs loader once per key across
// concurrent callers. Loader errors are not cached; a failed cache write is
// logged and the loaded payload is still returned.
func (s *DiskStore) GetOrLoad(ctx context.Context, key string, loader func(context.Context) ([]byte, error)) ([]byte, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() ([]byte, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		if err := s.Set(ctx, key, loaded); err != nil {
			s.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
		}
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}
