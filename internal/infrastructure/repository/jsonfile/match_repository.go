package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/lineup-dataset/internal/domain/match"
	"github.com/valyala/bytebufferpool"
)

const filePerm = 0o644

// MatchRepository stores the whole dataset as one pretty-printed JSON array.
type MatchRepository struct {
	path string
}

func NewMatchRepository(path string) *MatchRepository {
	return &MatchRepository{path: strings.TrimSpace(path)}
}

func (r *MatchRepository) Path() string {
	return r.path
}

func (r *MatchRepository) LoadRaw(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", match.ErrDatasetNotFound, r.path)
		}
		return nil, fmt.Errorf("read dataset %s: %w", r.path, err)
	}
	return raw, nil
}

func (r *MatchRepository) Load(ctx context.Context) ([]match.Match, error) {
	raw, err := r.LoadRaw(ctx)
	if err != nil {
		return nil, err
	}

	var out []match.Match
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", r.path, err)
	}
	return out, nil
}

// Save replaces the dataset atomically: the payload goes to a temp file in
// the same directory which is then renamed over the target.
func (r *MatchRepository) Save(ctx context.Context, matches []match.Match) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.path == "" {
		return fmt.Errorf("save dataset: empty path")
	}
	if matches == nil {
		matches = []match.Match{}
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := encodeDataset(buf, matches); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dataset dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp dataset: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(buf.B); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp dataset: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp dataset: %w", err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return fmt.Errorf("chmod temp dataset: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace dataset %s: %w", r.path, err)
	}
	return nil
}

// encodeDataset writes two-space indented JSON with non-ASCII text kept
// literal and a trailing newline.
func encodeDataset(buf *bytebufferpool.ByteBuffer, matches []match.Match) error {
	enc := sonic.ConfigDefault.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(matches)
}
