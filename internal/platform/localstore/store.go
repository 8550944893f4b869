// Package localstore keeps objects on local disk, for development without a bucket.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/yungbote/taiyaki-backend/internal/platform/envutil"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
)

var ErrObjectNotFound = errors.New("object not found")

type Config struct {
	Root          string
	PublicBaseURL string
}

func ConfigFromEnv() Config {
	return Config{
		Root:          envutil.String("LOCAL_STORAGE_DIR", "data/objects"),
		PublicBaseURL: strings.TrimRight(envutil.String("LOCAL_STORAGE_PUBLIC_BASE_URL", "http://localhost:8080/files"), "/"),
	}
}

type Store struct {
	log  *logger.Logger
	root string
	base string
}

func New(log *logger.Logger, cfg Config) (*Store, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{
		log:  log.With("service", "LocalStore", "root", root),
		root: root,
		base: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (s *Store) Root() string { return s.root }

func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	// Write to a temp file first so readers never see a partial object.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	s.log.Debug("object stored", "key", key, "bytes", len(data))
	return s.PublicURL(key), nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	return b, err
}

func (s *Store) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) PublicURL(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return s.base + "/" + strings.Join(parts, "/")
}

// path maps a key under root, rejecting keys that escape it.
func (s *Store) path(key string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", errors.New("object key required")
	}
	p := filepath.Join(s.root, filepath.FromSlash(key))
	if p != s.root && !strings.HasPrefix(p, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("object key %q escapes storage root", key)
	}
	return p, nil
}
