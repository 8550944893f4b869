package gcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
)

const objectTimeout = 2 * time.Minute

// ErrObjectNotFound is returned by Get for a missing key.
var ErrObjectNotFound = errors.New("object not found")

// Bucket stores design photos and renders in a single GCS (Firebase Storage) bucket.
type Bucket struct {
	log        *logger.Logger
	client     *storage.Client
	httpClient *http.Client
	cfg        StorageConfig
}

func NewBucket(ctx context.Context, log *logger.Logger, cfg StorageConfig) (*Bucket, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Mode == StorageModeLocal {
		return nil, fmt.Errorf("object storage mode %q is not served by GCS", cfg.Mode)
	}
	client, err := newStorageClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	b := &Bucket{
		log:        log.With("service", "BucketService", "bucket", cfg.Bucket),
		client:     client,
		httpClient: &http.Client{Timeout: objectTimeout},
		cfg:        cfg,
	}
	b.log.Info("Object storage initialized",
		"mode", cfg.Mode,
		"mode_inferred", cfg.ModeInferred,
		"emulator_host", cfg.EmulatorHost,
		"public_base_url", cfg.PublicBaseURL,
		"cdn_domain", cfg.CDNDomain,
	)
	return b, nil
}

func newStorageClient(ctx context.Context, cfg StorageConfig) (*storage.Client, error) {
	if cfg.IsEmulator() {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts := ClientOptionsFromEnv()
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}

func (b *Bucket) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	key = cleanKey(key)
	if key == "" {
		return "", errors.New("object key required")
	}
	ctx, cancel := context.WithTimeout(ctx, objectTimeout)
	defer cancel()

	w := b.client.Bucket(b.cfg.Bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if w.ContentType == "" {
		w.ContentType = ContentTypeForKey(key)
	}
	w.CacheControl = "public, max-age=31536000"
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	b.log.Debug("object stored", "key", key, "bytes", len(data))
	return b.PublicURL(key), nil
}

func (b *Bucket) Get(ctx context.Context, key string) ([]byte, error) {
	key = cleanKey(key)
	ctx, cancel := context.WithTimeout(ctx, objectTimeout)
	defer cancel()

	// The emulator's reader endpoint differs from production; fetch the media URL directly.
	if b.cfg.IsEmulator() {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.emulatorMediaURL(b.cfg.EmulatorHost, key), nil)
		if err != nil {
			return nil, err
		}
		resp, err := b.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed emulator download request: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrObjectNotFound
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return nil, fmt.Errorf("emulator download failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return io.ReadAll(resp.Body)
	}

	r, err := b.client.Bucket(b.cfg.Bucket).Object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open GCS reader: %w", err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (b *Bucket) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, objectTimeout)
	defer cancel()
	err := b.client.Bucket(b.cfg.Bucket).Object(cleanKey(key)).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (b *Bucket) PublicURL(key string) string {
	key = cleanKey(key)
	if b.cfg.CDNDomain != "" {
		return fmt.Sprintf("https://%s/%s", b.cfg.CDNDomain, key)
	}
	if b.cfg.IsEmulator() {
		base := b.cfg.PublicBaseURL
		if base == "" {
			base = b.cfg.EmulatorHost
		}
		return b.emulatorMediaURL(base, key)
	}
	if b.cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", b.cfg.PublicBaseURL, b.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.cfg.Bucket, key)
}

func (b *Bucket) Close() error {
	if b == nil || b.client == nil {
		return nil
	}
	return b.client.Close()
}

func (b *Bucket) emulatorMediaURL(base, key string) string {
	return fmt.Sprintf(
		"%s/storage/v1/b/%s/o/%s?alt=media",
		strings.TrimRight(base, "/"),
		url.PathEscape(b.cfg.Bucket),
		url.PathEscape(key),
	)
}

func cleanKey(key string) string {
	return strings.TrimLeft(strings.TrimSpace(key), "/")
}

// ContentTypeForKey guesses an image content type from the key's extension.
func ContentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
