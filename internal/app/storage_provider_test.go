package app

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/taiyaki-backend/internal/platform/gcp"
	"github.com/yungbote/taiyaki-backend/internal/platform/localstore"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
	"github.com/yungbote/taiyaki-backend/internal/services"
)

func TestClassifyStorageProviderBootstrapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want StorageProviderBootstrapErrorCode
	}{
		{"invalid mode", &gcp.ConfigError{Field: "OBJECT_STORAGE_MODE", Value: "s3"}, StorageProviderBootstrapErrorInvalidMode},
		{"missing bucket", &gcp.ConfigError{Field: "GCS_BUCKET_NAME"}, StorageProviderBootstrapErrorMissingBucket},
		{"missing emulator", &gcp.ConfigError{Field: "STORAGE_EMULATOR_HOST"}, StorageProviderBootstrapErrorMissingEmulator},
		{"invalid emulator", &gcp.ConfigError{Field: "STORAGE_EMULATOR_HOST", Value: "fake-gcs"}, StorageProviderBootstrapErrorInvalidEmulator},
		{"public base url", &gcp.ConfigError{Field: "OBJECT_STORAGE_PUBLIC_BASE_URL", Value: "cdn"}, StorageProviderBootstrapErrorInvalidConfig},
		{"connect", errors.New("dial tcp: refused"), StorageProviderBootstrapErrorConnectFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classifyStorageProviderBootstrapError("gcs", tc.err)
			var bootErr *StorageProviderBootstrapError
			if !errors.As(err, &bootErr) {
				t.Fatalf("expected StorageProviderBootstrapError, got %T", err)
			}
			if bootErr.Code != tc.want {
				t.Fatalf("code=%q want %q", bootErr.Code, tc.want)
			}
			if !errors.Is(err, tc.err) {
				t.Fatalf("cause not preserved")
			}
		})
	}
}

func TestResolveObjectStoreReportsConfigError(t *testing.T) {
	cfg := Config{
		Storage:    gcp.StorageConfig{Mode: gcp.StorageModeGCS},
		StorageErr: &gcp.ConfigError{Field: "GCS_BUCKET_NAME"},
	}
	_, err := resolveObjectStore(context.Background(), logger.Nop(), cfg)
	var bootErr *StorageProviderBootstrapError
	if !errors.As(err, &bootErr) || bootErr.Code != StorageProviderBootstrapErrorMissingBucket {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResolveObjectStoreLocalMode(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Storage: gcp.StorageConfig{Mode: gcp.StorageModeLocal},
		Local:   localstore.Config{Root: dir, PublicBaseURL: "http://localhost:8080/files"},
	}
	p, err := resolveObjectStore(context.Background(), logger.Nop(), cfg)
	if err != nil {
		t.Fatalf("resolveObjectStore: %v", err)
	}
	if p.FilesDir == "" {
		t.Fatalf("expected files dir in local mode")
	}
	url, err := p.Store.Put(context.Background(), "uploads/a@b.co/1.png", []byte("x"), "image/png")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "http://localhost:8080/files/uploads/a@b.co/1.png" {
		t.Fatalf("url=%q", url)
	}
}

func TestResolveObjectStoreUsesBucketFactory(t *testing.T) {
	orig := newBucket
	t.Cleanup(func() { newBucket = orig })

	var gotCfg gcp.StorageConfig
	newBucket = func(_ context.Context, _ *logger.Logger, cfg gcp.StorageConfig) (services.ObjectStore, error) {
		gotCfg = cfg
		return nil, errors.New("connection refused")
	}
	cfg := Config{Storage: gcp.StorageConfig{Mode: gcp.StorageModeGCSEmulator, Bucket: "charms", EmulatorHost: "http://fake-gcs:4443"}}
	_, err := resolveObjectStore(context.Background(), logger.Nop(), cfg)
	var bootErr *StorageProviderBootstrapError
	if !errors.As(err, &bootErr) || bootErr.Code != StorageProviderBootstrapErrorConnectFailed {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCfg.Bucket != "charms" || bootErr.Mode != string(gcp.StorageModeGCSEmulator) {
		t.Fatalf("bucket factory got %+v, mode %q", gotCfg, bootErr.Mode)
	}
}
