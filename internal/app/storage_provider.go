package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/taiyaki-backend/internal/platform/gcp"
	"github.com/yungbote/taiyaki-backend/internal/platform/localstore"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
	"github.com/yungbote/taiyaki-backend/internal/services"
)

var newBucket = func(ctx context.Context, log *logger.Logger, cfg gcp.StorageConfig) (services.ObjectStore, error) {
	return gcp.NewBucket(ctx, log, cfg)
}

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode     StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingBucket   StorageProviderBootstrapErrorCode = "missing_bucket"
	StorageProviderBootstrapErrorMissingEmulator StorageProviderBootstrapErrorCode = "missing_emulator_host"
	StorageProviderBootstrapErrorInvalidEmulator StorageProviderBootstrapErrorCode = "invalid_emulator_host"
	StorageProviderBootstrapErrorInvalidConfig   StorageProviderBootstrapErrorCode = "invalid_config"
	StorageProviderBootstrapErrorConnectFailed   StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code  StorageProviderBootstrapErrorCode
	Mode  string
	Cause error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf("object storage bootstrap failed (code=%s mode=%q): %v", e.Code, e.Mode, e.Cause)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type storageProvider struct {
	Store services.ObjectStore
	// FilesDir is the directory to serve under /files, set in local mode.
	FilesDir string
	Close    func() error
}

func resolveObjectStore(ctx context.Context, log *logger.Logger, cfg Config) (*storageProvider, error) {
	mode := cfg.Storage.Mode
	if cfg.StorageErr != nil {
		err := classifyStorageProviderBootstrapError(string(mode), cfg.StorageErr)
		log.Error("Object storage provider selection failed", "mode", mode, "error", err)
		return nil, err
	}

	log.Info("Selecting object storage provider", "mode", mode, "mode_inferred", cfg.Storage.ModeInferred)
	if mode == gcp.StorageModeLocal {
		store, err := localstore.New(log, cfg.Local)
		if err != nil {
			return nil, classifyStorageProviderBootstrapError(string(mode), err)
		}
		return &storageProvider{Store: store, FilesDir: store.Root(), Close: func() error { return nil }}, nil
	}

	store, err := newBucket(ctx, log, cfg.Storage)
	if err != nil {
		classified := classifyStorageProviderBootstrapError(string(mode), err)
		log.Error("Object storage provider bootstrap failed", "mode", mode, "error", classified)
		return nil, classified
	}
	closeFn := func() error { return nil }
	if c, ok := store.(interface{ Close() error }); ok {
		closeFn = c.Close
	}
	return &storageProvider{Store: store, Close: closeFn}, nil
}

func classifyStorageProviderBootstrapError(mode string, err error) error {
	var cfgErr *gcp.ConfigError
	if errors.As(err, &cfgErr) {
		code := StorageProviderBootstrapErrorInvalidConfig
		switch cfgErr.Field {
		case "OBJECT_STORAGE_MODE":
			code = StorageProviderBootstrapErrorInvalidMode
		case "GCS_BUCKET_NAME":
			code = StorageProviderBootstrapErrorMissingBucket
		case "STORAGE_EMULATOR_HOST":
			code = StorageProviderBootstrapErrorMissingEmulator
			if cfgErr.Value != "" {
				code = StorageProviderBootstrapErrorInvalidEmulator
			}
		}
		return &StorageProviderBootstrapError{Code: code, Mode: mode, Cause: err}
	}
	return &StorageProviderBootstrapError{Code: StorageProviderBootstrapErrorConnectFailed, Mode: mode, Cause: err}
}
