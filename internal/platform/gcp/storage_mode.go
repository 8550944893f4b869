package gcp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/yungbote/taiyaki-backend/internal/platform/envutil"
)

type StorageMode string

const (
	StorageModeGCS         StorageMode = "gcs"
	StorageModeGCSEmulator StorageMode = "gcs_emulator"
	StorageModeLocal       StorageMode = "local"
)

// StorageConfig selects where photos and renders are written.
type StorageConfig struct {
	Mode          StorageMode
	Bucket        string
	CDNDomain     string
	PublicBaseURL string
	EmulatorHost  string
	// ModeInferred is set when the mode came from STORAGE_EMULATOR_HOST alone.
	ModeInferred bool
}

func (cfg StorageConfig) IsEmulator() bool { return cfg.Mode == StorageModeGCSEmulator }

type ConfigError struct {
	Field string
	Value string
	Cause error
}

func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("object storage: %s is required", e.Field)
	}
	return fmt.Sprintf("object storage: invalid %s=%q", e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error { return e.Cause }

func StorageConfigFromEnv() (StorageConfig, error) {
	cfg := StorageConfig{
		Bucket:        envutil.String("GCS_BUCKET_NAME", envutil.String("FIREBASE_STORAGE_BUCKET", "")),
		CDNDomain:     envutil.String("STORAGE_CDN_DOMAIN", ""),
		PublicBaseURL: strings.TrimRight(envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", ""), "/"),
		EmulatorHost:  strings.TrimRight(envutil.String("STORAGE_EMULATOR_HOST", ""), "/"),
	}
	raw := envutil.String("OBJECT_STORAGE_MODE", "")
	switch mode := StorageMode(strings.ToLower(raw)); mode {
	case "":
		cfg.Mode = StorageModeGCS
		if cfg.EmulatorHost != "" {
			cfg.Mode = StorageModeGCSEmulator
			cfg.ModeInferred = true
		}
	case StorageModeGCS, StorageModeGCSEmulator, StorageModeLocal:
		cfg.Mode = mode
	default:
		return cfg, &ConfigError{Field: "OBJECT_STORAGE_MODE", Value: raw}
	}
	return cfg, cfg.Validate()
}

func (cfg StorageConfig) Validate() error {
	switch cfg.Mode {
	case StorageModeLocal:
		return nil
	case StorageModeGCS, StorageModeGCSEmulator:
	default:
		return &ConfigError{Field: "OBJECT_STORAGE_MODE", Value: string(cfg.Mode)}
	}
	if cfg.Bucket == "" {
		return &ConfigError{Field: "GCS_BUCKET_NAME"}
	}
	if cfg.PublicBaseURL != "" {
		if err := requireAbsoluteURL(cfg.PublicBaseURL); err != nil {
			return &ConfigError{Field: "OBJECT_STORAGE_PUBLIC_BASE_URL", Value: cfg.PublicBaseURL, Cause: err}
		}
	}
	if !cfg.IsEmulator() {
		return nil
	}
	if cfg.EmulatorHost == "" {
		return &ConfigError{Field: "STORAGE_EMULATOR_HOST"}
	}
	if err := requireAbsoluteURL(cfg.EmulatorHost); err != nil {
		return &ConfigError{Field: "STORAGE_EMULATOR_HOST", Value: cfg.EmulatorHost, Cause: err}
	}
	return nil
}

func requireAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("expected absolute URL like http://fake-gcs:4443")
	}
	return nil
}
