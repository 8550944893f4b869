package gcp

import (
	"errors"
	"testing"
)

func setStorageEnv(t *testing.T, mode, bucket, emulator string) {
	t.Helper()
	t.Setenv("OBJECT_STORAGE_MODE", mode)
	t.Setenv("GCS_BUCKET_NAME", bucket)
	t.Setenv("FIREBASE_STORAGE_BUCKET", "")
	t.Setenv("STORAGE_EMULATOR_HOST", emulator)
	t.Setenv("OBJECT_STORAGE_PUBLIC_BASE_URL", "")
}

func TestStorageConfigFromEnvDefaultGCS(t *testing.T) {
	setStorageEnv(t, "", "charms", "")
	cfg, err := StorageConfigFromEnv()
	if err != nil {
		t.Fatalf("StorageConfigFromEnv: %v", err)
	}
	if cfg.Mode != StorageModeGCS || cfg.ModeInferred {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestStorageConfigFromEnvInfersEmulator(t *testing.T) {
	setStorageEnv(t, "", "charms", "http://fake-gcs:4443/")
	cfg, err := StorageConfigFromEnv()
	if err != nil {
		t.Fatalf("StorageConfigFromEnv: %v", err)
	}
	if cfg.Mode != StorageModeGCSEmulator || !cfg.ModeInferred {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.EmulatorHost != "http://fake-gcs:4443" {
		t.Fatalf("emulator host not trimmed: %q", cfg.EmulatorHost)
	}
}

func TestStorageConfigFromEnvExplicitGCSIgnoresEmulatorHost(t *testing.T) {
	setStorageEnv(t, "gcs", "charms", "http://fake-gcs:4443")
	cfg, err := StorageConfigFromEnv()
	if err != nil {
		t.Fatalf("StorageConfigFromEnv: %v", err)
	}
	if cfg.Mode != StorageModeGCS || cfg.ModeInferred {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestStorageConfigFromEnvLocalNeedsNoBucket(t *testing.T) {
	setStorageEnv(t, "local", "", "")
	cfg, err := StorageConfigFromEnv()
	if err != nil {
		t.Fatalf("StorageConfigFromEnv: %v", err)
	}
	if cfg.Mode != StorageModeLocal {
		t.Fatalf("mode=%q", cfg.Mode)
	}
}

func TestStorageConfigFromEnvErrors(t *testing.T) {
	cases := []struct {
		name, mode, bucket, emulator, field string
	}{
		{"invalid mode", "s3", "charms", "", "OBJECT_STORAGE_MODE"},
		{"missing bucket", "gcs", "", "", "GCS_BUCKET_NAME"},
		{"emulator without host", "gcs_emulator", "charms", "", "STORAGE_EMULATOR_HOST"},
		{"relative emulator host", "gcs_emulator", "charms", "fake-gcs:4443", "STORAGE_EMULATOR_HOST"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setStorageEnv(t, tc.mode, tc.bucket, tc.emulator)
			_, err := StorageConfigFromEnv()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tc.field {
				t.Fatalf("field: want=%q got=%q", tc.field, cfgErr.Field)
			}
		})
	}
}
