package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/taiyaki-backend/internal/data/db"
	"github.com/yungbote/taiyaki-backend/internal/platform/gcp"
	"github.com/yungbote/taiyaki-backend/internal/platform/localstore"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
	"github.com/yungbote/taiyaki-backend/internal/platform/openai"
	"github.com/yungbote/taiyaki-backend/internal/platform/sendgrid"
	"github.com/yungbote/taiyaki-backend/internal/platform/shopify"
)

var appDBSeq atomic.Int64

func localConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Addr:        ":0",
		AutoMigrate: true,
		DB: db.Config{
			Driver:     db.DriverSQLite,
			SQLitePath: fmt.Sprintf("file:taiyaki_app_%d?mode=memory&cache=shared", appDBSeq.Add(1)),
			Silent:     true,
		},
		Storage:       gcp.StorageConfig{Mode: gcp.StorageModeLocal},
		Local:         localstore.Config{Root: t.TempDir(), PublicBaseURL: "http://files.test"},
		ImageProvider: ImageProviderOpenAI,
		OpenAI:        openai.Config{APIKey: "sk-test"},
		Shopify:       shopify.Config{StoreDomain: "https://charms.myshopify.com/", AccessToken: "shpat-test"},
		SendGrid:      sendgrid.Config{APIKey: "SG.test", DefaultFromEmail: "orders@taiyaki.test"},
	}
}

func TestNewWithConfigWiresLocalStack(t *testing.T) {
	gin.SetMode(gin.TestMode)

	a, err := NewWithConfig(context.Background(), logger.Nop(), localConfig(t))
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	t.Cleanup(a.Close)

	if a.Services.Fulfillment == nil || a.Services.Analytics == nil || a.Repos.Design == nil {
		t.Fatalf("services not wired: %+v", a.Services)
	}
	if a.Clients.Generator.Vendor() != "OpenAI" {
		t.Fatalf("vendor=%q", a.Clients.Generator.Vendor())
	}

	for _, path := range []string{"/healthcheck", "/readyz"} {
		w := httptest.NewRecorder()
		a.Server.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status=%d body=%s", path, w.Code, w.Body.String())
		}
	}

	w := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/designs?email=nobody@example.com", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("designs: status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestNewWithConfigRejectsUnknownImageProvider(t *testing.T) {
	cfg := localConfig(t)
	cfg.ImageProvider = "dalle-mini"
	_, err := NewWithConfig(context.Background(), logger.Nop(), cfg)
	if err == nil || !strings.Contains(err.Error(), "IMAGE_PROVIDER") {
		t.Fatalf("expected image provider error, got %v", err)
	}
}

func TestNewWithConfigRequiresShopifyCredentials(t *testing.T) {
	cfg := localConfig(t)
	cfg.Shopify = shopify.Config{}
	_, err := NewWithConfig(context.Background(), logger.Nop(), cfg)
	if err == nil || !strings.Contains(err.Error(), "SHOPIFY_STORE_URL") {
		t.Fatalf("expected shopify error, got %v", err)
	}
}
