package app

import (
	"strings"

	"github.com/yungbote/taiyaki-backend/internal/data/db"
	"github.com/yungbote/taiyaki-backend/internal/observability"
	"github.com/yungbote/taiyaki-backend/internal/platform/envutil"
	"github.com/yungbote/taiyaki-backend/internal/platform/gcp"
	"github.com/yungbote/taiyaki-backend/internal/platform/gemini"
	"github.com/yungbote/taiyaki-backend/internal/platform/localstore"
	"github.com/yungbote/taiyaki-backend/internal/platform/openai"
	"github.com/yungbote/taiyaki-backend/internal/platform/sendgrid"
	"github.com/yungbote/taiyaki-backend/internal/platform/shopify"
	"github.com/yungbote/taiyaki-backend/internal/realtime/bus"
)

const (
	ImageProviderOpenAI = "openai"
	ImageProviderGemini = "gemini"
)

type Config struct {
	LogMode     string
	Addr        string
	AutoMigrate bool

	DB db.Config

	Storage    gcp.StorageConfig
	StorageErr error
	Local      localstore.Config

	ImageProvider string
	OpenAI        openai.Config
	Gemini        gemini.Config

	Shopify  shopify.Config
	SendGrid sendgrid.Config
	Redis    bus.Config
	Otel     observability.OtelConfig
}

func LoadConfig() Config {
	storage, storageErr := gcp.StorageConfigFromEnv()
	port := envutil.String("PORT", "8080")
	return Config{
		LogMode:       envutil.String("LOG_MODE", "development"),
		Addr:          envutil.String("HTTP_ADDR", ":"+port),
		AutoMigrate:   envutil.Bool("DB_AUTO_MIGRATE", true),
		DB:            db.ConfigFromEnv(),
		Storage:       storage,
		StorageErr:    storageErr,
		Local:         localstore.ConfigFromEnv(),
		ImageProvider: strings.ToLower(envutil.String("IMAGE_PROVIDER", ImageProviderOpenAI)),
		OpenAI:        openai.ConfigFromEnv(),
		Gemini:        gemini.ConfigFromEnv(),
		Shopify:       shopify.ConfigFromEnv(),
		SendGrid:      sendgrid.ConfigFromEnv(),
		Redis:         bus.ConfigFromEnv(),
		Otel:          observability.OtelConfigFromEnv(),
	}
}
