package app

import (
	"context"
	"fmt"

	"github.com/yungbote/taiyaki-backend/internal/platform/gemini"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
	"github.com/yungbote/taiyaki-backend/internal/platform/openai"
	"github.com/yungbote/taiyaki-backend/internal/platform/sendgrid"
	"github.com/yungbote/taiyaki-backend/internal/platform/shopify"
	"github.com/yungbote/taiyaki-backend/internal/realtime/bus"
	"github.com/yungbote/taiyaki-backend/internal/services"
)

type Clients struct {
	Storage   *storageProvider
	Generator services.ImageGenerator
	Shopify   *shopify.Client
	SendGrid  *sendgrid.Client
	StatusBus bus.Bus
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	storage, err := resolveObjectStore(ctx, log, cfg)
	if err != nil {
		return Clients{}, err
	}

	generator, err := newImageGenerator(ctx, log, cfg)
	if err != nil {
		return Clients{}, err
	}

	shop, err := shopify.New(log, cfg.Shopify)
	if err != nil {
		return Clients{}, fmt.Errorf("init shopify client: %w", err)
	}

	mail, err := sendgrid.New(log, cfg.SendGrid)
	if err != nil {
		return Clients{}, fmt.Errorf("init sendgrid client: %w", err)
	}

	statusBus, err := bus.New(log, cfg.Redis)
	if err != nil {
		return Clients{}, fmt.Errorf("init status bus: %w", err)
	}

	return Clients{
		Storage:   storage,
		Generator: generator,
		Shopify:   shop,
		SendGrid:  mail,
		StatusBus: statusBus,
	}, nil
}

func newImageGenerator(ctx context.Context, log *logger.Logger, cfg Config) (services.ImageGenerator, error) {
	switch cfg.ImageProvider {
	case ImageProviderGemini:
		c, err := gemini.New(ctx, log, cfg.Gemini)
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		return services.NewGeminiImageGenerator(c), nil
	case ImageProviderOpenAI, "":
		c, err := openai.New(log, cfg.OpenAI)
		if err != nil {
			return nil, fmt.Errorf("init openai client: %w", err)
		}
		return services.NewOpenAIImageGenerator(c), nil
	default:
		return nil, fmt.Errorf("unsupported IMAGE_PROVIDER %q", cfg.ImageProvider)
	}
}

func (c Clients) Close(log *logger.Logger) {
	if c.StatusBus != nil {
		if err := c.StatusBus.Close(); err != nil {
			log.Warn("status bus close failed", "error", err)
		}
	}
	if c.Storage != nil && c.Storage.Close != nil {
		if err := c.Storage.Close(); err != nil {
			log.Warn("object storage close failed", "error", err)
		}
	}
}
