package app

import (
	httpapi "github.com/yungbote/taiyaki-backend/internal/http"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlerset Handlers, filesDir string) *httpapi.Server {
	log.Info("Wiring router...")
	return httpapi.NewServer(httpapi.RouterConfig{
		Log:              log,
		ServiceName:      cfg.Otel.ServiceName,
		Tracing:          cfg.Otel.Enabled,
		FilesDir:         filesDir,
		DesignHandler:    handlerset.Design,
		PipelineHandler:  handlerset.Pipeline,
		ImageHandler:     handlerset.Image,
		AnalyticsHandler: handlerset.Analytics,
		HealthHandler:    handlerset.Health,
	})
}
