package app

import (
	httpH "github.com/yungbote/taiyaki-backend/internal/http/handlers"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
)

type Handlers struct {
	Design    *httpH.DesignHandler
	Pipeline  *httpH.PipelineHandler
	Image     *httpH.ImageHandler
	Analytics *httpH.AnalyticsHandler
	Health    *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, db httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Design:    httpH.NewDesignHandler(log, serviceset.Intake, serviceset.Render, serviceset.Product, serviceset.Notifier, serviceset.Designs),
		Pipeline:  httpH.NewPipelineHandler(log, serviceset.Fulfillment),
		Image:     httpH.NewImageHandler(log, serviceset.Render),
		Analytics: httpH.NewAnalyticsHandler(log, serviceset.Analytics),
		Health:    httpH.NewHealthHandler(db),
	}
}
