package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/taiyaki-backend/internal/http/handlers"
	httpMW "github.com/yungbote/taiyaki-backend/internal/http/middleware"
	"github.com/yungbote/taiyaki-backend/internal/http/response"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	// Tracing wraps requests in otelgin spans.
	Tracing bool
	// FilesDir, when set, is served under /files (local object storage).
	FilesDir string

	DesignHandler    *httpH.DesignHandler
	PipelineHandler  *httpH.PipelineHandler
	ImageHandler     *httpH.ImageHandler
	AnalyticsHandler *httpH.AnalyticsHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	if cfg.Tracing {
		name := cfg.ServiceName
		if name == "" {
			name = "taiyaki-backend"
		}
		r.Use(otelgin.Middleware(name))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())
	r.Use(httpMW.Preflight())

	r.NoMethod(func(c *gin.Context) {
		response.RespondError(c, http.StatusMethodNotAllowed, "method_not_allowed", errMethodNotAllowed(c.Request.Method))
	})
	r.NoRoute(func(c *gin.Context) {
		response.RespondError(c, http.StatusNotFound, "not_found", errNotFound)
	})

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	if cfg.FilesDir != "" {
		r.Static("/files", cfg.FilesDir)
	}

	mount(r.Group("/"), cfg)
	mount(r.Group("/api"), cfg)
	return r
}

func mount(g *gin.RouterGroup, cfg RouterConfig) {
	if cfg.DesignHandler != nil {
		g.POST("/upload", cfg.DesignHandler.Upload)
		g.POST("/render", cfg.DesignHandler.Render)
		g.POST("/render-variants", cfg.DesignHandler.RenderVariants)
		g.POST("/create-product", cfg.DesignHandler.CreateProduct)
		g.POST("/send-email", cfg.DesignHandler.SendEmail)
		g.GET("/designs", cfg.DesignHandler.ListByEmail)
		g.GET("/designs/:id", cfg.DesignHandler.Get)
	}
	if cfg.PipelineHandler != nil {
		g.POST("/process-complete", cfg.PipelineHandler.ProcessComplete)
	}
	if cfg.ImageHandler != nil {
		g.POST("/generate-image", cfg.ImageHandler.Generate)
	}
	if cfg.AnalyticsHandler != nil {
		g.POST("/track-analytics", cfg.AnalyticsHandler.Track)
	}
}
