package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/taiyaki-backend/internal/data/db"
	httpapi "github.com/yungbote/taiyaki-backend/internal/http"
	"github.com/yungbote/taiyaki-backend/internal/observability"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
	"github.com/yungbote/taiyaki-backend/internal/realtime"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *httpapi.Server
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services

	dbService    *db.Service
	shutdownOTel func(context.Context) error
	cancel       context.CancelFunc
}

// New loads configuration from the environment and wires the full stack.
func New(ctx context.Context) (*App, error) {
	cfg := LoadConfig()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a, err := NewWithConfig(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

func NewWithConfig(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	shutdownOTel := observability.InitOTel(ctx, log, cfg.Otel)

	dbService, err := db.Open(cfg.DB, log)
	if err != nil {
		_ = shutdownOTel(ctx)
		return nil, fmt.Errorf("init database: %w", err)
	}
	if cfg.AutoMigrate {
		if err := db.AutoMigrateAll(dbService.DB()); err != nil {
			_ = dbService.Close()
			_ = shutdownOTel(ctx)
			return nil, fmt.Errorf("database automigrate: %w", err)
		}
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = dbService.Close()
		_ = shutdownOTel(ctx)
		return nil, err
	}

	reposet := wireRepos(dbService.DB(), log)
	serviceset, err := wireServices(log, clients, reposet)
	if err != nil {
		clients.Close(log)
		_ = dbService.Close()
		_ = shutdownOTel(ctx)
		return nil, err
	}
	handlerset := wireHandlers(log, serviceset, dbService)
	server := wireRouter(log, cfg, handlerset, clients.Storage.FilesDir)

	return &App{
		Log:          log,
		DB:           dbService.DB(),
		Server:       server,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		dbService:    dbService,
		shutdownOTel: shutdownOTel,
	}, nil
}

// Start launches background listeners. It is safe to call more than once.
func (a *App) Start(ctx context.Context) {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if a.Clients.StatusBus != nil {
		err := a.Clients.StatusBus.StartForwarder(ctx, func(ev realtime.StatusEvent) {
			a.Log.Debug("design status", "design_id", ev.DesignID, "record_id", ev.RecordID, "status", ev.Status, "message", ev.Message)
		})
		if err != nil {
			a.Log.Warn("status forwarder not started", "error", err)
		}
	}
}

// Run serves HTTP on the configured address until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Start(ctx)
	a.Log.Info("Server starting", "addr", a.Cfg.Addr)
	return a.Server.Run(ctx, a.Cfg.Addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close(a.Log)
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.shutdownOTel != nil {
		if err := a.shutdownOTel(context.Background()); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
