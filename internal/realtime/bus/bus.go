package bus

import (
	"context"
	"strings"

	"github.com/yungbote/taiyaki-backend/internal/platform/envutil"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
	"github.com/yungbote/taiyaki-backend/internal/realtime"
)

type Bus interface {
	Publish(ctx context.Context, ev realtime.StatusEvent) error
	StartForwarder(ctx context.Context, onEvent func(ev realtime.StatusEvent)) error
	Close() error
}

const DefaultChannel = "designs:status"

type Config struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

func ConfigFromEnv() Config {
	return Config{
		Addr:     envutil.String("REDIS_ADDR", ""),
		Password: envutil.String("REDIS_PASSWORD", ""),
		DB:       envutil.Int("REDIS_DB", 0),
		Channel:  envutil.String("REDIS_CHANNEL", DefaultChannel),
	}
}

// New returns a redis-backed bus, or a no-op bus when no address is configured.
func New(log *logger.Logger, cfg Config) (Bus, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		if log != nil {
			log.Info("REDIS_ADDR not set; status events disabled")
		}
		return Noop(), nil
	}
	return NewRedisBus(log, cfg)
}

type noopBus struct{}

func Noop() Bus { return noopBus{} }

func (noopBus) Publish(context.Context, realtime.StatusEvent) error { return nil }

func (noopBus) StartForwarder(context.Context, func(realtime.StatusEvent)) error { return nil }

func (noopBus) Close() error { return nil }
