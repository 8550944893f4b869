package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/taiyaki-backend/internal/platform/envutil"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver string

	DSN            string
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	SimpleProtocol bool

	SQLitePath string

	SlowThreshold time.Duration
	Silent        bool
}

func ConfigFromEnv() Config {
	return Config{
		Driver:         strings.ToLower(envutil.String("DB_DRIVER", DriverPostgres)),
		DSN:            envutil.String("DATABASE_URL", ""),
		Host:           envutil.String("POSTGRES_HOST", "localhost"),
		Port:           envutil.String("POSTGRES_PORT", "5432"),
		User:           envutil.String("POSTGRES_USER", "postgres"),
		Password:       envutil.String("POSTGRES_PASSWORD", ""),
		Name:           envutil.String("POSTGRES_NAME", "taiyaki"),
		SSLMode:        envutil.String("POSTGRES_SSLMODE", "disable"),
		SimpleProtocol: envutil.Bool("POSTGRES_SIMPLE_PROTOCOL", false),
		SQLitePath:     envutil.String("SQLITE_PATH", "taiyaki.db"),
		SlowThreshold:  envutil.Duration("DB_SLOW_THRESHOLD", time.Second),
	}
}

type Service struct {
	db     *gorm.DB
	driver string
	log    *logger.Logger
}

func Open(cfg Config, logg *logger.Logger) (*Service, error) {
	serviceLog := logg.With("service", "DBService", "driver", cfg.Driver)

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres, "postgresql", "supabase":
		cfg.Driver = DriverPostgres
		dialector = postgresDialector(cfg)
	case DriverSQLite, "sqlite3":
		cfg.Driver = DriverSQLite
		dialector = sqliteDialector(cfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             cfg.SlowThreshold,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	if cfg.Silent {
		gormLog = gormLogger.Default.LogMode(gormLogger.Silent)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}

	if cfg.Driver == DriverSQLite {
		// sqlite serializes writers; one connection avoids "database is locked".
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	serviceLog.Info("database connected")
	return &Service{db: db, driver: cfg.Driver, log: serviceLog}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) Driver() string { return s.driver }

func (s *Service) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsUniqueViolation reports duplicate-key failures from either driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
