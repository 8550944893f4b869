package testutil

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/taiyaki-backend/internal/data/db"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
)

var dbSeq atomic.Int64

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logg, err := logger.New("test")
	if err != nil {
		tb.Fatalf("failed to init logger: %v", err)
	}
	return logg
}

// DB returns a migrated database private to the calling test. Set
// TEST_POSTGRES_DSN to run against Postgres instead of in-memory sqlite.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	cfg := db.Config{Silent: true}
	if dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN")); dsn != "" {
		cfg.Driver = db.DriverPostgres
		cfg.DSN = dsn
	} else {
		cfg.Driver = db.DriverSQLite
		cfg.SQLitePath = fmt.Sprintf("file:taiyaki_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	}

	svc, err := db.Open(cfg, logger.Nop())
	if err != nil {
		tb.Fatalf("failed to init test db: %v", err)
	}
	tb.Cleanup(func() { _ = svc.Close() })

	if err := db.AutoMigrateAll(svc.DB()); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	return svc.DB()
}
