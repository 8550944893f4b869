package db

import (
	"fmt"
	"net/url"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// postgresDialector prefers DATABASE_URL (Supabase hands one out) and
// otherwise assembles a DSN from the discrete settings.
func postgresDialector(cfg Config) gorm.Dialector {
	dsn := cfg.DSN
	if dsn == "" {
		u := &url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(cfg.User, cfg.Password),
			Host:   fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			Path:   "/" + cfg.Name,
		}
		q := u.Query()
		q.Set("sslmode", cfg.SSLMode)
		u.RawQuery = q.Encode()
		dsn = u.String()
	}
	return postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: cfg.SimpleProtocol,
	})
}
