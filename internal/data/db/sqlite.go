package db

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func sqliteDialector(cfg Config) gorm.Dialector {
	path := cfg.SQLitePath
	if path == "" {
		path = "taiyaki.db"
	}
	return sqlite.Open(path)
}
