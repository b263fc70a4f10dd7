package database

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/amirasaad/fintrack/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlitePragmas make sqlite behave as a multi-writer ledger store: writers
// take the write lock at BEGIN, wait for each other instead of failing
// immediately, and readers never block on writers.
var sqlitePragmas = map[string]string{
	"_txlock":       "immediate",
	"_busy_timeout": "5000",
	"_journal_mode": "WAL",
	"_foreign_keys": "on",
}

// New opens the configured database. appEnv selects the gorm log level.
func New(cfg *config.DB, appEnv string) (*gorm.DB, error) {
	if cfg == nil || cfg.Url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	logMode := logger.Silent
	if appEnv == "development" {
		logMode = logger.Info
	}
	gormCfg := &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		return OpenSQLite(cfg.Url, gormCfg)
	case config.DriverPostgres, "":
		return openPostgres(cfg, gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openPostgres(cfg *config.DB, gormCfg *gorm.Config) (*gorm.DB, error) {
	connection, err := gorm.Open(postgres.Open(cfg.Url), gormCfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)
	return connection, nil
}

// OpenSQLite opens a sqlite file with the ledger pragmas applied. A nil
// gormCfg gets a silent logger.
func OpenSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{
			Logger:                 logger.Default.LogMode(logger.Silent),
			SkipDefaultTransaction: true,
			TranslateError:         true,
		}
	}
	return gorm.Open(sqlite.Open(SQLiteDSN(path)), gormCfg)
}

// SQLiteDSN appends the ledger pragmas to path unless the caller already
// set them.
func SQLiteDSN(path string) string {
	base, rawQuery, _ := strings.Cut(path, "?")
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		q = url.Values{}
	}
	for k, v := range sqlitePragmas {
		if !q.Has(k) {
			q.Set(k, v)
		}
	}
	return base + "?" + q.Encode()
}
