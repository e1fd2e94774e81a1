// Package db opens the gorm connection for the configured driver and migrates the schema.
package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// retryInterval は接続リトライの間隔です。
var retryInterval = 3 * time.Second

// Config はデータベース接続設定です。
type Config struct {
	Driver string // "sqlite" or "postgres"

	// sqlite
	Path string

	// postgres
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	SSLMode  string

	ConnectTimeout time.Duration
	Migrate        bool
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	cfg := Config{
		Driver:         getenv("DB_DRIVER", DriverSQLite),
		Path:           getenv("DB_PATH", "./data/stocks.db"),
		User:           os.Getenv("DB_USER"),
		Password:       os.Getenv("DB_PASSWORD"),
		Name:           os.Getenv("DB_NAME"),
		Host:           os.Getenv("DB_HOST"),
		Port:           getenv("DB_PORT", "5432"),
		SSLMode:        getenv("DB_SSLMODE", "disable"),
		ConnectTimeout: 60 * time.Second,
		Migrate:        os.Getenv("RUN_MIGRATIONS") != "false",
	}
	return cfg
}

// BuildDSN はドライバーに応じた接続文字列を生成します。
func BuildDSN(cfg Config) string {
	if cfg.Driver == DriverPostgres {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
	}
	return cfg.Path + "?_busy_timeout=5000"
}

// Dialector はドライバー名からgormのDialectorを返します。
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverSQLite, "":
		return sqlite.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// ConnectWithRetry はopenerが成功するかtimeoutを過ぎるまで接続を繰り返します。
func ConnectWithRetry(dsn string, timeout time.Duration, opener func(string) (*gorm.DB, error)) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}

		wait := min(retryInterval, time.Until(deadline))
		if wait <= 0 {
			return nil, fmt.Errorf("db connect failed after %v: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "wait", wait)
		time.Sleep(wait)
	}
}

// Open は設定に従って接続し、必要に応じてmodelsをAutoMigrateします。
// SQLiteでは書き込みを直列化するため接続数を1に制限します。
func Open(cfg Config, models ...any) (*gorm.DB, error) {
	if _, err := Dialector(cfg.Driver, ""); err != nil {
		return nil, err
	}

	if cfg.Driver == DriverSQLite || cfg.Driver == "" {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
	}

	opener := func(dsn string) (*gorm.DB, error) {
		dialector, err := Dialector(cfg.Driver, dsn)
		if err != nil {
			return nil, err
		}
		return gorm.Open(dialector, &gorm.Config{TranslateError: true})
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), cfg.ConnectTimeout, opener)
	if err != nil {
		return nil, err
	}

	if cfg.Driver == DriverSQLite || cfg.Driver == "" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if cfg.Migrate && len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}

	slog.Info("database ready", "driver", cfg.Driver)
	return db, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
