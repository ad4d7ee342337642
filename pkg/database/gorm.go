package database

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrMissingDSN = errors.New("database: connection string is empty")

// PoolConfig sizes the database/sql pool under gorm.
type PoolConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: time.Hour,
	}
}

type Options struct {
	Pool     PoolConfig
	LogLevel logger.LogLevel
}

func getLogger(level logger.LogLevel) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true, // keep journal text out of SQL logs
			Colorful:                  true,
		},
	)
}

func configureConnectionPool(db *gorm.DB, pool PoolConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	return nil
}

// Describe parses dsn with pgx and returns "user@host:port/db" without the
// password, for startup logs.
func Describe(dsn string) (string, error) {
	if dsn == "" {
		return "", ErrMissingDSN
	}
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return "", fmt.Errorf("database: invalid connection string: %w", err)
	}
	return fmt.Sprintf("%s@%s:%d/%s", cfg.User, cfg.Host, cfg.Port, cfg.Database), nil
}

// NewGormDBFromDSN opens postgres through the pgx driver with the default
// pool and warn-level SQL logging.
func NewGormDBFromDSN(dsn string) (*gorm.DB, error) {
	return Open(dsn, Options{Pool: DefaultPoolConfig(), LogLevel: logger.Warn})
}

func Open(dsn string, opts Options) (*gorm.DB, error) {
	target, err := Describe(dsn)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: getLogger(opts.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("database: connect %s: %w", target, err)
	}

	if err := configureConnectionPool(db, opts.Pool); err != nil {
		return nil, err
	}

	log.Printf("[INFO] Connected to postgres %s", target)
	return db, nil
}
