package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config is filled from DATABASE_* environment variables.
// URL takes precedence over the discrete connection fields.
type Config struct {
	URL             string
	Host            string        `default:"localhost"`
	User            string        `default:"postgres"`
	Password        string
	Name            string        `default:"orders"`
	Port            string        `default:"5432"`
	SSLMode         string        `split_words:"true" default:"disable"`
	TimeZone        string        `split_words:"true" default:"UTC"`
	MaxIdleConns    int           `split_words:"true" default:"10"`
	MaxOpenConns    int           `split_words:"true" default:"100"`
	ConnMaxLifetime time.Duration `split_words:"true" default:"1h"`
}

// DSN returns the connection string handed to the postgres driver.
func (c Config) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone,
	)
}

// NewLogger routes gorm's logs through the global zerolog logger.
func NewLogger(production bool) logger.Interface {
	level := logger.Info
	if production {
		level = logger.Warn
	}
	writer := log.Logger.Level(zerolog.DebugLevel)
	return logger.New(
		&writer,
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// ConnectDB opens the postgres connection pool.
func ConnectDB(cfg Config, production bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // Disables implicit prepared statements for pgbouncer transaction mode
	}), &gorm.Config{
		Logger:      NewLogger(production),
		PrepareStmt: false,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	log.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("Database connection established")
	return db, nil
}
