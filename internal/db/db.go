package db

import (
	"errors"
	"log"
	"time"

	"lue-lue-backend/internal/config"

	"github.com/jackc/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Sentinel errors surfaced by the repositories. Handlers map these onto
// HTTP status codes.
var (
	ErrEmptyRoster      = errors.New("player roster must not be empty")
	ErrGameFull         = errors.New("game already has the maximum number of players")
	ErrEmptyMessage     = errors.New("chat message must not be empty")
	ErrTooManyCards     = errors.New("claim exceeds the card limit")
	ErrConflictingQuery = errors.New("player_id and claim_id filters are mutually exclusive")
	ErrNoUpdateFields   = errors.New("no fields to update")
)

// Open connects to Postgres using DATABASE_URL and applies the pool settings
// from the config.
func Open(cfg config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	conn, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeSeconds) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTimeSeconds) * time.Second)
	return conn, nil
}

// Migrate runs GORM auto-migrations for the core tables.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("db connection is nil")
	}
	if err := conn.AutoMigrate(
		&Game{},
		&Player{},
		&Claim{},
		&Card{},
		&Message{},
		&Event{},
	); err != nil {
		return err
	}
	log.Println("database migration complete")
	return nil
}

// IsNotFound reports whether err means the queried row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
