package main

import (
	"log"
	"os"

	"lue-lue-backend/internal/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}

	m, err := migrate.New("file://db/migrations", mustDatabaseURL())
	if err != nil {
		log.Fatalf("migration setup failed: %v", err)
	}
	switch err := m.Up(); {
	case err == migrate.ErrNoChange:
		log.Println("lue-lue schema already up to date")
	case err != nil:
		log.Fatalf("database migration failed: %v", err)
	default:
		log.Println("lue-lue schema migrated")
	}
}

func mustDatabaseURL() string {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	return dsn
}
