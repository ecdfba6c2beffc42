package main

import (
	"log"
	"net/http"

	"lue-lue-backend/internal/config"
	"lue-lue-backend/internal/db"
	"lue-lue-backend/internal/server"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	srv := server.New(conn, cfg, nil)
	addr := ":" + cfg.Port
	log.Printf("lue-lue backend listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}
