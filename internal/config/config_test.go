package config

import "testing"

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.MaxPlayersPerGame != 5 {
		t.Fatalf("expected 5 players per game, got %d", cfg.MaxPlayersPerGame)
	}
	if cfg.MaxCardsPerClaim != 4 {
		t.Fatalf("expected 4 cards per claim, got %d", cfg.MaxCardsPerClaim)
	}
	if cfg.ChatMessageCap != 50 {
		t.Fatalf("expected chat cap 50, got %d", cfg.ChatMessageCap)
	}
	if cfg.SSEHeartbeatSeconds != 30 {
		t.Fatalf("expected 30s heartbeat, got %d", cfg.SSEHeartbeatSeconds)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("CHAT_MESSAGE_CAP", "10")
	t.Setenv("PLAYER_TIMEOUT_SECONDS", "15")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Fatalf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://localhost/test" {
		t.Fatalf("unexpected database url %q", cfg.DatabaseURL)
	}
	if cfg.ChatMessageCap != 10 {
		t.Fatalf("expected chat cap 10, got %d", cfg.ChatMessageCap)
	}
	if cfg.PlayerTimeoutSeconds != 15 {
		t.Fatalf("expected 15s timeout, got %d", cfg.PlayerTimeoutSeconds)
	}
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("MAX_PLAYERS_PER_GAME", "not-a-number")
	t.Setenv("CHAT_MESSAGE_CAP", "-3")

	cfg := Load()
	if cfg.MaxPlayersPerGame != 5 {
		t.Fatalf("expected default player cap, got %d", cfg.MaxPlayersPerGame)
	}
	if cfg.ChatMessageCap != 50 {
		t.Fatalf("expected default chat cap, got %d", cfg.ChatMessageCap)
	}
}
