package db

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB gives each test its own in-memory SQLite database with the
// full schema applied.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := Migrate(conn); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func createTestGame(t *testing.T, conn *gorm.DB) *Game {
	t.Helper()
	game := &Game{State: StateWaitingForPlayers, CardToPlay: CardKing}
	if err := NewGameRepo(conn).Create(game); err != nil {
		t.Fatalf("create game: %v", err)
	}
	return game
}

func createTestPlayer(t *testing.T, conn *gorm.DB, gameID, name string) *Player {
	t.Helper()
	player := &Player{GameID: gameID, Name: name}
	if err := NewPlayerRepo(conn, 5).Create(player); err != nil {
		t.Fatalf("create player %s: %v", name, err)
	}
	return player
}

func createTestCard(t *testing.T, conn *gorm.DB, cardType string, playerID *string) *Card {
	t.Helper()
	card := &Card{CardType: cardType, PlayerID: playerID}
	if err := NewCardRepo(conn).Create(card); err != nil {
		t.Fatalf("create card: %v", err)
	}
	return card
}
