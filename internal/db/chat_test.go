package db

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestChatAppendRejectsEmpty(t *testing.T) {
	conn := openTestDB(t)
	game := createTestGame(t, conn)
	ada := createTestPlayer(t, conn, game.ID, "Ada")

	err := NewChatRepo(conn, 50).Append(&Message{GameID: game.ID, PlayerID: ada.ID, Content: "   "})
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestChatAppendMissingGame(t *testing.T) {
	conn := openTestDB(t)
	err := NewChatRepo(conn, 50).Append(&Message{GameID: "missing", PlayerID: "p", Content: "hi"})
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestChatCapEvictsOldest(t *testing.T) {
	conn := openTestDB(t)
	game := createTestGame(t, conn)
	ada := createTestPlayer(t, conn, game.ID, "Ada")
	repo := NewChatRepo(conn, 3)

	base := time.Now().UTC()
	for i := 0; i < 4; i++ {
		message := &Message{
			GameID:   game.ID,
			PlayerID: ada.ID,
			Content:  fmt.Sprintf("message %d", i),
			SentAt:   base.Add(time.Duration(i) * time.Second),
		}
		if err := repo.Append(message); err != nil {
			t.Fatalf("append message %d: %v", i, err)
		}
	}

	messages, err := repo.ListByGame(game.ID)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[0].Content != "message 1" {
		t.Fatalf("expected oldest message to be evicted, got %q first", messages[0].Content)
	}
	if messages[2].Content != "message 3" {
		t.Fatalf("expected newest message last, got %q", messages[2].Content)
	}
}
