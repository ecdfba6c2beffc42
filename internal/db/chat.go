package db

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Message struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	GameID    string    `gorm:"size:36;index;not null" json:"game_id"`
	PlayerID  string    `gorm:"size:36;not null" json:"player_id"`
	Content   string    `gorm:"size:512;not null" json:"content"`
	SentAt    time.Time `gorm:"not null" json:"sent_at"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
}

// ChatRepo wraps queries against the messages table. Each game keeps a
// bounded chat log; appending past the cap evicts the oldest message.
type ChatRepo struct {
	conn *gorm.DB
	cap  int
}

func NewChatRepo(conn *gorm.DB, cap int) *ChatRepo {
	return &ChatRepo{conn: conn, cap: cap}
}

func (r *ChatRepo) Append(message *Message) error {
	if strings.TrimSpace(message.Content) == "" {
		return ErrEmptyMessage
	}
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.SentAt.IsZero() {
		message.SentAt = time.Now().UTC()
	}
	return r.conn.Transaction(func(tx *gorm.DB) error {
		var game Game
		if err := tx.First(&game, "id = ?", message.GameID).Error; err != nil {
			return err
		}
		if r.cap > 0 {
			var count int64
			if err := tx.Model(&Message{}).Where("game_id = ?", message.GameID).Count(&count).Error; err != nil {
				return err
			}
			if count >= int64(r.cap) {
				var oldest Message
				if err := tx.Where("game_id = ?", message.GameID).
					Order("sent_at ASC").First(&oldest).Error; err != nil {
					return err
				}
				if err := tx.Delete(&Message{}, "id = ?", oldest.ID).Error; err != nil {
					return err
				}
			}
		}
		return tx.Create(message).Error
	})
}

func (r *ChatRepo) ListByGame(gameID string) ([]Message, error) {
	var messages []Message
	err := r.conn.Where("game_id = ?", gameID).
		Order("sent_at ASC").
		Find(&messages).Error
	return messages, err
}
