package db

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Event struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	GameID    string         `gorm:"size:36;index;not null" json:"game_id"`
	Type      string         `gorm:"size:64;not null" json:"type"`
	Payload   datatypes.JSON `gorm:"not null" json:"payload"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
}

// EventRepo wraps the per-game event log backing the SSE stream.
type EventRepo struct {
	conn *gorm.DB
}

func NewEventRepo(conn *gorm.DB) *EventRepo {
	return &EventRepo{conn: conn}
}

func (r *EventRepo) Append(gameID, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := Event{
		GameID:  gameID,
		Type:    eventType,
		Payload: datatypes.JSON(data),
	}
	return r.conn.Create(&event).Error
}

// ListByGame returns the events of a game with an ID greater than afterID,
// oldest first.
func (r *EventRepo) ListByGame(gameID string, afterID uint) ([]Event, error) {
	var events []Event
	err := r.conn.Where("game_id = ? AND id > ?", gameID, afterID).
		Order("id ASC").
		Find(&events).Error
	return events, err
}
