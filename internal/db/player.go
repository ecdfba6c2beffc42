package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Player struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	GameID     string    `gorm:"size:36;index;not null;uniqueIndex:idx_players_game_name" json:"game_id"`
	Name       string    `gorm:"size:64;not null;uniqueIndex:idx_players_game_name" json:"name"`
	Score      int       `gorm:"not null;default:0" json:"score"`
	JoinedAt   time.Time `gorm:"not null" json:"joined_at"`
	LastSeenAt time.Time `gorm:"not null" json:"last_seen_at"`
	CreatedAt  time.Time `gorm:"not null" json:"-"`
	UpdatedAt  time.Time `gorm:"not null" json:"-"`
	Cards      []Card    `json:"assigned_cards"`
}

// PlayerUpdate carries a partial update for a player row. LastSeenAt is
// bumped on every update regardless of which fields are set.
type PlayerUpdate struct {
	ID    string
	Name  *string
	Score *int
}

// PlayerRepo wraps queries against the players table.
type PlayerRepo struct {
	conn       *gorm.DB
	maxPerGame int
}

func NewPlayerRepo(conn *gorm.DB, maxPerGame int) *PlayerRepo {
	return &PlayerRepo{conn: conn, maxPerGame: maxPerGame}
}

// Create inserts a player into a game, enforcing the per-game player cap.
func (r *PlayerRepo) Create(player *Player) error {
	if player.ID == "" {
		player.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if player.JoinedAt.IsZero() {
		player.JoinedAt = now
	}
	if player.LastSeenAt.IsZero() {
		player.LastSeenAt = now
	}
	return r.conn.Transaction(func(tx *gorm.DB) error {
		var game Game
		if err := tx.First(&game, "id = ?", player.GameID).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&Player{}).Where("game_id = ?", player.GameID).Count(&count).Error; err != nil {
			return err
		}
		if r.maxPerGame > 0 && count >= int64(r.maxPerGame) {
			return ErrGameFull
		}
		return tx.Create(player).Error
	})
}

func (r *PlayerRepo) Get(id string) (*Player, error) {
	var player Player
	err := r.conn.Preload("Cards").First(&player, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *PlayerRepo) ListByGame(gameID string) ([]Player, error) {
	var players []Player
	err := r.conn.Preload("Cards").
		Where("game_id = ?", gameID).
		Order("joined_at ASC").
		Find(&players).Error
	return players, err
}

func (r *PlayerRepo) Update(update PlayerUpdate) (*Player, error) {
	fields := map[string]any{
		"last_seen_at": time.Now().UTC(),
	}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Score != nil {
		fields["score"] = *update.Score
	}
	result := r.conn.Model(&Player{}).Where("id = ?", update.ID).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.Get(update.ID)
}

// Touch records that the player checked in.
func (r *PlayerRepo) Touch(id string) error {
	result := r.conn.Model(&Player{}).
		Where("id = ?", id).
		Update("last_seen_at", time.Now().UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the player and the cards they hold.
func (r *PlayerRepo) Delete(id string) error {
	return r.conn.Transaction(func(tx *gorm.DB) error {
		var player Player
		if err := tx.First(&player, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("player_id = ?", id).Delete(&Card{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Player{}, "id = ?", id).Error
	})
}
