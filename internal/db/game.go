package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Game lifecycle states.
const (
	StateStarting          = "starting"
	StateWaitingForPlayers = "waiting_for_players"
	StateInProgress        = "in_progress"
	StateEnded             = "ended"
)

var gameStates = map[string]bool{
	StateStarting:          true,
	StateWaitingForPlayers: true,
	StateInProgress:        true,
	StateEnded:             true,
}

// ValidGameState reports whether state is one of the known lifecycle states.
func ValidGameState(state string) bool {
	return gameStates[state]
}

type Game struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	State        string    `gorm:"size:32;not null" json:"state"`
	RoundNumber  int       `gorm:"not null;default:0" json:"round_number"`
	TurnPlayerID string    `gorm:"size:36" json:"which_player_turn"`
	CardToPlay   string    `gorm:"size:16;not null" json:"card_to_play"`
	StartedAt    time.Time `gorm:"not null" json:"started_at"`
	CreatedAt    time.Time `gorm:"not null" json:"-"`
	UpdatedAt    time.Time `gorm:"not null" json:"-"`
	Players      []Player  `gorm:"constraint:OnDelete:CASCADE" json:"players"`
	Claims       []Claim   `gorm:"constraint:OnDelete:CASCADE" json:"claims"`
	Messages     []Message `gorm:"constraint:OnDelete:CASCADE" json:"chat"`
}

// GameUpdate carries a partial update for a game row. Nil fields are left
// untouched. A nil Players slice means the roster is not synced; an empty
// one is rejected.
type GameUpdate struct {
	ID           string
	State        *string
	RoundNumber  *int
	TurnPlayerID *string
	CardToPlay   *string
	Players      []Player
}

// GameRepo wraps queries against the games table.
type GameRepo struct {
	conn *gorm.DB
}

func NewGameRepo(conn *gorm.DB) *GameRepo {
	return &GameRepo{conn: conn}
}

func (r *GameRepo) Create(game *Game) error {
	if game.ID == "" {
		game.ID = uuid.NewString()
	}
	if game.State == "" {
		game.State = StateWaitingForPlayers
	}
	if !ValidGameState(game.State) {
		return fmt.Errorf("unknown game state %q", game.State)
	}
	if game.StartedAt.IsZero() {
		game.StartedAt = time.Now().UTC()
	}
	return r.conn.Create(game).Error
}

// Get loads a game with its players (and their cards), claims (and the
// claimed cards), and chat messages.
func (r *GameRepo) Get(id string) (*Game, error) {
	var game Game
	err := r.conn.
		Preload("Players", func(tx *gorm.DB) *gorm.DB { return tx.Order("joined_at ASC") }).
		Preload("Players.Cards").
		Preload("Claims").
		Preload("Claims.Cards").
		Preload("Messages", func(tx *gorm.DB) *gorm.DB { return tx.Order("sent_at ASC") }).
		First(&game, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// List returns a page of games, newest first, with the same associations
// Get loads, plus the total row count for pagination.
func (r *GameRepo) List(page, perPage int) ([]Game, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	var total int64
	if err := r.conn.Model(&Game{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	games := []Game{}
	err := r.conn.
		Preload("Players", func(tx *gorm.DB) *gorm.DB { return tx.Order("joined_at ASC") }).
		Preload("Players.Cards").
		Preload("Claims").
		Preload("Claims.Cards").
		Preload("Messages", func(tx *gorm.DB) *gorm.DB { return tx.Order("sent_at ASC") }).
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&games).Error
	if err != nil {
		return nil, 0, err
	}
	return games, total, nil
}

// Update applies the non-nil fields of the update to the games table and,
// when a roster is provided, syncs the players of the game against it:
// players missing from the roster are deleted, unknown ones are inserted,
// and the rest are left alone.
func (r *GameRepo) Update(update GameUpdate) (*Game, error) {
	fields := map[string]any{}
	if update.State != nil {
		if !ValidGameState(*update.State) {
			return nil, fmt.Errorf("unknown game state %q", *update.State)
		}
		fields["state"] = *update.State
	}
	if update.RoundNumber != nil {
		fields["round_number"] = *update.RoundNumber
	}
	if update.TurnPlayerID != nil {
		fields["turn_player_id"] = *update.TurnPlayerID
	}
	if update.CardToPlay != nil {
		if !ValidCardType(*update.CardToPlay) {
			return nil, fmt.Errorf("unknown card type %q", *update.CardToPlay)
		}
		fields["card_to_play"] = *update.CardToPlay
	}
	if len(fields) == 0 && update.Players == nil {
		return nil, ErrNoUpdateFields
	}

	err := r.conn.Transaction(func(tx *gorm.DB) error {
		var game Game
		if err := tx.First(&game, "id = ?", update.ID).Error; err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(&Game{}).Where("id = ?", update.ID).Updates(fields).Error; err != nil {
				return err
			}
		}
		if update.Players != nil {
			return syncRoster(tx, update.ID, update.Players)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.Get(update.ID)
}

// syncRoster diffs the stored players of a game against the wanted roster.
func syncRoster(tx *gorm.DB, gameID string, roster []Player) error {
	if len(roster) == 0 {
		return ErrEmptyRoster
	}
	var current []Player
	if err := tx.Where("game_id = ?", gameID).Find(&current).Error; err != nil {
		return err
	}
	wanted := make(map[string]bool, len(roster))
	for _, player := range roster {
		wanted[player.ID] = true
	}
	existing := make(map[string]bool, len(current))
	for _, player := range current {
		existing[player.ID] = true
		if wanted[player.ID] {
			continue
		}
		if err := tx.Where("player_id = ?", player.ID).Delete(&Card{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&Player{}, "id = ?", player.ID).Error; err != nil {
			return err
		}
	}
	now := time.Now().UTC()
	for i := range roster {
		player := roster[i]
		if existing[player.ID] {
			continue
		}
		if player.ID == "" {
			player.ID = uuid.NewString()
		}
		player.GameID = gameID
		if player.JoinedAt.IsZero() {
			player.JoinedAt = now
		}
		if player.LastSeenAt.IsZero() {
			player.LastSeenAt = now
		}
		if err := tx.Create(&player).Error; err != nil {
			return err
		}
	}
	return nil
}

// AdvanceRound applies a round transition in one transaction: bumps the
// round number, stores the next turn holder and the freshly drawn card,
// clears the game's claims, and releases the claimed cards.
func (r *GameRepo) AdvanceRound(id, turnPlayerID, cardToPlay string) (*Game, error) {
	if !ValidCardType(cardToPlay) {
		return nil, fmt.Errorf("unknown card type %q", cardToPlay)
	}
	err := r.conn.Transaction(func(tx *gorm.DB) error {
		var game Game
		if err := tx.First(&game, "id = ?", id).Error; err != nil {
			return err
		}
		if err := deleteClaimsForGame(tx, id); err != nil {
			return err
		}
		fields := map[string]any{
			"round_number":   game.RoundNumber + 1,
			"state":          StateInProgress,
			"turn_player_id": turnPlayerID,
			"card_to_play":   cardToPlay,
		}
		return tx.Model(&Game{}).Where("id = ?", id).Updates(fields).Error
	})
	if err != nil {
		return nil, err
	}
	return r.Get(id)
}

// Delete removes a game and everything hanging off it, except its event
// log: events outlive the game so stream consumers can still be told about
// the deletion.
func (r *GameRepo) Delete(id string) error {
	return r.conn.Transaction(func(tx *gorm.DB) error {
		var game Game
		if err := tx.First(&game, "id = ?", id).Error; err != nil {
			return err
		}
		var playerIDs []string
		if err := tx.Model(&Player{}).Where("game_id = ?", id).Pluck("id", &playerIDs).Error; err != nil {
			return err
		}
		if len(playerIDs) > 0 {
			if err := tx.Where("player_id IN ?", playerIDs).Delete(&Card{}).Error; err != nil {
				return err
			}
		}
		for _, model := range []any{&Claim{}, &Message{}, &Player{}} {
			if err := tx.Where("game_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&Game{}, "id = ?", id).Error
	})
}
