package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Card faces used in the game. The joker doubles as a wild card.
const (
	CardKing  = "king"
	CardQueen = "queen"
	CardJack  = "jack"
	CardAce   = "ace"
	CardJoker = "joker"
)

// CardTypes lists every card face, in a fixed order so a random index maps
// to a stable face.
var CardTypes = []string{CardKing, CardQueen, CardJack, CardAce, CardJoker}

// ValidCardType reports whether cardType is one of the known faces.
func ValidCardType(cardType string) bool {
	for _, known := range CardTypes {
		if cardType == known {
			return true
		}
	}
	return false
}

type Card struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CardType  string    `gorm:"size:16;not null" json:"card_type"`
	PlayerID  *string   `gorm:"size:36;index" json:"player_id,omitempty"`
	ClaimID   *string   `gorm:"size:36;index" json:"claim_id,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`
}

// CardUpdate carries a partial update for a card row. At least one field
// must be set.
type CardUpdate struct {
	ID       string
	CardType *string
	PlayerID *string
	ClaimID  *string
}

// CardRepo wraps queries against the cards table.
type CardRepo struct {
	conn *gorm.DB
}

func NewCardRepo(conn *gorm.DB) *CardRepo {
	return &CardRepo{conn: conn}
}

func (r *CardRepo) Create(card *Card) error {
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	if !ValidCardType(card.CardType) {
		return fmt.Errorf("unknown card type %q", card.CardType)
	}
	return r.conn.Create(card).Error
}

func (r *CardRepo) Get(id string) (*Card, error) {
	var card Card
	if err := r.conn.First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// List returns cards filtered by owning player or by claim. Passing both
// filters is an error; passing neither returns every card.
func (r *CardRepo) List(playerID, claimID string) ([]Card, error) {
	if playerID != "" && claimID != "" {
		return nil, ErrConflictingQuery
	}
	query := r.conn.Order("created_at ASC")
	if playerID != "" {
		query = query.Where("player_id = ?", playerID)
	} else if claimID != "" {
		query = query.Where("claim_id = ?", claimID)
	}
	var cards []Card
	err := query.Find(&cards).Error
	return cards, err
}

func (r *CardRepo) Update(update CardUpdate) (*Card, error) {
	if update.CardType == nil && update.PlayerID == nil && update.ClaimID == nil {
		return nil, ErrNoUpdateFields
	}
	fields := map[string]any{}
	if update.CardType != nil {
		if !ValidCardType(*update.CardType) {
			return nil, fmt.Errorf("unknown card type %q", *update.CardType)
		}
		fields["card_type"] = *update.CardType
	}
	if update.PlayerID != nil {
		fields["player_id"] = nullableID(*update.PlayerID)
	}
	if update.ClaimID != nil {
		fields["claim_id"] = nullableID(*update.ClaimID)
	}
	result := r.conn.Model(&Card{}).Where("id = ?", update.ID).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.Get(update.ID)
}

func (r *CardRepo) Delete(id string) error {
	result := r.conn.Delete(&Card{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AssignToClaim points the given cards at a claim in one statement.
func (r *CardRepo) AssignToClaim(cardIDs []string, claimID string) error {
	if len(cardIDs) == 0 {
		return nil
	}
	return r.conn.Model(&Card{}).
		Where("id IN ?", cardIDs).
		Update("claim_id", claimID).Error
}

// nullableID maps an empty string onto NULL so callers can clear a
// foreign key through a pointer field.
func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}
