package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Claim struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	GameID        string    `gorm:"size:36;index;not null" json:"game_id"`
	CreatedBy     string    `gorm:"size:36;index;not null" json:"created_by"`
	NumberOfCards int       `gorm:"not null" json:"number_of_cards"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"-"`
	Cards         []Card    `json:"cards"`
}

// ClaimRepo wraps queries against the claims table.
type ClaimRepo struct {
	conn     *gorm.DB
	maxCards int
}

func NewClaimRepo(conn *gorm.DB, maxCards int) *ClaimRepo {
	return &ClaimRepo{conn: conn, maxCards: maxCards}
}

// Create inserts the claim and reassigns the named cards to it. The cards
// must already exist; a claim may not carry more than the configured card
// limit.
func (r *ClaimRepo) Create(claim *Claim, cardIDs []string) error {
	if r.maxCards > 0 && len(cardIDs) > r.maxCards {
		return ErrTooManyCards
	}
	if claim.ID == "" {
		claim.ID = uuid.NewString()
	}
	claim.NumberOfCards = len(cardIDs)
	return r.conn.Transaction(func(tx *gorm.DB) error {
		var game Game
		if err := tx.First(&game, "id = ?", claim.GameID).Error; err != nil {
			return err
		}
		var player Player
		if err := tx.First(&player, "id = ?", claim.CreatedBy).Error; err != nil {
			return err
		}
		if err := tx.Create(claim).Error; err != nil {
			return err
		}
		for _, cardID := range cardIDs {
			result := tx.Model(&Card{}).Where("id = ?", cardID).Update("claim_id", claim.ID)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return tx.Preload("Cards").First(claim, "id = ?", claim.ID).Error
	})
}

func (r *ClaimRepo) Get(id string) (*Claim, error) {
	var claim Claim
	err := r.conn.Preload("Cards").First(&claim, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

// List returns claims filtered by game or by the player who made them.
// Passing both filters is an error; passing neither returns every claim.
func (r *ClaimRepo) List(gameID, playerID string) ([]Claim, error) {
	if gameID != "" && playerID != "" {
		return nil, ErrConflictingQuery
	}
	query := r.conn.Preload("Cards").Order("created_at ASC")
	if gameID != "" {
		query = query.Where("game_id = ?", gameID)
	} else if playerID != "" {
		query = query.Where("created_by = ?", playerID)
	}
	var claims []Claim
	err := query.Find(&claims).Error
	return claims, err
}

// Delete removes a claim and releases its cards back to their holders.
func (r *ClaimRepo) Delete(id string) error {
	return r.conn.Transaction(func(tx *gorm.DB) error {
		var claim Claim
		if err := tx.First(&claim, "id = ?", id).Error; err != nil {
			return err
		}
		if err := releaseClaimedCards(tx, []string{id}); err != nil {
			return err
		}
		return tx.Delete(&Claim{}, "id = ?", id).Error
	})
}

// DeleteByGame clears every claim of a game, releasing the claimed cards.
// Used by the round transition.
func (r *ClaimRepo) DeleteByGame(gameID string) error {
	return r.conn.Transaction(func(tx *gorm.DB) error {
		return deleteClaimsForGame(tx, gameID)
	})
}

func deleteClaimsForGame(tx *gorm.DB, gameID string) error {
	var claimIDs []string
	if err := tx.Model(&Claim{}).Where("game_id = ?", gameID).Pluck("id", &claimIDs).Error; err != nil {
		return err
	}
	if len(claimIDs) == 0 {
		return nil
	}
	if err := releaseClaimedCards(tx, claimIDs); err != nil {
		return err
	}
	return tx.Where("game_id = ?", gameID).Delete(&Claim{}).Error
}

func releaseClaimedCards(tx *gorm.DB, claimIDs []string) error {
	return tx.Model(&Card{}).
		Where("claim_id IN ?", claimIDs).
		Update("claim_id", nil).Error
}
