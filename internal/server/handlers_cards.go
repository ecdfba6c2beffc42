package server

import (
	"net/http"

	"lue-lue-backend/internal/db"
)

type createCardRequest struct {
	CardType string `json:"card_type"`
	PlayerID string `json:"player_id,omitempty"`
}

type updateCardRequest struct {
	CardType *string `json:"card_type,omitempty"`
	PlayerID *string `json:"player_id,omitempty"`
	ClaimID  *string `json:"claim_id,omitempty"`
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !db.ValidCardType(req.CardType) {
		writeError(w, http.StatusBadRequest, "unknown card type")
		return
	}
	card := db.Card{CardType: req.CardType}
	if req.PlayerID != "" {
		if _, err := s.players.Get(req.PlayerID); err != nil {
			writeRepoError(w, err, "failed to load player")
			return
		}
		card.PlayerID = &req.PlayerID
	}
	if err := s.cards.Create(&card); err != nil {
		writeRepoError(w, err, "failed to create card")
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("player_id")
	claimID := r.URL.Query().Get("claim_id")
	cards, err := s.cards.List(playerID, claimID)
	if err != nil {
		writeRepoError(w, err, "failed to list cards")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cards": cards})
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := parseResourcePath(r.URL.Path, "/api/cards/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	card, err := s.cards.Get(cardID)
	if err != nil {
		writeRepoError(w, err, "failed to load card")
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := parseResourcePath(r.URL.Path, "/api/cards/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	var req updateCardRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	card, err := s.cards.Update(db.CardUpdate{
		ID:       cardID,
		CardType: req.CardType,
		PlayerID: req.PlayerID,
		ClaimID:  req.ClaimID,
	})
	if err != nil {
		writeRepoError(w, err, "failed to update card")
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := parseResourcePath(r.URL.Path, "/api/cards/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := s.cards.Delete(cardID); err != nil {
		writeRepoError(w, err, "failed to delete card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
