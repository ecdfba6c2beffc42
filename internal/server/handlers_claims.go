package server

import (
	"log"
	"net/http"

	"lue-lue-backend/internal/db"
)

type createClaimRequest struct {
	CreatedBy string   `json:"created_by"`
	CardIDs   []string `json:"card_ids"`
}

func (s *Server) handleCreateClaim(w http.ResponseWriter, r *http.Request, gameID string) {
	var req createClaimRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.CreatedBy == "" {
		writeError(w, http.StatusBadRequest, "created_by is required")
		return
	}
	if len(req.CardIDs) == 0 {
		writeError(w, http.StatusBadRequest, "card_ids is required")
		return
	}
	claim := db.Claim{
		GameID:    gameID,
		CreatedBy: req.CreatedBy,
	}
	if err := s.claims.Create(&claim, req.CardIDs); err != nil {
		writeRepoError(w, err, "failed to create claim")
		return
	}
	log.Printf("claim made game_id=%s claim_id=%s player_id=%s cards=%d",
		gameID, claim.ID, claim.CreatedBy, claim.NumberOfCards)
	s.recordEvent(gameID, "claim_made", EventPayload{
		GameID:    gameID,
		ClaimID:   claim.ID,
		PlayerID:  claim.CreatedBy,
		CardCount: claim.NumberOfCards,
	})
	writeJSON(w, http.StatusCreated, claim)
}

func (s *Server) handleListClaims(w http.ResponseWriter, r *http.Request, gameID string) {
	if _, err := s.games.Get(gameID); err != nil {
		writeRepoError(w, err, "failed to load game")
		return
	}
	playerID := r.URL.Query().Get("player_id")
	var (
		claims []db.Claim
		err    error
	)
	if playerID != "" {
		claims, err = s.claims.List("", playerID)
	} else {
		claims, err = s.claims.List(gameID, "")
	}
	if err != nil {
		writeRepoError(w, err, "failed to list claims")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"claims": claims})
}

func (s *Server) handleGetClaim(w http.ResponseWriter, r *http.Request) {
	claimID, ok := parseResourcePath(r.URL.Path, "/api/claims/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	claim, err := s.claims.Get(claimID)
	if err != nil {
		writeRepoError(w, err, "failed to load claim")
		return
	}
	writeJSON(w, http.StatusOK, claim)
}

func (s *Server) handleDeleteClaim(w http.ResponseWriter, r *http.Request) {
	claimID, ok := parseResourcePath(r.URL.Path, "/api/claims/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	claim, err := s.claims.Get(claimID)
	if err != nil {
		writeRepoError(w, err, "failed to load claim")
		return
	}
	if err := s.claims.Delete(claimID); err != nil {
		writeRepoError(w, err, "failed to delete claim")
		return
	}
	log.Printf("claim withdrawn game_id=%s claim_id=%s", claim.GameID, claim.ID)
	s.recordEvent(claim.GameID, "claim_withdrawn", EventPayload{
		GameID:   claim.GameID,
		ClaimID:  claim.ID,
		PlayerID: claim.CreatedBy,
	})
	w.WriteHeader(http.StatusNoContent)
}
