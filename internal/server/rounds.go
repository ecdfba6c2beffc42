package server

import (
	"log"
	"net/http"

	"lue-lue-backend/internal/db"
)

// drawCardToPlay picks the card type every player must claim to play in
// the next round.
func (s *Server) drawCardToPlay() string {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return db.CardTypes[s.rng.Intn(len(db.CardTypes))]
}

// nextTurnPlayer rotates the turn one seat in join order, wrapping at the
// end of the roster. An unknown or empty current holder yields the first
// seat.
func nextTurnPlayer(players []db.Player, current string) string {
	if len(players) == 0 {
		return ""
	}
	for i, player := range players {
		if player.ID == current {
			return players[(i+1)%len(players)].ID
		}
	}
	return players[0].ID
}

// handleNewRound prepares the game for its next round: claims are cleared,
// the turn rotates one seat, and a new card type is drawn.
func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request, gameID string) {
	game, err := s.games.Get(gameID)
	if err != nil {
		writeRepoError(w, err, "failed to load game")
		return
	}
	switch game.State {
	case db.StateInProgress:
	case db.StateWaitingForPlayers, db.StateStarting:
		if len(game.Players) < 2 {
			writeError(w, http.StatusConflict, "not enough players to start a round")
			return
		}
	default:
		writeError(w, http.StatusConflict, "game has ended")
		return
	}
	if len(game.Players) == 0 {
		writeError(w, http.StatusConflict, "game has no players")
		return
	}

	turnPlayerID := nextTurnPlayer(game.Players, game.TurnPlayerID)
	cardToPlay := s.drawCardToPlay()
	updated, err := s.games.AdvanceRound(gameID, turnPlayerID, cardToPlay)
	if err != nil {
		writeRepoError(w, err, "failed to advance round")
		return
	}
	log.Printf("round started game_id=%s round=%d turn_player=%s card_to_play=%s",
		updated.ID, updated.RoundNumber, updated.TurnPlayerID, updated.CardToPlay)
	s.recordEvent(gameID, "round_started", EventPayload{
		GameID:      updated.ID,
		RoundNumber: updated.RoundNumber,
		PlayerID:    updated.TurnPlayerID,
		CardToPlay:  updated.CardToPlay,
	})
	writeJSON(w, http.StatusOK, updated)
}
