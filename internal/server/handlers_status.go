package server

import (
	"log"
	"net/http"
	"time"

	"lue-lue-backend/internal/db"
)

type statusUpdateRequest struct {
	PlayerID string `json:"player_id"`
	GameID   string `json:"game_id"`
}

type statusUpdate struct {
	GameData               *db.Game   `json:"game_data"`
	PlayerData             *db.Player `json:"player_data"`
	PlayerExcludedFromGame bool       `json:"player_excluded_from_game"`
}

// handleStatus is the client check-in. Every call bumps the player's
// last-seen timestamp; a player that stayed silent past the timeout is
// removed from the game and told so through the excluded flag.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.PlayerID == "" || req.GameID == "" {
		writeError(w, http.StatusBadRequest, "player_id and game_id are required")
		return
	}
	game, err := s.games.Get(req.GameID)
	if err != nil {
		writeRepoError(w, err, "failed to load game")
		return
	}
	player, err := s.players.Get(req.PlayerID)
	if err != nil {
		if db.IsNotFound(err) {
			writeJSON(w, http.StatusOK, statusUpdate{
				GameData:               game,
				PlayerExcludedFromGame: true,
			})
			return
		}
		writeRepoError(w, err, "failed to load player")
		return
	}
	if player.GameID != game.ID {
		writeJSON(w, http.StatusOK, statusUpdate{
			GameData:               game,
			PlayerExcludedFromGame: true,
		})
		return
	}

	timeout := time.Duration(s.cfg.PlayerTimeoutSeconds) * time.Second
	if timeout > 0 && time.Since(player.LastSeenAt) > timeout {
		if err := s.players.Delete(player.ID); err != nil {
			writeRepoError(w, err, "failed to remove player")
			return
		}
		log.Printf("player timed out game_id=%s player_id=%s", game.ID, player.ID)
		s.recordEvent(game.ID, "player_left", EventPayload{
			GameID:     game.ID,
			PlayerID:   player.ID,
			PlayerName: player.Name,
			Reason:     "timeout",
		})
		game, err = s.games.Get(game.ID)
		if err != nil {
			writeRepoError(w, err, "failed to load game")
			return
		}
		writeJSON(w, http.StatusOK, statusUpdate{
			GameData:               game,
			PlayerExcludedFromGame: true,
		})
		return
	}

	if err := s.players.Touch(player.ID); err != nil {
		writeRepoError(w, err, "failed to update player")
		return
	}
	player, err = s.players.Get(player.ID)
	if err != nil {
		writeRepoError(w, err, "failed to load player")
		return
	}
	writeJSON(w, http.StatusOK, statusUpdate{
		GameData:   game,
		PlayerData: player,
	})
}
