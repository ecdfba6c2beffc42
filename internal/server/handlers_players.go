package server

import (
	"log"
	"net/http"
	"strings"

	"lue-lue-backend/internal/db"
)

type joinGameRequest struct {
	Name string `json:"name"`
}

type updatePlayerRequest struct {
	Name  *string `json:"name,omitempty"`
	Score *int    `json:"score,omitempty"`
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request, gameID string) {
	var req joinGameRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	player := db.Player{
		GameID: gameID,
		Name:   name,
	}
	if err := s.players.Create(&player); err != nil {
		writeRepoError(w, err, "failed to add player")
		return
	}
	log.Printf("player joined game_id=%s player_id=%s name=%s", gameID, player.ID, player.Name)
	s.recordEvent(gameID, "player_joined", EventPayload{
		GameID:     gameID,
		PlayerID:   player.ID,
		PlayerName: player.Name,
	})
	writeJSON(w, http.StatusCreated, player)
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request, gameID string) {
	if _, err := s.games.Get(gameID); err != nil {
		writeRepoError(w, err, "failed to load game")
		return
	}
	players, err := s.players.ListByGame(gameID)
	if err != nil {
		writeRepoError(w, err, "failed to list players")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": players})
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, ok := parseResourcePath(r.URL.Path, "/api/players/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	player, err := s.players.Get(playerID)
	if err != nil {
		writeRepoError(w, err, "failed to load player")
		return
	}
	writeJSON(w, http.StatusOK, player)
}

func (s *Server) handleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, ok := parseResourcePath(r.URL.Path, "/api/players/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	var req updatePlayerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name must not be empty")
		return
	}
	player, err := s.players.Update(db.PlayerUpdate{
		ID:    playerID,
		Name:  req.Name,
		Score: req.Score,
	})
	if err != nil {
		writeRepoError(w, err, "failed to update player")
		return
	}
	writeJSON(w, http.StatusOK, player)
}

func (s *Server) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, ok := parseResourcePath(r.URL.Path, "/api/players/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	player, err := s.players.Get(playerID)
	if err != nil {
		writeRepoError(w, err, "failed to load player")
		return
	}
	if err := s.players.Delete(playerID); err != nil {
		writeRepoError(w, err, "failed to delete player")
		return
	}
	log.Printf("player left game_id=%s player_id=%s", player.GameID, player.ID)
	s.recordEvent(player.GameID, "player_left", EventPayload{
		GameID:     player.GameID,
		PlayerID:   player.ID,
		PlayerName: player.Name,
	})
	w.WriteHeader(http.StatusNoContent)
}
