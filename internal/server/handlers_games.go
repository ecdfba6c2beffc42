package server

import (
	"log"
	"net/http"
	"time"

	"lue-lue-backend/internal/db"
)

type createGameRequest struct {
	State string `json:"state,omitempty"`
}

type updateGameRequest struct {
	State        *string         `json:"state,omitempty"`
	RoundNumber  *int            `json:"round_number,omitempty"`
	TurnPlayerID *string         `json:"which_player_turn,omitempty"`
	CardToPlay   *string         `json:"card_to_play,omitempty"`
	Players      []playerPayload `json:"players,omitempty"`
}

type playerPayload struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Score int    `json:"score,omitempty"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if r.ContentLength > 0 {
		if err := readJSON(r.Body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}
	game := db.Game{
		State:      req.State,
		CardToPlay: s.drawCardToPlay(),
		StartedAt:  time.Now().UTC(),
	}
	if game.State == "" {
		game.State = db.StateWaitingForPlayers
	}
	if !db.ValidGameState(game.State) {
		writeError(w, http.StatusBadRequest, "unknown game state")
		return
	}
	if err := s.games.Create(&game); err != nil {
		writeRepoError(w, err, "failed to create game")
		return
	}
	log.Printf("game created game_id=%s card_to_play=%s", game.ID, game.CardToPlay)
	s.recordEvent(game.ID, "game_created", EventPayload{
		GameID:     game.ID,
		State:      game.State,
		CardToPlay: game.CardToPlay,
	})
	writeJSON(w, http.StatusCreated, game)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)
	games, total, err := s.games.List(page, perPage)
	if err != nil {
		writeRepoError(w, err, "failed to list games")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"games":      games,
		"pagination": buildPaginationMeta(page, perPage, total),
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request, gameID string) {
	game, err := s.games.Get(gameID)
	if err != nil {
		writeRepoError(w, err, "failed to load game")
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (s *Server) handleUpdateGame(w http.ResponseWriter, r *http.Request) {
	gameID, action, ok := parseGamePath(r.URL.Path)
	if !ok || action != "" {
		http.NotFound(w, r)
		return
	}
	var req updateGameRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	update := db.GameUpdate{
		ID:           gameID,
		State:        req.State,
		RoundNumber:  req.RoundNumber,
		TurnPlayerID: req.TurnPlayerID,
		CardToPlay:   req.CardToPlay,
	}
	if req.Players != nil {
		update.Players = make([]db.Player, 0, len(req.Players))
		for _, p := range req.Players {
			update.Players = append(update.Players, db.Player{
				ID:    p.ID,
				Name:  p.Name,
				Score: p.Score,
			})
		}
	}
	game, err := s.games.Update(update)
	if err != nil {
		writeRepoError(w, err, "failed to update game")
		return
	}
	log.Printf("game updated game_id=%s state=%s round=%d", game.ID, game.State, game.RoundNumber)
	s.recordEvent(game.ID, "game_updated", EventPayload{
		GameID:      game.ID,
		State:       game.State,
		RoundNumber: game.RoundNumber,
	})
	writeJSON(w, http.StatusOK, game)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID, action, ok := parseGamePath(r.URL.Path)
	if !ok || action != "" {
		http.NotFound(w, r)
		return
	}
	game, err := s.games.Get(gameID)
	if err != nil {
		writeRepoError(w, err, "failed to load game")
		return
	}
	if err := s.games.Delete(gameID); err != nil {
		writeRepoError(w, err, "failed to delete game")
		return
	}
	log.Printf("game deleted game_id=%s", gameID)
	s.recordEvent(gameID, "game_deleted", EventPayload{
		GameID: gameID,
		State:  game.State,
	})
	w.WriteHeader(http.StatusNoContent)
}
