package server

import (
	"net/http"

	"lue-lue-backend/internal/db"
)

type postChatRequest struct {
	PlayerID string `json:"player_id"`
	Content  string `json:"content"`
}

func (s *Server) handlePostChat(w http.ResponseWriter, r *http.Request, gameID string) {
	var req postChatRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}
	player, err := s.players.Get(req.PlayerID)
	if err != nil {
		writeRepoError(w, err, "failed to load player")
		return
	}
	if player.GameID != gameID {
		writeError(w, http.StatusForbidden, "player is not in this game")
		return
	}
	message := db.Message{
		GameID:   gameID,
		PlayerID: req.PlayerID,
		Content:  req.Content,
	}
	if err := s.chat.Append(&message); err != nil {
		writeRepoError(w, err, "failed to post message")
		return
	}
	s.recordEvent(gameID, "chat_message", EventPayload{
		GameID:   gameID,
		PlayerID: req.PlayerID,
		Content:  message.Content,
	})
	writeJSON(w, http.StatusCreated, message)
}

func (s *Server) handleListChat(w http.ResponseWriter, r *http.Request, gameID string) {
	if _, err := s.games.Get(gameID); err != nil {
		writeRepoError(w, err, "failed to load game")
		return
	}
	messages, err := s.chat.ListByGame(gameID)
	if err != nil {
		writeRepoError(w, err, "failed to list messages")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"messages":           messages,
		"number_of_messages": len(messages),
	})
}
