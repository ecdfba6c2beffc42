package server

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"lue-lue-backend/internal/db"
)

// eventPollInterval is how often the stream checks the event log for new
// rows between heartbeats.
const eventPollInterval = 2 * time.Second

// handleEventStream serves the per-game SSE feed. Events already in the
// log after the client's Last-Event-ID are replayed first; after that the
// handler alternates between polling for new events and emitting heartbeat
// comments until the client goes away.
func (s *Server) handleEventStream(w http.ResponseWriter, r *http.Request, gameID string) {
	if _, err := s.games.Get(gameID); err != nil {
		// A deleted game leaves its event log behind; replay that so the
		// client still receives the closing game_deleted frame.
		if !db.IsNotFound(err) || !s.hasEventLog(gameID) {
			writeRepoError(w, err, "failed to load game")
			return
		}
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	lastID := uint(0)
	if raw := r.Header.Get("Last-Event-ID"); raw != "" {
		if value, err := strconv.ParseUint(raw, 10, 64); err == nil {
			lastID = uint(value)
		}
	}

	lastID, ended := s.flushEvents(w, flusher, gameID, lastID)
	if ended {
		return
	}

	heartbeat := time.NewTicker(time.Duration(s.cfg.SSEHeartbeatSeconds) * time.Second)
	defer heartbeat.Stop()
	poll := time.NewTicker(eventPollInterval)
	defer poll.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-poll.C:
			lastID, ended = s.flushEvents(w, flusher, gameID, lastID)
			if ended {
				return
			}
		case <-heartbeat.C:
			fmt.Fprintf(w, ": heartbeat %s\n\n", time.Now().UTC().Format(time.RFC3339))
			flusher.Flush()
		}
	}
}

// flushEvents writes every event after lastID as an SSE frame and returns
// the new high-water mark. The second return is true once a game_deleted
// event went out, which is the stream's final frame.
func (s *Server) flushEvents(w http.ResponseWriter, flusher http.Flusher, gameID string, lastID uint) (uint, bool) {
	events, err := s.events.ListByGame(gameID, lastID)
	if err != nil {
		log.Printf("event poll failed game_id=%s error=%v", gameID, err)
		return lastID, false
	}
	if len(events) == 0 {
		return lastID, false
	}
	ended := false
	for _, event := range events {
		fmt.Fprintf(w, "id: %d\n", event.ID)
		fmt.Fprintf(w, "event: %s\n", event.Type)
		fmt.Fprintf(w, "data: %s\n\n", event.Payload)
		lastID = event.ID
		if event.Type == "game_deleted" {
			ended = true
		}
	}
	flusher.Flush()
	return lastID, ended
}

// hasEventLog reports whether any events were ever recorded for the game.
func (s *Server) hasEventLog(gameID string) bool {
	events, err := s.events.ListByGame(gameID, 0)
	return err == nil && len(events) > 0
}
