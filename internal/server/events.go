package server

import "log"

// EventPayload is the wire shape stored in the event log and replayed over
// the SSE stream. Only the fields relevant to an event type are set.
type EventPayload struct {
	GameID      string `json:"game_id,omitempty"`
	PlayerID    string `json:"player_id,omitempty"`
	PlayerName  string `json:"player,omitempty"`
	ClaimID     string `json:"claim_id,omitempty"`
	RoundNumber int    `json:"round_number,omitempty"`
	State       string `json:"state,omitempty"`
	CardToPlay  string `json:"card_to_play,omitempty"`
	CardCount   int    `json:"card_count,omitempty"`
	Content     string `json:"content,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// recordEvent appends to the event log. A failed append is logged but never
// fails the request that triggered it.
func (s *Server) recordEvent(gameID, eventType string, payload EventPayload) {
	if err := s.events.Append(gameID, eventType, payload); err != nil {
		log.Printf("event append failed game_id=%s type=%s err=%v", gameID, eventType, err)
	}
}
