package server

import (
	"net/http"
	"testing"

	"lue-lue-backend/internal/db"
)

func TestNextTurnPlayer(t *testing.T) {
	players := []db.Player{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	if got := nextTurnPlayer(players, "a"); got != "b" {
		t.Fatalf("expected b after a, got %s", got)
	}
	if got := nextTurnPlayer(players, "c"); got != "a" {
		t.Fatalf("expected wrap to a after c, got %s", got)
	}
	if got := nextTurnPlayer(players, ""); got != "a" {
		t.Fatalf("expected first seat for empty holder, got %s", got)
	}
	if got := nextTurnPlayer(players, "ghost"); got != "a" {
		t.Fatalf("expected first seat for unknown holder, got %s", got)
	}
	if got := nextTurnPlayer(nil, "a"); got != "" {
		t.Fatalf("expected empty for empty roster, got %s", got)
	}
}

func TestNewRoundAdvancesAndRotates(t *testing.T) {
	env := defaultTestEnv(t)
	gameID := createGame(t, env.ts)
	adaID := joinGame(t, env.ts, gameID, "Ada")
	bobID := joinGame(t, env.ts, gameID, "Bob")

	resp := doRequest(t, env.ts, http.MethodPost, "/api/games/"+gameID+"/rounds", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["round_number"] != float64(1) {
		t.Fatalf("expected round 1, got %v", body["round_number"])
	}
	if body["state"] != db.StateInProgress {
		t.Fatalf("expected in_progress, got %v", body["state"])
	}
	if body["which_player_turn"] != adaID {
		t.Fatalf("expected first seat %s, got %v", adaID, body["which_player_turn"])
	}
	card, _ := body["card_to_play"].(string)
	if !db.ValidCardType(card) {
		t.Fatalf("expected a valid card type, got %q", card)
	}

	resp = doRequest(t, env.ts, http.MethodPost, "/api/games/"+gameID+"/rounds", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second round: got %d", resp.StatusCode)
	}
	body = decodeBody(t, resp)
	if body["round_number"] != float64(2) {
		t.Fatalf("expected round 2, got %v", body["round_number"])
	}
	if body["which_player_turn"] != bobID {
		t.Fatalf("expected turn to rotate to %s, got %v", bobID, body["which_player_turn"])
	}
}

func TestNewRoundClearsClaims(t *testing.T) {
	env := defaultTestEnv(t)
	gameID := createGame(t, env.ts)
	adaID := joinGame(t, env.ts, gameID, "Ada")
	joinGame(t, env.ts, gameID, "Bob")
	cardID := createCard(t, env.ts, db.CardKing, adaID)

	resp := doRequest(t, env.ts, http.MethodPost, "/api/games/"+gameID+"/claims", map[string]any{
		"created_by": adaID,
		"card_ids":   []string{cardID},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create claim: got %d", resp.StatusCode)
	}

	resp = doRequest(t, env.ts, http.MethodPost, "/api/games/"+gameID+"/rounds", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("new round: got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	claims, ok := body["claims"].([]any)
	if !ok || len(claims) != 0 {
		t.Fatalf("expected claims to be cleared, got %v", body["claims"])
	}
}

func TestNewRoundDrawsVaryingCards(t *testing.T) {
	env := defaultTestEnv(t)
	gameID := createGame(t, env.ts)
	joinGame(t, env.ts, gameID, "Ada")
	joinGame(t, env.ts, gameID, "Bob")

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		resp := doRequest(t, env.ts, http.MethodPost, "/api/games/"+gameID+"/rounds", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("round %d: got %d", i, resp.StatusCode)
		}
		card, _ := decodeBody(t, resp)["card_to_play"].(string)
		seen[card] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expected the draw to vary across rounds, only saw %v", seen)
	}
}

func TestNewRoundNeedsPlayers(t *testing.T) {
	env := defaultTestEnv(t)
	gameID := createGame(t, env.ts)
	joinGame(t, env.ts, gameID, "Ada")

	resp := doRequest(t, env.ts, http.MethodPost, "/api/games/"+gameID+"/rounds", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, resp.StatusCode)
	}
}

func TestNewRoundEndedGame(t *testing.T) {
	env := defaultTestEnv(t)
	gameID := createGame(t, env.ts)
	joinGame(t, env.ts, gameID, "Ada")
	joinGame(t, env.ts, gameID, "Bob")

	resp := doRequest(t, env.ts, http.MethodPut, "/api/games/"+gameID, map[string]any{"state": db.StateEnded})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("end game: got %d", resp.StatusCode)
	}
	resp = doRequest(t, env.ts, http.MethodPost, "/api/games/"+gameID+"/rounds", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, resp.StatusCode)
	}
}
