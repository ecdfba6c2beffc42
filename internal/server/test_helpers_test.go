package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lue-lue-backend/internal/config"
	"lue-lue-backend/internal/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	srv  *Server
	ts   *httptest.Server
	conn *gorm.DB
}

// newTestEnv spins up a server over an in-memory SQLite database with a
// fixed-seed generator so card draws are reproducible.
func newTestEnv(t *testing.T, cfg config.Config) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	srv := New(conn, cfg, rand.New(rand.NewSource(1)))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testEnv{srv: srv, ts: ts, conn: conn}
}

func defaultTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnv(t, config.Default())
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func createGame(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/games", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create game: expected %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	id, ok := body["id"].(string)
	if !ok || id == "" {
		t.Fatalf("create game: missing id in %v", body)
	}
	return id
}

func joinGame(t *testing.T, ts *httptest.Server, gameID, name string) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/games/"+gameID+"/players", map[string]string{"name": name})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("join game: expected %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	id, ok := body["id"].(string)
	if !ok || id == "" {
		t.Fatalf("join game: missing id in %v", body)
	}
	return id
}

func createCard(t *testing.T, ts *httptest.Server, cardType, playerID string) string {
	t.Helper()
	payload := map[string]string{"card_type": cardType}
	if playerID != "" {
		payload["player_id"] = playerID
	}
	resp := doRequest(t, ts, http.MethodPost, "/api/cards", payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create card: expected %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	id, ok := body["id"].(string)
	if !ok || id == "" {
		t.Fatalf("create card: missing id in %v", body)
	}
	return id
}
