package server

import (
	"math/rand"
	"net/http"
	"sync"
	"time"

	"lue-lue-backend/internal/config"
	"lue-lue-backend/internal/db"

	"gorm.io/gorm"
)

type Server struct {
	cfg     config.Config
	conn    *gorm.DB
	games   *db.GameRepo
	players *db.PlayerRepo
	cards   *db.CardRepo
	claims  *db.ClaimRepo
	chat    *db.ChatRepo
	events  *db.EventRepo
	rngMu   sync.Mutex
	rng     *rand.Rand
}

// New builds a server around an open database connection. A nil rng falls
// back to a clock-seeded generator; tests inject a fixed seed.
func New(conn *gorm.DB, cfg config.Config, rng *rand.Rand) *Server {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Server{
		cfg:     cfg,
		conn:    conn,
		games:   db.NewGameRepo(conn),
		players: db.NewPlayerRepo(conn, cfg.MaxPlayersPerGame),
		cards:   db.NewCardRepo(conn),
		claims:  db.NewClaimRepo(conn, cfg.MaxCardsPerClaim),
		chat:    db.NewChatRepo(conn, cfg.ChatMessageCap),
		events:  db.NewEventRepo(conn),
		rng:     rng,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/games", s.handleCreateGame)
	mux.HandleFunc("GET /api/games", s.handleListGames)
	mux.HandleFunc("GET /api/games/", s.handleGameSubroutes)
	mux.HandleFunc("POST /api/games/", s.handleGameSubroutes)
	mux.HandleFunc("PUT /api/games/", s.handleUpdateGame)
	mux.HandleFunc("DELETE /api/games/", s.handleDeleteGame)
	mux.HandleFunc("GET /api/players/", s.handleGetPlayer)
	mux.HandleFunc("PUT /api/players/", s.handleUpdatePlayer)
	mux.HandleFunc("DELETE /api/players/", s.handleDeletePlayer)
	mux.HandleFunc("POST /api/cards", s.handleCreateCard)
	mux.HandleFunc("GET /api/cards", s.handleListCards)
	mux.HandleFunc("GET /api/cards/", s.handleGetCard)
	mux.HandleFunc("PUT /api/cards/", s.handleUpdateCard)
	mux.HandleFunc("DELETE /api/cards/", s.handleDeleteCard)
	mux.HandleFunc("GET /api/claims/", s.handleGetClaim)
	mux.HandleFunc("DELETE /api/claims/", s.handleDeleteClaim)
	mux.HandleFunc("POST /api/status", s.handleStatus)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.conn != nil {
		if sqlDB, err := s.conn.DB(); err == nil {
			if err := sqlDB.Ping(); err != nil {
				writeError(w, http.StatusServiceUnavailable, "database unreachable")
				return
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGameSubroutes dispatches /api/games/{id} and the collection routes
// nested under a game.
func (s *Server) handleGameSubroutes(w http.ResponseWriter, r *http.Request) {
	gameID, action, ok := parseGamePath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if r.Method == http.MethodGet {
		switch action {
		case "":
			s.handleGetGame(w, r, gameID)
		case "players":
			s.handleListPlayers(w, r, gameID)
		case "claims":
			s.handleListClaims(w, r, gameID)
		case "chat":
			s.handleListChat(w, r, gameID)
		case "events":
			s.handleEventStream(w, r, gameID)
		default:
			http.NotFound(w, r)
		}
		return
	}
	switch action {
	case "players":
		s.handleJoinGame(w, r, gameID)
	case "claims":
		s.handleCreateClaim(w, r, gameID)
	case "chat":
		s.handlePostChat(w, r, gameID)
	case "rounds":
		s.handleNewRound(w, r, gameID)
	default:
		http.NotFound(w, r)
	}
}
