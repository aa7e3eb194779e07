package server

import (
	"math/rand"
	"net/http"
	"sync"
	"time"

	"dreidel/internal/config"
	"dreidel/internal/game"

	"gorm.io/gorm"
)

type Server struct {
	store    *Store
	db       *gorm.DB
	cfg      config.Config
	sessions *sessionStore
	limiter  *rateLimiter

	rngMu sync.Mutex
	rng   *rand.Rand
	draw  func() game.Outcome
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	s := &Server{
		store:    NewStore(cfg),
		db:       conn,
		cfg:      cfg,
		sessions: newSessionStore(),
		limiter:  newRateLimiter(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.draw = func() game.Outcome {
		s.rngMu.Lock()
		defer s.rngMu.Unlock()
		return game.Draw(s.rng)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/rooms", s.handleCreateRoom)
	mux.HandleFunc("GET /api/rooms/", s.handleRoomSubroutes)
	mux.HandleFunc("POST /api/rooms/", s.handleRoomSubroutes)
	mux.HandleFunc("GET /api/session", s.handleSession)
	mux.HandleFunc("GET /ws/rooms/", s.handleRoomSocket)
	return mux
}
