package server

import (
	"errors"
	"log"
	"net/http"
	"time"

	"dreidel/internal/game"
)

type createRoomRequest struct {
	Nickname string `json:"nickname"`
}

type joinRequest struct {
	Nickname string `json:"nickname"`
}

type spinRequest struct {
	Nickname string `json:"nickname"`
}

type leaveRequest struct {
	Nickname string `json:"nickname"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	if !s.enforceRateLimit(w, r, "create") {
		return
	}
	var req createRoomRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "nickname is required")
		return
	}
	nickname, err := validateNickname(req.Nickname)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	room := s.store.Create(&Room{
		Code:  newRoomCode(),
		State: game.NewRoom(nickname, s.cfg.SeedPot, s.cfg.SeedCoins),
	})
	if err := s.persistRoom(room, nickname); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create room")
		return
	}
	log.Printf("room created room_code=%s creator=%s", room.Code, nickname)
	s.sessions.SetName(w, r, nickname)
	writeJSON(w, http.StatusCreated, map[string]any{
		"room_code": room.Code,
		"turn":      nickname,
		"pot":       s.cfg.SeedPot,
	})
}

func (s *Server) handleRoomSubroutes(w http.ResponseWriter, r *http.Request) {
	rawCode, action, ok := parseRoomPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	code, err := validateRoomCode(rawCode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		switch action {
		case "":
			s.handleGetRoom(w, r, code)
		default:
			http.NotFound(w, r)
		}
	case http.MethodPost:
		switch action {
		case "join":
			s.handleJoinRoom(w, r, code)
		case "spin":
			s.handleSpin(w, r, code)
		case "leave":
			s.handleLeaveRoom(w, r, code)
		default:
			http.NotFound(w, r)
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request, code string) {
	doc, ok := s.store.Snapshot(code)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request, code string) {
	if !s.enforceRateLimit(w, r, "join") {
		return
	}
	var req joinRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "nickname is required")
		return
	}
	nickname, err := validateNickname(req.Nickname)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	room, err := s.store.Update(code, func(room *Room) error {
		return room.State.AddPlayer(nickname)
	})
	if err != nil {
		s.writeRoomError(w, r, err)
		return
	}
	if err := s.persistJoin(room, nickname); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to join room")
		return
	}
	log.Printf("player joined room_code=%s player=%s players=%d", code, nickname, room.State.ActivePlayers())
	s.sessions.SetName(w, r, nickname)
	doc, _ := s.store.Snapshot(code)
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleSpin(w http.ResponseWriter, r *http.Request, code string) {
	if !s.enforceRateLimit(w, r, "spin") {
		return
	}
	var req spinRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "nickname is required")
		return
	}
	nickname, err := validateNickname(req.Nickname)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var event *game.SpinEvent
	room, err := s.store.Update(code, func(room *Room) error {
		spun, err := room.State.Spin(nickname, s.draw(), time.Now())
		if err != nil {
			return err
		}
		event = spun
		return nil
	})
	if err != nil {
		s.writeRoomError(w, r, err)
		return
	}
	if err := s.persistSpin(room, event); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save spin")
		return
	}
	log.Printf("spin resolved room_code=%s actor=%s outcome=%s pot=%d turn=%s", code, nickname, event.Outcome, room.State.Pot, room.State.Turn)
	doc, _ := s.store.Snapshot(code)
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleLeaveRoom(w http.ResponseWriter, r *http.Request, code string) {
	if !s.enforceRateLimit(w, r, "leave") {
		return
	}
	var req leaveRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "nickname is required")
		return
	}
	nickname, err := validateNickname(req.Nickname)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	room, err := s.store.Update(code, func(room *Room) error {
		return room.State.RemovePlayer(nickname)
	})
	if errors.Is(err, game.ErrUnknownPlayer) {
		// Leaving twice is fine; the seat is already gone.
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}
	if err != nil {
		s.writeRoomError(w, r, err)
		return
	}
	if err := s.persistLeave(room, nickname); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to leave room")
		return
	}
	log.Printf("player left room_code=%s player=%s players=%d", code, nickname, room.State.ActivePlayers())
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"nickname": s.sessions.GetName(w, r),
	})
}

// writeRoomError maps store and engine errors onto the API surface:
// unknown rooms are 404, semantic rejections are 409, anything else is
// a store failure and surfaces as 500.
func (s *Server) writeRoomError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		http.NotFound(w, r)
	case errors.Is(err, game.ErrNameTaken),
		errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrGameEnded),
		errors.Is(err, game.ErrNotStarted),
		errors.Is(err, game.ErrUnknownPlayer):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "room store failure")
	}
}
