package server

import (
	"errors"
	"log"
	"sync"

	"dreidel/internal/config"
	"dreidel/internal/game"

	"github.com/google/uuid"
)

var ErrRoomNotFound = errors.New("room not found")

// Room is a stored room plus bookkeeping the engine does not own.
type Room struct {
	Code    string
	State   *game.RoomState
	Version int
	DBID    uint
}

// Store keeps the live rooms keyed by code and pushes the full room
// document to subscribers on every write, the way the realtime store it
// stands in for does. All read-modify-writes go through Update, which
// serializes them under one mutex and bumps the room version.
type Store struct {
	mu       sync.Mutex
	cfg      config.Config
	rooms    map[string]*Room
	watchers map[string]map[string]func(map[string]any)
}

func NewStore(cfg config.Config) *Store {
	return &Store{
		cfg:      cfg,
		rooms:    map[string]*Room{},
		watchers: map[string]map[string]func(map[string]any){},
	}
}

// Create inserts a room under its code. Codes are generated without
// checking live rooms; the rare collision replaces the old room and is
// logged rather than handled.
func (s *Store) Create(room *Room) *Room {
	s.mu.Lock()
	if _, clash := s.rooms[room.Code]; clash {
		log.Printf("room code collision, replacing room_code=%s", room.Code)
	}
	s.rooms[room.Code] = room
	doc, fns := s.notifyLocked(room.Code)
	s.mu.Unlock()
	for _, fn := range fns {
		fn(doc)
	}
	return room
}

func (s *Store) Get(code string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	return room, ok
}

// Update runs fn against the room under the store lock. On success the
// version is bumped and every subscriber receives the new document; on
// error nothing is published.
func (s *Store) Update(code string, fn func(room *Room) error) (*Room, error) {
	s.mu.Lock()
	room, ok := s.rooms[code]
	if !ok {
		s.mu.Unlock()
		return nil, ErrRoomNotFound
	}
	if err := fn(room); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	room.Version++
	doc, fns := s.notifyLocked(code)
	s.mu.Unlock()
	for _, fn := range fns {
		fn(doc)
	}
	return room, nil
}

func (s *Store) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	delete(s.watchers, code)
}

// Snapshot builds the current room document under the lock.
func (s *Store) Snapshot(code string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, false
	}
	return snapshotWithConfig(room, s.cfg), true
}

// Subscribe registers fn for every future write to the room and fires it
// once immediately with the current document. The returned handle must
// be called when the viewer goes away or the registration leaks.
func (s *Store) Subscribe(code string, fn func(map[string]any)) (func(), bool) {
	s.mu.Lock()
	room, ok := s.rooms[code]
	if !ok {
		s.mu.Unlock()
		return nil, false
	}
	group := s.watchers[code]
	if group == nil {
		group = map[string]func(map[string]any){}
		s.watchers[code] = group
	}
	handle := uuid.NewString()
	group[handle] = fn
	doc := snapshotWithConfig(room, s.cfg)
	s.mu.Unlock()

	fn(doc)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if group, ok := s.watchers[code]; ok {
			delete(group, handle)
			if len(group) == 0 {
				delete(s.watchers, code)
			}
		}
	}, true
}

func (s *Store) notifyLocked(code string) (map[string]any, []func(map[string]any)) {
	group := s.watchers[code]
	if len(group) == 0 {
		return nil, nil
	}
	room := s.rooms[code]
	doc := snapshotWithConfig(room, s.cfg)
	fns := make([]func(map[string]any), 0, len(group))
	for _, fn := range group {
		fns = append(fns, fn)
	}
	return doc, fns
}
