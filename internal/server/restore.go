package server

import (
	"encoding/json"
	"errors"
	"log"
	"sort"

	"dreidel/internal/db"
	"dreidel/internal/game"
)

// RestoreRooms reloads every unfinished room from the database into the
// live store at boot. Seat order comes from the room_players rows in
// join order; balances come from the room document itself.
func (s *Server) RestoreRooms() error {
	if s.db == nil {
		return errors.New("database not configured")
	}
	var records []db.Room
	if err := s.db.Where("phase <> ?", game.PhaseEnded).Find(&records).Error; err != nil {
		return err
	}
	restored := 0
	for i := range records {
		room, err := s.restoreRoom(&records[i])
		if err != nil {
			log.Printf("room restore skipped room_code=%s error=%v", records[i].Code, err)
			continue
		}
		s.store.Create(room)
		restored++
	}
	log.Printf("rooms restored count=%d", restored)
	return nil
}

func (s *Server) restoreRoom(record *db.Room) (*Room, error) {
	players := make(map[string]*game.PlayerState)
	if len(record.Players) > 0 {
		if err := json.Unmarshal(record.Players, &players); err != nil {
			return nil, err
		}
	}

	var seats []db.RoomPlayer
	if err := s.db.Where("room_id = ?", record.ID).Order("id asc").Find(&seats).Error; err != nil {
		return nil, err
	}
	sort.SliceStable(seats, func(i, j int) bool {
		return seats[i].JoinedAt.Before(seats[j].JoinedAt)
	})
	order := make([]string, 0, len(players))
	for _, seat := range seats {
		if _, seated := players[seat.Name]; seated {
			order = append(order, seat.Name)
		}
	}
	if len(order) != len(players) {
		return nil, errors.New("seat rows out of sync with room document")
	}

	state := &game.RoomState{
		Pot:       record.Pot,
		Turn:      record.Turn,
		Players:   players,
		Order:     order,
		Phase:     record.Phase,
		SeedCoins: record.SeedCoins,
	}
	if len(record.LastSpin) > 0 {
		var lastSpin game.SpinEvent
		if err := json.Unmarshal(record.LastSpin, &lastSpin); err != nil {
			return nil, err
		}
		state.LastSpin = &lastSpin
	}
	return &Room{
		Code:  record.Code,
		State: state,
		DBID:  record.ID,
	}, nil
}
