package server

import (
	"encoding/json"
	"errors"
	"time"

	"dreidel/internal/db"
	"dreidel/internal/game"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// Write-through persistence. The in-memory store is authoritative for
// live play; these mirror each accepted transition into Postgres so
// unfinished rooms survive a restart. A nil DB disables all of it.

func (s *Server) persistRoom(room *Room, creator string) error {
	if s.db == nil {
		return nil
	}
	players, err := playersJSON(room.State)
	if err != nil {
		return err
	}
	record := db.Room{
		Code:      room.Code,
		Phase:     room.State.Phase,
		Pot:       room.State.Pot,
		Turn:      room.State.Turn,
		SeedCoins: room.State.SeedCoins,
		Players:   players,
	}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
		return err
	}
	if record.ID == 0 {
		// Code collision with a stored room: the new room replaces it.
		if err := s.ensureRoomDBID(room); err != nil {
			return err
		}
		if room.DBID == 0 {
			return errors.New("room not found")
		}
		if err := s.db.Model(&db.Room{}).Where("id = ?", room.DBID).Updates(map[string]any{
			"phase":      room.State.Phase,
			"pot":        room.State.Pot,
			"turn":       room.State.Turn,
			"seed_coins": room.State.SeedCoins,
			"players":    players,
			"last_spin":  nil,
		}).Error; err != nil {
			return err
		}
		if err := s.db.Where("room_id = ?", room.DBID).Delete(&db.RoomPlayer{}).Error; err != nil {
			return err
		}
	} else {
		room.DBID = record.ID
	}
	return s.persistSeat(room, creator)
}

func (s *Server) persistJoin(room *Room, name string) error {
	if s.db == nil {
		return nil
	}
	if err := s.updateRoomRecord(room); err != nil {
		return err
	}
	return s.persistSeat(room, name)
}

func (s *Server) persistSpin(room *Room, event *game.SpinEvent) error {
	if s.db == nil {
		return nil
	}
	if err := s.updateRoomRecord(room); err != nil {
		return err
	}
	if err := s.pruneSeats(room); err != nil {
		return err
	}
	record := db.SpinEvent{
		RoomID:     room.DBID,
		Actor:      event.Actor,
		Outcome:    string(event.Outcome),
		Summary:    event.Summary,
		OccurredAt: event.OccurredAt,
	}
	return s.db.Create(&record).Error
}

func (s *Server) persistLeave(room *Room, name string) error {
	if s.db == nil {
		return nil
	}
	if err := s.updateRoomRecord(room); err != nil {
		return err
	}
	return s.db.Where("room_id = ? AND name = ?", room.DBID, name).Delete(&db.RoomPlayer{}).Error
}

// updateRoomRecord writes the whole room document in one row update, so
// pot, players, turn and lastSpinEvent land together or not at all.
func (s *Server) updateRoomRecord(room *Room) error {
	if err := s.ensureRoomDBID(room); err != nil {
		return err
	}
	if room.DBID == 0 {
		return errors.New("room not found")
	}
	players, err := playersJSON(room.State)
	if err != nil {
		return err
	}
	updates := map[string]any{
		"phase":   room.State.Phase,
		"pot":     room.State.Pot,
		"turn":    room.State.Turn,
		"players": players,
	}
	if room.State.LastSpin != nil {
		lastSpin, err := json.Marshal(room.State.LastSpin)
		if err != nil {
			return err
		}
		updates["last_spin"] = datatypes.JSON(lastSpin)
	}
	return s.db.Model(&db.Room{}).Where("id = ?", room.DBID).Updates(updates).Error
}

func (s *Server) persistSeat(room *Room, name string) error {
	if room.DBID == 0 {
		return errors.New("room not found")
	}
	record := db.RoomPlayer{
		RoomID:   room.DBID,
		Name:     name,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}
	return nil
}

// pruneSeats drops seat rows for players the last transition removed.
func (s *Server) pruneSeats(room *Room) error {
	names := make([]string, 0, len(room.State.Players))
	for name := range room.State.Players {
		names = append(names, name)
	}
	query := s.db.Where("room_id = ?", room.DBID)
	if len(names) > 0 {
		query = query.Where("name NOT IN ?", names)
	}
	return query.Delete(&db.RoomPlayer{}).Error
}

func (s *Server) ensureRoomDBID(room *Room) error {
	if s.db == nil || room.DBID != 0 {
		return nil
	}
	var record db.Room
	if err := s.db.Where("code = ?", room.Code).First(&record).Error; err != nil {
		return nil
	}
	room.DBID = record.ID
	return nil
}

func playersJSON(state *game.RoomState) (datatypes.JSON, error) {
	data, err := json.Marshal(state.Players)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
