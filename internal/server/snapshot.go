package server

import (
	"dreidel/internal/config"
)

// snapshotWithConfig renders the room document pushed to every viewer.
// The pot, turn, players and lastSpinEvent fields are the persisted wire
// contract; the rest is additive display context.
func snapshotWithConfig(room *Room, cfg config.Config) map[string]any {
	state := room.State
	players := make(map[string]any, len(state.Players))
	for name, p := range state.Players {
		entry := map[string]any{"coins": p.Coins}
		if p.OnLastChance {
			entry["onLastChance"] = true
		}
		players[name] = entry
	}
	doc := map[string]any{
		"pot":                 state.Pot,
		"turn":                state.Turn,
		"players":             players,
		"room_code":           room.Code,
		"phase":               state.Phase,
		"seats":               append([]string(nil), state.Order...),
		"version":             room.Version,
		"spin_reveal_seconds": cfg.SpinRevealSeconds,
	}
	if state.LastSpin != nil {
		doc["lastSpinEvent"] = map[string]any{
			"actor":      state.LastSpin.Actor,
			"outcome":    string(state.LastSpin.Outcome),
			"summary":    state.LastSpin.Summary,
			"occurredAt": state.LastSpin.OccurredAt,
		}
	}
	return doc
}
