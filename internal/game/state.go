package game

// Room phases. A room waits until a second player arrives, then stays in
// progress until eliminations leave a single survivor.
const (
	PhaseWaiting    = "waiting"
	PhaseInProgress = "in_progress"
	PhaseEnded      = "ended"
)

const (
	DefaultSeedPot   = 10
	DefaultSeedCoins = 10
)

// PlayerState is one seated player. OnLastChance marks the one-cycle
// grace period granted at zero coins before elimination.
type PlayerState struct {
	Coins        int  `json:"coins"`
	OnLastChance bool `json:"onLastChance,omitempty"`
}

// SpinEvent records the most recently resolved spin. OccurredAt is a
// millisecond epoch timestamp, non-decreasing across events in a room.
type SpinEvent struct {
	Actor      string  `json:"actor"`
	Outcome    Outcome `json:"outcome"`
	Summary    string  `json:"summary"`
	OccurredAt int64   `json:"occurredAt"`
}

// RoomState is the full shared state of one room. Players is keyed by
// display name; Order holds the same names in seat (join) order, which
// drives turn advancement and is restored from the players table rather
// than serialized with the document.
type RoomState struct {
	Pot       int                     `json:"pot"`
	Turn      string                  `json:"turn"`
	Players   map[string]*PlayerState `json:"players"`
	LastSpin  *SpinEvent              `json:"lastSpinEvent,omitempty"`
	Order     []string                `json:"-"`
	Phase     string                  `json:"-"`
	SeedCoins int                     `json:"-"`
}

// NewRoom seats the creator with seedCoins, seeds the pot and hands them
// the turn. The room waits for a second player before spins are allowed.
func NewRoom(nickname string, seedPot, seedCoins int) *RoomState {
	return &RoomState{
		Pot: seedPot,
		Players: map[string]*PlayerState{
			nickname: {Coins: seedCoins},
		},
		Order:     []string{nickname},
		Turn:      nickname,
		Phase:     PhaseWaiting,
		SeedCoins: seedCoins,
	}
}

// AddPlayer seats a new player with the room's seed coins. Pot and turn
// are untouched. Names are case sensitive and must be unique for the
// life of the room.
func (r *RoomState) AddPlayer(name string) error {
	if r.Phase == PhaseEnded {
		return ErrGameEnded
	}
	if _, ok := r.Players[name]; ok {
		return ErrNameTaken
	}
	r.Players[name] = &PlayerState{Coins: r.SeedCoins}
	r.Order = append(r.Order, name)
	if r.Phase == PhaseWaiting && len(r.Players) >= 2 {
		r.Phase = PhaseInProgress
	}
	return nil
}

// RemovePlayer unseats a player regardless of balance; their coins leave
// the game with them. If the leaver held the turn it passes to the next
// seated player. A single survivor of an in-progress room wins.
func (r *RoomState) RemovePlayer(name string) error {
	if _, ok := r.Players[name]; !ok {
		return ErrUnknownPlayer
	}
	heldTurn := r.Turn == name
	order := append([]string(nil), r.Order...)
	delete(r.Players, name)
	r.Order = removeName(r.Order, name)

	if len(r.Players) == 0 {
		r.Turn = ""
		return nil
	}
	if heldTurn {
		r.Turn = nextSeat(order, name, r.Players)
	}
	if r.Phase == PhaseInProgress && len(r.Players) == 1 {
		r.Phase = PhaseEnded
		r.Turn = r.Order[0]
	}
	return nil
}

// ActivePlayers reports the number of seated players.
func (r *RoomState) ActivePlayers() int {
	return len(r.Players)
}

// CoinsInPlay is the conserved total: every seated balance plus the pot.
func (r *RoomState) CoinsInPlay() int {
	total := r.Pot
	for _, p := range r.Players {
		total += p.Coins
	}
	return total
}

func removeName(order []string, name string) []string {
	out := order[:0]
	for _, n := range order {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
