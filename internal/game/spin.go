package game

import (
	"fmt"
	"time"
)

// Spin resolves one turn for actor: settle the outcome against the pot,
// sweep the last-chance rule over every seated player, then advance the
// turn. Preconditions are checked before anything is touched, so an
// error always leaves the state exactly as it was.
func (r *RoomState) Spin(actor string, outcome Outcome, at time.Time) (*SpinEvent, error) {
	switch r.Phase {
	case PhaseEnded:
		return nil, ErrGameEnded
	case PhaseWaiting:
		return nil, ErrNotStarted
	}
	if actor != r.Turn {
		return nil, ErrNotYourTurn
	}
	player, ok := r.Players[actor]
	if !ok {
		return nil, ErrUnknownPlayer
	}

	coinsBefore := player.Coins
	summary := r.settle(actor, player, outcome)
	order := append([]string(nil), r.Order...)
	r.sweepLastChance()
	r.advanceTurn(order, actor, coinsBefore, player.Coins)

	event := &SpinEvent{
		Actor:      actor,
		Outcome:    outcome,
		Summary:    summary,
		OccurredAt: at.UnixMilli(),
	}
	if r.LastSpin != nil && event.OccurredAt < r.LastSpin.OccurredAt {
		event.OccurredAt = r.LastSpin.OccurredAt
	}
	r.LastSpin = event
	return event, nil
}

// settle applies the coin transfer for one outcome. Every branch keeps
// sum(coins)+pot constant: transfers that cannot be funded are skipped
// rather than clamped or driven negative.
func (r *RoomState) settle(actor string, player *PlayerState, outcome Outcome) string {
	switch outcome {
	case Nun:
		return fmt.Sprintf("%s spun Nun - nothing happens.", actor)
	case Hey:
		half := r.Pot / 2
		player.Coins += half
		r.Pot -= half
		return fmt.Sprintf("%s spun Hey - takes half the pot.", actor)
	case Shin:
		if player.Coins > 0 {
			player.Coins--
			r.Pot++
		}
		return fmt.Sprintf("%s spun Shin - adds 1 coin to the pot.", actor)
	case Gimel:
		player.Coins += r.Pot
		r.Pot = 0
		if player.Coins > 0 {
			player.Coins--
			r.Pot++
		}
		for _, name := range r.Order {
			if name == actor {
				continue
			}
			if other := r.Players[name]; other.Coins > 0 {
				other.Coins--
				r.Pot++
			}
		}
		return fmt.Sprintf("%s spun Gimel - takes the pot, everyone antes 1!", actor)
	}
	return ""
}

// sweepLastChance applies the zero-coin rule to every seated player, not
// just the actor: a Gimel ante can zero several players in one spin.
func (r *RoomState) sweepLastChance() {
	for _, name := range append([]string(nil), r.Order...) {
		p := r.Players[name]
		switch {
		case p.Coins == 0 && !p.OnLastChance:
			p.OnLastChance = true
		case p.Coins == 0 && p.OnLastChance:
			delete(r.Players, name)
			r.Order = removeName(r.Order, name)
		case p.Coins > 0 && p.OnLastChance:
			p.OnLastChance = false
		}
	}
}

// advanceTurn hands the turn to the next seat after actor in the
// pre-elimination order, skipping anyone just removed. An actor who
// climbed back from zero keeps the turn. One survivor ends the game.
func (r *RoomState) advanceTurn(order []string, actor string, coinsBefore, coinsAfter int) {
	switch len(r.Players) {
	case 0:
		r.Phase = PhaseEnded
		r.Turn = ""
		return
	case 1:
		r.Phase = PhaseEnded
		r.Turn = r.Order[0]
		return
	}
	if coinsBefore == 0 && coinsAfter > 0 {
		if _, alive := r.Players[actor]; alive {
			r.Turn = actor
			return
		}
	}
	r.Turn = nextSeat(order, actor, r.Players)
}

// nextSeat walks order from the seat after `after`, wrapping, and
// returns the first name still present in alive.
func nextSeat(order []string, after string, alive map[string]*PlayerState) string {
	idx := -1
	for i, name := range order {
		if name == after {
			idx = i
			break
		}
	}
	if idx < 0 || len(order) == 0 {
		for _, name := range order {
			if _, ok := alive[name]; ok {
				return name
			}
		}
		return ""
	}
	for step := 1; step <= len(order); step++ {
		name := order[(idx+step)%len(order)]
		if _, ok := alive[name]; ok {
			return name
		}
	}
	return ""
}
