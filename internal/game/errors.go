package game

import "errors"

var (
	ErrNotYourTurn   = errors.New("not your turn")
	ErrGameEnded     = errors.New("game ended")
	ErrNotStarted    = errors.New("game not started")
	ErrNameTaken     = errors.New("nickname already taken")
	ErrUnknownPlayer = errors.New("player not found")
)
