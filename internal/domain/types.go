package domain

import (
	"fmt"
	"strings"
)

// RequiredRun is the number of same-side discs in a line needed to win.
const RequiredRun = 4

// Side identifies which player a disc belongs to.
type Side int

const (
	First  Side = 1
	Second Side = 2
)

func (s Side) Opponent() Side {
	if s == First {
		return Second
	}
	return First
}

// String returns the display colour of the side.
func (s Side) String() string {
	switch s {
	case First:
		return "Yellow"
	case Second:
		return "Red"
	}
	return "Unknown"
}

// Key is the lowercase name used on the wire.
func (s Side) Key() string {
	switch s {
	case First:
		return "first"
	case Second:
		return "second"
	}
	return ""
}

func (s Side) marker() string {
	switch s {
	case First:
		return "Y"
	case Second:
		return "R"
	}
	return "?"
}

// ParseSide accepts "first", "second", "yellow" or "red" in any case.
func ParseSide(value string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "first", "yellow":
		return First, nil
	case "second", "red":
		return Second, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSide, value)
}

// Position is a zero-based board coordinate; row 0 is the bottom row.
type Position struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

// GameState is the current phase of a match.
type GameState string

const (
	StateFirstTurn  GameState = "first_turn"
	StateSecondTurn GameState = "second_turn"
	StateDraw       GameState = "draw"
	StateFirstWins  GameState = "first_wins"
	StateSecondWins GameState = "second_wins"
)

func (s GameState) IsTerminal() bool {
	return s == StateDraw || s == StateFirstWins || s == StateSecondWins
}

// SideToMove reports whose turn it is. ok is false once the game has ended.
func (s GameState) SideToMove() (side Side, ok bool) {
	switch s {
	case StateFirstTurn:
		return First, true
	case StateSecondTurn:
		return Second, true
	}
	return 0, false
}

// Winner reports the winning side, if any.
func (s GameState) Winner() (side Side, ok bool) {
	switch s {
	case StateFirstWins:
		return First, true
	case StateSecondWins:
		return Second, true
	}
	return 0, false
}

// Label maps the state to its human readable form.
func (s GameState) Label() string {
	switch s {
	case StateFirstTurn:
		return "Yellow's Turn"
	case StateSecondTurn:
		return "Red's Turn"
	case StateDraw:
		return "Draw"
	case StateFirstWins:
		return "Yellow Wins"
	case StateSecondWins:
		return "Red Wins"
	}
	return "Unknown"
}

func winsFor(side Side) GameState {
	if side == First {
		return StateFirstWins
	}
	return StateSecondWins
}

func turnOf(side Side) GameState {
	if side == First {
		return StateFirstTurn
	}
	return StateSecondTurn
}

// basic errors that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidDimensions Error = "invalid board dimensions"
	ErrOutOfBounds       Error = "column out of bounds"
	ErrColumnFull        Error = "column is full"
	ErrInvalidDisc       Error = "invalid disc"
	ErrDiscAlreadyPlaced Error = "disc already placed"
	ErrGameOver          Error = "game has already ended"
	ErrWrongTurn         Error = "wrong player move"
	ErrInvalidSide       Error = "invalid side"
	ErrGameNotFound      Error = "game not found"
	ErrSnapshotNotFound  Error = "snapshot not found"
)
