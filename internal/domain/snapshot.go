package domain

import "time"

// Snapshot is a read-only copy of a game, safe to hand to other goroutines,
// serialize or cache.
type Snapshot struct {
	GameID     string     `json:"game_id"`
	Height     int        `json:"height"`
	Width      int        `json:"width"`
	State      GameState  `json:"state"`
	Label      string     `json:"label"`
	SideToMove string     `json:"side_to_move,omitempty"`
	Winner     string     `json:"winner,omitempty"`
	Moves      int        `json:"moves"`
	Cells      [][]string `json:"cells"` // [column][row], row 0 at the bottom
	Board      string     `json:"board"`
	LastMove   *Position  `json:"last_move,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func NewSnapshot(gameID string, g *Game, at time.Time) Snapshot {
	b := g.Board()
	cells := make([][]string, b.Width())
	for c := range cells {
		cells[c] = make([]string, b.Height())
		for r := range cells[c] {
			if d := b.DiscAt(c, r); d != nil {
				cells[c][r] = d.Side().Key()
			}
		}
	}

	snap := Snapshot{
		GameID:    gameID,
		Height:    g.Height(),
		Width:     g.Width(),
		State:     g.State(),
		Label:     g.DescribeState(),
		Moves:     g.MoveCount(),
		Cells:     cells,
		Board:     b.Render(),
		UpdatedAt: at,
	}
	if side, ok := g.State().SideToMove(); ok {
		snap.SideToMove = side.Key()
	}
	if side, ok := g.State().Winner(); ok {
		snap.Winner = side.Key()
	}
	if pos, ok := g.LastMove(); ok {
		snap.LastMove = &pos
	}
	return snap
}
