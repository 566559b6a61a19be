package domain

import (
	"fmt"
	"strings"
)

// Board is a width x height grid of disc slots. Cells are indexed
// [column][row] with row 0 at the bottom.
type Board struct {
	width  int
	height int
	cells  [][]*Disc

	// game is the match this board belongs to. It is context only and is
	// cleared when the game discards the board.
	game *Game
}

// newBoard does not validate its dimensions; NewGame does that.
func newBoard(height, width int, game *Game) *Board {
	cells := make([][]*Disc, width)
	for c := range cells {
		cells[c] = make([]*Disc, height)
	}
	return &Board{
		width:  width,
		height: height,
		cells:  cells,
		game:   game,
	}
}

func (b *Board) Width() int {
	return b.width
}

func (b *Board) Height() int {
	return b.height
}

// Game returns the owning game, or nil once the board has been released.
func (b *Board) Game() *Game {
	return b.game
}

func (b *Board) inBounds(column, row int) bool {
	return column >= 0 && column < b.width && row >= 0 && row < b.height
}

// DiscAt returns the disc stored at (column, row), or nil for an empty or
// out of range cell.
func (b *Board) DiscAt(column, row int) *Disc {
	if !b.inBounds(column, row) {
		return nil
	}
	return b.cells[column][row]
}

// placeDisc drops the disc into the column. It lands in the lowest empty
// row and the disc records that position.
func (b *Board) placeDisc(disc *Disc, column int) (Position, error) {
	if column < 0 || column >= b.width {
		return Position{}, fmt.Errorf("%w: column %d, board has %d columns", ErrOutOfBounds, column, b.width)
	}
	if disc == nil {
		return Position{}, ErrInvalidDisc
	}
	if disc.IsPlaced() {
		return Position{}, ErrDiscAlreadyPlaced
	}

	for row := 0; row < b.height; row++ {
		if b.cells[column][row] == nil {
			b.cells[column][row] = disc
			disc.place(column, row)
			return Position{Column: column, Row: row}, nil
		}
	}

	return Position{}, fmt.Errorf("%w: column %d", ErrColumnFull, column)
}

func (b *Board) IsColumnFull(column int) bool {
	if column < 0 || column >= b.width {
		return true
	}
	return b.cells[column][b.height-1] != nil
}

// IsFull reports whether every cell holds a disc.
func (b *Board) IsFull() bool {
	for c := 0; c < b.width; c++ {
		for r := 0; r < b.height; r++ {
			if b.cells[c][r] == nil {
				return false
			}
		}
	}
	return true
}

// DiscCount returns the number of occupied cells.
func (b *Board) DiscCount() int {
	n := 0
	for c := range b.cells {
		for _, d := range b.cells[c] {
			if d != nil {
				n++
			}
		}
	}
	return n
}

// Render prints the grid top row first: X for an empty cell, Y for the
// first side and R for the second, separated by single spaces.
func (b *Board) Render() string {
	var sb strings.Builder
	for row := b.height - 1; row >= 0; row-- {
		for col := 0; col < b.width; col++ {
			if col > 0 {
				sb.WriteString(" ")
			}
			disc := b.cells[col][row]
			if disc == nil {
				sb.WriteString("X")
				continue
			}
			sb.WriteString(disc.side.marker())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (b *Board) String() string {
	return b.Render()
}

// release drops the back-reference to the game. The discs go with the board.
func (b *Board) release() {
	b.game = nil
}
