package domain

// Disc is a single playing piece. Its side never changes; its position is
// assigned once, by the Board that accepts it.
type Disc struct {
	side     Side
	position *Position
}

func NewDisc(side Side) *Disc {
	return &Disc{side: side}
}

func (d *Disc) Side() Side {
	return d.side
}

// Position returns where the disc sits. ok is false until it has been placed.
func (d *Disc) Position() (pos Position, ok bool) {
	if d.position == nil {
		return Position{}, false
	}
	return *d.position, true
}

func (d *Disc) IsPlaced() bool {
	return d.position != nil
}

// place is only called by Board.placeDisc, after it has checked the disc is
// not on a board yet.
func (d *Disc) place(column, row int) {
	d.position = &Position{Column: column, Row: row}
}
