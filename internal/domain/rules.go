package domain

// WinChecker decides whether a placed disc completes a run of RequiredRun
// discs of its side along one axis.
type WinChecker interface {
	CheckWin(b *Board, d *Disc) bool
}

// defaultWinCheckers is shared by every game. The checkers hold no state.
var defaultWinCheckers = []WinChecker{
	DiagonalWinCheck{},
	HorizontalWinCheck{},
	VerticalWinCheck{},
}

// sameSide reports whether the cell holds a disc of the given side.
func sameSide(b *Board, column, row int, side Side) bool {
	d := b.cells[column][row]
	return d != nil && d.side == side
}

// HorizontalWinCheck scans along the disc's row.
//
// The forward and backward passes are counted separately, each starting at
// the disc itself. A run that extends to both sides of the disc is only seen
// from one of its ends.
type HorizontalWinCheck struct{}

func (HorizontalWinCheck) CheckWin(b *Board, d *Disc) bool {
	pos, ok := d.Position()
	if !ok {
		return false
	}

	count := 0
	for c := pos.Column; c <= min(pos.Column+RequiredRun, b.width-1); c++ {
		if !sameSide(b, c, pos.Row, d.side) {
			break
		}
		count++
	}
	if count >= RequiredRun {
		return true
	}

	count = 0
	for c := pos.Column; c >= max(pos.Column-RequiredRun, 0); c-- {
		if !sameSide(b, c, pos.Row, d.side) {
			break
		}
		count++
	}
	return count >= RequiredRun
}

// VerticalWinCheck scans along the disc's column, with the same one-sided
// passes as HorizontalWinCheck.
type VerticalWinCheck struct{}

func (VerticalWinCheck) CheckWin(b *Board, d *Disc) bool {
	pos, ok := d.Position()
	if !ok {
		return false
	}

	count := 0
	for r := pos.Row; r <= min(pos.Row+RequiredRun, b.height-1); r++ {
		if !sameSide(b, pos.Column, r, d.side) {
			break
		}
		count++
	}
	if count >= RequiredRun {
		return true
	}

	count = 0
	for r := pos.Row; r >= max(pos.Row-RequiredRun, 0); r-- {
		if !sameSide(b, pos.Column, r, d.side) {
			break
		}
		count++
	}
	return count >= RequiredRun
}

// DiagonalWinCheck scans the four diagonal directions out of the disc. Each
// direction is a single pass of at most RequiredRun cells.
type DiagonalWinCheck struct{}

var diagonals = [4][2]int{
	{1, 1},   // up and right
	{1, -1},  // down and right
	{-1, 1},  // up and left
	{-1, -1}, // down and left
}

func (DiagonalWinCheck) CheckWin(b *Board, d *Disc) bool {
	pos, ok := d.Position()
	if !ok {
		return false
	}

	for _, dir := range diagonals {
		count := 0
		for i := 0; i < RequiredRun; i++ {
			c, r := pos.Column+dir[0]*i, pos.Row+dir[1]*i
			if !b.inBounds(c, r) || !sameSide(b, c, r, d.side) {
				break
			}
			count++
		}
		if count >= RequiredRun {
			return true
		}
	}
	return false
}
