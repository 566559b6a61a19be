package domain

import "fmt"

// StateListener is called with the new state after every successful move
// and after every reset.
type StateListener func(state GameState)

// Game runs a single match. It is not safe for concurrent use; callers that
// share a Game between goroutines must serialize access themselves.
type Game struct {
	board     *Board
	state     GameState
	height    int
	width     int
	moveCount int
	lastMove  *Position
	checkers  []WinChecker
	listeners []StateListener
}

// NewGame creates a match on a height x width board. Both dimensions must
// be at least RequiredRun, otherwise nobody could ever win.
func NewGame(height, width int) (*Game, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: the height and width of the board must be greater than 0 (got %dx%d)",
			ErrInvalidDimensions, height, width)
	}
	if height < RequiredRun || width < RequiredRun {
		return nil, fmt.Errorf("%w: a %dx%d board is too small, players will not be able to win",
			ErrInvalidDimensions, height, width)
	}

	g := &Game{
		state:    StateFirstTurn,
		height:   height,
		width:    width,
		checkers: defaultWinCheckers,
	}
	g.board = newBoard(height, width, g)
	return g, nil
}

func (g *Game) Board() *Board {
	return g.board
}

func (g *Game) State() GameState {
	return g.state
}

func (g *Game) Height() int {
	return g.height
}

func (g *Game) Width() int {
	return g.width
}

// MoveCount is the number of discs played since the last reset.
func (g *Game) MoveCount() int {
	return g.moveCount
}

// LastMove returns where the most recent disc landed. ok is false on a
// fresh or freshly reset board.
func (g *Game) LastMove() (pos Position, ok bool) {
	if g.lastMove == nil {
		return Position{}, false
	}
	return *g.lastMove, true
}

// DescribeState returns the human readable label of the current state.
func (g *Game) DescribeState() string {
	return g.state.Label()
}

// OnStateChanged registers a listener. Listeners run synchronously, in the
// order they were registered.
func (g *Game) OnStateChanged(fn StateListener) {
	g.listeners = append(g.listeners, fn)
}

// SubmitMove drops disc into column. On error neither the board nor the
// game state has changed.
func (g *Game) SubmitMove(disc *Disc, column int) (Position, error) {
	if g.state.IsTerminal() {
		return Position{}, fmt.Errorf("%w: %s", ErrGameOver, g.DescribeState())
	}

	toMove, _ := g.state.SideToMove()
	if disc != nil && disc.Side() != toMove {
		return Position{}, fmt.Errorf("%w: it is currently %s's turn, play a %s disc",
			ErrWrongTurn, toMove, toMove)
	}

	pos, err := g.board.placeDisc(disc, column)
	if err != nil {
		return Position{}, err
	}
	g.moveCount++
	g.lastMove = &pos

	if !g.checkForWinOrDraw() {
		g.state = turnOf(toMove.Opponent())
	}

	g.notify()
	return pos, nil
}

// Play submits a new disc for whichever side is to move.
func (g *Game) Play(column int) (Position, error) {
	side, ok := g.state.SideToMove()
	if !ok {
		return Position{}, fmt.Errorf("%w: %s", ErrGameOver, g.DescribeState())
	}
	return g.SubmitMove(NewDisc(side), column)
}

// Reset throws away the board and starts a new match with the same
// dimensions. Listeners stay registered.
func (g *Game) Reset() {
	g.board.release()
	g.board = newBoard(g.height, g.width, g)
	g.state = StateFirstTurn
	g.moveCount = 0
	g.lastMove = nil
	g.notify()
}

// checkForWinOrDraw rescans every disc on the board and updates the state
// when the match is over. It reports whether it did so.
func (g *Game) checkForWinOrDraw() bool {
	for c := 0; c < g.board.width; c++ {
		for r := 0; r < g.board.height; r++ {
			disc := g.board.cells[c][r]
			if disc == nil {
				continue
			}
			for _, checker := range g.checkers {
				if checker.CheckWin(g.board, disc) {
					g.state = winsFor(disc.side)
					return true
				}
			}
		}
	}

	if g.board.IsFull() {
		g.state = StateDraw
		return true
	}
	return false
}

func (g *Game) notify() {
	for _, fn := range g.listeners {
		fn(g.state)
	}
}
