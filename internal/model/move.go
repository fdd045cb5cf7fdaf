package model

import "fmt"

// Move is a single-piece transition. Jump and Crowning are derived from the
// coordinates and the mover's side; they take no part in equality.
type Move struct {
	From     Position `json:"from"`
	To       Position `json:"to"`
	Jump     bool     `json:"jump"`
	Crowning bool     `json:"crowning"`
}

// SimpleMove is a move as submitted by a client, without derived flags.
type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// NewMove builds a move for side, deriving the jump and crowning flags.
func NewMove(from, to Position, side Side) Move {
	return Move{
		From:     from,
		To:       to,
		Jump:     isJump(from, to),
		Crowning: to.Row == side.CrownRow(),
	}
}

func isJump(from, to Position) bool {
	return abs(from.Row-to.Row) == 2 && abs(from.Col-to.Col) == 2
}

// Via is the midpoint square, holding the captured piece when m is a jump.
func (m Move) Via() Position {
	return Position{Row: (m.From.Row + m.To.Row) / 2, Col: (m.From.Col + m.To.Col) / 2}
}

func (m Move) RowDiff() int {
	return m.From.Row - m.To.Row
}

func (m Move) ColDiff() int {
	return m.From.Col - m.To.Col
}

// Equal compares coordinates only.
func (m Move) Equal(other Move) bool {
	return m.From == other.From && m.To == other.To
}

func (m Move) Simple() SimpleMove {
	return SimpleMove{From: m.From, To: m.To}
}

func (m Move) String() string {
	sep := "-"
	if m.Jump {
		sep = "x"
	}
	s := fmt.Sprintf("%s%s%s", m.From, sep, m.To)
	if m.Crowning {
		s += "K"
	}
	return s
}

// MoveSet is the complete list of legal moves for one side. By construction
// it holds either only jumps or only steps.
type MoveSet []Move

func (ms MoveSet) Contains(m Move) bool {
	for _, legal := range ms {
		if legal.Equal(m) {
			return true
		}
	}
	return false
}

// Find returns the generated move matching m's coordinates, with its flags.
func (ms MoveSet) Find(m Move) (Move, bool) {
	for _, legal := range ms {
		if legal.Equal(m) {
			return legal, true
		}
	}
	return Move{}, false
}

// Captures reports whether the set consists of jumps.
func (ms MoveSet) Captures() bool {
	return len(ms) > 0 && ms[0].Jump
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
