package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Size is the number of rows and columns on the board.
const Size = 8

type Piece struct {
	Side    Side `json:"side"`
	Crowned bool `json:"crowned"`
}

// Crown promotes the piece. Crowning is permanent.
func (p *Piece) Crown() {
	p.Crowned = true
}

func (p Piece) String() string {
	prefix := "C"
	if p.Side == SideHuman {
		prefix = "H"
	}
	if p.Crowned {
		return "C" + prefix + "P"
	}
	return prefix + "P"
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// Playable reports whether pieces may stand on p.
func (p Position) Playable() bool {
	return (p.Row+p.Col)%2 == 0
}

func (p Position) String() string {
	return fmt.Sprintf("%c%d", p.Col+'a', Size-p.Row)
}

// Board is the 8x8 grid. A nil square is empty.
type Board struct {
	squares [Size][Size]*Piece
}

func NewEmptyBoard() *Board {
	return &Board{}
}

// NewBoard returns the starting layout: the computer on rows 0-2, the human
// on rows 5-7, playable squares only.
func NewBoard() *Board {
	b := NewEmptyBoard()
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			pos := Position{Row: row, Col: col}
			if !pos.Playable() || (row >= 3 && row <= 4) {
				continue
			}
			side := SideHuman
			if row < 3 {
				side = SideComputer
			}
			b.squares[row][col] = &Piece{Side: side}
		}
	}
	return b
}

// Get returns a copy of the piece at pos, or nil if the square is empty.
func (b *Board) Get(pos Position) (*Piece, error) {
	if !pos.InBounds() {
		return nil, fmt.Errorf("get %v: %w", pos, ErrOutOfBounds)
	}
	p := b.at(pos)
	if p == nil {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// at is the unchecked accessor used by the rules code.
func (b *Board) at(pos Position) *Piece {
	return b.squares[pos.Row][pos.Col]
}

// Place puts piece on pos, replacing any occupant.
func (b *Board) Place(pos Position, piece Piece) error {
	if !pos.InBounds() {
		return fmt.Errorf("place %v: %w", pos, ErrOutOfBounds)
	}
	if !pos.Playable() {
		return fmt.Errorf("place %v: %w", pos, ErrNotPlayable)
	}
	b.squares[pos.Row][pos.Col] = &piece
	return nil
}

// Clone returns a deep copy sharing no pieces with b.
func (b *Board) Clone() *Board {
	c := &Board{}
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if p := b.squares[row][col]; p != nil {
				cp := *p
				c.squares[row][col] = &cp
			}
		}
	}
	return c
}

// Count returns the number of pieces side has on the board.
func (b *Board) Count(side Side) int {
	n := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if p := b.squares[row][col]; p != nil && p.Side == side {
				n++
			}
		}
	}
	return n
}

// Apply performs a move that the caller has already validated. It returns
// the effective move: capturing a crowned piece (regicide) marks the move as
// crowning even off the last row. Apply checks only the preconditions it
// needs to mutate safely and leaves the board untouched if one fails.
func (b *Board) Apply(m Move, side Side) (Move, error) {
	if !m.From.InBounds() || !m.To.InBounds() {
		return m, fmt.Errorf("apply %v: %w", m, ErrOutOfBounds)
	}
	mover := b.at(m.From)
	if mover == nil || mover.Side != side {
		return m, fmt.Errorf("apply %v: no %s piece at %v: %w", m, side, m.From, ErrIllegalMove)
	}
	if b.at(m.To) != nil {
		return m, fmt.Errorf("apply %v: destination occupied: %w", m, ErrIllegalMove)
	}

	m.Jump = isJump(m.From, m.To)
	m.Crowning = m.To.Row == side.CrownRow()
	if m.Jump {
		via := m.Via()
		captured := b.at(via)
		if captured == nil || captured.Side == side {
			return m, fmt.Errorf("apply %v: nothing to capture at %v: %w", m, via, ErrIllegalMove)
		}
		if captured.Crowned {
			m.Crowning = true
		}
		b.squares[via.Row][via.Col] = nil
	}

	b.squares[m.To.Row][m.To.Col] = mover
	b.squares[m.From.Row][m.From.Col] = nil
	if m.Crowning {
		mover.Crown()
	}
	return m, nil
}

// MarshalJSON encodes the board as rows of pieces, null for empty squares.
func (b *Board) MarshalJSON() ([]byte, error) {
	rows := make([][]*Piece, Size)
	for row := 0; row < Size; row++ {
		rows[row] = b.squares[row][:]
	}
	return json.Marshal(rows)
}

func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			if p := b.squares[row][col]; p != nil {
				sb.WriteString(p.String())
			} else {
				sb.WriteString("--")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
