package model

import "fmt"

// GenerateMoves returns every legal move for side. Capturing is mandatory:
// if any piece of side can jump, only jumps are returned.
//
// Moves are produced in row-major order. Within a square the order is the
// two forward steps, the two forward jumps, then for a crowned piece the two
// backward steps and the two backward jumps.
func GenerateMoves(b *Board, side Side) MoveSet {
	steps := MoveSet{}
	jumps := MoveSet{}

	md := side.MoveDirection()
	jd := side.JumpDirection()

	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			p := b.squares[row][col]
			if p == nil || p.Side != side {
				continue
			}
			from := Position{Row: row, Col: col}

			if to := (Position{Row: row + md, Col: col + md}); canStep(b, from, to, side) {
				steps = append(steps, NewMove(from, to, side))
			}
			if to := (Position{Row: row + md, Col: col - md}); canStep(b, from, to, side) {
				steps = append(steps, NewMove(from, to, side))
			}
			if to := (Position{Row: row + jd, Col: col + jd}); canJump(b, from, to, side) {
				jumps = append(jumps, NewMove(from, to, side))
			}
			if to := (Position{Row: row + jd, Col: col - jd}); canJump(b, from, to, side) {
				jumps = append(jumps, NewMove(from, to, side))
			}

			if !p.Crowned {
				continue
			}
			if to := (Position{Row: row - md, Col: col + md}); canStep(b, from, to, side) {
				steps = append(steps, NewMove(from, to, side))
			}
			if to := (Position{Row: row - md, Col: col - md}); canStep(b, from, to, side) {
				steps = append(steps, NewMove(from, to, side))
			}
			if to := (Position{Row: row - jd, Col: col - jd}); canJump(b, from, to, side) {
				jumps = append(jumps, NewMove(from, to, side))
			}
			if to := (Position{Row: row - jd, Col: col + jd}); canJump(b, from, to, side) {
				jumps = append(jumps, NewMove(from, to, side))
			}
		}
	}

	if len(jumps) > 0 {
		return jumps
	}
	return steps
}

func canStep(b *Board, from, to Position, side Side) bool {
	if !to.InBounds() {
		return false
	}
	mover := b.at(from)
	return mover != nil && mover.Side == side && b.at(to) == nil
}

func canJump(b *Board, from, to Position, side Side) bool {
	if !to.InBounds() {
		return false
	}
	via := Move{From: from, To: to}.Via()
	captured := b.at(via)
	if captured == nil || captured.Side == side {
		return false
	}
	mover := b.at(from)
	return mover != nil && mover.Side == side && b.at(to) == nil
}

// IsGameOver reports whether side has lost: it has no pieces or no legal
// move. The opponent is the winner.
func IsGameOver(b *Board, side Side) bool {
	if b.Count(side) == 0 {
		return true
	}
	return len(GenerateMoves(b, side)) == 0
}

// Reason explains why a proposed move is illegal.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNotPlayable
	ReasonOccupied
	ReasonTooFar
	ReasonNotDiagonal
	ReasonNothingToCapture
	ReasonBackward
	ReasonInvalid
	ReasonCaptureRequired
	ReasonCapturesRequired
)

var reasonMessages = map[Reason]string{
	ReasonNone:             "",
	ReasonNotPlayable:      "Please place piece on playable tile!",
	ReasonOccupied:         "Please place piece on tile without a piece!",
	ReasonTooFar:           "You cannot move that far!",
	ReasonNotDiagonal:      "You can only move diagonally!",
	ReasonNothingToCapture: "Jump moves must have an opposing piece to take in between!",
	ReasonBackward:         "Only Kings can move backwards!",
	ReasonInvalid:          "Invalid move!",
	ReasonCaptureRequired:  "You must take the available jump move!",
	ReasonCapturesRequired: "You must take one of the available jump moves!",
}

func (r Reason) String() string {
	if msg, ok := reasonMessages[r]; ok {
		return msg
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// ExplainIllegal classifies why m is not legal on b. The first matching check
// wins. It is advisory only; GenerateMoves is the legality authority.
// A move with either end off the board is ReasonInvalid.
func ExplainIllegal(b *Board, m Move) Reason {
	if !m.From.InBounds() || !m.To.InBounds() {
		return ReasonInvalid
	}
	if !m.To.Playable() {
		return ReasonNotPlayable
	}
	if b.at(m.To) != nil {
		return ReasonOccupied
	}
	if abs(m.RowDiff()) > 2 || abs(m.ColDiff()) > 2 {
		return ReasonTooFar
	}
	if m.From.Row == m.To.Row || m.From.Col == m.To.Col {
		return ReasonNotDiagonal
	}

	mover := b.at(m.From)
	if abs(m.RowDiff()) == 2 || abs(m.ColDiff()) == 2 {
		captured := b.at(m.Via())
		if captured == nil || (mover != nil && captured.Side == mover.Side) {
			return ReasonNothingToCapture
		}
	}
	if mover != nil && !mover.Crowned && (m.To.Row-m.From.Row)*mover.Side.MoveDirection() < 0 {
		return ReasonBackward
	}
	return ReasonInvalid
}

// Validate checks m against the legal move set for the mover. It returns nil
// for a legal move and an *IllegalMoveError otherwise. When captures are
// available and m is not one of them the reason says so.
func Validate(b *Board, m Move, moves MoveSet) error {
	if !m.From.InBounds() || !m.To.InBounds() {
		return fmt.Errorf("validate %v: %w", m, ErrOutOfBounds)
	}
	if moves.Contains(m) {
		return nil
	}
	if moves.Captures() {
		reason := ReasonCaptureRequired
		if len(moves) > 1 {
			reason = ReasonCapturesRequired
		}
		return &IllegalMoveError{Move: m, Reason: reason}
	}
	return &IllegalMoveError{Move: m, Reason: ExplainIllegal(b, m)}
}
