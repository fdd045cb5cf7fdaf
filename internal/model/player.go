package model

import "fmt"

type ClientPlayer struct {
	ID       string `json:"name"`
	Side     Side   `json:"side"`
	TimeUsed int    `json:"timeUsed"`
}

// Side is one of the two players. The sides only differ in which way they
// advance up the board and which rows they start and crown on.
type Side string

const (
	// SideHuman starts on rows 5-7 and moves toward row 0.
	SideHuman Side = "human"
	// SideComputer starts on rows 0-2 and moves toward row 7.
	SideComputer Side = "computer"
)

func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideHuman, SideComputer:
		return Side(s), nil
	}
	return "", fmt.Errorf("unknown side %q", s)
}

// MoveDirection is the row delta of a forward step.
func (s Side) MoveDirection() int {
	if s == SideComputer {
		return 1
	}
	return -1
}

// JumpDirection is the row delta of a forward jump.
func (s Side) JumpDirection() int {
	return 2 * s.MoveDirection()
}

func (s Side) Opponent() Side {
	if s == SideComputer {
		return SideHuman
	}
	return SideComputer
}

// CrownRow is the far row where a piece of this side is promoted.
func (s Side) CrownRow() int {
	if s == SideComputer {
		return Size - 1
	}
	return 0
}

// BaseRow is the back rank this side defends.
func (s Side) BaseRow() int {
	return s.Opponent().CrownRow()
}

// NearCrownRow reports whether row is one of the three rows closest to the
// opponent's base.
func (s Side) NearCrownRow(row int) bool {
	if s == SideComputer {
		return row >= Size-3
	}
	return row <= 2
}

func (s Side) String() string {
	return string(s)
}
