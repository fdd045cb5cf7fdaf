package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpeningMovesInGenerationOrder(t *testing.T) {
	b := NewBoard()

	human := GenerateMoves(b, SideHuman)
	require.Equal(t, MoveSet{
		NewMove(pos(5, 1), pos(4, 0), SideHuman),
		NewMove(pos(5, 1), pos(4, 2), SideHuman),
		NewMove(pos(5, 3), pos(4, 2), SideHuman),
		NewMove(pos(5, 3), pos(4, 4), SideHuman),
		NewMove(pos(5, 5), pos(4, 4), SideHuman),
		NewMove(pos(5, 5), pos(4, 6), SideHuman),
		NewMove(pos(5, 7), pos(4, 6), SideHuman),
	}, human)

	computer := GenerateMoves(b, SideComputer)
	require.Equal(t, MoveSet{
		NewMove(pos(2, 0), pos(3, 1), SideComputer),
		NewMove(pos(2, 2), pos(3, 3), SideComputer),
		NewMove(pos(2, 2), pos(3, 1), SideComputer),
		NewMove(pos(2, 4), pos(3, 5), SideComputer),
		NewMove(pos(2, 4), pos(3, 3), SideComputer),
		NewMove(pos(2, 6), pos(3, 7), SideComputer),
		NewMove(pos(2, 6), pos(3, 5), SideComputer),
	}, computer)
}

func TestCaptureIsMandatory(t *testing.T) {
	b := NewEmptyBoard()
	place(t, b, 2, 2, SideComputer, false)
	place(t, b, 0, 6, SideComputer, false)
	place(t, b, 3, 3, SideHuman, false)
	place(t, b, 5, 1, SideHuman, false)

	computer := GenerateMoves(b, SideComputer)
	require.Equal(t, MoveSet{NewMove(pos(2, 2), pos(4, 4), SideComputer)}, computer)
	require.True(t, computer[0].Jump)
	require.Equal(t, pos(3, 3), computer[0].Via())

	human := GenerateMoves(b, SideHuman)
	require.Equal(t, MoveSet{NewMove(pos(3, 3), pos(1, 1), SideHuman)}, human)
	require.False(t, human.Contains(NewMove(pos(5, 1), pos(4, 0), SideHuman)))
}

func TestKingMovesBothWays(t *testing.T) {
	b := NewEmptyBoard()
	place(t, b, 4, 4, SideHuman, true)

	require.Equal(t, MoveSet{
		NewMove(pos(4, 4), pos(3, 3), SideHuman),
		NewMove(pos(4, 4), pos(3, 5), SideHuman),
		NewMove(pos(4, 4), pos(5, 3), SideHuman),
		NewMove(pos(4, 4), pos(5, 5), SideHuman),
	}, GenerateMoves(b, SideHuman))

	b.squares[4][4].Crowned = false
	require.Len(t, GenerateMoves(b, SideHuman), 2)
}

func TestKingJumpsBackward(t *testing.T) {
	b := NewEmptyBoard()
	place(t, b, 2, 2, SideHuman, true)
	place(t, b, 3, 3, SideComputer, false)

	require.Equal(t, MoveSet{NewMove(pos(2, 2), pos(4, 4), SideHuman)}, GenerateMoves(b, SideHuman))
}

func TestMoveEqualityIgnoresFlags(t *testing.T) {
	a := Move{From: pos(5, 1), To: pos(4, 2)}
	b := Move{From: pos(5, 1), To: pos(4, 2), Jump: true, Crowning: true}
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(Move{From: pos(5, 1), To: pos(4, 0)}))
	require.True(t, GenerateMoves(NewBoard(), SideHuman).Contains(b))
}

// anyJump checks every piece of side for a capture independently of
// GenerateMoves.
func anyJump(b *Board, side Side) bool {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			p := b.squares[row][col]
			if p == nil || p.Side != side {
				continue
			}
			for _, dr := range []int{-2, 2} {
				if !p.Crowned && dr != side.JumpDirection() {
					continue
				}
				for _, dc := range []int{-2, 2} {
					if canJump(b, pos(row, col), pos(row+dr, col+dc), side) {
						return true
					}
				}
			}
		}
	}
	return false
}

// playout makes random legal moves from the opening, calling visit before
// each one.
func playout(t *testing.T, rng *rand.Rand, plies int, visit func(b *Board, side Side, moves MoveSet)) {
	t.Helper()
	b := NewBoard()
	side := SideHuman
	for i := 0; i < plies; i++ {
		moves := GenerateMoves(b, side)
		visit(b, side, moves)
		if len(moves) == 0 {
			return
		}
		m := moves[rng.Intn(len(moves))]

		before := *b.at(m.From)
		_, err := b.Apply(m, side)
		require.NoError(t, err)
		after := b.at(m.To)
		require.True(t, !before.Crowned || after.Crowned, "crown lost on %v", m)

		side = side.Opponent()
	}
}

func TestMoveSetsNeverMix(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for game := 0; game < 30; game++ {
		playout(t, rng, 120, func(b *Board, side Side, moves MoveSet) {
			if len(moves) == 0 {
				require.True(t, IsGameOver(b, side))
				return
			}
			require.Equal(t, anyJump(b, side), moves.Captures())
			for _, m := range moves {
				require.Equal(t, moves.Captures(), m.Jump, "mixed move set %v", moves)
				require.True(t, m.To.Playable())
			}
		})
	}
}

func TestExplainIllegal(t *testing.T) {
	b := NewEmptyBoard()
	place(t, b, 5, 1, SideHuman, false)
	place(t, b, 6, 2, SideHuman, false)
	place(t, b, 4, 4, SideHuman, false)
	place(t, b, 5, 5, SideHuman, false)
	place(t, b, 2, 2, SideComputer, false)

	tests := []struct {
		name string
		move Move
		want Reason
	}{
		{"unplayable square", NewMove(pos(5, 1), pos(4, 1), SideHuman), ReasonNotPlayable},
		{"occupied", NewMove(pos(5, 1), pos(6, 2), SideHuman), ReasonOccupied},
		{"too far", NewMove(pos(5, 1), pos(2, 4), SideHuman), ReasonTooFar},
		{"not diagonal", NewMove(pos(5, 1), pos(5, 3), SideHuman), ReasonNotDiagonal},
		{"jump over empty square", NewMove(pos(5, 1), pos(3, 3), SideHuman), ReasonNothingToCapture},
		{"jump over own piece", NewMove(pos(5, 5), pos(3, 3), SideHuman), ReasonNothingToCapture},
		{"backward", NewMove(pos(4, 4), pos(5, 3), SideHuman), ReasonBackward},
		{"unclassified", NewMove(pos(5, 1), pos(4, 0), SideHuman), ReasonInvalid},
		{"destination off board", NewMove(pos(5, 7), pos(4, 8), SideHuman), ReasonInvalid},
		{"origin off board", NewMove(pos(-1, 1), pos(0, 0), SideHuman), ReasonInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExplainIllegal(b, tt.move))
		})
	}
}

func TestValidate(t *testing.T) {
	b := NewBoard()
	moves := GenerateMoves(b, SideHuman)

	require.NoError(t, Validate(b, NewMove(pos(5, 1), pos(4, 2), SideHuman), moves))

	err := Validate(b, NewMove(pos(5, 1), pos(5, 3), SideHuman), moves)
	require.ErrorIs(t, err, ErrIllegalMove)
	var illegal *IllegalMoveError
	require.ErrorAs(t, err, &illegal)
	require.Equal(t, ReasonOccupied, illegal.Reason)

	err = Validate(b, NewMove(pos(5, 1), pos(8, 4), SideHuman), moves)
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestValidateCaptureRequired(t *testing.T) {
	b := NewEmptyBoard()
	place(t, b, 3, 3, SideHuman, false)
	place(t, b, 5, 1, SideHuman, false)
	place(t, b, 2, 2, SideComputer, false)

	step := NewMove(pos(5, 1), pos(4, 2), SideHuman)
	var illegal *IllegalMoveError

	err := Validate(b, step, GenerateMoves(b, SideHuman))
	require.ErrorAs(t, err, &illegal)
	require.Equal(t, ReasonCaptureRequired, illegal.Reason)
	require.Equal(t, "You must take the available jump move!", illegal.Reason.String())

	place(t, b, 2, 4, SideComputer, false)
	err = Validate(b, step, GenerateMoves(b, SideHuman))
	require.ErrorAs(t, err, &illegal)
	require.Equal(t, ReasonCapturesRequired, illegal.Reason)
}

func TestIsGameOver(t *testing.T) {
	require.False(t, IsGameOver(NewBoard(), SideHuman))
	require.False(t, IsGameOver(NewBoard(), SideComputer))

	b := NewEmptyBoard()
	place(t, b, 0, 0, SideComputer, false)
	require.True(t, IsGameOver(b, SideHuman), "no pieces")

	blocked := NewEmptyBoard()
	place(t, blocked, 7, 1, SideHuman, false)
	place(t, blocked, 6, 0, SideComputer, false)
	place(t, blocked, 6, 2, SideComputer, false)
	place(t, blocked, 5, 3, SideComputer, false)
	require.Equal(t, 1, blocked.Count(SideHuman))
	require.Empty(t, GenerateMoves(blocked, SideHuman))
	require.True(t, IsGameOver(blocked, SideHuman))
	require.False(t, IsGameOver(blocked, SideComputer))
}
