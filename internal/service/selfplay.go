package service

import (
	"context"
	"fmt"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/rs/zerolog/log"
)

type SelfPlayOptions struct {
	HumanDepth    int
	ComputerDepth int
	// MaxPlies stops games where neither side can force a result.
	MaxPlies int
	// Start defaults to the opening position.
	Start *model.Board
	// First is the side to move first, the human side if empty.
	First model.Side
}

type SelfPlayResult struct {
	Plies    int
	Winner   *model.Side // nil when MaxPlies was reached
	LastMove *model.Move
	Board    *model.Board
}

// SelfPlay lets the engine play both sides.
func SelfPlay(ctx context.Context, opts SelfPlayOptions) (SelfPlayResult, error) {
	board := opts.Start
	if board == nil {
		board = model.NewBoard()
	} else {
		board = board.Clone()
	}
	depths := map[model.Side]int{
		model.SideHuman:    opts.HumanDepth,
		model.SideComputer: opts.ComputerDepth,
	}

	result := SelfPlayResult{Board: board}
	side := opts.First
	if side == "" {
		side = model.SideHuman
	}
	for {
		if model.IsGameOver(board, side) {
			winner := side.Opponent()
			result.Winner = &winner
			break
		}
		if result.Plies >= opts.MaxPlies {
			break
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		m, err := model.ChooseMove(board, side, depths[side])
		if err != nil {
			return result, fmt.Errorf("ply %d: %w", result.Plies, err)
		}
		applied, err := board.Apply(m, side)
		if err != nil {
			return result, fmt.Errorf("ply %d: %w", result.Plies, err)
		}
		result.Plies++
		result.LastMove = &applied
		log.Debug().Int("ply", result.Plies).Str("side", side.String()).Str("move", applied.String()).Msg("selfplay")

		side = side.Opponent()
	}
	return result, nil
}
