package service

import (
	"context"
	"testing"
	"time"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetGame(t *testing.T) {
	gm := NewGameManager(ManagerOptions{})
	require.NoError(t, gm.CreateGame("g1", model.DifficultyEasy))
	require.ErrorIs(t, gm.CreateGame("g1", model.DifficultyEasy), ErrGameExists)

	_, err := gm.GetGame("missing")
	require.ErrorIs(t, err, ErrGameNotFound)
	_, err = gm.GetGameState("missing")
	require.ErrorIs(t, err, ErrGameNotFound)
	_, err = gm.MakeMove("missing", "alice", model.SimpleMove{})
	require.ErrorIs(t, err, ErrGameNotFound)

	side, err := gm.AddPlayerToGame("g1", "alice")
	require.NoError(t, err)
	require.Equal(t, model.SideHuman, side)
}

func TestMakeMoveQueuesComputer(t *testing.T) {
	gm := NewGameManager(ManagerOptions{})
	require.NoError(t, gm.CreateGame("g1", model.DifficultyEasy))
	_, err := gm.AddPlayerToGame("g1", "alice")
	require.NoError(t, err)

	_, err = gm.MakeMove("g1", "alice", model.SimpleMove{
		From: model.Position{Row: 5, Col: 1},
		To:   model.Position{Row: 3, Col: 3},
	})
	require.ErrorIs(t, err, model.ErrIllegalMove)
	require.Zero(t, gm.QueueSize())

	_, err = gm.MakeMove("g1", "alice", model.SimpleMove{
		From: model.Position{Row: 5, Col: 1},
		To:   model.Position{Row: 4, Col: 2},
	})
	require.NoError(t, err)
	require.Equal(t, 1, gm.QueueSize())

	moves, err := gm.LegalMoves("g1")
	require.NoError(t, err)
	require.Empty(t, moves)
}

func TestRunPlaysQueuedGames(t *testing.T) {
	gm := NewGameManager(ManagerOptions{SearchWorkers: 2, PollInterval: 5 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gm.Run(ctx) }()

	ids := []string{"g1", "g2", "g3"}
	for _, id := range ids {
		require.NoError(t, gm.CreateGame(id, model.DifficultyEasy))
		_, err := gm.AddPlayerToGame(id, "alice")
		require.NoError(t, err)
		_, err = gm.MakeMove(id, "alice", model.SimpleMove{
			From: model.Position{Row: 5, Col: 3},
			To:   model.Position{Row: 4, Col: 4},
		})
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		for _, id := range ids {
			state, err := gm.GetGameState(id)
			if err != nil || state.ToMove != model.SideHuman {
				return false
			}
		}
		return true
	}, 5*time.Second, 10*time.Millisecond)
	require.Zero(t, gm.QueueSize())

	for _, id := range ids {
		state, err := gm.GetGameState(id)
		require.NoError(t, err)
		require.NotNil(t, state.LastMove)
		require.Equal(t, 12, state.Board.Count(model.SideComputer))
		require.NotEmpty(t, state.LegalMoves)
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestSetDifficulty(t *testing.T) {
	gm := NewGameManager(ManagerOptions{})
	require.NoError(t, gm.CreateGame("g1", model.DifficultyEasy))
	_, err := gm.AddPlayerToGame("g1", "alice")
	require.NoError(t, err)

	require.ErrorIs(t, gm.SetDifficulty("g1", "bob", model.DifficultyHard), model.ErrNotInGame)
	require.Error(t, gm.SetDifficulty("g1", "alice", "impossible"))
	require.NoError(t, gm.SetDifficulty("g1", "alice", model.DifficultyHard))

	state, err := gm.GetGameState("g1")
	require.NoError(t, err)
	require.Equal(t, model.DifficultyHard, state.Difficulty)
}

func TestGameServiceCreateGame(t *testing.T) {
	gs := NewGameService(NewGameManager(ManagerOptions{}), model.DifficultyMedium)

	id, err := gs.CreateGame("alice", "")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	state, err := gs.GetGameState(id)
	require.NoError(t, err)
	require.Equal(t, model.DifficultyMedium, state.Difficulty)
	require.Equal(t, "alice", state.Players.Human.ID)

	_, err = gs.JoinGame(id, "bob")
	require.ErrorIs(t, err, model.ErrGameFull)

	other, err := gs.CreateGame("bob", model.DifficultyHard)
	require.NoError(t, err)
	require.NotEqual(t, id, other)
}
