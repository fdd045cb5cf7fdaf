// service/game_manager.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

type ManagerOptions struct {
	// SearchWorkers bounds how many computer searches run at once.
	SearchWorkers int
	// PollInterval is how often the search queue is drained.
	PollInterval time.Duration
}

type GameManager struct {
	games map[string]*model.Game
	queue *model.Queue
	opts  ManagerOptions
	mu    sync.RWMutex
}

func NewGameManager(opts ManagerOptions) *GameManager {
	if opts.SearchWorkers < 1 {
		opts.SearchWorkers = 1
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 100 * time.Millisecond
	}
	return &GameManager{
		games: make(map[string]*model.Game),
		queue: model.NewQueue(),
		opts:  opts,
	}
}

// Run drains the search queue until ctx is cancelled. Each queued game gets
// its computer move on a worker goroutine; results reach clients through the
// game's websocket broadcast.
func (gm *GameManager) Run(ctx context.Context) error {
	workers := new(errgroup.Group)
	workers.SetLimit(gm.opts.SearchWorkers)

	ticker := time.NewTicker(gm.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return workers.Wait()
		case <-ticker.C:
			gm.processSearchQueue(ctx, workers)
		}
	}
}

func (gm *GameManager) processSearchQueue(ctx context.Context, workers *errgroup.Group) {
	for ctx.Err() == nil {
		next, ok := gm.queue.Next()
		if !ok {
			return
		}
		game, err := gm.GetGame(next.GameID)
		if err != nil {
			log.Warn().Str("game_id", next.GameID).Msg("queued game disappeared")
			continue
		}
		log.Debug().Str("game_id", game.ID).Dur("waited", time.Since(next.JoinedAt)).Msg("dispatching search")
		// blocks while every worker is busy
		workers.Go(func() error {
			if _, err := game.PlayComputerMove(); err != nil {
				log.Error().Err(err).Str("game_id", game.ID).Msg("computer move failed")
			}
			return nil
		})
	}
}

func (gm *GameManager) CreateGame(gameID string, difficulty model.Difficulty) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}

	gm.games[gameID] = model.NewGame(gameID, difficulty)
	log.Debug().Str("game_id", gameID).Str("difficulty", string(difficulty)).Msg("game created")
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Side, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}

	return game.AddPlayer(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}

	return game.GetState(), nil
}

// MakeMove plays the human's move and queues the computer's reply.
func (gm *GameManager) MakeMove(gameID string, playerID string, move model.SimpleMove) (model.Move, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.Move{}, err
	}

	applied, err := game.MakeMove(playerID, move)
	if err != nil {
		return model.Move{}, err
	}
	if game.AwaitingComputer() {
		if err := gm.queue.AddGame(gameID); err != nil {
			return applied, fmt.Errorf("queue computer move: %w", err)
		}
	}
	return applied, nil
}

func (gm *GameManager) SetDifficulty(gameID string, playerID string, difficulty model.Difficulty) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	if !game.IsPlayerInGame(playerID) {
		return model.ErrNotInGame
	}
	if _, err := model.ParseDifficulty(string(difficulty)); err != nil {
		return err
	}
	game.SetDifficulty(difficulty)
	return nil
}

func (gm *GameManager) LegalMoves(gameID string) (model.MoveSet, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(), nil
}

// QueueSize is the number of games waiting for a computer move.
func (gm *GameManager) QueueSize() int {
	return gm.queue.Size()
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}

	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}

	game.UnregisterConnection(playerID, conn)
}

func (gm *GameManager) Notify(gameID string, playerID string, msg ws.Message) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Notify(playerID, msg)
}
