package service

import (
	"fmt"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager       *GameManager
	defaultDifficulty model.Difficulty
}

func NewGameService(gameManager *GameManager, defaultDifficulty model.Difficulty) *GameService {
	return &GameService{
		gameManager:       gameManager,
		defaultDifficulty: defaultDifficulty,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Side, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

// CreateGame starts a new game with playerID in the human seat. An empty
// difficulty falls back to the configured default.
func (gs *GameService) CreateGame(playerID string, difficulty model.Difficulty) (string, error) {
	gameID := uuid.New().String()
	if difficulty == "" {
		difficulty = gs.defaultDifficulty
	}

	if err := gs.gameManager.CreateGame(gameID, difficulty); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	if _, err := gs.gameManager.AddPlayerToGame(gameID, playerID); err != nil {
		return "", fmt.Errorf("failed to seat player: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.SimpleMove) (model.Move, error) {
	return gs.gameManager.MakeMove(gameID, playerID, move)
}

func (gs *GameService) SetDifficulty(gameID string, playerID string, difficulty model.Difficulty) error {
	return gs.gameManager.SetDifficulty(gameID, playerID, difficulty)
}

func (gs *GameService) LegalMoves(gameID string) (model.MoveSet, error) {
	return gs.gameManager.LegalMoves(gameID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

func (gs *GameService) Notify(gameID string, playerID string, msg ws.Message) error {
	return gs.gameManager.Notify(gameID, playerID, msg)
}
