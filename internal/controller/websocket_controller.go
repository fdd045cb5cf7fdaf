package controller

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/service"
	"github.com/benbeisheim/checkers-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	// Extract game ID and player ID from context
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)
	logger := log.With().Str("game_id", gameID).Str("player_id", playerID).Logger()

	// Register this connection with the game
	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		logger.Warn().Err(err).Msg("failed to register connection")
		c.Close()
		return
	}

	// Start message handling loop
	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			logger.Debug().Err(err).Msg("read error")
			break
		}

		if messageType != websocket.TextMessage {
			continue
		}
		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			logger.Debug().Err(err).Msg("parse error")
			continue
		}

		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			logger.Debug().Err(err).Str("type", string(msg.Type)).Msg("handle error")
			wsc.sendError(gameID, playerID, err)
		}
	}

	// Clean up when connection closes
	wsc.gameService.UnregisterConnection(gameID, playerID, c)
}

// Handle different types of incoming messages
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.SimpleMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		_, err := wsc.gameService.HandleMove(gameID, playerID, move)
		return err

	case ws.MessageTypeDifficulty:
		var req difficultyRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return err
		}
		return wsc.gameService.SetDifficulty(gameID, playerID, req.Difficulty)

	case ws.MessageTypeHint:
		moves, err := wsc.gameService.LegalMoves(gameID)
		if err != nil {
			return err
		}
		reply, err := ws.NewMessage(ws.MessageTypeHint, moves)
		if err != nil {
			return err
		}
		return wsc.gameService.Notify(gameID, playerID, reply)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// Helper method to send error messages
func (wsc *WebSocketController) sendError(gameID, playerID string, err error) {
	payload := ws.ErrorPayload{Error: err.Error()}
	var illegal *model.IllegalMoveError
	if errors.As(err, &illegal) {
		payload.Reason = illegal.Reason.String()
	}
	msg, mErr := ws.NewMessage(ws.MessageTypeError, payload)
	if mErr != nil {
		return
	}
	if nErr := wsc.gameService.Notify(gameID, playerID, msg); nErr != nil {
		log.Debug().Err(nErr).Str("game_id", gameID).Msg("failed to send error")
	}
}
