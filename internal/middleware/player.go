package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const (
	playerIDLocal  = "playerID"
	playerIDHeader = "X-Player-ID"
	playerIDQuery  = "playerId"
	maxPlayerIDLen = 128
)

// EnsurePlayerID identifies the client from the X-Player-ID header, falling
// back to the playerId query parameter since browsers cannot set headers on
// websocket upgrades.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if PlayerID(c) != "" {
			return c.Next()
		}

		playerID := strings.TrimSpace(c.Get(playerIDHeader))
		if playerID == "" {
			playerID = strings.TrimSpace(c.Query(playerIDQuery))
		}

		if playerID == "" || len(playerID) > maxPlayerIDLen {
			log.Debug().Str("path", c.Path()).Msg("request without usable player id")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		c.Locals(playerIDLocal, playerID)
		return c.Next()
	}
}

// PlayerID returns the id stored by EnsurePlayerID, or "" when there is none.
func PlayerID(c *fiber.Ctx) string {
	id, _ := c.Locals(playerIDLocal).(string)
	return id
}
