package model

import (
	"fmt"
	"sync"
	"time"
)

// QueuedGame is a game waiting for the computer to reply.
type QueuedGame struct {
	GameID   string
	JoinedAt time.Time
}

// Queue is a FIFO of games whose computer move has not been searched yet.
type Queue struct {
	games []QueuedGame
	mu    sync.Mutex
}

func NewQueue() *Queue {
	return &Queue{
		games: []QueuedGame{},
	}
}

func (q *Queue) AddGame(gameID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, g := range q.games {
		if g.GameID == gameID {
			return fmt.Errorf("game %s already queued", gameID)
		}
	}

	q.games = append(q.games, QueuedGame{
		GameID:   gameID,
		JoinedAt: time.Now(),
	})
	return nil
}

// Next removes and returns the game that has waited longest.
func (q *Queue) Next() (QueuedGame, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.games) == 0 {
		return QueuedGame{}, false
	}
	next := q.games[0]
	q.games = q.games[1:]
	return next, true
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.games)
}
