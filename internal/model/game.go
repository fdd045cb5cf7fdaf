package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/benbeisheim/checkers-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex
	writeMu     sync.Mutex // websocket connections allow one writer at a time
}

// Game is one session of a human against the computer. The human always
// moves first.
type Game struct {
	ID          string
	mu          sync.Mutex
	state       GameState
	board       *Board
	connections *GameConnections
	clocks      map[Side]*Clock
}

type GameState struct {
	Board          *Board         `json:"board"`
	ToMove         Side           `json:"toMove"`
	Difficulty     Difficulty     `json:"difficulty"`
	LegalMoves     MoveSet        `json:"legalMoves"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	LastMove       *Move          `json:"lastMove"` // nil before the first move
	Winner         *Side          `json:"winner"`   // nil while the game is running
	Reason         *string        `json:"reason"`   // why the last submitted move was rejected
	Thinking       bool           `json:"thinking"`
	Players        struct {
		Human    ClientPlayer `json:"human"`
		Computer ClientPlayer `json:"computer"`
	} `json:"players"`
}

// CapturedPieces counts the pieces each side has taken.
type CapturedPieces struct {
	Human    int `json:"human"`
	Computer int `json:"computer"`
}

func NewGame(id string, difficulty Difficulty) *Game {
	g := &Game{
		ID:          id,
		board:       NewBoard(),
		connections: NewGameConnections(),
		clocks: map[Side]*Clock{
			SideHuman:    NewClock(),
			SideComputer: NewClock(),
		},
	}
	g.state = newGameState(difficulty)
	g.state.LegalMoves = GenerateMoves(g.board, SideHuman)
	g.clocks[SideHuman].Start()
	return g
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

func newGameState(difficulty Difficulty) GameState {
	state := GameState{
		ToMove:     SideHuman,
		Difficulty: difficulty,
		LegalMoves: MoveSet{},
	}
	state.Players.Human = ClientPlayer{Side: SideHuman}
	state.Players.Computer = ClientPlayer{ID: "computer", Side: SideComputer}
	return state
}

// AddPlayer seats playerID as the human. Re-adding the seated player is a
// no-op.
func (g *Game) AddPlayer(playerID string) (Side, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state.Players.Human.ID {
	case "":
		g.state.Players.Human.ID = playerID
		log.Debug().Str("game_id", g.ID).Str("player_id", playerID).Msg("player seated")
		return SideHuman, nil
	case playerID:
		return SideHuman, nil
	}
	return "", ErrGameFull
}

// GetState returns a snapshot that is safe to use without holding the lock.
func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) snapshot() GameState {
	state := g.state
	state.Board = g.board.Clone()
	state.LegalMoves = append(MoveSet{}, g.state.LegalMoves...)
	state.Players.Human.TimeUsed = int(g.clocks[SideHuman].GetTimeUsed().Milliseconds() / 100)
	state.Players.Computer.TimeUsed = int(g.clocks[SideComputer].GetTimeUsed().Milliseconds() / 100)
	return state
}

// Board returns a copy of the current board.
func (g *Game) Board() *Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Clone()
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	return g.state.Players.Human.ID != "" && g.state.Players.Human.ID == playerID
}

func (g *Game) SetDifficulty(d Difficulty) {
	g.mu.Lock()
	g.state.Difficulty = d
	g.mu.Unlock()

	go g.broadcastState()
}

// LegalMoves returns the human's legal moves, or none when it is not the
// human's turn.
func (g *Game) LegalMoves() MoveSet {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append(MoveSet{}, g.state.LegalMoves...)
}

// AwaitingComputer reports whether the computer is due to move.
func (g *Game) AwaitingComputer() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Winner == nil && g.state.ToMove == SideComputer && !g.state.Thinking
}

// MakeMove plays the human's move. An illegal move leaves the board as it
// was and is reported as an *IllegalMoveError.
func (g *Game) MakeMove(playerID string, move SimpleMove) (Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debug().Str("game_id", g.ID).Str("player_id", playerID).Interface("move", move).Msg("making move")

	if !g.isPlayerInGame(playerID) {
		return Move{}, ErrNotInGame
	}
	if g.state.Winner != nil {
		return Move{}, ErrGameOver
	}
	if g.state.ToMove != SideHuman {
		return Move{}, ErrNotYourTurn
	}

	m := NewMove(move.From, move.To, SideHuman)
	if err := Validate(g.board, m, g.state.LegalMoves); err != nil {
		var illegal *IllegalMoveError
		if errors.As(err, &illegal) {
			reason := illegal.Reason.String()
			g.state.Reason = &reason
			go g.broadcastState()
		}
		return Move{}, err
	}

	applied, err := g.board.Apply(m, SideHuman)
	if err != nil {
		return Move{}, err
	}
	g.finishTurn(SideHuman, applied)

	go g.broadcastState()

	return applied, nil
}

// PlayComputerMove searches for and plays the computer's reply. The search
// runs on a copy of the board without holding the game lock.
func (g *Game) PlayComputerMove() (Move, error) {
	g.mu.Lock()
	if g.state.Winner != nil {
		g.mu.Unlock()
		return Move{}, ErrGameOver
	}
	if g.state.ToMove != SideComputer {
		g.mu.Unlock()
		return Move{}, ErrNotYourTurn
	}
	if g.state.Thinking {
		g.mu.Unlock()
		return Move{}, ErrSearching
	}
	g.state.Thinking = true
	snapshot := g.board.Clone()
	depth := g.state.Difficulty.MaxDepth()
	g.mu.Unlock()

	go g.broadcastState()

	m, err := ChooseMove(snapshot, SideComputer, depth)

	g.mu.Lock()
	g.state.Thinking = false
	if err != nil {
		g.mu.Unlock()
		go g.broadcastState()
		return Move{}, fmt.Errorf("choose computer move: %w", err)
	}
	applied, err := g.board.Apply(m, SideComputer)
	if err != nil {
		g.mu.Unlock()
		return Move{}, fmt.Errorf("apply computer move: %w", err)
	}
	g.finishTurn(SideComputer, applied)
	g.mu.Unlock()

	log.Debug().Str("game_id", g.ID).Str("move", applied.String()).Int("depth", depth).Msg("computer moved")
	go g.broadcastState()

	return applied, nil
}

// finishTurn records side's applied move and hands the turn over. Callers
// hold g.mu.
func (g *Game) finishTurn(side Side, applied Move) {
	g.clocks[side].Stop()
	g.state.LastMove = &applied
	g.state.Reason = nil
	if applied.Jump {
		switch side {
		case SideHuman:
			g.state.CapturedPieces.Human++
		case SideComputer:
			g.state.CapturedPieces.Computer++
		}
	}

	next := side.Opponent()
	g.state.ToMove = next
	g.state.LegalMoves = MoveSet{}

	if IsGameOver(g.board, next) {
		winner := side
		g.state.Winner = &winner
		log.Debug().Str("game_id", g.ID).Str("winner", winner.String()).Msg("game over")
		return
	}
	if next == SideHuman {
		g.state.LegalMoves = GenerateMoves(g.board, SideHuman)
	}
	g.clocks[next].Start()
}

// RegisterConnection attaches conn as playerID's live connection. A second
// connection for the same player is closed and ErrAlreadyConnected returned;
// the first one stays registered.
func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	connID := fmt.Sprintf("%p", conn)

	g.mu.Lock()
	isAuthorized := g.isPlayerInGame(playerID)
	g.mu.Unlock()

	if !isAuthorized {
		return ErrNotInGame
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		log.Debug().Str("player_id", playerID).Str("conn", connID).Msg("rejecting duplicate connection")
		g.connections.writeMu.Lock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		g.connections.writeMu.Unlock()
		conn.Close()
		return ErrAlreadyConnected
	}

	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Debug().Str("player_id", playerID).Str("conn", connID).Msg("registered connection")

	// initial state
	go g.broadcastState()
	return nil
}

// UnregisterConnection forgets conn. It is a no-op if playerID has since
// been registered with a different connection.
func (g *Game) UnregisterConnection(playerID string, conn *websocket.Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		log.Debug().Str("player_id", playerID).Msg("unregistering connection")
		delete(g.connections.connections, playerID)
	}
}

// Notify sends msg to playerID's connection, if it has one.
func (g *Game) Notify(playerID string, msg ws.Message) error {
	g.connections.mu.RLock()
	conn, ok := g.connections.connections[playerID]
	g.connections.mu.RUnlock()
	if !ok {
		return nil
	}
	return g.write(conn, msg)
}

func (g *Game) write(conn *websocket.Conn, msg ws.Message) error {
	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()
	return conn.WriteJSON(msg)
}

func (g *Game) broadcastState() {
	// Get a snapshot of connections under the connections mutex
	g.connections.mu.RLock()
	activeConnections := make(map[string]*websocket.Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		activeConnections[playerID] = conn
	}
	g.connections.mu.RUnlock()

	if len(activeConnections) == 0 {
		return
	}

	jsonGameState, err := json.Marshal(g.GetState())
	if err != nil {
		log.Error().Err(err).Str("game_id", g.ID).Msg("failed to marshal state")
		return
	}

	for playerID, conn := range activeConnections {
		if err := g.write(conn, ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(jsonGameState),
		}); err != nil {
			log.Warn().Err(err).Str("player_id", playerID).Msg("failed to send state")
			g.UnregisterConnection(playerID, conn)
			continue
		}
	}
}
