package model

import "fmt"

// Search window bounds. Every heuristic score lies strictly inside them.
const (
	MinScore = -1000
	MaxScore = 1000
)

// Node is a board reached by Move, with the value the search gave it.
// Move is nil for the root.
type Node struct {
	Board *Board
	Move  *Move
	Value int
}

// Children returns one node per legal move of side, each on its own copy
// of b. b itself is never modified.
func Children(b *Board, side Side) []Node {
	moves := GenerateMoves(b, side)
	nodes := make([]Node, 0, len(moves))
	for _, m := range moves {
		child := b.Clone()
		applied, err := child.Apply(m, side)
		if err != nil {
			// generated moves always satisfy Apply's preconditions
			panic(fmt.Sprintf("apply generated move %v: %v", m, err))
		}
		nodes = append(nodes, Node{Board: child, Move: &applied})
	}
	return nodes
}

type SearchStats struct {
	Nodes  uint64 // #nodes visited
	Leaves uint64 // #nodes scored by the heuristic
	Cuts   uint64 // #nodes that stopped early on an alpha-beta cut
}

// Search is a depth-bounded minimax with alpha-beta pruning. Scores are
// always taken from Maximizer's point of view.
type Search struct {
	Maximizer Side
	MaxDepth  int
	// Prune enables alpha-beta cut-offs. Turning it off gives plain minimax
	// with the same result.
	Prune bool
	Stats SearchStats
}

func NewSearch(maximizer Side, maxDepth int) *Search {
	return &Search{
		Maximizer: maximizer,
		MaxDepth:  maxDepth,
		Prune:     true,
	}
}

// Minimax returns the value of b at the given depth. maximizing says whose
// turn it is: the maximizer's or its opponent's.
func (s *Search) Minimax(b *Board, depth int, alpha, beta int, maximizing bool) int {
	s.Stats.Nodes++

	if depth >= s.MaxDepth || IsGameOver(b, s.Maximizer) {
		s.Stats.Leaves++
		return Score(b, s.Maximizer)
	}

	if maximizing {
		maxEval := MinScore
		for _, child := range Children(b, s.Maximizer) {
			eval := s.Minimax(child.Board, depth+1, alpha, beta, false)
			maxEval = max(maxEval, eval)
			alpha = max(alpha, maxEval)
			if s.Prune && alpha >= beta {
				s.Stats.Cuts++
				break
			}
		}
		return maxEval
	}

	// a minimizer without moves has lost, leaving minEval at MaxScore
	minEval := MaxScore
	for _, child := range Children(b, s.Maximizer.Opponent()) {
		eval := s.Minimax(child.Board, depth+1, alpha, beta, true)
		minEval = min(minEval, eval)
		beta = min(beta, minEval)
		if s.Prune && beta <= alpha {
			s.Stats.Cuts++
			break
		}
	}
	return minEval
}

// Evaluate scores every immediate successor of b for the maximizer. Each
// successor is searched one ply down with the opponent to reply.
func (s *Search) Evaluate(b *Board) ([]Node, error) {
	if s.MaxDepth < 1 {
		return nil, fmt.Errorf("evaluate at depth %d: %w", s.MaxDepth, ErrInvalidDepth)
	}
	nodes := Children(b, s.Maximizer)
	if len(nodes) == 0 {
		return nil, fmt.Errorf("evaluate for %s: %w", s.Maximizer, ErrNoMoves)
	}
	for i := range nodes {
		nodes[i].Value = s.Minimax(nodes[i].Board, 1, MinScore, MaxScore, false)
	}
	return nodes, nil
}

// Best returns the highest valued successor. Ties go to the first one in
// move generation order.
func (s *Search) Best(b *Board) (Node, error) {
	nodes, err := s.Evaluate(b)
	if err != nil {
		return Node{}, err
	}
	best := nodes[0]
	for _, n := range nodes[1:] {
		if n.Value > best.Value {
			best = n
		}
	}
	return best, nil
}

// ChooseMove picks side's move on b by searching maxDepth plies. b is not
// modified.
func ChooseMove(b *Board, side Side, maxDepth int) (Move, error) {
	best, err := NewSearch(side, maxDepth).Best(b)
	if err != nil {
		return Move{}, err
	}
	return *best.Move, nil
}
