package model

// Heuristic weights.
const (
	KingValue       = 5
	ManValue        = 3
	BaseBonus       = 1
	EdgeBonus       = 1
	NearCrownBonus  = 1
	MaterialPerSide = 1
)

// Score evaluates b from side's point of view: material and position of
// side's own pieces plus the difference in piece count. Opponent pieces only
// count toward the difference.
func Score(b *Board, side Side) int {
	score := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			p := b.squares[row][col]
			if p == nil || p.Side != side {
				continue
			}
			if p.Crowned {
				score += KingValue
			} else {
				score += ManValue
			}
			if row == side.BaseRow() {
				score += BaseBonus
			}
			// edge pieces cannot be jumped
			if col == 0 || col == Size-1 {
				score += EdgeBonus
			}
			if side.NearCrownRow(row) {
				score += NearCrownBonus
			}
		}
	}
	return score + MaterialDiff(b, side)
}

// MaterialDiff is side's piece count minus its opponent's.
func MaterialDiff(b *Board, side Side) int {
	return MaterialPerSide * (b.Count(side) - b.Count(side.Opponent()))
}
