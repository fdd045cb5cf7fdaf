package model

import "fmt"

// Difficulty selects how deep the computer searches.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// MaxDepth is the search depth for d.
func (d Difficulty) MaxDepth() int {
	switch d {
	case DifficultyMedium:
		return 5
	case DifficultyHard:
		return 8
	default:
		return 2
	}
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
