package bot

import (
	"fmt"
	"strings"

	"snakecards/internal/domain"
)

// BotLevel selects a planning strategy.
type BotLevel int

const (
	// BotLevelRandom plays its hand in a random order.
	BotLevelRandom BotLevel = iota
	// BotLevelCautious steers its snake away from the opponent.
	BotLevelCautious
)

func (l BotLevel) String() string {
	switch l {
	case BotLevelRandom:
		return "random"
	case BotLevelCautious:
		return "cautious"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseBotLevel accepts level names and the identity difficulty labels.
func ParseBotLevel(name string) (BotLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "random", "easy", "":
		return BotLevelRandom, nil
	case "cautious", "medium", "hard":
		return BotLevelCautious, nil
	default:
		return BotLevelRandom, fmt.Errorf("unknown bot level: %q", name)
	}
}

// Brain is the interface that all bot strategies must implement.
//
// PlanSelection returns hand indices in selection order. Each index refers to
// the hand as it is after the previous selections were taken out, so the
// result can be fed straight into successive SelectCard calls.
type Brain interface {
	PlanSelection(m *domain.Match, seat domain.Seat) ([]int, error)
}
