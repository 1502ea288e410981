package bot

import (
	"fmt"
	"math/rand"
	"time"
)

// NewBrain creates a new AI brain based on the specified level. A nil rng
// gets a time-seeded source.
func NewBrain(level BotLevel, rng *rand.Rand) (Brain, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	switch level {
	case BotLevelRandom:
		return &RandomBot{rng: rng}, nil
	case BotLevelCautious:
		return &CautiousBot{rng: rng, Tuning: DefaultTuning, Rules: DefaultScoreRules()}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
