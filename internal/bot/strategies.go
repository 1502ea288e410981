package bot

import (
	"math/rand"

	"snakecards/internal/domain"
)

// CautiousBot builds its queue greedily: at each position it picks the card
// whose outcome scores best against the opponent's current body.
type CautiousBot struct {
	rng    *rand.Rand
	Tuning CautiousTuning
	Rules  []ScoreRule
}

func (b *CautiousBot) PlanSelection(m *domain.Match, seat domain.Seat) ([]int, error) {
	p, err := planningPlayer(m, seat)
	if err != nil {
		return nil, err
	}
	opponent := m.Player(seat.Other()).Snake()

	sim := p.Snake().Clone()
	for _, c := range p.Chosen() {
		c.Apply(sim)
	}

	remaining := p.Hand().Cards()
	plan := make([]int, 0, len(remaining))
	for len(remaining) > 0 {
		best, bestScore := 0, 0.0
		var bestSnake *domain.Snake
		for i, card := range remaining {
			trial := sim.Clone()
			card.Apply(trial)
			score := b.score(&ScoreContext{
				Card:     card,
				Before:   sim,
				After:    trial,
				Opponent: opponent,
				Tuning:   b.Tuning,
			})
			if bestSnake == nil || score > bestScore {
				best, bestScore, bestSnake = i, score, trial
			}
		}
		plan = append(plan, best)
		sim = bestSnake
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return plan, nil
}

func (b *CautiousBot) score(ctx *ScoreContext) float64 {
	total := 0.0
	for _, rule := range b.Rules {
		total += rule.Score(ctx)
	}
	if b.Tuning.Jitter > 0 && b.rng != nil {
		total += b.rng.Float64() * b.Tuning.Jitter
	}
	return total
}
