package bot

import (
	"errors"
	"math/rand"

	"snakecards/internal/domain"
)

var ErrNotPlanning = errors.New("match is not in planning phase")

// RandomBot plays the whole hand in shuffled order.
type RandomBot struct {
	rng *rand.Rand
}

func (b *RandomBot) PlanSelection(m *domain.Match, seat domain.Seat) ([]int, error) {
	p, err := planningPlayer(m, seat)
	if err != nil {
		return nil, err
	}
	n := p.Hand().Len()
	plan := make([]int, 0, n)
	for remaining := n; remaining > 0; remaining-- {
		plan = append(plan, b.rng.Intn(remaining))
	}
	return plan, nil
}

func planningPlayer(m *domain.Match, seat domain.Seat) (*domain.Player, error) {
	if m == nil || m.Phase() != domain.PhasePlanning {
		return nil, ErrNotPlanning
	}
	p := m.Player(seat)
	if p == nil {
		return nil, errors.New("invalid seat")
	}
	return p, nil
}
