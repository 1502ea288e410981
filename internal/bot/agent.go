package bot

import (
	"fmt"
	"math/rand"

	"snakecards/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Level    BotLevel
	Strategy Brain
}

// NewAgent builds an agent for identity, picking its brain from the
// identity's difficulty.
func NewAgent(identity BotIdentity, rng *rand.Rand) (*Agent, error) {
	level, err := ParseBotLevel(identity.Difficulty)
	if err != nil {
		return nil, err
	}
	brain, err := NewBrain(level, rng)
	if err != nil {
		return nil, err
	}
	name := identity.DisplayName
	if name == "" {
		name = identity.Username
	}
	return &Agent{ID: identity.UserID, Name: name, Level: level, Strategy: brain}, nil
}

// Plan asks the agent for its selection order in the current match. An agent
// that already confirmed has nothing left to plan.
func (a *Agent) Plan(m *domain.Match) ([]int, error) {
	if m == nil {
		return nil, ErrNotPlanning
	}
	p, ok := m.PlayerByUserID(a.ID)
	if !ok {
		return nil, fmt.Errorf("agent %s is not seated", a.ID)
	}
	if p.Confirmed() {
		return nil, nil
	}
	return a.Strategy.PlanSelection(m, p.Seat)
}
