package domain

// StepResult reports what a single executer step did.
type StepResult int

const (
	// StepIdle means the executer had already finished.
	StepIdle StepResult = iota
	// StepApplied means one card was applied to the snake.
	StepApplied
	// StepRoundAdvanced means a full pass completed and a new round began.
	StepRoundAdvanced
	// StepRoundLimit means the last round completed and the executer finished.
	StepRoundLimit
)

// CardExecuter walks a player's chosen cards, one per tick, for maxRounds passes.
type CardExecuter struct {
	cards     []Card
	index     int
	round     int
	maxRounds int
	finished  bool
}

// NewCardExecuter copies cards so later changes to the caller's slice cannot
// alter the simulation.
func NewCardExecuter(cards []Card, maxRounds int) *CardExecuter {
	return &CardExecuter{
		cards:     append([]Card(nil), cards...),
		round:     1,
		maxRounds: maxRounds,
	}
}

// Step advances the cursor once against s.
func (e *CardExecuter) Step(s *Snake) StepResult {
	if e.finished {
		return StepIdle
	}
	if e.index < len(e.cards) {
		e.cards[e.index].Apply(s)
		e.index++
		return StepApplied
	}

	e.index = 0
	e.round++
	if e.round > e.maxRounds {
		e.finished = true
		return StepRoundLimit
	}
	return StepRoundAdvanced
}

// Current returns the card the next Step will apply, if any.
func (e *CardExecuter) Current() (Card, bool) {
	if e.finished || e.index >= len(e.cards) {
		return Card{}, false
	}
	return e.cards[e.index], true
}

// LastApplied returns the card applied by the previous Step, if any.
func (e *CardExecuter) LastApplied() (Card, bool) {
	if e.index == 0 {
		return Card{}, false
	}
	return e.cards[e.index-1], true
}

// Index returns the position of the next card to apply.
func (e *CardExecuter) Index() int { return e.index }

// Round returns the 1-based round counter.
func (e *CardExecuter) Round() int { return e.round }

// MaxRounds returns the configured number of rounds.
func (e *CardExecuter) MaxRounds() int { return e.maxRounds }

// Finished reports whether every round has been played.
func (e *CardExecuter) Finished() bool { return e.finished }

// Cards returns a copy of the queue being executed.
func (e *CardExecuter) Cards() []Card {
	return append([]Card(nil), e.cards...)
}
