package domain

// Player owns one snake, its hand, the chosen-card queue and, once confirmed,
// the executer that plays the queue back.
type Player struct {
	UserID string
	Seat   Seat

	snake     *Snake
	hand      *Hand
	chosen    []Card
	confirmed bool
	executer  *CardExecuter
	maxRounds int
}

// NewPlayer builds a player in the planning state.
func NewPlayer(userID string, seat Seat, snake *Snake, hand *Hand, maxRounds int) *Player {
	return &Player{
		UserID:    userID,
		Seat:      seat,
		snake:     snake,
		hand:      hand,
		maxRounds: maxRounds,
	}
}

// SelectCard moves the hand card at handIndex to the end of the chosen queue.
func (p *Player) SelectCard(handIndex int) bool {
	if p.confirmed {
		return false
	}
	card, ok := p.hand.Take(handIndex)
	if !ok {
		return false
	}
	p.chosen = append(p.chosen, card)
	return true
}

// UndoLastSelection returns the newest chosen card to the hand.
func (p *Player) UndoLastSelection() (Card, bool) {
	if p.confirmed || len(p.chosen) == 0 {
		return Card{}, false
	}
	card := p.chosen[len(p.chosen)-1]
	if !p.hand.Return(card) {
		return Card{}, false
	}
	p.chosen = p.chosen[:len(p.chosen)-1]
	return card, true
}

// CanConfirm reports whether the hand is empty and the player has not confirmed.
func (p *Player) CanConfirm() bool {
	return !p.confirmed && p.hand.IsEmpty()
}

// Confirm locks the chosen queue and prepares the executer.
func (p *Player) Confirm() bool {
	if !p.CanConfirm() {
		return false
	}
	p.confirmed = true
	p.executer = NewCardExecuter(p.chosen, p.maxRounds)
	return true
}

// Step runs one executer step against the player's snake.
func (p *Player) Step() StepResult {
	if p.executer == nil {
		return StepIdle
	}
	return p.executer.Step(p.snake)
}

// Confirmed reports whether the player locked in a selection.
func (p *Player) Confirmed() bool { return p.confirmed }

// Snake returns the player's snake. Callers must not mutate it.
func (p *Player) Snake() *Snake { return p.snake }

// Hand returns the player's remaining hand.
func (p *Player) Hand() *Hand { return p.hand }

// Chosen returns a copy of the chosen-card queue in selection order.
func (p *Player) Chosen() []Card {
	return append([]Card(nil), p.chosen...)
}

// Executer returns the executer, nil until the player confirms.
func (p *Player) Executer() *CardExecuter { return p.executer }

// Status is the player's local view of its progress.
func (p *Player) Status() PlayerStatus {
	switch {
	case !p.confirmed:
		return StatusPlanning
	case p.executer.Finished():
		return StatusFinished
	case p.executer.Round() == 1 && p.executer.Index() == 0:
		return StatusConfirmed
	default:
		return StatusExecuting
	}
}
