package domain

import "time"

// StepReport describes what one seat did during a tick.
type StepReport struct {
	Result StepResult
	// Card is set when Result is StepApplied.
	Card  Card
	Round int
}

// TickResult is the resolved state of one simultaneous simulation tick.
type TickResult struct {
	Tick  int64
	Steps [SeatCount]StepReport
	// Collisions[s] is true when seat s's head landed on the other snake.
	Collisions [SeatCount]bool
	Outcome    Outcome
	// Bodies and Directions snapshot both snakes after the tick.
	Bodies     [SeatCount][]Point
	Directions [SeatCount]Direction
}

// Match drives two players through planning, simultaneous simulation and
// collision resolution. A match that reached PhaseRoundEnded is never
// restarted; build a new one instead.
type Match struct {
	rules      Rules
	players    [SeatCount]*Player
	phase      Phase
	outcome    Outcome
	tick       int64
	elapsed    time.Duration
	collisions [SeatCount]bool
}

// NewMatch normalizes rules, deals both hands and spawns both snakes.
func NewMatch(rules Rules, userIDs [SeatCount]string, dealer Dealer) *Match {
	rules = rules.Normalize()
	m := &Match{rules: rules, phase: PhasePlanning}
	for i := range m.players {
		seat := Seat(i)
		start := rules.Starts[seat]
		snake := NewSnake(start.Head, start.Direction, rules.InitialLength, rules.GridSize)
		hand := NewHand(dealer.Deal(seat, rules.HandSize), rules.CardsPerPage)
		m.players[i] = NewPlayer(userIDs[i], seat, snake, hand, rules.MaxRounds)
	}
	return m
}

// SelectCard moves a card from the seat's hand to its chosen queue.
func (m *Match) SelectCard(seat Seat, handIndex int) bool {
	if m.phase != PhasePlanning || !seat.Valid() {
		return false
	}
	return m.players[seat].SelectCard(handIndex)
}

// UndoLastSelection returns the seat's newest chosen card to its hand.
func (m *Match) UndoLastSelection(seat Seat) bool {
	if m.phase != PhasePlanning || !seat.Valid() {
		return false
	}
	_, ok := m.players[seat].UndoLastSelection()
	return ok
}

// ConfirmSelection locks the seat's queue. Once both seats confirmed the
// match enters PhaseSimulating.
func (m *Match) ConfirmSelection(seat Seat) bool {
	if m.phase != PhasePlanning || !seat.Valid() {
		return false
	}
	if !m.players[seat].Confirm() {
		return false
	}
	if m.players[SeatOne].Confirmed() && m.players[SeatTwo].Confirmed() {
		m.phase = PhaseSimulating
		m.elapsed = 0
	}
	return true
}

// AdvanceSimulationTick steps seat one, then seat two, then resolves
// collisions against both post-step bodies. Outside PhaseSimulating it
// returns a zero result and changes nothing.
func (m *Match) AdvanceSimulationTick() TickResult {
	if m.phase != PhaseSimulating {
		return TickResult{Tick: m.tick, Outcome: m.outcome}
	}
	m.tick++
	res := TickResult{Tick: m.tick}

	roundLimit := false
	for i, p := range m.players {
		step := p.Step()
		report := StepReport{Result: step, Round: p.Executer().Round()}
		if step == StepApplied {
			report.Card, _ = p.Executer().LastApplied()
		}
		if step == StepRoundLimit {
			roundLimit = true
		}
		res.Steps[i] = report
	}

	one, two := m.players[SeatOne].Snake(), m.players[SeatTwo].Snake()
	res.Collisions[SeatOne] = two.Occupies(one.Head())
	res.Collisions[SeatTwo] = one.Occupies(two.Head())
	m.collisions = res.Collisions
	res.Bodies = [SeatCount][]Point{one.Segments(), two.Segments()}
	res.Directions = [SeatCount]Direction{one.Direction(), two.Direction()}

	switch {
	case res.Collisions[SeatOne] && res.Collisions[SeatTwo]:
		m.end(OutcomeDraw)
	case res.Collisions[SeatOne]:
		m.end(OutcomePlayerTwoWins)
	case res.Collisions[SeatTwo]:
		m.end(OutcomePlayerOneWins)
	case roundLimit:
		m.end(OutcomeRoundLimitDraw)
	}
	res.Outcome = m.outcome
	return res
}

// Update feeds elapsed host time into the tick timer and runs every tick that
// became due.
func (m *Match) Update(dt time.Duration) []TickResult {
	if m.phase != PhaseSimulating || dt <= 0 {
		return nil
	}
	m.elapsed += dt
	var results []TickResult
	for m.phase == PhaseSimulating && m.elapsed >= m.rules.TickInterval {
		m.elapsed -= m.rules.TickInterval
		results = append(results, m.AdvanceSimulationTick())
	}
	return results
}

func (m *Match) end(outcome Outcome) {
	m.outcome = outcome
	m.phase = PhaseRoundEnded
}

// Phase returns the current phase.
func (m *Match) Phase() Phase { return m.phase }

// Outcome returns the match outcome, OutcomeNone while undecided.
func (m *Match) Outcome() Outcome { return m.outcome }

// Winner returns the winning seat when one player won outright.
func (m *Match) Winner() (Seat, bool) {
	switch m.outcome {
	case OutcomePlayerOneWins:
		return SeatOne, true
	case OutcomePlayerTwoWins:
		return SeatTwo, true
	default:
		return SeatOne, false
	}
}

// ActiveSeat is the first seat still planning.
func (m *Match) ActiveSeat() (Seat, bool) {
	if m.phase != PhasePlanning {
		return SeatOne, false
	}
	for _, p := range m.players {
		if !p.Confirmed() {
			return p.Seat, true
		}
	}
	return SeatOne, false
}

// Player returns the player in seat.
func (m *Match) Player(seat Seat) *Player {
	if !seat.Valid() {
		return nil
	}
	return m.players[seat]
}

// PlayerByUserID finds the player owning userID.
func (m *Match) PlayerByUserID(userID string) (*Player, bool) {
	for _, p := range m.players {
		if p.UserID == userID {
			return p, true
		}
	}
	return nil, false
}

// Round returns the current round, capped at MaxRounds.
func (m *Match) Round() int {
	exec := m.players[SeatOne].Executer()
	if exec == nil {
		return 1
	}
	if r := exec.Round(); r < m.rules.MaxRounds {
		return r
	}
	return m.rules.MaxRounds
}

// MaxRounds returns the configured round count.
func (m *Match) MaxRounds() int { return m.rules.MaxRounds }

// Tick returns the number of resolved simulation ticks.
func (m *Match) Tick() int64 { return m.tick }

// Collisions returns the collision flags of the last resolved tick.
func (m *Match) Collisions() [SeatCount]bool { return m.collisions }

// Collided reports whether the last resolved tick had any collision.
func (m *Match) Collided() bool {
	return m.collisions[SeatOne] || m.collisions[SeatTwo]
}

// Rules returns the normalized rules the match was built with.
func (m *Match) Rules() Rules {
	r := m.rules
	r.Weights = append([]EffectWeight(nil), m.rules.Weights...)
	return r
}
