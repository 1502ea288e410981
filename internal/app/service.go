package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"snakecards/internal/domain"
)

// Service contains Snake Cards use-cases operating on domain state.
type Service struct {
	rng    *rand.Rand
	signer *ResultSigner
}

// Option configures a Service.
type Option func(*Service)

// WithResultSigner signs every finished match result.
func WithResultSigner(signer *ResultSigner) Option {
	return func(s *Service) { s.signer = signer }
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand, opts ...Option) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Service{rng: rng}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrNoMatch          = errors.New("no match in progress")
	ErrSeatsNotFilled   = errors.New("both seats must be filled to start")
	ErrUnknownPlayer    = errors.New("player not found")
	ErrNotPlanning      = errors.New("match not in planning phase")
	ErrMatchNotEnded    = errors.New("match not ended")
	ErrInvalidSelection = errors.New("selection rejected")
	ErrCannotConfirm    = errors.New("selection cannot be confirmed yet")
)

// StartMatch deals both hands and spawns both snakes for the given seats.
func (s *Service) StartMatch(rules domain.Rules, seats [domain.SeatCount]string) (*domain.Match, []Event, error) {
	rules = rules.Normalize()
	return s.StartMatchWithDealer(rules, seats, domain.NewRandomDealer(s.rng, rules.Weights))
}

// StartMatchWithDealer is StartMatch with a caller-chosen dealer.
func (s *Service) StartMatchWithDealer(rules domain.Rules, seats [domain.SeatCount]string, dealer domain.Dealer) (*domain.Match, []Event, error) {
	for _, userID := range seats {
		if userID == "" {
			return nil, nil, ErrSeatsNotFilled
		}
	}
	m := domain.NewMatch(rules, seats, dealer)
	return m, s.startEvents(m), nil
}

func (s *Service) startEvents(m *domain.Match) []Event {
	rules := m.Rules()
	events := make([]Event, 0, domain.SeatCount+1)
	for seat := domain.SeatOne; seat <= domain.SeatTwo; seat++ {
		p := m.Player(seat)
		events = append(events, Event{
			Kind: EventHandDealt,
			Payload: HandDealtPayload{
				UserID: p.UserID,
				Hand:   p.Hand().Cards(),
			},
			Recipients: []string{p.UserID},
		})
	}
	events = append(events, Event{
		Kind: EventPlanningStarted,
		Payload: PlanningStartedPayload{
			GridSize:  rules.GridSize,
			HandSize:  rules.HandSize,
			MaxRounds: rules.MaxRounds,
			Snakes:    snakeViews(m),
		},
	})
	return events
}

// ResetMatch abandons m in any phase and starts a fresh match with the same
// rules and seats.
func (s *Service) ResetMatch(m *domain.Match) (*domain.Match, []Event, error) {
	if m == nil {
		return nil, nil, ErrNoMatch
	}
	var seats [domain.SeatCount]string
	for seat := domain.SeatOne; seat <= domain.SeatTwo; seat++ {
		seats[seat] = m.Player(seat).UserID
	}
	return s.StartMatch(m.Rules(), seats)
}

// Rematch starts a fresh match for the same seats once the current one ended.
func (s *Service) Rematch(m *domain.Match) (*domain.Match, []Event, error) {
	if m == nil {
		return nil, nil, ErrNoMatch
	}
	if m.Phase() != domain.PhaseRoundEnded {
		return nil, nil, ErrMatchNotEnded
	}
	return s.ResetMatch(m)
}

// SelectCard moves a hand card into the actor's chosen queue.
func (s *Service) SelectCard(m *domain.Match, actorUserID string, handIndex int) ([]Event, error) {
	p, err := planningPlayer(m, actorUserID)
	if err != nil {
		return nil, err
	}
	var card domain.Card
	if cards := p.Hand().Cards(); handIndex >= 0 && handIndex < len(cards) {
		card = cards[handIndex]
	}
	if !m.SelectCard(p.Seat, handIndex) {
		return nil, fmt.Errorf("select card %d: %w", handIndex, ErrInvalidSelection)
	}
	return selectionEvents(EventCardSelected, m, p, card), nil
}

// UndoSelection returns the actor's newest chosen card to the hand.
func (s *Service) UndoSelection(m *domain.Match, actorUserID string) ([]Event, error) {
	p, err := planningPlayer(m, actorUserID)
	if err != nil {
		return nil, err
	}
	chosen := p.Chosen()
	if len(chosen) == 0 || !m.UndoLastSelection(p.Seat) {
		return nil, fmt.Errorf("undo selection: %w", ErrInvalidSelection)
	}
	return selectionEvents(EventSelectionUndone, m, p, chosen[len(chosen)-1]), nil
}

// ConfirmSelection locks the actor's queue and starts the simulation once
// both seats confirmed.
func (s *Service) ConfirmSelection(m *domain.Match, actorUserID string) ([]Event, error) {
	p, err := planningPlayer(m, actorUserID)
	if err != nil {
		return nil, err
	}
	if !m.ConfirmSelection(p.Seat) {
		return nil, ErrCannotConfirm
	}
	events := []Event{{
		Kind:    EventSelectionConfirmed,
		Payload: SelectionConfirmedPayload{UserID: actorUserID},
	}}
	if m.Phase() == domain.PhaseSimulating {
		payload := SimulationStartedPayload{}
		for seat := domain.SeatOne; seat <= domain.SeatTwo; seat++ {
			pl := m.Player(seat)
			payload.Queues[seat] = pl.Chosen()
			payload.UserIDs[seat] = pl.UserID
		}
		events = append(events, Event{Kind: EventSimulationStarted, Payload: payload})
	}
	return events, nil
}

// Advance feeds host time into the match timer and reports every resolved
// tick, followed by the match result when the match ended.
func (s *Service) Advance(matchID string, m *domain.Match, dt time.Duration) ([]Event, error) {
	if m == nil {
		return nil, ErrNoMatch
	}
	ticks := m.Update(dt)
	if len(ticks) == 0 {
		return nil, nil
	}
	events := make([]Event, 0, len(ticks)+1)
	for _, tick := range ticks {
		events = append(events, Event{Kind: EventTickResolved, Payload: tickPayload(m, tick)})
	}
	if m.Phase() != domain.PhaseRoundEnded {
		return events, nil
	}

	ended := MatchEndedPayload{Result: NewMatchResult(matchID, m)}
	var err error
	if s.signer != nil {
		ended.Token, err = s.signer.Sign(ended.Result)
		if err != nil {
			err = fmt.Errorf("sign match result: %w", err)
		}
	}
	events = append(events, Event{Kind: EventMatchEnded, Payload: ended})
	return events, err
}

func planningPlayer(m *domain.Match, userID string) (*domain.Player, error) {
	if m == nil {
		return nil, ErrNoMatch
	}
	p, ok := m.PlayerByUserID(userID)
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if m.Phase() != domain.PhasePlanning {
		return nil, ErrNotPlanning
	}
	return p, nil
}

func selectionEvents(kind EventKind, m *domain.Match, p *domain.Player, card domain.Card) []Event {
	handCount, chosen := p.Hand().Len(), len(p.Chosen())
	return []Event{
		{
			Kind: kind,
			Payload: SelectionPayload{
				UserID:    p.UserID,
				Card:      &card,
				HandCount: handCount,
				Chosen:    chosen,
			},
			Recipients: []string{p.UserID},
		},
		{
			Kind: kind,
			Payload: SelectionPayload{
				UserID:    p.UserID,
				HandCount: handCount,
				Chosen:    chosen,
			},
			Recipients: []string{m.Player(p.Seat.Other()).UserID},
		},
	}
}

func snakeViews(m *domain.Match) []SnakeView {
	views := make([]SnakeView, 0, domain.SeatCount)
	for seat := domain.SeatOne; seat <= domain.SeatTwo; seat++ {
		p := m.Player(seat)
		snake := p.Snake()
		views = append(views, SnakeView{
			UserID:    p.UserID,
			Seat:      int(seat),
			Segments:  snake.Segments(),
			Direction: snake.Direction(),
			Length:    snake.Len(),
		})
	}
	return views
}

func tickPayload(m *domain.Match, tick domain.TickResult) TickResolvedPayload {
	payload := TickResolvedPayload{
		Tick:       tick.Tick,
		Round:      tick.Steps[domain.SeatOne].Round,
		Collisions: tick.Collisions,
	}
	if payload.Round > m.MaxRounds() {
		payload.Round = m.MaxRounds()
	}
	for seat := domain.SeatOne; seat <= domain.SeatTwo; seat++ {
		payload.Snakes = append(payload.Snakes, SnakeView{
			UserID:    m.Player(seat).UserID,
			Seat:      int(seat),
			Segments:  tick.Bodies[seat],
			Direction: tick.Directions[seat],
			Length:    len(tick.Bodies[seat]),
		})
		step := tick.Steps[seat]
		view := StepView{
			UserID: m.Player(seat).UserID,
			Result: step.Result,
			Round:  step.Round,
		}
		if step.Result == domain.StepApplied {
			card := step.Card
			view.Card = &card
		}
		payload.Steps = append(payload.Steps, view)
	}
	return payload
}
