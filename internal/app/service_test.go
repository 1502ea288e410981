package app

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snakecards/internal/domain"
)

func skipHand(n int) []domain.Card {
	cards := make([]domain.Card, n)
	for i := range cards {
		cards[i] = domain.Card{ID: string(rune('a' + i)), Effect: domain.EffectSkip}
	}
	return cards
}

func testRules() domain.Rules {
	r := domain.DefaultRules()
	r.HandSize = 5
	r.MaxRounds = 1
	return r
}

func planAll(t *testing.T, svc *Service, m *domain.Match) []Event {
	t.Helper()
	var events []Event
	for _, userID := range []string{"u1", "u2"} {
		p, ok := m.PlayerByUserID(userID)
		require.True(t, ok)
		for p.Hand().Len() > 0 {
			evs, err := svc.SelectCard(m, userID, 0)
			require.NoError(t, err)
			events = append(events, evs...)
		}
		evs, err := svc.ConfirmSelection(m, userID)
		require.NoError(t, err)
		events = append(events, evs...)
	}
	return events
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func TestStartMatchDealsPrivateHands(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(42)))

	m, evs, err := svc.StartMatch(domain.DefaultRules(), [domain.SeatCount]string{"u1", "u2"})
	require.NoError(t, err)
	assert.Equal(t, domain.PhasePlanning, m.Phase())

	require.Equal(t, []EventKind{EventHandDealt, EventHandDealt, EventPlanningStarted}, kinds(evs))
	for i, userID := range []string{"u1", "u2"} {
		payload := evs[i].Payload.(HandDealtPayload)
		assert.Equal(t, userID, payload.UserID)
		assert.Len(t, payload.Hand, 15)
		assert.Equal(t, []string{userID}, evs[i].Recipients)
	}
	started := evs[2].Payload.(PlanningStartedPayload)
	assert.Empty(t, evs[2].Recipients)
	assert.Equal(t, 20, started.GridSize)
	require.Len(t, started.Snakes, 2)
	assert.Equal(t, domain.Point{X: 5, Y: 0}, started.Snakes[0].Segments[0])
}

func TestStartMatchRequiresBothSeats(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)))
	_, _, err := svc.StartMatch(domain.DefaultRules(), [domain.SeatCount]string{"u1", ""})
	assert.ErrorIs(t, err, ErrSeatsNotFilled)
}

func TestSelectCardHidesCardFromOpponent(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)))
	m, _, err := svc.StartMatch(domain.DefaultRules(), [domain.SeatCount]string{"u1", "u2"})
	require.NoError(t, err)
	first := m.Player(domain.SeatOne).Hand().Cards()[0]

	evs, err := svc.SelectCard(m, "u1", 0)
	require.NoError(t, err)
	require.Len(t, evs, 2)

	own := evs[0].Payload.(SelectionPayload)
	assert.Equal(t, []string{"u1"}, evs[0].Recipients)
	require.NotNil(t, own.Card)
	assert.Equal(t, first, *own.Card)
	assert.Equal(t, 14, own.HandCount)
	assert.Equal(t, 1, own.Chosen)

	theirs := evs[1].Payload.(SelectionPayload)
	assert.Equal(t, []string{"u2"}, evs[1].Recipients)
	assert.Nil(t, theirs.Card)
	assert.Equal(t, 1, theirs.Chosen)

	evs, err = svc.UndoSelection(m, "u1")
	require.NoError(t, err)
	assert.Equal(t, EventSelectionUndone, evs[0].Kind)
	assert.Equal(t, first, *evs[0].Payload.(SelectionPayload).Card)
	assert.Equal(t, 15, m.Player(domain.SeatOne).Hand().Len())
}

func TestCommandErrors(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(7)))
	m, _, err := svc.StartMatch(domain.DefaultRules(), [domain.SeatCount]string{"u1", "u2"})
	require.NoError(t, err)

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{name: "no match", run: func() error { _, err := svc.SelectCard(nil, "u1", 0); return err }, want: ErrNoMatch},
		{name: "stranger", run: func() error { _, err := svc.SelectCard(m, "u9", 0); return err }, want: ErrUnknownPlayer},
		{name: "bad index", run: func() error { _, err := svc.SelectCard(m, "u1", 40); return err }, want: ErrInvalidSelection},
		{name: "empty undo", run: func() error { _, err := svc.UndoSelection(m, "u2"); return err }, want: ErrInvalidSelection},
		{name: "early confirm", run: func() error { _, err := svc.ConfirmSelection(m, "u1"); return err }, want: ErrCannotConfirm},
		{name: "rematch while planning", run: func() error { _, _, err := svc.Rematch(m); return err }, want: ErrMatchNotEnded},
		{name: "advance without match", run: func() error { _, err := svc.Advance("m", nil, time.Second); return err }, want: ErrNoMatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestConfirmStartsSimulationAndRevealsQueues(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(3)))
	m, _, err := svc.StartMatch(testRules(), [domain.SeatCount]string{"u1", "u2"})
	require.NoError(t, err)

	evs := planAll(t, svc, m)

	last := evs[len(evs)-1]
	require.Equal(t, EventSimulationStarted, last.Kind)
	payload := last.Payload.(SimulationStartedPayload)
	assert.Len(t, payload.Queues[domain.SeatOne], 5)
	assert.Equal(t, [domain.SeatCount]string{"u1", "u2"}, payload.UserIDs)
	assert.Equal(t, domain.PhaseSimulating, m.Phase())

	_, err = svc.SelectCard(m, "u1", 0)
	assert.ErrorIs(t, err, ErrNotPlanning)
}

func TestAdvanceEmitsTicksAndSignedResult(t *testing.T) {
	signer := NewResultSigner("secret", ResultIssuer, time.Hour)
	svc := NewService(rand.New(rand.NewSource(3)), WithResultSigner(signer))
	r := testRules()
	m, _, err := svc.StartMatchWithDealer(r, [domain.SeatCount]string{"u1", "u2"}, domain.FixedDealer{
		domain.SeatOne: skipHand(5),
		domain.SeatTwo: skipHand(5),
	})
	require.NoError(t, err)
	planAll(t, svc, m)

	evs, err := svc.Advance("match-1", m, 200*time.Millisecond)
	require.NoError(t, err)
	assert.Empty(t, evs)

	evs, err = svc.Advance("match-1", m, 300*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	tick := evs[0].Payload.(TickResolvedPayload)
	assert.Equal(t, int64(1), tick.Tick)
	require.Len(t, tick.Steps, 2)
	require.NotNil(t, tick.Steps[0].Card)
	assert.Equal(t, domain.EffectSkip, tick.Steps[0].Card.Effect)
	assert.Equal(t, 5, tick.Snakes[1].Length)

	// Five cards plus the closing wrap step end the single round.
	evs, err = svc.Advance("match-1", m, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, []EventKind{
		EventTickResolved, EventTickResolved, EventTickResolved, EventTickResolved, EventTickResolved,
		EventMatchEnded,
	}, kinds(evs))

	ended := evs[len(evs)-1].Payload.(MatchEndedPayload)
	assert.Equal(t, "round_limit_draw", ended.Result.Outcome)
	assert.True(t, ended.Result.Draw())
	require.NotEmpty(t, ended.Token)

	verified, err := signer.Verify(ended.Token)
	require.NoError(t, err)
	assert.Equal(t, ended.Result, verified)
}

func TestRematchKeepsSeats(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(3)))
	m, _, err := svc.StartMatchWithDealer(testRules(), [domain.SeatCount]string{"u1", "u2"}, domain.FixedDealer{
		domain.SeatOne: skipHand(5),
		domain.SeatTwo: skipHand(5),
	})
	require.NoError(t, err)
	planAll(t, svc, m)
	_, err = svc.Advance("m", m, time.Minute)
	require.NoError(t, err)

	next, evs, err := svc.Rematch(m)
	require.NoError(t, err)
	assert.NotSame(t, m, next)
	assert.Equal(t, domain.PhasePlanning, next.Phase())
	assert.Equal(t, "u2", next.Player(domain.SeatTwo).UserID)
	assert.Len(t, evs, 3)
}

func TestResetMatchInAnyPhase(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(5)))

	planning, _, err := svc.StartMatch(testRules(), [domain.SeatCount]string{"u1", "u2"})
	require.NoError(t, err)
	_, err = svc.SelectCard(planning, "u1", 0)
	require.NoError(t, err)

	simulating, _, err := svc.StartMatch(testRules(), [domain.SeatCount]string{"u1", "u2"})
	require.NoError(t, err)
	planAll(t, svc, simulating)
	_, err = svc.Advance("m", simulating, simulating.Rules().TickInterval)
	require.NoError(t, err)
	require.Equal(t, domain.PhaseSimulating, simulating.Phase())
	require.Equal(t, int64(1), simulating.Tick())

	for name, m := range map[string]*domain.Match{"planning": planning, "simulating": simulating} {
		t.Run(name, func(t *testing.T) {
			next, evs, err := svc.ResetMatch(m)
			require.NoError(t, err)
			assert.NotSame(t, m, next)
			assert.Equal(t, domain.PhasePlanning, next.Phase())
			assert.Equal(t, int64(0), next.Tick())
			assert.Equal(t, m.Rules(), next.Rules())
			for seat := domain.SeatOne; seat <= domain.SeatTwo; seat++ {
				p := next.Player(seat)
				assert.Equal(t, m.Player(seat).UserID, p.UserID)
				assert.Equal(t, 5, p.Hand().Len())
				assert.Empty(t, p.Chosen())
				assert.False(t, p.Confirmed())
			}
			assert.Equal(t, []EventKind{EventHandDealt, EventHandDealt, EventPlanningStarted}, kinds(evs))
		})
	}

	_, _, err = svc.ResetMatch(nil)
	assert.ErrorIs(t, err, ErrNoMatch)
}
