package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cardsOf(effects ...Effect) []Card {
	cards := make([]Card, len(effects))
	for i, e := range effects {
		cards[i] = Card{ID: string(rune('a' + i)), Effect: e}
	}
	return cards
}

func repeat(e Effect, n int) []Card {
	effects := make([]Effect, n)
	for i := range effects {
		effects[i] = e
	}
	return cardsOf(effects...)
}

func rulesWithStarts(one, two Start) Rules {
	r := DefaultRules()
	r.HandSize = 5
	r.Starts = [SeatCount]Start{one, two}
	r.StartsSet = true
	return r
}

// planAll selects every card in dealt order and confirms both seats.
func planAll(t *testing.T, m *Match) {
	t.Helper()
	for seat := SeatOne; seat <= SeatTwo; seat++ {
		for m.Player(seat).Hand().Len() > 0 {
			require.True(t, m.SelectCard(seat, 0))
		}
		require.True(t, m.ConfirmSelection(seat))
	}
}

func runToEnd(t *testing.T, m *Match) []TickResult {
	t.Helper()
	var ticks []TickResult
	for m.Phase() == PhaseSimulating {
		ticks = append(ticks, m.AdvanceSimulationTick())
		require.Less(t, len(ticks), 1000, "match never ended")
	}
	return ticks
}

func TestMatchStartsInPlanning(t *testing.T) {
	m := NewMatch(DefaultRules(), [SeatCount]string{"u1", "u2"}, NewRandomDealer(rand.New(rand.NewSource(1)), nil))

	assert.Equal(t, PhasePlanning, m.Phase())
	assert.Equal(t, OutcomeNone, m.Outcome())
	assert.Equal(t, 1, m.Round())
	assert.Equal(t, 3, m.MaxRounds())
	for seat := SeatOne; seat <= SeatTwo; seat++ {
		p := m.Player(seat)
		assert.Equal(t, 15, p.Hand().Len())
		assert.Empty(t, p.Chosen())
		assert.Equal(t, StatusPlanning, p.Status())
		assert.Equal(t, 5, p.Snake().Len())
	}
	active, ok := m.ActiveSeat()
	require.True(t, ok)
	assert.Equal(t, SeatOne, active)

	p, ok := m.PlayerByUserID("u2")
	require.True(t, ok)
	assert.Equal(t, SeatTwo, p.Seat)
}

func TestMatchInvalidCommandsAreNoOps(t *testing.T) {
	m := NewMatch(DefaultRules(), [SeatCount]string{"u1", "u2"}, NewRandomDealer(rand.New(rand.NewSource(1)), nil))

	assert.False(t, m.UndoLastSelection(SeatOne), "undo with nothing chosen")
	assert.False(t, m.ConfirmSelection(SeatOne), "confirm with a non-empty hand")
	assert.False(t, m.SelectCard(SeatOne, 99))
	assert.False(t, m.SelectCard(Seat(7), 0))
	assert.Nil(t, m.Player(Seat(-1)))
	assert.Equal(t, int64(0), m.AdvanceSimulationTick().Tick, "ticks are ignored while planning")
	assert.Nil(t, m.Update(time.Second))
	assert.Equal(t, 15, m.Player(SeatOne).Hand().Len())
}

func TestMatchCardQueueConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	m := NewMatch(DefaultRules(), [SeatCount]string{"u1", "u2"}, NewRandomDealer(rng, nil))
	p := m.Player(SeatTwo)
	handSize := m.Rules().HandSize

	for i := 0; i < 500; i++ {
		if rng.Intn(3) == 0 {
			m.UndoLastSelection(SeatTwo)
		} else {
			m.SelectCard(SeatTwo, rng.Intn(handSize+2)-1)
		}
		require.Equal(t, handSize, p.Hand().Len()+len(p.Chosen()))
	}
}

func TestMatchUndoReturnsCardToHand(t *testing.T) {
	m := NewMatch(rulesWithStarts(Start{}, Start{Head: Point{X: 10, Y: 10}}), [SeatCount]string{"u1", "u2"}, FixedDealer{
		SeatOne: cardsOf(EffectGrow, EffectSkip, EffectReverse, EffectSkip, EffectSkip),
	})
	p := m.Player(SeatOne)

	require.True(t, m.SelectCard(SeatOne, 2))
	require.True(t, m.SelectCard(SeatOne, 0))
	assert.Equal(t, []Effect{EffectReverse, EffectGrow}, effectsOf(p.Chosen()))

	require.True(t, m.UndoLastSelection(SeatOne))
	assert.Equal(t, []Effect{EffectReverse}, effectsOf(p.Chosen()))
	hand := p.Hand().Cards()
	assert.Equal(t, EffectGrow, hand[len(hand)-1].Effect, "undone card goes to the end of the hand")
}

func effectsOf(cards []Card) []Effect {
	out := make([]Effect, len(cards))
	for i, c := range cards {
		out[i] = c.Effect
	}
	return out
}

func TestMatchEntersSimulationOnlyWhenBothConfirm(t *testing.T) {
	m := NewMatch(rulesWithStarts(Start{}, Start{Head: Point{X: 10, Y: 10}}), [SeatCount]string{"u1", "u2"}, FixedDealer{
		SeatOne: repeat(EffectSkip, 5),
		SeatTwo: repeat(EffectSkip, 5),
	})

	for i := 0; i < 5; i++ {
		require.True(t, m.SelectCard(SeatOne, 0))
	}
	require.True(t, m.ConfirmSelection(SeatOne))
	assert.False(t, m.ConfirmSelection(SeatOne), "second confirm is ignored")
	assert.False(t, m.UndoLastSelection(SeatOne), "confirmed queue is locked")
	assert.Equal(t, PhasePlanning, m.Phase())
	assert.Equal(t, StatusConfirmed, m.Player(SeatOne).Status())

	active, ok := m.ActiveSeat()
	require.True(t, ok)
	assert.Equal(t, SeatTwo, active)

	for i := 0; i < 5; i++ {
		require.True(t, m.SelectCard(SeatTwo, 0))
	}
	require.True(t, m.ConfirmSelection(SeatTwo))
	assert.Equal(t, PhaseSimulating, m.Phase())
	assert.False(t, m.SelectCard(SeatTwo, 0))
	_, ok = m.ActiveSeat()
	assert.False(t, ok)
}

func TestMatchPlayerOneHitsBodyPlayerTwoWins(t *testing.T) {
	// Seat two stands still pointing up with its body on column 10; seat one
	// double-moves from (8,7) into (10,7), which is seat two's body.
	m := NewMatch(rulesWithStarts(
		Start{Head: Point{X: 8, Y: 7}, Direction: Right},
		Start{Head: Point{X: 10, Y: 5}, Direction: Up},
	), [SeatCount]string{"u1", "u2"}, FixedDealer{
		SeatOne: append(cardsOf(EffectDoubleMove), repeat(EffectSkip, 4)...),
		SeatTwo: repeat(EffectSkip, 5),
	})
	planAll(t, m)

	res := m.AdvanceSimulationTick()

	assert.Equal(t, [SeatCount]bool{true, false}, res.Collisions)
	assert.Equal(t, OutcomePlayerTwoWins, res.Outcome)
	assert.Equal(t, PhaseRoundEnded, m.Phase())
	assert.True(t, m.Collided())
	winner, ok := m.Winner()
	require.True(t, ok)
	assert.Equal(t, SeatTwo, winner)
	assert.Equal(t, EffectDoubleMove, res.Steps[SeatOne].Card.Effect)
	assert.Equal(t, StepApplied, res.Steps[SeatTwo].Result)
}

func TestMatchPlayerTwoHitsBodyPlayerOneWins(t *testing.T) {
	m := NewMatch(rulesWithStarts(
		Start{Head: Point{X: 10, Y: 5}, Direction: Up},
		Start{Head: Point{X: 12, Y: 7}, Direction: Left},
	), [SeatCount]string{"u1", "u2"}, FixedDealer{
		SeatOne: repeat(EffectSkip, 5),
		SeatTwo: append(cardsOf(EffectDoubleMove), repeat(EffectSkip, 4)...),
	})
	planAll(t, m)

	res := m.AdvanceSimulationTick()

	assert.Equal(t, [SeatCount]bool{false, true}, res.Collisions)
	assert.Equal(t, OutcomePlayerOneWins, m.Outcome())
}

func TestMatchHeadOnIsDraw(t *testing.T) {
	m := NewMatch(rulesWithStarts(
		Start{Head: Point{X: 5, Y: 10}, Direction: Right},
		Start{Head: Point{X: 7, Y: 10}, Direction: Left},
	), [SeatCount]string{"u1", "u2"}, FixedDealer{
		SeatOne: append(cardsOf(EffectDoubleMove), repeat(EffectSkip, 4)...),
		SeatTwo: append(cardsOf(EffectDoubleMove), repeat(EffectSkip, 4)...),
	})
	planAll(t, m)

	res := m.AdvanceSimulationTick()

	assert.Equal(t, [SeatCount]bool{true, true}, res.Collisions)
	assert.Equal(t, OutcomeDraw, m.Outcome())
	_, ok := m.Winner()
	assert.False(t, ok)
}

func TestMatchRoundLimitDraw(t *testing.T) {
	r := rulesWithStarts(
		Start{Head: Point{X: 2, Y: 2}, Direction: Right},
		Start{Head: Point{X: 12, Y: 12}, Direction: Left},
	)
	r.MaxRounds = 3
	m := NewMatch(r, [SeatCount]string{"u1", "u2"}, FixedDealer{
		SeatOne: repeat(EffectSkip, 2),
		SeatTwo: repeat(EffectSkip, 2),
	})
	planAll(t, m)

	ticks := runToEnd(t, m)

	applied := 0
	for _, tick := range ticks {
		if tick.Steps[SeatOne].Result == StepApplied {
			applied++
		}
	}
	assert.Equal(t, 6, applied, "three passes over a two-card queue")
	assert.Len(t, ticks, 9)
	assert.Equal(t, OutcomeRoundLimitDraw, m.Outcome())
	assert.Equal(t, StepRoundLimit, ticks[len(ticks)-1].Steps[SeatTwo].Result)
	assert.Equal(t, 3, m.Round())
	assert.Equal(t, StatusFinished, m.Player(SeatOne).Status())
}

func TestMatchEndToEndRoundLimitDraw(t *testing.T) {
	r := DefaultRules()
	r.GridSize = 20
	r.InitialLength = 5
	r.HandSize = 5
	m := NewMatch(r, [SeatCount]string{"u1", "u2"}, FixedDealer{
		SeatOne: cardsOf(EffectDoubleMove, EffectSkip, EffectDoubleMove, EffectSkip, EffectDoubleMove),
		SeatTwo: cardsOf(EffectSkip, EffectDoubleMove, EffectDoubleMove, EffectSkip, EffectDoubleMove),
	})
	require.Equal(t, Point{X: 5, Y: 0}, m.Player(SeatOne).Snake().Head())
	require.Equal(t, Right, m.Player(SeatOne).Snake().Direction())
	require.Equal(t, Point{X: 14, Y: 19}, m.Player(SeatTwo).Snake().Head())
	require.Equal(t, Left, m.Player(SeatTwo).Snake().Direction())

	planAll(t, m)
	ticks := runToEnd(t, m)

	assert.Equal(t, OutcomeRoundLimitDraw, m.Outcome())
	assert.Len(t, ticks, 18)
	for _, tick := range ticks {
		assert.Equal(t, [SeatCount]bool{}, tick.Collisions)
	}
	assert.Equal(t, 5, m.Player(SeatOne).Snake().Len())
	assert.Equal(t, 5, m.Player(SeatTwo).Snake().Len())
	// 9 double moves per seat: 18 cells along a 20-cell row.
	assert.Equal(t, Point{X: 3, Y: 0}, m.Player(SeatOne).Snake().Head())
	assert.Equal(t, Point{X: 16, Y: 19}, m.Player(SeatTwo).Snake().Head())
}

func TestMatchUpdateFiresTicksOnInterval(t *testing.T) {
	r := rulesWithStarts(
		Start{Head: Point{X: 2, Y: 2}, Direction: Right},
		Start{Head: Point{X: 12, Y: 12}, Direction: Left},
	)
	r.TickInterval = 500 * time.Millisecond
	m := NewMatch(r, [SeatCount]string{"u1", "u2"}, FixedDealer{
		SeatOne: repeat(EffectSkip, 5),
		SeatTwo: repeat(EffectSkip, 5),
	})
	planAll(t, m)

	assert.Empty(t, m.Update(250*time.Millisecond))
	assert.Len(t, m.Update(250*time.Millisecond), 1)
	assert.Len(t, m.Update(time.Second), 2)
	assert.Equal(t, int64(3), m.Tick())
	assert.Nil(t, m.Update(-time.Second))

	// Ticks stop as soon as the match ends, even with time left over.
	results := m.Update(time.Minute)
	require.NotEmpty(t, results)
	assert.Equal(t, OutcomeRoundLimitDraw, results[len(results)-1].Outcome)
	assert.Equal(t, PhaseRoundEnded, m.Phase())
	assert.Nil(t, m.Update(time.Second))
}

func TestMatchCollisionBeatsRoundLimitInSameTick(t *testing.T) {
	// Seat one's single-card queue hits the round limit on tick 2, the same
	// tick seat two double-moves into seat one's body.
	r := rulesWithStarts(
		Start{Head: Point{X: 10, Y: 5}, Direction: Up},
		Start{Head: Point{X: 12, Y: 7}, Direction: Left},
	)
	r.MaxRounds = 1
	m := NewMatch(r, [SeatCount]string{"u1", "u2"}, FixedDealer{
		SeatOne: cardsOf(EffectSkip),
		SeatTwo: cardsOf(EffectSkip, EffectDoubleMove),
	})
	planAll(t, m)

	ticks := runToEnd(t, m)
	require.Len(t, ticks, 2)
	assert.Equal(t, StepRoundLimit, ticks[1].Steps[SeatOne].Result)
	assert.Equal(t, [SeatCount]bool{false, true}, ticks[1].Collisions)
	assert.Equal(t, OutcomePlayerOneWins, m.Outcome())
}

func TestMatchSeatsOwnIndependentState(t *testing.T) {
	m := NewMatch(DefaultRules(), [SeatCount]string{"u1", "u2"}, NewRandomDealer(rand.New(rand.NewSource(5)), nil))

	one, two := m.Player(SeatOne), m.Player(SeatTwo)
	assert.NotSame(t, one.Snake(), two.Snake())
	assert.NotSame(t, one.Hand(), two.Hand())
	assert.NotEqual(t, one.Hand().Cards(), two.Hand().Cards())
}
