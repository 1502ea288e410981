package domain

import (
	"math/rand"

	"github.com/google/uuid"
)

// EffectWeight is one entry of the weighted card table.
type EffectWeight struct {
	Effect Effect `json:"effect" yaml:"effect"`
	Weight int    `json:"weight" yaml:"weight"`
}

// DefaultEffectWeights is the stock card distribution.
func DefaultEffectWeights() []EffectWeight {
	return []EffectWeight{
		{Effect: EffectMove, Weight: 40},
		{Effect: EffectGrow, Weight: 15},
		{Effect: EffectShrink, Weight: 15},
		{Effect: EffectDoubleMove, Weight: 20},
		{Effect: EffectReverse, Weight: 5},
		{Effect: EffectSkip, Weight: 5},
	}
}

// Dealer produces the hand a seat starts a match with.
type Dealer interface {
	Deal(seat Seat, size int) []Card
}

// RandomDealer draws effects from a weight table.
type RandomDealer struct {
	rng     *rand.Rand
	weights []EffectWeight
	total   int
}

// NewRandomDealer builds a dealer over weights. Non-positive weights are
// ignored; an empty table falls back to DefaultEffectWeights.
func NewRandomDealer(rng *rand.Rand, weights []EffectWeight) *RandomDealer {
	d := &RandomDealer{rng: rng}
	for _, w := range weights {
		if w.Weight > 0 {
			d.weights = append(d.weights, w)
			d.total += w.Weight
		}
	}
	if d.total == 0 {
		d.weights = DefaultEffectWeights()
		for _, w := range d.weights {
			d.total += w.Weight
		}
	}
	return d
}

// Deal draws size cards. Move cards also get a uniform left/right turn.
func (d *RandomDealer) Deal(_ Seat, size int) []Card {
	hand := make([]Card, 0, size)
	for i := 0; i < size; i++ {
		card := Card{ID: d.newID(), Effect: d.drawEffect()}
		if card.Effect == EffectMove {
			if d.rng.Intn(2) == 0 {
				card.Turn = TurnLeft
			} else {
				card.Turn = TurnRight
			}
		}
		hand = append(hand, card)
	}
	return hand
}

func (d *RandomDealer) drawEffect() Effect {
	roll := d.rng.Intn(d.total)
	current := 0
	for _, w := range d.weights {
		current += w.Weight
		if roll < current {
			return w.Effect
		}
	}
	return d.weights[len(d.weights)-1].Effect
}

func (d *RandomDealer) newID() string {
	id, err := uuid.NewRandomFromReader(d.rng)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// FixedDealer deals predetermined hands, one per seat.
type FixedDealer [SeatCount][]Card

// Deal returns a copy of the seat's hand, truncated to size.
func (d FixedDealer) Deal(seat Seat, size int) []Card {
	cards := d[seat]
	if len(cards) > size {
		cards = cards[:size]
	}
	return append([]Card(nil), cards...)
}
