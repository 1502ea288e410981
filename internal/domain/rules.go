package domain

import "time"

// Supported configuration ranges.
const (
	MinGridSize     = 10
	MaxGridSize     = 30
	MinHandSize     = 5
	MaxHandSize     = 20
	MinMaxRounds    = 1
	MaxMaxRounds    = 10
	MinTickInterval = 100 * time.Millisecond
	MaxTickInterval = 2 * time.Second
)

// Start is the spawn point and heading of one seat.
type Start struct {
	Head      Point     `json:"head"`
	Direction Direction `json:"direction"`
}

// Rules is the immutable configuration of a match.
type Rules struct {
	GridSize      int
	HandSize      int
	MaxRounds     int
	TickInterval  time.Duration
	InitialLength int
	CardsPerPage  int
	Weights       []EffectWeight
	Starts        [SeatCount]Start
	// StartsSet marks Starts as explicitly configured; otherwise they are
	// derived from the grid size.
	StartsSet bool
}

// DefaultRules returns the stock rules for a 20x20 grid.
func DefaultRules() Rules {
	return Rules{
		GridSize:      20,
		HandSize:      15,
		MaxRounds:     3,
		TickInterval:  500 * time.Millisecond,
		InitialLength: 5,
		CardsPerPage:  DefaultCardsPerPage,
		Weights:       DefaultEffectWeights(),
	}.Normalize()
}

// DefaultStarts places seat one on the top row heading right and seat two on
// the bottom row heading left, a quarter of the grid in from opposite edges.
func DefaultStarts(gridSize int) [SeatCount]Start {
	q := gridSize / 4
	return [SeatCount]Start{
		SeatOne: {Head: Point{X: q, Y: 0}, Direction: Right},
		SeatTwo: {Head: Point{X: gridSize - 1 - q, Y: gridSize - 1}, Direction: Left},
	}
}

// Normalize clamps every field into its supported range and fills gaps.
func (r Rules) Normalize() Rules {
	r.GridSize = clampInt(r.GridSize, MinGridSize, MaxGridSize)
	r.HandSize = clampInt(r.HandSize, MinHandSize, MaxHandSize)
	r.MaxRounds = clampInt(r.MaxRounds, MinMaxRounds, MaxMaxRounds)
	if r.TickInterval < MinTickInterval {
		r.TickInterval = MinTickInterval
	}
	if r.TickInterval > MaxTickInterval {
		r.TickInterval = MaxTickInterval
	}
	r.InitialLength = clampInt(r.InitialLength, MinSnakeLength, r.GridSize/2)
	if r.CardsPerPage < 1 {
		r.CardsPerPage = DefaultCardsPerPage
	}

	weights := make([]EffectWeight, 0, len(r.Weights))
	for _, w := range r.Weights {
		if w.Weight > 0 && w.Effect >= EffectMove && w.Effect <= EffectSkip {
			weights = append(weights, w)
		}
	}
	if len(weights) == 0 {
		weights = DefaultEffectWeights()
	}
	r.Weights = weights

	if !r.StartsSet {
		r.Starts = DefaultStarts(r.GridSize)
	}
	for i := range r.Starts {
		r.Starts[i].Head = r.Starts[i].Head.Wrap(r.GridSize)
		if r.Starts[i].Direction < Up || r.Starts[i].Direction > Right {
			r.Starts[i].Direction = Right
		}
	}
	return r
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
