package bot

import "snakecards/internal/domain"

// ScoreContext describes one candidate card during planning.
type ScoreContext struct {
	Card     domain.Card
	Before   *domain.Snake
	After    *domain.Snake
	Opponent *domain.Snake
	Tuning   CautiousTuning
}

// ScoreRule is one term of a candidate's score.
type ScoreRule interface {
	Score(ctx *ScoreContext) float64
}

// AvoidBodyRule punishes landing on any opponent segment.
type AvoidBodyRule struct{}

func (r *AvoidBodyRule) Score(ctx *ScoreContext) float64 {
	if ctx.Opponent.Occupies(ctx.After.Head()) {
		return -ctx.Tuning.CollisionPenalty
	}
	return 0
}

// HeadDistanceRule prefers positions far from the opponent's head.
type HeadDistanceRule struct{}

func (r *HeadDistanceRule) Score(ctx *ScoreContext) float64 {
	d := torusDistance(ctx.After.Head(), ctx.Opponent.Head(), ctx.After.GridSize())
	return float64(d) * ctx.Tuning.HeadDistanceWeight
}

// GrowthRule rewards a longer body.
type GrowthRule struct{}

func (r *GrowthRule) Score(ctx *ScoreContext) float64 {
	return float64(ctx.After.Len()-ctx.Before.Len()) * ctx.Tuning.GrowthWeight
}

// DefaultScoreRules is the rule set CautiousBot uses unless told otherwise.
func DefaultScoreRules() []ScoreRule {
	return []ScoreRule{&AvoidBodyRule{}, &HeadDistanceRule{}, &GrowthRule{}}
}

// torusDistance is the Manhattan distance on a wrapping grid.
func torusDistance(a, b domain.Point, size int) int {
	return torusAxis(a.X, b.X, size) + torusAxis(a.Y, b.Y, size)
}

func torusAxis(a, b, size int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if size > 0 && size-d < d {
		d = size - d
	}
	return d
}
