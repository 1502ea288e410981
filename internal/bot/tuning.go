package bot

// CautiousTuning weights the scoring rules of CautiousBot.
type CautiousTuning struct {
	// CollisionPenalty is subtracted when a card lands the head on the opponent.
	CollisionPenalty float64
	// HeadDistanceWeight rewards each cell of distance from the opponent's head.
	HeadDistanceWeight float64
	// GrowthWeight rewards each segment gained.
	GrowthWeight float64
	// Jitter is the largest random tie-break added to a score.
	Jitter float64
}

// DefaultTuning keeps the snake alive first and apart from the opponent second.
var DefaultTuning = CautiousTuning{
	CollisionPenalty:   1000,
	HeadDistanceWeight: 1.0,
	GrowthWeight:       0.5,
	Jitter:             0.01,
}
