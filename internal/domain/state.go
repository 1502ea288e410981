package domain

// Phase represents the lifecycle stage of a match.
type Phase string

const (
	// PhasePlanning is the stage where both players pick their cards.
	PhasePlanning Phase = "planning"
	// PhaseSimulating is the stage where both snakes execute their queued cards.
	PhaseSimulating Phase = "simulating"
	// PhaseRoundEnded is terminal for a match instance.
	PhaseRoundEnded Phase = "ended"
)

// Outcome is the single result owned by a Match.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomePlayerOneWins
	OutcomePlayerTwoWins
	OutcomeDraw
	// OutcomeRoundLimitDraw means every round was played without a collision.
	OutcomeRoundLimitDraw
)

func (o Outcome) String() string {
	switch o {
	case OutcomePlayerOneWins:
		return "player_one_wins"
	case OutcomePlayerTwoWins:
		return "player_two_wins"
	case OutcomeDraw:
		return "draw"
	case OutcomeRoundLimitDraw:
		return "round_limit_draw"
	default:
		return "none"
	}
}

// Seat identifies one of the two players of a match.
type Seat int

const (
	SeatOne Seat = 0
	SeatTwo Seat = 1
)

// SeatCount is the number of players in a match.
const SeatCount = 2

// Other returns the opposing seat.
func (s Seat) Other() Seat {
	if s == SeatOne {
		return SeatTwo
	}
	return SeatOne
}

// Valid reports whether s names one of the two seats.
func (s Seat) Valid() bool {
	return s == SeatOne || s == SeatTwo
}

// PlayerStatus is the read-only local status of a single player.
type PlayerStatus string

const (
	StatusPlanning  PlayerStatus = "planning"
	StatusConfirmed PlayerStatus = "confirmed"
	StatusExecuting PlayerStatus = "executing"
	StatusFinished  PlayerStatus = "finished"
)
