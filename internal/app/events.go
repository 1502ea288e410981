package app

import "snakecards/internal/domain"

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventPlayerJoined       EventKind = "player_joined"
	EventPlayerLeft         EventKind = "player_left"
	EventPlanningStarted    EventKind = "planning_started"
	EventHandDealt          EventKind = "hand_dealt"
	EventCardSelected       EventKind = "card_selected"
	EventSelectionUndone    EventKind = "selection_undone"
	EventSelectionConfirmed EventKind = "selection_confirmed"
	EventSimulationStarted  EventKind = "simulation_started"
	EventTickResolved       EventKind = "tick_resolved"
	EventMatchEnded         EventKind = "match_ended"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	UserID string
	Seat   int
	Bot    bool
}

type PlayerLeftPayload struct {
	UserID string
}

// SnakeView is the public state of one snake.
type SnakeView struct {
	UserID    string
	Seat      int
	Segments  []domain.Point
	Direction domain.Direction
	Length    int
}

type PlanningStartedPayload struct {
	GridSize  int
	HandSize  int
	MaxRounds int
	Snakes    []SnakeView
}

type HandDealtPayload struct {
	UserID string
	Hand   []domain.Card
}

// SelectionPayload is shared by select and undo events. Card is only set on
// the copy sent to the owner; the opponent sees counts.
type SelectionPayload struct {
	UserID    string
	Card      *domain.Card
	HandCount int
	Chosen    int
}

type SelectionConfirmedPayload struct {
	UserID string
}

type SimulationStartedPayload struct {
	// Queues holds each seat's chosen cards, revealed now that planning is over.
	Queues  [domain.SeatCount][]domain.Card
	UserIDs [domain.SeatCount]string
}

// StepView is what one seat did during a tick.
type StepView struct {
	UserID string
	Result domain.StepResult
	Card   *domain.Card
	Round  int
}

type TickResolvedPayload struct {
	Tick       int64
	Round      int
	Steps      []StepView
	Snakes     []SnakeView
	Collisions [domain.SeatCount]bool
}

type MatchEndedPayload struct {
	Result MatchResult
	// Token is the signed result receipt, empty when signing is disabled.
	Token string
}
