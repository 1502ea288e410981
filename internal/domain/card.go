package domain

import "fmt"

// Effect is the action a card applies to a snake.
type Effect int

const (
	EffectMove Effect = iota + 1
	EffectDoubleMove
	EffectGrow
	EffectShrink
	EffectReverse
	EffectSkip
)

// AllEffects lists every effect in declaration order.
var AllEffects = []Effect{EffectMove, EffectDoubleMove, EffectGrow, EffectShrink, EffectReverse, EffectSkip}

func (e Effect) String() string {
	switch e {
	case EffectMove:
		return "Move"
	case EffectDoubleMove:
		return "Double Move"
	case EffectGrow:
		return "Grow"
	case EffectShrink:
		return "Shrink"
	case EffectReverse:
		return "Reverse"
	case EffectSkip:
		return "Skip"
	default:
		return fmt.Sprintf("Effect(%d)", int(e))
	}
}

// ParseEffect maps a display name ("Double Move") back to its Effect.
func ParseEffect(name string) (Effect, error) {
	for _, e := range AllEffects {
		if e.String() == name {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown card effect %q", name)
}

// Card is an immutable move card. Turn is only meaningful for EffectMove.
type Card struct {
	ID     string `json:"id"`
	Effect Effect `json:"effect"`
	Turn   Turn   `json:"turn,omitempty"`
}

// Apply runs the card's effect against s.
func (c Card) Apply(s *Snake) {
	switch c.Effect {
	case EffectMove:
		s.QueueTurn(c.Turn)
		s.Advance()
	case EffectDoubleMove:
		s.Advance()
		s.Advance()
	case EffectGrow:
		s.Grow()
		s.Advance()
	case EffectShrink:
		s.Shrink()
		s.Advance()
	case EffectReverse:
		s.Reverse()
	case EffectSkip:
	}
}

// Name is the label shown on the card face, e.g. "Move left".
func (c Card) Name() string {
	if c.Effect == EffectMove && c.Turn != TurnNone {
		return c.Effect.String() + " " + c.Turn.String()
	}
	return c.Effect.String()
}

// Description is the short help text for the card's effect.
func (c Card) Description() string {
	switch c.Effect {
	case EffectMove:
		return "Turn and move forward"
	case EffectDoubleMove:
		return "Move forward twice"
	case EffectGrow:
		return "Add a segment and move"
	case EffectShrink:
		return "Remove tail segment and move"
	case EffectReverse:
		return "Reverse snake direction"
	case EffectSkip:
		return "Do nothing"
	default:
		return "Unknown"
	}
}
