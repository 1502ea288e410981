package nakama

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"snakecards/internal/app"
	"snakecards/internal/domain"
)

// marshalPayload encodes fields as a JSON object via structpb.
func marshalPayload(fields map[string]interface{}) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build payload: %w", err)
	}
	return protojson.Marshal(s)
}

// decodePayload parses a client message. An empty body decodes to an empty map.
func decodePayload(data []byte) (map[string]interface{}, error) {
	if len(data) == 0 {
		return map[string]interface{}{}, nil
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return s.AsMap(), nil
}

// readHandIndex extracts {"hand_index": n} from a select message.
func readHandIndex(data []byte) (int, error) {
	fields, err := decodePayload(data)
	if err != nil {
		return 0, err
	}
	raw, ok := fields["hand_index"]
	if !ok {
		return 0, fmt.Errorf("hand_index is required")
	}
	v, ok := raw.(float64)
	if !ok || v != math.Trunc(v) || v < 0 || v > math.MaxInt32 {
		return 0, fmt.Errorf("hand_index must be a non-negative integer")
	}
	return int(v), nil
}

// encodeLabel renders the match label as JSON.
func encodeLabel(label domain.LabelPayload) (string, error) {
	data, err := marshalPayload(map[string]interface{}{
		"open":  label.Open,
		"game":  label.Game,
		"phase": label.Phase,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// encodeEvent maps an app event to its op code and wire payload.
func encodeEvent(ev app.Event) (int64, []byte, error) {
	var (
		op     int64
		fields map[string]interface{}
	)
	switch p := ev.Payload.(type) {
	case app.PlayerJoinedPayload:
		op = OpPlayerJoined
		fields = map[string]interface{}{"user_id": p.UserID, "seat": p.Seat, "bot": p.Bot}
	case app.PlayerLeftPayload:
		op = OpPlayerLeft
		fields = map[string]interface{}{"user_id": p.UserID}
	case app.PlanningStartedPayload:
		op = OpPlanningStarted
		fields = map[string]interface{}{
			"grid_size":  p.GridSize,
			"hand_size":  p.HandSize,
			"max_rounds": p.MaxRounds,
			"snakes":     snakeList(p.Snakes),
		}
	case app.HandDealtPayload:
		op = OpHandDealt
		fields = map[string]interface{}{"user_id": p.UserID, "hand": cardList(p.Hand)}
	case app.SelectionPayload:
		op = OpCardSelected
		if ev.Kind == app.EventSelectionUndone {
			op = OpSelectionUndone
		}
		fields = map[string]interface{}{
			"user_id":    p.UserID,
			"hand_count": p.HandCount,
			"chosen":     p.Chosen,
		}
		if p.Card != nil {
			fields["card"] = cardMap(*p.Card)
		}
	case app.SelectionConfirmedPayload:
		op = OpSelectionConfirmed
		fields = map[string]interface{}{"user_id": p.UserID}
	case app.SimulationStartedPayload:
		op = OpSimulationStarted
		queues := make([]interface{}, 0, domain.SeatCount)
		for seat := range p.Queues {
			queues = append(queues, map[string]interface{}{
				"user_id": p.UserIDs[seat],
				"seat":    seat,
				"cards":   cardList(p.Queues[seat]),
			})
		}
		fields = map[string]interface{}{"queues": queues}
	case app.TickResolvedPayload:
		op = OpTickResolved
		steps := make([]interface{}, 0, len(p.Steps))
		for _, step := range p.Steps {
			m := map[string]interface{}{
				"user_id": step.UserID,
				"result":  stepResultName(step.Result),
				"round":   step.Round,
			}
			if step.Card != nil {
				m["card"] = cardMap(*step.Card)
			}
			steps = append(steps, m)
		}
		collisions := make([]interface{}, 0, domain.SeatCount)
		for _, c := range p.Collisions {
			collisions = append(collisions, c)
		}
		fields = map[string]interface{}{
			"tick":       p.Tick,
			"round":      p.Round,
			"steps":      steps,
			"snakes":     snakeList(p.Snakes),
			"collisions": collisions,
		}
	case app.MatchEndedPayload:
		op = OpMatchEnded
		fields = map[string]interface{}{"result": resultMap(p.Result)}
		if p.Token != "" {
			fields["token"] = p.Token
		}
	default:
		return 0, nil, fmt.Errorf("unsupported event payload %T for %s", ev.Payload, ev.Kind)
	}
	data, err := marshalPayload(fields)
	if err != nil {
		return 0, nil, fmt.Errorf("encode %s: %w", ev.Kind, err)
	}
	return op, data, nil
}

func cardMap(c domain.Card) map[string]interface{} {
	m := map[string]interface{}{
		"id":          c.ID,
		"effect":      c.Effect.String(),
		"name":        c.Name(),
		"description": c.Description(),
	}
	if c.Effect == domain.EffectMove {
		m["turn"] = c.Turn.String()
	}
	return m
}

func cardList(cards []domain.Card) []interface{} {
	out := make([]interface{}, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardMap(c))
	}
	return out
}

func snakeList(snakes []app.SnakeView) []interface{} {
	out := make([]interface{}, 0, len(snakes))
	for _, s := range snakes {
		segments := make([]interface{}, 0, len(s.Segments))
		for _, pt := range s.Segments {
			segments = append(segments, map[string]interface{}{"x": pt.X, "y": pt.Y})
		}
		out = append(out, map[string]interface{}{
			"user_id":   s.UserID,
			"seat":      s.Seat,
			"segments":  segments,
			"direction": s.Direction.String(),
			"length":    s.Length,
		})
	}
	return out
}

func resultMap(r app.MatchResult) map[string]interface{} {
	players := make([]interface{}, 0, domain.SeatCount)
	lengths := make([]interface{}, 0, domain.SeatCount)
	for seat := range r.UserIDs {
		players = append(players, r.UserIDs[seat])
		lengths = append(lengths, r.Lengths[seat])
	}
	m := map[string]interface{}{
		"match_id": r.MatchID,
		"outcome":  r.Outcome,
		"players":  players,
		"lengths":  lengths,
		"ticks":    r.Ticks,
		"round":    r.Round,
	}
	if r.WinnerUserID != "" {
		m["winner"] = r.WinnerUserID
	}
	return m
}

func stepResultName(r domain.StepResult) string {
	switch r {
	case domain.StepApplied:
		return "applied"
	case domain.StepRoundAdvanced:
		return "round_advanced"
	case domain.StepRoundLimit:
		return "round_limit"
	default:
		return "idle"
	}
}
