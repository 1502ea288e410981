package nakama

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"snakecards/internal/app"
	"snakecards/internal/bot"
	"snakecards/internal/config"
	"snakecards/internal/domain"
	"snakecards/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const maxTickRate = 60

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	MatchID              string                      `json:"match_id"`
	Seats                [domain.SeatCount]string    `json:"seats"`                   // User IDs, empty string means seat is empty
	Tick                 int64                       `json:"tick"`                    // Nakama loop tick
	TickRate             int                         `json:"tick_rate"`               // Loop iterations per second
	Games                int                         `json:"games"`                   // Matches started in this room
	Presences            map[string]runtime.Presence `json:"-"`                       // Map UserId -> Presence for targeted messaging
	App                  *app.Service                `json:"-"`                       // Snake Cards use-cases
	Match                *domain.Match               `json:"-"`                       // Current match (nil while in lobby)
	Config               *config.GameConfig          `json:"-"`                       // Effective config for this room
	BotsEnabled          bool                        `json:"bots_enabled"`            // Whether AI players are allowed
	BotAutoFillTicks     int64                       `json:"bot_auto_fill_ticks"`     // Ticks a solo human waits before a bot joins
	BotMinDelayTicks     int64                       `json:"bot_min_delay_ticks"`     // Min ticks a bot thinks
	BotMaxDelayTicks     int64                       `json:"bot_max_delay_ticks"`     // Max ticks a bot thinks
	BotWaitUntil         map[string]int64            `json:"bot_wait_until"`          // Bot user ID -> tick when it plans
	LastSinglePlayerTick int64                       `json:"last_single_player_tick"` // Tick when a single player started waiting
	SinglePlayerWaiting  bool                        `json:"single_player_waiting"`   // Whether LastSinglePlayerTick is set
	RematchVotes         map[string]bool             `json:"rematch_votes"`           // Humans asking for a rematch
	Bots                 map[string]*bot.Agent       `json:"-"`                       // Active bot agents
	Economy              ports.EconomyPort           `json:"-"`                       // Wallet balances for snapshots
	Results              ports.ResultPort            `json:"-"`                       // Match settlement
	rng                  *rand.Rand
}

// newMatchState builds a lobby for cfg. A nil rng uses a time-seeded source.
func newMatchState(matchID string, cfg *config.GameConfig, rng *rand.Rand) *MatchState {
	if cfg == nil {
		cfg = config.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.TickRate < 1 {
		cfg.TickRate = 1
	} else if cfg.TickRate > maxTickRate {
		cfg.TickRate = maxTickRate
	}

	minDelay, maxDelay := cfg.BotDelayRange()
	signer := app.NewResultSigner(cfg.ResultSignKey, app.ResultIssuer, 0)
	return &MatchState{
		MatchID:          matchID,
		TickRate:         cfg.TickRate,
		Presences:        make(map[string]runtime.Presence),
		App:              app.NewService(rng, app.WithResultSigner(signer)),
		Config:           cfg,
		BotsEnabled:      true,
		BotAutoFillTicks: durationToTicks(time.Duration(cfg.BotAutoFillDelaySeconds)*time.Second, cfg.TickRate),
		BotMinDelayTicks: durationToTicks(minDelay, cfg.TickRate),
		BotMaxDelayTicks: durationToTicks(maxDelay, cfg.TickRate),
		BotWaitUntil:     make(map[string]int64),
		RematchVotes:     make(map[string]bool),
		Bots:             make(map[string]*bot.Agent),
		rng:              rng,
	}
}

func durationToTicks(d time.Duration, tickRate int) int64 {
	if d <= 0 {
		return 0
	}
	return int64(math.Ceil(d.Seconds() * float64(tickRate)))
}

// GameID identifies the current game within this room; rematches get a new one.
func (ms *MatchState) GameID() string {
	return fmt.Sprintf("%s#%d", ms.MatchID, ms.Games)
}

func (ms *MatchState) GetOpenSeatsCount() int {
	return domain.OpenSeats(&ms.Seats)
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

func (ms *MatchState) seatOf(userID string) (domain.Seat, bool) {
	for i, seatUserID := range ms.Seats {
		if userID != "" && seatUserID == userID {
			return domain.Seat(i), true
		}
	}
	return domain.SeatOne, false
}

func (ms *MatchState) hasBotSeat() bool {
	for _, seat := range ms.Seats {
		if isBotUserId(seat) {
			return true
		}
	}
	return false
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return userId != "" && bot.IsBot(userId)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !isBotUserId(userId) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when there are no humans in the match.
func shouldTerminateNoHumans(seats []string) bool {
	return findFirstHumanSeat(seats) == -1
}

// botsEnabled reads the runtime env switch; bots are on unless disabled.
func botsEnabled(env map[string]string) bool {
	raw, ok := env[envBotsEnabled]
	if !ok {
		return true
	}
	enabled, err := strconv.ParseBool(raw)
	return err != nil || enabled
}

type matchHandler struct{}

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	cfg := matchConfig(ctx, logger)

	state := newMatchState(matchID, cfg, nil)
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		state.BotsEnabled = botsEnabled(env)
	}
	if nk != nil {
		state.Economy = NewNakamaEconomyAdapter(nk)
		state.Results = NewNakamaResultAdapter(nk)
	}

	label, err := encodeLabel(domain.ComputeLabel(&state.Seats, nil))
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	logger.Debug("MatchInit: Match %s ready (tick_rate=%d, bots=%t).", matchID, state.TickRate, state.BotsEnabled)
	return state, state.TickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if _, seated := matchState.seatOf(presence.GetUserId()); seated {
		return state, true, ""
	}
	if matchState.GetOpenSeatsCount() > 0 {
		return state, true, ""
	}
	// A bot gives its seat to a human while no match is running.
	if matchState.Match == nil && matchState.hasBotSeat() {
		return state, true, ""
	}
	return state, false, "Match full"
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p

		if seat, seated := matchState.seatOf(userID); seated {
			logger.Debug("MatchJoin: User %s rejoined seat %d.", userID, seat)
			mh.resendHand(ctx, matchState, dispatcher, logger, seat)
			continue
		}

		seat, assigned := domain.LowestAvailableSeat(&matchState.Seats)
		if !assigned && matchState.Match == nil {
			for i, seatUserID := range matchState.Seats {
				if isBotUserId(seatUserID) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserID, userID, i)
					delete(matchState.Bots, seatUserID)
					delete(matchState.BotWaitUntil, seatUserID)
					seat, assigned = domain.Seat(i), true
					break
				}
			}
		}
		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", userID)
			continue
		}

		matchState.Seats[seat] = userID
		mh.broadcastEvent(ctx, matchState, dispatcher, logger, app.Event{
			Kind:    app.EventPlayerJoined,
			Payload: app.PlayerJoinedPayload{UserID: userID, Seat: int(seat)},
		})
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(ctx, matchState, dispatcher, logger)
	mh.maybeStartMatch(ctx, matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	seatFreed := false
	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)
		delete(matchState.RematchVotes, userID)

		seat, seated := matchState.seatOf(userID)
		if !seated {
			continue
		}
		matchState.Seats[seat] = ""
		seatFreed = true
		logger.Debug("MatchLeave: User %s left, seat %d freed.", userID, seat)
		mh.broadcastEvent(ctx, matchState, dispatcher, logger, app.Event{
			Kind:    app.EventPlayerLeft,
			Payload: app.PlayerLeftPayload{UserID: userID},
		})
	}

	if seatFreed && matchState.Match != nil {
		if matchState.Match.Phase() != domain.PhaseRoundEnded {
			logger.Info("MatchLeave: Abandoning game %s in phase %s.", matchState.GameID(), matchState.Match.Phase())
		}
		mh.returnToLobby(matchState)
	}

	if shouldTerminateNoHumans(matchState.Seats[:]) {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(ctx, matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpSelectCard:
			mh.handleSelectCard(ctx, matchState, dispatcher, logger, msg)
		case OpUndoSelection:
			mh.handleUndoSelection(ctx, matchState, dispatcher, logger, msg)
		case OpConfirmSelection:
			mh.handleConfirmSelection(ctx, matchState, dispatcher, logger, msg)
		case OpRequestRematch:
			mh.handleRequestRematch(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	mh.maybeStartMatch(ctx, matchState, dispatcher, logger)
	mh.advanceSimulation(ctx, matchState, dispatcher, logger)

	return matchState
}

// maybeStartMatch starts a match once both seats are filled in the lobby.
func (mh *matchHandler) maybeStartMatch(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Match != nil || state.GetOpenSeatsCount() > 0 {
		return
	}
	m, events, err := state.App.StartMatch(state.Config.Rules(), state.Seats)
	if err != nil {
		logger.Error("StartMatch: Failed to start match: %v", err)
		return
	}
	mh.beginGame(ctx, state, dispatcher, logger, m, events)
	logger.Info("StartMatch: Game %s started.", state.GameID())
}

func (mh *matchHandler) beginGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, m *domain.Match, events []app.Event) {
	state.Match = m
	state.Games++
	state.RematchVotes = make(map[string]bool)
	state.BotWaitUntil = make(map[string]int64)
	state.LastSinglePlayerTick = 0
	state.SinglePlayerWaiting = false

	mh.updateLabel(state, dispatcher, logger)
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) returnToLobby(state *MatchState) {
	state.Match = nil
	state.RematchVotes = make(map[string]bool)
	state.BotWaitUntil = make(map[string]int64)
	state.LastSinglePlayerTick = 0
	state.SinglePlayerWaiting = false
}

// advanceSimulation feeds one loop interval of host time into a simulating match.
func (mh *matchHandler) advanceSimulation(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Match == nil || state.Match.Phase() != domain.PhaseSimulating {
		return
	}
	events, err := state.App.Advance(state.GameID(), state.Match, state.Config.LoopTick())
	if err != nil {
		logger.Error("MatchLoop: Advance failed for game %s: %v", state.GameID(), err)
	}
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleSelectCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	handIndex, err := readHandIndex(msg.GetData())
	if err != nil {
		logger.Warn("handleSelectCard: Invalid payload from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	events, err := state.App.SelectCard(state.Match, senderID, handIndex)
	if err != nil {
		logger.Warn("handleSelectCard: User %s failed to select card %d: %v", senderID, handIndex, err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleUndoSelection(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	events, err := state.App.UndoSelection(state.Match, senderID)
	if err != nil {
		logger.Warn("handleUndoSelection: User %s failed to undo: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleConfirmSelection(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	events, err := state.App.ConfirmSelection(state.Match, senderID)
	if err != nil {
		logger.Warn("handleConfirmSelection: User %s failed to confirm: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleRequestRematch(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if _, seated := state.seatOf(senderID); !seated {
		mh.sendError(state, dispatcher, logger, senderID, errorCode(app.ErrUnknownPlayer), app.ErrUnknownPlayer.Error())
		return
	}
	if state.Match == nil || state.Match.Phase() != domain.PhaseRoundEnded {
		mh.sendError(state, dispatcher, logger, senderID, errorCode(app.ErrMatchNotEnded), app.ErrMatchNotEnded.Error())
		return
	}

	state.RematchVotes[senderID] = true
	for _, userID := range state.Seats {
		if !isBotUserId(userID) && !state.RematchVotes[userID] {
			logger.Debug("handleRequestRematch: %s voted, waiting for %s.", senderID, userID)
			return
		}
	}

	m, events, err := state.App.Rematch(state.Match)
	if err != nil {
		logger.Error("handleRequestRematch: Rematch failed: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		return
	}
	mh.beginGame(ctx, state, dispatcher, logger, m, events)
	logger.Info("handleRequestRematch: Game %s started.", state.GameID())
}

// resendHand sends a rejoining player their private hand during planning.
func (mh *matchHandler) resendHand(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat domain.Seat) {
	if state.Match == nil || state.Match.Phase() != domain.PhasePlanning {
		return
	}
	p := state.Match.Player(seat)
	mh.broadcastEvent(ctx, state, dispatcher, logger, app.Event{
		Kind:       app.EventHandDealt,
		Payload:    app.HandDealtPayload{UserID: p.UserID, Hand: p.Hand().Cards()},
		Recipients: []string{p.UserID},
	})
}

// broadcastEvent encodes an app event and dispatches it to its recipients.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, bytes, err := encodeEvent(ev)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	switch ev.Kind {
	case app.EventSimulationStarted:
		mh.updateLabel(state, dispatcher, logger)
	case app.EventMatchEnded:
		if p, ok := ev.Payload.(app.MatchEndedPayload); ok {
			logger.Info("MatchEnded: Game %s finished with %s after %d ticks.", p.Result.MatchID, p.Result.Outcome, p.Result.Ticks)
			mh.settle(ctx, state, logger, p)
		}
		mh.updateLabel(state, dispatcher, logger)
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		// Targeted events for absent users (bots) must not leak to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	if err := dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true); err != nil {
		logger.Error("Failed to broadcast %v: %v", ev.Kind, err)
	}
}

// settle records the result for every human seat and pays their reward.
func (mh *matchHandler) settle(ctx context.Context, state *MatchState, logger runtime.Logger, ended app.MatchEndedPayload) {
	if state.Results == nil {
		return
	}
	rewards := ended.Result.Rewards(state.Config.WinReward, state.Config.DrawReward)
	for _, userID := range ended.Result.UserIDs {
		if userID == "" || isBotUserId(userID) {
			continue
		}
		reward := ports.MatchReward{
			MatchID: ended.Result.MatchID,
			UserID:  userID,
			Outcome: ended.Result.Outcome,
			Amount:  rewards[userID],
			Token:   ended.Token,
		}
		recorded, err := state.Results.RecordRewardOnce(ctx, reward)
		if err != nil {
			logger.Error("Settle: Failed to record result for %s: %v", userID, err)
			continue
		}
		if !recorded {
			logger.Warn("Settle: Game %s already settled for %s.", reward.MatchID, userID)
			continue
		}
		logger.Debug("Settle: %s earned %d gold in game %s.", userID, reward.Amount, reward.MatchID)
	}
}

func (mh *matchHandler) broadcastMatchState(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	bytes, err := marshalPayload(matchSnapshot(ctx, state, logger))
	if err != nil {
		logger.Error("broadcastMatchState: Failed to marshal snapshot: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpMatchState, bytes, nil, nil, true); err != nil {
		logger.Error("broadcastMatchState: Failed to broadcast: %v", err)
	}
}

// matchSnapshot is the public room state. Hands stay private.
func matchSnapshot(ctx context.Context, state *MatchState, logger runtime.Logger) map[string]interface{} {
	label := domain.ComputeLabel(&state.Seats, state.Match)

	seats := make([]interface{}, 0, domain.SeatCount)
	players := make([]interface{}, 0, domain.SeatCount)
	for i, userID := range state.Seats {
		seats = append(seats, userID)
		if userID == "" {
			continue
		}

		isBot := isBotUserId(userID)
		displayName := userID
		if p, exists := state.Presences[userID]; exists {
			displayName = p.GetUsername()
		} else if name := bot.GetBotDisplayName(userID); name != "" {
			displayName = name
		}

		entry := map[string]interface{}{
			"user_id":      userID,
			"seat":         i,
			"display_name": displayName,
			"bot":          isBot,
		}
		if !isBot && state.Economy != nil {
			if balance, err := state.Economy.GetBalance(ctx, userID); err != nil {
				logger.Debug("matchSnapshot: No balance for %s: %v", userID, err)
			} else {
				entry["balance"] = balance
			}
		}
		if state.Match != nil {
			p := state.Match.Player(domain.Seat(i))
			entry["status"] = string(p.Status())
			entry["hand_count"] = p.Hand().Len()
			entry["chosen"] = len(p.Chosen())
		}
		players = append(players, entry)
	}

	snapshot := map[string]interface{}{
		"match_id": state.MatchID,
		"seats":    seats,
		"players":  players,
		"phase":    label.Phase,
		"tick":     state.Tick,
		"games":    state.Games,
	}
	if m := state.Match; m != nil {
		rules := m.Rules()
		snapshot["grid_size"] = rules.GridSize
		snapshot["round"] = m.Round()
		snapshot["max_rounds"] = m.MaxRounds()
		snapshot["sim_tick"] = m.Tick()
		snapshot["outcome"] = m.Outcome().String()
		snapshot["snakes"] = snakeList(matchSnakes(m))
	}
	return snapshot
}

func matchSnakes(m *domain.Match) []app.SnakeView {
	views := make([]app.SnakeView, 0, domain.SeatCount)
	for seat := domain.SeatOne; seat <= domain.SeatTwo; seat++ {
		p := m.Player(seat)
		views = append(views, app.SnakeView{
			UserID:    p.UserID,
			Seat:      int(seat),
			Segments:  p.Snake().Segments(),
			Direction: p.Snake().Direction(),
			Length:    p.Snake().Len(),
		})
	}
	return views
}

// errorCode maps app errors onto the codes sent with OpGameError.
func errorCode(err error) int {
	switch {
	case errors.Is(err, app.ErrUnknownPlayer):
		return 403
	case errors.Is(err, app.ErrNoMatch), errors.Is(err, app.ErrNotPlanning), errors.Is(err, app.ErrMatchNotEnded):
		return 409
	default:
		return 400
	}
}

// sendError sends a game error to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	bytes, err := marshalPayload(map[string]interface{}{
		"code":    code,
		"message": message,
	})
	if err != nil {
		logger.Error("Failed to marshal game error: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}
	if err := dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("Failed to send game error to %s: %v", userID, err)
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := encodeLabel(domain.ComputeLabel(&state.Seats, state.Match))
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	if matchState, ok := state.(*MatchState); ok && matchState.Match != nil && matchState.Match.Phase() != domain.PhaseRoundEnded {
		logger.Info("MatchTerminate: Discarding unfinished game %s.", matchState.GameID())
	}
	logger.Debug("MatchTerminate: Match terminated (grace %d s)", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
