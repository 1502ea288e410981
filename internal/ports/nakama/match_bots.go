package nakama

import (
	"context"

	"snakecards/internal/app"
	"snakecards/internal/bot"
	"snakecards/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Auto-fill the lobby when a single human has waited long enough.
	if state.Match == nil {
		mh.autoFillBots(ctx, state, dispatcher, logger)
		return
	}

	// 2. Bots plan their whole queue at once after a thinking delay.
	if state.Match.Phase() == domain.PhasePlanning {
		for i, userID := range state.Seats {
			if !isBotUserId(userID) {
				continue
			}
			if state.Match.Player(domain.Seat(i)).Confirmed() {
				continue
			}
			waitUntil, scheduled := state.BotWaitUntil[userID]
			if !scheduled {
				state.BotWaitUntil[userID] = state.Tick + state.botDelayTicks()
				logger.Debug("processBots: Bot %s (seat %d) will plan at tick %d (current %d)", userID, i, state.BotWaitUntil[userID], state.Tick)
				continue
			}
			if state.Tick < waitUntil {
				continue
			}
			delete(state.BotWaitUntil, userID)
			mh.playBot(ctx, state, dispatcher, logger, userID)
		}
	}
}

func (mh *matchHandler) autoFillBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.GetHumanPlayerCount() != 1 || state.GetOpenSeatsCount() == 0 {
		state.SinglePlayerWaiting = false
		return
	}
	if !state.SinglePlayerWaiting {
		state.LastSinglePlayerTick = state.Tick
		state.SinglePlayerWaiting = true
		logger.Debug("processBots: Single player detected, starting auto-fill timer.")
	}
	if state.Tick-state.LastSinglePlayerTick < state.BotAutoFillTicks {
		return
	}

	added := false
	for i, seat := range state.Seats {
		if seat != "" {
			continue
		}
		identity := bot.GetBotIdentity(state.rng.Intn(1 << 16))
		agent, err := bot.NewAgent(identity, state.rng)
		if err != nil {
			logger.Error("processBots: Failed to create bot agent for %s: %v", identity.UserID, err)
			continue
		}
		state.Seats[i] = identity.UserID
		state.Bots[identity.UserID] = agent
		added = true

		logger.Info("processBots: Added bot %s (%s, %s) to seat %d", identity.Username, identity.UserID, agent.Level, i)
		mh.broadcastEvent(ctx, state, dispatcher, logger, app.Event{
			Kind:    app.EventPlayerJoined,
			Payload: app.PlayerJoinedPayload{UserID: identity.UserID, Seat: i, Bot: true},
		})
	}
	if added {
		mh.updateLabel(state, dispatcher, logger)
		mh.broadcastMatchState(ctx, state, dispatcher, logger)
	}
	state.SinglePlayerWaiting = false
}

// playBot selects every card in the order the agent planned, then confirms.
func (mh *matchHandler) playBot(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	agent, exists := state.Bots[userID]
	if !exists {
		identity, ok := bot.GetBotConfig(userID)
		if !ok {
			logger.Error("processBots: No identity for bot %s", userID)
			return
		}
		var err error
		agent, err = bot.NewAgent(identity, state.rng)
		if err != nil {
			logger.Error("processBots: Failed to create fallback agent: %v", err)
			return
		}
		state.Bots[userID] = agent
	}

	plan, err := agent.Plan(state.Match)
	if err != nil {
		logger.Error("processBots: Bot %s failed to plan: %v", userID, err)
		return
	}
	for _, handIndex := range plan {
		events, err := state.App.SelectCard(state.Match, userID, handIndex)
		if err != nil {
			logger.Warn("processBots: Bot %s could not select card %d: %v", userID, handIndex, err)
			return
		}
		for _, ev := range events {
			mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
		}
	}

	events, err := state.App.ConfirmSelection(state.Match, userID)
	if err != nil {
		logger.Warn("processBots: Bot %s could not confirm: %v", userID, err)
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

// botDelayTicks draws a thinking delay in [BotMinDelayTicks, BotMaxDelayTicks].
func (ms *MatchState) botDelayTicks() int64 {
	lo, hi := ms.BotMinDelayTicks, ms.BotMaxDelayTicks
	if hi <= lo {
		return lo
	}
	return lo + ms.rng.Int63n(hi-lo+1)
}
