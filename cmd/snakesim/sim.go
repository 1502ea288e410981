package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"snakecards/internal/app"
	"snakecards/internal/bot"
	"snakecards/internal/config"
	"snakecards/internal/domain"
	"snakecards/internal/ports"
)

type simulator struct {
	svc      *app.Service
	cfg      *config.GameConfig
	agents   [domain.SeatCount]*bot.Agent
	economy  ports.EconomyPort
	logger   runtime.Logger
	realtime bool
	prefix   string
}

// Summary tallies the outcomes of a simulation run.
type Summary struct {
	Names    [domain.SeatCount]string
	UserIDs  [domain.SeatCount]string
	Wins     [domain.SeatCount]int
	Draws    int
	Played   int
	Ticks    int64
	Balances [domain.SeatCount]int64
	Outcomes map[string]int
}

// Run plays n matches back to back. It stops early when ctx is cancelled.
func (s *simulator) Run(ctx context.Context, n int) (Summary, error) {
	summary := Summary{Outcomes: make(map[string]int)}
	for i, agent := range s.agents {
		summary.Names[i] = agent.Name
		summary.UserIDs[i] = agent.ID
	}

	for i := 1; i <= n; i++ {
		res, err := s.playMatch(ctx, fmt.Sprintf("%s-%d", s.prefix, i))
		if err != nil {
			return s.finish(ctx, summary), err
		}

		summary.Played++
		summary.Ticks += res.Ticks
		summary.Outcomes[res.Outcome]++
		if res.Draw() {
			summary.Draws++
		}
		for seat, userID := range res.UserIDs {
			if userID == res.WinnerUserID {
				summary.Wins[seat]++
			}
		}
	}
	return s.finish(ctx, summary), nil
}

func (s *simulator) finish(ctx context.Context, summary Summary) Summary {
	for seat, userID := range summary.UserIDs {
		balance, err := s.economy.GetBalance(ctx, userID)
		if err != nil {
			s.logger.Warn("No balance for %s: %v", userID, err)
			continue
		}
		summary.Balances[seat] = balance
	}
	return summary
}

// playMatch runs one match from dealing to the result and pays the rewards.
func (s *simulator) playMatch(ctx context.Context, matchID string) (app.MatchResult, error) {
	var seats [domain.SeatCount]string
	for i, agent := range s.agents {
		seats[i] = agent.ID
	}
	m, _, err := s.svc.StartMatch(s.cfg.Rules(), seats)
	if err != nil {
		return app.MatchResult{}, err
	}

	for _, agent := range s.agents {
		plan, err := agent.Plan(m)
		if err != nil {
			return app.MatchResult{}, fmt.Errorf("plan %s: %w", agent.ID, err)
		}
		for _, handIndex := range plan {
			if _, err := s.svc.SelectCard(m, agent.ID, handIndex); err != nil {
				return app.MatchResult{}, fmt.Errorf("select for %s: %w", agent.ID, err)
			}
		}
		if _, err := s.svc.ConfirmSelection(m, agent.ID); err != nil {
			return app.MatchResult{}, fmt.Errorf("confirm for %s: %w", agent.ID, err)
		}
	}

	step := m.Rules().TickInterval
	var ticker *time.Ticker
	if s.realtime {
		step = s.cfg.LoopTick()
		ticker = time.NewTicker(step)
		defer ticker.Stop()
	}

	log := s.logger.WithField("match_id", matchID)
	for {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return app.MatchResult{}, ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return app.MatchResult{}, err
		}

		events, err := s.svc.Advance(matchID, m, step)
		if err != nil {
			log.Warn("Advance: %v", err)
		}
		for _, ev := range events {
			switch p := ev.Payload.(type) {
			case app.TickResolvedPayload:
				log.Debug("Tick %d round %d heads %v / %v", p.Tick, p.Round, head(p.Snakes, 0), head(p.Snakes, 1))
			case app.MatchEndedPayload:
				s.payRewards(ctx, log, p.Result)
				log.WithFields(map[string]interface{}{
					"outcome": p.Result.Outcome,
					"ticks":   p.Result.Ticks,
					"lengths": p.Result.Lengths,
				}).Info("Match finished")
				return p.Result, nil
			}
		}
	}
}

func (s *simulator) payRewards(ctx context.Context, log runtime.Logger, res app.MatchResult) {
	rewards := res.Rewards(s.cfg.WinReward, s.cfg.DrawReward)
	updates := make([]ports.WalletUpdate, 0, len(rewards))
	for _, userID := range res.UserIDs {
		updates = append(updates, ports.WalletUpdate{
			UserID:   userID,
			Amount:   rewards[userID],
			Metadata: map[string]interface{}{"match_id": res.MatchID, "reason": "match_reward"},
		})
	}
	if err := s.economy.UpdateBalances(ctx, updates); err != nil {
		log.Error("Failed to pay rewards: %v", err)
	}
}

func head(snakes []app.SnakeView, seat int) domain.Point {
	if seat >= len(snakes) || len(snakes[seat].Segments) == 0 {
		return domain.Point{}
	}
	return snakes[seat].Segments[0]
}

// Print writes a human readable report.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "matches played: %d\n", s.Played)
	for seat := range s.Names {
		fmt.Fprintf(w, "  %-24s wins %3d  gold %6d\n", s.Names[seat], s.Wins[seat], s.Balances[seat])
	}
	fmt.Fprintf(w, "  draws %d\n", s.Draws)
	if s.Played > 0 {
		fmt.Fprintf(w, "  average ticks %.1f\n", float64(s.Ticks)/float64(s.Played))
	}
	for _, outcome := range []domain.Outcome{domain.OutcomePlayerOneWins, domain.OutcomePlayerTwoWins, domain.OutcomeDraw, domain.OutcomeRoundLimitDraw} {
		if n := s.Outcomes[outcome.String()]; n > 0 {
			fmt.Fprintf(w, "  %-20s %d\n", outcome.String(), n)
		}
	}
}
