package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"

	"snakecards/internal/app"
	"snakecards/internal/config"
	"snakecards/internal/ports"
)

// MatchRulesResponse describes the rules new matches start with.
type MatchRulesResponse struct {
	GridSize      int            `json:"grid_size"`
	HandSize      int            `json:"hand_size"`
	MaxRounds     int            `json:"max_rounds"`
	InitialLength int            `json:"initial_length"`
	CardsPerPage  int            `json:"cards_per_page"`
	TickMillis    int64          `json:"tick_ms"`
	CardWeights   map[string]int `json:"card_weights"`
	WinReward     int64          `json:"win_reward"`
	DrawReward    int64          `json:"draw_reward"`
	// Balance is the caller's gold, omitted for server-to-server calls.
	Balance *int64 `json:"balance,omitempty"`
}

func rpcMatchRules(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	cfg := matchConfig(ctx, logger)
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	resp := buildMatchRules(ctx, cfg, NewNakamaEconomyAdapter(nk), userID, logger)
	b, err := json.Marshal(resp)
	if err != nil {
		logger.Error("rpcMatchRules: failed to marshal response: %v", err)
		return "", runtime.NewError("internal error", 13)
	}
	return string(b), nil
}

func buildMatchRules(ctx context.Context, cfg *config.GameConfig, economy ports.EconomyPort, userID string, logger runtime.Logger) MatchRulesResponse {
	rules := cfg.Rules()
	resp := MatchRulesResponse{
		GridSize:      rules.GridSize,
		HandSize:      rules.HandSize,
		MaxRounds:     rules.MaxRounds,
		InitialLength: rules.InitialLength,
		CardsPerPage:  rules.CardsPerPage,
		TickMillis:    rules.TickInterval.Milliseconds(),
		CardWeights:   make(map[string]int, len(rules.Weights)),
		WinReward:     cfg.WinReward,
		DrawReward:    cfg.DrawReward,
	}
	for _, w := range rules.Weights {
		resp.CardWeights[w.Effect.String()] = w.Weight
	}
	if userID != "" && economy != nil {
		balance, err := economy.GetBalance(ctx, userID)
		if err != nil {
			logger.Warn("rpcMatchRules: failed to read balance for %s: %v", userID, err)
		} else {
			resp.Balance = &balance
		}
	}
	return resp
}

// matchConfig returns the loaded game config with runtime env overrides applied.
func matchConfig(ctx context.Context, logger runtime.Logger) *config.GameConfig {
	cfg := config.GetGameConfig()
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if err := cfg.ApplyEnv(env); err != nil {
			logger.Warn("Ignoring %v", err)
		}
	}
	return cfg
}

type verifyResultRequest struct {
	Token string `json:"token"`
}

// rpcVerifyResult decodes a result token sent with OpMatchEnded and returns
// the match result it certifies.
func rpcVerifyResult(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req verifyResultRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.Token == "" {
		return "", runtime.NewError("token is required", 3)
	}

	cfg := matchConfig(ctx, logger)
	signer := app.NewResultSigner(cfg.ResultSignKey, app.ResultIssuer, 0)
	if signer == nil {
		return "", runtime.NewError("result signing is disabled", 12)
	}

	res, err := signer.Verify(req.Token)
	if err != nil {
		logger.Debug("rpcVerifyResult: rejected token: %v", err)
		return "", runtime.NewError("invalid result token", 3)
	}
	b, err := json.Marshal(res)
	if err != nil {
		return "", runtime.NewError("internal error", 13)
	}
	return string(b), nil
}
