package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"snakecards/internal/domain"
)

// QuickMatchResponse is the payload returned to clients when requesting a lobby-capable match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcMatchRules, rpcMatchRules); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcVerifyResult, rpcVerifyResult)
}

// quickMatchQuery selects lobbies of this game with at least one free seat.
func quickMatchQuery() string {
	return fmt.Sprintf("+label.%s:>=1 +label.game:%s +label.phase:%s", MatchLabelKey_OpenSeats, GameLabel, domain.PhaseLobby)
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	limit := 10
	authoritative := true
	minSize := 0
	maxSize := domain.SeatCount - 1

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, quickMatchQuery())
	if err != nil {
		logger.Error("rpcQuickMatch [User:%s]: MatchList error: %v", userID, err)
		return "", err
	}

	resp := QuickMatchResponse{}
	if len(matches) > 0 {
		resp.MatchID = matches[0].MatchId
		logger.Debug("rpcQuickMatch [User:%s]: Found existing match %s", userID, resp.MatchID)
	} else {
		// Seat assignment happens in MatchJoin (server-authoritative).
		resp.MatchID, err = nk.MatchCreate(ctx, MatchNameSnakeCards, map[string]interface{}{})
		if err != nil {
			logger.Error("rpcQuickMatch [User:%s]: MatchCreate error: %v", userID, err)
			return "", err
		}
		resp.IsNew = true
		logger.Info("rpcQuickMatch [User:%s]: Created new match %s", userID, resp.MatchID)
	}

	b, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
