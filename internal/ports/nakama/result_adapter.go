package nakama

import (
	"context"
	"fmt"
	"time"

	"snakecards/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const matchResultCollection = "match_results"

// NakamaResultAdapter settles finished matches: one storage record per user
// and match, written together with the reward.
type NakamaResultAdapter struct {
	nk runtime.NakamaModule
}

func NewNakamaResultAdapter(nk runtime.NakamaModule) *NakamaResultAdapter {
	return &NakamaResultAdapter{nk: nk}
}

// RecordRewardOnce implements ports.ResultPort.
func (a *NakamaResultAdapter) RecordRewardOnce(ctx context.Context, reward ports.MatchReward) (bool, error) {
	if reward.UserID == "" || reward.MatchID == "" {
		return false, fmt.Errorf("userID and matchID are required")
	}
	if reward.Amount < 0 {
		return false, fmt.Errorf("reward must not be negative")
	}

	marker := map[string]interface{}{
		"outcome":    reward.Outcome,
		"reward":     reward.Amount,
		"settled_at": time.Now().UTC().Format(time.RFC3339),
	}
	if reward.Token != "" {
		marker["token"] = reward.Token
	}
	metadata := map[string]interface{}{
		"reason":   "match_reward",
		"match_id": reward.MatchID,
		"outcome":  reward.Outcome,
	}
	recorded, err := writeOnce(ctx, a.nk, matchResultCollection, reward.MatchID, reward.UserID, marker, reward.Amount, metadata)
	if err != nil {
		return false, fmt.Errorf("failed to record result for user %s: %w", reward.UserID, err)
	}
	return recorded, nil
}

var _ ports.ResultPort = (*NakamaResultAdapter)(nil)
