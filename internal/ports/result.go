package ports

import "context"

// MatchReward is the settlement of one finished match for one user.
type MatchReward struct {
	MatchID string
	UserID  string
	Outcome string
	Amount  int64
	// Token is the signed result receipt, stored alongside the reward.
	Token string
}

// ResultPort records match results and pays rewards.
type ResultPort interface {
	// RecordRewardOnce stores the result for the user and pays Amount in the
	// same write. Returns recorded=false when this match was already settled
	// for the user.
	RecordRewardOnce(ctx context.Context, reward MatchReward) (bool, error)
}
