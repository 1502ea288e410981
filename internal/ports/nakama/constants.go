package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// RpcMatchRules returns the effective match rules and the caller's balance.
	RpcMatchRules = "match_rules"

	// RpcVerifyResult checks a signed match result receipt.
	RpcVerifyResult = "verify_result"

	// MatchNameSnakeCards is the authoritative match handler name registered with Nakama.
	MatchNameSnakeCards = "snakecards_match"

	// GameLabel is the game key advertised in match labels.
	GameLabel = "snakecards"

	// MatchLabelKey_OpenSeats is the label key holding the number of open seats.
	MatchLabelKey_OpenSeats = "open"

	gameConfigPath     = "data/game_config.yaml"
	botIdentitiesPath  = "data/bot_identities.json"
	envBotsEnabled     = "snakecards_bots_enabled"
	walletCurrencyGold = "gold"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpSelectCard       int64 = 1 // {"hand_index": n}
	OpUndoSelection    int64 = 2
	OpConfirmSelection int64 = 3
	OpRequestRematch   int64 = 4

	// Server -> Client events
	OpMatchState         int64 = 100
	OpPlayerJoined       int64 = 101
	OpPlayerLeft         int64 = 102
	OpPlanningStarted    int64 = 103
	OpHandDealt          int64 = 104 // send privately
	OpCardSelected       int64 = 105
	OpSelectionUndone    int64 = 106
	OpSelectionConfirmed int64 = 107
	OpSimulationStarted  int64 = 108
	OpTickResolved       int64 = 109
	OpMatchEnded         int64 = 110
	OpGameError          int64 = 111
)
