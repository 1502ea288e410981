package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

type BotIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "easy", "medium", "hard"
	AvatarIndex int    `json:"avatar_index"`
}

// botNamespace scopes the deterministic bot user IDs.
var botNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://snakecards.local/bots"))

var (
	botIdentities     []BotIdentity
	botIDMap          map[string]bool
	botUsernameMap    map[string]string
	botDisplayNameMap map[string]string
	botConfigMap      map[string]BotIdentity
	loadOnce          sync.Once
	provisionOnce     sync.Once
	loadErr           error
	mu                sync.RWMutex
)

// BotUserID derives the stable user ID of a bot from its username.
func BotUserID(username string) string {
	return uuid.NewSHA1(botNamespace, []byte(username)).String()
}

// DefaultIdentities is the built-in bot pool used when no file is available.
func DefaultIdentities() []BotIdentity {
	base := []BotIdentity{
		{Username: "bot_sidewinder", DisplayName: "Sidewinder", Difficulty: "easy", AvatarIndex: 1},
		{Username: "bot_mamba", DisplayName: "Mamba", Difficulty: "medium", AvatarIndex: 2},
		{Username: "bot_cobra", DisplayName: "Cobra", Difficulty: "hard", AvatarIndex: 3},
		{Username: "bot_garter", DisplayName: "Garter", Difficulty: "easy", AvatarIndex: 4},
	}
	for i := range base {
		base[i].UserID = BotUserID(base[i].Username)
	}
	return base
}

// ParseIdentities decodes a JSON identity list, filling missing user IDs.
func ParseIdentities(data []byte) ([]BotIdentity, error) {
	var identities []BotIdentity
	if err := json.Unmarshal(data, &identities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bot identities: %w", err)
	}
	for i := range identities {
		if identities[i].UserID == "" && identities[i].Username != "" {
			identities[i].UserID = BotUserID(identities[i].Username)
		}
	}
	return identities, nil
}

// LoadIdentities loads the bot profiles from the given path. When the file
// cannot be used the built-in pool is installed and the error is returned.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		identities := DefaultIdentities()
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
		} else if parsed, perr := ParseIdentities(data); perr != nil {
			loadErr = perr
		} else if len(parsed) > 0 {
			identities = parsed
		}
		setIdentities(identities)
	})
	return loadErr
}

// UseDefaultIdentities installs the built-in pool unless identities were
// already loaded.
func UseDefaultIdentities() {
	loadOnce.Do(func() { setIdentities(DefaultIdentities()) })
}

func setIdentities(identities []BotIdentity) {
	mu.Lock()
	defer mu.Unlock()
	botIdentities = identities
	botIDMap = make(map[string]bool)
	botUsernameMap = make(map[string]string)
	botDisplayNameMap = make(map[string]string)
	botConfigMap = make(map[string]BotIdentity)
	for _, identity := range botIdentities {
		if identity.UserID != "" {
			mapIdentity(identity)
		}
	}
}

func mapIdentity(identity BotIdentity) {
	botIDMap[identity.UserID] = true
	botUsernameMap[identity.UserID] = identity.Username
	botDisplayNameMap[identity.UserID] = identity.DisplayName
	botConfigMap[identity.UserID] = identity
}

// ProvisionBots ensures that bot accounts exist in the Nakama database and have the is_bot metadata.
func ProvisionBots(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) {
	provisionOnce.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		for i := range botIdentities {
			identity := &botIdentities[i]
			if identity.DeviceID == "" {
				continue
			}

			userID, username, _, err := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
			if err != nil {
				logger.Error("ProvisionBots: Failed to authenticate bot %s: %v", identity.Username, err)
				continue
			}
			delete(botIDMap, identity.UserID)
			identity.UserID = userID
			identity.Username = username

			metadata := map[string]interface{}{
				"is_bot":       true,
				"difficulty":   identity.Difficulty,
				"avatar_index": identity.AvatarIndex,
			}
			if err := nk.AccountUpdateId(ctx, userID, identity.Username, metadata, identity.DisplayName, "", "", "", ""); err != nil {
				logger.Warn("ProvisionBots: Failed to update bot account %s: %v", userID, err)
			}

			mapIdentity(*identity)
			logger.Info("ProvisionBots: Bot %s (%s) is ready. Difficulty: %s", identity.DisplayName, userID, identity.Difficulty)
		}
	})
}

// GetBotConfig returns the full identity configuration for a given bot ID.
func GetBotConfig(userID string) (BotIdentity, bool) {
	mu.RLock()
	defer mu.RUnlock()
	config, ok := botConfigMap[userID]
	return config, ok
}

// GetBotUsername returns the username for a bot ID, or an empty string if not a bot.
func GetBotUsername(userID string) string {
	mu.RLock()
	defer mu.RUnlock()
	return botUsernameMap[userID]
}

// GetBotDisplayName returns the display name for a bot ID, or an empty string if not a bot.
func GetBotDisplayName(userID string) string {
	mu.RLock()
	name := botDisplayNameMap[userID]
	mu.RUnlock()
	if name == "" {
		return GetBotUsername(userID)
	}
	return name
}

// GetBotIdentity returns an identity for a bot by index (mod pool size).
func GetBotIdentity(index int) BotIdentity {
	UseDefaultIdentities()
	mu.RLock()
	defer mu.RUnlock()
	pool := botIdentities
	if len(pool) == 0 {
		pool = DefaultIdentities()
	}
	if index < 0 {
		index = -index
	}
	return pool[index%len(pool)]
}

// IsBot reports whether the given user ID belongs to the bot pool.
func IsBot(userID string) bool {
	UseDefaultIdentities()
	mu.RLock()
	defer mu.RUnlock()
	return botIDMap[userID]
}

// GetAllBotIDs returns all known bot UserIDs.
func GetAllBotIDs() []string {
	mu.RLock()
	defer mu.RUnlock()
	ids := make([]string, 0, len(botIDMap))
	for id := range botIDMap {
		ids = append(ids, id)
	}
	return ids
}
