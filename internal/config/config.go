package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"snakecards/internal/domain"
)

// EnvPrefix marks Nakama runtime env keys that override the config file.
const EnvPrefix = "snakecards_"

// GameConfig is the on-disk game configuration. JSON files parse as well.
type GameConfig struct {
	GridSize      int `yaml:"grid_size" json:"grid_size"`
	HandSize      int `yaml:"hand_size" json:"hand_size"`
	MaxRounds     int `yaml:"max_rounds" json:"max_rounds"`
	InitialLength int `yaml:"initial_length" json:"initial_length"`
	CardsPerPage  int `yaml:"cards_per_page" json:"cards_per_page"`
	// SnakeSpeed is the simulation tick interval in seconds.
	SnakeSpeed  float64        `yaml:"snake_speed" json:"snake_speed"`
	CardWeights map[string]int `yaml:"card_weights" json:"card_weights"`

	// TickRate is the Nakama match loop rate in ticks per second.
	TickRate      int    `yaml:"tick_rate" json:"tick_rate"`
	WinReward     int64  `yaml:"win_reward" json:"win_reward"`
	DrawReward    int64  `yaml:"draw_reward" json:"draw_reward"`
	StartingGold  int64  `yaml:"starting_gold" json:"starting_gold"`
	ResultSignKey string `yaml:"result_sign_key" json:"result_sign_key"`

	// BotAutoFillDelaySeconds configures how many seconds to wait before adding a bot to a solo human lobby.
	BotAutoFillDelaySeconds int     `yaml:"bot_auto_fill_delay_seconds" json:"bot_auto_fill_delay_seconds"`
	BotMinDelaySeconds      float64 `yaml:"bot_min_delay_seconds" json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds      float64 `yaml:"bot_max_delay_seconds" json:"bot_max_delay_seconds"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// Default returns the stock configuration.
func Default() *GameConfig {
	rules := domain.DefaultRules()
	weights := make(map[string]int, len(rules.Weights))
	for _, w := range rules.Weights {
		weights[w.Effect.String()] = w.Weight
	}
	return &GameConfig{
		GridSize:                rules.GridSize,
		HandSize:                rules.HandSize,
		MaxRounds:               rules.MaxRounds,
		InitialLength:           rules.InitialLength,
		CardsPerPage:            rules.CardsPerPage,
		SnakeSpeed:              rules.TickInterval.Seconds(),
		CardWeights:             weights,
		TickRate:                10,
		WinReward:               100,
		DrawReward:              25,
		StartingGold:            1000,
		BotAutoFillDelaySeconds: 10,
		BotMinDelaySeconds:      1,
		BotMaxDelaySeconds:      4,
	}
}

// Parse decodes a config document on top of the defaults. A card_weights
// table replaces the default table instead of merging into it.
func Parse(data []byte) (*GameConfig, error) {
	c := Default()
	defaults := c.CardWeights
	c.CardWeights = nil
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if c.CardWeights == nil {
		c.CardWeights = defaults
	}
	return c, nil
}

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}
		c, err := Parse(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg = c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or the defaults when
// nothing was loaded.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		return Default()
	}
	c := *cfg
	c.CardWeights = make(map[string]int, len(cfg.CardWeights))
	for k, v := range cfg.CardWeights {
		c.CardWeights[k] = v
	}
	return &c
}

// ApplyEnv overrides fields from runtime env entries such as
// snakecards_grid_size=24. Unknown keys are ignored; malformed values are
// reported and leave the field untouched.
func (c *GameConfig) ApplyEnv(env map[string]string) error {
	var bad []string
	for key, raw := range env {
		if !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		name := strings.TrimPrefix(key, EnvPrefix)
		raw = strings.TrimSpace(raw)

		var err error
		switch name {
		case "grid_size":
			err = setInt(&c.GridSize, raw)
		case "hand_size":
			err = setInt(&c.HandSize, raw)
		case "max_rounds":
			err = setInt(&c.MaxRounds, raw)
		case "initial_length":
			err = setInt(&c.InitialLength, raw)
		case "cards_per_page":
			err = setInt(&c.CardsPerPage, raw)
		case "snake_speed":
			err = setFloat(&c.SnakeSpeed, raw)
		case "tick_rate":
			err = setInt(&c.TickRate, raw)
		case "win_reward":
			err = setInt64(&c.WinReward, raw)
		case "draw_reward":
			err = setInt64(&c.DrawReward, raw)
		case "starting_gold":
			err = setInt64(&c.StartingGold, raw)
		case "result_sign_key":
			c.ResultSignKey = raw
		case "bot_auto_fill_delay_seconds":
			err = setInt(&c.BotAutoFillDelaySeconds, raw)
		case "bot_min_delay_seconds":
			err = setFloat(&c.BotMinDelaySeconds, raw)
		case "bot_max_delay_seconds":
			err = setFloat(&c.BotMaxDelaySeconds, raw)
		}
		if err != nil {
			bad = append(bad, key)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return fmt.Errorf("invalid env overrides: %s", strings.Join(bad, ", "))
	}
	return nil
}

// Rules converts the configuration into normalized match rules.
func (c *GameConfig) Rules() domain.Rules {
	var weights []domain.EffectWeight
	for _, e := range domain.AllEffects {
		if w, ok := c.CardWeights[e.String()]; ok {
			weights = append(weights, domain.EffectWeight{Effect: e, Weight: w})
		}
	}
	return domain.Rules{
		GridSize:      c.GridSize,
		HandSize:      c.HandSize,
		MaxRounds:     c.MaxRounds,
		TickInterval:  time.Duration(c.SnakeSpeed * float64(time.Second)),
		InitialLength: c.InitialLength,
		CardsPerPage:  c.CardsPerPage,
		Weights:       weights,
	}.Normalize()
}

// LoopTick returns the host time that passes per match loop iteration.
func (c *GameConfig) LoopTick() time.Duration {
	if c.TickRate <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(c.TickRate)
}

// BotDelayRange returns the clamped bot thinking delay bounds.
func (c *GameConfig) BotDelayRange() (time.Duration, time.Duration) {
	lo := time.Duration(c.BotMinDelaySeconds * float64(time.Second))
	hi := time.Duration(c.BotMaxDelaySeconds * float64(time.Second))
	if lo < 0 {
		lo = 0
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func setInt(dst *int, raw string) error {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setInt64(dst *int64, raw string) error {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setFloat(dst *float64, raw string) error {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
