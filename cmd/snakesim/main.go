// Command snakesim plays bot-vs-bot Snake Cards matches outside Nakama and
// prints a summary of the outcomes.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"snakecards/internal/app"
	"snakecards/internal/bot"
	"snakecards/internal/config"
	"snakecards/internal/logging"
)

func main() {
	configPath := flag.String("config", "data/game_config.yaml", "game config file (YAML or JSON)")
	seed := flag.Int64("seed", 0, "random seed, 0 picks one from the clock")
	matches := flag.Int("matches", 10, "number of matches to play")
	level1 := flag.String("level1", "easy", "seat one bot level (easy, medium, hard)")
	level2 := flag.String("level2", "hard", "seat two bot level (easy, medium, hard)")
	realtime := flag.Bool("realtime", false, "drive matches from a wall-clock ticker")
	debug := flag.Bool("debug", false, "development logging")
	flag.Parse()

	zl, err := logging.New(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "snakesim: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zl.Sync() }()
	logger := logging.NewRuntimeLogger(zl)

	if err := config.LoadGameConfig(*configPath); err != nil {
		logger.Warn("Using default game config: %v", err)
	}
	cfg := config.GetGameConfig()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	var agents [2]*bot.Agent
	for i, level := range []string{*level1, *level2} {
		identity := bot.BotIdentity{
			UserID:      fmt.Sprintf("sim-%d", i+1),
			Username:    fmt.Sprintf("sim_%s_%d", level, i+1),
			DisplayName: fmt.Sprintf("Seat %d (%s)", i+1, level),
			Difficulty:  level,
		}
		agents[i], err = bot.NewAgent(identity, rng)
		if err != nil {
			logger.Error("Invalid bot level %q: %v", level, err)
			os.Exit(2)
		}
	}

	signer := app.NewResultSigner(cfg.ResultSignKey, app.ResultIssuer, 0)
	sim := &simulator{
		svc:      app.NewService(rng, app.WithResultSigner(signer)),
		cfg:      cfg,
		agents:   agents,
		economy:  newMemoryEconomy(),
		logger:   logger.WithField("seed", *seed),
		realtime: *realtime,
		prefix:   fmt.Sprintf("sim-%d", *seed),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := sim.Run(ctx, *matches)
	if err != nil {
		logger.Error("Simulation stopped: %v", err)
	}
	summary.Print(os.Stdout)
	if err != nil {
		os.Exit(1)
	}
}
