package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/mitchelldurbincs/tictactoe/internal/config"
	"github.com/mitchelldurbincs/tictactoe/internal/console"
	"github.com/mitchelldurbincs/tictactoe/internal/game"
	"github.com/mitchelldurbincs/tictactoe/internal/game/core"
	"github.com/mitchelldurbincs/tictactoe/internal/game/events"
	"github.com/mitchelldurbincs/tictactoe/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/tictactoe/internal/history"
)

func main() {
	// Command line flags
	fs := pflag.NewFlagSet("tictactoe", pflag.ExitOnError)
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	// Initialize configuration
	loader := config.NewLoader()
	if err := loader.BindFlags(fs); err != nil {
		log.Fatal().Err(err).Msg("Failed to bind flags")
	}
	configPath, _ := fs.GetString("config")
	if _, err := loader.Load(configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := loader.MergeEnvironment(os.Getenv("APP_ENV")); err != nil {
		log.Fatal().Err(err).Msg("Failed to load environment config")
	}
	cfg := loader.Config()

	// Setup logging
	closeLog, err := setupLogging(cfg.Logging)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}
	defer closeLog.Close()

	if err := loader.Watch(log.Logger, func(c *config.Config) {
		if level, err := zerolog.ParseLevel(c.Logging.Level); err == nil {
			zerolog.SetGlobalLevel(level)
		}
	}); err != nil && !errors.Is(err, config.ErrNoConfigFile) {
		log.Warn().Err(err).Msg("Config hot reload disabled")
	}

	log.Info().
		Str("config_file", loader.ConfigFileUsed()).
		Int("winning_score", cfg.Game.WinningScore).
		Str("first_mover", cfg.Game.FirstMover).
		Bool("history", cfg.History.Enabled).
		Msg("Starting tic-tac-toe")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log.Logger); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println()
			log.Info().Msg("Interrupted")
			return
		}
		log.Fatal().Err(err).Msg("Match failed")
	}
}

// run wires the match together and plays it to the end
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	storeCfg := history.StoreConfig{Type: history.StoreTypeNone}
	if cfg.History.Enabled {
		storeCfg = history.StoreConfig{Type: history.StoreTypeFile, Dir: cfg.History.Dir}
	}
	store, err := history.NewStore(storeCfg, afero.NewOsFs(), logger)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	ui := console.NewStdio(console.Options{
		ClearScreen: cfg.Console.ClearScreen,
		Color:       cfg.Console.Color,
	}, logger)

	bus := events.NewEventBus(logger)
	bus.Subscribe(subscribers.NewLoggerSubscriber("match_logger", logger, zerolog.DebugLevel))
	if cfg.History.Enabled {
		past, err := store.Read(ctx, 0)
		if err != nil {
			logger.Warn().Err(err).Msg("Could not read match history")
		}
		ui.SetHistory(history.Summarize(past))
		bus.Subscribe(history.NewRecorder(store, logger))
	}

	policy, err := game.ParseFirstMoverPolicy(cfg.Game.FirstMover)
	if err != nil {
		return err
	}

	engine, err := game.NewEngine(ctx, game.Config{
		Match: game.MatchConfig{
			WinningScore: cfg.Game.WinningScore,
			FirstMover:   policy,
			HumanMarker:  markerFromConfig(cfg.Game.HumanMarker),
			Rng:          newRNG(cfg.Game.Seed),
			Logger:       logger,
		},
		UI:       ui,
		EventBus: bus,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	return engine.Run(ctx)
}

// markerFromConfig maps a validated marker string to a mark
func markerFromConfig(s string) core.Mark {
	if s == "O" {
		return core.O
	}
	return core.X
}

// newRNG seeds from the clock when seed is 0
func newRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// setupLogging routes logs to stderr, or to a file, so they never mix with the
// board on stdout
func setupLogging(cfg config.LoggingConfig) (io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	}

	// Check if we're in production
	if os.Getenv("APP_ENV") == "production" || cfg.Format == "json" {
		// JSON output for production
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		// Pretty console output for development
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    cfg.File != "",
		})
	}
	return closer, nil
}
