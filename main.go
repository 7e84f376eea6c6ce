package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/pthm-cable/flappy/assets"
	"github.com/pthm-cable/flappy/audio"
	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/game"
	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/renderer"
	"github.com/pthm-cable/flappy/renderer/term"
	"github.com/pthm-cable/flappy/storage"
	"github.com/pthm-cable/flappy/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	neatConfig := flag.String("neat-config", "", "goNEAT options file (empty = built-in defaults)")
	headless := flag.Bool("headless", false, "Train without graphics")
	terminal := flag.Bool("terminal", false, "Draw in the terminal instead of a window")
	play := flag.Bool("play", false, "Fly one bird yourself (space or click to flap)")
	sound := flag.Bool("sound", false, "Play event sounds")
	generations := flag.Int("generations", 0, "Generations to train (0 = use config)")
	seed := flag.Int64("seed", 0, "Pipe RNG seed (0 = use config, then time-based)")
	maxTicks := flag.Int("max-ticks", -1, "Tick cap per generation (-1 = use config, 0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config snapshot and champion genome")
	storeKind := flag.String("store", "", "Run history backend: memory or sqlite (empty = use config)")
	storePath := flag.String("store-path", "", "SQLite database path")
	assetsDir := flag.String("assets", "", "Sprite directory (empty = use config, then built-in sprites)")
	runID := flag.String("run-id", "", "Run identifier for the history store (empty = timestamp)")
	replay := flag.String("replay", "", "Fly the best genome from a hall_of_fame.json instead of training")

	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	applyFlags(cfg, *generations, *seed, *maxTicks, *storeKind, *storePath, *assetsDir)

	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = time.Now().UnixNano()
	}
	if *runID == "" {
		*runID = time.Now().UTC().Format("20060102T150405")
	}

	// The terminal owns stdout while tcell runs.
	var logOut io.Writer = os.Stdout
	if *terminal {
		logOut = io.Discard
		if *outputDir != "" {
			if err := os.MkdirAll(*outputDir, 0755); err == nil {
				if f, err := os.Create(filepath.Join(*outputDir, "flappy.log")); err == nil {
					defer f.Close()
					logOut = f
				}
			}
		}
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, runOptions{
		neatConfig: *neatConfig,
		headless:   *headless,
		terminal:   *terminal,
		play:       *play,
		replay:     *replay,
		sound:      *sound,
		outputDir:  *outputDir,
		runID:      *runID,
	}); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

type runOptions struct {
	neatConfig string
	headless   bool
	terminal   bool
	play       bool
	replay     string
	sound      bool
	outputDir  string
	runID      string
}

// applyFlags overrides config values with explicitly set flags.
func applyFlags(cfg *config.Config, generations int, seed int64, maxTicks int, storeKind, storePath, assetsDir string) {
	if generations > 0 {
		cfg.Training.Generations = generations
	}
	if seed != 0 {
		cfg.Simulation.Seed = seed
	}
	if maxTicks >= 0 {
		cfg.Simulation.MaxTicks = maxTicks
	}
	if storeKind != "" {
		cfg.Storage.Backend = storeKind
	}
	if storePath != "" {
		cfg.Storage.Path = storePath
	}
	if assetsDir != "" {
		cfg.Assets.Dir = assetsDir
	}
}

func run(ctx context.Context, cfg *config.Config, opts runOptions) error {
	if (opts.play || opts.replay != "") && opts.headless {
		return errors.New("-play and -replay need a window or -terminal")
	}
	if opts.play && opts.replay != "" {
		return errors.New("-play and -replay are exclusive")
	}

	atlas, err := assets.Load(cfg.Assets.Dir)
	if err != nil {
		return fmt.Errorf("loading sprites: %w", err)
	}

	var (
		renderers []game.Renderer
		tickRate  time.Duration
		input     *game.InputController
	)
	if opts.play {
		input = &game.InputController{}
	}

	switch {
	case opts.headless:
	case opts.terminal:
		screen, err := term.NewScreen()
		if err != nil {
			return err
		}
		tr := term.New(screen, cfg, atlas)
		defer tr.Close()
		if input != nil {
			tr.BindInput(input)
		}
		tr.Start()
		renderers = append(renderers, tr)
		tickRate = cfg.Derived.FrameTime
	default:
		win := renderer.NewWindow(cfg, atlas)
		defer win.Close()
		if input != nil {
			win.BindInput(input)
		}
		renderers = append(renderers, win)
	}

	if opts.sound && !opts.headless {
		cues := audio.NewCues()
		if err := cues.Initialize(); err != nil {
			slog.Warn("sound disabled", "error", err)
		} else {
			defer cues.Close()
			renderers = append(renderers, cues)
		}
	}

	if opts.play {
		return flyLoop(ctx, cfg, atlas, input, renderers, tickRate)
	}
	if opts.replay != "" {
		ctrl, err := loadReplay(opts.replay)
		if err != nil {
			return err
		}
		return flyLoop(ctx, cfg, atlas, ctrl, renderers, tickRate)
	}
	return train(ctx, cfg, atlas, opts, renderers, tickRate)
}

func train(ctx context.Context, cfg *config.Config, atlas *assets.Atlas, opts runOptions, renderers []game.Renderer, tickRate time.Duration) error {
	neatOpts := neural.DefaultNEATOptions(cfg.Training.PopulationSize, cfg.Training.Generations)
	if opts.neatConfig != "" {
		var err error
		neatOpts, err = neural.LoadNEATOptions(opts.neatConfig, cfg.Training.PopulationSize, cfg.Training.Generations)
		if err != nil {
			return err
		}
	}

	store, err := storage.NewStore(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return err
	}
	if err := store.Init(ctx); err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}
	defer storage.CloseIfSupported(store)

	output, err := telemetry.NewOutputManager(opts.outputDir)
	if err != nil {
		return err
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		return err
	}

	eval := game.NewEvaluator(cfg, atlas, game.Options{
		Factory:   neural.NewControllerFactory(),
		Seed:      cfg.Simulation.Seed,
		TickRate:  tickRate,
		MaxTicks:  cfg.Simulation.MaxTicks,
		Renderers: renderers,
	})

	slog.Info("starting training",
		"run_id", opts.runID,
		"seed", cfg.Simulation.Seed,
		"population", cfg.Training.PopulationSize,
		"generations", cfg.Training.Generations,
		"max_ticks", cfg.Simulation.MaxTicks,
		"store", cfg.Storage.Backend,
		"headless", opts.headless,
	)

	trainer := neural.NewTrainer(neatOpts, eval, neural.TrainerOptions{
		RunID:          opts.runID,
		Generations:    cfg.Training.Generations,
		TargetScore:    cfg.Training.TargetScore,
		ConnectionProb: cfg.Training.ConnectionProb,
		Seed:           cfg.Simulation.Seed,
		LogEvery:       cfg.Telemetry.LogEvery,
		Store:          store,
		Output:         output,
	})
	if _, err := trainer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// loadReplay builds a controller from the fittest genome in a hall of fame file.
func loadReplay(path string) (*neural.BrainController, error) {
	hof, err := telemetry.LoadHallOfFameFromFile(path)
	if err != nil {
		return nil, err
	}
	best, ok := hof.Best()
	if !ok {
		return nil, errors.New("hall of fame is empty")
	}
	genome, err := neural.DecodeGenome(best.Genome)
	if err != nil {
		return nil, fmt.Errorf("genome %d from generation %d: %w", best.GenomeID, best.Generation, err)
	}
	slog.Info("replaying genome", "genome", best.GenomeID, "generation", best.Generation, "fitness", best.Fitness)
	return neural.NewBrainController(genome)
}

// flyLoop flies a single bird, starting a new round after each death until the display closes.
// The same controller is reused across rounds.
func flyLoop(ctx context.Context, cfg *config.Config, atlas *assets.Atlas, ctrl components.Controller, renderers []game.Renderer, tickRate time.Duration) error {
	eval := game.NewEvaluator(cfg, atlas, game.Options{
		Factory:   func(game.Genome) (components.Controller, error) { return ctrl, nil },
		Seed:      cfg.Simulation.Seed,
		TickRate:  tickRate,
		MaxTicks:  cfg.Simulation.MaxTicks,
		Renderers: renderers,
	})

	best := 0
	for round := 0; ; round++ {
		card := &game.ScoreCard{}
		res, err := eval.Evaluate(ctx, []game.Genome{{ID: round, Record: card}}, round)
		if errors.Is(err, game.ErrStopped) || errors.Is(err, context.Canceled) {
			slog.Info("play finished", "rounds", round, "best_score", best)
			return nil
		}
		if err != nil {
			return err
		}
		best = max(best, res.Score)
		slog.Info("round over", "round", round, "score", res.Score, "ticks", res.Ticks, "fitness", card.Value)
	}
}
