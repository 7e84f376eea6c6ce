package neural

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/flappy/assets"
	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/game"
	"github.com/pthm-cable/flappy/storage"
	"github.com/pthm-cable/flappy/telemetry"
)

func newTestTrainer(t *testing.T, generations int, renderers ...game.Renderer) (*Trainer, storage.Store, string) {
	t.Helper()
	cfg := config.Default()

	eval := game.NewEvaluator(cfg, assets.Default(), game.Options{
		Factory:   NewControllerFactory(),
		Seed:      5,
		MaxTicks:  60,
		Renderers: renderers,
	})

	store := storage.NewMemoryStore()
	if err := store.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(t.TempDir(), "out")
	out, err := telemetry.NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = out.Close() })

	tr := NewTrainer(DefaultNEATOptions(12, generations), eval, TrainerOptions{
		RunID:          "test",
		Generations:    generations,
		ConnectionProb: 1.0,
		Seed:           9,
		Store:          store,
		Output:         out,
	})
	return tr, store, dir
}

func TestTrainerRun(t *testing.T) {
	tr, store, dir := newTestTrainer(t, 3)

	sum, err := tr.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.Generations != 3 || sum.Stopped {
		t.Errorf("summary = %+v", sum)
	}
	if sum.Champion == "" || sum.ChampionFitness <= 0 {
		t.Error("expected a champion with positive fitness")
	}

	history, err := store.Generations(context.Background(), "test")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 3 {
		t.Errorf("stored %d generations, want 3", len(history))
	}
	champ, ok, err := store.Champion(context.Background(), "test")
	if err != nil || !ok {
		t.Fatalf("champion missing: %v", err)
	}
	if champ.Fitness != sum.ChampionFitness || champ.Genome != sum.Champion {
		t.Error("stored champion differs from summary")
	}

	if _, err := os.Stat(filepath.Join(dir, "champion.genome")); err != nil {
		t.Errorf("champion.genome not written: %v", err)
	}

	hof, err := telemetry.LoadHallOfFameFromFile(filepath.Join(dir, "hall_of_fame.json"))
	if err != nil {
		t.Fatalf("hall of fame not written: %v", err)
	}
	best, _ := hof.Best()
	if best.Fitness != sum.ChampionFitness || best.Genome != sum.Champion {
		t.Errorf("hall best = %v, want the champion %v", best.Fitness, sum.ChampionFitness)
	}
	if hof.Size() < 1 || hof.Size() > 3 {
		t.Errorf("hall size = %d, want one entry per generation at most", hof.Size())
	}
}

func TestTrainerStopsOnRendererRequest(t *testing.T) {
	stop := game.RendererFunc(func(s *game.Snapshot) bool { return s.Generation < 1 })
	tr, _, _ := newTestTrainer(t, 5, stop)

	sum, err := tr.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !sum.Stopped || sum.Generations != 1 {
		t.Errorf("stopped %v after %d generations, want true after 1", sum.Stopped, sum.Generations)
	}
}
