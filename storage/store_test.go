package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestNewStoreMemory(t *testing.T) {
	store, err := NewStore("memory", "")
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	if store == nil {
		t.Fatal("expected non-nil store")
	}
}

func TestNewStoreUnsupported(t *testing.T) {
	_, err := NewStore("unknown", "")
	if err == nil {
		t.Fatal("expected unsupported store error")
	}
}

func TestSQLiteRequiresPath(t *testing.T) {
	if err := NewSQLiteStore("").Init(context.Background()); err == nil {
		t.Fatal("expected error for empty sqlite path")
	}
}

func TestUninitializedStore(t *testing.T) {
	ctx := context.Background()
	for name, store := range map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": NewSQLiteStore(filepath.Join(t.TempDir(), "x.db")),
	} {
		if err := store.SaveGeneration(ctx, GenerationRecord{RunID: "r"}); err == nil {
			t.Errorf("%s: expected error before Init", name)
		}
	}
}

// TestStoreRoundTrip runs the same checks against every backend.
func TestStoreRoundTrip(t *testing.T) {
	backends := []struct {
		kind string
		path string
	}{
		{"memory", ""},
		{"sqlite", filepath.Join(t.TempDir(), "flappy.db")},
	}

	for _, b := range backends {
		t.Run(b.kind, func(t *testing.T) {
			ctx := context.Background()
			store, err := NewStore(b.kind, b.path)
			if err != nil {
				t.Fatalf("new store: %v", err)
			}
			if err := store.Init(ctx); err != nil {
				t.Fatalf("init: %v", err)
			}
			t.Cleanup(func() {
				_ = CloseIfSupported(store)
			})

			for gen := 0; gen < 3; gen++ {
				rec := GenerationRecord{
					RunID:       "run-1",
					Generation:  gen,
					BestFitness: float64(gen) + 0.5,
					MeanFitness: 1.25,
					StdDev:      0.75,
					Score:       gen,
					Ticks:       100 * (gen + 1),
					Species:     4,
				}
				if err := store.SaveGeneration(ctx, rec); err != nil {
					t.Fatalf("save generation %d: %v", gen, err)
				}
			}
			// Overwrite generation 1.
			if err := store.SaveGeneration(ctx, GenerationRecord{RunID: "run-1", Generation: 1, BestFitness: 9}); err != nil {
				t.Fatalf("resave: %v", err)
			}
			if err := store.SaveGeneration(ctx, GenerationRecord{RunID: "run-2", Generation: 0}); err != nil {
				t.Fatalf("save other run: %v", err)
			}

			history, err := store.Generations(ctx, "run-1")
			if err != nil {
				t.Fatalf("generations: %v", err)
			}
			if len(history) != 3 {
				t.Fatalf("got %d generations, want 3", len(history))
			}
			if history[0].Ticks != 100 || history[2].Score != 2 || history[0].StdDev != 0.75 {
				t.Errorf("unexpected history %+v", history)
			}
			if history[1].BestFitness != 9 {
				t.Errorf("generation 1 best = %v, want 9", history[1].BestFitness)
			}

			if _, ok, err := store.Champion(ctx, "run-1"); err != nil || ok {
				t.Fatalf("champion before save: ok=%v err=%v", ok, err)
			}
			champ := ChampionRecord{RunID: "run-1", Generation: 2, GenomeID: 17, Fitness: 42.5, Genome: "genomestart 17\ngenomeend 17\n"}
			if err := store.SaveChampion(ctx, champ); err != nil {
				t.Fatalf("save champion: %v", err)
			}
			got, ok, err := store.Champion(ctx, "run-1")
			if err != nil || !ok {
				t.Fatalf("champion: ok=%v err=%v", ok, err)
			}
			if got != champ {
				t.Errorf("champion = %+v, want %+v", got, champ)
			}
		})
	}
}
