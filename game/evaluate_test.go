package game

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/pthm-cable/flappy/assets"
	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
)

type funcController func(obs components.Observation) []float64

func (f funcController) Decide(obs components.Observation) []float64 { return f(obs) }

func neverJump() components.Controller {
	return funcController(func(components.Observation) []float64 { return []float64{0} })
}

func alwaysJump() components.Controller {
	return funcController(func(components.Observation) []float64 { return []float64{1} })
}

// hover keeps the bird in a band above y=400 for its first n decisions, then lets it fall.
func hover(n int) components.Controller {
	calls := 0
	return funcController(func(obs components.Observation) []float64 {
		calls++
		if calls <= n && obs[0] > 400 {
			return []float64{1}
		}
		return []float64{0}
	})
}

// factoryOf builds controllers from a constructor per genome ID.
func factoryOf(ctors map[int]func() components.Controller) ControllerFactory {
	return func(g Genome) (components.Controller, error) {
		ctor, ok := ctors[g.ID]
		if !ok {
			return nil, errors.New("no controller")
		}
		return ctor(), nil
	}
}

func genomes(ids ...int) []Genome {
	out := make([]Genome, len(ids))
	for i, id := range ids {
		out[i] = Genome{ID: id, Record: &ScoreCard{}}
	}
	return out
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestEvaluateNeverJumpFallsToGround(t *testing.T) {
	cfg := config.Default()
	ev := NewEvaluator(cfg, assets.Default(), Options{
		Factory: factoryOf(map[int]func() components.Controller{1: neverJump}),
	})

	gs := genomes(1)
	res, err := ev.Evaluate(context.Background(), gs, 0)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	m := res.Members[0]
	if m.Cause != CauseGround {
		t.Errorf("cause = %v, want ground", m.Cause)
	}
	// 387 after four ticks, then 16 per tick until y + 48 >= 730.
	if m.Ticks != 23 {
		t.Errorf("ticks survived = %d, want 23", m.Ticks)
	}
	if got, want := gs[0].Record.Fitness(), 0.1*float64(m.Ticks); !approx(got, want) {
		t.Errorf("fitness = %v, want %v", got, want)
	}
	if res.Score != 0 || res.Ticks != 23 {
		t.Errorf("score %d ticks %d, want 0 and 23", res.Score, res.Ticks)
	}
}

func TestEvaluateAlwaysJumpExitsTop(t *testing.T) {
	cfg := config.Default()
	ev := NewEvaluator(cfg, assets.Default(), Options{
		Factory: factoryOf(map[int]func() components.Controller{1: alwaysJump}),
	})

	gs := genomes(1)
	res, err := ev.Evaluate(context.Background(), gs, 0)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	m := res.Members[0]
	if m.Cause != CauseCeiling {
		t.Errorf("cause = %v, want ceiling", m.Cause)
	}
	// y = 351.5 - 11*(n-1) goes negative on tick 33.
	if m.Ticks != 33 {
		t.Errorf("ticks survived = %d, want 33", m.Ticks)
	}
	if got, want := m.Fitness, 0.1*float64(m.Ticks); !approx(got, want) {
		t.Errorf("fitness = %v, want %v (no penalty)", got, want)
	}
}

// TestEvaluatePassBonusOnlyForSurvivors runs one bird through the first pipe and
// one that dies long before it.
func TestEvaluatePassBonusOnlyForSurvivors(t *testing.T) {
	cfg := config.Default()
	cfg.Pipe.MinHeight = 300
	cfg.Pipe.MaxHeight = 301 // gap spans [300, 500)

	ev := NewEvaluator(cfg, assets.Default(), Options{
		Factory: factoryOf(map[int]func() components.Controller{
			10: func() components.Controller { return hover(100) },
			20: neverJump,
		}),
	})

	gs := genomes(10, 20)
	res, err := ev.Evaluate(context.Background(), gs, 0)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	flyer, faller := res.Members[0], res.Members[1]
	if res.Score != 1 {
		t.Errorf("score = %d, want 1", res.Score)
	}
	if flyer.ID != 10 || faller.ID != 20 {
		t.Fatalf("member order changed: %+v", res.Members)
	}
	if flyer.Cause != CauseGround || flyer.Ticks <= 76 {
		t.Errorf("flyer: cause %v after %d ticks, want ground after tick 76", flyer.Cause, flyer.Ticks)
	}
	if got, want := flyer.Fitness, 0.1*float64(flyer.Ticks)+5; !approx(got, want) {
		t.Errorf("flyer fitness = %v, want %v", got, want)
	}
	if faller.Ticks != 23 {
		t.Errorf("faller ticks = %d, want 23", faller.Ticks)
	}
	if got, want := faller.Fitness, 0.1*23; !approx(got, want) {
		t.Errorf("faller fitness = %v, want %v", got, want)
	}
	if gs[0].Record.Fitness() != flyer.Fitness || gs[1].Record.Fitness() != faller.Fitness {
		t.Error("records and result disagree")
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	cfg := config.Default()
	ctors := map[int]func() components.Controller{
		1: func() components.Controller { return hover(400) },
		2: func() components.Controller { return hover(150) },
		3: neverJump,
	}

	run := func() Result {
		ev := NewEvaluator(cfg, assets.Default(), Options{Factory: factoryOf(ctors), Seed: 1234})
		res, err := ev.Evaluate(context.Background(), genomes(1, 2, 3), 7)
		if err != nil {
			t.Fatalf("Evaluate error: %v", err)
		}
		return res
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("runs differ:\n%+v\n%+v", a, b)
	}
}

func TestEvaluateEmpty(t *testing.T) {
	ev := NewEvaluator(config.Default(), assets.Default(), Options{})
	res, err := ev.Evaluate(context.Background(), nil, 3)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if res.Ticks != 0 || len(res.Members) != 0 || res.Generation != 3 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestEvaluateResetsFitness(t *testing.T) {
	ev := NewEvaluator(config.Default(), assets.Default(), Options{
		Factory: factoryOf(map[int]func() components.Controller{1: neverJump}),
	})
	gs := []Genome{{ID: 1, Record: &ScoreCard{Value: 42}}}
	if _, err := ev.Evaluate(context.Background(), gs, 0); err != nil {
		t.Fatal(err)
	}
	if got := gs[0].Record.Fitness(); !approx(got, 2.3) {
		t.Errorf("fitness = %v, want 2.3", got)
	}
}

func TestEvaluateEarlyExit(t *testing.T) {
	factory := factoryOf(map[int]func() components.Controller{
		1: func() components.Controller { return hover(1000) },
	})

	t.Run("tick cap", func(t *testing.T) {
		ev := NewEvaluator(config.Default(), assets.Default(), Options{Factory: factory, MaxTicks: 10})
		res, err := ev.Evaluate(context.Background(), genomes(1), 0)
		if err != nil {
			t.Fatalf("Evaluate error: %v", err)
		}
		m := res.Members[0]
		if m.Cause != CauseCapped || m.Ticks != 10 || res.Ticks != 10 {
			t.Errorf("got cause %v ticks %d/%d, want capped at 10", m.Cause, m.Ticks, res.Ticks)
		}
		if !approx(m.Fitness, 1.0) {
			t.Errorf("fitness = %v, want 1.0", m.Fitness)
		}
	})

	t.Run("renderer stop", func(t *testing.T) {
		stop := RendererFunc(func(s *Snapshot) bool { return s.Tick < 5 })
		ev := NewEvaluator(config.Default(), assets.Default(), Options{Factory: factory, Renderers: []Renderer{stop}})
		res, err := ev.Evaluate(context.Background(), genomes(1), 0)
		if !errors.Is(err, ErrStopped) {
			t.Fatalf("err = %v, want ErrStopped", err)
		}
		if !res.Stopped || res.Ticks != 5 {
			t.Errorf("stopped %v after %d ticks, want true after 5", res.Stopped, res.Ticks)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		ev := NewEvaluator(config.Default(), assets.Default(), Options{Factory: factory})
		res, err := ev.Evaluate(ctx, genomes(1), 0)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
		if res.Ticks != 0 {
			t.Errorf("ticks = %d, want 0", res.Ticks)
		}
	})

	t.Run("factory failure", func(t *testing.T) {
		ev := NewEvaluator(config.Default(), assets.Default(), Options{Factory: factory})
		if _, err := ev.Evaluate(context.Background(), genomes(1, 99), 0); err == nil {
			t.Error("expected factory error")
		}
	})
}

func TestResultBest(t *testing.T) {
	r := Result{Members: []MemberResult{{ID: 1, Fitness: 2}, {ID: 2, Fitness: 9}, {ID: 3, Fitness: 4}}}
	best, ok := r.Best()
	if !ok || best.ID != 2 {
		t.Errorf("best = %+v, want ID 2", best)
	}
	if _, ok := (Result{}).Best(); ok {
		t.Error("empty result should have no best")
	}
}
