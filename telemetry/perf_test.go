package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartGeneration()
		pc.StartPhase(PhaseEvaluate)
		time.Sleep(200 * time.Microsecond)
		pc.StartPhase(PhaseEpoch)
		time.Sleep(100 * time.Microsecond)
		sample := pc.EndGeneration(100)
		if sample.Ticks != 100 || sample.Duration <= 0 {
			t.Fatalf("sample = %+v", sample)
		}
	}

	stats := pc.Stats()
	if stats.AvgDuration <= 0 {
		t.Error("expected positive average duration")
	}
	if stats.MinDuration > stats.AvgDuration || stats.AvgDuration > stats.MaxDuration {
		t.Errorf("min/avg/max out of order: %v %v %v", stats.MinDuration, stats.AvgDuration, stats.MaxDuration)
	}
	if _, ok := stats.PhaseAvg[PhaseEvaluate]; !ok {
		t.Error("expected evaluate phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseEpoch]; !ok {
		t.Error("expected epoch phase to be tracked")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(3)

	for i := 0; i < 10; i++ {
		pc.StartGeneration()
		pc.StartPhase(PhaseEvaluate)
		pc.EndGeneration(1)
	}

	if pc.sampleCount != 3 {
		t.Errorf("sample count = %d, want 3", pc.sampleCount)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartGeneration()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(2 * time.Millisecond)
		pc.EndGeneration(0)
	}

	stats := pc.Stats()
	if stats.PhasePct["slow"] <= stats.PhasePct["fast"] {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", stats.PhasePct["slow"], stats.PhasePct["fast"])
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgDuration != 0 || stats.TicksPerSecond != 0 {
		t.Error("expected zero values for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{
		AvgDuration:    2500 * time.Microsecond,
		TicksPerSecond: 1200,
		PhasePct:       map[string]float64{PhaseEvaluate: 90, PhaseEpoch: 10},
	}
	row := s.ToCSV(7)
	if row.Generation != 7 || row.AvgMs != 2.5 || row.EvaluatePct != 90 || row.EpochPct != 10 || row.TelemetryPct != 0 {
		t.Errorf("row = %+v", row)
	}
}
