package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one training generation.
const (
	PhaseEvaluate  = "evaluate"
	PhaseTelemetry = "telemetry"
	PhaseEpoch     = "epoch"
)

// PerfSample holds timing data for a single generation.
type PerfSample struct {
	Duration time.Duration
	Ticks    int
	Phases   map[string]time.Duration
}

// PerfCollector tracks wall-clock cost of generations over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	start         time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a collector averaging over windowSize generations.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 10
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartGeneration begins timing a generation.
func (p *PerfCollector) StartGeneration() {
	p.start = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndGeneration records the sample for the generation, which ran ticks simulation ticks.
func (p *PerfCollector) EndGeneration(ticks int) PerfSample {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
		p.lastPhase = ""
	}

	sample := PerfSample{
		Duration: now.Sub(p.start),
		Ticks:    ticks,
		Phases:   p.currentPhases,
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
	return sample
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgDuration time.Duration
	MinDuration time.Duration
	MaxDuration time.Duration

	// Phase breakdown (average durations and share of the generation)
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	// Simulation ticks per wall-clock second
	TicksPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var total time.Duration
	var minDur, maxDur time.Duration
	ticks := 0
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.Duration
		ticks += s.Ticks

		if i == 0 || s.Duration < minDur {
			minDur = s.Duration
		}
		if s.Duration > maxDur {
			maxDur = s.Duration
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var tps float64
	if total > 0 {
		tps = float64(ticks) / total.Seconds()
	}

	return PerfStats{
		AvgDuration:    avg,
		MinDuration:    minDur,
		MaxDuration:    maxDur,
		PhaseAvg:       phaseAvg,
		PhasePct:       phasePct,
		TicksPerSecond: tps,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_ms", float64(s.AvgDuration.Microseconds()) / 1000,
		"min_ms", float64(s.MinDuration.Microseconds()) / 1000,
		"max_ms", float64(s.MaxDuration.Microseconds()) / 1000,
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	for _, phase := range []string{PhaseEvaluate, PhaseTelemetry, PhaseEpoch} {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, phase+"_pct", int(pct))
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is the flattened CSV form of PerfStats.
type PerfStatsCSV struct {
	Generation     int     `csv:"generation"`
	AvgMs          float64 `csv:"avg_ms"`
	MinMs          float64 `csv:"min_ms"`
	MaxMs          float64 `csv:"max_ms"`
	TicksPerSecond float64 `csv:"ticks_per_sec"`
	EvaluatePct    float64 `csv:"evaluate_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
	EpochPct       float64 `csv:"epoch_pct"`
}

// ToCSV converts the stats for the generation just finished.
func (s PerfStats) ToCSV(generation int) PerfStatsCSV {
	ms := func(d time.Duration) float64 { return float64(d.Microseconds()) / 1000 }
	return PerfStatsCSV{
		Generation:     generation,
		AvgMs:          ms(s.AvgDuration),
		MinMs:          ms(s.MinDuration),
		MaxMs:          ms(s.MaxDuration),
		TicksPerSecond: s.TicksPerSecond,
		EvaluatePct:    s.PhasePct[PhaseEvaluate],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
		EpochPct:       s.PhasePct[PhaseEpoch],
	}
}
