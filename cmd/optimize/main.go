// Package main searches for a linear flappy controller with CMA-ES, as a baseline for NEAT runs.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/flappy/assets"
	"github.com/pthm-cable/flappy/config"
)

// EvalRow is one line of optimize_log.csv.
type EvalRow struct {
	Eval    int     `csv:"eval"`
	Fitness float64 `csv:"fitness"`
	Score   float64 `csv:"score"`
	WY      float64 `csv:"w_y"`
	WTop    float64 `csv:"w_top"`
	WBottom float64 `csv:"w_bottom"`
	Bias    float64 `csv:"bias"`
}

// BestResult is written to best_controller.yaml.
type BestResult struct {
	Fitness     float64          `yaml:"fitness"`
	Score       float64          `yaml:"score"`
	Evaluations int              `yaml:"evaluations"`
	Controller  LinearController `yaml:"controller"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 3000, "Tick cap per flight")
	seeds := flag.Int("seeds", 3, "Number of pipe seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if *maxTicks <= 0 {
		log.Fatal("--max-ticks must be positive")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()
	atlas, err := assets.Load(cfg.Assets.Dir)
	if err != nil {
		log.Fatalf("failed to load sprites: %v", err)
	}

	params := NewParamVector()
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, cfg, atlas, evalSeeds, *maxTicks)

	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0,
	}

	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	headerWritten := false
	bestFitness := 1e9
	var bestParams []float64
	var bestScore float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			score := evaluator.LastScore()
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestScore = score
				bestParams = raw
			}

			rows := []EvalRow{{
				Eval:    evalCount,
				Fitness: fitness,
				Score:   score,
				WY:      raw[0],
				WTop:    raw[1],
				WBottom: raw[2],
				Bias:    raw[3],
			}}
			var werr error
			if headerWritten {
				werr = gocsv.MarshalWithoutHeaders(rows, logFile)
			} else {
				werr = gocsv.Marshal(rows, logFile)
				headerWritten = true
			}
			if werr != nil {
				log.Printf("failed to write log row: %v", werr)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval
			fmt.Printf("Eval %d/%d: fitness=%.1f score=%.1f (best=%.1f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, -fitness, score, -bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, tick cap: %d\n", *seeds, *maxTicks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.2f, mean score: %.1f\n", -bestFitness, bestScore)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Name, bestParams[i])
	}

	best := BestResult{
		Fitness:     -bestFitness,
		Score:       bestScore,
		Evaluations: evalCount,
		Controller:  params.Controller(bestParams, cfg),
	}
	data, err := yaml.Marshal(best)
	if err != nil {
		log.Fatalf("failed to marshal best controller: %v", err)
	}
	outPath := filepath.Join(*outputDir, "best_controller.yaml")
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		log.Fatalf("failed to write best controller: %v", err)
	}
	fmt.Printf("\nBest controller saved to: %s\n", outPath)
}
