package main

import (
	"math"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the weights of a linear controller over the three observations plus a bias.
// Observations are scaled by the screen height so the weights share one range.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "w_y", Min: -10, Max: 10, Default: 0},
			{Name: "w_top", Min: -10, Max: 10, Default: 0},
			{Name: "w_bottom", Min: -10, Max: 10, Default: 0},
			{Name: "bias", Min: -5, Max: 5, Default: 0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// Controller builds the linear controller for a parameter vector.
func (pv *ParamVector) Controller(values []float64, cfg *config.Config) LinearController {
	clamped := pv.Clamp(values)
	return LinearController{
		Weights: [3]float64{clamped[0], clamped[1], clamped[2]},
		Bias:    clamped[3],
		Scale:   1 / float64(cfg.Screen.Height),
	}
}

// LinearController squashes a weighted sum of the scaled observation through a logistic.
type LinearController struct {
	Weights [3]float64 `yaml:"weights"`
	Bias    float64    `yaml:"bias"`
	Scale   float64    `yaml:"scale"`
}

// Decide implements components.Controller.
func (c LinearController) Decide(obs components.Observation) []float64 {
	z := c.Bias
	for i, v := range obs {
		z += c.Weights[i] * v * c.Scale
	}
	return []float64{1 / (1 + math.Exp(-z))}
}
