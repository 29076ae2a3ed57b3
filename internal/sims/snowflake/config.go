package snowflake

import (
	"runtime"
	"strconv"

	"snow-ca/internal/core"
)

// Config controls the lattice, the model and the initial parameters of a
// Controller.
type Config struct {
	Width  int
	Height int

	Boundary core.Boundary
	Workers  int

	// Seed drives the noise of stochastic parameters and the ambient
	// perturbation. It does not move the nucleation site.
	Seed int64

	Model  Model
	Params Params

	// NoiseAmplitude and NoiseScale add Perlin noise to the ambient field
	// on reset. An amplitude of zero keeps the field uniform.
	NoiseAmplitude float64
	NoiseScale     float64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:      256,
		Height:     256,
		Boundary:   core.BoundaryPeriodic,
		Workers:    runtime.NumCPU(),
		Seed:       1337,
		Model:      ModelReiter,
		Params:     DefaultParams(),
		NoiseScale: 0.05,
	}
}

// FromMap populates the config from a string map (flag-style key/value
// pairs). Model parameters are resolved against the selected model; keys
// that fail to parse or fall outside their range keep the default.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["boundary"]; ok {
		if parsed, err := core.ParseBoundary(v); err == nil {
			c.Boundary = parsed
		}
	}
	if v, ok := cfg["model"]; ok {
		if parsed, err := ParseModel(v); err == nil {
			c.Model = parsed
		}
	}
	if v, ok := cfg["noise_amplitude"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.NoiseAmplitude = parsed
		}
	}
	if v, ok := cfg["noise_scale"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.NoiseScale = parsed
		}
	}
	rule, err := NewRule(c.Model)
	if err != nil {
		return c
	}
	for _, spec := range rule.parameters() {
		v, ok := cfg[spec.key]
		if !ok {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || spec.validate(parsed) != nil {
			continue
		}
		*spec.field(&c.Params) = parsed
	}
	return c
}
