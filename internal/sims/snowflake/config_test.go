package snowflake

import (
	"testing"

	"snow-ca/internal/core"
)

func TestFromMapDefaults(t *testing.T) {
	if got := FromMap(nil); got.Width != 256 || got.Model != ModelReiter || got.Params != DefaultParams() {
		t.Fatalf("FromMap(nil) = %+v", got)
	}
}

func TestFromMapOverrides(t *testing.T) {
	cfg := FromMap(map[string]string{
		"w":               "64",
		"h":               "48",
		"workers":         "3",
		"seed":            "-9",
		"boundary":        "open",
		"model":           "gg",
		"noise_amplitude": "0.02",
		"beta":            "2.2",
		"kappa":           "0.05",
		"alpha":           "0.3",
	})
	if cfg.Width != 64 || cfg.Height != 48 || cfg.Workers != 3 || cfg.Seed != -9 {
		t.Fatalf("lattice fields = %+v", cfg)
	}
	if cfg.Boundary != core.BoundaryOpen || cfg.Model != ModelGravner || cfg.NoiseAmplitude != 0.02 {
		t.Fatalf("boundary/model/noise = %v %v %v", cfg.Boundary, cfg.Model, cfg.NoiseAmplitude)
	}
	g := cfg.Params.Gravner
	if g.Beta != 2.2 || g.Kappa != 0.05 || g.Alpha != 0.3 {
		t.Fatalf("gravner params = %+v", g)
	}
	if cfg.Params.Reiter != DefaultParams().Reiter {
		t.Fatal("keys must only bind to the selected model")
	}
}

func TestFromMapIgnoresBadValues(t *testing.T) {
	cfg := FromMap(map[string]string{
		"w":        "-4",
		"workers":  "lots",
		"boundary": "mirror",
		"model":    "dla",
		"alpha":    "9",
		"gamma":    "NaN",
	})
	def := DefaultConfig()
	if cfg.Width != def.Width || cfg.Workers != def.Workers || cfg.Boundary != def.Boundary || cfg.Model != def.Model {
		t.Fatalf("invalid values leaked: %+v", cfg)
	}
	if cfg.Params != def.Params {
		t.Fatalf("invalid parameters leaked: %+v", cfg.Params)
	}
}

func TestNewControllerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(ModelGravner, 1)
	cfg.Params.Gravner.Beta = 0.5
	if _, err := NewController(cfg, quietLogger()); err == nil {
		t.Fatal("beta below 1 must be rejected")
	}
	cfg = testConfig("dla", 1)
	if _, err := NewController(cfg, quietLogger()); err == nil {
		t.Fatal("unknown model must be rejected")
	}
	cfg = testConfig(ModelReiter, 1)
	cfg.Width = 0
	if _, err := NewController(cfg, quietLogger()); err == nil {
		t.Fatal("empty lattice must be rejected")
	}
}
