package snowflake

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnknownParameter is returned for keys the active model does not expose.
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrInvalidParameter is returned for values outside the accepted range.
	ErrInvalidParameter = errors.New("invalid parameter value")
)

// ReiterParams are the coefficients of Reiter's local model.
type ReiterParams struct {
	// Alpha weights the diffusion of non-receptive vapour.
	Alpha float64
	// Beta is the background vapour level. Applied on reset only.
	Beta float64
	// Gamma is the vapour added to receptive cells every tick.
	Gamma float64
}

// GravnerParams are the coefficients of the Gravner-Griffeath mesoscopic model.
type GravnerParams struct {
	// Rho is the vapour density. Applied on reset only.
	Rho float64
	// Beta is the tip attachment threshold for boundary mass (anisotropy).
	Beta float64
	// Alpha is the concave attachment threshold for boundary mass.
	Alpha float64
	// Theta is the concave attachment threshold for neighbouring vapour.
	Theta float64
	// Kappa is the share of vapour that crystallises directly when freezing.
	Kappa float64
	// Mu is the melting rate of boundary mass.
	Mu float64
	// Gamma is the sublimation rate of ice mass at the boundary.
	Gamma float64
	// Sigma is the strength of the multiplicative vapour noise.
	Sigma float64
}

// Params is the full parameter set. Only the fields of the active model are
// read during a tick.
type Params struct {
	Reiter  ReiterParams
	Gravner GravnerParams
}

// DefaultParams returns the published defaults of both models.
func DefaultParams() Params {
	return Params{
		Reiter: ReiterParams{
			Alpha: 0.502,
			Beta:  0.4,
			Gamma: 0.0001,
		},
		Gravner: GravnerParams{
			Rho:   0.5,
			Beta:  1.4,
			Alpha: 0.1,
			Theta: 0.005,
			Kappa: 0.001,
			Mu:    0.06,
			Gamma: 0.001,
			Sigma: 0,
		},
	}
}

// paramSpec binds a parameter key to its field, range and apply policy.
type paramSpec struct {
	key       string
	label     string
	min, max  float64
	step      float64
	resetOnly bool
	field     func(*Params) *float64
}

func (s paramSpec) validate(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < s.min || v > s.max {
		return fmt.Errorf("%w: %s=%v outside [%v, %v]", ErrInvalidParameter, s.key, v, s.min, s.max)
	}
	return nil
}

func (s paramSpec) get(p Params) float64 { return *s.field(&p) }

func findSpec(specs []paramSpec, key string) (paramSpec, bool) {
	for _, s := range specs {
		if s.key == key {
			return s, true
		}
	}
	return paramSpec{}, false
}

var reiterSpecs = []paramSpec{
	{key: "alpha", label: "α diffusion", min: 0, max: 2, step: 0.01,
		field: func(p *Params) *float64 { return &p.Reiter.Alpha }},
	{key: "beta", label: "β background vapor", min: 0, max: 1, step: 0.01, resetOnly: true,
		field: func(p *Params) *float64 { return &p.Reiter.Beta }},
	{key: "gamma", label: "γ vapor addition", min: 0, max: 1, step: 0.0001,
		field: func(p *Params) *float64 { return &p.Reiter.Gamma }},
}

var gravnerSpecs = []paramSpec{
	{key: "rho", label: "ρ vapor density", min: 0, max: 1, step: 0.01, resetOnly: true,
		field: func(p *Params) *float64 { return &p.Gravner.Rho }},
	{key: "beta", label: "β anisotropy", min: 1, max: 4, step: 0.05,
		field: func(p *Params) *float64 { return &p.Gravner.Beta }},
	{key: "alpha", label: "α attach b", min: 0, max: 1, step: 0.01,
		field: func(p *Params) *float64 { return &p.Gravner.Alpha }},
	{key: "theta", label: "θ attach d", min: 0, max: 0.5, step: 0.001,
		field: func(p *Params) *float64 { return &p.Gravner.Theta }},
	{key: "kappa", label: "κ freezing", min: 0, max: 1, step: 0.0005,
		field: func(p *Params) *float64 { return &p.Gravner.Kappa }},
	{key: "mu", label: "μ melting", min: 0, max: 0.3, step: 0.005,
		field: func(p *Params) *float64 { return &p.Gravner.Mu }},
	{key: "gamma", label: "γ sublimation", min: 0, max: 0.01, step: 0.0005,
		field: func(p *Params) *float64 { return &p.Gravner.Gamma }},
	{key: "sigma", label: "σ noise", min: 0, max: 1, step: 0.001,
		field: func(p *Params) *float64 { return &p.Gravner.Sigma }},
}
