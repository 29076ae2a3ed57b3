package main

import (
	"bytes"
	"math"
	"slices"
	"testing"

	"snow-ca/internal/sims/snowflake"
)

func TestParseValues(t *testing.T) {
	got, err := parseValues("1.5, 2,2.25")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []float64{1.5, 2, 2.25}) {
		t.Fatalf("values = %v", got)
	}
	if _, err := parseValues("1.5,,2"); err == nil {
		t.Fatal("expected error for empty value")
	}
}

func TestRunScenarioAppliesResetOnlyValue(t *testing.T) {
	base := snowflake.DefaultConfig()
	base.Model = snowflake.ModelGravner
	base.Width, base.Height = 24, 24
	base.Workers = 1

	res := runScenario(base, "rho", 0.7, 40, 10)
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !slices.Equal(res.ticks, []float64{0, 10, 20, 30, 40}) {
		t.Fatalf("sample ticks = %v", res.ticks)
	}
	if res.ice[0] != 1 || res.ice[len(res.ice)-1] < res.ice[0] {
		t.Fatalf("ice curve = %v", res.ice)
	}
	if want := 0.7*float64(24*24-1) + 1; math.Abs(res.mass-want) > 1e-6 {
		t.Fatalf("total mass %f, want %f from the swept density", res.mass, want)
	}

	var buf bytes.Buffer
	if err := renderChart(&buf, []scenarioResult{res}); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Fatal("chart is not a PNG")
	}
}

func TestRunScenarioRejectsUnknownParameter(t *testing.T) {
	base := snowflake.DefaultConfig()
	base.Width, base.Height = 8, 8
	if res := runScenario(base, "kappa", 0.1, 5, 1); res.err == nil {
		t.Fatal("reiter has no kappa")
	}
}

func TestCheckCounts(t *testing.T) {
	cases := []struct {
		steps, sample, workers int
		ok                     bool
	}{
		{1500, 25, 4, true},
		{10, 1, 1, true},
		{10, 0, 4, false},
		{10, -5, 4, false},
		{10, 5, 0, false},
		{0, 5, 4, false},
	}
	for _, tc := range cases {
		err := checkCounts(tc.steps, tc.sample, tc.workers)
		if (err == nil) != tc.ok {
			t.Fatalf("checkCounts(%d, %d, %d) = %v, want ok=%v", tc.steps, tc.sample, tc.workers, err, tc.ok)
		}
	}

	base := snowflake.DefaultConfig()
	base.Width, base.Height = 8, 8
	if res := runScenario(base, "beta", 0.5, 5, 0); res.err == nil {
		t.Fatal("zero sample interval must be rejected")
	}
}
