package app

import (
	"flag"
	"testing"
)

func TestConfigBindAndMap(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)
	args := []string{"-sim", "gravner-griffeath", "-w", "64", "-boundary", "open", "-set", "beta=2.1, mu=0.03", "-v"}
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	if cfg.Sim != "gravner-griffeath" || !cfg.Verbose {
		t.Fatalf("cfg = %+v", cfg)
	}
	m, err := cfg.Map()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"w": "64", "h": "200", "boundary": "open", "beta": "2.1", "mu": "0.03", "seed": "42"}
	for k, v := range want {
		if m[k] != v {
			t.Fatalf("m[%q] = %q, want %q", k, m[k], v)
		}
	}
}

func TestConfigMapRejectsMalformedSet(t *testing.T) {
	cfg := NewConfig()
	cfg.Set = "alpha"
	if _, err := cfg.Map(); err == nil {
		t.Fatal("expected error for entry without '='")
	}
}
