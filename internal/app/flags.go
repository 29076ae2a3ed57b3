package app

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Config represents the command-line parameters shared by the entry points.
type Config struct {
	Sim      string
	Scale    int
	TPS      int
	Width    int
	Height   int
	Workers  int
	Boundary string
	Seed     int64
	Noise    float64
	Set      string
	Verbose  bool
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Sim:      "reiter",
		Scale:    3,
		TPS:      60,
		Width:    200,
		Height:   200,
		Workers:  runtime.NumCPU(),
		Boundary: "periodic",
		Seed:     42,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "growth model (reiter, gravner-griffeath)")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixels per cell")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second, 0 for unpaced")
	fs.IntVar(&c.Width, "w", c.Width, "lattice width")
	fs.IntVar(&c.Height, "h", c.Height, "lattice height")
	fs.IntVar(&c.Workers, "workers", c.Workers, "parallel workers per pass")
	fs.StringVar(&c.Boundary, "boundary", c.Boundary, "edge policy (periodic, open)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "noise seed")
	fs.Float64Var(&c.Noise, "noise", c.Noise, "Perlin amplitude added to the ambient vapour on reset")
	fs.StringVar(&c.Set, "set", c.Set, "model parameters as key=value[,key=value]")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "debug logging")
}

// Map flattens the configuration into the key/value form sim factories
// accept. Entries from -set override the lattice fields.
func (c *Config) Map() (map[string]string, error) {
	m := map[string]string{
		"w":               strconv.Itoa(c.Width),
		"h":               strconv.Itoa(c.Height),
		"workers":         strconv.Itoa(c.Workers),
		"boundary":        c.Boundary,
		"seed":            strconv.FormatInt(c.Seed, 10),
		"noise_amplitude": strconv.FormatFloat(c.Noise, 'f', -1, 64),
	}
	if strings.TrimSpace(c.Set) == "" {
		return m, nil
	}
	for _, pair := range strings.Split(c.Set, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("malformed -set entry %q", pair)
		}
		m[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return m, nil
}

// Logger returns a text logger on stderr, at debug level when Verbose is set.
func (c *Config) Logger() *slog.Logger {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
