package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"snow-ca/internal/sims/snowflake"
)

type scenario struct {
	key    string
	values []float64
}

type scenarioResult struct {
	key     string
	value   float64
	ticks   []float64
	ice     []float64
	radius  int
	mass    float64
	elapsed time.Duration
	err     error
}

func (r scenarioResult) label() string {
	return fmt.Sprintf("%s=%s", r.key, strconv.FormatFloat(r.value, 'f', -1, 64))
}

func main() {
	model := flag.String("model", "gravner-griffeath", "growth model")
	key := flag.String("param", "beta", "parameter to sweep")
	valuesFlag := flag.String("values", "1.3,1.6,1.9,2.2,2.6", "comma separated parameter values")
	steps := flag.Int("steps", 1500, "ticks to simulate per scenario")
	sample := flag.Int("sample", 25, "ticks between growth samples")
	size := flag.Int("size", 160, "lattice width and height")
	workers := flag.Int("workers", runtime.NumCPU(), "number of scenario goroutines")
	out := flag.String("out", "growth.png", "chart output path")
	flag.Parse()

	if err := checkCounts(*steps, *sample, *workers); err != nil {
		log.Fatal(err)
	}
	m, err := snowflake.ParseModel(*model)
	if err != nil {
		log.Fatal(err)
	}
	values, err := parseValues(*valuesFlag)
	if err != nil {
		log.Fatal(err)
	}

	base := snowflake.DefaultConfig()
	base.Model = m
	base.Width, base.Height = *size, *size
	// Scenarios already run in parallel; keep each lattice on one worker.
	base.Workers = 1

	fmt.Printf("Sweeping %s over %d values (%s, %d workers, %d steps)\n", *key, len(values), m, *workers, *steps)

	jobs := make(chan float64)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for v := range jobs {
				results <- runScenario(base, *key, v, *steps, *sample)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, v := range values {
			jobs <- v
		}
		close(jobs)
	}()

	start := time.Now()
	var all []scenarioResult
	for res := range results {
		if res.err != nil {
			log.Fatalf("%s: %v", res.label(), res.err)
		}
		fmt.Printf("%-14s ice=%-6d radius=%-4d mass=%.3f (%s)\n",
			res.label(), int(res.ice[len(res.ice)-1]), res.radius, res.mass, res.elapsed.Round(time.Millisecond))
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].value < all[j].value })

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	if err := renderChart(f, all); err != nil {
		f.Close()
		log.Fatal(err)
	}
	if err := f.Close(); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nWrote %s (elapsed %s)\n", *out, time.Since(start).Round(time.Millisecond))
}

// checkCounts rejects flag values that would stall or divide by zero.
func checkCounts(steps, sample, workers int) error {
	switch {
	case steps <= 0:
		return fmt.Errorf("-steps must be positive, got %d", steps)
	case sample <= 0:
		return fmt.Errorf("-sample must be positive, got %d", sample)
	case workers <= 0:
		return fmt.Errorf("-workers must be positive, got %d", workers)
	}
	return nil
}

func parseValues(s string) ([]float64, error) {
	var values []float64
	for _, field := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", field, err)
		}
		values = append(values, v)
	}
	return values, nil
}

func runScenario(base snowflake.Config, key string, value float64, steps, sample int) scenarioResult {
	res := scenarioResult{key: key, value: value}
	if err := checkCounts(steps, sample, 1); err != nil {
		res.err = err
		return res
	}
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl, err := snowflake.NewController(base, quiet)
	if err != nil {
		res.err = err
		return res
	}
	if err := ctrl.SetParameter(key, value); err != nil {
		res.err = err
		return res
	}
	if p, ok := ctrl.Parameters().Lookup(key); ok && p.ResetOnly {
		if err := ctrl.Reset(); err != nil {
			res.err = err
			return res
		}
	}
	if err := ctrl.Start(); err != nil {
		res.err = err
		return res
	}

	start := time.Now()
	record := func() {
		s := ctrl.Snapshot()
		res.ticks = append(res.ticks, float64(s.Tick))
		res.ice = append(res.ice, float64(s.IceCount()))
	}
	record()
	for i := 1; i <= steps; i++ {
		if _, err := ctrl.Tick(); err != nil {
			res.err = err
			return res
		}
		if i%sample == 0 || i == steps {
			record()
		}
	}
	s := ctrl.Snapshot()
	res.radius = s.CrystalRadius()
	res.mass = s.TotalMass()
	res.elapsed = time.Since(start)
	return res
}

func renderChart(w io.Writer, results []scenarioResult) error {
	series := make([]chart.Series, 0, len(results))
	for i, res := range results {
		series = append(series, chart.ContinuousSeries{
			Name:    res.label(),
			XValues: res.ticks,
			YValues: res.ice,
			Style:   chart.Style{StrokeColor: chart.GetDefaultColor(i), StrokeWidth: 2.0},
		})
	}
	graph := chart.Chart{
		Width:  960,
		Height: 540,
		XAxis: chart.XAxis{
			Name:  "tick",
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "ice cells",
			Style: chart.Style{FontSize: 10.0},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.PNG, w)
}
