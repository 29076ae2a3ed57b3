package snowflake

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ErrWorkerFailed reports a kernel that could not complete its span.
var ErrWorkerFailed = errors.New("worker failed")

// Pass is one bulk-synchronous sub-step of a tick. Kernel processes the cell
// index range [lo, hi). Within a pass a kernel writes only the fields of the
// cells in its range and reads only fields no kernel of the same pass writes.
type Pass struct {
	Name   string
	Kernel func(lo, hi int)
}

type span struct{ lo, hi int }

// Executor runs passes over a fixed partition of the lattice. Each worker
// owns a contiguous band of rows; a barrier separates consecutive passes.
type Executor struct {
	workers int
	spans   []span
}

// NewExecutor partitions a lattice of the given size into at most workers
// row bands. workers <= 0 selects runtime.NumCPU().
func NewExecutor(workers int, w, h int) *Executor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > h {
		workers = h
	}
	if workers < 1 {
		workers = 1
	}
	rows := make([]int, workers)
	for r := 0; r < h; r++ {
		rows[r%workers]++
	}
	spans := make([]span, 0, workers)
	start := 0
	for _, n := range rows {
		spans = append(spans, span{lo: start * w, hi: (start + n) * w})
		start += n
	}
	return &Executor{workers: workers, spans: spans}
}

// Workers returns the number of parallel bands.
func (e *Executor) Workers() int { return e.workers }

// Run executes passes in order. A pass starts only after every band of the
// previous one has finished. The first failure aborts the remaining passes.
func (e *Executor) Run(passes []Pass) error {
	for _, p := range passes {
		if err := e.runPass(p); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) runPass(p Pass) error {
	if len(e.spans) == 1 {
		return runSpan(p, e.spans[0])
	}
	var g errgroup.Group
	g.SetLimit(e.workers)
	for _, s := range e.spans {
		s := s
		g.Go(func() error { return runSpan(p, s) })
	}
	return g.Wait()
}

func runSpan(p Pass, s span) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: pass %s cells [%d,%d): %v", ErrWorkerFailed, p.Name, s.lo, s.hi, r)
		}
	}()
	p.Kernel(s.lo, s.hi)
	return nil
}
