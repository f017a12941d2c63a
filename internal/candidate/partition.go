package candidate

import (
	"context"
	"sync"
)

// CellResult is the per-cell outcome of running process over one
// Cell: a worker either succeeds or records an error, never both, and
// a failure in one cell never stops its siblings — verifier errors
// are caught at cell granularity.
type CellResult struct {
	Cell Cell
	Err  error
}

// Partition dispatches cells across a bounded worker pool and runs
// process on each independently: a job channel, `workers` goroutines
// draining it, a results channel collected into the returned slice.
// There is no ordering requirement among cells, so results appear in
// completion order, not input order.
func Partition(ctx context.Context, cells []Cell, workers int, process func(context.Context, Cell) error) []CellResult {
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan Cell, len(cells))
	results := make(chan CellResult, len(cells))

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for cell := range jobs {
				if ctx.Err() != nil {
					results <- CellResult{Cell: cell, Err: ctx.Err()}
					continue
				}
				err := process(ctx, cell)
				results <- CellResult{Cell: cell, Err: err}
			}
		}()
	}

	for _, cell := range cells {
		jobs <- cell
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]CellResult, 0, len(cells))
	for r := range results {
		out = append(out, r)
	}
	return out
}
