package orchestrator

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// atomicCounter hands out 1-based sequence numbers to concurrent
// callers, used for the type_current field of detail-progress events.
type atomicCounter struct{ n atomic.Int64 }

func (c *atomicCounter) next() int {
	return int(c.n.Add(1))
}

// runGroup runs process over every task with parallelism bounded to
// workerCount, share-nothing per §5 ("each worker owns its input bytes,
// scratch buffers, and output bytes"). Results are collected into a
// slice indexed by present[i], so callers can recover input order at
// join regardless of completion order (§5 "result collection preserves
// input order"). A non-nil error from any task aborts the whole group.
func runGroup[I, O any](ctx context.Context, tasks []I, workerCount int, process func(context.Context, I) (O, bool, error)) ([]O, error) {
	if len(tasks) == 0 {
		return nil, nil
	}
	if workerCount < 1 {
		workerCount = 1
	}

	results := make([]O, len(tasks))
	present := make([]bool, len(tasks))
	sem := make(chan struct{}, workerCount)

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range tasks {
		i, t := i, t
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			out, ok, err := process(gctx, t)
			if err != nil {
				return err
			}
			if ok {
				results[i] = out
				present[i] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ordered := make([]O, 0, len(tasks))
	for i, ok := range present {
		if ok {
			ordered = append(ordered, results[i])
		}
	}
	return ordered, nil
}
