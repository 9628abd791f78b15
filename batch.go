package udc

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BatchProcess runs Run concurrently across inputs, bounded by maxConcurrency
// (a value <= 0 means unbounded). Each deal is independent per spec.md §5
// (the pipeline mutates nothing shared), so the only coordination needed is
// a concurrency cap and result collection in submission order. A per-deal
// error never aborts the rest of the batch — it is recorded on that deal's
// BatchResult.
func (e *Engine) BatchProcess(ctx context.Context, inputs []DealInput, maxConcurrency int) ([]BatchResult, error) {
	results := make([]BatchResult, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	if maxConcurrency > 0 {
		g.SetLimit(maxConcurrency)
	}

	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			select {
			case <-ctx.Done():
				results[i] = BatchResult{Index: i, Err: ctx.Err()}
				return nil
			default:
			}
			output, err := e.Run(input)
			results[i] = BatchResult{Index: i, Output: output, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
