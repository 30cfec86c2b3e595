package dynamo

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RunBatch simulates every initial state in its own Simulator, at most
// workers at a time. newSim is called once per run so that integrator
// scratch space and metric accumulators are never shared. Results keep the
// order of x0s. The first failing run cancels the rest.
func RunBatch(ctx context.Context, newSim func() *Simulator, x0s []State, cfg Config, workers int) ([]*Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, len(x0s))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, x0 := range x0s {
		g.Go(func() error {
			res, err := newSim().Run(ctx, x0, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
