package curve

import "golang.org/x/sync/errgroup"

// Parallel gates data-parallel fan-out for batched curve operations (VSS
// verification, commitment generation, column interpolation) behind a
// single switch, mirroring a source project's compile-time choice between
// a sequential and a parallel iterator. Off by default; a host embedding
// this module flips it once at startup.
var Parallel = false

// ParallelMap applies f to every item of items, either sequentially or
// fanned out across goroutines depending on Parallel. On error the map
// returns nil results and the first error. Sequentially, the first error
// stops the map; in parallel, invocations already started run to completion.
func ParallelMap[In, Out any](items []In, f func(In) (Out, error)) ([]Out, error) {
	out := make([]Out, len(items))
	if !Parallel || len(items) < 2 {
		for i, item := range items {
			r, err := f(item)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	}

	var g errgroup.Group
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			r, err := f(item)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
