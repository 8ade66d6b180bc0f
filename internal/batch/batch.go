// Package batch runs independent jobs in bounded concurrency windows. It
// exists so the Steam resolvers can fan out per-app lookups with a
// predictable upstream load shape instead of an unbounded burst.
package batch

import (
	"context"
	"sync"
)

// DefaultLimit is the window size used when a caller passes a non-positive
// limit.
const DefaultLimit = 10

// Result holds the outcome of one job. Exactly one of Value and Err is
// meaningful.
type Result[O any] struct {
	Value O
	Err   error
}

// Run executes worker for every item in windows of at most limit jobs. A
// window is launched, every member settles, then the next window starts.
// Results are returned in input order regardless of completion order, and
// one failing job never aborts its siblings.
//
// When ctx is cancelled no further windows are launched; the remaining
// slots carry ctx.Err().
func Run[I, O any](ctx context.Context, items []I, limit int, worker func(context.Context, I) (O, error)) []Result[O] {
	if len(items) == 0 {
		return []Result[O]{}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	results := make([]Result[O], len(items))

	for start := 0; start < len(items); start += limit {
		if err := ctx.Err(); err != nil {
			for i := start; i < len(items); i++ {
				results[i] = Result[O]{Err: err}
			}
			break
		}

		end := min(start+limit, len(items))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				v, err := worker(ctx, items[i])
				results[i] = Result[O]{Value: v, Err: err}
			}(i)
		}
		wg.Wait()
	}

	return results
}
