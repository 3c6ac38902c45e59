// Package batch runs ordered work in fixed-size concurrent groups.
//
// Items are processed in consecutive groups of at most the configured size.
// All items within a group run concurrently; the executor waits for the
// whole group before starting the next one, so groups are strictly
// sequential. A failing item is tallied and never aborts its siblings or
// later groups. Progress is reported once per completed group and is
// monotonic, ending at exactly the item count.
//
// The small group width bounds load against rate-limited collaborators and
// the store's request budget; sequential groups give a deterministic
// progress signal without a scheduler.
package batch

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Group widths observed across the system.
const (
	// LookupSize bounds concurrent calls to external lookup collaborators
	// (text generation, email validation).
	LookupSize = 5

	// WriteSize bounds bulk store writes (row creation, cell upserts).
	WriteSize = 50
)

// Result aggregates per-item outcomes for a completed run.
type Result struct {
	Attempted int
	Succeeded int
	Failed    int
}

// Progress is called after each group completes with the cumulative number
// of items attempted so far and the total. done is non-decreasing and the
// final call reports done == total.
type Progress func(done, total int)

// Run processes n items with op in sequential groups of at most size.
// op receives the item index; its error marks that single item failed.
// progress may be nil. Cancelling ctx stops before the next group is
// scheduled; items already in flight finish and are tallied.
//
// n <= 0 runs zero groups and returns a zero Result.
func Run(ctx context.Context, n, size int, op func(ctx context.Context, i int) error, progress Progress) Result {
	var res Result
	if n <= 0 {
		return res
	}
	if size <= 0 {
		size = 1
	}

	var mu sync.Mutex
	done := 0

	for start := 0; start < n; start += size {
		if ctx.Err() != nil {
			return res
		}
		end := min(start+size, n)

		var g errgroup.Group
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				err := op(ctx, i)
				mu.Lock()
				res.Attempted++
				if err != nil {
					res.Failed++
				} else {
					res.Succeeded++
				}
				mu.Unlock()
				// Item failures are local; returning nil keeps the
				// group draining instead of cancelling siblings.
				return nil
			})
		}
		_ = g.Wait()

		done = min(done+(end-start), n)
		if progress != nil {
			progress(done, n)
		}
	}
	return res
}
