package bulkupload

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"
)

// ChunkRunner walks a work list in fixed-size chunks, strictly one chunk after
// another. Parallelism bounds the concurrent transforms inside a chunk.
type ChunkRunner struct {
	ChunkSize   int
	Parallelism int
}

func (c ChunkRunner) normalized(n int) ChunkRunner {
	if c.ChunkSize <= 0 {
		c.ChunkSize = n
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = 1
	}
	if c.Parallelism <= 0 {
		c.Parallelism = 1
	}
	return c
}

// Each calls fn for every chunk of items in order and stops at the first error.
func (c ChunkRunner) Each(ctx context.Context, items []int, fn func(ctx context.Context, chunkNo int, chunk []int) error) error {
	c = c.normalized(len(items))
	for chunkNo, start := 0, 0; start < len(items); chunkNo, start = chunkNo+1, start+c.ChunkSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + c.ChunkSize
		if end > len(items) {
			end = len(items)
		}
		if err := fn(ctx, chunkNo, items[start:end]); err != nil {
			return err
		}
	}
	return nil
}

type outcome[M any] struct {
	index    int
	model    *M
	warnings []ImageWarning
	err      error
}

type buildFunc[M any] func(ctx context.Context, idx int) (*M, []ImageWarning, error)

// safeBuild turns a panic inside build into an error for that record only.
func safeBuild[M any](ctx context.Context, idx int, build buildFunc[M]) (o outcome[M]) {
	o.index = idx
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Transform of record %d panicked: %v", idx, r)
			o.model = nil
			o.err = fmt.Errorf("unexpected error: %v", r)
		}
	}()
	o.model, o.warnings, o.err = build(ctx, idx)
	return o
}

// transformAll builds every listed record with at most limit in flight and
// returns the outcomes in input order.
func transformAll[M any](ctx context.Context, limit int, idxs []int, build buildFunc[M]) []outcome[M] {
	out := make([]outcome[M], len(idxs))
	var g errgroup.Group
	g.SetLimit(limit)
	for slot, idx := range idxs {
		g.Go(func() error {
			out[slot] = safeBuild(ctx, idx, build)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
