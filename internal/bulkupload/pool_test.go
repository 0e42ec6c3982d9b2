package bulkupload

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestChunkRunnerSplitsSequentially(t *testing.T) {
	items := make([]int, 105)
	for i := range items {
		items[i] = i
	}
	var sizes []int
	next := 0
	err := ChunkRunner{ChunkSize: 50, Parallelism: 4}.Each(context.Background(), items, func(_ context.Context, chunkNo int, chunk []int) error {
		if chunkNo != len(sizes) {
			t.Fatalf("chunk %d out of order", chunkNo)
		}
		if chunk[0] != next {
			t.Fatalf("chunk %d starts at %d, want %d", chunkNo, chunk[0], next)
		}
		next += len(chunk)
		sizes = append(sizes, len(chunk))
		return nil
	})
	if err != nil {
		t.Fatalf("each: %v", err)
	}
	if len(sizes) != 3 || sizes[0] != 50 || sizes[1] != 50 || sizes[2] != 5 {
		t.Fatalf("unexpected chunk sizes %v", sizes)
	}
}

func TestChunkRunnerStopsOnError(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := ChunkRunner{ChunkSize: 2}.Each(context.Background(), []int{0, 1, 2, 3, 4}, func(context.Context, int, []int) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) || calls != 1 {
		t.Fatalf("expected to stop after first chunk, calls=%d err=%v", calls, err)
	}
}

func TestTransformAllBoundsParallelismAndRecoversPanics(t *testing.T) {
	var inFlight, peak int32
	build := func(_ context.Context, idx int) (*int, []ImageWarning, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		if idx == 3 {
			panic("bad record")
		}
		v := idx * 10
		return &v, nil, nil
	}

	out := transformAll(context.Background(), 3, []int{0, 1, 2, 3, 4, 5, 6}, build)
	if peak > 3 {
		t.Fatalf("parallelism exceeded: %d", peak)
	}
	for slot, o := range out {
		if o.index != slot {
			t.Fatalf("outcome %d has index %d", slot, o.index)
		}
		if slot == 3 {
			if o.err == nil || o.model != nil {
				t.Fatalf("expected panic to become an error, got %+v", o)
			}
			continue
		}
		if o.err != nil || *o.model != slot*10 {
			t.Fatalf("unexpected outcome %+v", o)
		}
	}
}
