package batch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRun_ProgressSequence(t *testing.T) {
	var progress [][2]int
	res := Run(context.Background(), 12, 5,
		func(ctx context.Context, i int) error { return nil },
		func(done, total int) { progress = append(progress, [2]int{done, total}) },
	)

	want := [][2]int{{5, 12}, {10, 12}, {12, 12}}
	if len(progress) != len(want) {
		t.Fatalf("got %d progress reports, want %d: %v", len(progress), len(want), progress)
	}
	for i, p := range want {
		if progress[i] != p {
			t.Errorf("report %d = %v, want %v", i, progress[i], p)
		}
	}
	if res.Attempted != 12 || res.Succeeded != 12 || res.Failed != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestRun_PartialFailureIsolation(t *testing.T) {
	fail := map[int]bool{1: true, 4: true, 7: true}
	var mu sync.Mutex
	effects := make(map[int]bool)

	res := Run(context.Background(), 10, 3, func(ctx context.Context, i int) error {
		if fail[i] {
			return errors.New("boom")
		}
		mu.Lock()
		effects[i] = true
		mu.Unlock()
		return nil
	}, nil)

	if res.Attempted != 10 || res.Succeeded != 7 || res.Failed != 3 {
		t.Fatalf("result = %+v, want 10/7/3", res)
	}
	for i := 0; i < 10; i++ {
		if fail[i] && effects[i] {
			t.Errorf("failed item %d left an effect", i)
		}
		if !fail[i] && !effects[i] {
			t.Errorf("succeeded item %d left no effect", i)
		}
	}
}

func TestRun_ZeroItems(t *testing.T) {
	calls := 0
	res := Run(context.Background(), 0, 5,
		func(ctx context.Context, i int) error { calls++; return nil },
		func(done, total int) { calls++ },
	)
	if calls != 0 {
		t.Errorf("zero items should run zero groups, saw %d calls", calls)
	}
	if res != (Result{}) {
		t.Errorf("result = %+v, want zero", res)
	}
}

func TestRun_GroupsAreSequential(t *testing.T) {
	// Every index in group g must be observed only after all of group g-1.
	var mu sync.Mutex
	var order []int

	Run(context.Background(), 9, 3, func(ctx context.Context, i int) error {
		mu.Lock()
		order = append(order, i)
		mu.Unlock()
		return nil
	}, nil)

	if len(order) != 9 {
		t.Fatalf("ran %d items, want 9", len(order))
	}
	for pos, i := range order {
		group := i / 3
		if pos/3 != group {
			t.Fatalf("item %d from group %d observed at position %d", i, group, pos)
		}
	}
}

func TestRun_CancelStopsNextGroup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var ran atomic.Int32
	res := Run(ctx, 10, 5, func(ctx context.Context, i int) error {
		ran.Add(1)
		if i == 0 {
			cancel()
		}
		return nil
	}, nil)

	if ran.Load() != 5 {
		t.Errorf("expected only the first group to run, ran %d", ran.Load())
	}
	if res.Attempted != 5 {
		t.Errorf("attempted = %d, want 5", res.Attempted)
	}
}

func TestRun_RaggedFinalGroup(t *testing.T) {
	var last [2]int
	Run(context.Background(), 7, 5,
		func(ctx context.Context, i int) error { return nil },
		func(done, total int) { last = [2]int{done, total} },
	)
	if last != [2]int{7, 7} {
		t.Errorf("final report = %v, want {7 7}", last)
	}
}
