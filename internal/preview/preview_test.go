package preview

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

// countingInit records how many times Init ran and can be told to fail.
type countingInit struct {
	calls atomic.Int32
	err   error
}

func (c *countingInit) Init(ctx context.Context) error {
	c.calls.Add(1)
	return c.err
}

func TestBackend_InitRunsOnce(t *testing.T) {
	init := &countingInit{}
	b := NewBackend(init, nil)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !b.EnsureInitialized(context.Background()) {
				t.Error("expected initialization to succeed")
			}
		}()
	}
	wg.Wait()

	if got := init.calls.Load(); got != 1 {
		t.Errorf("expected exactly one init call, got %d", got)
	}
}

func TestBackend_FailureIsPermanent(t *testing.T) {
	init := &countingInit{err: errors.New("no decoder available")}
	b := NewBackend(init, nil)

	if b.EnsureInitialized(context.Background()) {
		t.Error("expected initialization to fail")
	}
	// A second attempt reports the same failure without retrying.
	if b.EnsureInitialized(context.Background()) {
		t.Error("expected failure to stick")
	}
	if got := init.calls.Load(); got != 1 {
		t.Errorf("expected exactly one init call, got %d", got)
	}
	if b.Err() == nil {
		t.Error("expected Err to surface the init failure")
	}
}
