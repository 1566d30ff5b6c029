package cleanup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakePruner struct {
	mu      sync.Mutex
	calls   int
	gotDays int
	deleted int64
	err     error
}

func (f *fakePruner) DeleteMatchesOlderThan(_ context.Context, days int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotDays = days
	return f.deleted, f.err
}

func (f *fakePruner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestRunOnce(t *testing.T) {
	repo := &fakePruner{deleted: 3}
	w := NewWorker(repo, 30, time.Hour)

	if got := w.RunOnce(context.Background()); got != 3 {
		t.Fatalf("RunOnce = %d, want 3", got)
	}
	if repo.gotDays != 30 {
		t.Errorf("days = %d, want 30", repo.gotDays)
	}
}

func TestRunOnceError(t *testing.T) {
	w := NewWorker(&fakePruner{err: errors.New("db down")}, 30, time.Hour)
	if got := w.RunOnce(context.Background()); got != 0 {
		t.Fatalf("RunOnce = %d, want 0", got)
	}
}

func TestRunOnceDisabled(t *testing.T) {
	repo := &fakePruner{}
	w := NewWorker(repo, 0, time.Hour)
	w.RunOnce(context.Background())
	if repo.calls != 0 {
		t.Fatal("retention 0 must not delete anything")
	}
}

func TestStartStopsWithContext(t *testing.T) {
	repo := &fakePruner{}
	w := NewWorker(repo, 7, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for repo.callCount() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("only %d runs before deadline", repo.callCount())
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
