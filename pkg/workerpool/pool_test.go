package workerpool_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gfmachado/autorevenda/pkg/workerpool"
)

func TestSubmitRunsTasks(t *testing.T) {
	p := workerpool.New(2)
	defer p.Shutdown()

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		err := p.SubmitWait(func() {
			ran.Add(1)
			wg.Done()
		})
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}
	wg.Wait()

	if got := ran.Load(); got != 10 {
		t.Errorf("expected 10 tasks run, got %d", got)
	}
}

func TestSubmitBackpressure(t *testing.T) {
	p := workerpool.New(1)
	defer p.Shutdown()

	release := make(chan struct{})
	// Occupy the single worker.
	if err := p.Submit(func() { <-release }); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	// Fill the task buffer, then expect ErrPoolFull.
	sawFull := false
	for i := 0; i < 10; i++ {
		if err := p.Submit(func() {}); errors.Is(err, workerpool.ErrPoolFull) {
			sawFull = true
			break
		}
	}
	close(release)

	if !sawFull {
		t.Error("expected ErrPoolFull once the buffer filled")
	}
}

func TestSubmitAfterShutdown(t *testing.T) {
	p := workerpool.New(1)
	p.Shutdown()

	if err := p.Submit(func() {}); !errors.Is(err, workerpool.ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed, got %v", err)
	}
	if err := p.SubmitWait(func() {}); !errors.Is(err, workerpool.ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed from SubmitWait, got %v", err)
	}
}

func TestShutdownWaitsForInFlight(t *testing.T) {
	p := workerpool.New(1)

	var done atomic.Bool
	if err := p.Submit(func() {
		time.Sleep(100 * time.Millisecond)
		done.Store(true)
	}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	p.Shutdown()
	if !done.Load() {
		t.Error("Shutdown returned before the in-flight task finished")
	}
}

func TestPanicDoesNotKillWorker(t *testing.T) {
	p := workerpool.New(1)
	defer p.Shutdown()

	if err := p.SubmitWait(func() { panic("boom") }); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	if err := p.SubmitWait(func() { wg.Done() }); err != nil {
		t.Fatalf("submit after panic failed: %v", err)
	}
	wg.Wait()
}
