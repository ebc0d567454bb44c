package progress

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestChannelCallback_DropsWhenFull(t *testing.T) {
	t.Parallel()
	ch := make(chan ProgressUpdate, 1)
	cb := ChannelCallback(ch, 2)

	cb(0.1)
	cb(0.2) // dropped: buffer full

	got := <-ch
	if got.RenderIndex != 2 || got.Value != 0.1 {
		t.Errorf("got %+v, want {2 0.1}", got)
	}
	select {
	case extra := <-ch:
		t.Errorf("unexpected extra update %+v", extra)
	default:
	}
}

func TestChannelCallback_FinalUpdateDelivered(t *testing.T) {
	t.Parallel()
	ch := make(chan ProgressUpdate, 1)
	cb := ChannelCallback(ch, 0)
	cb(0.5)

	done := make(chan struct{})
	go func() {
		cb(1.0) // blocks until the reader drains
		close(done)
	}()

	if first := <-ch; first.Value != 0.5 {
		t.Errorf("first update = %v, want 0.5", first.Value)
	}
	if last := <-ch; last.Value != 1.0 {
		t.Errorf("last update = %v, want 1.0", last.Value)
	}
	<-done
}

func TestChannelCallback_NilChannel(t *testing.T) {
	t.Parallel()
	cb := ChannelCallback(nil, 0)
	cb(0.5)
	cb(1.0)
}

func TestColumnTracker_ThrottlesAndFinishes(t *testing.T) {
	t.Parallel()
	const total = 1000
	var (
		mu      sync.Mutex
		reports []float64
	)
	tracker := NewColumnTracker(total, func(v float64) {
		mu.Lock()
		reports = append(reports, v)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for w := 0; w < 10; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < total/10; i++ {
				tracker.Advance()
			}
		}()
	}
	wg.Wait()

	if tracker.Done() != total {
		t.Fatalf("Done() = %d, want %d", tracker.Done(), total)
	}
	sawFinal := false
	for _, v := range reports {
		if v > 1.0 {
			t.Fatalf("report %v exceeds 1.0", v)
		}
		if v == 1.0 {
			sawFinal = true
		}
	}
	if !sawFinal {
		t.Fatalf("expected a final 1.0 report, got %v", reports)
	}
	if len(reports) > total/10+1 {
		t.Errorf("expected throttled reports, got %d", len(reports))
	}
}

func TestColumnTracker_SmallTotal(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	tracker := NewColumnTracker(3, func(float64) { calls.Add(1) })
	for i := 0; i < 3; i++ {
		tracker.Advance()
	}
	if calls.Load() != 3 {
		t.Errorf("expected one report per column for tiny renders, got %d", calls.Load())
	}
}
