package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/banshee-data/sightline/internal/timeutil"
)

func TestDeadlinesAnchorToStartNotWakeTime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := timeutil.NewMockClock(start)

	p, err := NewPeriodic(clock, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	p.Start()

	// Simulate work of varying length inside each cycle. MockClock.Sleep
	// advances the clock, so each Wait begins "late" by the work time;
	// the deadline sequence must still be start + k*interval.
	work := []time.Duration{0, 300 * time.Millisecond, 700 * time.Millisecond, 100 * time.Millisecond}
	for k, w := range work {
		clock.Sleep(w)

		done := make(chan struct{})
		go func() {
			p.Wait(context.Background())
			close(done)
		}()

		want := start.Add(time.Duration(k+1) * time.Second)
		// Advance to just before the deadline: Wait must not return.
		clock.Set(want.Add(-time.Millisecond))
		select {
		case <-done:
			t.Fatalf("cycle %d: Wait returned before deadline %v", k+1, want)
		case <-time.After(20 * time.Millisecond):
		}

		clock.Set(want)
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("cycle %d: Wait did not return at deadline %v", k+1, want)
		}

		if got := p.Deadline(); !got.Equal(want) {
			t.Errorf("cycle %d: deadline = %v, want %v", k+1, got, want)
		}
	}
}

func TestOverrunReturnsImmediately(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := timeutil.NewMockClock(start)

	p, err := NewPeriodic(clock, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	p.Start()

	// Overrun the first cycle by 2.5 intervals.
	clock.Set(start.Add(2500 * time.Millisecond))

	// The next two Waits cover deadlines already in the past and must not
	// sleep; the third deadline (start+3s) is in the future again.
	for k := 1; k <= 2; k++ {
		done := make(chan error, 1)
		go func() { done <- p.Wait(context.Background()) }()
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("Wait %d returned error %v", k, err)
			}
		case <-time.After(time.Second):
			t.Fatalf("Wait %d slept on an overrun deadline", k)
		}
		want := start.Add(time.Duration(k) * time.Second)
		if got := p.Deadline(); !got.Equal(want) {
			t.Errorf("Wait %d: deadline = %v, want %v", k, got, want)
		}
	}

	// Deadline realigns on the original grid rather than drifting to
	// wake-time + interval.
	done := make(chan struct{})
	go func() {
		p.Wait(context.Background())
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("Wait returned before the realigned deadline")
	case <-time.After(20 * time.Millisecond):
	}
	clock.Set(start.Add(3 * time.Second))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return at the realigned deadline")
	}
}

func TestWaitHonoursCancellation(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	p, err := NewPeriodic(clock, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	p.Start()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Wait(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Wait = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait ignored cancellation")
	}
}

func TestIntervalMustBePositive(t *testing.T) {
	if _, err := NewPeriodic(timeutil.RealClock{}, 0); err == nil {
		t.Error("NewPeriodic accepted zero interval")
	}
	if _, err := NewPeriodic(timeutil.RealClock{}, -time.Second); err == nil {
		t.Error("NewPeriodic accepted negative interval")
	}
}

func TestRealClockWait(t *testing.T) {
	p, err := NewPeriodic(timeutil.RealClock{}, 10*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	p.Start()

	before := time.Now()
	for i := 0; i < 3; i++ {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if elapsed := time.Since(before); elapsed < 30*time.Millisecond {
		t.Errorf("three 10ms cycles completed in %v", elapsed)
	}
}
