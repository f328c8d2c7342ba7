package scheduler

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"rendezvous/internal/availability/engine"
	"rendezvous/pkg/config"
	"rendezvous/pkg/logger"
)

type fakeSweeper struct {
	sweeps atomic.Int32
	prunes atomic.Int32
	err    error
}

func (f *fakeSweeper) Sweep(context.Context) (engine.SweepResult, error) {
	f.sweeps.Add(1)
	return engine.SweepResult{}, f.err
}

func (f *fakeSweeper) PrunePastDays(context.Context) (int, error) {
	f.prunes.Add(1)
	return 0, f.err
}

func testConfig(interval, delay time.Duration) *config.Config {
	return &config.Config{
		Log:               logger.New(logger.Config{Output: io.Discard}),
		Location:          time.UTC,
		SweepInterval:     interval,
		SweepStartupDelay: delay,
	}
}

func TestNextMidnight(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	tests := []struct {
		name string
		now  time.Time
		loc  *time.Location
		want time.Time
	}{
		{
			name: "utc evening",
			now:  time.Date(2025, 6, 10, 20, 15, 0, 0, time.UTC),
			loc:  time.UTC,
			want: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "exact midnight moves to next day",
			now:  time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
			loc:  time.UTC,
			want: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "utc time already past midnight in paris",
			now:  time.Date(2025, 6, 10, 22, 30, 0, 0, time.UTC),
			loc:  paris,
			want: time.Date(2025, 6, 12, 0, 0, 0, 0, paris),
		},
		{
			name: "month rollover",
			now:  time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC),
			loc:  time.UTC,
			want: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextMidnight(tt.now, tt.loc)
			if !got.Equal(tt.want) {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestRun_SweepsOnStartupAndInterval(t *testing.T) {
	sweeper := &fakeSweeper{}
	s := NewScheduler(sweeper, testConfig(20*time.Millisecond, time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for sweeper.sweeps.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 sweeps, got %d", sweeper.sweeps.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestRun_PrunesAtMidnight(t *testing.T) {
	sweeper := &fakeSweeper{err: errors.New("store down")}
	s := NewScheduler(sweeper, testConfig(time.Hour, time.Hour))
	s.now = func() time.Time {
		return time.Date(2025, 6, 10, 23, 59, 59, 990_000_000, time.UTC)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	deadline := time.After(2 * time.Second)
	for sweeper.prunes.Load() < 1 {
		select {
		case <-deadline:
			t.Fatal("expected a prune at midnight")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if sweeper.sweeps.Load() != 0 {
		t.Errorf("no sweep expected before the startup delay, got %d", sweeper.sweeps.Load())
	}
}
