package scheduler

import (
	"context"
	"time"

	"rendezvous/internal/availability/engine"
	"rendezvous/pkg/config"
	"rendezvous/pkg/logger"
)

type Sweeper interface {
	Sweep(ctx context.Context) (engine.SweepResult, error)
	PrunePastDays(ctx context.Context) (int, error)
}

// Scheduler runs the expiry sweep once shortly after startup and then on every
// interval, and prunes past days at each local midnight.
type Scheduler struct {
	sweeper  Sweeper
	cfg      *config.Config
	log      *logger.Logger
	interval time.Duration
	delay    time.Duration
	now      func() time.Time
}

func NewScheduler(sweeper Sweeper, cfg *config.Config) *Scheduler {
	interval := cfg.SweepInterval
	if interval <= 0 {
		interval = config.DefaultSweepInterval
	}
	return &Scheduler{
		sweeper:  sweeper,
		cfg:      cfg,
		log:      cfg.Log.Component("scheduler"),
		interval: interval,
		delay:    cfg.SweepStartupDelay,
		now:      time.Now,
	}
}

// Run blocks until ctx is cancelled. Failures are logged and the loop carries on.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info("Scheduler started",
		"sweep_interval", s.interval,
		"startup_delay", s.delay,
		"timezone", s.location().String(),
	)

	startup := time.NewTimer(s.delay)
	defer startup.Stop()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	midnight := time.NewTimer(s.untilMidnight())
	defer midnight.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Scheduler stopped")
			return
		case <-startup.C:
			s.sweep(ctx)
		case <-ticker.C:
			s.sweep(ctx)
		case <-midnight.C:
			s.prune(ctx)
			midnight.Reset(s.untilMidnight())
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	if _, err := s.sweeper.Sweep(ctx); err != nil {
		s.log.Error("Scheduled sweep failed", "error", err)
	}
}

func (s *Scheduler) prune(ctx context.Context) {
	if _, err := s.sweeper.PrunePastDays(ctx); err != nil {
		s.log.Error("Scheduled prune failed", "error", err)
	}
}

func (s *Scheduler) untilMidnight() time.Duration {
	now := s.now()
	return NextMidnight(now, s.location()).Sub(now)
}

func (s *Scheduler) location() *time.Location {
	if s.cfg.Location == nil {
		return time.Local
	}
	return s.cfg.Location
}

// NextMidnight returns the start of the calendar day after now in loc.
func NextMidnight(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}
