package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nexiplay/nexiplay-go/internal/config"
	"github.com/nexiplay/nexiplay-go/internal/linkcheck"
	"github.com/rs/zerolog/log"
)

// Sweeper runs one bounded link health sweep
type Sweeper interface {
	RunSweep(ctx context.Context, batchSize int) (linkcheck.SweepResult, error)
}

// Status describes the most recent finished sweep
type Status struct {
	FinishedAt time.Time              `json:"finished_at"`
	Trigger    string                 `json:"trigger"`
	Result     *linkcheck.SweepResult `json:"result,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

// Scheduler runs link sweeps periodically and on demand.
// At most one sweep runs at a time within the process.
type Scheduler struct {
	sweeper  Sweeper
	config   *config.CheckerConfig
	running  atomic.Bool
	last     atomic.Pointer[Status]
	mu       sync.Mutex
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler creates a new scheduler instance
func NewScheduler(sweeper Sweeper, cfg *config.CheckerConfig) *Scheduler {
	return &Scheduler{
		sweeper: sweeper,
		config:  cfg,
		stopCh:  make(chan struct{}),
	}
}

// Start begins periodic sweeps after the configured initial delay.
// It does nothing when the checker is disabled; on-demand runs still work.
func (s *Scheduler) Start(ctx context.Context) {
	if !s.config.Enabled {
		log.Info().Msg("Scheduled link checks are disabled")
		return
	}

	s.wg.Add(1)
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	// Stop cancels a scheduled sweep in progress
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Info().Dur("delay", s.config.InitialDelay).Msg("Scheduler starting with initial delay")

	select {
	case <-time.After(s.config.InitialDelay):
		s.tick(ctx)
	case <-s.stopCh:
		log.Info().Msg("Scheduler stopped during initial delay")
		return
	case <-ctx.Done():
		log.Info().Msg("Scheduler context cancelled during initial delay")
		return
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	log.Info().Dur("interval", s.config.Interval).Msg("Scheduler started periodic execution")

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-s.stopCh:
			log.Info().Msg("Scheduler stopped")
			return
		case <-ctx.Done():
			log.Info().Msg("Scheduler context cancelled")
			return
		}
	}
}

// tick skips the trigger when a sweep is already in progress
func (s *Scheduler) tick(ctx context.Context) {
	if !s.mu.TryLock() {
		log.Warn().Msg("Link sweep already running, skipping this trigger")
		return
	}
	defer s.mu.Unlock()

	_, _ = s.sweep(ctx, "schedule")
}

// RunNow runs a sweep immediately, waiting for any sweep in progress to finish first
func (s *Scheduler) RunNow(ctx context.Context) (linkcheck.SweepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sweep(ctx, "manual")
}

// TryRun runs a sweep immediately unless one is already running.
// Returns false if the trigger was skipped.
func (s *Scheduler) TryRun(ctx context.Context) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()

	_, _ = s.sweep(ctx, "manual")
	return true
}

// sweep must be called with mu held
func (s *Scheduler) sweep(ctx context.Context, trigger string) (linkcheck.SweepResult, error) {
	s.running.Store(true)
	defer s.running.Store(false)

	log.Info().Str("trigger", trigger).Int("batch", s.config.BatchSize).Msg("Starting link sweep")

	result, err := s.sweeper.RunSweep(ctx, s.config.BatchSize)
	status := &Status{FinishedAt: time.Now(), Trigger: trigger}
	if err != nil {
		status.Error = err.Error()
		log.Error().Err(err).Str("trigger", trigger).Msg("Link sweep failed")
	} else {
		status.Result = &result
		log.Info().Str("trigger", trigger).Dur("duration", result.Duration).Msg("Link sweep finished")
	}
	s.last.Store(status)

	return result, err
}

// Stop stops the scheduler and cancels a scheduled sweep in progress.
// It is safe to call more than once.
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
	log.Info().Msg("Scheduler stopped")
}

// IsRunning returns true if a sweep is currently running
func (s *Scheduler) IsRunning() bool {
	return s.running.Load()
}

// LastStatus returns the most recent finished sweep, or nil before the first one
func (s *Scheduler) LastStatus() *Status {
	return s.last.Load()
}
