package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"newslens/internal/analyzer"
	"newslens/internal/collector"
	"newslens/internal/config"
	"newslens/internal/repository"
	"newslens/pkg/logger"
	"newslens/pkg/sqlite"
	"newslens/pkg/telegram"
)

// Action is the single decision the loop takes each iteration.
type Action int

const (
	ActionWait Action = iota
	ActionCollect
	ActionAnalyze
)

func (a Action) String() string {
	switch a {
	case ActionCollect:
		return "COLLECTING"
	case ActionAnalyze:
		return "ANALYZING"
	default:
		return "WAITING"
	}
}

// ErrSchedulerFatal marks a loop exit that was not requested via context
// cancellation. The process must exit non-zero on it.
var ErrSchedulerFatal = errors.New("scheduler loop exited unexpectedly")

const (
	minWait        = 1 * time.Minute
	maxWait        = 5 * time.Minute
	postActionWait = 60 * time.Second
)

// Scheduler drives collection and analysis on a wall-clock schedule.
type Scheduler struct {
	cfg       *config.Config
	collector *collector.Service
	analyzer  *analyzer.Service
	cpRepo    repository.CheckpointRepository
	db        *sqlite.DB
	notifier  telegram.Notifier
	log       *logger.Logger

	maintSched      cron.Schedule
	lastMaintenance time.Time
	lastSample      time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

// New creates the scheduler. The notifier may be nil when notifications are
// disabled.
func New(
	cfg *config.Config,
	collectorSvc *collector.Service,
	analyzerSvc *analyzer.Service,
	cpRepo repository.CheckpointRepository,
	db *sqlite.DB,
	notifier telegram.Notifier,
	log *logger.Logger,
) (*Scheduler, error) {
	s := &Scheduler{
		cfg:       cfg,
		collector: collectorSvc,
		analyzer:  analyzerSvc,
		cpRepo:    cpRepo,
		db:        db,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
		sleep: func(ctx context.Context, d time.Duration) {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
			case <-timer.C:
			}
		},
	}

	if cfg.Maintenance.Enabled {
		sched, err := cron.ParseStandard(cfg.Maintenance.Schedule)
		if err != nil {
			return nil, fmt.Errorf("invalid maintenance schedule %q: %w", cfg.Maintenance.Schedule, err)
		}
		s.maintSched = sched
		s.lastMaintenance = s.now().UTC()
	}

	return s, nil
}

// Run executes the loop until ctx is cancelled. Any other way out is fatal.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("Scheduler started",
		logger.StringField("lookback", s.cfg.Collector.Lookback.String()),
		logger.StringField("target_day", s.cfg.Analyzer.TargetDay))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Scheduler stopped", logger.ErrorField(ctx.Err()))
			return nil
		default:
		}

		if err := s.iterate(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrSchedulerFatal, err)
		}
	}
}

// iterate runs one scheduling decision. Panics in an iteration surface as
// errors so the loop exit stays observable instead of crashing silently.
func (s *Scheduler) iterate(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in scheduler iteration: %v", r)
		}
	}()

	samplerCtx, stopSampler := context.WithCancel(ctx)
	samplerDone := s.startResourceSampler(samplerCtx)
	defer func() {
		stopSampler()
		<-samplerDone
	}()

	now := s.now().UTC()
	action := Decide(now)

	s.log.Info("Scheduler decision",
		logger.StringField("action", action.String()),
		logger.StringField("clock", now.Format("15:04")))

	switch action {
	case ActionAnalyze:
		s.runAnalysis(ctx, now)
		s.sleep(ctx, postActionWait)
	case ActionCollect:
		s.runCollection(ctx)
		s.sleep(ctx, postActionWait)
	default:
		wait := WaitDuration(now)
		s.log.Info("Nothing due, waiting", logger.StringField("wait", wait.String()))
		s.sleep(ctx, wait)
	}
	return nil
}

// Decide maps a UTC wall-clock instant to the action due at that moment.
// Analysis owns 23:30-23:34; collection owns the first five minutes of every
// even hour except midnight, plus 23:05-23:14.
func Decide(now time.Time) Action {
	hour, min := now.Hour(), now.Minute()

	if hour == 23 && min >= 30 && min < 35 {
		return ActionAnalyze
	}
	if min < 5 && hour%2 == 0 && hour != 0 {
		return ActionCollect
	}
	if hour == 23 && min >= 5 && min < 15 {
		return ActionCollect
	}
	return ActionWait
}

// WaitDuration computes the idle sleep: time to the nearest upcoming window
// start, clamped to [1m, 5m].
func WaitDuration(now time.Time) time.Duration {
	candidates := []time.Time{
		nextEvenHour(now),
		nextDaily(now, 23, 5),
		nextDaily(now, 23, 30),
	}

	wait := time.Duration(1<<63 - 1)
	for _, c := range candidates {
		if d := c.Sub(now); d > 0 && d < wait {
			wait = d
		}
	}

	if wait < minWait {
		wait = minWait
	}
	if wait > maxWait {
		wait = maxWait
	}
	return wait
}

// nextEvenHour returns the start of the next even collection hour, skipping
// midnight which has no window.
func nextEvenHour(now time.Time) time.Time {
	next := now.Truncate(time.Hour)
	for !next.After(now) || next.Hour()%2 != 0 || next.Hour() == 0 {
		next = next.Add(time.Hour)
	}
	return next
}

func nextDaily(now time.Time, hour, min int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// runAnalysis runs the daily analysis unless the checkpoint shows the target
// day already completed. The checkpoint is only advanced on success.
func (s *Scheduler) runAnalysis(ctx context.Context, now time.Time) {
	targetDay := s.analyzer.TargetDate(now).Format("2006-01-02")

	done, err := s.cpRepo.Get(ctx, repository.CheckpointLastAnalysisDate)
	if err != nil {
		s.log.Error("Failed to read analysis checkpoint", logger.ErrorField(err))
	} else if done == targetDay {
		s.log.Info("Analysis already completed for target day, skipping",
			logger.StringField("day", targetDay))
		return
	}

	start := s.now()
	err = s.analyzer.Analyze(ctx, s.analyzer.TargetDate(now))
	elapsed := s.now().Sub(start)

	if err != nil {
		s.log.Error("Daily analysis failed",
			logger.StringField("day", targetDay),
			logger.ErrorField(err))
		s.notify(ctx, fmt.Sprintf("❌ Daily analysis for %s failed: %v", targetDay, err))
		return
	}

	if err := s.cpRepo.Set(ctx, repository.CheckpointLastAnalysisDate, targetDay); err != nil {
		s.log.Error("Failed to record analysis checkpoint", logger.ErrorField(err))
	}

	s.log.Info("Daily analysis completed",
		logger.StringField("day", targetDay),
		logger.StringField("elapsed", elapsed.String()))
	s.notify(ctx, fmt.Sprintf("✅ Daily analysis for %s completed in %s", targetDay, elapsed.Round(time.Second)))

	s.maybeRunMaintenance(ctx)
}

func (s *Scheduler) runCollection(ctx context.Context) {
	start := s.now()
	saved, err := s.collector.Collect(ctx, s.cfg.Collector.Lookback)
	if err != nil {
		s.log.Error("Collection pass failed", logger.ErrorField(err))
		return
	}

	total := 0
	for _, n := range saved {
		total += n
	}
	s.log.Info("Collection pass completed",
		logger.IntField("saved", total),
		logger.IntField("sources", len(saved)),
		logger.StringField("elapsed", s.now().Sub(start).String()))

	if err := s.cpRepo.Set(ctx, repository.CheckpointLastCollectionAt, s.now().UTC().Format(time.RFC3339)); err != nil {
		s.log.Error("Failed to record collection checkpoint", logger.ErrorField(err))
	}
}

// maybeRunMaintenance runs database maintenance after a successful analysis
// when the configured schedule has come due since the last run.
func (s *Scheduler) maybeRunMaintenance(ctx context.Context) {
	if s.maintSched == nil {
		return
	}
	now := s.now().UTC()
	if s.maintSched.Next(s.lastMaintenance).After(now) {
		return
	}

	s.log.Info("Running database maintenance")
	if err := s.db.Optimize(ctx); err != nil {
		s.log.Error("Database maintenance failed", logger.ErrorField(err))
		return
	}
	s.lastMaintenance = now
	s.log.Info("Database maintenance completed")
}

func (s *Scheduler) notify(ctx context.Context, text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendMessage(ctx, text); err != nil {
		s.log.Warn("Failed to send notification", logger.ErrorField(err))
	}
}
