package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mrriyous/storefront-backend/pkg/logger"
	"github.com/mrriyous/storefront-backend/pkg/metrics"
)

// Schedule pairs a job with its cadence and its own lock, so a still-running
// instance of one job never blocks the other.
type Schedule struct {
	Job         Job
	Lock        Lock
	Interval    time.Duration // fixed cadence; zero means daily
	Daily       bool
	DailyHour   int
	DailyMinute int
}

// ServiceParams configure the cron service.
type ServiceParams struct {
	Logger    *logger.Logger
	Metrics   *metrics.CronJobMetrics
	Schedules []Schedule
}

// Service runs each registered schedule on its own cadence until the context
// is canceled.
type Service struct {
	logg      *logger.Logger
	metrics   *metrics.CronJobMetrics
	schedules []Schedule
}

// NewService builds a cron service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if len(params.Schedules) == 0 {
		return nil, fmt.Errorf("at least one schedule required")
	}
	for _, sched := range params.Schedules {
		if sched.Job == nil {
			return nil, fmt.Errorf("schedule job required")
		}
		if sched.Lock == nil {
			return nil, fmt.Errorf("schedule lock required for %s", sched.Job.Name())
		}
		if !sched.Daily && sched.Interval <= 0 {
			return nil, fmt.Errorf("schedule cadence required for %s", sched.Job.Name())
		}
	}
	return &Service{
		logg:      params.Logger,
		metrics:   params.Metrics,
		schedules: params.Schedules,
	}, nil
}

// Run blocks until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var wg sync.WaitGroup
	for _, sched := range s.schedules {
		wg.Add(1)
		go func(sched Schedule) {
			defer wg.Done()
			s.runSchedule(ctx, sched)
		}(sched)
	}
	wg.Wait()
	return ctx.Err()
}

func (s *Service) runSchedule(ctx context.Context, sched Schedule) {
	if sched.Daily {
		s.runDaily(ctx, sched)
		return
	}

	// Interval jobs fire once at startup, then on the ticker.
	s.runJob(ctx, sched)
	ticker := time.NewTicker(sched.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runJob(ctx, sched)
		}
	}
}

func (s *Service) runDaily(ctx context.Context, sched Schedule) {
	for {
		wait := time.Until(nextDaily(time.Now(), sched.DailyHour, sched.DailyMinute))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.runJob(ctx, sched)
		}
	}
}

// nextDaily returns the next wall-clock occurrence of hour:minute after now.
func nextDaily(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *Service) runJob(ctx context.Context, sched Schedule) {
	job := sched.Job
	jobCtx := s.logg.WithField(ctx, "job", job.Name())
	jobCtx = s.logg.WithField(jobCtx, "event", "cron.job")

	locked, err := sched.Lock.Acquire(jobCtx)
	if err != nil {
		s.logg.Error(jobCtx, "lock acquire failed", err)
		return
	}
	if !locked {
		s.logg.Info(jobCtx, "previous run still holds the lock; skipping")
		return
	}
	defer func() {
		if relErr := sched.Lock.Release(jobCtx); relErr != nil {
			s.logg.Error(jobCtx, "failed to release job lock", relErr)
		}
	}()

	s.logg.Info(jobCtx, "job start")
	start := time.Now()
	runErr := job.Run(jobCtx)
	duration := time.Since(start)
	s.metrics.ObserveDuration(job.Name(), duration)
	jobCtx = s.logg.WithField(jobCtx, "duration_ms", duration.Milliseconds())
	if runErr != nil {
		s.logg.Error(jobCtx, "job failed", runErr)
		s.metrics.IncFailure(job.Name())
		return
	}
	s.logg.Info(jobCtx, "job completed")
	s.metrics.IncSuccess(job.Name())
}
