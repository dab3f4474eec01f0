package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
)

// Scheduler periodically refreshes every dashboard session that is showing data.
type Scheduler struct {
	scheduler *gocron.Scheduler
	hub       *dashboard.Hub
	interval  time.Duration
	logger    *zap.Logger
}

// New creates a new Scheduler. A non-positive interval disables it.
func New(hub *dashboard.Hub, interval time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		hub:       hub,
		interval:  interval,
		logger:    logger.Named("scheduler"),
	}
}

// Start schedules the refresh job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("auto refresh disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().SingletonMode().Do(func() {
		s.RefreshAll(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("auto refresh scheduled", zap.Duration("interval", s.interval))
	return nil
}

// RefreshAll refreshes the sessions in Ready and waits for their fetches.
// Sessions in any other state are skipped.
func (s *Scheduler) RefreshAll(ctx context.Context) int {
	var tickets []*dashboard.Ticket
	for _, sess := range s.hub.Sessions() {
		t, err := sess.Refresh(ctx)
		if err != nil {
			if !errors.Is(err, dashboard.ErrInvalidTransition) {
				s.logger.Warn("refresh failed", zap.String("provider", sess.Provider()), zap.Error(err))
			}
			continue
		}
		tickets = append(tickets, t)
	}

	for _, t := range tickets {
		if err := t.Wait(ctx); err != nil {
			s.logger.Warn("refresh did not settle", zap.String("request_id", t.RequestID), zap.Error(err))
		}
	}
	s.logger.Debug("refresh completed", zap.Int("refreshed", len(tickets)))
	return len(tickets)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
