package backup

import (
	"context"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/light-87/urmaliya-shri-sai-group-sub000/config"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/models"
	"github.com/sirupsen/logrus"
)

const defaultIntervalHours = 24

// Scheduler runs automatic exports in the background whenever the newest
// usable export is older than the configured interval. It is age-based rather
// than clock-based, so a process that was down over the deadline catches up on
// the first tick after boot.
type Scheduler struct {
	Exporter *Exporter
	Interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(exporter *Exporter) *Scheduler {
	return &Scheduler{Exporter: exporter, Interval: intervalFromEnv()}
}

func intervalFromEnv() time.Duration {
	hours := defaultIntervalHours
	if raw := os.Getenv("BACKUP_INTERVAL_HOURS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			hours = parsed
		}
	}
	return time.Duration(hours) * time.Hour
}

// Start launches the background loop. Calling Start on a running scheduler is
// a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(ctx)
	config.GetLogger().WithFields(logrus.Fields{
		"interval": s.Interval.String(),
	}).Info("backup scheduler started")
}

// Stop halts the loop and waits for an in-flight export to finish. Safe to
// call on a stopped scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	config.GetLogger().Info("backup scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	// One immediate pass covers the "deadline passed while the process was
	// down" case, then the ticker takes over.
	s.RunIfDue(ctx)

	ticker := time.NewTicker(s.tickInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunIfDue(ctx)
		}
	}
}

// tickInterval polls well inside the export interval so a due export is never
// late by more than a fraction of it.
func (s *Scheduler) tickInterval() time.Duration {
	tick := s.Interval / 4
	if tick < time.Minute {
		tick = time.Minute
	}
	return tick
}

// RunIfDue exports once when the newest usable export is missing or older
// than the interval. Returns true when an export was attempted.
func (s *Scheduler) RunIfDue(ctx context.Context) bool {
	logger := config.GetLogger()

	last, err := models.LastSuccessfulExport(ctx)
	if err != nil {
		config.LogError(logger, "scheduler.go", "RunIfDue", "audit trail lookup failed", nil, err)
		return false
	}
	if last != nil && time.Since(last.CreatedAt) < s.Interval {
		return false
	}

	if _, err := s.Exporter.Run(ctx, models.BackupKindAutomatic); err != nil {
		// Run already logged and recorded the failure; the next tick retries.
		return true
	}
	logger.Info("automatic backup completed")
	return true
}
