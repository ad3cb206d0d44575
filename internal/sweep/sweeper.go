// Package sweep collects orphaned blobs: objects in the media bucket that no
// document references anymore. Orphans accumulate by design, because blob
// cleanup during replace and delete is best-effort and a crashed create can
// strand a fresh upload.
package sweep

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/stallcraft/stallcraft/internal/config"
	"github.com/stallcraft/stallcraft/internal/storage"
)

// ReferenceSource lists every media URL the stored documents still point at.
type ReferenceSource interface {
	MediaURLs(ctx context.Context) ([]string, error)
}

type Sweeper struct {
	provider  storage.Provider
	store     ReferenceSource
	namespace string
	grace     time.Duration
	schedule  string
	logger    *slog.Logger
	cron      *cron.Cron
}

func New(log *slog.Logger, provider storage.Provider, store ReferenceSource, namespace string, cfg config.SweepConfig) *Sweeper {
	if log == nil {
		log = slog.Default()
	}
	grace := time.Duration(cfg.GraceMinutes) * time.Minute
	if grace <= 0 {
		grace = time.Hour
	}
	schedule := cfg.Schedule
	if schedule == "" {
		schedule = config.DefaultSweepSchedule
	}
	return &Sweeper{
		provider:  provider,
		store:     store,
		namespace: namespace,
		grace:     grace,
		schedule:  schedule,
		logger:    log.With(slog.String("service", "sweep")),
	}
}

// Start schedules periodic sweeps according to the configured cron schedule.
// Disabling the sweeper entirely is the caller's decision; an empty schedule
// already fell back to the default in New.
func (s *Sweeper) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := s.Run(ctx); err != nil {
			s.logger.Error("sweep failed", slog.String("error", err.Error()))
		}
	}); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	s.logger.Info("orphan sweep scheduled", slog.String("schedule", s.schedule))
	return nil
}

// Stop halts the schedule and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Run performs one sweep and returns how many blobs were deleted. A blob is
// deleted when no document references it and it is older than the grace
// period, which protects uploads whose document write is still in flight.
func (s *Sweeper) Run(ctx context.Context) (int, error) {
	urls, err := s.store.MediaURLs(ctx)
	if err != nil {
		return 0, err
	}
	referenced := make(map[string]struct{}, len(urls))
	for _, url := range urls {
		locator, err := storage.ParseURL(url)
		if err != nil {
			// An unresolvable reference cannot protect a blob; it counts as
			// unreferenced and only the grace period applies. The warning is
			// the signal that a record carries a URL the pipeline never made.
			s.logger.Warn("unparsable media reference", slog.String("url", url))
			continue
		}
		referenced[locator.Key] = struct{}{}
	}

	objects, err := s.provider.List(ctx, s.namespace+"/")
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, obj := range objects {
		if _, ok := referenced[obj.Key]; ok {
			continue
		}
		if time.Since(obj.LastModified) < s.grace {
			continue
		}
		if err := s.provider.Delete(ctx, obj.Key); err != nil {
			s.logger.Warn("orphan deletion failed",
				slog.String("key", obj.Key),
				slog.String("error", err.Error()),
			)
			continue
		}
		deleted++
	}

	s.logger.Info("sweep complete",
		slog.Int("objects", len(objects)),
		slog.Int("referenced", len(referenced)),
		slog.Int("deleted", deleted),
	)
	return deleted, nil
}
