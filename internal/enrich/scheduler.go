// Package enrich attaches fetched torrent lists to collages, one request at
// a time, with a minimum spacing between request starts.
package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/qepting91/collage-tracker/internal/domain"
)

// FetchFunc loads the detail for one collage.
type FetchFunc func(ctx context.Context, c *domain.Collage) (domain.Detail, error)

type Scheduler struct {
	// MinInterval is the floor between the start of one fetch and the start
	// of the next. Zero disables pacing.
	MinInterval time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewScheduler returns a scheduler on the wall clock.
func NewScheduler(minInterval time.Duration) *Scheduler {
	return &Scheduler{MinInterval: minInterval, now: time.Now, sleep: sleepContext}
}

// Enrich runs fetch for every target in order and stores each result on its
// collage before moving on. The first failure stops the run: targets after
// it are left untouched and the details fetched so far are returned with
// the error.
func (s *Scheduler) Enrich(ctx context.Context, targets []*domain.Collage, fetch FetchFunc) ([]domain.Detail, error) {
	now, sleep := s.now, s.sleep
	if now == nil {
		now = time.Now
	}
	if sleep == nil {
		sleep = sleepContext
	}

	details := make([]domain.Detail, 0, len(targets))
	for i, c := range targets {
		start := now()
		slog.Debug("fetching collage detail", "id", c.ID, "n", i+1, "of", len(targets))

		d, err := fetch(ctx, c)
		if err != nil {
			return details, fmt.Errorf("enrich collage %s: %w", c.ID, err)
		}
		c.Torrents = d.Torrents
		if c.Torrents == nil {
			c.Torrents = []domain.Torrent{}
		}
		details = append(details, d)

		if i == len(targets)-1 {
			break
		}
		if wait := s.MinInterval - now().Sub(start); wait > 0 {
			if err := sleep(ctx, wait); err != nil {
				return details, err
			}
		}
	}
	return details, nil
}

// Enrich is shorthand for NewScheduler(minInterval).Enrich.
func Enrich(ctx context.Context, targets []*domain.Collage, fetch FetchFunc, minInterval time.Duration) ([]domain.Detail, error) {
	return NewScheduler(minInterval).Enrich(ctx, targets, fetch)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
