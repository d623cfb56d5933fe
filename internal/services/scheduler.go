package services

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// RunDaily runs job once per day at the given local wall-clock time, until
// ctx is cancelled. Job errors are logged; the schedule keeps going.
func RunDaily(ctx context.Context, name string, hour, minute int, job func(context.Context) error) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		log.WithField("job", name).Info("running scheduled job")
		if err := job(ctx); err != nil {
			log.WithField("job", name).WithError(err).Error("scheduled job failed")
		}
	}
}
