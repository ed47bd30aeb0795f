package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"NewsDigest/internal/ports"
)

// CronScheduler runs jobs on a cron expression in a fixed timezone.
type CronScheduler struct {
	spec   string
	driver *cron.Cron
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler for the given cron expression.
func NewCronScheduler(spec string, location *time.Location) *CronScheduler {
	if location == nil {
		location = time.UTC
	}
	return &CronScheduler{
		spec:   spec,
		driver: cron.New(cron.WithLocation(location)),
	}
}

// Start registers the job and begins the cron loop in the background.
func (c *CronScheduler) Start(_ context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if _, err := c.driver.AddFunc(c.spec, func() { job(time.Now()) }); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", c.spec, err)
	}

	c.driver.Start()
	return nil
}

// Stop halts scheduling and waits for a running job to finish, bounded
// by the caller's context.
func (c *CronScheduler) Stop(ctx context.Context) error {
	done := c.driver.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
