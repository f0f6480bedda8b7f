package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
)

type fetcher interface {
	Name() string
	Fetch(ctx context.Context) error
}

// refreshAll fetches every resource concurrently. Failures are kept in each
// resource's state; the joined error only reports which ones failed.
func (a *App) refreshAll(ctx context.Context) error {
	settings, _ := a.userSettings()
	all := []fetcher{
		a.emails, a.history, a.events, a.todos,
		a.eventCandidates, a.todoCandidates, settings,
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, r := range all {
		wg.Add(1)
		go func(r fetcher) {
			defer wg.Done()
			if err := r.Fetch(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
				mu.Unlock()
			}
		}(r)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// StartRefreshScheduler refreshes every resource on the cron expression schedule.
// Runs that would overlap a still-running refresh are skipped. The returned
// function stops the scheduler and waits for a running refresh to finish.
func (a *App) StartRefreshScheduler(ctx context.Context, schedule string) (stop func(), err error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err = c.AddFunc(schedule, func() {
		if err := a.refreshAll(ctx); err != nil {
			a.log.Warn(ctx, "scheduled refresh failed", "error", err)
			return
		}
		a.log.Debug(ctx, "scheduled refresh done")
	})
	if err != nil {
		return nil, fmt.Errorf("refresh schedule %q: %w", schedule, err)
	}
	c.Start()

	return func() { <-c.Stop().Done() }, nil
}
