package services

import (
	"context"

	"github.com/dmitrijs2005/mailcal/internal/logging"
)

// Refetcher is the part of a resource a mutation needs.
type Refetcher interface {
	Name() string
	Refetch(ctx context.Context) error
}

// ChangeFunc is notified after a successful mutation so sibling views can
// refresh.
type ChangeFunc func()

// roundTrip runs call and, when it succeeds, refetches every owner and fires
// onChange. A failed refetch is logged but does not fail the mutation.
func roundTrip(ctx context.Context, log logging.Logger, op string, call func(context.Context) error, onChange ChangeFunc, owners ...Refetcher) error {
	if err := call(ctx); err != nil {
		log.Error(ctx, "mutation failed", "op", op, "error", err)
		return err
	}

	for _, r := range owners {
		if err := r.Refetch(ctx); err != nil {
			log.Warn(ctx, "refetch after mutation failed", "op", op, "resource", r.Name(), "error", err)
		}
	}
	if onChange != nil {
		onChange()
	}
	return nil
}
