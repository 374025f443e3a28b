package journal

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/picocompat/pkg/picocompat/event"
	"github.com/randalmurphal/picocompat/pkg/picocompat/observability"
)

// Middleware records every legacy handler invocation in store.
// Store failures are logged and never change the handler's result.
//
// Example:
//
//	d := event.NewDispatcher(set, event.WithMiddleware(journal.Middleware(store, logger)))
func Middleware(store Store, logger *slog.Logger) event.MiddlewareFunc {
	return func(next event.InvokeFunc) event.InvokeFunc {
		return func(ctx context.Context, inv event.Invocation, p *event.Params) error {
			start := time.Now()
			err := next(ctx, inv, p)

			entry := Entry{
				ID:        uuid.New().String(),
				FiringID:  inv.FiringID,
				Canonical: inv.Canonical,
				Legacy:    inv.Legacy,
				Plugin:    inv.Plugin.Name(),
				Revision:  int(inv.Revision),
				Duration:  time.Since(start),
				Timestamp: start.UTC(),
			}
			if err != nil {
				entry.Err = err.Error()
			}
			if recErr := store.Record(entry); recErr != nil {
				observability.LogJournalError(logger, inv.Legacy, recErr)
			}
			return err
		}
	}
}
