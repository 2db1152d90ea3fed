// Package notify delivers stock reports to the operator.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Mirror delivers to a primary notifier and copies every report to the
// mirrors. Only the primary decides the outcome, mirror failures are logged.
type Mirror struct {
	primary Notifier
	mirrors []Notifier
	logger  *slog.Logger
}

func NewMirror(primary Notifier, logger *slog.Logger, mirrors ...Notifier) *Mirror {
	return &Mirror{
		primary: primary,
		mirrors: mirrors,
		logger:  logger,
	}
}

func (m *Mirror) Notify(ctx context.Context, text string) error {
	err := m.primary.Notify(ctx, text)
	for _, n := range m.mirrors {
		if merr := n.Notify(ctx, text); merr != nil {
			m.logger.Error("could not mirror report", "error", merr)
		}
	}
	return err
}

type Retry struct {
	next     Notifier
	attempts int
	pause    time.Duration
}

// WithRetry wraps n so that a failed send is tried again, up to attempts
// times in total, with a fixed pause in between.
func WithRetry(n Notifier, attempts int, pause time.Duration) *Retry {
	if attempts < 1 {
		attempts = 1
	}
	return &Retry{
		next:     n,
		attempts: attempts,
		pause:    pause,
	}
}

func (r *Retry) Notify(ctx context.Context, text string) error {
	var err error
	for i := 0; i < r.attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.pause):
			}
		}
		if err = r.next.Notify(ctx, text); err == nil {
			return nil
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", r.attempts, err)
}
