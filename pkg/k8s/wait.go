package k8s

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// PollOptions bounds a poll loop. A zero Timeout polls until the condition
// holds or the context is cancelled.
type PollOptions struct {
	Interval time.Duration
	Timeout  time.Duration
}

// Poll checks cond immediately and then once per interval.
func Poll(ctx context.Context, opts PollOptions, operation string, cond wait.ConditionWithContextFunc) error {
	interval := opts.Interval
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}

	var err error
	if opts.Timeout > 0 {
		err = wait.PollUntilContextTimeout(ctx, interval, opts.Timeout, true, cond)
	} else {
		err = wait.PollUntilContextCancel(ctx, interval, true, cond)
	}
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w", operation, ctx.Err())
	}
	if wait.Interrupted(err) {
		return fmt.Errorf("%s after %s: %w", operation, opts.Timeout, ErrTimeout)
	}
	return err
}
