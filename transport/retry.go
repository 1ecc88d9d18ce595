package transport

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/cenkalti/backoff"
	"go.bug.st/serial"
	"pkt.systems/pslog"
)

// OpenWithRetry opens the endpoint, retrying with exponential backoff until wait
// has elapsed. A non-positive wait makes a single attempt. Missing permissions
// and context cancellation are not retried
func OpenWithRetry(ctx context.Context, ep Endpoint, opts Options, wait time.Duration) (ByteTransport, error) {
	if wait <= 0 {
		return Open(ctx, ep, opts)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = wait

	var (
		bt      ByteTransport
		attempt int
	)
	op := func() error {
		attempt++
		var err error
		bt, err = Open(ctx, ep, opts)
		if err == nil {
			return nil
		}
		if !retryable(ctx, err) {
			return backoff.Permanent(err)
		}
		pslog.Ctx(ctx).Debug("transport open retry", "endpoint", ep.Name, "attempt", attempt, "err", err)
		return err
	}

	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			return nil, &OpenError{Endpoint: ep.Name, Err: ctxErr}
		}
		return nil, err
	}
	return bt, nil
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, os.ErrPermission) {
		return false
	}
	var pe *serial.PortError
	if errors.As(err, &pe) && pe.Code() == serial.PermissionDenied {
		return false
	}
	return true
}
