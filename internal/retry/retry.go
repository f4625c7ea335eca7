// Package retry wraps provider calls with bounded exponential backoff.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultRetries is the number of retries after the first attempt.
const DefaultRetries = 2

// Policy configures Do.
type Policy struct {
	Retries         uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultPolicy is two retries starting at 100ms.
var DefaultPolicy = Policy{Retries: DefaultRetries, InitialInterval: 100 * time.Millisecond, MaxInterval: time.Second}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do calls op until it succeeds, the retries are exhausted, op returns a
// permanent error or ctx ends.
func Do(ctx context.Context, p Policy, op func() error) error {
	eb := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		eb.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		eb.MaxInterval = p.MaxInterval
	}
	eb.MaxElapsedTime = 0
	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(eb, p.Retries), ctx))
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Err
	}
	return err
}
