package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// Policy bounds how often an operation is rerun. Delays grow by Factor from
// Delay up to MaxDelay.
type Policy struct {
	Retries  int
	Delay    time.Duration
	MaxDelay time.Duration
	Factor   float64
}

// DefaultPolicy never retries.
var DefaultPolicy = Policy{Delay: 5 * time.Second, MaxDelay: time.Minute, Factor: 2}

// Notify is told about every retry before its delay starts.
type Notify func(attempt int, err error, delay time.Duration)

// backoff turns the policy into the apimachinery delay sequence.
func (p Policy) backoff() wait.Backoff {
	factor := p.Factor
	if factor < 1 {
		factor = 1
	}
	return wait.Backoff{
		Duration: p.Delay,
		Factor:   factor,
		Cap:      p.MaxDelay,
		Steps:    p.Retries + 1,
	}
}

// Do runs op until it succeeds, returns a [Permanent] error, the policy's
// retries are used up or ctx is done.
//
// Permanent errors come back unwrapped. With zero retries the first error is
// returned as is.
func Do(ctx context.Context, p Policy, op func(context.Context) error, notify Notify) error {
	b := p.backoff()
	attempt := 0
	for {
		attempt++
		err := op(ctx)
		if err == nil {
			return nil
		}

		var perm *PermanentError
		if errors.As(err, &perm) {
			return perm.Err
		}
		if attempt > p.Retries {
			if p.Retries == 0 {
				return err
			}
			return fmt.Errorf("giving up after %d attempts: %w", attempt, err)
		}

		delay := b.Step()
		if notify != nil {
			notify(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("context done after %d attempts: %w", attempt, errors.Join(err, ctx.Err()))
		case <-timer.C:
		}
	}
}

// PermanentError ends a [Do] loop without another attempt.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }

func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err, or anything it wraps, is permanent.
func IsPermanent(err error) bool {
	var perm *PermanentError
	return errors.As(err, &perm)
}
