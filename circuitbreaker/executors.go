package circuitbreaker

import (
	"context"
	"errors"
	"runtime/debug"
	"time"
)

type PanicError struct {
	Recover any
	Cause   error
	Stack   []byte
}

func (r *PanicError) Error() string {
	return "circuitbreaker: panic occurred"
}

func (r *PanicError) Unwrap() error {
	return r.Cause
}

func IsPanicError(err error) bool {
	var panicError *PanicError
	ok := errors.As(err, &panicError)
	return ok
}

func safeExecute[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{
				Recover: r,
				Cause:   err,
				Stack:   debug.Stack(),
			}
		}
	}()

	if ctx.Err() != nil {
		return result, ctx.Err()
	}

	return fn(ctx)
}

// Execute runs fn through b. A denied admission fails fast with ErrOpenState
// or ErrHalfOpenState and never invokes fn. An admitted fn runs outside the
// breaker's lock; its error (including a context timeout) is recorded as a
// failure and returned to the caller unchanged.
func Execute[T any](ctx context.Context, b *Breaker, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := b.allow(ctx); err != nil {
		return zero, err
	}

	start := time.Now()

	result, err := safeExecute(ctx, fn)
	duration := time.Since(start)

	if err != nil {
		b.RecordFailure()
	} else {
		b.RecordSuccess()
	}

	b.metricsReporter().RecordCallResult(ctx, CallResult{
		Name:     b.name,
		Success:  err == nil,
		Duration: duration,
		Error:    err,
	})

	return result, err
}

func Do(ctx context.Context, b *Breaker, fn func(context.Context) error) (err error) {
	_, err = Execute(ctx, b, func(ctx context.Context) (any, error) {
		return nil, fn(ctx)
	})

	return err
}
