package kitectx

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

type checkAbortPanic struct {
	err error
}

func abort(err error) {
	panic(checkAbortPanic{err})
}

func recoverAbort(parentCheck func(), err *error) {
	if v := recover(); v != nil {
		abortPanic, ok := v.(checkAbortPanic)
		if !ok {
			// all other panics continue unwinding
			panic(v)
		}
		if parentCheck != nil {
			// continue unwinding if the parent Context is also expired
			parentCheck()
		}
		*err = ContextExpiredError{abortPanic.err}
	}
}

// ContextExpiredError is returned when a computation is aborted due to context expiry
type ContextExpiredError struct {
	Err error
}

// Error implements error
func (c ContextExpiredError) Error() string {
	return fmt.Sprintf("kitectx.Context expired: %s", c.Err)
}

// CheckAbort aborts if ctx is expired
func (ctx Context) CheckAbort() {
	// NOTE: duplicated in CallContext.CheckAbort so that both can be inlined
	if ctx.expired != nil {
		errPtr := (*error)(atomic.LoadPointer(ctx.expired))
		if errPtr != nil {
			abort(*errPtr)
		}
	}
}

// FromContext calls a function with a Context that expires when a given context.Context expires.
// The provided context.Context should expire; otherwise FromContext will leak a goroutine.
func FromContext(std context.Context, f func(Context) error) (err error) {
	if std == nil {
		panic("kitectx.FromContext called on nil context.Context")
	}

	if err := std.Err(); err != nil {
		return ContextExpiredError{err}
	}

	defer recoverAbort(nil, &err)
	err = f(Background().withContext(std))
	return
}

// WithTimeout is equivalent to WithDeadline called on time.Now().Add(timeout)
func (ctx Context) WithTimeout(timeout time.Duration, f func(Context) error) error {
	return ctx.WithDeadline(time.Now().Add(timeout), f)
}

// WithDeadline calls a function with a Context that expires at a given deadline.
func (ctx Context) WithDeadline(deadline time.Time, f func(Context) error) (err error) {
	defer recoverAbort(ctx.CheckAbort, &err)

	newStd, cancel := context.WithDeadline(ctx.Context(), deadline)
	defer cancel()
	if err := newStd.Err(); err != nil {
		return ContextExpiredError{err}
	}

	err = f(ctx.withContext(newStd))
	return
}

// CancelFunc = context.CancelFunc
type CancelFunc = context.CancelFunc

// WithCancel is semantically equivalent to the standard context.WithCancel
func (ctx Context) WithCancel(f func(Context, CancelFunc) error) (err error) {
	defer recoverAbort(ctx.CheckAbort, &err)

	newStd, cancel := context.WithCancel(ctx.Context())
	defer cancel()

	err = f(ctx.withContext(newStd), cancel)
	return
}
