package kitectx

import "sync/atomic"

// CallContext is a Context that additionally tracks the depth of a recursive computation,
// so that walks over user controlled structures (assignment chains, class hierarchies)
// are bounded even when those structures are cyclic.
type CallContext struct {
	Context
	depth int
	limit int
}

// WithCallLimit calls f with a CallContext that permits limit nested calls.
func (ctx Context) WithCallLimit(limit int, f func(CallContext) error) (err error) {
	defer recoverAbort(ctx.CheckAbort, &err)
	return f(CallContext{Context: ctx, limit: limit})
}

// Call returns a CallContext one level deeper than ctx
func (ctx CallContext) Call() CallContext {
	ctx.CheckAbort()
	ctx.depth++
	return ctx
}

// AtCallLimit returns true if no further nested calls are permitted
func (ctx CallContext) AtCallLimit() bool {
	return ctx.depth >= ctx.limit
}

// Depth returns the current nesting depth
func (ctx CallContext) Depth() int {
	return ctx.depth
}

// CheckAbort aborts if ctx is expired
func (ctx CallContext) CheckAbort() {
	if ctx.expired != nil {
		errPtr := (*error)(atomic.LoadPointer(ctx.expired))
		if errPtr != nil {
			abort(*errPtr)
		}
	}
}
