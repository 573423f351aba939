// Package middleware provides composable middleware for chain callbacks.
// Middleware wraps the terminal callback synchronously and can modify
// execution (recover from panics, log, enforce deadlines, add tracing).
package middleware

import (
	"context"

	"github.com/r-bar/hookchain/chain"
)

// Middleware wraps a chain callback with cross-cutting logic.
// It receives the current context, the chain being completed, the
// accumulated argument bundle, and the next callback to call. Middleware
// MUST call next to continue the stack (unless short-circuiting on error).
type Middleware func(ctx context.Context, c *chain.Chain, args *chain.Args, next chain.Callback) error

// Stack composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the
// list is the outermost wrapper.
//
// Example: Stack(logging, recover, timeout) executes as:
//
//	logging → recover → timeout → callback
func Stack(mws ...Middleware) Middleware {
	return func(ctx context.Context, c *chain.Chain, args *chain.Args, next chain.Callback) error {
		// Build the stack from the end backwards.
		cb := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := cb
			cb = func(ctx context.Context, args *chain.Args) error {
				return mw(ctx, c, args, prev)
			}
		}
		return cb(ctx, args)
	}
}

// Wrap applies a middleware stack to cb on behalf of the given chain,
// returning a callback suitable for Apply:
//
//	c := e.On(model, "after_save").Chain(resolver, "after_flush_postexec")
//	c.Apply(middleware.Wrap(c, cb, middleware.Logging(logger), middleware.Recover(logger)))
func Wrap(c *chain.Chain, cb chain.Callback, mws ...Middleware) chain.Callback {
	stack := Stack(mws...)
	return func(ctx context.Context, args *chain.Args) error {
		return stack(ctx, c, args, cb)
	}
}
