package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/r-bar/hookchain/chain"
)

// Recover returns middleware that recovers from panics in the callback
// stack. Panics are converted to errors and logged with a stack trace.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, c *chain.Chain, args *chain.Args, next chain.Callback) (retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error("chain callback panicked",
					slog.String("chain", c.Name()),
					slog.String("chain_id", c.ID().String()),
					slog.Any("panic", r),
					slog.String("stack", stack),
				)
				retErr = fmt.Errorf("panic in chain %s: %v", c.Name(), r)
			}
		}()
		return next(ctx, args)
	}
}
