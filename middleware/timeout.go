package middleware

import (
	"context"
	"time"

	"github.com/r-bar/hookchain/chain"
)

// Timeout returns middleware that enforces an execution deadline on the
// callback. A non-positive duration is a pass-through. When the deadline
// is exceeded the context is cancelled and the callback should return
// context.DeadlineExceeded.
func Timeout(d time.Duration) Middleware {
	return func(ctx context.Context, _ *chain.Chain, args *chain.Args, next chain.Callback) error {
		if d > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
		return next(ctx, args)
	}
}
