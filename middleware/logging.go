package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/r-bar/hookchain/chain"
)

// Logging returns middleware that logs callback start and completion.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, c *chain.Chain, args *chain.Args, next chain.Callback) error {
		logger.Info("chain callback started",
			slog.String("chain", c.Name()),
			slog.String("chain_id", c.ID().String()),
			slog.Int("args", args.Len()),
		)

		start := time.Now()
		err := next(ctx, args)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("chain callback failed",
				slog.String("chain", c.Name()),
				slog.String("chain_id", c.ID().String()),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Info("chain callback completed",
				slog.String("chain", c.Name()),
				slog.String("chain_id", c.ID().String()),
				slog.Duration("elapsed", elapsed),
			)
		}

		return err
	}
}
