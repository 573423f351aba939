// Package bind is the registration runtime: it routes listen and unlisten
// requests to the external dispatch system's primitive API, transparently
// expanding synthetic composite event names into their primitive members.
//
// One composite registration produces one independent primitive
// subscription per expansion member, each firing the handler on its own —
// composite events carry "any of these happened" semantics, never joint
// ones.
package bind

import (
	"fmt"
	"log/slog"

	"github.com/r-bar/hookchain"
	"github.com/r-bar/hookchain/catalog"
	"github.com/r-bar/hookchain/ext"
	"github.com/r-bar/hookchain/hook"
)

// Binder performs primitive hook registration against a Dispatcher,
// expanding composites and optionally validating target kinds against the
// catalog.
type Binder struct {
	dispatcher hook.Dispatcher
	catalog    *catalog.Catalog
	expander   *catalog.Expander
	exts       *ext.Registry
	logger     *slog.Logger

	strictKinds bool
	logBindings bool
}

// Option configures a Binder.
type Option func(*Binder)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Binder) { b.logger = l }
}

// WithExtensions sets the extension registry notified of composite
// expansions.
func WithExtensions(r *ext.Registry) Option {
	return func(b *Binder) { b.exts = r }
}

// WithStrictKinds enables defense-in-depth validation: registration
// targets implementing hook.Kinded must match the catalog descriptor's
// declared target kind, and every event name must be resolvable in the
// catalog.
func WithStrictKinds(strict bool) Option {
	return func(b *Binder) { b.strictKinds = strict }
}

// WithBindingLogs controls the per-subscription debug log lines.
func WithBindingLogs(enabled bool) Option {
	return func(b *Binder) { b.logBindings = enabled }
}

// New creates a Binder over the given dispatcher, catalog, and expander.
func New(d hook.Dispatcher, c *catalog.Catalog, e *catalog.Expander, opts ...Option) *Binder {
	b := &Binder{
		dispatcher:  d,
		catalog:     c,
		expander:    e,
		logger:      slog.Default(),
		logBindings: true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Catalog returns the binder's catalog.
func (b *Binder) Catalog() *catalog.Catalog { return b.catalog }

// Expander returns the binder's expander.
func (b *Binder) Expander() *catalog.Expander { return b.expander }

// Dispatcher returns the underlying dispatch system.
func (b *Binder) Dispatcher() hook.Dispatcher { return b.dispatcher }

// Listen subscribes h to the named event on target. Composite names are
// expanded and registered once per primitive member with the same handler
// and once flag. The handler pointer is the subscription identity used by
// Unlisten.
func (b *Binder) Listen(target hook.Target, event string, h *hook.Handler, once bool) error {
	if b.dispatcher == nil {
		return hookchain.ErrNoDispatcher
	}
	if h == nil || h.Fn == nil {
		return hookchain.ErrNilHandler
	}

	primitives := b.expander.Expand(event)
	for _, primitive := range primitives {
		if err := b.validate(target, primitive); err != nil {
			return err
		}
	}
	for i, primitive := range primitives {
		if err := b.dispatcher.Listen(target, primitive, h, once); err != nil {
			// Take back members already installed so a failed composite
			// registration leaves no partial subscriptions behind.
			for _, installed := range primitives[:i] {
				if uerr := b.dispatcher.Unlisten(target, installed, h); uerr != nil {
					b.logger.Warn("subscription rollback failed",
						slog.String("event", installed),
						slog.String("handler", h.Name),
						slog.String("error", uerr.Error()),
					)
				}
			}
			return fmt.Errorf("listen %q: %w", primitive, err)
		}
		if b.logBindings {
			b.logger.Debug("subscription installed",
				slog.String("event", primitive),
				slog.String("handler", h.Name),
				slog.Bool("once", once),
			)
		}
	}

	if b.expander.IsComposite(event) {
		if b.exts != nil {
			b.exts.EmitCompositeExpanded(event, primitives)
		}
		b.logger.Debug("synthetic event registered",
			slog.String("event", event),
			slog.Any("primitives", primitives),
			slog.String("handler", h.Name),
		)
	}
	return nil
}

// Unlisten removes the subscriptions previously installed for h on the
// named event, expanding composites the same way Listen did.
func (b *Binder) Unlisten(target hook.Target, event string, h *hook.Handler) error {
	if b.dispatcher == nil {
		return hookchain.ErrNoDispatcher
	}
	if h == nil {
		return hookchain.ErrNilHandler
	}

	for _, primitive := range b.expander.Expand(event) {
		if err := b.dispatcher.Unlisten(target, primitive, h); err != nil {
			return fmt.Errorf("unlisten %q: %w", primitive, err)
		}
		if b.logBindings {
			b.logger.Debug("subscription removed",
				slog.String("event", primitive),
				slog.String("handler", h.Name),
			)
		}
	}
	return nil
}

// validate enforces strict-kind checks when enabled. A mismatched
// resolver target is otherwise a documented caller error, not a runtime
// one.
func (b *Binder) validate(target hook.Target, event string) error {
	if !b.strictKinds {
		return nil
	}

	desc, err := b.catalog.Lookup(event)
	if err != nil {
		return err
	}
	if k, ok := target.(hook.Kinded); ok && k.HookKind() != desc.TargetKind {
		return fmt.Errorf("%w: %q wants %s, target is %s",
			hookchain.ErrKindMismatch, event, desc.TargetKind, k.HookKind())
	}
	return nil
}
