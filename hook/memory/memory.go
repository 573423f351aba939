// Package memory provides an in-memory dispatch system implementing the
// hook.Dispatcher primitive API. It stands in for the external
// object-lifecycle dispatch system in tests and examples: targets are
// registered against hooks, and Fire invokes their subscriptions
// synchronously in registration order.
package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/r-bar/hookchain/hook"
)

// subscription pairs a handler with its once flag.
type subscription struct {
	handler *hook.Handler
	once    bool
}

// Dispatcher is an in-memory dispatch system. All methods are safe for
// concurrent use, though firing is synchronous: Fire returns after every
// subscribed handler has run.
type Dispatcher struct {
	mu     sync.Mutex
	subs   map[hook.Target]map[string][]subscription
	units  map[hook.Target]hook.Target
	logger *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// New creates an empty in-memory dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		subs:   make(map[hook.Target]map[string][]subscription),
		units:  make(map[hook.Target]hook.Target),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var (
	_ hook.Dispatcher   = (*Dispatcher)(nil)
	_ hook.UnitResolver = (*Dispatcher)(nil)
)

// Listen implements hook.Dispatcher.
func (d *Dispatcher) Listen(target hook.Target, hookName string, h *hook.Handler, once bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	byHook, ok := d.subs[target]
	if !ok {
		byHook = make(map[string][]subscription)
		d.subs[target] = byHook
	}
	byHook[hookName] = append(byHook[hookName], subscription{handler: h, once: once})
	return nil
}

// Unlisten implements hook.Dispatcher. Removing a handler that is not
// registered is a no-op.
func (d *Dispatcher) Unlisten(target hook.Target, hookName string, h *hook.Handler) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	byHook, ok := d.subs[target]
	if !ok {
		return nil
	}
	subs := byHook[hookName]
	kept := subs[:0]
	for _, s := range subs {
		if s.handler != h {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		delete(byHook, hookName)
	} else {
		byHook[hookName] = kept
	}
	return nil
}

// Fire invokes every subscription for the named hook on target, in
// registration order, with the given arguments. Once-subscriptions are
// retired before their handler runs, so a reentrant Fire from inside a
// handler cannot re-trigger them. Subscriptions installed during the
// firing do not run until the next Fire. The first handler error aborts
// the firing and is returned.
func (d *Dispatcher) Fire(ctx context.Context, target hook.Target, hookName string, args ...any) error {
	d.mu.Lock()
	subs := d.subs[target][hookName]
	snapshot := make([]subscription, len(subs))
	copy(snapshot, subs)

	kept := make([]subscription, 0, len(subs))
	for _, s := range subs {
		if !s.once {
			kept = append(kept, s)
		}
	}
	if byHook, ok := d.subs[target]; ok {
		if len(kept) == 0 {
			delete(byHook, hookName)
		} else {
			byHook[hookName] = kept
		}
	}
	d.mu.Unlock()

	for _, s := range snapshot {
		if err := s.handler.Fn(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

// Subscriptions returns the number of live subscriptions for the named
// hook on target.
func (d *Dispatcher) Subscriptions(target hook.Target, hookName string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs[target][hookName])
}

// BindUnit associates a target with its owning unit of work, making it
// recoverable through UnitOf inside hook firings.
func (d *Dispatcher) BindUnit(target, unit hook.Target) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.units[target] = unit
}

// UnitOf implements hook.UnitResolver.
func (d *Dispatcher) UnitOf(target hook.Target) (hook.Target, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	unit, ok := d.units[target]
	return unit, ok
}
