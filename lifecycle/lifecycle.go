// Package lifecycle provides convenience wrappers for the standard
// object-lifecycle phases: insert, update, delete, and the composite save
// and touch phases.
//
// The after-phase helpers return a pre-built chain whose second stage
// fires on the owning unit of work's post-flush hook, resolved at firing
// time — "this record was inserted, tell me when its unit of work
// finishes". The before-phase helpers subscribe to the unit's pre-flush
// hook and filter the pending mutation sets, invoking the caller's
// function once per matching record.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/r-bar/hookchain/chain"
	"github.com/r-bar/hookchain/engine"
	"github.com/r-bar/hookchain/hook"
)

// DefaultExecutionEvent is the unit-of-work hook the after-phase chains
// complete on.
const DefaultExecutionEvent = "after_flush_postexec"

// RecordFunc is invoked once per matching record during a before-phase
// firing. args carries the firing's original arguments (unit, plan,
// instances).
type RecordFunc func(ctx context.Context, record hook.Target, args ...any) error

// Option configures an after-phase wrapper.
type Option func(*options)

type options struct {
	executionEvent  string
	executionTarget hook.Target
	chainOpts       []chain.Option
}

// WithExecutionEvent overrides the hook the chain completes on.
func WithExecutionEvent(event string) Option {
	return func(o *options) { o.executionEvent = event }
}

// WithExecutionTarget overrides the chain's second-stage target. Pass a
// chain.Resolver to defer resolution to firing time.
func WithExecutionTarget(t hook.Target) Option {
	return func(o *options) { o.executionTarget = t }
}

// WithChainOptions passes options through to the underlying chain.
func WithChainOptions(opts ...chain.Option) Option {
	return func(o *options) { o.chainOpts = append(o.chainOpts, opts...) }
}

// UnitOfTarget returns a resolver that recovers the owning unit of work
// for the record a mutation hook fired against. It requires the engine's
// dispatcher to implement hook.UnitResolver.
func UnitOfTarget(e *engine.Engine) chain.Resolver {
	return func(args []any) (hook.Target, error) {
		res, ok := e.Dispatcher().(hook.UnitResolver)
		if !ok {
			return nil, fmt.Errorf("lifecycle: dispatcher does not implement hook.UnitResolver")
		}
		if len(args) < 3 {
			return nil, fmt.Errorf("lifecycle: expected (mapper, connection, target) arguments, got %d", len(args))
		}
		unit, ok := res.UnitOf(args[2])
		if !ok {
			return nil, fmt.Errorf("lifecycle: no unit of work bound for target %v", args[2])
		}
		return unit, nil
	}
}

// afterPhase builds the two-stage chain shared by every after-phase
// helper.
func afterPhase(e *engine.Engine, model hook.Target, event string, opts []Option) *chain.Chain {
	o := options{executionEvent: DefaultExecutionEvent}
	for _, opt := range opts {
		opt(&o)
	}
	if o.executionTarget == nil {
		o.executionTarget = UnitOfTarget(e)
	}
	return e.On(model, event, o.chainOpts...).Chain(o.executionTarget, o.executionEvent)
}

// AfterInsert returns a chain firing after a record of model is inserted
// and its unit of work finishes flushing. Call Apply on the result to
// attach the callback and activate it.
func AfterInsert(e *engine.Engine, model hook.Target, opts ...Option) *chain.Chain {
	return afterPhase(e, model, "after_insert", opts)
}

// AfterUpdate is AfterInsert for updates.
func AfterUpdate(e *engine.Engine, model hook.Target, opts ...Option) *chain.Chain {
	return afterPhase(e, model, "after_update", opts)
}

// AfterDelete is AfterInsert for deletes.
func AfterDelete(e *engine.Engine, model hook.Target, opts ...Option) *chain.Chain {
	return afterPhase(e, model, "after_delete", opts)
}

// AfterSave is AfterInsert for the composite save phase (insert or
// update).
func AfterSave(e *engine.Engine, model hook.Target, opts ...Option) *chain.Chain {
	return afterPhase(e, model, "after_save", opts)
}

// AfterTouch is AfterInsert for the composite touch phase (insert,
// update, or delete).
func AfterTouch(e *engine.Engine, model hook.Target, opts ...Option) *chain.Chain {
	return afterPhase(e, model, "after_touch", opts)
}

// beforePhase subscribes fn to the unit's before_flush hook, filtered
// through the pick function over the unit's pending mutation sets.
// Records appearing in more than one selected set run once.
func beforePhase(e *engine.Engine, unit hook.Target, name string, fn RecordFunc, pick func(hook.MutationSet) []hook.Target) (*hook.Handler, error) {
	h := hook.NewHandler(name, func(ctx context.Context, args ...any) error {
		if len(args) == 0 {
			return fmt.Errorf("lifecycle: before_flush fired without arguments")
		}
		ms, ok := args[0].(hook.MutationSet)
		if !ok {
			return fmt.Errorf("lifecycle: unit %T does not expose mutation sets", args[0])
		}
		seen := make(map[hook.Target]struct{})
		for _, record := range pick(ms) {
			if _, dup := seen[record]; dup {
				continue
			}
			seen[record] = struct{}{}
			if err := fn(ctx, record, args...); err != nil {
				return err
			}
		}
		return nil
	})
	if err := e.RegisterComposite(unit, "before_flush", h, false); err != nil {
		return nil, err
	}
	return h, nil
}

// BeforeInsert invokes fn for every record pending insertion when the
// unit of work begins flushing. The returned handler is the subscription
// identity; pass it to Engine.Unregister to remove it.
func BeforeInsert(e *engine.Engine, unit hook.Target, fn RecordFunc) (*hook.Handler, error) {
	return beforePhase(e, unit, "before_insert", fn, func(ms hook.MutationSet) []hook.Target {
		return ms.Created()
	})
}

// BeforeUpdate invokes fn for every record pending modification.
func BeforeUpdate(e *engine.Engine, unit hook.Target, fn RecordFunc) (*hook.Handler, error) {
	return beforePhase(e, unit, "before_update", fn, func(ms hook.MutationSet) []hook.Target {
		return ms.Updated()
	})
}

// BeforeDelete invokes fn for every record pending deletion.
func BeforeDelete(e *engine.Engine, unit hook.Target, fn RecordFunc) (*hook.Handler, error) {
	return beforePhase(e, unit, "before_delete", fn, func(ms hook.MutationSet) []hook.Target {
		return ms.Deleted()
	})
}

// BeforeSave invokes fn for every record pending insertion or
// modification.
func BeforeSave(e *engine.Engine, unit hook.Target, fn RecordFunc) (*hook.Handler, error) {
	return beforePhase(e, unit, "before_save", fn, func(ms hook.MutationSet) []hook.Target {
		return gather(ms.Created(), ms.Updated())
	})
}

// BeforeTouch invokes fn for every pending mutation of any phase.
func BeforeTouch(e *engine.Engine, unit hook.Target, fn RecordFunc) (*hook.Handler, error) {
	return beforePhase(e, unit, "before_touch", fn, func(ms hook.MutationSet) []hook.Target {
		return gather(ms.Created(), ms.Updated(), ms.Deleted())
	})
}

// gather concatenates mutation sets without aliasing their backing
// arrays.
func gather(sets ...[]hook.Target) []hook.Target {
	n := 0
	for _, s := range sets {
		n += len(s)
	}
	out := make([]hook.Target, 0, n)
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}
