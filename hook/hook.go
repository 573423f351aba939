// Package hook defines the primitive vocabulary shared by every hookchain
// subsystem: targets, callbacks, identity-preserving handlers, and the
// Dispatcher interface through which the external object-lifecycle dispatch
// system is driven.
//
// Hookchain never implements the dispatch system itself. It only requires
// the two primitive operations Listen and Unlisten, plus static hook-class
// tables describing which hooks exist and what arguments they fire with.
package hook

import "context"

// Target is a registration target for a hook: a model type, a unit of work,
// a connection pool, or any other object the dispatch system fires hooks
// against. Targets are used as map keys by dispatchers and must therefore
// be comparable.
type Target any

// Kind classifies registration targets. Each catalog descriptor declares
// the kind of target its hook fires against.
type Kind string

// Target kinds for the standard object-lifecycle catalog.
const (
	KindRecord Kind = "record"
	KindUnit   Kind = "unit"
	KindStore  Kind = "store"
)

// Kinded is implemented by targets that can report their own kind.
// Dispatchers and the registration runtime may use it for optional
// defense-in-depth validation against a descriptor's declared kind.
type Kinded interface {
	HookKind() Kind
}

// Callback is the function signature every hook fires with. The argument
// slice is positional and ordered exactly as the catalog descriptor for
// the hook declares. A returned error propagates unmodified to the
// dispatch system's firing context.
type Callback func(ctx context.Context, args ...any) error

// Handler wraps a Callback with a stable identity. Go functions are not
// comparable, so Listen and Unlisten correlate registrations through the
// *Handler pointer: removing a handler removes exactly the subscriptions
// installed with that same pointer.
type Handler struct {
	// Name labels the handler in logs. Optional.
	Name string

	// Fn is invoked when the hook fires.
	Fn Callback
}

// NewHandler wraps fn in a Handler carrying the given name.
func NewHandler(name string, fn Callback) *Handler {
	return &Handler{Name: name, Fn: fn}
}

// Dispatcher is the primitive registration API of the external dispatch
// system. These are the only two operations the registration runtime ever
// calls against it.
type Dispatcher interface {
	// Listen subscribes h to firings of the named hook on target.
	// When once is true the subscription self-unregisters after its
	// first firing.
	Listen(target Target, hookName string, h *Handler, once bool) error

	// Unlisten removes a subscription previously installed with Listen.
	// Removing a handler that is not registered is not an error.
	Unlisten(target Target, hookName string, h *Handler) error
}

// UnitResolver recovers the owning unit of work for a fired target.
// Dispatch systems that track units of work implement it; deferred-target
// resolvers use it to chain from "object mutated" to "unit of work
// finished".
type UnitResolver interface {
	UnitOf(target Target) (Target, bool)
}

// MutationSet is implemented by unit-of-work targets that expose their
// pending mutations. The lifecycle convenience wrappers filter instances
// through it; hookchain itself imposes no store semantics.
type MutationSet interface {
	// Created returns objects pending insertion.
	Created() []Target

	// Updated returns objects pending modification.
	Updated() []Target

	// Deleted returns objects pending deletion.
	Deleted() []Target
}

// Signature declares one hook of a hook class: its name and the ordered
// parameter names it fires with. Parameter order matches the exact
// positional order the dispatch system supplies at call time.
type Signature struct {
	Name   string
	Params []string
}

// Class declares a family of hooks fired against one kind of target.
// Classes are authored as static literals (or generated at build time);
// hookchain performs no runtime signature introspection.
type Class struct {
	TargetKind Kind
	Hooks      []Signature
}
