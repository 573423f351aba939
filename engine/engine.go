// Package engine wires the hookchain subsystems together: catalog,
// expander, registration runtime, extension registry, and chain builder.
//
// This package sits above all subsystem packages and below the
// application layer; the root hookchain package defines shared errors and
// configuration and so cannot import the subsystems back.
package engine

import (
	"log/slog"

	"github.com/r-bar/hookchain"
	"github.com/r-bar/hookchain/bind"
	"github.com/r-bar/hookchain/catalog"
	"github.com/r-bar/hookchain/chain"
	"github.com/r-bar/hookchain/ext"
	"github.com/r-bar/hookchain/hook"
)

// Engine is the central entry point for chain registration. Create one
// with New and functional options; the only required collaborator is the
// external dispatch system's primitive registration API.
type Engine struct {
	config     hookchain.Config
	logger     *slog.Logger
	dispatcher hook.Dispatcher
	catalog    *catalog.Catalog
	expander   *catalog.Expander
	extensions *ext.Registry
	binder     *bind.Binder

	// pending holds extensions registered via options before the
	// registry exists (it needs the final logger).
	pending []ext.Extension
}

// Option configures an Engine.
type Option func(*Engine) error

// WithDispatcher sets the external dispatch system. Required.
func WithDispatcher(d hook.Dispatcher) Option {
	return func(e *Engine) error {
		e.dispatcher = d
		return nil
	}
}

// WithLogger sets the structured logger for the engine.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) error {
		e.logger = l
		return nil
	}
}

// WithConfig sets the engine configuration.
func WithConfig(cfg hookchain.Config) Option {
	return func(e *Engine) error {
		e.config = cfg
		return nil
	}
}

// WithCatalog replaces the default object-lifecycle catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) error {
		e.catalog = c
		return nil
	}
}

// WithExpander replaces the default composite expansion table.
func WithExpander(exp *catalog.Expander) Option {
	return func(e *Engine) error {
		e.expander = exp
		return nil
	}
}

// WithExtension registers an extension with the engine.
func WithExtension(x ext.Extension) Option {
	return func(e *Engine) error {
		e.pending = append(e.pending, x)
		return nil
	}
}

// New creates an Engine with the given options. A dispatcher is required;
// catalog and expander default to the standard object-lifecycle tables.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		config: hookchain.DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if e.dispatcher == nil {
		return nil, hookchain.ErrNoDispatcher
	}

	e.extensions = ext.NewRegistry(e.logger)
	for _, x := range e.pending {
		e.extensions.Register(x)
	}
	e.pending = nil
	if e.catalog == nil {
		e.catalog = catalog.Default()
	}
	if e.expander == nil {
		e.expander = catalog.DefaultExpander()
	}

	e.binder = bind.New(e.dispatcher, e.catalog, e.expander,
		bind.WithLogger(e.logger),
		bind.WithExtensions(e.extensions),
		bind.WithStrictKinds(e.config.StrictKinds),
		bind.WithBindingLogs(e.config.LogBindings),
	)
	return e, nil
}

// On starts a chain at the given target and event. Append stages with
// Chain or ChainIf, then activate with Apply.
func (e *Engine) On(target hook.Target, event string, opts ...chain.Option) *chain.Chain {
	base := []chain.Option{
		chain.WithLogger(e.logger),
		chain.WithExtensions(e.extensions),
	}
	if e.config.DefaultKeywordArgs {
		base = append(base, chain.WithKeywordArgs())
	}
	return chain.New(e.binder, target, event, append(base, opts...)...)
}

// RegisterComposite subscribes h to a composite (or primitive) event
// without chaining: one registration, one independent primitive
// subscription per expansion member.
func (e *Engine) RegisterComposite(target hook.Target, event string, h *hook.Handler, once bool) error {
	return e.binder.Listen(target, event, h, once)
}

// Unregister removes the subscriptions previously installed for h on the
// named event.
func (e *Engine) Unregister(target hook.Target, event string, h *hook.Handler) error {
	return e.binder.Unlisten(target, event, h)
}

// Lookup returns the catalog descriptor for the named event, failing with
// ErrUnknownEvent if the name is absent from both the primitive and
// synthetic tables.
func (e *Engine) Lookup(event string) (catalog.Descriptor, error) {
	return e.catalog.Lookup(event)
}

// Expand returns the primitive members of a composite event, or the name
// itself when it is not composite.
func (e *Engine) Expand(event string) []string {
	return e.expander.Expand(event)
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Binder returns the registration runtime.
func (e *Engine) Binder() *bind.Binder { return e.binder }

// Dispatcher returns the external dispatch system.
func (e *Engine) Dispatcher() hook.Dispatcher { return e.dispatcher }

// Extensions returns the extension registry.
func (e *Engine) Extensions() *ext.Registry { return e.extensions }

// Logger returns the engine's logger.
func (e *Engine) Logger() *slog.Logger { return e.logger }

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() hookchain.Config { return e.config }
