// Package chain implements the event-chain builder: an ordered list of
// (target, event, condition) stages plus a final callback, compiled into
// nested registration closures against the registration runtime.
//
// A chain is live the moment Apply attaches its callback — construction is
// not separated from activation. Stage 0 may fire many times; every later
// stage is registered once per chain attempt and self-unregisters after
// firing, correlating with that specific causal occurrence rather than
// every future occurrence of its hook.
package chain

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/r-bar/hookchain"
	"github.com/r-bar/hookchain/bind"
	"github.com/r-bar/hookchain/ext"
	"github.com/r-bar/hookchain/hook"
	"github.com/r-bar/hookchain/id"
)

// Resolver computes a stage's registration target from the arguments the
// previous stage fired with. Pass a Resolver in place of a concrete target
// to defer resolution to firing time.
type Resolver func(args []any) (hook.Target, error)

// Condition gates a stage. It sees the full accumulated argument bundle;
// returning false abandons the chain attempt silently. A returned error
// propagates unmodified to the dispatch system's firing context.
type Condition func(ctx context.Context, args *Args) (bool, error)

// Callback is the chain's terminal function, invoked with the full
// accumulated argument bundle once every stage has fired.
type Callback func(ctx context.Context, args *Args) error

// stage is one link of the chain. Exactly one of target and resolver is
// set.
type stage struct {
	target   hook.Target
	resolver Resolver
	event    string
	cond     Condition
}

// tail records one live subscription the chain has materialized, keyed by
// handler identity. Repeated stage-0 firings spawn independent tails; all
// of them are tracked so Remove can tear down every one.
type tail struct {
	id     id.SubscriptionID
	target hook.Target
	event  string
}

// Chain is an ordered sequence of stages plus a final callback. Build one
// with New, append stages with Chain or ChainIf, then activate it with
// Apply.
type Chain struct {
	binder *bind.Binder
	logger *slog.Logger
	exts   *ext.Registry

	id   id.ChainID
	name string
	mode Mode
	once bool

	stages   []stage
	callback Callback

	// names is the concatenation of per-stage parameter names, computed
	// at Apply for Keyword-mode chains.
	names []string

	mu      sync.Mutex
	applied bool
	removed bool
	tails   map[*hook.Handler]tail
}

// Option configures a Chain.
type Option func(*Chain)

// WithName labels the chain in logs and extension notifications.
func WithName(name string) Option {
	return func(c *Chain) { c.name = name }
}

// WithKeywordArgs makes the chain deliver keyword-mapped argument bundles
// to conditions and the final callback.
func WithKeywordArgs() Option {
	return func(c *Chain) { c.mode = Keyword }
}

// WithOnce makes stage 0 single-shot: the whole chain runs at most one
// attempt. Later stages are always single-shot per attempt regardless.
func WithOnce() Option {
	return func(c *Chain) { c.once = true }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Chain) { c.logger = l }
}

// WithExtensions sets the extension registry notified of chain lifecycle
// events.
func WithExtensions(r *ext.Registry) Option {
	return func(c *Chain) { c.exts = r }
}

// New starts a chain at the given target and event. The first stage has
// no condition; append further stages with Chain or ChainIf before Apply.
func New(b *bind.Binder, target hook.Target, event string, opts ...Option) *Chain {
	c := &Chain{
		binder: b,
		logger: slog.Default(),
		id:     id.NewChainID(),
		stages: []stage{makeStage(target, event, nil)},
		tails:  make(map[*hook.Handler]tail),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.name == "" {
		c.name = c.id.String()
	}
	return c
}

// makeStage splits the target argument: a Resolver defers resolution to
// firing time, anything else is a concrete target.
func makeStage(target hook.Target, event string, cond Condition) stage {
	if r, ok := target.(Resolver); ok {
		return stage{resolver: r, event: event, cond: cond}
	}
	return stage{target: target, event: event, cond: cond}
}

// Chain appends a stage with no condition. target may be a concrete
// object or a Resolver. Returns the chain for further chaining.
func (c *Chain) Chain(target hook.Target, event string) *Chain {
	return c.ChainIf(target, event, nil)
}

// ChainIf appends a stage gated by cond. A nil cond always proceeds.
func (c *Chain) ChainIf(target hook.Target, event string, cond Condition) *Chain {
	c.stages = append(c.stages, makeStage(target, event, cond))
	return c
}

// ID returns the chain's identifier.
func (c *Chain) ID() id.ChainID { return c.id }

// Name returns the chain's label.
func (c *Chain) Name() string { return c.name }

// Stages returns the number of declared stages.
func (c *Chain) Stages() int { return len(c.stages) }

// Live returns the number of live subscriptions the chain currently holds
// against the dispatch system.
func (c *Chain) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tails)
}

// Apply attaches the final callback and immediately performs the stage-0
// registration. Every stage's event name is validated against the catalog
// first; an unknown name fails with ErrUnknownEvent. A chain can be
// applied exactly once.
func (c *Chain) Apply(cb Callback) (*Chain, error) {
	if cb == nil {
		return nil, hookchain.ErrNilCallback
	}

	c.mu.Lock()
	if c.applied {
		c.mu.Unlock()
		return nil, hookchain.ErrChainApplied
	}
	c.applied = true
	c.mu.Unlock()

	cat := c.binder.Catalog()
	for _, s := range c.stages {
		desc, err := cat.Lookup(s.event)
		if err != nil {
			return nil, err
		}
		if c.mode == Keyword {
			c.names = append(c.names, desc.ParamNames...)
		}
	}
	c.callback = cb

	// Stage 0 registers with no fired arguments and no condition.
	if err := c.register(context.Background(), 0, nil, nil); err != nil {
		return nil, err
	}

	if c.exts != nil {
		c.exts.EmitChainRegistered(c.info())
	}
	return c, nil
}

// Remove tears down every live subscription the chain has materialized,
// including tails dynamically spawned by repeated stage-0 firings. The
// chain cannot be reused afterward.
func (c *Chain) Remove() error {
	c.mu.Lock()
	if c.removed {
		c.mu.Unlock()
		return hookchain.ErrChainRemoved
	}
	c.removed = true
	live := make(map[*hook.Handler]tail, len(c.tails))
	for h, t := range c.tails {
		live[h] = t
	}
	c.tails = make(map[*hook.Handler]tail)
	c.mu.Unlock()

	var errs []error
	for h, t := range live {
		if err := c.binder.Unlisten(t.target, t.event, h); err != nil {
			errs = append(errs, err)
		}
	}

	if c.exts != nil {
		c.exts.EmitChainRemoved(c.info())
	}
	c.logger.Debug("chain removed",
		slog.String("chain", c.name),
		slog.Int("subscriptions", len(live)),
	)
	return errors.Join(errs...)
}

func (c *Chain) info() ext.ChainInfo {
	return ext.ChainInfo{ID: c.id, Name: c.name, Stages: len(c.stages)}
}

// bundle wraps accumulated values in an Args for delivery to conditions
// and the callback.
func (c *Chain) bundle(values []any) *Args {
	a := &Args{Values: values}
	if c.mode == Keyword {
		a.Names = c.names
	}
	return a
}

// register performs the registration step for stage i: evaluate the
// stage's condition against the accumulated arguments, resolve its
// target, and install the compiled next handler with the appropriate
// once flag. fired carries the arguments of the firing that triggered
// this step; accum already includes them.
func (c *Chain) register(ctx context.Context, i int, accum, fired []any) error {
	s := c.stages[i]

	if s.cond != nil {
		ok, err := s.cond(ctx, c.bundle(accum))
		if err != nil {
			return err
		}
		if !ok {
			if c.exts != nil {
				c.exts.EmitChainAborted(ctx, c.stageInfo(i, id.Nil, nil, false))
			}
			c.logger.Debug("chain attempt abandoned",
				slog.String("chain", c.name),
				slog.Int("stage", i),
				slog.String("event", s.event),
			)
			return nil
		}
	}

	target := s.target
	if s.resolver != nil {
		resolved, err := s.resolver(fired)
		if err != nil {
			return err
		}
		target = resolved
	}

	// Chain stages past the base are always single execution; only the
	// base of the chain can fire multiple times.
	once := c.once || i > 0

	h := c.compile(i+1, accum)
	if err := c.binder.Listen(target, s.event, h, once); err != nil {
		return err
	}
	sub := id.NewSubscriptionID()

	c.mu.Lock()
	removed := c.removed
	if !removed {
		c.tails[h] = tail{id: sub, target: target, event: s.event}
	}
	c.mu.Unlock()
	if removed {
		// Remove ran while this tail was being installed; take it back
		// down rather than leak it.
		return c.binder.Unlisten(target, s.event, h)
	}

	if c.exts != nil {
		c.exts.EmitStageBound(ctx, c.stageInfo(i, sub, target, once))
	}
	c.logger.Debug("chain registration performed",
		slog.String("chain", c.name),
		slog.String("subscription", sub.String()),
		slog.Int("stage", i),
		slog.String("event", s.event),
		slog.Bool("once", once),
	)
	return nil
}

func (c *Chain) stageInfo(i int, sub id.SubscriptionID, target hook.Target, once bool) ext.StageInfo {
	return ext.StageInfo{
		Chain:        c.info(),
		Index:        i,
		Event:        c.stages[i].event,
		Subscription: sub,
		Target:       target,
		Once:         once,
	}
}

// compile builds the handler invoked when stage i-1's event fires. For
// i == len(stages) it is the terminal closure running the user callback;
// otherwise it appends the fired arguments to a fresh copy of the
// accumulator and performs stage i's registration step. Copying is what
// keeps concurrent chain attempts independent: each firing owns its own
// accumulator.
func (c *Chain) compile(i int, accum []any) *hook.Handler {
	h := &hook.Handler{Name: c.name}
	registeredOnce := c.once || i > 1

	if i == len(c.stages) {
		h.Fn = func(ctx context.Context, args ...any) error {
			c.retire(h, registeredOnce)
			all := concat(accum, args)
			err := c.callback(ctx, c.bundle(all))
			if err != nil {
				return err
			}
			if c.exts != nil {
				c.exts.EmitChainCompleted(ctx, c.info(), all)
			}
			return nil
		}
		return h
	}

	h.Fn = func(ctx context.Context, args ...any) error {
		c.retire(h, registeredOnce)
		return c.register(ctx, i, concat(accum, args), args)
	}
	return h
}

// retire drops a fired once-subscription from the live tail set. The
// dispatch system has already unregistered it; only the bookkeeping entry
// remains.
func (c *Chain) retire(h *hook.Handler, once bool) {
	if !once {
		return
	}
	c.mu.Lock()
	delete(c.tails, h)
	c.mu.Unlock()
}

func concat(accum, args []any) []any {
	all := make([]any, 0, len(accum)+len(args))
	all = append(all, accum...)
	return append(all, args...)
}
