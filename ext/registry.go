package ext

import (
	"context"
	"log/slog"
)

// Named entry types pair a hook implementation with the extension name
// captured at registration time. This avoids type-asserting back to
// Extension inside the emit methods.
type chainRegisteredEntry struct {
	name string
	hook ChainRegistered
}

type stageBoundEntry struct {
	name string
	hook StageBound
}

type chainAbortedEntry struct {
	name string
	hook ChainAborted
}

type chainCompletedEntry struct {
	name string
	hook ChainCompleted
}

type chainRemovedEntry struct {
	name string
	hook ChainRemoved
}

type compositeExpandedEntry struct {
	name string
	hook CompositeExpanded
}

// Registry holds registered extensions and dispatches chain lifecycle
// events to them. It type-caches extensions at registration time so emit
// calls iterate only over extensions that implement the relevant hook.
type Registry struct {
	extensions []Extension
	logger     *slog.Logger

	// Type-cached slices for each lifecycle hook.
	chainRegistered   []chainRegisteredEntry
	stageBound        []stageBoundEntry
	chainAborted      []chainAbortedEntry
	chainCompleted    []chainCompletedEntry
	chainRemoved      []chainRemovedEntry
	compositeExpanded []compositeExpandedEntry
}

// NewRegistry creates an extension registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Register adds an extension and type-asserts it into all applicable
// hook caches. Extensions are notified in registration order.
func (r *Registry) Register(e Extension) {
	r.extensions = append(r.extensions, e)
	name := e.Name()

	if h, ok := e.(ChainRegistered); ok {
		r.chainRegistered = append(r.chainRegistered, chainRegisteredEntry{name, h})
	}
	if h, ok := e.(StageBound); ok {
		r.stageBound = append(r.stageBound, stageBoundEntry{name, h})
	}
	if h, ok := e.(ChainAborted); ok {
		r.chainAborted = append(r.chainAborted, chainAbortedEntry{name, h})
	}
	if h, ok := e.(ChainCompleted); ok {
		r.chainCompleted = append(r.chainCompleted, chainCompletedEntry{name, h})
	}
	if h, ok := e.(ChainRemoved); ok {
		r.chainRemoved = append(r.chainRemoved, chainRemovedEntry{name, h})
	}
	if h, ok := e.(CompositeExpanded); ok {
		r.compositeExpanded = append(r.compositeExpanded, compositeExpandedEntry{name, h})
	}
}

// Extensions returns all registered extensions.
func (r *Registry) Extensions() []Extension { return r.extensions }

// EmitChainRegistered notifies all extensions that implement ChainRegistered.
func (r *Registry) EmitChainRegistered(info ChainInfo) {
	for _, e := range r.chainRegistered {
		if err := e.hook.OnChainRegistered(info); err != nil {
			r.logHookError("OnChainRegistered", e.name, err)
		}
	}
}

// EmitStageBound notifies all extensions that implement StageBound.
func (r *Registry) EmitStageBound(ctx context.Context, info StageInfo) {
	for _, e := range r.stageBound {
		if err := e.hook.OnStageBound(ctx, info); err != nil {
			r.logHookError("OnStageBound", e.name, err)
		}
	}
}

// EmitChainAborted notifies all extensions that implement ChainAborted.
func (r *Registry) EmitChainAborted(ctx context.Context, info StageInfo) {
	for _, e := range r.chainAborted {
		if err := e.hook.OnChainAborted(ctx, info); err != nil {
			r.logHookError("OnChainAborted", e.name, err)
		}
	}
}

// EmitChainCompleted notifies all extensions that implement ChainCompleted.
func (r *Registry) EmitChainCompleted(ctx context.Context, info ChainInfo, args []any) {
	for _, e := range r.chainCompleted {
		if err := e.hook.OnChainCompleted(ctx, info, args); err != nil {
			r.logHookError("OnChainCompleted", e.name, err)
		}
	}
}

// EmitChainRemoved notifies all extensions that implement ChainRemoved.
func (r *Registry) EmitChainRemoved(info ChainInfo) {
	for _, e := range r.chainRemoved {
		if err := e.hook.OnChainRemoved(info); err != nil {
			r.logHookError("OnChainRemoved", e.name, err)
		}
	}
}

// EmitCompositeExpanded notifies all extensions that implement CompositeExpanded.
func (r *Registry) EmitCompositeExpanded(event string, primitives []string) {
	for _, e := range r.compositeExpanded {
		if err := e.hook.OnCompositeExpanded(event, primitives); err != nil {
			r.logHookError("OnCompositeExpanded", e.name, err)
		}
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
// Errors from hooks are never propagated — they must not block the chain.
func (r *Registry) logHookError(hook, extName string, err error) {
	r.logger.Warn("extension hook error",
		slog.String("hook", hook),
		slog.String("extension", extName),
		slog.String("error", err.Error()),
	)
}
