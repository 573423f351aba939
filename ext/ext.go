// Package ext defines the extension system for hookchain.
// Extensions are notified of chain lifecycle events (chain registered,
// stage bound, attempt aborted, chain completed, etc.) and can react to
// them — logging, auditing, metrics.
//
// Each lifecycle hook is a separate interface so extensions opt in only
// to the events they care about.
package ext

import (
	"context"

	"github.com/r-bar/hookchain/hook"
	"github.com/r-bar/hookchain/id"
)

// Extension is the base interface all extensions must implement.
type Extension interface {
	// Name returns a unique human-readable name for the extension.
	Name() string
}

// ChainInfo identifies a chain in extension notifications.
type ChainInfo struct {
	ID     id.ChainID
	Name   string
	Stages int
}

// StageInfo identifies one stage registration or firing of a chain.
type StageInfo struct {
	Chain ChainInfo
	Index int
	Event string

	// Subscription identifies the installed listener, so callers can
	// correlate stage firings with the registration that produced them.
	// It is Nil for notifications that carry no live subscription, such
	// as aborted attempts.
	Subscription id.SubscriptionID

	// Target is the resolved registration target for the stage.
	Target hook.Target

	// Once reports whether the registration self-unregisters after one
	// firing.
	Once bool
}

// ──────────────────────────────────────────────────
// Chain lifecycle hooks
// ──────────────────────────────────────────────────

// ChainRegistered is called after a chain's stage-0 registration is
// installed by Apply.
type ChainRegistered interface {
	OnChainRegistered(info ChainInfo) error
}

// StageBound is called every time a chain installs a subscription for a
// stage, including dynamically spawned tails from repeated stage-0
// firings.
type StageBound interface {
	OnStageBound(ctx context.Context, info StageInfo) error
}

// ChainAborted is called when a stage condition evaluates false and the
// chain attempt is abandoned.
type ChainAborted interface {
	OnChainAborted(ctx context.Context, info StageInfo) error
}

// ChainCompleted is called after a chain attempt reaches its terminal
// stage and the user callback returns. args is the full accumulated
// argument list the callback saw.
type ChainCompleted interface {
	OnChainCompleted(ctx context.Context, info ChainInfo, args []any) error
}

// ChainRemoved is called after Remove tears down a chain's live
// subscriptions.
type ChainRemoved interface {
	OnChainRemoved(info ChainInfo) error
}

// CompositeExpanded is called when the registration runtime expands a
// composite event into its primitive members.
type CompositeExpanded interface {
	OnCompositeExpanded(event string, primitives []string) error
}
