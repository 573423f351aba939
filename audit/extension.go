// Package audit is a hookchain extension that bridges chain lifecycle
// events to an audit trail backend.
//
// Every chain registration, stage binding, abandoned attempt, completion,
// and removal emits a structured record through the [Recorder] interface.
// Completed attempts carry a snapshot of the accumulated arguments,
// encoded by a pluggable [Codec] (JSON by default, MessagePack optional).
//
// # Selective filtering
//
//	audit.New(recorder,
//	    audit.WithActions(
//	        audit.ActionChainCompleted,
//	        audit.ActionChainAborted,
//	    ),
//	)
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/r-bar/hookchain/ext"
)

// Compile-time interface checks.
var (
	_ ext.Extension         = (*Extension)(nil)
	_ ext.ChainRegistered   = (*Extension)(nil)
	_ ext.StageBound        = (*Extension)(nil)
	_ ext.ChainAborted      = (*Extension)(nil)
	_ ext.ChainCompleted    = (*Extension)(nil)
	_ ext.ChainRemoved      = (*Extension)(nil)
	_ ext.CompositeExpanded = (*Extension)(nil)
)

// Record is one audit entry.
type Record struct {
	// What happened.
	Action  string `json:"action" msgpack:"action"`
	Chain   string `json:"chain,omitempty" msgpack:"chain,omitempty"`
	ChainID string `json:"chain_id,omitempty" msgpack:"chain_id,omitempty"`

	// Details.
	Metadata map[string]any `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
	Outcome  string         `json:"outcome" msgpack:"outcome"`
	Severity string         `json:"severity" msgpack:"severity"`

	// Args is the encoded accumulated-argument snapshot for completed
	// attempts. Its encoding is the extension codec's.
	Args []byte `json:"args,omitempty" msgpack:"args,omitempty"`

	RecordedAt time.Time `json:"recorded_at" msgpack:"recorded_at"`
}

// Recorder is the interface audit backends must implement. It is defined
// locally so this package does not depend on any particular trail;
// callers inject their backend at wiring time.
type Recorder interface {
	// Record persists a fully-formed audit record.
	Record(ctx context.Context, rec *Record) error
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, rec *Record) error

func (f RecorderFunc) Record(ctx context.Context, rec *Record) error {
	return f(ctx, rec)
}

// Extension bridges chain lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	codec    Codec
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// Option configures an Extension.
type Option func(*Extension)

// WithActions restricts the extension to emit only the listed actions.
// By default all actions are enabled. Unknown actions are silently
// ignored.
func WithActions(actions ...string) Option {
	return func(e *Extension) {
		e.enabled = make(map[string]bool, len(actions))
		for _, a := range actions {
			e.enabled[a] = true
		}
	}
}

// WithCodec sets the codec used for argument snapshots.
func WithCodec(c Codec) Option {
	return func(e *Extension) { e.codec = c }
}

// WithLogger sets a custom logger for the extension.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extension) { e.logger = l }
}

// New creates an Extension that emits audit records through the provided
// Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		codec:    &JSONCodec{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements ext.Extension.
func (e *Extension) Name() string { return "audit" }

// OnChainRegistered implements ext.ChainRegistered.
func (e *Extension) OnChainRegistered(info ext.ChainInfo) error {
	return e.record(context.Background(), ActionChainRegistered, SeverityInfo, OutcomeSuccess, info, nil,
		"stages", info.Stages,
	)
}

// OnStageBound implements ext.StageBound.
func (e *Extension) OnStageBound(ctx context.Context, info ext.StageInfo) error {
	return e.record(ctx, ActionStageBound, SeverityInfo, OutcomeSuccess, info.Chain, nil,
		"stage", info.Index,
		"event", info.Event,
		"subscription", info.Subscription.String(),
		"once", info.Once,
	)
}

// OnChainAborted implements ext.ChainAborted.
func (e *Extension) OnChainAborted(ctx context.Context, info ext.StageInfo) error {
	return e.record(ctx, ActionChainAborted, SeverityInfo, OutcomeAbandoned, info.Chain, nil,
		"stage", info.Index,
		"event", info.Event,
	)
}

// OnChainCompleted implements ext.ChainCompleted.
func (e *Extension) OnChainCompleted(ctx context.Context, info ext.ChainInfo, args []any) error {
	var snapshot []byte
	if data, err := e.codec.EncodeArgs(args); err != nil {
		e.logger.Warn("audit: failed to encode argument snapshot",
			"chain", info.Name,
			"codec", e.codec.Name(),
			"error", err,
		)
	} else {
		snapshot = data
	}
	return e.record(ctx, ActionChainCompleted, SeverityInfo, OutcomeSuccess, info, snapshot,
		"args", len(args),
	)
}

// OnChainRemoved implements ext.ChainRemoved.
func (e *Extension) OnChainRemoved(info ext.ChainInfo) error {
	return e.record(context.Background(), ActionChainRemoved, SeverityInfo, OutcomeSuccess, info, nil)
}

// OnCompositeExpanded implements ext.CompositeExpanded.
func (e *Extension) OnCompositeExpanded(event string, primitives []string) error {
	rec := &Record{
		Action:   ActionCompositeExpanded,
		Outcome:  OutcomeSuccess,
		Severity: SeverityInfo,
		Metadata: map[string]any{
			"event":      event,
			"primitives": primitives,
		},
		RecordedAt: time.Now().UTC(),
	}
	return e.send(context.Background(), rec)
}

// record builds and sends an audit record if the action is enabled.
// kvPairs is a list of key-value pairs added to Metadata.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	info ext.ChainInfo,
	args []byte,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	rec := &Record{
		Action:     action,
		Chain:      info.Name,
		ChainID:    info.ID.String(),
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Args:       args,
		RecordedAt: time.Now().UTC(),
	}
	return e.send(ctx, rec)
}

// send persists a record, logging instead of failing on backend errors —
// audit problems must not block the chain.
func (e *Extension) send(ctx context.Context, rec *Record) error {
	if e.enabled != nil && !e.enabled[rec.Action] {
		return nil
	}
	if err := e.recorder.Record(ctx, rec); err != nil {
		e.logger.Warn("audit: failed to record event",
			"action", rec.Action,
			"chain", rec.Chain,
			"error", err,
		)
	}
	return nil
}
