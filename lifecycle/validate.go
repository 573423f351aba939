package lifecycle

import (
	"fmt"

	"github.com/r-bar/hookchain/engine"
	"github.com/r-bar/hookchain/hook"
)

// Phase selects which pending mutations a validator covers.
type Phase string

const (
	PhaseInsert Phase = "insert"
	PhaseUpdate Phase = "update"
	PhaseDelete Phase = "delete"
	PhaseSave   Phase = "save"
	PhaseTouch  Phase = "touch"
)

// ValidateOption configures Validate.
type ValidateOption func(*validateOptions)

type validateOptions struct {
	phase Phase
}

// WithPhase selects the mutation phase the validator runs for. The
// default is PhaseSave (inserts and updates).
func WithPhase(p Phase) ValidateOption {
	return func(o *validateOptions) { o.phase = p }
}

// Validate registers fn as a validator for records flushed through the
// given unit of work. The validator runs during before_flush for every
// pending mutation the phase covers; a returned error propagates to the
// dispatch system's firing context and can abort the flush.
//
// Registration is an explicit call made during application setup — there
// is no implicit binding at type-definition time. The returned handler is
// the subscription identity for later removal.
func Validate(e *engine.Engine, unit hook.Target, fn RecordFunc, opts ...ValidateOption) (*hook.Handler, error) {
	o := validateOptions{phase: PhaseSave}
	for _, opt := range opts {
		opt(&o)
	}

	switch o.phase {
	case PhaseInsert:
		return BeforeInsert(e, unit, fn)
	case PhaseUpdate:
		return BeforeUpdate(e, unit, fn)
	case PhaseDelete:
		return BeforeDelete(e, unit, fn)
	case PhaseSave:
		return BeforeSave(e, unit, fn)
	case PhaseTouch:
		return BeforeTouch(e, unit, fn)
	default:
		return nil, fmt.Errorf("lifecycle: unknown validation phase %q", o.phase)
	}
}
