package hookchain

import "errors"

var (
	// Catalog errors.
	ErrUnknownEvent   = errors.New("hookchain: unknown event")
	ErrDuplicateEvent = errors.New("hookchain: duplicate event name")

	// Registration errors.
	ErrNoDispatcher = errors.New("hookchain: no dispatcher configured")
	ErrNilHandler   = errors.New("hookchain: nil handler")
	ErrKindMismatch = errors.New("hookchain: target kind mismatch")

	// Chain errors.
	ErrNilCallback  = errors.New("hookchain: nil callback")
	ErrChainApplied = errors.New("hookchain: chain already applied")
	ErrChainRemoved = errors.New("hookchain: chain removed")
)
