// Package hookchain provides an event-chain composition engine for Go.
// Given an external object-lifecycle dispatch system that fires a fixed
// catalog of named hooks, hookchain lets a caller register a logical
// listener that observes a sequence of hooks — possibly on different,
// dynamically resolved targets — before its function runs, accumulating
// arguments from every stage along the way.
//
// Hookchain is a library, not a service, and a pure in-process layer: it
// never implements the dispatch system, persistence, or the lifecycle
// semantics of any particular object store. It consumes only a primitive
// Listen/Unlisten registration API plus static hook-class tables.
//
// # Quick Start
//
//	e, err := engine.New(
//	    engine.WithDispatcher(d),
//	    engine.WithLogger(logger),
//	)
//	c, err := e.On(Order{}, "after_insert").
//	    Chain(chain.Resolver(ownerUnit), "after_flush_postexec").
//	    Apply(handler)
//
// # Architecture
//
// The root package holds shared errors and configuration. The catalog
// package describes every known hook (target kind plus ordered parameter
// names) and expands synthetic composite events such as "after_save" into
// their primitive members. The bind package is the registration runtime,
// the chain package compiles stage lists into nested registration
// closures, and the engine package wires everything together.
//
// All entity IDs use TypeID — type-prefixed, K-sortable, UUIDv7-based,
// compile-time safe identifiers.
package hookchain
