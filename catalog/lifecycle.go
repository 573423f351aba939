package catalog

import "github.com/r-bar/hookchain/hook"

// RecordEvents is the hook class for per-record mutation hooks. Each hook
// fires with the record's mapper, the active connection, and the record
// instance itself, in that order.
var RecordEvents = hook.Class{
	TargetKind: hook.KindRecord,
	Hooks: []hook.Signature{
		{Name: "before_insert", Params: []string{"mapper", "connection", "target"}},
		{Name: "after_insert", Params: []string{"mapper", "connection", "target"}},
		{Name: "before_update", Params: []string{"mapper", "connection", "target"}},
		{Name: "after_update", Params: []string{"mapper", "connection", "target"}},
		{Name: "before_delete", Params: []string{"mapper", "connection", "target"}},
		{Name: "after_delete", Params: []string{"mapper", "connection", "target"}},
		{Name: "load", Params: []string{"target", "context"}},
		{Name: "refresh", Params: []string{"target", "context", "attrs"}},
	},
}

// UnitEvents is the hook class for unit-of-work hooks.
var UnitEvents = hook.Class{
	TargetKind: hook.KindUnit,
	Hooks: []hook.Signature{
		{Name: "before_flush", Params: []string{"unit", "plan", "instances"}},
		{Name: "after_flush", Params: []string{"unit", "plan"}},
		{Name: "after_flush_postexec", Params: []string{"unit", "plan"}},
		{Name: "before_commit", Params: []string{"unit"}},
		{Name: "after_commit", Params: []string{"unit"}},
		{Name: "after_rollback", Params: []string{"unit"}},
	},
}

// StoreEvents is the hook class for connection-level hooks.
var StoreEvents = hook.Class{
	TargetKind: hook.KindStore,
	Hooks: []hook.Signature{
		{Name: "connect", Params: []string{"connection", "record"}},
		{Name: "checkout", Params: []string{"connection", "record", "proxy"}},
		{Name: "checkin", Params: []string{"connection", "record"}},
		{Name: "close", Params: []string{"connection", "record"}},
	},
}

// syntheticRecordEvents are the composite entries merged into the default
// catalog. A composite firing borrows the shape of its primitive record
// siblings (mapper, connection, target).
func syntheticRecordEvents() []Synthetic {
	shape := Descriptor{
		TargetKind: hook.KindRecord,
		ParamNames: []string{"mapper", "connection", "target"},
	}
	return []Synthetic{
		{Name: "after_save", Descriptor: shape},
		{Name: "before_save", Descriptor: shape},
		{Name: "after_touch", Descriptor: shape},
		{Name: "before_touch", Descriptor: shape},
	}
}

// Default builds the standard object-lifecycle catalog: record, unit, and
// store hook classes plus the synthetic save/touch composites. It panics
// on construction failure, which for the static tables above is a
// programming error.
func Default() *Catalog {
	c, err := Build(RecordEvents, UnitEvents, StoreEvents)
	if err != nil {
		panic(err)
	}
	if err := c.Merge(syntheticRecordEvents()...); err != nil {
		panic(err)
	}
	return c
}
