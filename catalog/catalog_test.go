package catalog_test

import (
	"errors"
	"testing"

	"github.com/r-bar/hookchain"
	"github.com/r-bar/hookchain/catalog"
	"github.com/r-bar/hookchain/hook"
)

func TestBuild(t *testing.T) {
	cat, err := catalog.Build(
		hook.Class{
			TargetKind: hook.KindRecord,
			Hooks: []hook.Signature{
				{Name: "created", Params: []string{"a", "b"}},
				{Name: "dropped", Params: nil},
			},
		},
		hook.Class{
			TargetKind: hook.KindUnit,
			Hooks: []hook.Signature{
				{Name: "flushed", Params: []string{"unit"}},
			},
		},
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := cat.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}

	desc, err := cat.Lookup("created")
	if err != nil {
		t.Fatalf("Lookup(created): %v", err)
	}
	if desc.TargetKind != hook.KindRecord {
		t.Errorf("TargetKind = %s, want %s", desc.TargetKind, hook.KindRecord)
	}
	if desc.ArgCount() != 2 {
		t.Errorf("ArgCount() = %d, want 2", desc.ArgCount())
	}
}

func TestBuild_DuplicateAcrossClasses(t *testing.T) {
	_, err := catalog.Build(
		hook.Class{TargetKind: hook.KindRecord, Hooks: []hook.Signature{{Name: "created"}}},
		hook.Class{TargetKind: hook.KindUnit, Hooks: []hook.Signature{{Name: "created"}}},
	)
	if !errors.Is(err, hookchain.ErrDuplicateEvent) {
		t.Errorf("err = %v, want ErrDuplicateEvent", err)
	}
}

func TestLookup_Unknown(t *testing.T) {
	cat, err := catalog.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	_, err = cat.Lookup("nope")
	if !errors.Is(err, hookchain.ErrUnknownEvent) {
		t.Errorf("err = %v, want ErrUnknownEvent", err)
	}
	if cat.Has("nope") {
		t.Errorf("Has(nope) = true, want false")
	}
}

func TestMerge(t *testing.T) {
	cat, err := catalog.Build(hook.Class{
		TargetKind: hook.KindRecord,
		Hooks:      []hook.Signature{{Name: "created", Params: []string{"a"}}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	err = cat.Merge(catalog.Synthetic{
		Name:       "changed",
		Descriptor: catalog.Descriptor{TargetKind: hook.KindRecord, ParamNames: []string{"a"}},
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !cat.Has("changed") {
		t.Errorf("synthetic entry missing after Merge")
	}

	// A colliding synthetic is rejected unless marked Override.
	err = cat.Merge(catalog.Synthetic{Name: "created"})
	if !errors.Is(err, hookchain.ErrDuplicateEvent) {
		t.Errorf("collision err = %v, want ErrDuplicateEvent", err)
	}

	err = cat.Merge(catalog.Synthetic{
		Name:       "created",
		Descriptor: catalog.Descriptor{TargetKind: hook.KindUnit},
		Override:   true,
	})
	if err != nil {
		t.Fatalf("Merge with Override: %v", err)
	}
	desc, err := cat.Lookup("created")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if desc.TargetKind != hook.KindUnit {
		t.Errorf("Override did not replace the entry")
	}
}

func TestDescriptor_Kwargs(t *testing.T) {
	d := catalog.Descriptor{ParamNames: []string{"a", "b", "c"}}

	tests := []struct {
		name string
		args []any
		want map[string]any
	}{
		{"exact", []any{1, 2, 3}, map[string]any{"a": 1, "b": 2, "c": 3}},
		{"short args", []any{1}, map[string]any{"a": 1}},
		{"extra args ignored", []any{1, 2, 3, 4}, map[string]any{"a": 1, "b": 2, "c": 3}},
		{"no args", nil, map[string]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Kwargs(tt.args)
			if len(got) != len(tt.want) {
				t.Fatalf("Kwargs(%v) = %v, want %v", tt.args, got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("Kwargs[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cat := catalog.Default()

	// Every primitive an expansion targets must itself resolve.
	exp := catalog.DefaultExpander()
	for _, composite := range exp.Composites() {
		if !cat.Has(composite) {
			t.Errorf("composite %q missing from default catalog", composite)
		}
		for _, primitive := range exp.Expand(composite) {
			if !cat.Has(primitive) {
				t.Errorf("primitive %q of %q missing from default catalog", primitive, composite)
			}
		}
	}

	desc, err := cat.Lookup("after_insert")
	if err != nil {
		t.Fatalf("Lookup(after_insert): %v", err)
	}
	want := []string{"mapper", "connection", "target"}
	if len(desc.ParamNames) != len(want) {
		t.Fatalf("after_insert params = %v, want %v", desc.ParamNames, want)
	}
	for i := range want {
		if desc.ParamNames[i] != want[i] {
			t.Errorf("after_insert params[%d] = %q, want %q", i, desc.ParamNames[i], want[i])
		}
	}

	unit, err := cat.Lookup("before_flush")
	if err != nil {
		t.Fatalf("Lookup(before_flush): %v", err)
	}
	if unit.TargetKind != hook.KindUnit {
		t.Errorf("before_flush kind = %s, want %s", unit.TargetKind, hook.KindUnit)
	}
}
