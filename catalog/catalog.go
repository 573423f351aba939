// Package catalog describes every hook the external dispatch system can
// fire: for each hook name, the kind of target it applies to and the
// ordered parameter names it is invoked with. The catalog is built once at
// startup from static hook-class tables and is read-only thereafter.
//
// The catalog also carries synthetic composite entries ("after_save",
// "before_touch", ...) whose expansion into primitive members is handled
// by the Expander.
package catalog

import (
	"fmt"
	"sort"

	"github.com/r-bar/hookchain"
	"github.com/r-bar/hookchain/hook"
)

// Descriptor describes one hook: the kind of target it fires against and
// the ordered parameter names supplied at call time. The order matches the
// exact positional order of the dispatch system's firing and is never
// reordered.
type Descriptor struct {
	TargetKind hook.Kind
	ParamNames []string
}

// ArgCount returns the number of declared parameters.
func (d Descriptor) ArgCount() int { return len(d.ParamNames) }

// Kwargs zips the descriptor's parameter names against the given values.
// Zipping stops at the shorter of the two sequences.
func (d Descriptor) Kwargs(args []any) map[string]any {
	n := len(d.ParamNames)
	if len(args) < n {
		n = len(args)
	}
	out := make(map[string]any, n)
	for i := 0; i < n; i++ {
		out[d.ParamNames[i]] = args[i]
	}
	return out
}

// Synthetic declares a composite catalog entry by hand. A synthetic
// event's firing borrows the shape of one of its primitive members, so
// the descriptor names a representative target kind and parameter list.
type Synthetic struct {
	Name       string
	Descriptor Descriptor

	// Override permits the entry to shadow an existing primitive of the
	// same name. Without it a collision is rejected — silent last-write
	// shadowing is not a policy this catalog supports.
	Override bool
}

// Catalog maps hook names to descriptors. Build it once at process start;
// lookups afterward are read-only and require no locking.
type Catalog struct {
	entries map[string]Descriptor
}

// Build constructs a catalog from static hook-class tables. Duplicate hook
// names across classes fail with ErrDuplicateEvent; construction is
// deterministic and order-independent.
func Build(classes ...hook.Class) (*Catalog, error) {
	c := &Catalog{entries: make(map[string]Descriptor)}
	for _, class := range classes {
		for _, sig := range class.Hooks {
			if _, ok := c.entries[sig.Name]; ok {
				return nil, fmt.Errorf("%w: %q", hookchain.ErrDuplicateEvent, sig.Name)
			}
			c.entries[sig.Name] = Descriptor{
				TargetKind: class.TargetKind,
				ParamNames: sig.Params,
			}
		}
	}
	return c, nil
}

// Merge adds synthetic entries to the catalog. A synthetic name colliding
// with an existing entry fails with ErrDuplicateEvent unless the entry is
// explicitly marked Override.
func (c *Catalog) Merge(entries ...Synthetic) error {
	for _, e := range entries {
		if _, ok := c.entries[e.Name]; ok && !e.Override {
			return fmt.Errorf("%w: synthetic %q collides with existing entry", hookchain.ErrDuplicateEvent, e.Name)
		}
		c.entries[e.Name] = e.Descriptor
	}
	return nil
}

// Lookup returns the descriptor for the named hook, or ErrUnknownEvent if
// the name is absent from both the primitive and synthetic tables.
func (c *Catalog) Lookup(name string) (Descriptor, error) {
	d, ok := c.entries[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", hookchain.ErrUnknownEvent, name)
	}
	return d, nil
}

// Has reports whether the named hook is in the catalog.
func (c *Catalog) Has(name string) bool {
	_, ok := c.entries[name]
	return ok
}

// Names returns every catalog entry name in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int { return len(c.entries) }
