package catalog

import "slices"

// Expander maps composite event names to the ordered list of primitive
// hook names they represent. Expansion is static and process-wide.
type Expander struct {
	expansions map[string][]string
}

// NewExpander creates an empty Expander.
func NewExpander() *Expander {
	return &Expander{expansions: make(map[string][]string)}
}

// Register associates a composite name with its primitive members.
func (e *Expander) Register(composite string, primitives ...string) {
	e.expansions[composite] = slices.Clone(primitives)
}

// Expand returns the primitive members of a composite event, or the name
// itself as a single-element slice when it is not a registered composite.
func (e *Expander) Expand(name string) []string {
	if primitives, ok := e.expansions[name]; ok {
		return slices.Clone(primitives)
	}
	return []string{name}
}

// IsComposite reports whether the name is a registered composite.
func (e *Expander) IsComposite(name string) bool {
	_, ok := e.expansions[name]
	return ok
}

// Composites returns the registered composite names in no particular order.
func (e *Expander) Composites() []string {
	names := make([]string, 0, len(e.expansions))
	for name := range e.expansions {
		names = append(names, name)
	}
	return names
}

// DefaultExpander returns the standard composite table for the
// object-lifecycle catalog. "save" covers insert and update; "touch"
// covers insert, update, and delete. The before_ and after_ variants
// expand independently.
func DefaultExpander() *Expander {
	e := NewExpander()
	e.Register("after_save", "after_insert", "after_update")
	e.Register("before_save", "before_insert", "before_update")
	e.Register("after_touch", "after_insert", "after_update", "after_delete")
	e.Register("before_touch", "before_insert", "before_update", "before_delete")
	return e
}
