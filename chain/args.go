package chain

// Mode selects how a chain delivers accumulated arguments to conditions
// and the final callback.
type Mode int

const (
	// Positional delivers argument values only, in catalog-declared
	// stage order.
	Positional Mode = iota

	// Keyword additionally zips the concatenation of every stage's
	// declared parameter names against the accumulated values.
	Keyword
)

// Args is the accumulated argument bundle for a chain attempt. Values are
// concatenated left to right across stages, each stage's arguments in the
// positional order its catalog descriptor declares.
type Args struct {
	// Values is the accumulated argument list.
	Values []any

	// Names is the concatenation of the chain's per-stage parameter
	// names. Populated only for Keyword-mode chains; nil otherwise.
	Names []string
}

// Len returns the number of accumulated values.
func (a *Args) Len() int { return len(a.Values) }

// Kwargs zips Names against Values, stopping at the shorter sequence.
// It returns nil for Positional-mode bundles.
func (a *Args) Kwargs() map[string]any {
	if a.Names == nil {
		return nil
	}
	n := len(a.Names)
	if len(a.Values) < n {
		n = len(a.Values)
	}
	out := make(map[string]any, n)
	for i := 0; i < n; i++ {
		out[a.Names[i]] = a.Values[i]
	}
	return out
}
