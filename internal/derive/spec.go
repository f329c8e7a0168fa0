package derive

// All is the sentinel select value meaning "no restriction".
const All = "all"

// Kind distinguishes the two descriptor flavors.
type Kind string

const (
	// KindSearch is a free-text substring filter.
	KindSearch Kind = "search"

	// KindSelect is an exact-equality filter over a closed option set.
	KindSelect Kind = "select"
)

// Field describes one filter control in a listing's filter surface.
type Field struct {
	Kind    Kind
	Key     string
	Label   string
	Options []string

	// Default overrides the per-kind neutral default ("" for search, All
	// for select). Used by surfaces whose sort is never neutral, e.g. the
	// feedback listing always sorts by recency.
	Default string
}

// Spec is the ordered filter surface of one listing.
type Spec struct {
	Fields []Field
}

// Values maps descriptor keys to currently chosen values.
type Values map[string]string

// Defaults returns a fresh Values with every key at its documented default.
func (s Spec) Defaults() Values {
	v := make(Values, len(s.Fields))
	for _, f := range s.Fields {
		switch {
		case f.Default != "":
			v[f.Key] = f.Default
		case f.Kind == KindSearch:
			v[f.Key] = ""
		default:
			v[f.Key] = All
		}
	}
	return v
}

// Clear resets the whole surface in one atomic rebuild. Callers replace
// their values map with the result; there is no per-key reset sequence that
// could expose an inconsistent intermediate state.
func (s Spec) Clear() Values {
	return s.Defaults()
}

// With returns a copy of v with one key changed. The receiver is not
// modified.
func (v Values) With(key, value string) Values {
	next := make(Values, len(v)+1)
	for k, val := range v {
		next[k] = val
	}
	next[key] = value
	return next
}
