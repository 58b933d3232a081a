package diagram

import "strings"

// IgnoreFilter excludes types by fully qualified name prefix.
type IgnoreFilter struct {
	prefixes []string
	builtins bool
}

// NewIgnoreFilter creates a filter for the given prefixes. Empty prefixes
// are dropped; they would match every name.
func NewIgnoreFilter(prefixes ...string) *IgnoreFilter {
	f := &IgnoreFilter{}
	for _, p := range prefixes {
		if p != "" {
			f.prefixes = append(f.prefixes, p)
		}
	}
	return f
}

// WithBuiltins makes the filter also ignore names with no package
// qualifier, such as int, string or error.
func (f *IgnoreFilter) WithBuiltins() *IgnoreFilter {
	f.builtins = true
	return f
}

// ShouldIgnore reports whether the type with this fully qualified name is
// excluded from the diagram. Matching is case-sensitive.
func (f *IgnoreFilter) ShouldIgnore(qualifiedName string) bool {
	if f == nil {
		return false
	}
	if f.builtins && !strings.ContainsAny(qualifiedName, "./") {
		return true
	}
	for _, p := range f.prefixes {
		if strings.HasPrefix(qualifiedName, p) {
			return true
		}
	}
	return false
}
