// Package render serializes a diagram.Graph into a textual notation.
package render

import (
	"sort"
	"strings"

	"go-umlgraph/internal/diagram"
	"go-umlgraph/internal/errors"
)

// Renderer produces the text of one notation.
type Renderer interface {
	// Name is the registry key, lower case.
	Name() string
	// Suffix replaces the artifact extension in the output file name.
	Suffix() string
	// Render formats g. It has no side effects.
	Render(g *diagram.Graph) string
}

// Registry maps notation names to renderers. Lookups are case-insensitive.
type Registry struct {
	renderers map[string]Renderer
}

// NewRegistry creates a registry holding rs.
func NewRegistry(rs ...Renderer) *Registry {
	r := &Registry{renderers: make(map[string]Renderer, len(rs))}
	for _, rr := range rs {
		r.renderers[strings.ToLower(rr.Name())] = rr
	}
	return r
}

// DefaultRegistry holds the supported notations: yuml and plantuml.
func DefaultRegistry() *Registry {
	return NewRegistry(NewYUML(), NewPlantUML())
}

// Resolve finds the renderer for name.
func (r *Registry) Resolve(name string) (Renderer, bool) {
	rr, ok := r.renderers[strings.ToLower(strings.TrimSpace(name))]
	return rr, ok
}

// Names returns the registered notation names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup is Resolve with an ErrUnknownNotation error for missing names.
func (r *Registry) Lookup(name string) (Renderer, error) {
	rr, ok := r.Resolve(name)
	if !ok {
		return nil, errors.WithHintf(
			errors.Wrapf(errors.ErrUnknownNotation, "notation %q", name),
			"supported notations: %s", strings.Join(r.Names(), ", "))
	}
	return rr, nil
}

// Render formats g with the named notation and returns the text together
// with the notation's file suffix.
func (r *Registry) Render(name string, g *diagram.Graph) (text, suffix string, err error) {
	rr, err := r.Lookup(name)
	if err != nil {
		return "", "", err
	}
	return rr.Render(g), rr.Suffix(), nil
}

// unknownKind panics: the kind set is closed, so reaching it is a bug.
func unknownKind(k diagram.Kind) string {
	panic(errors.AssertionFailedf("unexpected relationship kind %s", k))
}

// unknownElement panics for an Element outside the closed set.
func unknownElement(e diagram.Element) string {
	panic(errors.AssertionFailedf("unexpected graph element %T", e))
}
