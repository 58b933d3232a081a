package diagram

import (
	"strings"

	"go-umlgraph/internal/descriptor"
)

// Options controls what the Analyzer emits.
type Options struct {
	IgnorePrefixes      []string
	IgnoreBuiltins      bool
	ShowFields          bool
	ShowMethods         bool
	FullyQualifiedNames bool
}

// Analyzer builds a Graph from type descriptors.
//
// Each type yields its entity followed directly by the relationships found
// while scanning it, in the order fields, methods, supertype, interfaces.
// Repeated references are not merged: every field, type argument and
// parameter that names a type produces its own edge.
type Analyzer struct {
	opts   Options
	filter *IgnoreFilter
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(opts Options) *Analyzer {
	filter := NewIgnoreFilter(opts.IgnorePrefixes...)
	if opts.IgnoreBuiltins {
		filter.WithBuiltins()
	}
	return &Analyzer{opts: opts, filter: filter}
}

// Analyze builds the graph for descs in the order given.
func (a *Analyzer) Analyze(descs []descriptor.TypeDescriptor) *Graph {
	g := &Graph{}
	for _, d := range descs {
		if a.filter.ShouldIgnore(d.QualifiedName) {
			continue
		}
		a.analyzeType(g, d)
	}
	return g
}

// Analyze is a convenience wrapper around NewAnalyzer(opts).Analyze(descs).
func Analyze(descs []descriptor.TypeDescriptor, opts Options) *Graph {
	return NewAnalyzer(opts).Analyze(descs)
}

func (a *Analyzer) analyzeType(g *Graph, d descriptor.TypeDescriptor) {
	name := d.DisplayName(a.opts.FullyQualifiedNames)
	entity := &Entity{Name: name, Interface: d.Interface}
	g.Elements = append(g.Elements, entity)

	if a.opts.ShowFields {
		for _, f := range d.Fields {
			entity.Fields = append(entity.Fields, "+"+f.Name+":"+f.Type.Name)
			a.associate(g, name, f.Type.Target())
			for _, arg := range f.Type.Args {
				a.associate(g, name, arg)
			}
		}
	}

	if a.opts.ShowMethods {
		for _, m := range d.Methods {
			entity.Members = append(entity.Members, methodSummary(m))
			for _, p := range m.Params {
				a.associate(g, name, p.Target())
			}
		}
		for _, c := range d.Constructors {
			entity.Members = append(entity.Members, "+"+d.Name+"("+paramList(c.Params)+")")
		}
	}

	if s := d.Supertype; s != nil && s.Concrete() && !descriptor.IsRoot(s.QualifiedName) {
		a.relate(g, name, *s, Extends)
	}

	for _, iface := range d.Interfaces {
		if iface.Concrete() {
			a.relate(g, name, iface, Implements)
		}
	}
}

// associate emits an ASSOCIATION to target if it names a concrete type.
func (a *Analyzer) associate(g *Graph, from string, target descriptor.TypeRef) {
	if target.Concrete() {
		a.relate(g, from, target, Association)
	}
}

func (a *Analyzer) relate(g *Graph, from string, to descriptor.TypeRef, kind Kind) {
	if a.filter.ShouldIgnore(to.QualifiedName) {
		return
	}
	g.Elements = append(g.Elements, Relationship{
		From: from,
		To:   to.DisplayName(a.opts.FullyQualifiedNames),
		Kind: kind,
	})
}

func methodSummary(m descriptor.Method) string {
	s := "+" + m.Name + "(" + paramList(m.Params) + ")"
	if m.Returns.Name != "" {
		s += ":" + m.Returns.Name
	}
	return s
}

func paramList(params []descriptor.TypeRef) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}
