// Package descriptor defines the structural description of compiled types
// that the diagram analyzer consumes, and the providers that produce it.
package descriptor

import "strings"

// TypeRef is a reference to a type as written in a declaration.
type TypeRef struct {
	// Name is the simple spelling, e.g. "Order", "[]*Order", "map[string]Item".
	Name string `yaml:"name" toml:"name" json:"name"`
	// QualifiedName is empty for unnamed composites and type parameters.
	QualifiedName string `yaml:"qualifiedName" toml:"qualifiedName" json:"qualifiedName"`
	// Component is the element type of an array, slice, pointer or channel.
	Component *TypeRef `yaml:"component,omitempty" toml:"component,omitempty" json:"component,omitempty"`
	// Args are type arguments of a parameterized type.
	Args []TypeRef `yaml:"args,omitempty" toml:"args,omitempty" json:"args,omitempty"`
}

// Concrete reports whether the reference names an actual type that can be
// a relationship endpoint.
func (r TypeRef) Concrete() bool {
	return r.QualifiedName != ""
}

// Target returns the type an association to r points at: the component of
// an array or collection, unwrapped one level, otherwise r itself.
func (r TypeRef) Target() TypeRef {
	if r.Component != nil {
		return *r.Component
	}
	return r
}

// DisplayName returns the qualified or simple name of r.
func (r TypeRef) DisplayName(fullyQualified bool) string {
	if fullyQualified && r.QualifiedName != "" {
		return r.QualifiedName
	}
	return r.Name
}

// Field is a declared field.
type Field struct {
	Name string  `yaml:"name" toml:"name" json:"name"`
	Type TypeRef `yaml:"type" toml:"type" json:"type"`
}

// Method is a declared method. A Returns with an empty Name means the
// method has no result.
type Method struct {
	Name    string    `yaml:"name" toml:"name" json:"name"`
	Params  []TypeRef `yaml:"params,omitempty" toml:"params,omitempty" json:"params,omitempty"`
	Returns TypeRef   `yaml:"returns" toml:"returns" json:"returns"`
}

// Constructor is a declared constructor.
type Constructor struct {
	Params []TypeRef `yaml:"params,omitempty" toml:"params,omitempty" json:"params,omitempty"`
}

// TypeDescriptor summarizes one class or interface.
type TypeDescriptor struct {
	Name          string        `yaml:"name" toml:"name" json:"name"`
	QualifiedName string        `yaml:"qualifiedName" toml:"qualifiedName" json:"qualifiedName"`
	Interface     bool          `yaml:"interface" toml:"interface" json:"interface"`
	Fields        []Field       `yaml:"fields,omitempty" toml:"fields,omitempty" json:"fields,omitempty"`
	Methods       []Method      `yaml:"methods,omitempty" toml:"methods,omitempty" json:"methods,omitempty"`
	Constructors  []Constructor `yaml:"constructors,omitempty" toml:"constructors,omitempty" json:"constructors,omitempty"`
	Supertype     *TypeRef      `yaml:"supertype,omitempty" toml:"supertype,omitempty" json:"supertype,omitempty"`
	Interfaces    []TypeRef     `yaml:"interfaces,omitempty" toml:"interfaces,omitempty" json:"interfaces,omitempty"`
}

// DisplayName returns the qualified or simple name of d.
func (d TypeDescriptor) DisplayName(fullyQualified bool) string {
	if fullyQualified {
		return d.QualifiedName
	}
	return d.Name
}

// rootTypes are the universal root types: every type has one implicitly,
// so an edge to them says nothing.
var rootTypes = map[string]bool{
	"any":              true,
	"interface{}":      true,
	"interface {}":     true,
	"java.lang.Object": true,
}

// IsRoot reports whether qualifiedName is a universal root type.
func IsRoot(qualifiedName string) bool {
	return rootTypes[qualifiedName]
}

// SimpleName returns the last dot-separated segment of a qualified name,
// ignoring dots inside an import path ("example.com/shop.Order" -> "Order").
func SimpleName(qualifiedName string) string {
	rest := qualifiedName
	if i := strings.LastIndex(rest, "/"); i >= 0 {
		rest = rest[i+1:]
	}
	if i := strings.LastIndex(rest, "."); i >= 0 {
		return rest[i+1:]
	}
	return rest
}
