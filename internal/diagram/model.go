// Package diagram turns type descriptors into an ordered graph of diagram
// entities and typed relationships.
package diagram

import "fmt"

// Kind classifies a relationship. The set is closed.
type Kind int

const (
	Association Kind = iota
	Extends
	Implements
)

// Kinds lists every relationship kind.
var Kinds = []Kind{Association, Extends, Implements}

func (k Kind) String() string {
	switch k {
	case Association:
		return "ASSOCIATION"
	case Extends:
		return "EXTENDS"
	case Implements:
		return "IMPLEMENTS"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Element is one item of a Graph: an *Entity or a Relationship.
type Element interface {
	element()
}

// Entity is the diagram node for one analyzed type.
type Entity struct {
	Name      string
	Interface bool
	Fields    []string
	Members   []string
}

func (*Entity) element() {}

// Relationship is a directed edge between two display names.
type Relationship struct {
	From string
	To   string
	Kind Kind
}

func (Relationship) element() {}

// Graph is the analyzer output: entities and relationships in emission order.
type Graph struct {
	Elements []Element
}

// Entities returns the entities in emission order.
func (g *Graph) Entities() []*Entity {
	var out []*Entity
	for _, e := range g.Elements {
		if ent, ok := e.(*Entity); ok {
			out = append(out, ent)
		}
	}
	return out
}

// Relationships returns the relationships in emission order.
func (g *Graph) Relationships() []Relationship {
	var out []Relationship
	for _, e := range g.Elements {
		if rel, ok := e.(Relationship); ok {
			out = append(out, rel)
		}
	}
	return out
}
