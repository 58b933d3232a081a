package render

import (
	"strings"

	"go-umlgraph/internal/diagram"
)

// YUML renders the compact yUML notation: one line, elements joined by ", ".
type YUML struct{}

// NewYUML creates a yUML renderer.
func NewYUML() *YUML {
	return &YUML{}
}

func (*YUML) Name() string   { return "yuml" }
func (*YUML) Suffix() string { return "-yuml.txt" }

func (y *YUML) Render(g *diagram.Graph) string {
	parts := make([]string, 0, len(g.Elements))
	for _, e := range g.Elements {
		switch v := e.(type) {
		case *diagram.Entity:
			parts = append(parts, yumlEntity(v))
		case diagram.Relationship:
			parts = append(parts, "["+v.From+"]"+yumlArrow(v.Kind)+"["+v.To+"]")
		default:
			parts = append(parts, unknownElement(e))
		}
	}
	return strings.Join(parts, ", ")
}

func yumlEntity(e *diagram.Entity) string {
	var sb strings.Builder
	sb.WriteString("[")
	if e.Interface {
		sb.WriteString("<<interface>>;")
	}
	sb.WriteString(e.Name)
	if len(e.Fields) > 0 {
		sb.WriteString("|")
		sb.WriteString(strings.Join(e.Fields, ";"))
	}
	if len(e.Members) > 0 {
		sb.WriteString("|")
		sb.WriteString(strings.Join(e.Members, ";"))
	}
	sb.WriteString("]")
	return sb.String()
}

func yumlArrow(k diagram.Kind) string {
	switch k {
	case diagram.Association:
		return "->"
	case diagram.Extends:
		return "^-"
	case diagram.Implements:
		return "^-.-"
	default:
		return unknownKind(k)
	}
}
