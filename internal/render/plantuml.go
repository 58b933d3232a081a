package render

import (
	"strings"
	"unicode"

	"go-umlgraph/internal/diagram"
)

// PlantUML renders the block notation between @startuml and @enduml.
type PlantUML struct{}

// NewPlantUML creates a PlantUML renderer.
func NewPlantUML() *PlantUML {
	return &PlantUML{}
}

func (*PlantUML) Name() string   { return "plantuml" }
func (*PlantUML) Suffix() string { return "-plantuml.puml" }

func (p *PlantUML) Render(g *diagram.Graph) string {
	var sb strings.Builder
	sb.WriteString("@startuml\n")
	for _, e := range g.Elements {
		switch v := e.(type) {
		case *diagram.Entity:
			writePlantUMLEntity(&sb, v)
		case diagram.Relationship:
			sb.WriteString(plantUMLName(v.From) + plantUMLArrow(v.Kind) + plantUMLName(v.To) + "\n")
		default:
			sb.WriteString(unknownElement(e))
		}
	}
	sb.WriteString("@enduml\n")
	return sb.String()
}

func writePlantUMLEntity(sb *strings.Builder, e *diagram.Entity) {
	if e.Interface {
		sb.WriteString("interface ")
	} else {
		sb.WriteString("class ")
	}
	sb.WriteString(plantUMLName(e.Name) + " {\n")
	for _, f := range e.Fields {
		sb.WriteString("  " + f + "\n")
	}
	for _, m := range e.Members {
		sb.WriteString("  " + m + "\n")
	}
	sb.WriteString("}\n")
}

// plantUMLName quotes names PlantUML cannot parse bare, such as Go
// qualified names with an import path ("example.com/shop.Order").
func plantUMLName(name string) string {
	for _, r := range name {
		if !(r == '_' || r == '.' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return `"` + name + `"`
		}
	}
	return name
}

func plantUMLArrow(k diagram.Kind) string {
	switch k {
	case diagram.Association:
		return " --> "
	case diagram.Extends:
		return " <|-- "
	case diagram.Implements:
		return " <|.. "
	default:
		return unknownKind(k)
	}
}
