package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-umlgraph/internal/descriptor"
	"go-umlgraph/internal/diagram"
	"go-umlgraph/internal/errors"
)

// sampleGraph is A{b:B} then C extends D implements E, with an interface E.
func sampleGraph() *diagram.Graph {
	return &diagram.Graph{Elements: []diagram.Element{
		&diagram.Entity{Name: "A", Fields: []string{"+b:B"}},
		diagram.Relationship{From: "A", To: "B", Kind: diagram.Association},
		&diagram.Entity{Name: "C", Members: []string{"+run():void", "+C()"}},
		diagram.Relationship{From: "C", To: "D", Kind: diagram.Extends},
		diagram.Relationship{From: "C", To: "E", Kind: diagram.Implements},
		&diagram.Entity{Name: "E", Interface: true},
	}}
}

func TestYUML_Render(t *testing.T) {
	got := NewYUML().Render(sampleGraph())
	assert.Equal(t,
		"[A|+b:B], [A]->[B], [C|+run():void;+C()], [C]^-[D], [C]^-.-[E], [<<interface>>;E]",
		got)
}

func TestYUML_FieldsAndMembersSections(t *testing.T) {
	g := &diagram.Graph{Elements: []diagram.Element{
		&diagram.Entity{Name: "S", Fields: []string{"+a:int", "+b:int"}, Members: []string{"+f()"}},
	}}
	assert.Equal(t, "[S|+a:int;+b:int|+f()]", NewYUML().Render(g))
}

func TestYUML_EmptyGraph(t *testing.T) {
	assert.Equal(t, "", NewYUML().Render(&diagram.Graph{}))
}

func TestPlantUML_Render(t *testing.T) {
	want := "@startuml\n" +
		"class A {\n" +
		"  +b:B\n" +
		"}\n" +
		"A --> B\n" +
		"class C {\n" +
		"  +run():void\n" +
		"  +C()\n" +
		"}\n" +
		"C <|-- D\n" +
		"C <|.. E\n" +
		"interface E {\n" +
		"}\n" +
		"@enduml\n"
	assert.Equal(t, want, NewPlantUML().Render(sampleGraph()))
}

func TestPlantUML_QuotesImportPathNames(t *testing.T) {
	g := &diagram.Graph{Elements: []diagram.Element{
		&diagram.Entity{Name: "example.com/shop.Order"},
		diagram.Relationship{From: "example.com/shop.Order", To: "example.com/shop.Base", Kind: diagram.Extends},
		diagram.Relationship{From: "example.com/shop.Order", To: "com.acme.Item", Kind: diagram.Association},
	}}
	assert.Equal(t,
		"@startuml\n"+
			"class \"example.com/shop.Order\" {\n}\n"+
			"\"example.com/shop.Order\" <|-- \"example.com/shop.Base\"\n"+
			"\"example.com/shop.Order\" --> com.acme.Item\n"+
			"@enduml\n",
		NewPlantUML().Render(g))
}

func TestPlantUML_EmptyGraph(t *testing.T) {
	assert.Equal(t, "@startuml\n@enduml\n", NewPlantUML().Render(&diagram.Graph{}))
}

func TestRenderIsIdempotent(t *testing.T) {
	g := sampleGraph()
	for _, r := range []Renderer{NewYUML(), NewPlantUML()} {
		assert.Equal(t, r.Render(g), r.Render(g), r.Name())
	}
}

func TestUnknownKindPanics(t *testing.T) {
	g := &diagram.Graph{Elements: []diagram.Element{
		diagram.Relationship{From: "A", To: "B", Kind: diagram.Kind(42)},
	}}
	for _, r := range []Renderer{NewYUML(), NewPlantUML()} {
		assert.Panics(t, func() { r.Render(g) }, r.Name())
	}
}

func TestEveryKindHasTokens(t *testing.T) {
	for _, k := range diagram.Kinds {
		assert.NotPanics(t, func() {
			assert.NotEmpty(t, yumlArrow(k))
			assert.NotEmpty(t, plantUMLArrow(k))
		}, k.String())
	}
}

func TestRegistry_Resolve(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		name       string
		input      string
		wantOK     bool
		wantSuffix string
	}{
		{name: "yuml", input: "yuml", wantOK: true, wantSuffix: "-yuml.txt"},
		{name: "upper case", input: "YUML", wantOK: true, wantSuffix: "-yuml.txt"},
		{name: "plantuml mixed case", input: "PlantUML", wantOK: true, wantSuffix: "-plantuml.puml"},
		{name: "unknown", input: "foo", wantOK: false},
		{name: "empty", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := reg.Resolve(tt.input)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantSuffix, r.Suffix())
			}
		})
	}

	assert.Equal(t, []string{"plantuml", "yuml"}, reg.Names())
}

func TestRegistry_RenderUnknownNotation(t *testing.T) {
	_, _, err := DefaultRegistry().Render("foo", sampleGraph())
	require.Error(t, err)
	assert.True(t, errors.IsUnknownNotationError(err))
	assert.Equal(t, []string{"supported notations: plantuml, yuml"}, errors.GetAllHints(err))
}

func TestRegistry_RenderEndToEnd(t *testing.T) {
	a := descriptor.TypeDescriptor{
		Name:          "A",
		QualifiedName: "com.acme.A",
		Fields: []descriptor.Field{{
			Name: "b",
			Type: descriptor.TypeRef{Name: "B", QualifiedName: "com.acme.B"},
		}},
	}
	g := diagram.Analyze([]descriptor.TypeDescriptor{a}, diagram.Options{ShowFields: true})

	text, suffix, err := DefaultRegistry().Render("yuml", g)
	require.NoError(t, err)
	assert.Equal(t, "[A|+b:B], [A]->[B]", text)
	assert.Equal(t, "-yuml.txt", suffix)
}
