package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-umlgraph/internal/config"
	"go-umlgraph/internal/descriptor"
	"go-umlgraph/internal/diagram"
	"go-umlgraph/internal/errors"
	"go-umlgraph/internal/render"
)

const shopManifest = `
types:
  - name: C
    qualifiedName: com.acme.C
    fields:
      - name: d
        type: {name: D, qualifiedName: com.acme.D}
    supertype: {name: D, qualifiedName: com.acme.D}
    interfaces:
      - {name: E, qualifiedName: com.acme.E}
  - name: Cache
    qualifiedName: com.acme.internal.Cache
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGenerator_WritesNextToArtifact(t *testing.T) {
	dir := t.TempDir()
	artifact := writeFile(t, dir, "shop.yaml", shopManifest)

	gen := NewGenerator(&config.Config{Ignore: []string{"com.acme.internal"}}, render.DefaultRegistry(), &bytes.Buffer{})
	out, err := gen.Run(context.Background(), artifact, "YUML")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "shop-yuml.txt"), out)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "[C], [C]^-[D], [C]^-.-[E]", string(data))
}

func TestGenerator_PlantUMLWithFields(t *testing.T) {
	dir := t.TempDir()
	artifact := writeFile(t, dir, "shop.yaml", shopManifest)

	gen := NewGenerator(&config.Config{ShowFields: true, Ignore: []string{"com.acme.internal"}}, render.DefaultRegistry(), &bytes.Buffer{})
	out, err := gen.Run(context.Background(), artifact, "plantuml")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "shop-plantuml.puml"), out)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "@startuml\nclass C {\n  +d:D\n}\nC --> D\nC <|-- D\nC <|.. E\n@enduml\n", string(data))
}

func TestGenerator_Stdout(t *testing.T) {
	artifact := writeFile(t, t.TempDir(), "shop.yaml", shopManifest)
	var stdout bytes.Buffer

	gen := NewGenerator(&config.Config{Output: "-", Ignore: []string{"com.acme.internal"}}, render.DefaultRegistry(), &stdout)
	out, err := gen.Run(context.Background(), artifact, "yuml")
	require.NoError(t, err)

	assert.Equal(t, "-", out)
	assert.Equal(t, "[C], [C]^-[D], [C]^-.-[E]\n", stdout.String())
}

func TestGenerator_PartialRefsGetDisplayNames(t *testing.T) {
	manifest := `
types:
  - qualifiedName: com.acme.C
    fields:
      - name: d
        type: {qualifiedName: com.acme.D}
    supertype: {qualifiedName: com.acme.D}
    interfaces:
      - {name: Closeable}
`
	artifact := writeFile(t, t.TempDir(), "partial.yaml", manifest)
	var stdout bytes.Buffer

	gen := NewGenerator(&config.Config{Output: "-", ShowFields: true}, render.DefaultRegistry(), &stdout)
	_, err := gen.Run(context.Background(), artifact, "yuml")
	require.NoError(t, err)
	assert.Equal(t, "[C|+d:D], [C]->[D], [C]^-[D], [C]^-.-[Closeable]\n", stdout.String())
}

func TestGenerator_UnknownNotationWritesNothing(t *testing.T) {
	dir := t.TempDir()
	artifact := writeFile(t, dir, "shop.yaml", shopManifest)

	loaded := false
	gen := NewGenerator(&config.Config{}, render.DefaultRegistry(), &bytes.Buffer{})
	gen.providerFor = func(string) descriptor.Provider {
		return descriptor.ProviderFunc(func(context.Context, string) ([]descriptor.TypeDescriptor, error) {
			loaded = true
			return nil, nil
		})
	}

	_, err := gen.Run(context.Background(), artifact, "foo")
	require.Error(t, err)
	assert.True(t, errors.IsUnknownNotationError(err))
	assert.False(t, loaded, "artifact is not loaded for an unknown notation")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the manifest itself")
}

func TestGenerator_ArtifactAccessError(t *testing.T) {
	gen := NewGenerator(&config.Config{}, render.DefaultRegistry(), &bytes.Buffer{})
	_, err := gen.Run(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"), "yuml")
	require.Error(t, err)
	assert.True(t, errors.IsArtifactAccessError(err))
}

func TestGenerator_ExportsWhenNeo4jConfigured(t *testing.T) {
	artifact := writeFile(t, t.TempDir(), "shop.yaml", shopManifest)

	var exported *diagram.Graph
	cfg := &config.Config{Output: "-", Neo4j: config.Neo4jConfig{URI: "bolt://test", User: "neo4j", Password: "pw"}}
	gen := NewGenerator(cfg, render.DefaultRegistry(), &bytes.Buffer{})
	gen.exportGraph = func(_ context.Context, c config.Neo4jConfig, g *diagram.Graph) error {
		assert.Equal(t, "bolt://test", c.URI)
		exported = g
		return nil
	}

	_, err := gen.Run(context.Background(), artifact, "yuml")
	require.NoError(t, err)
	require.NotNil(t, exported)
	assert.Len(t, exported.Entities(), 2)
}

func TestGenerator_ExportFailureStopsRun(t *testing.T) {
	artifact := writeFile(t, t.TempDir(), "shop.yaml", shopManifest)

	var stdout bytes.Buffer
	cfg := &config.Config{Output: "-", Neo4j: config.Neo4jConfig{URI: "bolt://test", User: "neo4j", Password: "pw"}}
	gen := NewGenerator(cfg, render.DefaultRegistry(), &stdout)
	gen.exportGraph = func(context.Context, config.Neo4jConfig, *diagram.Graph) error {
		return errors.New("connection refused")
	}

	_, err := gen.Run(context.Background(), artifact, "yuml")
	require.Error(t, err)
	assert.Empty(t, stdout.String())
}

func TestGenerator_TestsOptionReachesPackagesProvider(t *testing.T) {
	gen := NewGenerator(&config.Config{Tests: true}, render.DefaultRegistry(), &bytes.Buffer{})
	assert.Equal(t, &descriptor.PackagesProvider{Tests: true}, gen.providerFor("./..."))
	assert.IsType(t, &descriptor.ManifestProvider{}, gen.providerFor("types.yaml"))
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()
	pkgDir := filepath.Join(dir, "shop")
	require.NoError(t, os.Mkdir(pkgDir, 0o755))

	tests := []struct {
		name     string
		artifact string
		suffix   string
		want     string
	}{
		{name: "jar", artifact: "lib/app.jar", suffix: "-yuml.txt", want: filepath.Join("lib", "app-yuml.txt")},
		{name: "manifest", artifact: "types.yaml", suffix: "-plantuml.puml", want: "types-plantuml.puml"},
		{name: "directory", artifact: pkgDir, suffix: "-yuml.txt", want: pkgDir + "-yuml.txt"},
		{name: "pattern", artifact: pkgDir + "/...", suffix: "-yuml.txt", want: pkgDir + "-yuml.txt"},
		{name: "current dir", artifact: ".", suffix: "-yuml.txt", want: "diagram-yuml.txt"},
		{name: "current dir pattern", artifact: "./...", suffix: "-yuml.txt", want: "diagram-yuml.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPath(tt.artifact, tt.suffix))
		})
	}
}

func TestRootCmd_UnknownNotation(t *testing.T) {
	dir := t.TempDir()
	artifact := writeFile(t, dir, "shop.yaml", shopManifest)

	cmd := newRootCmd()
	cmd.SetArgs([]string{artifact, "foo", "--showFields"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.IsUnknownNotationError(err))
	assert.NotEmpty(t, errors.GetAllHints(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRootCmd_Flags(t *testing.T) {
	artifact := writeFile(t, t.TempDir(), "shop.yaml", shopManifest)
	var stdout bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs([]string{artifact, "yuml", "--ignore=com.acme.internal, com.acme.E", "--showFields", "--fullyQualifiedName", "-o", "-"})
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "[com.acme.C|+d:D], [com.acme.C]->[com.acme.D], [com.acme.C]^-[com.acme.D]\n", stdout.String())
}

func TestRootCmd_RequiresTwoArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"only-one"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}
