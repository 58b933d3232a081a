package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"

	"go-umlgraph/internal/config"
	"go-umlgraph/internal/descriptor"
	"go-umlgraph/internal/diagram"
	"go-umlgraph/internal/errors"
	"go-umlgraph/internal/export"
	"go-umlgraph/internal/logger"
	"go-umlgraph/internal/render"
)

// Generator runs the pipeline: provider, analyzer, renderer, output.
type Generator struct {
	cfg      *config.Config
	registry *render.Registry
	stdout   io.Writer

	// providerFor and exportGraph are replaced in tests.
	providerFor func(artifactPath string) descriptor.Provider
	exportGraph func(ctx context.Context, cfg config.Neo4jConfig, g *diagram.Graph) error
}

// NewGenerator creates a Generator writing "-" output to stdout.
func NewGenerator(cfg *config.Config, registry *render.Registry, stdout io.Writer) *Generator {
	return &Generator{
		cfg:         cfg,
		registry:    registry,
		stdout:      stdout,
		providerFor: func(artifactPath string) descriptor.Provider {
			return descriptor.ForPath(artifactPath, cfg.Tests)
		},
		exportGraph: exportNeo4j,
	}
}

// Run generates the diagram for artifact in the given notation and returns
// where it was written ("-" for stdout). The notation is resolved before the
// artifact is loaded, so an unknown notation never produces output.
func (g *Generator) Run(ctx context.Context, artifact, notation string) (string, error) {
	renderer, err := g.registry.Lookup(notation)
	if err != nil {
		return "", err
	}

	descs, err := g.providerFor(artifact).LoadDescriptors(ctx, artifact)
	if err != nil {
		return "", err
	}

	graph := diagram.Analyze(descs, diagram.Options{
		IgnorePrefixes:      g.cfg.Ignore,
		IgnoreBuiltins:      g.cfg.IgnoreBuiltins,
		ShowFields:          g.cfg.ShowFields,
		ShowMethods:         g.cfg.ShowMethods,
		FullyQualifiedNames: g.cfg.FullyQualifiedName,
	})
	logger.Debugw("Graph analyzed",
		"descriptors", len(descs),
		"entities", len(graph.Entities()),
		"relationships", len(graph.Relationships()))

	if g.cfg.Neo4j.Enabled() {
		if err := g.exportGraph(ctx, g.cfg.Neo4j, graph); err != nil {
			return "", err
		}
	}

	text := renderer.Render(graph)

	if g.cfg.Output == "-" {
		if _, err := io.WriteString(g.stdout, text+"\n"); err != nil {
			return "", errors.Wrap(err, "failed to write diagram")
		}
		return "-", nil
	}

	outPath := g.cfg.Output
	if outPath == "" {
		outPath = OutputPath(artifact, renderer.Suffix())
	}
	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", outPath)
	}
	pterm.Success.Printf("Diagram written to %s\n", outPath)
	return outPath, nil
}

// OutputPath is the file Run writes for artifact and notation.
func (g *Generator) OutputPath(artifact, notation string) (string, error) {
	if g.cfg.Output != "" {
		return g.cfg.Output, nil
	}
	renderer, err := g.registry.Lookup(notation)
	if err != nil {
		return "", err
	}
	return OutputPath(artifact, renderer.Suffix()), nil
}

// OutputPath derives the output file from the artifact path: a trailing
// "/..." is dropped and a file extension is replaced by suffix. The current
// directory maps to "diagram".
func OutputPath(artifact, suffix string) string {
	p := filepath.Clean(strings.TrimSuffix(artifact, "/..."))
	if p == "." || p == string(filepath.Separator) {
		return "diagram" + suffix
	}
	if info, err := os.Stat(p); err == nil && info.IsDir() {
		return p + suffix
	}
	return strings.TrimSuffix(p, filepath.Ext(p)) + suffix
}

func exportNeo4j(ctx context.Context, cfg config.Neo4jConfig, g *diagram.Graph) error {
	loader, err := export.NewNeo4jLoader(ctx, cfg.URI, cfg.User, cfg.Password)
	if err != nil {
		return err
	}
	defer loader.Close()

	if err := loader.Load(g, cfg.Clean); err != nil {
		return err
	}
	logger.Infow("Graph exported to Neo4j", "uri", cfg.URI)
	return nil
}
