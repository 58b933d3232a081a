package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"go-umlgraph/internal/config"
	"go-umlgraph/internal/errors"
	"go-umlgraph/internal/logger"
	"go-umlgraph/internal/render"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"ignore":             "ignore",
	"ignoreBuiltins":     "ignore_builtins",
	"tests":              "tests",
	"showFields":         "show_fields",
	"showMethods":        "show_methods",
	"fullyQualifiedName": "fully_qualified_name",
	"output":             "output",
	"watch":              "watch",
	"json-log":           "log.json",
	"verbose":            "log.verbose",
	"neo4j-uri":          "neo4j.uri",
	"neo4j-user":         "neo4j.user",
	"neo4j-pass":         "neo4j.password",
	"neo4j-clean":        "neo4j.clean",
}

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "umlgraph <artifact-path> <notation>",
		Short: "Generate a class diagram from compiled Go packages or a type manifest",
		Long: `Generate a textual class diagram from type definitions.

The artifact is either a Go package directory (or pattern ending in /...),
which is loaded and type-checked, or a .yaml/.toml/.json manifest of type
descriptors. The notation is yuml or plantuml.

Examples:
  umlgraph ./internal/... plantuml --showFields --showMethods
  umlgraph types.yaml yuml --ignore="java., com.acme.internal"
  umlgraph . yuml --output - --ignoreBuiltins`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.New(configFile)
			if err != nil {
				return err
			}
			for flag, key := range flagKeys {
				if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return errors.Wrapf(err, "failed to bind flag %s", flag)
				}
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Verbose); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			gen := NewGenerator(cfg, render.DefaultRegistry(), cmd.OutOrStdout())
			artifact, notation := args[0], args[1]

			if _, err := gen.Run(ctx, artifact, notation); err != nil {
				return err
			}
			if !cfg.Watch {
				return nil
			}

			outPath, err := gen.OutputPath(artifact, notation)
			if err != nil {
				return err
			}
			pterm.Info.Printf("Watching %s for changes (Ctrl-C to stop)\n", artifact)
			return WatchArtifact(ctx, artifact, outPath, defaultDebounce, func() error {
				_, err := gen.Run(ctx, artifact, notation)
				return err
			})
		},
	}

	f := cmd.Flags()
	f.StringSlice("ignore", nil, "Comma-separated fully qualified name prefixes to leave out")
	f.Bool("ignoreBuiltins", false, "Leave out types without a package qualifier (int, string, error)")
	f.Bool("tests", false, "Also load _test.go files of Go packages")
	f.Bool("showFields", false, "List fields and draw field associations")
	f.Bool("showMethods", false, "List methods and constructors and draw parameter associations")
	f.Bool("fullyQualifiedName", false, "Use fully qualified type names")
	f.StringP("output", "o", "", "Output file (default: artifact path with the notation suffix, - for stdout)")
	f.Bool("watch", false, "Regenerate when the artifact changes")
	f.Bool("json-log", false, "Log as JSON")
	f.BoolP("verbose", "v", false, "Log debug details")
	f.String("neo4j-uri", "", "Also export the graph to this Neo4j bolt URI")
	f.String("neo4j-user", "neo4j", "Neo4j username")
	f.String("neo4j-pass", "", "Neo4j password")
	f.Bool("neo4j-clean", false, "Remove previously exported diagram data first")
	f.StringVar(&configFile, "config", "", "Config file (default: ./umlgraph.{toml,yaml,json} if present)")

	return cmd
}

// defaultDebounce coalesces bursts of file events, e.g. an editor save.
const defaultDebounce = 500 * time.Millisecond

// printError reports err and any hints attached to it on stderr.
func printError(err error) {
	pterm.Error.WithWriter(os.Stderr).Println(err.Error())
	for _, hint := range errors.GetAllHints(err) {
		pterm.Info.WithWriter(os.Stderr).Println(hint)
	}
}
