// Package config loads umlgraph settings from defaults, an optional config
// file, UMLGRAPH_* environment variables and command-line flags.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"go-umlgraph/internal/errors"
)

// EnvPrefix is the prefix of environment variables read by the tool,
// e.g. UMLGRAPH_NEO4J_PASSWORD.
const EnvPrefix = "UMLGRAPH"

// Config is the resolved configuration of one run.
type Config struct {
	Ignore             []string    `mapstructure:"ignore"`
	IgnoreBuiltins     bool        `mapstructure:"ignore_builtins"`
	Tests              bool        `mapstructure:"tests"`
	ShowFields         bool        `mapstructure:"show_fields"`
	ShowMethods        bool        `mapstructure:"show_methods"`
	FullyQualifiedName bool        `mapstructure:"fully_qualified_name"`
	Output             string      `mapstructure:"output"`
	Watch              bool        `mapstructure:"watch"`
	Log                LogConfig   `mapstructure:"log"`
	Neo4j              Neo4jConfig `mapstructure:"neo4j"`
}

// LogConfig controls logger output.
type LogConfig struct {
	JSON    bool `mapstructure:"json"`
	Verbose bool `mapstructure:"verbose"`
}

// Neo4jConfig enables exporting the analyzed graph. Export is off while URI
// is empty.
type Neo4jConfig struct {
	URI      string `mapstructure:"uri"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Clean    bool   `mapstructure:"clean"`
}

// Enabled reports whether export to Neo4j is configured.
func (c Neo4jConfig) Enabled() bool {
	return c.URI != ""
}

// SetDefaults configures default values for all options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("ignore", []string{})
	v.SetDefault("ignore_builtins", false)
	v.SetDefault("tests", false)
	v.SetDefault("show_fields", false)
	v.SetDefault("show_methods", false)
	v.SetDefault("fully_qualified_name", false)
	v.SetDefault("output", "")
	v.SetDefault("watch", false)

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbose", false)

	v.SetDefault("neo4j.uri", "")
	v.SetDefault("neo4j.user", "neo4j")
	v.SetDefault("neo4j.password", "")
	v.SetDefault("neo4j.clean", false)
}

// New returns a Viper instance with defaults and environment binding.
// configFile, when non-empty, is read explicitly; otherwise umlgraph.{toml,yaml,json}
// in the working directory is used if present.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("umlgraph")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config")
		}
	}
	return v, nil
}

// Load unmarshals v into a Config and normalizes it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	cfg.Ignore = NormalizePrefixes(cfg.Ignore)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks option combinations.
func (c *Config) Validate() error {
	if c.Neo4j.Enabled() {
		if c.Neo4j.User == "" {
			return errors.New("neo4j.user is required when neo4j.uri is set")
		}
		if c.Neo4j.Password == "" {
			return errors.WithHint(
				errors.New("neo4j.password is required when neo4j.uri is set"),
				"set --neo4j-pass or "+EnvPrefix+"_NEO4J_PASSWORD")
		}
	}
	if c.Watch && c.Output == "-" {
		return errors.New("--watch cannot be combined with --output -")
	}
	return nil
}

// NormalizePrefixes splits comma-separated entries, trims spaces and drops
// empty prefixes. "--ignore=a, b" and "--ignore a --ignore b" give the same
// result.
func NormalizePrefixes(in []string) []string {
	out := make([]string, 0, len(in))
	for _, entry := range in {
		for _, p := range strings.Split(entry, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
