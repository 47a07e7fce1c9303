package commands

import (
	"log/slog"
	"os"

	"github.com/leapstack-labs/synkit/internal/cli/config"
	"github.com/leapstack-labs/synkit/internal/cli/output"
	"github.com/leapstack-labs/synkit/internal/inspect"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext assembles the dependencies a command needs: the loaded
// configuration, the context logger, and a renderer bound to the command's
// output streams.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.Output)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// NewInspector builds an Inspector from the resolved configuration.
func (c *CommandContext) NewInspector() *inspect.Inspector {
	return inspect.New(inspect.Config{
		Namespace:    c.Cfg.Namespace,
		Wrappers:     c.Cfg.Wrappers,
		IncludeTests: c.Cfg.IncludeTests,
		Logger:       c.Logger,
	})
}

// SourceDir resolves the directory a command operates on: the explicit
// path when given, the configured source directory otherwise.
func (c *CommandContext) SourceDir(path string) string {
	if path != "" {
		return path
	}
	return c.Cfg.SourceDir
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to
// environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	return &config.Config{
		SourceDir:    getEnvOrDefault("SYNKIT_SOURCE_DIR", config.DefaultSourceDir),
		Output:       os.Getenv("SYNKIT_OUTPUT"),
		Namespace:    getEnvOrDefault("SYNKIT_NAMESPACE", config.DefaultNamespace),
		IncludeTests: os.Getenv("SYNKIT_INCLUDE_TESTS") == "true",
		Verbose:      os.Getenv("SYNKIT_VERBOSE") == "true",
		Quiet:        os.Getenv("SYNKIT_QUIET") == "true",
		Gen: config.GenConfig{
			Suffix: getEnvOrDefault("SYNKIT_GEN_SUFFIX", config.DefaultGenSuffix),
		},
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
