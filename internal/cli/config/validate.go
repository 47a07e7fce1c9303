package config

import (
	"fmt"
	"go/token"
	"os"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Output {
	case "", "auto", "text", "markdown", "json":
	default:
		return fmt.Errorf("invalid output mode %q (valid: auto, text, markdown, json)", c.Output)
	}

	for _, w := range c.Wrappers {
		if !token.IsIdentifier(w) {
			return fmt.Errorf("invalid wrapper name %q: must be a Go identifier", w)
		}
	}

	if c.Verbose && c.Quiet {
		return fmt.Errorf("verbose and quiet are mutually exclusive")
	}

	// Only validate directory existence in commands that read sources.
	// This allows help commands to work without a valid directory.
	return nil
}

// ValidateSourceDir checks if the source directory exists.
func (c *Config) ValidateSourceDir() error {
	if _, err := os.Stat(c.SourceDir); os.IsNotExist(err) {
		return fmt.Errorf("source directory does not exist: %s\nHint: Create the directory or use --source-dir to specify a different path", c.SourceDir)
	}
	return nil
}
