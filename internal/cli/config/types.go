// Package config provides configuration management for the synkit CLI.
//
// Settings come from four layers with the usual precedence: flags over
// environment variables over the synkit.yaml project file over defaults.
package config

// Config holds all CLI configuration options.
type Config struct {
	SourceDir    string    `koanf:"source_dir"`
	Output       string    `koanf:"output"`
	Namespace    string    `koanf:"namespace"`
	Wrappers     []string  `koanf:"wrappers"`
	IncludeTests bool      `koanf:"include_tests"`
	Verbose      bool      `koanf:"verbose"`
	Quiet        bool      `koanf:"quiet"`
	Gen          GenConfig `koanf:"gen"`

	// ProjectRoot is the directory all relative paths resolve against.
	// It is inferred, never read from the config file.
	ProjectRoot string `koanf:"-"`
}

// GenConfig holds settings for the gen command.
type GenConfig struct {
	// Suffix names generated files: <base><suffix>.go next to the source.
	Suffix string `koanf:"suffix"`
}

// Default configuration values.
const (
	DefaultSourceDir = "."
	DefaultNamespace = "synkit"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultGenSuffix = "_synkit"
)
