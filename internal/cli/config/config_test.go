package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test and
// restores the previous one on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

// TestLoadConfig_Defaults tests loading with no file, env vars, or flags.
func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	chdir(t, dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, cwd, cfg.SourceDir)
	assert.Equal(t, DefaultNamespace, cfg.Namespace)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultGenSuffix, cfg.Gen.Suffix)
	assert.Empty(t, cfg.Wrappers)
	assert.False(t, cfg.IncludeTests)
	assert.False(t, cfg.Verbose)
}

// TestLoadConfig_FromFile tests loading values from a config file.
func TestLoadConfig_FromFile(t *testing.T) {
	ResetConfig()

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "synkit.yaml")
	cfgContent := `source_dir: api
namespace: genkit
wrappers:
  - Maybe
  - Result
include_tests: true
gen:
  suffix: _gen
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgContent), 0600))

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpDir, "api"), cfg.SourceDir,
		"relative source_dir should resolve against the config file directory")
	assert.Equal(t, "genkit", cfg.Namespace)
	assert.Equal(t, []string{"Maybe", "Result"}, cfg.Wrappers)
	assert.True(t, cfg.IncludeTests)
	assert.Equal(t, "_gen", cfg.Gen.Suffix)
	assert.Equal(t, tmpDir, cfg.ProjectRoot)
	assert.Equal(t, cfgPath, GetConfigFileUsed())
}

// TestLoadConfig_EnvPrecedenceOverFile tests that env vars override the config file.
func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "synkit.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("namespace: from_file\n"), 0600))

	require.NoError(t, os.Setenv("SYNKIT_NAMESPACE", "from_env"))
	defer func() { _ = os.Unsetenv("SYNKIT_NAMESPACE") }()

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.Namespace, "env var should override config file")
}

// TestLoadConfig_FlagPrecedence tests that flags override env vars and the config file.
func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "synkit.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("namespace: from_file\n"), 0600))

	require.NoError(t, os.Setenv("SYNKIT_NAMESPACE", "from_env"))
	defer func() { _ = os.Unsetenv("SYNKIT_NAMESPACE") }()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("namespace", "", "directive namespace")
	require.NoError(t, flags.Set("namespace", "from_flag"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, "from_flag", cfg.Namespace, "flag value should override config file and env var")
}

// TestLoadConfig_FlagNotSetUsesEnv tests that unset flags fall back to env vars.
func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "synkit.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("namespace: from_file\n"), 0600))

	require.NoError(t, os.Setenv("SYNKIT_NAMESPACE", "from_env"))
	defer func() { _ = os.Unsetenv("SYNKIT_NAMESPACE") }()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("namespace", "", "directive namespace")
	// Note: not calling flags.Set(), so Changed is false

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.Namespace, "env var should be used when flag is not set")
}

// TestLoadConfig_WrapperFlagRepeatable tests the repeatable --wrapper flag.
func TestLoadConfig_WrapperFlagRepeatable(t *testing.T) {
	ResetConfig()
	chdir(t, t.TempDir())

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringArray("wrapper", nil, "extra wrapper type")
	require.NoError(t, flags.Set("wrapper", "Maybe"))
	require.NoError(t, flags.Set("wrapper", "Result"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, []string{"Maybe", "Result"}, cfg.Wrappers)
}

// TestLoadConfig_WrappersFromEnv tests the comma-separated env var form.
func TestLoadConfig_WrappersFromEnv(t *testing.T) {
	ResetConfig()
	chdir(t, t.TempDir())

	require.NoError(t, os.Setenv("SYNKIT_WRAPPERS", "Maybe,Result"))
	defer func() { _ = os.Unsetenv("SYNKIT_WRAPPERS") }()

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Maybe", "Result"}, cfg.Wrappers)
}

// TestLoadConfig_InvalidOutput tests that validation rejects a bad output mode.
func TestLoadConfig_InvalidOutput(t *testing.T) {
	ResetConfig()

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "synkit.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output: xml\n"), 0600))

	_, err := LoadConfig(cfgPath, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output mode")
}

// TestConfig_Validate tests the Config.Validate method.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantErr   bool
		errSubstr string
	}{
		{
			name: "valid config",
			cfg:  Config{Output: "auto", Wrappers: []string{"Maybe"}},
		},
		{
			name: "empty output is valid",
			cfg:  Config{},
		},
		{
			name:      "unknown output mode",
			cfg:       Config{Output: "xml"},
			wantErr:   true,
			errSubstr: "invalid output mode",
		},
		{
			name:      "wrapper with dash",
			cfg:       Config{Wrappers: []string{"my-wrapper"}},
			wantErr:   true,
			errSubstr: "invalid wrapper name",
		},
		{
			name:      "wrapper starting with digit",
			cfg:       Config{Wrappers: []string{"2fast"}},
			wantErr:   true,
			errSubstr: "invalid wrapper name",
		},
		{
			name:      "verbose and quiet conflict",
			cfg:       Config{Verbose: true, Quiet: true},
			wantErr:   true,
			errSubstr: "mutually exclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestConfig_ValidateSourceDir tests the source directory existence check.
func TestConfig_ValidateSourceDir(t *testing.T) {
	t.Run("existing directory", func(t *testing.T) {
		cfg := &Config{SourceDir: t.TempDir()}
		assert.NoError(t, cfg.ValidateSourceDir())
	})

	t.Run("missing directory", func(t *testing.T) {
		cfg := &Config{SourceDir: filepath.Join(t.TempDir(), "absent")}
		err := cfg.ValidateSourceDir()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "source directory does not exist")
	})
}

// TestExpandEnvVars tests the expandEnvVars function.
func TestExpandEnvVars(t *testing.T) {
	require.NoError(t, os.Setenv("TEST_VAR_ONE", "value_one"))
	require.NoError(t, os.Setenv("TEST_VAR_TWO", "value_two"))
	defer func() {
		_ = os.Unsetenv("TEST_VAR_ONE")
		_ = os.Unsetenv("TEST_VAR_TWO")
	}()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single variable",
			input:    "${TEST_VAR_ONE}",
			expected: "value_one",
		},
		{
			name:     "multiple variables",
			input:    "${TEST_VAR_ONE}/${TEST_VAR_TWO}",
			expected: "value_one/value_two",
		},
		{
			name:     "variable in path",
			input:    "/path/to/${TEST_VAR_ONE}/file",
			expected: "/path/to/value_one/file",
		},
		{
			name:     "unset variable stays as-is",
			input:    "${UNSET_VARIABLE}",
			expected: "${UNSET_VARIABLE}",
		},
		{
			name:     "no variables",
			input:    "plain string",
			expected: "plain string",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

// TestGetLogger tests the context logger fallback.
func TestGetLogger(t *testing.T) {
	logger := GetLogger(context.Background())
	require.NotNil(t, logger, "missing logger should fall back to a discard logger")
}
