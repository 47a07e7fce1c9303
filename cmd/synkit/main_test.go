// Package main provides tests for the synkit CLI.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/synkit/internal/cli"
)

func writeFixture(t *testing.T, dir string) {
	t.Helper()
	src := `package shop

//synkit:deepcopy
type Order struct {
	ID   string
	Tags []string
}
`
	if err := os.WriteFile(filepath.Join(dir, "order.go"), []byte(src), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("version command error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "synkit") {
		t.Errorf("version output should contain 'synkit', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	output := buf.String()
	expectedCommands := []string{"inspect", "check", "gen", "version"}
	for _, expected := range expectedCommands {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"inspect", dir})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("inspect command error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Order") {
		t.Errorf("inspect output should contain 'Order', got: %s", output)
	}
	if !strings.Contains(output, "1 types in 1 files, 0 findings") {
		t.Errorf("inspect output should contain a summary line, got: %s", output)
	}
}

func TestInspectCommandJSON(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"inspect", dir, "--format", "json"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("inspect --format json command error = %v", err)
	}

	if !strings.Contains(buf.String(), `"types"`) {
		t.Errorf("json output should contain a types key, got: %s", buf.String())
	}
}

func TestCheckCommandClean(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"check", dir})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("check command error = %v", err)
	}

	if !strings.Contains(buf.String(), "No findings") {
		t.Errorf("check output should contain 'No findings', got: %s", buf.String())
	}
}

func TestCheckCommandFindingsExitNonZero(t *testing.T) {
	dir := t.TempDir()
	broken := "package shop\n\n//synkit:deepcopy name =\ntype Order struct{}\n"
	if err := os.WriteFile(filepath.Join(dir, "order.go"), []byte(broken), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"check", dir})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("check should fail when findings exist")
	}
	if got := cli.ExitCode(err); got != 1 {
		t.Errorf("ExitCode(%v) = %d, want 1", err, got)
	}
}

func TestCheckCommandMissingDirExitTwo(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"check", filepath.Join(t.TempDir(), "nope")})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("check should fail for a missing directory")
	}
	if got := cli.ExitCode(err); got != 2 {
		t.Errorf("ExitCode(%v) = %d, want 2", err, got)
	}
}

func TestGenCommand(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"gen", dir})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("gen command error = %v", err)
	}

	if !strings.Contains(buf.String(), "order_synkit.go") {
		t.Errorf("gen output should name the generated file, got: %s", buf.String())
	}

	generated, err := os.ReadFile(filepath.Join(dir, "order_synkit.go"))
	if err != nil {
		t.Fatalf("generated file should exist: %v", err)
	}
	if !strings.Contains(string(generated), "func (x Order) DeepCopy() Order") {
		t.Errorf("generated file should contain the DeepCopy method, got: %s", generated)
	}
}

func TestGenCommandDryRun(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"gen", dir, "--dry-run"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("gen --dry-run command error = %v", err)
	}

	if !strings.Contains(buf.String(), "func (x Order) DeepCopy() Order") {
		t.Errorf("dry-run output should contain the generated method, got: %s", buf.String())
	}
	// Piped output resolves to markdown, so the source arrives fenced.
	if !strings.Contains(buf.String(), "```go") {
		t.Errorf("piped dry-run output should fence the source, got: %s", buf.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "order_synkit.go")); !os.IsNotExist(err) {
		t.Error("dry-run should not write files")
	}
}

func TestCompletionCommand(t *testing.T) {
	shells := []string{"bash", "zsh", "fish", "powershell"}

	for _, shell := range shells {
		t.Run(shell, func(t *testing.T) {
			cmd := cli.NewRootCmd()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs([]string{"completion", shell})

			err := cmd.Execute()
			if err != nil {
				t.Errorf("completion %s command error = %v", shell, err)
			}
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"unknown-command"})

	err := cmd.Execute()
	if err == nil {
		t.Error("unknown command should return an error")
	}
}

func TestInvalidOutputMode(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"inspect", dir, "--output", "xml"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("invalid output mode should fail config validation")
	}
	if !strings.Contains(err.Error(), "invalid output mode") {
		t.Errorf("error should mention the invalid mode, got: %v", err)
	}
	if got := cli.ExitCode(err); got != 2 {
		t.Errorf("ExitCode(%v) = %d, want 2", err, got)
	}
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
