// Package emit assembles, formats, and writes generated Go source, the
// output half of a code generator.
package emit

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"
)

// Header returns the marker line generated files open with, in the form
// recognized by go tooling and ignored by lint.
func Header(tool string, args ...string) string {
	if len(args) > 0 {
		return fmt.Sprintf("// Code generated by %s %s; DO NOT EDIT.", tool, strings.Join(args, " "))
	}
	return fmt.Sprintf("// Code generated by %s; DO NOT EDIT.", tool)
}

// Source formats generated source and fixes its import list. On failure the
// original bytes come back alongside the error so callers can still write
// the unformatted draft for debugging.
func Source(src []byte) ([]byte, error) {
	out, err := imports.Process("", src, nil)
	if err != nil {
		return src, fmt.Errorf("format generated source: %w", err)
	}
	return out, nil
}

// File assembles a complete generated file: header line, package clause,
// body, formatted as a unit.
func File(tool, pkg string, body []byte, args ...string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(Header(tool, args...))
	buf.WriteString("\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", pkg)
	buf.Write(body)
	return Source(buf.Bytes())
}

// WriteFile writes generated source, creating parent directories as
// needed.
func WriteFile(path string, src []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, src, 0o600); err != nil {
		return fmt.Errorf("write generated file: %w", err)
	}
	return nil
}
