package inspect

import (
	"github.com/leapstack-labs/synkit/pkg/diag"
)

// Report is the result of inspecting a directory tree, files sorted by
// path.
type Report struct {
	Root  string        `json:"root" yaml:"root"`
	Files []*FileReport `json:"files" yaml:"files"`
}

// FileReport is the result of inspecting one source file. A file that
// fails to parse has no types and one finding per parse error.
type FileReport struct {
	Path     string       `json:"path" yaml:"path"`
	Types    []TypeReport `json:"types,omitempty" yaml:"types,omitempty"`
	Findings []Finding    `json:"findings,omitempty" yaml:"findings,omitempty"`
}

// TypeReport describes one type declaration. Shape is the field shape for
// structs (named, unnamed, unit) and empty for other declarations.
type TypeReport struct {
	Name       string            `json:"name" yaml:"name"`
	Shape      string            `json:"shape,omitempty" yaml:"shape,omitempty"`
	Doc        string            `json:"doc,omitempty" yaml:"doc,omitempty"`
	Directives []DirectiveReport `json:"directives,omitempty" yaml:"directives,omitempty"`
	Fields     []FieldReport     `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// DirectiveReport describes one directive comment.
type DirectiveReport struct {
	Namespace string `json:"namespace" yaml:"namespace"`
	Name      string `json:"name" yaml:"name"`
	Args      string `json:"args,omitempty" yaml:"args,omitempty"`
	Line      int    `json:"line" yaml:"line"`
}

// FieldReport describes one struct field and its wrapper analysis.
type FieldReport struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Wrapper  string `json:"wrapper,omitempty" yaml:"wrapper,omitempty"`
	Inner    string `json:"inner,omitempty" yaml:"inner,omitempty"`
	Optional bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
	Repeated bool   `json:"repeated,omitempty" yaml:"repeated,omitempty"`
	Embedded bool   `json:"embedded,omitempty" yaml:"embedded,omitempty"`
	Tag      string `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// Finding is a serializable diagnostic.
type Finding struct {
	Pos     string `json:"pos" yaml:"pos"`
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
	Message string `json:"message" yaml:"message"`
}

// NewFinding converts a diagnostic into its report form.
func NewFinding(e *diag.Error) Finding {
	f := Finding{Message: e.Message}
	if e.Pos.IsValid() {
		f.Pos = e.Pos.String()
		f.Line = e.Pos.Line
		f.Column = e.Pos.Column
	}
	return f
}

// TypeCount returns the number of inspected type declarations.
func (r *Report) TypeCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Types)
	}
	return n
}

// FindingCount returns the number of findings across all files.
func (r *Report) FindingCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Findings)
	}
	return n
}
