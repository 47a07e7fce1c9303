// Package derive parses annotated Go type declarations into the view a code
// generator works from: the declaration itself, its fields, and its
// directive comments.
//
// An Input is a set of pointers into a single parsed tree. Field extraction,
// unwrapping (pkg/typexpr), and directive extraction (pkg/directive) all
// return further views into the same tree; nothing is copied. Malformed
// input is reported as a *diag.Error positioned at the offending syntax;
// patterns that simply do not apply are reported as absence, never as
// errors.
package derive

import (
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strings"

	"github.com/leapstack-labs/synkit/pkg/diag"
	"github.com/leapstack-labs/synkit/pkg/directive"
)

// fragmentPrefix completes a bare declaration into a parseable file. The
// line directive keeps reported line numbers aligned with the caller's
// fragment.
const fragmentPrefix = "package input\n//line :1\n"

// Input is a parsed type declaration and the tree it lives in.
type Input struct {
	Name string         // declared type name
	Spec *ast.TypeSpec  // the declaration
	Decl *ast.GenDecl   // enclosing declaration group
	File *ast.File      // nil when constructed via FromSpec without a file
	Fset *token.FileSet
}

// Parse parses a source fragment containing a type declaration. The
// fragment may be a complete file or a bare declaration; a missing package
// clause is supplied internally and reported positions still refer to the
// fragment. The first type declaration is the target; any others remain
// reachable through File.
func Parse(src string) (*Input, error) {
	text := src
	if !hasPackageClause(src) {
		text = fragmentPrefix + src
	}
	return parseInput(token.NewFileSet(), "", text)
}

// ParseFile parses a named file and returns its first type declaration.
// Unlike Parse it requires a complete file, and it shares the caller's
// FileSet so positions stay comparable across files. A nil fset is allowed.
func ParseFile(fset *token.FileSet, filename string, src any) (*Input, error) {
	if fset == nil {
		fset = token.NewFileSet()
	}
	return parseInput(fset, filename, src)
}

// FromSpec wraps an already-parsed declaration. No parsing happens and no
// error is possible; the caller keeps ownership of the tree.
func FromSpec(fset *token.FileSet, decl *ast.GenDecl, spec *ast.TypeSpec) *Input {
	in := &Input{
		Spec: spec,
		Decl: decl,
		Fset: fset,
	}
	if spec != nil && spec.Name != nil {
		in.Name = spec.Name.Name
	}
	return in
}

func parseInput(fset *token.FileSet, filename string, src any) (*Input, error) {
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, parseError(err)
	}

	for _, d := range file.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, s := range gd.Specs {
			ts, ok := s.(*ast.TypeSpec)
			if !ok {
				continue
			}
			return &Input{
				Name: ts.Name.Name,
				Spec: ts,
				Decl: gd,
				File: file,
				Fset: fset,
			}, nil
		}
	}
	return nil, diag.FromNode(fset, file.Name, "no type declaration found")
}

// parseError converts a go/parser error into a diagnostic. The parser
// reports a scanner.ErrorList; the first entry is the one worth showing.
func parseError(err error) error {
	if list, ok := err.(scanner.ErrorList); ok && len(list) > 0 {
		return diag.New(list[0].Pos, list[0].Msg)
	}
	return diag.New(token.Position{}, err.Error())
}

// hasPackageClause reports whether the fragment's first token is the
// package keyword. Leading comments are skipped.
func hasPackageClause(src string) bool {
	var s scanner.Scanner
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))
	s.Init(file, []byte(src), nil, 0)
	_, tok, _ := s.Scan()
	return tok == token.PACKAGE
}

// Struct returns the declared struct type, reporting false when the
// declaration is something else (interface, alias target, map, ...).
func (in *Input) Struct() (*ast.StructType, bool) {
	if in == nil || in.Spec == nil {
		return nil, false
	}
	st, ok := in.Spec.Type.(*ast.StructType)
	return st, ok
}

// Pos returns the position of the declaration.
func (in *Input) Pos() token.Position {
	if in == nil || in.Spec == nil || in.Fset == nil {
		return token.Position{}
	}
	return in.Fset.Position(in.Spec.Pos())
}

// Doc returns the declaration's doc comment text, preferring the
// declaration group's doc over the spec's own.
func (in *Input) Doc() string {
	if in == nil {
		return ""
	}
	if in.Decl != nil && in.Decl.Doc != nil {
		return strings.TrimSpace(in.Decl.Doc.Text())
	}
	if in.Spec != nil && in.Spec.Doc != nil {
		return strings.TrimSpace(in.Spec.Doc.Text())
	}
	return ""
}

// TypeParams returns the declaration's type parameter list, nil when the
// type is not generic.
func (in *Input) TypeParams() []*ast.Field {
	if in == nil || in.Spec == nil || in.Spec.TypeParams == nil {
		return nil
	}
	return in.Spec.TypeParams.List
}

// Directives returns the directive comments attached to the declaration,
// group doc first, then the spec's own doc.
func (in *Input) Directives() []directive.Directive {
	if in == nil {
		return nil
	}
	var ds []directive.Directive
	if in.Decl != nil {
		ds = append(ds, directive.FromCommentGroup(in.Fset, in.Decl.Doc)...)
	}
	if in.Spec != nil {
		ds = append(ds, directive.FromCommentGroup(in.Fset, in.Spec.Doc)...)
	}
	return ds
}
