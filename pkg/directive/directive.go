// Package directive extracts and parses directive comments, the annotation
// surface code generators read their instructions from.
//
// A directive is a comment in the //namespace:name form of go:generate and
// go:build: no space after the slashes, a lowercase namespace, a colon, a
// name, then free-form argument text to the end of the line. Two argument
// grammars are supported: a comma-separated list of name = value pairs, and
// a single positional literal or identifier. Argument tokens carry file
// positions, so diagnostics for malformed arguments point into the real
// source.
package directive

import (
	"go/ast"
	"go/token"
	"strings"
)

// Directive is one parsed directive comment.
type Directive struct {
	Namespace string
	Name      string
	Args      string         // raw argument text, may be empty
	Pos       token.Position // position of the comment

	argsPos token.Position // position of the first argument character
}

// Is reports whether the directive is namespace:name.
func (d Directive) Is(namespace, name string) bool {
	return d.Namespace == namespace && d.Name == name
}

func (d Directive) String() string {
	if d.Args == "" {
		return "//" + d.Namespace + ":" + d.Name
	}
	return "//" + d.Namespace + ":" + d.Name + " " + d.Args
}

// FromCommentGroup returns the directives in a comment group, in source
// order. Nil groups yield nil.
func FromCommentGroup(fset *token.FileSet, group *ast.CommentGroup) []Directive {
	if group == nil {
		return nil
	}
	var ds []Directive
	for _, c := range group.List {
		if d, ok := parseComment(fset, c); ok {
			ds = append(ds, d)
		}
	}
	return ds
}

// FromField returns the directives attached to a struct field, doc comments
// first, then the line comment.
func FromField(fset *token.FileSet, field *ast.Field) []Directive {
	if field == nil {
		return nil
	}
	ds := FromCommentGroup(fset, field.Doc)
	ds = append(ds, FromCommentGroup(fset, field.Comment)...)
	return ds
}

// parseComment parses a single comment as a directive. Ordinary prose
// comments, block comments, and spaced colons are never misread as
// directives.
func parseComment(fset *token.FileSet, c *ast.Comment) (Directive, bool) {
	text := c.Text
	if !strings.HasPrefix(text, "//") {
		return Directive{}, false
	}
	rest := text[2:]

	colon := strings.IndexByte(rest, ':')
	if colon <= 0 || colon+1 >= len(rest) {
		return Directive{}, false
	}
	namespace := rest[:colon]
	if !isNamespace(namespace) {
		return Directive{}, false
	}

	name := rest[colon+1:]
	args := ""
	if sp := strings.IndexAny(name, " \t"); sp >= 0 {
		args = strings.TrimLeft(name[sp:], " \t")
		name = name[:sp]
	}
	if !isDirectiveName(name) {
		return Directive{}, false
	}

	d := Directive{
		Namespace: namespace,
		Name:      name,
		Args:      args,
	}
	if fset != nil {
		d.Pos = fset.Position(c.Slash)
		if args != "" {
			argsOffset := len(text) - len(args)
			d.argsPos = fset.Position(c.Slash + token.Pos(argsOffset))
		}
	}
	return d, true
}

// isNamespace reports whether s is a valid directive namespace: lowercase
// letters and digits, letter first.
func isNamespace(s string) bool {
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case 'a' <= ch && ch <= 'z':
		case '0' <= ch && ch <= '9' && i > 0:
		default:
			return false
		}
	}
	return len(s) > 0
}

// isDirectiveName reports whether s is a valid directive name: letters,
// digits, underscores, and interior dashes or dots.
func isDirectiveName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case isLetter(ch) || isDigit(ch):
		case (ch == '-' || ch == '.') && i > 0 && i < len(s)-1:
		default:
			return false
		}
	}
	return true
}
