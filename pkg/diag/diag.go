// Package diag provides positioned diagnostics for code generator tooling.
//
// Helpers in pkg/derive, pkg/typexpr, and pkg/directive report malformed
// input through *Error values that carry a go/token position, so generator
// output can point at the offending syntax. Absence of a pattern (a field
// that is not an Option, a directive that is not present) is never an Error;
// it is signaled with an ok=false return at the call site.
package diag

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"sort"
)

// Error is a diagnostic with a source position.
type Error struct {
	Pos     token.Position
	End     token.Position
	Message string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return e.Message
}

// New returns an Error at pos.
func New(pos token.Position, msg string) *Error {
	return &Error{Pos: pos, Message: msg}
}

// Newf returns an Error at pos with a formatted message.
func Newf(pos token.Position, format string, args ...any) *Error {
	return &Error{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// FromNode returns an Error spanning node, with positions resolved through
// fset. A nil node or fset yields an Error without position information
// rather than a panic.
func FromNode(fset *token.FileSet, node ast.Node, format string, args ...any) *Error {
	e := &Error{Message: fmt.Sprintf(format, args...)}
	if fset != nil && node != nil {
		e.Pos = fset.Position(node.Pos())
		e.End = fset.Position(node.End())
	}
	return e
}

// AsError reports whether err is or wraps a diag.Error.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// List accumulates diagnostics across an input.
type List []*Error

// Add appends a diagnostic to the list.
func (l *List) Add(e *Error) {
	*l = append(*l, e)
}

// Addf appends a formatted diagnostic at pos.
func (l *List) Addf(pos token.Position, format string, args ...any) {
	*l = append(*l, Newf(pos, format, args...))
}

// Sort orders the list by filename, then offset, then message.
func (l List) Sort() {
	sort.Slice(l, func(i, j int) bool {
		a, b := l[i].Pos, l[j].Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Offset != b.Offset {
			return a.Offset < b.Offset
		}
		return l[i].Message < l[j].Message
	})
}

// Err returns the list as an error, or nil when it is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no diagnostics"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more diagnostics)", l[0], len(l)-1)
}
