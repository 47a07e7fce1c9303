// Package typexpr provides syntactic analysis of Go type expressions for
// code generator tooling.
//
// All functions operate on ast.Expr views and return views into the same
// tree; nothing is copied and nothing is type-checked. Wrapper detection is
// name-based: a type spelled Option[T] is recognized as an Option wrapper
// regardless of what Option resolves to, and an aliased or renamed wrapper is
// not recognized. Resolving identity would require go/types and an import
// graph, which this package deliberately stays below.
package typexpr

import (
	"go/ast"

	"golang.org/x/tools/go/ast/astutil"
)

// Segments returns the dotted path of a type expression, outermost package
// qualifier first: pkg.Option[int] yields ["pkg", "Option"]. Instantiation
// arguments are stripped. Non-path expressions (pointers, slices, maps,
// funcs, channels) have no segments and yield nil.
func Segments(e ast.Expr) []string {
	base := pathBase(e)
	if base == nil {
		return nil
	}
	var segs []string
	for {
		switch b := base.(type) {
		case *ast.Ident:
			segs = append(segs, b.Name)
			reverse(segs)
			return segs
		case *ast.SelectorExpr:
			segs = append(segs, b.Sel.Name)
			base = b.X
		default:
			return nil
		}
	}
}

// Last returns the final path segment of a type expression, reporting false
// when the expression is not a path.
func Last(e ast.Expr) (string, bool) {
	base := pathBase(e)
	if base == nil {
		return "", false
	}
	switch b := base.(type) {
	case *ast.Ident:
		return b.Name, true
	case *ast.SelectorExpr:
		return b.Sel.Name, true
	}
	return "", false
}

// pathBase strips parentheses and instantiation arguments, returning the
// underlying Ident or SelectorExpr, or nil when e is not a type path.
func pathBase(e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	e = astutil.Unparen(e)
	switch x := e.(type) {
	case *ast.IndexExpr:
		e = astutil.Unparen(x.X)
	case *ast.IndexListExpr:
		e = astutil.Unparen(x.X)
	}
	switch base := e.(type) {
	case *ast.Ident:
		return base
	case *ast.SelectorExpr:
		if !isSelectorPath(base) {
			return nil
		}
		return base
	}
	return nil
}

// isSelectorPath reports whether a selector chain consists of idents all the
// way down, ruling out expressions like f().Field used in value positions.
func isSelectorPath(sel *ast.SelectorExpr) bool {
	for {
		switch x := astutil.Unparen(sel.X).(type) {
		case *ast.Ident:
			return true
		case *ast.SelectorExpr:
			sel = x
		default:
			return false
		}
	}
}

// typeArgs returns the immediate instantiation arguments of e, or nil when e
// is not an instantiated path.
func typeArgs(e ast.Expr) []ast.Expr {
	if e == nil {
		return nil
	}
	switch x := astutil.Unparen(e).(type) {
	case *ast.IndexExpr:
		if pathBase(x.X) == nil {
			return nil
		}
		return []ast.Expr{x.Index}
	case *ast.IndexListExpr:
		if pathBase(x.X) == nil {
			return nil
		}
		return x.Indices
	}
	return nil
}

// isTypeArg reports whether an instantiation argument is a type expression.
// Constant arguments (array lengths and the like) are not inner types.
func isTypeArg(e ast.Expr) bool {
	switch astutil.Unparen(e).(type) {
	case *ast.BasicLit:
		return false
	case nil:
		return false
	}
	return true
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
