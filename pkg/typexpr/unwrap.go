package typexpr

import (
	"go/ast"

	"golang.org/x/tools/go/ast/astutil"
)

// Builtin wrapper names recognized by the convenience unwrappers.
const (
	WrapperOption = "Option"
	WrapperVec    = "Vec"
)

// Unwrap returns the inner type of a single-argument wrapper: for
// name[T] it returns T. It reports false when e is not a single-segment
// path named name, carries no type arguments, or has a different arity.
// Absence is the only failure shape; Unwrap never returns an error.
func Unwrap(name string, e ast.Expr) (ast.Expr, bool) {
	inner, ok := UnwrapN(name, 1, e)
	if !ok {
		return nil, false
	}
	return inner[0], true
}

// UnwrapN returns the n type arguments of name[T1, ..., Tn] in declaration
// order. It reports false when e is not a single-segment path named name or
// the argument count differs from n.
func UnwrapN(name string, n int, e ast.Expr) ([]ast.Expr, bool) {
	if !IsIdent(name, e) {
		return nil, false
	}
	args := typeArgs(e)
	if len(args) != n {
		return nil, false
	}
	for _, arg := range args {
		if !isTypeArg(arg) {
			return nil, false
		}
	}
	return args, true
}

// UnwrapOption returns T for Option[T].
func UnwrapOption(e ast.Expr) (ast.Expr, bool) {
	return Unwrap(WrapperOption, e)
}

// UnwrapVec returns T for Vec[T].
func UnwrapVec(e ast.Expr) (ast.Expr, bool) {
	return Unwrap(WrapperVec, e)
}

// Inner returns every immediate type argument of the outermost
// instantiation, regardless of the wrapper's name or qualification:
// pkg.Map[K, V] yields [K, V]. The result is empty when e is not an
// instantiated path. Constant arguments are skipped.
func Inner(e ast.Expr) []ast.Expr {
	args := typeArgs(e)
	if len(args) == 0 {
		return nil
	}
	inner := make([]ast.Expr, 0, len(args))
	for _, arg := range args {
		if isTypeArg(arg) {
			inner = append(inner, arg)
		}
	}
	return inner
}

// UnwrapPointer returns T for *T.
func UnwrapPointer(e ast.Expr) (ast.Expr, bool) {
	if e == nil {
		return nil, false
	}
	if star, ok := astutil.Unparen(e).(*ast.StarExpr); ok {
		return star.X, true
	}
	return nil, false
}

// UnwrapSlice returns T for []T. Arrays with a length are not slices and
// report false.
func UnwrapSlice(e ast.Expr) (ast.Expr, bool) {
	if e == nil {
		return nil, false
	}
	if arr, ok := astutil.Unparen(e).(*ast.ArrayType); ok && arr.Len == nil {
		return arr.Elt, true
	}
	return nil, false
}
