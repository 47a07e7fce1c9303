package typexpr

import (
	"go/ast"
	"strings"
)

// Predicates come in positive/negative pairs so generator pipelines read as
// written: a guard like IsNotOption(f.Type) carries its meaning at the call
// site instead of a bang buried in a condition.

// IsIdent reports whether e is a single-segment type path named name,
// instantiated or bare: both Option and Option[int] are idents named
// "Option", while pkg.Option is not.
func IsIdent(name string, e ast.Expr) bool {
	base := pathBase(e)
	ident, ok := base.(*ast.Ident)
	return ok && ident.Name == name
}

// IsNotIdent is the negation of IsIdent.
func IsNotIdent(name string, e ast.Expr) bool {
	return !IsIdent(name, e)
}

// IsNamed reports whether e is a type path whose dotted name is exactly
// name: IsNamed("pkg.Option", e) matches pkg.Option[T], IsNamed("Option", e)
// matches the unqualified spelling only.
func IsNamed(name string, e ast.Expr) bool {
	segs := Segments(e)
	if len(segs) == 0 {
		return false
	}
	return strings.Join(segs, ".") == name
}

// IsNotNamed is the negation of IsNamed.
func IsNotNamed(name string, e ast.Expr) bool {
	return !IsNamed(name, e)
}

// IsOption reports whether e is the Option wrapper, with or without type
// arguments.
func IsOption(e ast.Expr) bool {
	return IsIdent(WrapperOption, e)
}

// IsNotOption is the negation of IsOption.
func IsNotOption(e ast.Expr) bool {
	return !IsOption(e)
}

// IsVec reports whether e is the Vec wrapper, with or without type
// arguments.
func IsVec(e ast.Expr) bool {
	return IsIdent(WrapperVec, e)
}

// IsNotVec is the negation of IsVec.
func IsNotVec(e ast.Expr) bool {
	return !IsVec(e)
}

// IsNotOptionOrVec reports whether e is neither the Option nor the Vec
// wrapper, the combined guard for fields generators treat as plain values.
func IsNotOptionOrVec(e ast.Expr) bool {
	return IsNotOption(e) && IsNotVec(e)
}

// SegmentsEmpty reports whether e has no path segments. Non-path
// expressions (pointers, slices, maps, funcs, channels) have none.
func SegmentsEmpty(e ast.Expr) bool {
	return len(Segments(e)) == 0
}

// SegmentsNotEmpty is the negation of SegmentsEmpty.
func SegmentsNotEmpty(e ast.Expr) bool {
	return !SegmentsEmpty(e)
}
