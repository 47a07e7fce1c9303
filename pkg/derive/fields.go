package derive

import (
	"go/ast"
	"reflect"
	"strconv"
	"strings"

	"github.com/leapstack-labs/synkit/pkg/diag"
	"github.com/leapstack-labs/synkit/pkg/typexpr"
)

// Common diagnostic messages.
const (
	ErrNotStruct     = "%s is not a struct type"
	ErrEmbeddedField = "%s has an embedded field, named fields required"
	ErrNamedField    = "%s has a named field, embedded fields required"
	ErrNoFields      = "%s has no embedded fields to extract"
)

// FieldKind classifies the field shape of a struct declaration.
type FieldKind int

const (
	// KindNamed is a struct whose fields carry explicit names.
	KindNamed FieldKind = iota
	// KindUnnamed is a struct consisting entirely of embedded fields,
	// addressed by position.
	KindUnnamed
	// KindUnit is a struct with no fields at all.
	KindUnit
)

func (k FieldKind) String() string {
	switch k {
	case KindNamed:
		return "named"
	case KindUnnamed:
		return "unnamed"
	case KindUnit:
		return "unit"
	}
	return "unknown"
}

// Field is one extracted field, a view into the declaration tree. A
// declaration like "A, B int" flattens into two Fields sharing one Node.
type Field struct {
	Name     string     // declared name; derived type name for embedded fields
	Index    int        // position in declaration order after flattening
	Type     ast.Expr
	Node     *ast.Field // enclosing field: doc, line comment, tag
	Embedded bool
}

// Fields is the classified field list of a struct declaration.
type Fields struct {
	Kind FieldKind
	List []Field
}

// NamedFields extracts the fields of a struct whose fields all carry
// explicit names, in declaration order. A zero-field struct yields an empty
// slice: having no fields is not the same as having the wrong shape.
// Non-structs and structs containing embedded fields fail with a
// diagnostic error naming the type.
func (in *Input) NamedFields() ([]Field, error) {
	st, ok := in.Struct()
	if !ok {
		return nil, diag.FromNode(in.Fset, in.Spec, ErrNotStruct, in.Name)
	}
	fields := []Field{}
	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			return nil, diag.FromNode(in.Fset, f, ErrEmbeddedField, in.Name)
		}
		for _, name := range f.Names {
			fields = append(fields, Field{
				Name:  name.Name,
				Index: len(fields),
				Type:  f.Type,
				Node:  f,
			})
		}
	}
	return fields, nil
}

// UnnamedFields extracts the fields of a struct consisting entirely of
// embedded fields, the positional dual of NamedFields. Field names are the
// embedded type's effective name. Non-structs, structs with any named
// field, and zero-field structs fail with a diagnostic error.
func (in *Input) UnnamedFields() ([]Field, error) {
	st, ok := in.Struct()
	if !ok {
		return nil, diag.FromNode(in.Fset, in.Spec, ErrNotStruct, in.Name)
	}
	if len(st.Fields.List) == 0 {
		return nil, diag.FromNode(in.Fset, in.Spec, ErrNoFields, in.Name)
	}
	fields := make([]Field, 0, len(st.Fields.List))
	for _, f := range st.Fields.List {
		if len(f.Names) > 0 {
			return nil, diag.FromNode(in.Fset, f, ErrNamedField, in.Name)
		}
		fields = append(fields, Field{
			Name:     embeddedName(f.Type),
			Index:    len(fields),
			Type:     f.Type,
			Node:     f,
			Embedded: true,
		})
	}
	return fields, nil
}

// Fields classifies a struct's shape instead of rejecting it: zero fields
// is unit, all embedded is unnamed, anything else is named (embedded
// members of a mixed struct appear under their effective names). Only a
// non-struct declaration is an error.
func (in *Input) Fields() (Fields, error) {
	st, ok := in.Struct()
	if !ok {
		return Fields{}, diag.FromNode(in.Fset, in.Spec, ErrNotStruct, in.Name)
	}
	if len(st.Fields.List) == 0 {
		return Fields{Kind: KindUnit, List: []Field{}}, nil
	}

	allEmbedded := true
	for _, f := range st.Fields.List {
		if len(f.Names) > 0 {
			allEmbedded = false
			break
		}
	}
	if allEmbedded {
		list, err := in.UnnamedFields()
		if err != nil {
			return Fields{}, err
		}
		return Fields{Kind: KindUnnamed, List: list}, nil
	}

	list := []Field{}
	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			list = append(list, Field{
				Name:     embeddedName(f.Type),
				Index:    len(list),
				Type:     f.Type,
				Node:     f,
				Embedded: true,
			})
			continue
		}
		for _, name := range f.Names {
			list = append(list, Field{
				Name:  name.Name,
				Index: len(list),
				Type:  f.Type,
				Node:  f,
			})
		}
	}
	return Fields{Kind: KindNamed, List: list}, nil
}

// embeddedName derives the effective name of an embedded field: the final
// path segment after stripping any pointer and instantiation.
func embeddedName(e ast.Expr) string {
	if inner, ok := typexpr.UnwrapPointer(e); ok {
		e = inner
	}
	if last, ok := typexpr.Last(e); ok {
		return last
	}
	return ""
}

// Tag looks up a struct-tag key on the field, with reflect.StructTag
// semantics. Absence covers both a missing tag and a missing key.
func (f Field) Tag(key string) (string, bool) {
	if f.Node == nil || f.Node.Tag == nil {
		return "", false
	}
	raw, err := strconv.Unquote(f.Node.Tag.Value)
	if err != nil {
		return "", false
	}
	return reflect.StructTag(raw).Lookup(key)
}

// Doc returns the field's doc comment text.
func (f Field) Doc() string {
	if f.Node == nil || f.Node.Doc == nil {
		return ""
	}
	return strings.TrimSpace(f.Node.Doc.Text())
}

// Comment returns the field's line comment text.
func (f Field) Comment() string {
	if f.Node == nil || f.Node.Comment == nil {
		return ""
	}
	return strings.TrimSpace(f.Node.Comment.Text())
}
