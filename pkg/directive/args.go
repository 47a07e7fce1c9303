package directive

import (
	"go/ast"
	"go/token"
	"strconv"

	"github.com/leapstack-labs/synkit/pkg/diag"
)

// Common diagnostic messages.
const (
	ErrExpectedKey    = "expected argument name, found %s"
	ErrExpectedAssign = "expected = after %q, found %s"
	ErrExpectedValue  = "expected identifier or literal, found %s"
	ErrExpectedSep    = "expected comma or end of arguments, found %s"
	ErrInvalidString  = "invalid string literal %s"
	ErrNoArguments    = "directive %s has no arguments"
	ErrKeyNotFound    = "directive %s has no argument %q"
	ErrExpectedIdent  = "expected //%s:%s <identifier>"
)

// ValueKind identifies the shape of an extracted argument value.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueInt
	ValueFloat
	ValueIdent
)

func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueInt:
		return "int"
	case ValueFloat:
		return "float"
	case ValueIdent:
		return "ident"
	}
	return "unknown"
}

// Value is one extracted argument value. Text holds the cooked form:
// strings are unquoted, numbers and identifiers appear as written.
type Value struct {
	Kind ValueKind
	Pos  token.Position
	Text string
}

// Ident returns the value's text when it is an identifier.
func (v Value) Ident() (string, bool) {
	if v.Kind != ValueIdent {
		return "", false
	}
	return v.Text, true
}

// First extracts the leading positional argument, which must be a literal
// or an identifier. Anything after it is not inspected. An empty argument
// list or a leading token of another shape fails with a diagnostic error.
func (d Directive) First() (Value, error) {
	s := NewScanner(d.Args, d.argsPos)
	tok := s.Next()
	if tok.Type == TokenEOF {
		return Value{}, diag.Newf(d.Pos, ErrNoArguments, d)
	}
	return valueOf(tok)
}

// KeyValue extracts the value bound to key in a name = value argument
// list. Malformed list syntax and a missing key both fail with a
// diagnostic error: a well-formed list that lacks the requested key is
// still malformed for the caller's purpose. Use Lookup to treat a missing
// key as absence instead.
func (d Directive) KeyValue(key string) (Value, error) {
	v, ok, err := d.Lookup(key)
	if err != nil {
		return Value{}, err
	}
	if !ok {
		return Value{}, diag.Newf(d.Pos, ErrKeyNotFound, d, key)
	}
	return v, nil
}

// Lookup extracts the value bound to key, reporting false when the
// argument list is well-formed but does not bind key. Malformed syntax
// still fails with a diagnostic error.
func (d Directive) Lookup(key string) (Value, bool, error) {
	found := Value{}
	ok := false

	s := NewScanner(d.Args, d.argsPos)
	tok := s.Next()
	for tok.Type != TokenEOF {
		if tok.Type != TokenIdent {
			return Value{}, false, diag.Newf(tok.Pos, ErrExpectedKey, tok)
		}
		name := tok

		tok = s.Next()
		if tok.Type != TokenAssign {
			return Value{}, false, diag.Newf(tok.Pos, ErrExpectedAssign, name.Literal, tok)
		}

		tok = s.Next()
		v, err := valueOf(tok)
		if err != nil {
			return Value{}, false, err
		}
		if !ok && name.Literal == key {
			found, ok = v, true
		}

		tok = s.Next()
		switch tok.Type {
		case TokenComma:
			tok = s.Next()
		case TokenEOF:
		default:
			return Value{}, false, diag.Newf(tok.Pos, ErrExpectedSep, tok)
		}
	}
	return found, ok, nil
}

// valueOf converts a scanned token into a Value, unquoting strings.
func valueOf(tok Token) (Value, error) {
	v := Value{Pos: tok.Pos, Text: tok.Literal}
	switch tok.Type {
	case TokenString:
		text, err := strconv.Unquote(tok.Literal)
		if err != nil {
			return Value{}, diag.Newf(tok.Pos, ErrInvalidString, tok.Literal)
		}
		v.Kind = ValueString
		v.Text = text
	case TokenInt:
		v.Kind = ValueInt
	case TokenFloat:
		v.Kind = ValueFloat
	case TokenIdent:
		v.Kind = ValueIdent
	default:
		return Value{}, diag.Newf(tok.Pos, ErrExpectedValue, tok)
	}
	return v, nil
}

// Ident scans a field's directives for //namespace:name <identifier> and
// returns the identifier value. The contract is three-way: nil with no
// error when no such directive exists, the value when it is well-formed,
// and a diagnostic error when the directive is present but its argument is
// not exactly one identifier. The first matching directive wins.
func Ident(fset *token.FileSet, field *ast.Field, namespace, name string) (*Value, error) {
	for _, d := range FromField(fset, field) {
		if !d.Is(namespace, name) {
			continue
		}
		s := NewScanner(d.Args, d.argsPos)
		tok := s.Next()
		if tok.Type != TokenIdent {
			return nil, diag.Newf(d.Pos, ErrExpectedIdent, namespace, name)
		}
		if end := s.Next(); end.Type != TokenEOF {
			return nil, diag.Newf(end.Pos, ErrExpectedIdent, namespace, name)
		}
		v, err := valueOf(tok)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
	return nil, nil
}
