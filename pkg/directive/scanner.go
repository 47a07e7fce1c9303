package directive

import (
	"fmt"
	"go/token"
)

// TokenType identifies an argument token.
type TokenType int

const (
	TokenIllegal TokenType = iota
	TokenEOF
	TokenIdent
	TokenString
	TokenInt
	TokenFloat
	TokenAssign
	TokenComma
)

var tokenNames = map[TokenType]string{
	TokenIllegal: "illegal",
	TokenEOF:     "end of arguments",
	TokenIdent:   "identifier",
	TokenString:  "string",
	TokenInt:     "integer",
	TokenFloat:   "float",
	TokenAssign:  "=",
	TokenComma:   ",",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "unknown"
}

// Token is one lexical unit of a directive's argument text.
type Token struct {
	Type    TokenType
	Literal string // raw literal as written, quotes included for strings
	Pos     token.Position
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF, TokenAssign, TokenComma:
		return t.Type.String()
	}
	return fmt.Sprintf("%s %q", t.Type, t.Literal)
}

// Scanner tokenizes directive argument text. Arguments live on a single
// comment line, so positions are rebased onto the base position of the
// argument text within its file.
type Scanner struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination

	base token.Position
}

// NewScanner creates a Scanner over argument text starting at base.
func NewScanner(input string, base token.Position) *Scanner {
	s := &Scanner{input: input, base: base}
	s.readChar()
	return s
}

// readChar advances to the next character.
func (s *Scanner) readChar() {
	if s.readPos >= len(s.input) {
		s.ch = 0 // ASCII NUL = EOF
	} else {
		s.ch = s.input[s.readPos]
	}
	s.pos = s.readPos
	s.readPos++
}

// peekChar returns the next character without advancing.
func (s *Scanner) peekChar() byte {
	if s.readPos >= len(s.input) {
		return 0
	}
	return s.input[s.readPos]
}

// currentPos returns the file position of the current character.
func (s *Scanner) currentPos() token.Position {
	if !s.base.IsValid() {
		return token.Position{}
	}
	return token.Position{
		Filename: s.base.Filename,
		Line:     s.base.Line,
		Column:   s.base.Column + s.pos,
		Offset:   s.base.Offset + s.pos,
	}
}

func (s *Scanner) skipWhitespace() {
	for s.ch == ' ' || s.ch == '\t' {
		s.readChar()
	}
}

// Next returns the next token.
func (s *Scanner) Next() Token {
	s.skipWhitespace()

	pos := s.currentPos()

	switch {
	case s.ch == 0:
		return Token{Type: TokenEOF, Pos: pos}
	case s.ch == '=':
		s.readChar()
		return Token{Type: TokenAssign, Literal: "=", Pos: pos}
	case s.ch == ',':
		s.readChar()
		return Token{Type: TokenComma, Literal: ",", Pos: pos}
	case s.ch == '"' || s.ch == '`':
		return s.readString(pos)
	case isDigit(s.ch) || (s.ch == '-' && isDigit(s.peekChar())):
		return s.readNumber(pos)
	case isLetter(s.ch):
		return Token{Type: TokenIdent, Literal: s.readIdentifier(), Pos: pos}
	}

	ch := s.ch
	s.readChar()
	return Token{Type: TokenIllegal, Literal: string(ch), Pos: pos}
}

// readString reads a quoted literal, quotes included. An unterminated
// string yields an illegal token holding the remainder.
func (s *Scanner) readString(pos token.Position) Token {
	quote := s.ch
	start := s.pos
	s.readChar()
	for s.ch != 0 {
		if s.ch == '\\' && quote == '"' {
			s.readChar() // keep escaped quotes inside the literal
			s.readChar()
			continue
		}
		if s.ch == quote {
			s.readChar()
			return Token{Type: TokenString, Literal: s.input[start:s.pos], Pos: pos}
		}
		s.readChar()
	}
	return Token{Type: TokenIllegal, Literal: s.input[start:], Pos: pos}
}

// readNumber reads a decimal literal with an optional fraction.
func (s *Scanner) readNumber(pos token.Position) Token {
	start := s.pos
	if s.ch == '-' {
		s.readChar()
	}
	isFloat := false
	for isDigit(s.ch) || (s.ch == '.' && !isFloat && isDigit(s.peekChar())) {
		if s.ch == '.' {
			isFloat = true
		}
		s.readChar()
	}
	typ := TokenInt
	if isFloat {
		typ = TokenFloat
	}
	return Token{Type: typ, Literal: s.input[start:s.pos], Pos: pos}
}

// readIdentifier reads a letter-led run of letters and digits.
func (s *Scanner) readIdentifier() string {
	start := s.pos
	for isLetter(s.ch) || isDigit(s.ch) {
		s.readChar()
	}
	return s.input[start:s.pos]
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
