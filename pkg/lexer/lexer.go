// Package lexer tokenizes short C and C++ fragments: declaration specifiers,
// function signatures and already-extracted function body statements.
package lexer

import (
	"unicode"
)

// Lexer tokenizes C/C++ fragment text
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // next reading position
	ch      byte // current character
	line    int
	column  int
}

// New creates a new Lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// Tokenize returns every token in input, ending with TokenEOF
func Tokenize(input string) []Token {
	l := New(input)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			return toks
		}
	}
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.column++

	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// punctuator reads the longest operator or delimiter at the current position
func (l *Lexer) punctuator() (Token, bool) {
	for n := maxPunctuator; n > 0; n-- {
		if l.pos+n > len(l.input) {
			continue
		}
		lit := l.input[l.pos : l.pos+n]
		t, ok := punctuators[lit]
		if !ok {
			continue
		}
		tok := Token{Type: t, Literal: lit, Line: l.line, Column: l.column}
		for i := 1; i < n; i++ {
			l.readChar()
		}
		return tok, true
	}
	return Token{}, false
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	l.skipComments()
	l.skipWhitespace()

	start := l.pos
	tok := l.scan()
	tok.Offset = start
	return tok
}

// Source returns the text being tokenized
func (l *Lexer) Source() string {
	return l.input
}

func (l *Lexer) scan() Token {
	tok := Token{Line: l.line, Column: l.column}

	switch {
	case l.ch == 0:
		tok.Type = TokenEOF
		return tok
	case l.ch == '.' && isDigit(l.peekChar()):
		tok.Type = TokenFloat
		tok.Literal = l.readNumber()
		return tok
	case l.ch == '"':
		tok.Type = TokenString
		tok.Literal = l.readQuoted('"')
		return tok
	case l.ch == '\'':
		tok.Type = TokenChar
		tok.Literal = l.readQuoted('\'')
		return tok
	case isLetter(l.ch):
		tok.Literal = l.readIdentifier()
		tok.Type = LookupIdent(tok.Literal)
		return tok
	case isDigit(l.ch):
		tok.Literal = l.readNumber()
		tok.Type = numberType(tok.Literal)
		return tok
	}

	if p, ok := l.punctuator(); ok {
		tok = p
	} else {
		tok = l.newToken(TokenIllegal, l.ch)
	}
	l.readChar()
	return tok
}

func (l *Lexer) newToken(tokenType TokenType, ch byte) Token {
	return Token{Type: tokenType, Literal: string(ch), Line: l.line, Column: l.column}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) skipComments() {
	for l.ch == '/' {
		if l.peekChar() == '/' {
			// Single-line comment
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			l.skipWhitespace()
		} else if l.peekChar() == '*' {
			// Multi-line comment
			l.readChar() // consume /
			l.readChar() // consume *
			for {
				if l.ch == 0 {
					break
				}
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar() // consume *
					l.readChar() // consume /
					break
				}
				l.readChar()
			}
			l.skipWhitespace()
		} else {
			break
		}
	}
}

func (l *Lexer) readIdentifier() string {
	pos := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

// readNumber reads decimal, hex and floating literals including suffixes (10UL, 1.5f, 2e-3)
func (l *Lexer) readNumber() string {
	pos := l.pos
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) {
			l.readChar()
		}
	} else {
		for isDigit(l.ch) || l.ch == '.' {
			l.readChar()
		}
		if l.ch == 'e' || l.ch == 'E' {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	for l.ch == 'u' || l.ch == 'U' || l.ch == 'l' || l.ch == 'L' || l.ch == 'f' || l.ch == 'F' {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

func (l *Lexer) readQuoted(quote byte) string {
	l.readChar() // consume opening quote
	pos := l.pos
	for l.ch != quote && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar() // skip escape char
		}
		l.readChar()
	}
	str := l.input[pos:l.pos]
	l.readChar() // consume closing quote
	return str
}

func numberType(lit string) TokenType {
	if len(lit) > 1 && (lit[1] == 'x' || lit[1] == 'X') {
		return TokenInt
	}
	for i := 0; i < len(lit); i++ {
		switch lit[i] {
		case '.', 'e', 'E', 'f', 'F':
			return TokenFloat
		}
	}
	return TokenInt
}

func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}
