package lexer

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenIllegal

	// Literals
	TokenIdent  // count, grib_handle, std
	TokenInt    // 42, 0x1F, 10UL
	TokenFloat  // 1.5, 2e10
	TokenString // "hello"
	TokenChar   // 'a'

	// Keywords
	TokenInt_     // int
	TokenVoid     // void
	TokenReturn   // return
	TokenIf       // if
	TokenElse     // else
	TokenTypedef  // typedef
	TokenStruct   // struct
	TokenSizeof   // sizeof
	TokenUnion    // union
	TokenEnum     // enum
	TokenStatic   // static
	TokenExtern   // extern
	TokenAuto     // auto
	TokenRegister // register
	TokenConst    // const
	TokenVolatile // volatile
	TokenRestrict // restrict
	TokenChar_    // char
	TokenShort    // short
	TokenLong     // long
	TokenFloat_   // float
	TokenDouble   // double
	TokenSigned   // signed
	TokenUnsigned // unsigned
	TokenBool     // bool

	// Operators
	TokenPlus      // +
	TokenMinus     // -
	TokenStar      // *
	TokenSlash     // /
	TokenPercent   // %
	TokenAssign    // =
	TokenEq        // ==
	TokenNe        // !=
	TokenLt        // <
	TokenLe        // <=
	TokenGt        // >
	TokenGe        // >=
	TokenAnd       // &&
	TokenOr        // ||
	TokenNot       // !
	TokenAmpersand // &
	TokenPipe      // |
	TokenCaret     // ^
	TokenTilde     // ~
	TokenShl       // <<
	TokenShr       // >>
	TokenQuestion  // ?
	TokenColon     // :
	TokenScope     // ::

	// Compound assignment operators
	TokenPlusAssign    // +=
	TokenMinusAssign   // -=
	TokenStarAssign    // *=
	TokenSlashAssign   // /=
	TokenPercentAssign // %=
	TokenAndAssign     // &=
	TokenOrAssign      // |=
	TokenXorAssign     // ^=
	TokenShlAssign     // <<=
	TokenShrAssign     // >>=

	// Increment/decrement
	TokenIncrement // ++
	TokenDecrement // --

	// Delimiters
	TokenLParen    // (
	TokenRParen    // )
	TokenLBrace    // {
	TokenRBrace    // }
	TokenLBracket  // [
	TokenRBracket  // ]
	TokenSemicolon // ;
	TokenComma     // ,
	TokenDot       // .
	TokenArrow     // ->
)

// punctuators maps operator and delimiter spellings to token types
var punctuators = map[string]TokenType{
	"+": TokenPlus, "-": TokenMinus, "*": TokenStar, "/": TokenSlash, "%": TokenPercent,
	"=": TokenAssign, "==": TokenEq, "!=": TokenNe,
	"<": TokenLt, "<=": TokenLe, ">": TokenGt, ">=": TokenGe,
	"&&": TokenAnd, "||": TokenOr, "!": TokenNot,
	"&": TokenAmpersand, "|": TokenPipe, "^": TokenCaret, "~": TokenTilde,
	"<<": TokenShl, ">>": TokenShr, "?": TokenQuestion, ":": TokenColon, "::": TokenScope,
	"+=": TokenPlusAssign, "-=": TokenMinusAssign, "*=": TokenStarAssign, "/=": TokenSlashAssign,
	"%=": TokenPercentAssign, "&=": TokenAndAssign, "|=": TokenOrAssign, "^=": TokenXorAssign,
	"<<=": TokenShlAssign, ">>=": TokenShrAssign,
	"++": TokenIncrement, "--": TokenDecrement,
	"(": TokenLParen, ")": TokenRParen, "{": TokenLBrace, "}": TokenRBrace,
	"[": TokenLBracket, "]": TokenRBracket, ";": TokenSemicolon, ",": TokenComma,
	".": TokenDot, "->": TokenArrow,
}

// maxPunctuator is the length of the longest punctuator spelling
const maxPunctuator = 3

var tokenNames = map[TokenType]string{
	TokenEOF:     "EOF",
	TokenIllegal: "ILLEGAL",
	TokenIdent:   "IDENT",
	TokenInt:     "INT",
	TokenFloat:   "FLOAT",
	TokenString:  "STRING",
	TokenChar:    "CHAR",
}

func init() {
	for word, t := range keywords {
		tokenNames[t] = word
	}
	for spelling, t := range punctuators {
		tokenNames[t] = spelling
	}
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
	Offset  int // byte offset of the first character in the source
}

// keywords maps keyword strings to token types
var keywords = map[string]TokenType{
	"int":      TokenInt_,
	"void":     TokenVoid,
	"return":   TokenReturn,
	"if":       TokenIf,
	"else":     TokenElse,
	"typedef":  TokenTypedef,
	"struct":   TokenStruct,
	"sizeof":   TokenSizeof,
	"union":    TokenUnion,
	"enum":     TokenEnum,
	"static":   TokenStatic,
	"extern":   TokenExtern,
	"auto":     TokenAuto,
	"register": TokenRegister,
	"const":    TokenConst,
	"volatile": TokenVolatile,
	"restrict": TokenRestrict,
	"char":     TokenChar_,
	"short":    TokenShort,
	"long":     TokenLong,
	"float":    TokenFloat_,
	"double":   TokenDouble,
	"signed":   TokenSigned,
	"unsigned": TokenUnsigned,
	"bool":     TokenBool,
}

// LookupIdent returns the token type for an identifier (keyword or IDENT)
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdent
}

// IsBuiltinType reports whether t is a keyword that names (part of) a builtin type
func (t TokenType) IsBuiltinType() bool {
	switch t {
	case TokenInt_, TokenVoid, TokenChar_, TokenShort, TokenLong, TokenFloat_,
		TokenDouble, TokenSigned, TokenUnsigned, TokenBool:
		return true
	}
	return false
}

// IsStorageClass reports whether t is a storage class specifier
func (t TokenType) IsStorageClass() bool {
	switch t {
	case TokenStatic, TokenExtern, TokenAuto, TokenRegister, TokenTypedef:
		return true
	}
	return false
}

// Precedence returns the binding strength of t as a binary operator, or 0
// when t is not one. Assignment and the conditional operator are handled
// separately by the parser.
func (t TokenType) Precedence() int {
	switch t {
	case TokenOr:
		return 1
	case TokenAnd:
		return 2
	case TokenPipe:
		return 3
	case TokenCaret:
		return 4
	case TokenAmpersand:
		return 5
	case TokenEq, TokenNe:
		return 6
	case TokenLt, TokenLe, TokenGt, TokenGe:
		return 7
	case TokenShl, TokenShr:
		return 8
	case TokenPlus, TokenMinus:
		return 9
	case TokenStar, TokenSlash, TokenPercent:
		return 10
	}
	return 0
}

// IsAssignment reports whether t is a plain or compound assignment operator
func (t TokenType) IsAssignment() bool {
	switch t {
	case TokenAssign, TokenPlusAssign, TokenMinusAssign, TokenStarAssign, TokenSlashAssign,
		TokenPercentAssign, TokenAndAssign, TokenOrAssign, TokenXorAssign, TokenShlAssign,
		TokenShrAssign:
		return true
	}
	return false
}
