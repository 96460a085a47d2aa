package lexer

// TokenType identifies the lexical class of a token.
type TokenType int

const (
	// TokenEOF marks the end of input. It carries the position just past the
	// last token so "unexpected end of file" can point somewhere.
	TokenEOF TokenType = iota

	// TokenInvalid is returned together with a lexical error.
	TokenInvalid

	// Literals and names
	TokenInteger
	TokenIdentifier

	// Keywords
	TokenImport
	TokenStatic
	TokenClass
	TokenExtends
	TokenPublic
	TokenVoid
	TokenReturn
	TokenIf
	TokenElse
	TokenWhile
	TokenInt
	TokenBoolean
	TokenTrue
	TokenFalse
	TokenThis
	TokenNew
	TokenLength

	// Operators
	TokenAnd    // &&
	TokenLess   // <
	TokenPlus   // +
	TokenMinus  // -
	TokenStar   // *
	TokenSlash  // /
	TokenNot    // !
	TokenAssign // =

	// Delimiters
	TokenLeftParen
	TokenRightParen
	TokenLeftBrace
	TokenRightBrace
	TokenLeftBracket
	TokenRightBracket
	TokenSemicolon
	TokenComma
	TokenDot
)

var tokenNames = map[TokenType]string{
	TokenEOF:          "<EOF>",
	TokenInvalid:      "<invalid>",
	TokenInteger:      "<INTEGER_LITERAL>",
	TokenIdentifier:   "<IDENTIFIER>",
	TokenImport:       "\"import\"",
	TokenStatic:       "\"static\"",
	TokenClass:        "\"class\"",
	TokenExtends:      "\"extends\"",
	TokenPublic:       "\"public\"",
	TokenVoid:         "\"void\"",
	TokenReturn:       "\"return\"",
	TokenIf:           "\"if\"",
	TokenElse:         "\"else\"",
	TokenWhile:        "\"while\"",
	TokenInt:          "\"int\"",
	TokenBoolean:      "\"boolean\"",
	TokenTrue:         "\"true\"",
	TokenFalse:        "\"false\"",
	TokenThis:         "\"this\"",
	TokenNew:          "\"new\"",
	TokenLength:       "\"length\"",
	TokenAnd:          "\"&&\"",
	TokenLess:         "\"<\"",
	TokenPlus:         "\"+\"",
	TokenMinus:        "\"-\"",
	TokenStar:         "\"*\"",
	TokenSlash:        "\"/\"",
	TokenNot:          "\"!\"",
	TokenAssign:       "\"=\"",
	TokenLeftParen:    "\"(\"",
	TokenRightParen:   "\")\"",
	TokenLeftBrace:    "\"{\"",
	TokenRightBrace:   "\"}\"",
	TokenLeftBracket:  "\"[\"",
	TokenRightBracket: "\"]\"",
	TokenSemicolon:    "\";\"",
	TokenComma:        "\",\"",
	TokenDot:          "\".\"",
}

// String returns the token type the way it is listed in "expected"
// alternatives of a syntax error: quoted for fixed spellings, angle
// brackets for token classes.
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return "<unknown>"
}

// IsKeyword reports whether tt is a reserved word.
func (tt TokenType) IsKeyword() bool {
	return tt >= TokenImport && tt <= TokenLength
}

// IsOperator reports whether tt is an expression operator.
func (tt TokenType) IsOperator() bool {
	return tt >= TokenAnd && tt <= TokenAssign
}

var keywords = map[string]TokenType{
	"import":  TokenImport,
	"static":  TokenStatic,
	"class":   TokenClass,
	"extends": TokenExtends,
	"public":  TokenPublic,
	"void":    TokenVoid,
	"return":  TokenReturn,
	"if":      TokenIf,
	"else":    TokenElse,
	"while":   TokenWhile,
	"int":     TokenInt,
	"boolean": TokenBoolean,
	"true":    TokenTrue,
	"false":   TokenFalse,
	"this":    TokenThis,
	"new":     TokenNew,
	"length":  TokenLength,
}

// LookupKeyword returns the keyword token type for identifier, or
// TokenIdentifier if it is not reserved.
func LookupKeyword(identifier string) TokenType {
	if tokenType, ok := keywords[identifier]; ok {
		return tokenType
	}
	return TokenIdentifier
}

// Token is one lexeme with its position.
type Token struct {
	Type     TokenType
	Lexeme   string
	Position Position
	Length   int
}

// String returns "TYPE(lexeme) at position", for debugging.
func (t Token) String() string {
	return t.Type.String() + "(" + t.Lexeme + ") at " + t.Position.String()
}
