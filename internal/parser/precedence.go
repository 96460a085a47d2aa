package parser

import (
	"github.com/hassan/jmm/internal/lexer"
	"github.com/hassan/jmm/internal/parser/ast"
)

// Precedence is the binding strength of a binary operator; higher binds
// tighter.
type Precedence int

const (
	PrecNone    Precedence = iota
	PrecAnd                // &&
	PrecLess               // <
	PrecTerm               // + -
	PrecFactor             // * /
	PrecUnary              // !
	PrecPostfix            // [] .length .m()
)

// getPrecedence returns the precedence of a binary operator token, or
// PrecNone if the token does not continue a binary expression.
func getPrecedence(tokenType lexer.TokenType) Precedence {
	switch tokenType {
	case lexer.TokenAnd:
		return PrecAnd
	case lexer.TokenLess:
		return PrecLess
	case lexer.TokenPlus, lexer.TokenMinus:
		return PrecTerm
	case lexer.TokenStar, lexer.TokenSlash:
		return PrecFactor
	case lexer.TokenDot, lexer.TokenLeftBracket:
		return PrecPostfix
	default:
		return PrecNone
	}
}

// binaryKind maps an operator token to the parse tree kind it produces.
func binaryKind(tokenType lexer.TokenType) ast.Kind {
	switch tokenType {
	case lexer.TokenAnd:
		return ast.KindAnd
	case lexer.TokenLess:
		return ast.KindLess
	case lexer.TokenPlus:
		return ast.KindAdd
	case lexer.TokenMinus:
		return ast.KindSub
	case lexer.TokenStar:
		return ast.KindMul
	case lexer.TokenSlash:
		return ast.KindDiv
	default:
		return ast.KindInvalid
	}
}
