// Package parser implements the front end's recursive descent parser.
//
// Statements and declarations are parsed by recursive descent; binary
// expressions by precedence climbing over the table in precedence.go. The
// parser builds the tagged tree of package ast.
//
// There is no error recovery: the first syntax error aborts the parse and is
// returned as a *SyntaxError listing the token classes that would have been
// accepted at that point.
package parser

import (
	"fmt"
	"strings"

	"github.com/hassan/jmm/internal/lexer"
	"github.com/hassan/jmm/internal/parser/ast"
)

// SyntaxError describes the first token the grammar could not accept.
type SyntaxError struct {
	Pos      lexer.Position
	Found    string
	Expected []string
	Message  string
}

func (e *SyntaxError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Pos.String())
	sb.WriteString(": syntax error: ")
	if e.Message != "" {
		sb.WriteString(e.Message)
	} else {
		sb.WriteString("found ")
		sb.WriteString(e.Found)
	}
	if len(e.Expected) == 1 {
		sb.WriteString(", was expecting ")
		sb.WriteString(e.Expected[0])
	} else if len(e.Expected) > 1 {
		sb.WriteString(", was expecting one of: ")
		sb.WriteString(strings.Join(e.Expected, ", "))
	}
	return sb.String()
}

// Parser consumes a token slice produced by the lexer.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// New creates a parser over tokens, which must end with a TokenEOF.
func New(tokens []lexer.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != lexer.TokenEOF {
		tokens = append(tokens, lexer.Token{Type: lexer.TokenEOF})
	}
	return &Parser{tokens: tokens}
}

// Parse lexes and parses a whole source file.
func Parse(source, filename string) (*ast.Node, error) {
	tokens, err := lexer.New(source, filename).Tokenize()
	if err != nil {
		return nil, err
	}
	return New(tokens).ParseProgram()
}

// ParseProgram parses a complete compilation unit.
//
//	program = import* class+ EOF
func (p *Parser) ParseProgram() (prog *ast.Node, err error) {
	defer p.recoverSyntax(&err)

	prog = ast.New(ast.KindProgram, "", p.current().Position)
	for p.check(lexer.TokenImport) {
		prog.Add(p.parseImport())
	}
	if !p.check(lexer.TokenClass) {
		p.fail(lexer.TokenImport, lexer.TokenClass)
	}
	for p.check(lexer.TokenClass) {
		prog.Add(p.parseClass())
	}
	p.expect(lexer.TokenEOF)
	return prog, nil
}

// ParseExpression parses a single expression followed by end of input. It is
// mostly useful to tests and tools that build trees piecemeal.
func (p *Parser) ParseExpression() (expr *ast.Node, err error) {
	defer p.recoverSyntax(&err)

	expr = p.parseExpression()
	p.expect(lexer.TokenEOF)
	return expr, nil
}

func (p *Parser) recoverSyntax(err *error) {
	if r := recover(); r != nil {
		se, ok := r.(*SyntaxError)
		if !ok {
			panic(r)
		}
		*err = se
	}
}

// parseImport parses
//
//	import = "import" ["static"] Id ["." Id "(" [type {"," type}] ")" [type | "void"]] ";"
func (p *Parser) parseImport() *ast.Node {
	importTok := p.expect(lexer.TokenImport)
	kind := ast.KindImport
	if p.match(lexer.TokenStatic) {
		kind = ast.KindStaticImport
	}
	class := p.expect(lexer.TokenIdentifier)
	node := ast.New(kind, class.Lexeme, importTok.Position)

	if p.match(lexer.TokenDot) {
		method := p.expect(lexer.TokenIdentifier)
		p.expect(lexer.TokenLeftParen)
		params := ast.New(ast.KindParams, "", p.current().Position)
		if !p.check(lexer.TokenRightParen) {
			params.Add(p.parseType())
			for p.match(lexer.TokenComma) {
				params.Add(p.parseType())
			}
		}
		p.expect(lexer.TokenRightParen)

		var ret *ast.Node
		switch {
		case p.check(lexer.TokenVoid):
			ret = ast.New(ast.KindType, "void", p.advance().Position)
		case p.isTypeStart():
			ret = p.parseType()
		default:
			ret = ast.New(ast.KindType, "void", p.current().Position)
		}
		node.Add(ast.New(ast.KindIdentifier, method.Lexeme, method.Position), params, ret)
	}

	p.expect(lexer.TokenSemicolon)
	return node
}

// parseClass parses
//
//	class = "class" Id ["extends" Id] "{" varDecl* (method | main)* "}"
func (p *Parser) parseClass() *ast.Node {
	p.expect(lexer.TokenClass)
	name := p.expect(lexer.TokenIdentifier)
	class := ast.New(ast.KindClass, name.Lexeme, name.Position)

	if p.match(lexer.TokenExtends) {
		super := p.expect(lexer.TokenIdentifier)
		class.Add(ast.New(ast.KindExtends, super.Lexeme, super.Position))
	}

	p.expect(lexer.TokenLeftBrace)
	for p.isTypeStart() {
		class.Add(p.parseVarDecl())
	}
	for p.check(lexer.TokenPublic) {
		class.Add(p.parseMethod())
	}
	if !p.check(lexer.TokenRightBrace) {
		p.fail(lexer.TokenPublic, lexer.TokenRightBrace)
	}
	p.advance()
	return class
}

// parseVarDecl parses: type Id ";"
func (p *Parser) parseVarDecl() *ast.Node {
	typ := p.parseType()
	name := p.expect(lexer.TokenIdentifier)
	p.expect(lexer.TokenSemicolon)
	return ast.New(ast.KindVarDecl, name.Lexeme, name.Position, typ)
}

// parseType parses: "int" "[" "]" | "int" | "boolean" | Id
func (p *Parser) parseType() *ast.Node {
	tok := p.current()
	switch tok.Type {
	case lexer.TokenInt:
		p.advance()
		if p.match(lexer.TokenLeftBracket) {
			p.expect(lexer.TokenRightBracket)
			return ast.New(ast.KindType, "int[]", tok.Position)
		}
		return ast.New(ast.KindType, "int", tok.Position)
	case lexer.TokenBoolean:
		p.advance()
		return ast.New(ast.KindType, "boolean", tok.Position)
	case lexer.TokenIdentifier:
		p.advance()
		return ast.New(ast.KindType, tok.Lexeme, tok.Position)
	}
	p.fail(lexer.TokenInt, lexer.TokenBoolean, lexer.TokenIdentifier)
	return nil
}

func (p *Parser) isTypeStart() bool {
	switch p.current().Type {
	case lexer.TokenInt, lexer.TokenBoolean, lexer.TokenIdentifier:
		return true
	}
	return false
}

// isVarDeclStart distinguishes "Foo x;" from a statement starting with an
// identifier, which needs one token of extra lookahead.
func (p *Parser) isVarDeclStart() bool {
	switch p.current().Type {
	case lexer.TokenInt, lexer.TokenBoolean:
		return true
	case lexer.TokenIdentifier:
		return p.peek(1).Type == lexer.TokenIdentifier
	}
	return false
}

// parseMethod parses either form of class method:
//
//	method = "public" type Id "(" params ")" "{" varDecl* stmt* "return" expr ";" "}"
//	main   = "public" "static" "void" "main" "(" "String" "[" "]" Id ")" "{" varDecl* stmt* "}"
func (p *Parser) parseMethod() *ast.Node {
	p.expect(lexer.TokenPublic)
	if p.match(lexer.TokenStatic) {
		return p.parseMain()
	}

	ret := p.parseType()
	name := p.expect(lexer.TokenIdentifier)
	method := ast.New(ast.KindMethod, name.Lexeme, name.Position, ret)

	p.expect(lexer.TokenLeftParen)
	params := ast.New(ast.KindParams, "", p.current().Position)
	if !p.check(lexer.TokenRightParen) {
		params.Add(p.parseParam())
		for p.match(lexer.TokenComma) {
			params.Add(p.parseParam())
		}
	}
	p.expect(lexer.TokenRightParen)
	method.Add(params)

	p.expect(lexer.TokenLeftBrace)
	method.Add(p.parseBody(lexer.TokenReturn))
	returnTok := p.expect(lexer.TokenReturn)
	method.Add(ast.New(ast.KindReturn, "", returnTok.Position, p.parseExpression()))
	p.expect(lexer.TokenSemicolon)
	p.expect(lexer.TokenRightBrace)
	return method
}

func (p *Parser) parseParam() *ast.Node {
	typ := p.parseType()
	name := p.expect(lexer.TokenIdentifier)
	return ast.New(ast.KindParam, name.Lexeme, name.Position, typ)
}

func (p *Parser) parseMain() *ast.Node {
	p.expect(lexer.TokenVoid)
	p.expectIdentifier("main")
	p.expect(lexer.TokenLeftParen)
	p.expectIdentifier("String")
	p.expect(lexer.TokenLeftBracket)
	p.expect(lexer.TokenRightBracket)
	arg := p.expect(lexer.TokenIdentifier)
	p.expect(lexer.TokenRightParen)

	main := ast.New(ast.KindMain, arg.Lexeme, arg.Position)
	p.expect(lexer.TokenLeftBrace)
	main.Add(p.parseBody(lexer.TokenRightBrace))
	p.expect(lexer.TokenRightBrace)
	return main
}

// parseBody parses local declarations followed by statements, up to (but not
// including) the terminator token.
func (p *Parser) parseBody(terminator lexer.TokenType) *ast.Node {
	body := ast.New(ast.KindBody, "", p.current().Position)
	for p.isVarDeclStart() {
		body.Add(p.parseVarDecl())
	}
	for !p.check(terminator) {
		if p.check(lexer.TokenEOF) || p.check(lexer.TokenRightBrace) {
			p.fail(terminator)
		}
		body.Add(p.parseStatement())
	}
	return body
}

// parseStatement parses
//
//	stmt = "{" stmt* "}" | "if" "(" expr ")" stmt ["else" stmt]
//	     | "while" "(" expr ")" stmt | Id "=" expr ";" | Id "[" expr "]" "=" expr ";" | expr ";"
func (p *Parser) parseStatement() *ast.Node {
	tok := p.current()
	switch tok.Type {
	case lexer.TokenLeftBrace:
		p.advance()
		block := ast.New(ast.KindBlock, "", tok.Position)
		for !p.check(lexer.TokenRightBrace) {
			if p.check(lexer.TokenEOF) {
				p.fail(lexer.TokenRightBrace)
			}
			block.Add(p.parseStatement())
		}
		p.advance()
		return block

	case lexer.TokenIf:
		p.advance()
		p.expect(lexer.TokenLeftParen)
		cond := p.parseExpression()
		p.expect(lexer.TokenRightParen)
		node := ast.New(ast.KindIf, "", tok.Position, cond, p.parseStatement())
		if p.match(lexer.TokenElse) {
			node.Add(p.parseStatement())
		}
		return node

	case lexer.TokenWhile:
		p.advance()
		p.expect(lexer.TokenLeftParen)
		cond := p.parseExpression()
		p.expect(lexer.TokenRightParen)
		return ast.New(ast.KindWhile, "", tok.Position, cond, p.parseStatement())
	}

	expr := p.parseExpression()
	if assign := p.current(); p.match(lexer.TokenAssign) {
		if !isAssignable(expr) {
			panic(&SyntaxError{
				Pos:     expr.Pos,
				Found:   expr.String(),
				Message: "invalid assignment target " + expr.String(),
			})
		}
		value := p.parseExpression()
		p.expect(lexer.TokenSemicolon)
		return ast.New(ast.KindAssignment, "", assign.Position, expr, value)
	}
	p.expect(lexer.TokenSemicolon)
	return ast.New(ast.KindExprStmt, "", expr.Pos, expr)
}

// isAssignable accepts a plain identifier or an identifier indexed once.
func isAssignable(target *ast.Node) bool {
	if target.Is(ast.KindIdentifier) {
		return true
	}
	return target.Is(ast.KindBracket) && target.Child(0).Is(ast.KindIdentifier)
}

func (p *Parser) parseExpression() *ast.Node {
	return p.parseBinary(PrecAnd)
}

// parseBinary climbs precedence levels; all binary operators are left
// associative.
func (p *Parser) parseBinary(min Precedence) *ast.Node {
	left := p.parseUnary()
	for {
		op := p.current()
		prec := getPrecedence(op.Type)
		kind := binaryKind(op.Type)
		if kind == ast.KindInvalid || prec < min {
			return left
		}
		p.advance()
		right := p.parseBinary(prec + 1)
		left = ast.New(kind, "", op.Position, left, right)
	}
}

func (p *Parser) parseUnary() *ast.Node {
	if tok := p.current(); p.match(lexer.TokenNot) {
		return ast.New(ast.KindNot, "", tok.Position, p.parseUnary())
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *Parser) parsePostfix(left *ast.Node) *ast.Node {
	for {
		tok := p.current()
		switch {
		case p.match(lexer.TokenLeftBracket):
			index := p.parseExpression()
			p.expect(lexer.TokenRightBracket)
			left = ast.New(ast.KindBracket, "", tok.Position, left, index)

		case p.match(lexer.TokenDot):
			if p.match(lexer.TokenLength) {
				left = ast.New(ast.KindLength, "", tok.Position, left)
				continue
			}
			if !p.check(lexer.TokenIdentifier) {
				p.fail(lexer.TokenLength, lexer.TokenIdentifier)
			}
			name := p.advance()
			p.expect(lexer.TokenLeftParen)
			args := ast.New(ast.KindArgs, "", p.current().Position)
			if !p.check(lexer.TokenRightParen) {
				args.Add(p.parseExpression())
				for p.match(lexer.TokenComma) {
					args.Add(p.parseExpression())
				}
			}
			p.expect(lexer.TokenRightParen)
			left = ast.New(ast.KindCall, name.Lexeme, name.Position, left, args)

		default:
			return left
		}
	}
}

func (p *Parser) parsePrimary() *ast.Node {
	tok := p.current()
	switch tok.Type {
	case lexer.TokenInteger:
		p.advance()
		return ast.New(ast.KindInteger, tok.Lexeme, tok.Position)
	case lexer.TokenTrue:
		p.advance()
		return ast.New(ast.KindTrue, "", tok.Position)
	case lexer.TokenFalse:
		p.advance()
		return ast.New(ast.KindFalse, "", tok.Position)
	case lexer.TokenIdentifier:
		p.advance()
		return ast.New(ast.KindIdentifier, tok.Lexeme, tok.Position)
	case lexer.TokenThis:
		p.advance()
		return ast.New(ast.KindThis, "", tok.Position)
	case lexer.TokenLeftParen:
		p.advance()
		expr := p.parseExpression()
		p.expect(lexer.TokenRightParen)
		return expr
	case lexer.TokenNew:
		p.advance()
		if p.match(lexer.TokenInt) {
			p.expect(lexer.TokenLeftBracket)
			size := p.parseExpression()
			p.expect(lexer.TokenRightBracket)
			return ast.New(ast.KindNewIntArray, "", tok.Position, size)
		}
		if !p.check(lexer.TokenIdentifier) {
			p.fail(lexer.TokenInt, lexer.TokenIdentifier)
		}
		name := p.advance()
		p.expect(lexer.TokenLeftParen)
		p.expect(lexer.TokenRightParen)
		return ast.New(ast.KindNewClass, name.Lexeme, tok.Position)
	}

	p.fail(lexer.TokenInteger, lexer.TokenTrue, lexer.TokenFalse, lexer.TokenIdentifier,
		lexer.TokenThis, lexer.TokenNew, lexer.TokenNot, lexer.TokenLeftParen)
	return nil
}

// Token stream helpers

func (p *Parser) current() lexer.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek(n int) lexer.Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	if tok.Type != lexer.TokenEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) check(tokenType lexer.TokenType) bool {
	return p.current().Type == tokenType
}

func (p *Parser) match(tokenType lexer.TokenType) bool {
	if !p.check(tokenType) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) expect(tokenType lexer.TokenType) lexer.Token {
	if !p.check(tokenType) {
		p.fail(tokenType)
	}
	return p.advance()
}

// expectIdentifier expects an identifier with a fixed spelling, such as the
// "main" and "String" of the entry point signature.
func (p *Parser) expectIdentifier(name string) lexer.Token {
	tok := p.current()
	if tok.Type != lexer.TokenIdentifier || tok.Lexeme != name {
		panic(&SyntaxError{
			Pos:      tok.Position,
			Found:    describe(tok),
			Expected: []string{fmt.Sprintf("%q", name)},
		})
	}
	return p.advance()
}

// fail aborts the parse at the current token.
func (p *Parser) fail(expected ...lexer.TokenType) {
	tok := p.current()
	names := make([]string, len(expected))
	for i, tt := range expected {
		names[i] = tt.String()
	}
	panic(&SyntaxError{
		Pos:      tok.Position,
		Found:    describe(tok),
		Expected: names,
	})
}

func describe(tok lexer.Token) string {
	if tok.Type == lexer.TokenEOF {
		return tok.Type.String()
	}
	return fmt.Sprintf("%q", tok.Lexeme)
}
