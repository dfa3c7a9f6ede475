package parser

import (
	"errors"
	"fmt"
	"gloom/internal/ast"
	"gloom/internal/lexer"
	"gloom/internal/token"
	"gloom/internal/util"
	"log/slog"
	"strconv"
)

// EverythingName is the object an argument-first statement is sent to.
const EverythingName = "Everything"

type Parser struct {
	src    string // source code here
	tokens []token.Token
	pos    int
	errors []*ParseError
}

func New(l *lexer.Lexer, source string) *Parser {
	p := &Parser{src: source}
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		p.tokens = append(p.tokens, tok)
	}
	return p
}

// Parse lexes and parses source. Any failed statement makes the whole
// program fail; the returned error joins every ParseError found.
func Parse(source string) (*ast.Program, error) {
	p := New(lexer.New(source), source)
	program := p.ParseProgram()
	if len(p.errors) != 0 {
		errs := make([]error, len(p.errors))
		for i, e := range p.errors {
			errs[i] = e
		}
		return nil, errors.Join(errs...)
	}
	return program, nil
}

func (p *Parser) curToken() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Type: token.EOF, Position: len(p.src)}
	}
	return p.tokens[p.pos]
}

func (p *Parser) nextToken() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken().Type == t
}

func (p *Parser) newError(expected token.TokenType) *ParseError {
	tok := p.curToken()
	line, col := util.GetLineAndColumn(p.src, tok.Position)
	return &ParseError{
		Expected: expected,
		Actual:   tok.Type,
		Literal:  tok.Literal,
		Position: tok.Position,
		Line:     line,
		Column:   col,
	}
}

// consume advances past the current token when it has type t.
func (p *Parser) consume(t token.TokenType) error {
	if !p.curTokenIs(t) {
		return p.newError(t)
	}
	p.nextToken()
	return nil
}

func (p *Parser) Errors() []*ParseError {
	return p.errors
}

func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Statements = []*ast.MessageSend{}

	for !p.curTokenIs(token.EOF) {
		stmt, err := p.ParseStatement()
		if err != nil {
			var perr *ParseError
			if !errors.As(err, &perr) {
				perr = p.newError(token.PERIOD)
				perr.Reason = err.Error()
			}
			slog.Debug("statement discarded", slog.String("error", perr.Error()))
			p.errors = append(p.errors, perr)
			p.skipStatement()
			continue
		}
		program.Statements = append(program.Statements, stmt)
	}

	return program
}

// skipStatement drops tokens up to and including the next terminator.
func (p *Parser) skipStatement() {
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.PERIOD) {
			p.nextToken()
			return
		}
		p.nextToken()
	}
}

// ParseStatement parses `message_send '.'`.
func (p *Parser) ParseStatement() (*ast.MessageSend, error) {
	stmt, err := p.parseMessageSend()
	if err != nil {
		return nil, err
	}
	if err := p.consume(token.PERIOD); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) prependEverythingToken() {
	cur := p.curToken()
	everything := token.Token{Type: token.OBJECT, Literal: EverythingName, Position: cur.Position}
	p.tokens = append(p.tokens[:p.pos], append([]token.Token{everything}, p.tokens[p.pos:]...)...)
}

func (p *Parser) parseMessageSend() (*ast.MessageSend, error) {
	implicit := false
	if token.StartsArgument(p.curToken().Type) {
		p.prependEverythingToken()
		implicit = true
	}

	stmt := &ast.MessageSend{Token: p.curToken()}

	receiver, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if implicit {
		if lit, ok := receiver.(*ast.Literal); ok {
			lit.SetProperty(ast.ImplicitProperty, true)
		}
	}
	stmt.Receiver = receiver

	arguments, err := p.parseArguments()
	if err != nil {
		return nil, err
	}
	stmt.Arguments = arguments

	// `(a + b)` on its own is the inner send, not a send with no arguments
	if inner, ok := receiver.(*ast.MessageSend); ok && len(arguments) == 0 {
		return inner, nil
	}

	return stmt, nil
}

func (p *Parser) parseArguments() ([]*ast.MessageArgument, error) {
	arguments := []*ast.MessageArgument{}

	for !p.curTokenIs(token.EOF) && !p.curTokenIs(token.PERIOD) && !p.curTokenIs(token.RPAREN) {
		var arg *ast.MessageArgument
		var err error

		switch {
		case p.curTokenIs(token.NAMED_PARAMETER):
			arg, err = p.parseNamedArgument()
		case token.IsOperator(p.curToken().Type):
			arg, err = p.parseBinaryArgument()
		default:
			err = p.newError(ArgumentExpected)
		}
		if err != nil {
			return nil, err
		}
		arguments = append(arguments, arg)
	}

	return arguments, nil
}

func (p *Parser) parseNamedArgument() (*ast.MessageArgument, error) {
	arg := &ast.MessageArgument{Token: p.curToken(), Selector: p.curToken().Literal}
	p.nextToken()

	if !token.StartsValue(p.curToken().Type) {
		return arg, nil
	}

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	arg.Value = value
	return arg, nil
}

func (p *Parser) parseBinaryArgument() (*ast.MessageArgument, error) {
	arg := &ast.MessageArgument{Token: p.curToken(), Selector: p.curToken().Literal, Binary: true}
	p.nextToken()

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	arg.Value = value
	return arg, nil
}

func (p *Parser) parseValue() (ast.Expression, error) {
	switch p.curToken().Type {
	case token.NUMBER:
		return p.parseNumber()
	case token.STRING:
		return p.parseString(), nil
	case token.BOOLEAN:
		return p.parseBoolean(), nil
	case token.HASH:
		return p.parseArray()
	case token.OBJECT:
		return p.parseObject(), nil
	case token.LPAREN:
		return p.parseGroupedMessageSend()
	default:
		return nil, p.newError(ValueExpected)
	}
}

func (p *Parser) parseGroupedMessageSend() (ast.Expression, error) {
	if err := p.consume(token.LPAREN); err != nil {
		return nil, err
	}
	send, err := p.parseMessageSend()
	if err != nil {
		return nil, err
	}
	if err := p.consume(token.RPAREN); err != nil {
		return nil, err
	}
	return send, nil
}

func (p *Parser) parseNumber() (ast.Expression, error) {
	tok := p.curToken()
	value, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		perr := p.newError(token.NUMBER)
		perr.Reason = fmt.Sprintf("could not parse %q as number", tok.Literal)
		return nil, perr
	}
	p.nextToken()
	return &ast.Literal{Token: tok, Kind: ast.NumberLiteral, Value: value}, nil
}

func (p *Parser) parseString() ast.Expression {
	lit := &ast.Literal{Token: p.curToken(), Kind: ast.StringLiteral, Value: p.curToken().Literal}
	p.nextToken()
	return lit
}

func (p *Parser) parseBoolean() ast.Expression {
	lit := &ast.Literal{Token: p.curToken(), Kind: ast.BooleanLiteral, Value: p.curToken().Literal == "true"}
	p.nextToken()
	return lit
}

func (p *Parser) parseObject() ast.Expression {
	lit := &ast.Literal{Token: p.curToken(), Kind: ast.NameLiteral, Value: p.curToken().Literal}
	p.nextToken()
	return lit
}

func (p *Parser) parseArray() (ast.Expression, error) {
	lit := &ast.Literal{Token: p.curToken(), Kind: ast.ArrayLiteral}
	if err := p.consume(token.HASH); err != nil {
		return nil, err
	}
	if err := p.consume(token.LPAREN); err != nil {
		return nil, err
	}

	elements := []ast.Expression{}
	for !p.curTokenIs(token.RPAREN) {
		if p.curTokenIs(token.EOF) {
			return nil, p.newError(token.RPAREN)
		}
		element, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		elements = append(elements, element)
	}
	if err := p.consume(token.RPAREN); err != nil {
		return nil, err
	}

	lit.Value = elements
	return lit, nil
}
