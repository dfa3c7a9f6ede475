package ast

import (
	"bytes"
	"gloom/internal/token"
	"strconv"
	"strings"
)

// The base Node interface
type Node interface {
	TokenLiteral() string
	String() string
}

type Expression interface {
	Node
	expressionNode()
}

type Program struct {
	Statements []*MessageSend
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	} else {
		return ""
	}
}

func (p *Program) String() string {
	var out bytes.Buffer

	for i, s := range p.Statements {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(s.String())
		out.WriteString(".")
	}

	return out.String()
}

// MessageSend sends every argument, in order, to the receiver.
type MessageSend struct {
	Token     token.Token // the first token of the receiver
	Receiver  Expression
	Arguments []*MessageArgument
}

func (ms *MessageSend) expressionNode()      {}
func (ms *MessageSend) TokenLiteral() string { return ms.Token.Literal }
func (ms *MessageSend) String() string {
	var out bytes.Buffer

	out.WriteString(ms.Receiver.String())
	for _, a := range ms.Arguments {
		out.WriteString(" ")
		out.WriteString(a.String())
	}

	return out.String()
}

// Selector joins the keyword names of the arguments in encounter order.
func (ms *MessageSend) Selector() string {
	names := make([]string, 0, len(ms.Arguments))
	for _, a := range ms.Arguments {
		names = append(names, a.Selector)
	}
	return strings.Join(names, ":")
}

type MessageArgument struct {
	Token    token.Token // the ':name' or operator token
	Selector string
	Value    Expression // nil for a unary keyword such as `:print`
	Binary   bool
}

func (ma *MessageArgument) TokenLiteral() string { return ma.Token.Literal }
func (ma *MessageArgument) String() string {
	var out bytes.Buffer

	if ma.Binary {
		out.WriteString(ma.Selector)
	} else {
		out.WriteString(":" + ma.Selector)
	}
	if ma.Value != nil {
		out.WriteString(" ")
		out.WriteString(ma.Value.String())
	}

	return out.String()
}

// IsUnary reports whether the argument is a keyword without a value.
func (ma *MessageArgument) IsUnary() bool {
	return !ma.Binary && ma.Value == nil
}

type LiteralKind string

const (
	NumberLiteral  LiteralKind = "number"
	StringLiteral  LiteralKind = "string"
	BooleanLiteral LiteralKind = "boolean"
	NameLiteral    LiteralKind = "object"
	ArrayLiteral   LiteralKind = "array"
)

// ImplicitProperty marks a receiver the parser synthesised for an
// argument-first statement.
const ImplicitProperty = "implicit"

// Literal is a value written in source: a number, string, boolean, array or
// the name of an object. Value holds float64, string, bool, string or
// []Expression respectively.
type Literal struct {
	Token      token.Token
	Kind       LiteralKind
	Value      any
	Properties map[string]any
}

func (l *Literal) expressionNode()      {}
func (l *Literal) TokenLiteral() string { return l.Token.Literal }
func (l *Literal) String() string {
	switch l.Kind {
	case NumberLiteral:
		return strconv.FormatFloat(l.Value.(float64), 'g', -1, 64)
	case StringLiteral:
		return "'" + l.Value.(string) + "'"
	case BooleanLiteral:
		return strconv.FormatBool(l.Value.(bool))
	case ArrayLiteral:
		elements := []string{}
		for _, e := range l.Value.([]Expression) {
			elements = append(elements, e.String())
		}
		return "#(" + strings.Join(elements, " ") + ")"
	default:
		name, _ := l.Value.(string)
		return name
	}
}

// Name returns the object name of a NameLiteral and "" otherwise.
func (l *Literal) Name() string {
	if l.Kind != NameLiteral {
		return ""
	}
	name, _ := l.Value.(string)
	return name
}

func (l *Literal) Property(name string) (any, bool) {
	v, ok := l.Properties[name]
	return v, ok
}

func (l *Literal) SetProperty(name string, value any) {
	if l.Properties == nil {
		l.Properties = map[string]any{}
	}
	l.Properties[name] = value
}

// Elements returns the element expressions of an ArrayLiteral.
func (l *Literal) Elements() []Expression {
	elements, _ := l.Value.([]Expression)
	return elements
}
