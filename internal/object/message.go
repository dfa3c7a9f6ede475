package object

import (
	"strings"
)

type MessageKind uint8

const (
	UnaryMessage MessageKind = iota
	KeywordMessage
	BinaryMessage
)

func (k MessageKind) String() string {
	switch k {
	case UnaryMessage:
		return "unary"
	case KeywordMessage:
		return "keyword"
	case BinaryMessage:
		return "binary"
	}
	return "unknown"
}

// Pair is one keyword argument. Symbol is the source identifier when the
// argument was written as a bare object name, so methods can bind names.
type Pair struct {
	Name   string
	Value  *Object
	Symbol string
}

// Args are keyword arguments in encounter order.
type Args []Pair

func (a Args) Get(name string) *Object {
	for _, p := range a {
		if p.Name == name {
			return p.Value
		}
	}
	return nil
}

func (a Args) Symbol(name string) string {
	for _, p := range a {
		if p.Name == name {
			return p.Symbol
		}
	}
	return ""
}

func (a Args) Names() []string {
	names := make([]string, len(a))
	for i, p := range a {
		names[i] = p.Name
	}
	return names
}

// Message is what an object's inbox holds: a unary selector, an ordered set
// of keyword pairs, or an operator with its operand.
type Message struct {
	kind     MessageKind
	selector string
	pairs    Args
	operator string
	operand  *Object
}

func Unary(selector string) Message {
	return Message{kind: UnaryMessage, selector: selector}
}

func Keyword(pairs ...Pair) Message {
	return Message{kind: KeywordMessage, pairs: pairs}
}

func Binary(operator string, operand *Object) Message {
	return Message{kind: BinaryMessage, operator: operator, operand: operand}
}

func (m Message) Kind() MessageKind { return m.kind }
func (m Message) Pairs() Args       { return m.pairs }
func (m Message) Operator() string  { return m.operator }
func (m Message) Operand() *Object  { return m.operand }

// Selector is the method table key the message dispatches to.
func (m Message) Selector() string {
	switch m.kind {
	case UnaryMessage:
		return m.selector
	case BinaryMessage:
		return m.asKeyword().Selector()
	}
	return strings.Join(m.pairs.Names(), ":")
}

// asKeyword rewrites `a + b` into the keyword message `{+: +, to: b}`.
func (m Message) asKeyword() Message {
	return Keyword(
		Pair{Name: m.operator, Value: Anonymous(Something(m.operator), nil)},
		Pair{Name: "to", Value: m.operand},
	)
}

func (m Message) String() string {
	switch m.kind {
	case UnaryMessage:
		return ":" + m.selector
	case BinaryMessage:
		if m.operand == nil {
			return m.operator
		}
		return m.operator + " " + m.operand.value.String()
	}
	var sb strings.Builder
	for i, p := range m.pairs {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(":" + p.Name)
		if p.Value != nil {
			sb.WriteString(" " + p.Value.value.String())
		}
	}
	return sb.String()
}
