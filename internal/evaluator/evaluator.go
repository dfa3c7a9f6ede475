// Package evaluator walks a parsed program and turns every message send into
// dispatch against the object model.
package evaluator

import (
	"errors"
	"fmt"
	"gloom/internal/ast"
	"gloom/internal/hub"
	"gloom/internal/lexer"
	"gloom/internal/object"
	"gloom/internal/parser"
	"gloom/internal/sout"
	"log/slog"
)

// EverythingName is the identifier the global Everything object is bound to.
const EverythingName = parser.EverythingName

type Evaluator struct {
	hub        *hub.Hub
	sink       sout.Sink
	everything *object.Object
	root       *object.Environment
	envStack   []*object.Environment // innermost last
}

type Option func(*Evaluator)

// WithEnvironment evaluates inside env instead of a fresh root environment.
// Everything is defined in env if it is not yet bound there.
func WithEnvironment(env *object.Environment) Option {
	return func(e *Evaluator) {
		e.root = env
	}
}

func New(h *hub.Hub, sink sout.Sink, opts ...Option) *Evaluator {
	if sink == nil {
		sink = sout.Discard
	}
	e := &Evaluator{hub: h, sink: sink}
	for _, opt := range opts {
		opt(e)
	}
	if e.root == nil {
		e.root = object.NewEnvironment()
	}

	if existing, ok := e.root.Get(EverythingName); ok {
		e.everything = existing
	} else {
		e.everything = object.Anonymous(object.Everything(), e.everythingMethods())
		e.everything.SetName(EverythingName)
		// the root environment is fresh or caller supplied; either way
		// Everything is not bound yet so this cannot fail
		_, _ = e.root.DefineConstant(EverythingName, e.everything)
	}
	return e
}

func (e *Evaluator) Hub() *hub.Hub                    { return e.hub }
func (e *Evaluator) Everything() *object.Object       { return e.everything }
func (e *Evaluator) Environment() *object.Environment { return e.root }

func (e *Evaluator) PushEnv(env *object.Environment) {
	e.envStack = append(e.envStack, env)
}

func (e *Evaluator) CurrentEnv() *object.Environment {
	if len(e.envStack) == 0 {
		return e.root
	}
	return e.envStack[len(e.envStack)-1]
}

func (e *Evaluator) PopEnv() {
	if len(e.envStack) == 0 {
		panic("Attempted to pop from an empty environment stack")
	}
	e.envStack = e.envStack[:len(e.envStack)-1]
}

// Run lexes, parses and evaluates src in the root environment and returns
// the value of the last statement.
func (e *Evaluator) Run(src string) (*object.Object, error) {
	p := parser.New(lexer.New(src), src)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, err := range errs {
			joined[i] = err
		}
		return nil, errors.Join(joined...)
	}
	return e.EvalProgram(program, e.root)
}

func (e *Evaluator) EvalProgram(program *ast.Program, env *object.Environment) (*object.Object, error) {
	result := e.nothing()
	for _, statement := range program.Statements {
		res, err := e.Eval(statement, env)
		if err != nil {
			return nil, err
		}
		result = res
	}
	return result, nil
}

// Eval evaluates one node in env. A nil env means the root environment.
func (e *Evaluator) Eval(node ast.Node, env *object.Environment) (*object.Object, error) {
	if env == nil {
		env = e.root
	}
	e.PushEnv(env)
	defer e.PopEnv()

	switch node := node.(type) {
	case *ast.Program:
		result := e.nothing()
		for _, statement := range node.Statements {
			res, err := e.evalMessageSend(statement)
			if err != nil {
				return nil, err
			}
			result = res
		}
		return result, nil

	case *ast.MessageSend:
		return e.evalMessageSend(node)

	case *ast.Literal:
		return e.evalLiteral(node)
	}
	return nil, fmt.Errorf("cannot evaluate %T", node)
}

func (e *Evaluator) eval(node ast.Expression) (*object.Object, error) {
	return e.Eval(node, e.CurrentEnv())
}

func (e *Evaluator) evalMessageSend(ms *ast.MessageSend) (*object.Object, error) {
	receiver, err := e.eval(ms.Receiver)
	if err != nil {
		return nil, err
	}

	args := ms.Arguments
	for i := 0; i < len(args); {
		arg := args[i]
		if arg.Binary {
			operand, err := e.eval(arg.Value)
			if err != nil {
				return nil, err
			}
			receiver, err = e.send(receiver, object.Binary(arg.Selector, operand))
			if err != nil {
				return nil, err
			}
			i++
			continue
		}

		var pairs object.Args
		for ; i < len(args) && !args[i].Binary; i++ {
			pair := object.Pair{Name: args[i].Selector}
			if args[i].Value != nil {
				if pair.Value, err = e.eval(args[i].Value); err != nil {
					return nil, err
				}
				pair.Symbol = symbolOf(args[i].Value)
			}
			pairs = append(pairs, pair)
		}

		msg := object.Keyword(pairs...)
		if len(pairs) == 1 && pairs[0].Value == nil {
			msg = object.Unary(pairs[0].Name)
		}
		if receiver, err = e.send(receiver, msg); err != nil {
			return nil, err
		}
	}
	return receiver, nil
}

// symbolOf returns the identifier of a bare object-name argument.
func symbolOf(node ast.Expression) string {
	lit, ok := node.(*ast.Literal)
	if !ok {
		return ""
	}
	if _, implicit := lit.Property(ast.ImplicitProperty); implicit {
		return ""
	}
	return lit.Name()
}

// send delivers msg to receiver. Inbox control (listen, receive) is handled
// here for deaf objects, since a message sent to them would only be queued.
func (e *Evaluator) send(receiver *object.Object, msg object.Message) (*object.Object, error) {
	slog.Debug("send",
		slog.String("receiver", receiver.Name()),
		slog.String("kind", msg.Kind().String()),
		slog.String("selector", msg.Selector()))

	if !receiver.Listening() && msg.Kind() == object.UnaryMessage {
		switch msg.Selector() {
		case "listen":
			receiver.Listen()
			return receiver, nil
		case "receive":
			return e.orNothing(receiver.Receive())
		}
	}

	res, err := receiver.Send(msg)
	if err != nil {
		return nil, fmt.Errorf("%s :%s: %w", receiver.Name(), msg.Selector(), err)
	}
	return e.orNothing(res, nil)
}

func (e *Evaluator) orNothing(obj *object.Object, err error) (*object.Object, error) {
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return e.nothing(), nil
	}
	return obj, nil
}

func (e *Evaluator) evalLiteral(lit *ast.Literal) (*object.Object, error) {
	switch lit.Kind {
	case ast.NumberLiteral, ast.StringLiteral, ast.BooleanLiteral:
		return e.newObject(object.Something(lit.Value)), nil

	case ast.ArrayLiteral:
		elements := make([]*object.Object, 0, len(lit.Elements()))
		for _, el := range lit.Elements() {
			obj, err := e.eval(el)
			if err != nil {
				return nil, err
			}
			elements = append(elements, obj)
		}
		return e.newObject(object.Something(elements)), nil

	case ast.NameLiteral:
		name := lit.Name()
		if _, implicit := lit.Property(ast.ImplicitProperty); implicit {
			return e.everything, nil
		}
		if obj, ok := e.CurrentEnv().Get(name); ok {
			return obj, nil
		}
		slog.Debug("unbound name", slog.String("name", name))
		obj := e.nothing()
		obj.SetName(name)
		return obj, nil
	}
	return nil, fmt.Errorf("unknown literal kind %q", lit.Kind)
}

// newObject wraps v in an unplaced, listening object with the primitive
// methods for its datatype.
func (e *Evaluator) newObject(v object.Value) *object.Object {
	return object.Anonymous(v, e.methodsFor(v))
}

func (e *Evaluator) nothing() *object.Object {
	return e.newObject(object.Nothing())
}
