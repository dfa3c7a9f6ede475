package object

import (
	"fmt"
	"log/slog"
	"sort"
)

// Environment maps identifiers to objects. Lookups walk outward through
// enclosing environments.
type Environment struct {
	Bindings map[string]*Binding
	Outer    *Environment
}

type Binding struct {
	Value     *Object
	IsMutable bool
}

func NewEnvironment() *Environment {
	return &Environment{
		Bindings: make(map[string]*Binding),
	}
}

// NewEnclosedEnvironment initializes an environment with a parent.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.Outer = outer
	return env
}

func (e *Environment) GetBinding(name string) (*Binding, bool) {
	if binding, ok := e.Bindings[name]; ok {
		return binding, true
	}
	if e.Outer != nil {
		return e.Outer.GetBinding(name)
	}
	return nil, false
}

func (e *Environment) Get(name string) (*Object, bool) {
	binding, ok := e.GetBinding(name)
	if !ok {
		return nil, false
	}
	slog.Debug("Found binding",
		slog.String("name", name),
		slog.String("object", binding.Value.Name()))
	return binding.Value, true
}

func (e *Environment) DefineConstant(name string, val *Object) (*Object, error) {
	return e.define(name, val, false)
}

// Define binds name to val in this environment, replacing a mutable binding.
func (e *Environment) Define(name string, val *Object) (*Object, error) {
	return e.define(name, val, true)
}

func (e *Environment) define(name string, val *Object, isMutable bool) (*Object, error) {
	if binding, exists := e.Bindings[name]; exists && !binding.IsMutable {
		return nil, fmt.Errorf("`%s` is already defined as a constant and cannot be rebound", name)
	}
	e.Bindings[name] = &Binding{Value: val, IsMutable: isMutable}

	slog.Debug("binding value",
		slog.String("name", name),
		slog.Bool("mutable", isMutable))
	return val, nil
}

// Names lists every name visible from e, sorted.
func (e *Environment) Names() []string {
	seen := map[string]bool{}
	for env := e; env != nil; env = env.Outer {
		for name := range env.Bindings {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
