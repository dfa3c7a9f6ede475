package evaluator

import (
	"errors"
	"fmt"
	"gloom/internal/affinity"
	"gloom/internal/object"
	"log/slog"
	"math"
	"strconv"
	"unicode/utf8"
)

var operators = []string{"+", "-", "*", "/", "%"}

// MaxRepeat bounds the arrays built by times.
const MaxRepeat = 1 << 16

// methodsFor builds the primitive table for a value: the methods every
// object has plus those of the payload's datatype.
func (e *Evaluator) methodsFor(v object.Value) object.Methods {
	methods := e.commonMethods()
	var extra object.Methods
	switch {
	case v.IsPointer():
		extra = e.pointerMethods()
	case v.IsNothing():
	default:
		switch v.Kind() {
		case affinity.KindNumber:
			extra = e.numberMethods()
		case affinity.KindString:
			extra = e.stringMethods()
		case affinity.KindBoolean:
			extra = e.booleanMethods()
		case affinity.KindArray:
			extra = e.arrayMethods()
		}
	}
	for selector, m := range extra {
		methods[selector] = m
	}
	return methods
}

func (e *Evaluator) number(f float64) *object.Object {
	return e.newObject(object.Something(f))
}

func (e *Evaluator) text(s string) *object.Object {
	return e.newObject(object.Something(s))
}

func (e *Evaluator) pointer(loc object.Location) *object.Object {
	return e.newObject(object.Pointer(loc))
}

func (e *Evaluator) array(elements []*object.Object) *object.Object {
	return e.newObject(object.Something(elements))
}

func (e *Evaluator) commonMethods() object.Methods {
	become := func(a affinity.Affinity) object.Method {
		return func(self *object.Object, _ object.Args) (*object.Object, error) {
			self.Become(a)
			return self, nil
		}
	}
	return object.Methods{
		"print": func(self *object.Object, _ object.Args) (*object.Object, error) {
			return self, e.sink.Println(self.Inspect())
		},
		"describe": func(self *object.Object, _ object.Args) (*object.Object, error) {
			return self, e.sink.Println(self.Describe())
		},
		"references": func(self *object.Object, _ object.Args) (*object.Object, error) {
			return e.number(float64(self.References())), nil
		},
		"popularity": func(self *object.Object, _ object.Args) (*object.Object, error) {
			return e.number(self.PopularityScore()), nil
		},
		"affinity": func(self *object.Object, _ object.Args) (*object.Object, error) {
			return e.text(self.Affinity().String()), nil
		},
		"name": func(self *object.Object, _ object.Args) (*object.Object, error) {
			return e.text(self.Name()), nil
		},
		"location": func(self *object.Object, _ object.Args) (*object.Object, error) {
			if !self.Placed() {
				return e.nothing(), nil
			}
			return e.pointer(self.Location()), nil
		},
		"listen": func(self *object.Object, _ object.Args) (*object.Object, error) {
			self.Listen()
			return self, nil
		},
		"deafen": func(self *object.Object, _ object.Args) (*object.Object, error) {
			self.Deafen()
			return self, nil
		},
		"receive": func(self *object.Object, _ object.Args) (*object.Object, error) {
			return self.Receive()
		},
		"free": func(self *object.Object, _ object.Args) (*object.Object, error) {
			self.Free()
			return e.nothing(), nil
		},
		"moveTo": func(self *object.Object, args object.Args) (*object.Object, error) {
			loc, err := locationArg(args, "moveTo")
			if err != nil {
				return nil, err
			}
			e.hub.Move(self, loc)
			return e.pointer(loc), nil
		},
		"cloneTo": func(self *object.Object, args object.Args) (*object.Object, error) {
			loc, err := locationArg(args, "cloneTo")
			if err != nil {
				return nil, err
			}
			clone := self.CloneTo(loc)
			if !clone.Placed() {
				clone.Place(e.hub, loc)
			}
			return e.pointer(loc), nil
		},
		"becomeNothing":    become(affinity.Nothing),
		"becomeSomething":  become(affinity.Something),
		"becomeEverything": become(affinity.Everything),
		"at:put": func(self *object.Object, args object.Args) (*object.Object, error) {
			value := args.Get("put")
			if value == nil {
				value = e.nothing()
			}
			self.SetSlot(slotName(args, "at"), value)
			return value, nil
		},
		"at": func(self *object.Object, args object.Args) (*object.Object, error) {
			if elements, ok := self.Value().Payload.([]*object.Object); ok {
				return e.index(elements, args.Get("at"))
			}
			if slot, ok := self.Slot(slotName(args, "at")); ok {
				return slot, nil
			}
			return e.nothing(), nil
		},
	}
}

func (e *Evaluator) numberMethods() object.Methods {
	methods := e.operatorMethods()
	methods[",:to"] = e.pairMethod
	methods["negated"] = func(self *object.Object, _ object.Args) (*object.Object, error) {
		return e.newObject(object.Value{Payload: -asNumber(self.Value()), Affinity: self.Affinity()}), nil
	}
	methods["times"] = func(self *object.Object, args object.Args) (*object.Object, error) {
		count := asNumber(self.Value())
		if math.IsNaN(count) || math.IsInf(count, 0) || count > MaxRepeat {
			slog.Debug("repeat count out of range",
				slog.Float64("count", count),
				slog.Int("max", MaxRepeat))
			return e.nothing(), nil
		}
		n := 0
		if count >= 1 {
			n = int(count)
		}
		elements := make([]*object.Object, 0, n)
		for i := 1; i <= n; i++ {
			if v := args.Get("times"); v != nil {
				elements = append(elements, v)
			} else {
				elements = append(elements, e.number(float64(i)))
			}
		}
		return e.array(elements), nil
	}
	return methods
}

func (e *Evaluator) pointerMethods() object.Methods {
	methods := e.operatorMethods()
	methods["dereference"] = func(self *object.Object, _ object.Args) (*object.Object, error) {
		return e.dereference(self.Value())
	}
	// a pointer frees what it points at, not itself
	methods["free"] = func(self *object.Object, _ object.Args) (*object.Object, error) {
		if loc, ok := self.Value().Location(); ok {
			e.hub.Free(loc)
		}
		return e.nothing(), nil
	}
	return methods
}

func (e *Evaluator) operatorMethods() object.Methods {
	methods := object.Methods{}
	for _, op := range operators {
		methods[op+":to"] = func(self *object.Object, args object.Args) (*object.Object, error) {
			v, err := arithmetic(op, self.Value(), operandOf(args))
			if err != nil {
				return nil, err
			}
			return e.newObject(v), nil
		}
	}
	return methods
}

func (e *Evaluator) stringMethods() object.Methods {
	concat := func(self *object.Object, args object.Args) (*object.Object, error) {
		other := operandOf(args)
		a, err := affinity.Combine(self.Affinity(), other.Affinity)
		if err != nil {
			return nil, err
		}
		if a == affinity.Nothing {
			return e.nothing(), nil
		}
		if a == affinity.Reference {
			a = affinity.Something
		}
		s := asString(self.Value()) + asString(other)
		return e.newObject(object.Value{Payload: s, Affinity: a}), nil
	}
	return object.Methods{
		"+:to": concat,
		",:to": concat,
		"size": func(self *object.Object, _ object.Args) (*object.Object, error) {
			return e.number(float64(utf8.RuneCountInString(asString(self.Value())))), nil
		},
	}
}

func (e *Evaluator) booleanMethods() object.Methods {
	return object.Methods{
		"not": func(self *object.Object, _ object.Args) (*object.Object, error) {
			b, _ := self.Value().Payload.(bool)
			return e.newObject(object.Value{Payload: !b, Affinity: self.Affinity()}), nil
		},
		",:to": e.pairMethod,
	}
}

func (e *Evaluator) arrayMethods() object.Methods {
	return object.Methods{
		"size": func(self *object.Object, _ object.Args) (*object.Object, error) {
			elements, _ := self.Value().Payload.([]*object.Object)
			return e.number(float64(len(elements))), nil
		},
		",:to": func(self *object.Object, args object.Args) (*object.Object, error) {
			elements, _ := self.Value().Payload.([]*object.Object)
			appended := append(append([]*object.Object{}, elements...), e.argOrNothing(args, "to"))
			return e.array(appended), nil
		},
	}
}

// pairMethod builds a two element array from the receiver and the operand.
func (e *Evaluator) pairMethod(self *object.Object, args object.Args) (*object.Object, error) {
	return e.array([]*object.Object{self, e.argOrNothing(args, "to")}), nil
}

func (e *Evaluator) argOrNothing(args object.Args, name string) *object.Object {
	if v := args.Get(name); v != nil {
		return v
	}
	return e.nothing()
}

func (e *Evaluator) index(elements []*object.Object, at *object.Object) (*object.Object, error) {
	if at == nil {
		return e.nothing(), nil
	}
	i := int(asNumber(at.Value()))
	if i < 1 || i > len(elements) {
		slog.Debug("index out of range",
			slog.Int("index", i),
			slog.Int("size", len(elements)))
		return e.nothing(), nil
	}
	return elements[i-1], nil
}

// dereference resolves a pointer in the hub. An empty slot is filled with a
// fresh empty object so later sends land somewhere.
func (e *Evaluator) dereference(ptr object.Value) (*object.Object, error) {
	obj := e.hub.Dereference(ptr)
	if loc, ok := ptr.Location(); ok && !obj.Placed() {
		obj = object.New(e.hub, object.Options{
			Value:     object.Nothing(),
			Methods:   e.methodsFor(object.Nothing()),
			Location:  loc,
			Listening: true,
		})
	}
	return obj, nil
}

func (e *Evaluator) everythingMethods() object.Methods {
	methods := e.commonMethods()
	// Everything is the identity of the lattice: Everything op x is x
	for _, op := range operators {
		methods[op+":to"] = func(_ *object.Object, args object.Args) (*object.Object, error) {
			return e.argOrNothing(args, "to"), nil
		}
	}
	methods[",:to"] = methods["+:to"]

	methods["set:to"] = func(_ *object.Object, args object.Args) (*object.Object, error) {
		name := args.Symbol("set")
		if name == "" {
			if v := args.Get("set"); v != nil {
				name, _ = v.Value().Payload.(string)
			}
		}
		if name == "" {
			return nil, errors.New("set:to needs a name to bind")
		}
		value := e.argOrNothing(args, "to")
		if _, err := e.CurrentEnv().Define(name, value); err != nil {
			return nil, err
		}
		if value.Name() == object.AnonymousName {
			value.SetName(name)
		}
		return value, nil
	}

	methods["new:location"] = func(_ *object.Object, args object.Args) (*object.Object, error) {
		loc, err := locationArg(args, "location")
		if err != nil {
			return nil, err
		}
		return e.allocate(args.Get("new"), loc), nil
	}

	methods["new"] = func(_ *object.Object, args object.Args) (*object.Object, error) {
		return e.allocate(args.Get("new"), e.nextLocation()), nil
	}

	methods["dereference"] = func(self *object.Object, args object.Args) (*object.Object, error) {
		if args.Get("dereference") == nil {
			return self, nil
		}
		loc, err := locationArg(args, "dereference")
		if err != nil {
			return nil, err
		}
		return e.dereference(object.Pointer(loc))
	}

	methods["free"] = func(_ *object.Object, args object.Args) (*object.Object, error) {
		if args.Get("free") == nil {
			return e.nothing(), nil
		}
		loc, err := locationArg(args, "free")
		if err != nil {
			return nil, err
		}
		e.hub.Free(loc)
		return e.nothing(), nil
	}

	methods["freeAll"] = func(self *object.Object, _ object.Args) (*object.Object, error) {
		e.hub.FreeAll()
		return self, nil
	}

	methods["size"] = func(_ *object.Object, _ object.Args) (*object.Object, error) {
		return e.number(float64(e.hub.Size())), nil
	}

	methods["references"] = func(_ *object.Object, _ object.Args) (*object.Object, error) {
		return e.number(float64(e.hub.TotalReferences())), nil
	}

	methods["hub"] = func(self *object.Object, _ object.Args) (*object.Object, error) {
		return self, e.sink.Println(e.hub.Describe())
	}

	return methods
}

// allocate stores a copy of value's payload at loc, unless loc is taken, and
// returns a pointer to it.
func (e *Evaluator) allocate(value *object.Object, loc object.Location) *object.Object {
	v := object.Nothing()
	if value != nil {
		v = value.Value()
	}
	obj := object.New(e.hub, object.Options{
		Value:     v,
		Methods:   e.methodsFor(v),
		Location:  loc,
		Listening: true,
	})
	if value != nil && value.Name() != object.AnonymousName {
		obj.SetName(value.Name())
	}
	return e.pointer(loc)
}

func (e *Evaluator) nextLocation() object.Location {
	locs := e.hub.Locations()
	if len(locs) == 0 {
		return 1
	}
	return locs[len(locs)-1] + 1
}

// arithmetic combines two values under the affinity lattice. Nothing poisons
// the result; a Reference result is pointer arithmetic.
func arithmetic(op string, left, right object.Value) (object.Value, error) {
	a, err := affinity.Combine(left.Affinity, right.Affinity)
	if err != nil {
		return object.Nothing(), err
	}

	switch a {
	case affinity.Nothing:
		return object.Nothing(), nil
	case affinity.Reference:
		base, offset := left, right
		if !base.IsPointer() {
			base, offset = right, left
		}
		loc, ok := base.Location()
		if !ok {
			return object.Nothing(), nil
		}
		n := int64(asNumber(offset))
		switch op {
		case "+":
			return object.Pointer(loc + object.Location(n)), nil
		case "-":
			return object.Pointer(loc - object.Location(n)), nil
		}
		return object.Nothing(), nil
	}

	x, y := asNumber(left), asNumber(right)
	var r float64
	switch op {
	case "+":
		r = x + y
	case "-":
		r = x - y
	case "*":
		r = x * y
	case "/":
		if y == 0 {
			return object.Nothing(), nil
		}
		r = x / y
	case "%":
		if y == 0 {
			return object.Nothing(), nil
		}
		r = math.Mod(x, y)
	default:
		return object.Nothing(), fmt.Errorf("unknown operator %q", op)
	}
	return object.Value{Payload: r, Affinity: a}, nil
}

func operandOf(args object.Args) object.Value {
	if v := args.Get("to"); v != nil {
		return v.Value()
	}
	return object.Nothing()
}

// asNumber reads a payload as a number, coercing other datatypes under the
// value's own affinity.
func asNumber(v object.Value) float64 {
	if f, ok := v.Payload.(float64); ok {
		return f
	}
	f, _ := affinity.Coerce(v.Payload, affinity.KindNumber, v.Affinity).(float64)
	return f
}

func asString(v object.Value) string {
	if s, ok := v.Payload.(string); ok {
		return s
	}
	if elements, ok := v.Payload.([]*object.Object); ok {
		return object.Something(elements).String()
	}
	s, ok := affinity.Coerce(v.Payload, affinity.KindString, v.Affinity).(string)
	if !ok {
		return v.String()
	}
	return s
}

// locationArg reads the named argument as a hub location: a pointer or a
// whole number.
func locationArg(args object.Args, name string) (object.Location, error) {
	v := args.Get(name)
	if v == nil {
		return 0, fmt.Errorf("%s: missing location", name)
	}
	if loc, ok := v.Value().Location(); ok {
		return loc, nil
	}
	f, ok := v.Value().Payload.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, fmt.Errorf("%s: %s is not a location", name, v.Value())
	}
	return object.Location(int64(f)), nil
}

// slotName is the key for at/at:put: the bare identifier if one was written,
// else the argument's printed value.
func slotName(args object.Args, name string) string {
	if sym := args.Symbol(name); sym != "" {
		return sym
	}
	v := args.Get(name)
	if v == nil {
		return ""
	}
	switch p := v.Value().Payload.(type) {
	case string:
		return p
	case float64:
		return strconv.FormatFloat(p, 'g', -1, 64)
	}
	return v.Value().String()
}
