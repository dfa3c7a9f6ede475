package object

import (
	"gloom/internal/affinity"
	"strings"
	"testing"
)

type mapStore map[Location]*Object

func (s mapStore) Lookup(loc Location) (*Object, bool) {
	o, ok := s[loc]
	return o, ok
}
func (s mapStore) Store(loc Location, obj *Object) { s[loc] = obj }
func (s mapStore) Free(loc Location)               { delete(s, loc) }
func (s mapStore) Size() int                       { return len(s) }
func (s mapStore) TotalReferences() int64 {
	var total int64
	for _, o := range s {
		total += o.references
	}
	return total
}

func TestFreshObjectHasNoReferences(t *testing.T) {
	store := mapStore{}
	o := New(store, Options{Name: "x", Value: Something(1.0), Location: 1})

	if o.References() != 0 {
		t.Fatalf("fresh object has %d references, want 0", o.References())
	}
	if o.PopularityScore() != 0 {
		t.Fatalf("popularity with no references = %g, want 0", o.PopularityScore())
	}
	if got, ok := store.Lookup(1); !ok || got != o {
		t.Fatalf("object not stored at its location")
	}
}

func TestObservationCountsReferences(t *testing.T) {
	store := mapStore{}
	o := New(store, Options{Value: Something("hi"), Location: 7})

	for i := 0; i < 3; i++ {
		_ = o.Inspect()
	}
	if o.References() != 3 {
		t.Fatalf("references = %d, want 3", o.References())
	}
	if o.PopularityScore() != 1.0 {
		t.Fatalf("popularity = %g, want 1", o.PopularityScore())
	}

	other := New(store, Options{Value: Something(2.0), Location: 8})
	other.Observe()
	if got := o.PopularityScore(); got != 0.75 {
		t.Fatalf("popularity = %g, want 0.75", got)
	}

	// report does not count; Describe does
	before := o.References()
	_ = o.Report()
	if o.References() != before {
		t.Fatalf("Report took a reference")
	}
	_ = o.Describe()
	if o.References() != before+1 {
		t.Fatalf("Describe did not take a reference")
	}
}

func TestConstructionIsIdempotentPerLocation(t *testing.T) {
	store := mapStore{}
	first := New(store, Options{Name: "first", Value: Something(1.0), Location: 3})
	second := New(store, Options{Name: "second", Value: Something(2.0), Location: 3})

	if first != second {
		t.Fatalf("second construction at occupied location built a new object")
	}
	if second.Value().Payload != 1.0 {
		t.Fatalf("occupant was modified, value = %v", second.Value())
	}
	if store.Size() != 1 {
		t.Fatalf("store size = %d, want 1", store.Size())
	}
}

func TestReceiveIsLastInFirstOut(t *testing.T) {
	var seen []string
	record := func(name string) Method {
		return func(self *Object, args Args) (*Object, error) {
			seen = append(seen, name)
			return self, nil
		}
	}
	o := Anonymous(Nothing(), Methods{"a": record("a"), "b": record("b"), "c": record("c")})
	o.Deafen()

	for _, sel := range []string{"a", "b", "c"} {
		res, err := o.Send(Unary(sel))
		if err != nil || res != nil {
			t.Fatalf("Send on deaf object returned (%v, %v)", res, err)
		}
	}
	if o.Pending() != 3 {
		t.Fatalf("pending = %d, want 3", o.Pending())
	}
	for o.Pending() > 0 {
		if _, err := o.Receive(); err != nil {
			t.Fatalf("receive: %v", err)
		}
	}
	if strings.Join(seen, "") != "cba" {
		t.Fatalf("dispatch order = %v, want [c b a]", seen)
	}
}

func TestListeningObjectDispatchesImmediately(t *testing.T) {
	o := Anonymous(Something(2.0), Methods{
		"twice": func(self *Object, args Args) (*Object, error) {
			return Anonymous(Something(self.Value().Payload.(float64)*2), nil), nil
		},
	})
	res, err := o.Send(Unary("twice"))
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if res == nil || res.Value().Payload != 4.0 {
		t.Fatalf("result = %v, want 4", res)
	}
	if o.Pending() != 0 {
		t.Fatalf("inbox not drained")
	}
}

func TestUnknownSelectorIsIgnored(t *testing.T) {
	o := Anonymous(Something(1.0), nil)
	res, err := o.Send(Unary("frobnicate"))
	if err != nil || res != nil {
		t.Fatalf("unknown selector returned (%v, %v)", res, err)
	}
}

func TestMessageSelectors(t *testing.T) {
	operand := Anonymous(Something(2.0), nil)
	tests := []struct {
		msg      Message
		expected string
	}{
		{Unary("print"), "print"},
		{Keyword(Pair{Name: "at", Value: operand}, Pair{Name: "put", Value: operand}), "at:put"},
		{Binary("+", operand), "+:to"},
		{Binary(",", operand), ",:to"},
	}
	for i, tt := range tests {
		if got := tt.msg.Selector(); got != tt.expected {
			t.Fatalf("tests[%d] - selector wrong. expected=%q, got=%q", i, tt.expected, got)
		}
	}
}

func TestBinaryDispatchesAsKeyword(t *testing.T) {
	var op, to *Object
	o := Anonymous(Something(1.0), Methods{
		"+:to": func(self *Object, args Args) (*Object, error) {
			op, to = args.Get("+"), args.Get("to")
			return self, nil
		},
	})
	operand := Anonymous(Something(2.0), nil)
	if _, err := o.Send(Binary("+", operand)); err != nil {
		t.Fatalf("send: %v", err)
	}
	if op == nil || op.Value().Payload != "+" {
		t.Fatalf("operator pair = %v, want +", op)
	}
	if to != operand {
		t.Fatalf("to pair is not the operand")
	}
}

func TestMoveFreesOldLocation(t *testing.T) {
	store := mapStore{}
	o := New(store, Options{Value: Something(1.0), Location: 1})

	o.Move(5)
	if _, ok := store.Lookup(1); ok {
		t.Fatalf("old location still occupied")
	}
	if got, _ := store.Lookup(5); got != o {
		t.Fatalf("object not at new location")
	}
	if o.Location() != 5 || o.References() != 1 {
		t.Fatalf("location=%s references=%d, want #5 and 1", o.Location(), o.References())
	}
}

func TestMoveDoesNotEvictAnotherOccupant(t *testing.T) {
	store := mapStore{}
	o := New(store, Options{Value: Something(1.0), Location: 1})
	squatter := Anonymous(Something(9.0), nil)
	squatter.Place(store, 1)

	o.Move(2)
	if got, _ := store.Lookup(1); got != squatter {
		t.Fatalf("move freed a location the object no longer held")
	}
}

func TestCloneToCopiesState(t *testing.T) {
	store := mapStore{}
	o := New(store, Options{Name: "orig", Value: Something("v"), Location: 1})
	o.Observe()

	c := o.CloneTo(2)
	if c == o {
		t.Fatalf("clone is the same object")
	}
	if got, _ := store.Lookup(2); got != c {
		t.Fatalf("clone not stored")
	}
	if !c.Value().Equal(o.Value()) || c.References() != o.References() {
		t.Fatalf("clone state differs: %v/%d vs %v/%d",
			c.Value(), c.References(), o.Value(), o.References())
	}
}

func TestFreeAndBecome(t *testing.T) {
	store := mapStore{}
	o := New(store, Options{Value: Something(1.0), Location: 4})
	o.Become(affinity.Everything)
	if o.Affinity() != affinity.Everything || o.Value().Payload != 1.0 {
		t.Fatalf("become changed the payload or kept the affinity: %v", o.Value())
	}
	o.Free()
	if _, ok := store.Lookup(4); ok || o.Placed() {
		t.Fatalf("free left the object in the store")
	}
}

func TestValueStrings(t *testing.T) {
	tests := []struct {
		value    Value
		expected string
	}{
		{Nothing(), "(nothing)"},
		{Something(3.0), "3"},
		{Something(2.5), "2.5"},
		{Something("hi"), "hi"},
		{Something(true), "true"},
		{Pointer(12), "ref#12"},
		{Something([]*Object{Anonymous(Something(1.0), nil), Anonymous(Something("a"), nil)}), "#(1 a)"},
	}
	for i, tt := range tests {
		if got := tt.value.String(); got != tt.expected {
			t.Fatalf("tests[%d] - string wrong. expected=%q, got=%q", i, tt.expected, got)
		}
	}
}

func TestEnvironmentScoping(t *testing.T) {
	outer := NewEnvironment()
	x := Anonymous(Something(1.0), nil)
	if _, err := outer.DefineConstant("Everything", x); err != nil {
		t.Fatalf("define: %v", err)
	}
	if _, err := outer.Define("Everything", x); err == nil {
		t.Fatalf("rebinding a constant succeeded")
	}

	inner := NewEnclosedEnvironment(outer)
	y := Anonymous(Something(2.0), nil)
	if _, err := inner.Define("y", y); err != nil {
		t.Fatalf("define: %v", err)
	}
	if got, ok := inner.Get("Everything"); !ok || got != x {
		t.Fatalf("inner lookup did not reach outer binding")
	}
	if _, ok := outer.Get("y"); ok {
		t.Fatalf("outer sees inner binding")
	}
	if names := strings.Join(inner.Names(), ","); names != "Everything,y" {
		t.Fatalf("names = %s", names)
	}
}
