// Package object holds the runtime model: tagged values, addressable objects
// with method tables and inboxes, and the name environment the evaluator
// resolves identifiers in.
package object

import (
	"fmt"
	"gloom/internal/affinity"
	"log/slog"
	"sort"
	"time"
)

// Method is the body behind a selector. Unary methods receive nil args.
type Method func(self *Object, args Args) (*Object, error)

type Methods map[string]Method

// Store is the address space objects live in. The hub implements it.
type Store interface {
	Lookup(loc Location) (*Object, bool)
	Store(loc Location, obj *Object)
	Free(loc Location)
	Size() int
	TotalReferences() int64
}

// AnonymousName is the name of an object nobody has named.
const AnonymousName = "anonymous"

type Object struct {
	name     string
	location Location
	placed   bool
	store    Store

	value   Value
	methods Methods
	slots   map[string]*Object

	inbox     []Message
	listening bool

	references     int64
	createdAt      time.Time
	updatedAt      time.Time
	lastReferenced time.Time
}

// Options configures New.
type Options struct {
	Name      string
	Value     Value
	Methods   Methods
	Location  Location
	Listening bool
}

// New constructs an object at opts.Location in store. Construction is
// idempotent per location: if the slot is occupied, the occupant is returned
// untouched.
func New(store Store, opts Options) *Object {
	if existing, ok := store.Lookup(opts.Location); ok {
		return existing
	}
	o := newObject(opts.Name, opts.Value, opts.Methods)
	o.listening = opts.Listening
	o.location = opts.Location
	o.placed = true
	o.store = store
	store.Store(opts.Location, o)
	return o
}

// Anonymous makes an object that lives outside any store, such as the value
// of a literal. It listens from birth.
func Anonymous(value Value, methods Methods) *Object {
	o := newObject("", value, methods)
	o.listening = true
	return o
}

func newObject(name string, value Value, methods Methods) *Object {
	if name == "" {
		name = AnonymousName
	}
	if methods == nil {
		methods = Methods{}
	}
	now := time.Now()
	return &Object{
		name:           name,
		value:          value,
		methods:        methods,
		createdAt:      now,
		updatedAt:      now,
		lastReferenced: now,
	}
}

func (o *Object) Name() string                { return o.name }
func (o *Object) SetName(name string)         { o.name = name }
func (o *Object) Location() Location          { return o.location }
func (o *Object) Placed() bool                { return o.placed }
func (o *Object) Store() Store                { return o.store }
func (o *Object) Value() Value                { return o.value }
func (o *Object) Affinity() affinity.Affinity { return o.value.Affinity }
func (o *Object) References() int64           { return o.references }
func (o *Object) CreatedAt() time.Time        { return o.createdAt }
func (o *Object) UpdatedAt() time.Time        { return o.updatedAt }
func (o *Object) LastReferenced() time.Time   { return o.lastReferenced }

func (o *Object) SetValue(v Value) {
	o.value = v
	o.touch()
}

// Become changes the affinity of the object's value, keeping the payload.
func (o *Object) Become(a affinity.Affinity) {
	o.value.Affinity = a
	o.touch()
}

func (o *Object) touch() {
	o.updatedAt = time.Now()
}

// Methods

func (o *Object) Define(selector string, m Method) {
	o.methods[selector] = m
}

func (o *Object) Method(selector string) (Method, bool) {
	m, ok := o.methods[selector]
	return m, ok
}

// Selectors returns the selectors the object understands, sorted.
func (o *Object) Selectors() []string {
	selectors := make([]string, 0, len(o.methods))
	for s := range o.methods {
		selectors = append(selectors, s)
	}
	sort.Strings(selectors)
	return selectors
}

// Slots

func (o *Object) Slot(name string) (*Object, bool) {
	s, ok := o.slots[name]
	return s, ok
}

func (o *Object) SetSlot(name string, value *Object) {
	if o.slots == nil {
		o.slots = map[string]*Object{}
	}
	o.slots[name] = value
	o.touch()
}

// Messaging

func (o *Object) Listen()         { o.listening = true }
func (o *Object) Deafen()         { o.listening = false }
func (o *Object) Listening() bool { return o.listening }
func (o *Object) Pending() int    { return len(o.inbox) }

// Send enqueues msg. A listening object drains it at once and returns the
// method's result; otherwise the message waits for Receive.
func (o *Object) Send(msg Message) (*Object, error) {
	o.inbox = append(o.inbox, msg)
	if o.listening {
		return o.Receive()
	}
	return nil, nil
}

// Receive dispatches the most recently enqueued message. The inbox is a
// stack: the newest message is handled first.
func (o *Object) Receive() (*Object, error) {
	if len(o.inbox) == 0 {
		return nil, nil
	}
	last := len(o.inbox) - 1
	msg := o.inbox[last]
	o.inbox = o.inbox[:last]
	return o.dispatch(msg)
}

func (o *Object) dispatch(msg Message) (*Object, error) {
	switch msg.kind {
	case UnaryMessage:
		return o.call(msg.selector, nil)
	case KeywordMessage:
		return o.call(msg.Selector(), msg.pairs)
	case BinaryMessage:
		return o.dispatch(msg.asKeyword())
	}
	return nil, fmt.Errorf("unknown message kind %d", msg.kind)
}

func (o *Object) call(selector string, args Args) (*Object, error) {
	m, ok := o.methods[selector]
	if !ok {
		slog.Debug("no method for selector",
			slog.String("object", o.name),
			slog.String("selector", selector))
		return nil, nil
	}
	return m(o, args)
}

// References

// Observe records one external read of the object.
func (o *Object) Observe() {
	o.references++
	o.lastReferenced = time.Now()
}

// Inspect renders the value for display. It counts as a reference.
func (o *Object) Inspect() string {
	o.Observe()
	return o.value.String()
}

func (o *Object) String() string {
	return o.Inspect()
}

// Describe renders the full report on the object. It counts as a reference.
func (o *Object) Describe() string {
	o.Observe()
	return o.report()
}

func (o *Object) report() string {
	total, count := int64(0), 0
	if o.store != nil {
		total, count = o.store.TotalReferences(), o.store.Size()
	}
	return fmt.Sprintf(`gloom object @%s: %s (affinity: %s)
    - popularity: %g (across %d total objects)
    - references: %d (out of %d total references globally)
    - created at: %s
    - last referenced: %s
    - updated at: %s
`,
		o.location, o.value, o.value.Affinity,
		o.PopularityScore(), count,
		o.references, total,
		o.createdAt.Format(time.RFC3339Nano),
		o.lastReferenced.Format(time.RFC3339Nano),
		o.updatedAt.Format(time.RFC3339Nano))
}

// Report renders the same text as Describe without taking a reference.
func (o *Object) Report() string {
	return o.report()
}

// PopularityScore is the object's share of all references in its store, or
// 0 when nothing in the store has been referenced.
func (o *Object) PopularityScore() float64 {
	if o.store == nil {
		return 0
	}
	total := o.store.TotalReferences()
	if total == 0 {
		return 0
	}
	return float64(o.references) / float64(total)
}

// Placement

// Place puts an unplaced object into store at loc, overwriting any occupant.
func (o *Object) Place(store Store, loc Location) {
	o.store = store
	o.location = loc
	o.placed = true
	store.Store(loc, o)
}

// Bind associates the object with loc in store without storing it. It stays
// unplaced until someone stores it.
func (o *Object) Bind(store Store, loc Location) {
	o.store = store
	o.location = loc
}

// Move relocates the object within its store. The old slot is released and
// the new one filled before anyone can look again.
func (o *Object) Move(to Location) {
	o.Observe()
	if o.store == nil {
		o.location = to
		return
	}
	o.release()
	o.location = to
	o.placed = true
	o.store.Store(to, o)
	o.touch()
}

// CloneTo copies the object into loc of the same store, overwriting any
// occupant there. Methods are shared; the reference count is carried over.
func (o *Object) CloneTo(loc Location) *Object {
	o.Observe()
	c := &Object{
		name:           o.name,
		value:          o.value,
		methods:        o.methods,
		listening:      o.listening,
		references:     o.references,
		createdAt:      o.createdAt,
		updatedAt:      o.updatedAt,
		lastReferenced: o.lastReferenced,
	}
	if o.store != nil {
		c.Place(o.store, loc)
	} else {
		c.location = loc
	}
	return c
}

// Free removes the object from its store. Objects it points to are untouched.
func (o *Object) Free() {
	o.release()
	o.placed = false
}

func (o *Object) release() {
	if o.store == nil || !o.placed {
		return
	}
	if cur, ok := o.store.Lookup(o.location); ok && cur == o {
		o.store.Free(o.location)
	}
}
