package object

import (
	"fmt"
	"gloom/internal/affinity"
	"reflect"
	"strconv"
	"strings"
)

// Location is the hub key of an object, the address of a slot in the hub.
type Location int64

func (l Location) Int64() int64 { return int64(l) }

func (l Location) String() string { return "#" + strconv.FormatInt(int64(l), 10) }

// Value is a payload tagged with its affinity. A Value with Reference
// affinity and a Location payload is a pointer.
type Value struct {
	Payload  any
	Affinity affinity.Affinity
}

// EverythingPayload is what the global Everything object holds.
const EverythingPayload = "*"

func Nothing() Value {
	return Value{Payload: nil, Affinity: affinity.Nothing}
}

func Something(payload any) Value {
	return Value{Payload: payload, Affinity: affinity.Something}
}

func Everything() Value {
	return Value{Payload: EverythingPayload, Affinity: affinity.Everything}
}

func Pointer(loc Location) Value {
	return Value{Payload: loc, Affinity: affinity.Reference}
}

func (v Value) IsNothing() bool    { return v.Affinity == affinity.Nothing }
func (v Value) IsEverything() bool { return v.Affinity == affinity.Everything }

func (v Value) IsPointer() bool {
	_, ok := v.Payload.(Location)
	return ok && v.Affinity == affinity.Reference
}

// Location returns the target of a pointer.
func (v Value) Location() (Location, bool) {
	if !v.IsPointer() {
		return 0, false
	}
	return v.Payload.(Location), true
}

func (v Value) Kind() affinity.Kind {
	return affinity.KindOf(v.Payload)
}

// Coerce converts the payload to the given datatype under the target
// affinity; see affinity.Coerce.
func (v Value) Coerce(kind affinity.Kind, target affinity.Affinity) Value {
	payload := affinity.Coerce(v.Payload, kind, target)
	if n, ok := payload.(int64); ok && kind == affinity.KindLocation {
		payload = Location(n)
	}
	return Value{Payload: payload, Affinity: target}
}

// Equal compares payloads, ignoring affinity.
func (v Value) Equal(other Value) bool {
	a, ok := v.Payload.([]*Object)
	if !ok {
		return reflect.DeepEqual(v.Payload, other.Payload)
	}
	b, ok := other.Payload.([]*Object)
	if !ok || len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].value.Equal(b[i].value) {
			return false
		}
	}
	return true
}

func (v Value) String() string {
	if v.Affinity == affinity.Nothing && v.Payload == nil {
		return "(nothing)"
	}
	switch p := v.Payload.(type) {
	case nil:
		return "(nothing)"
	case Location:
		return "ref" + p.String()
	case float64:
		return strconv.FormatFloat(p, 'g', -1, 64)
	case string:
		return p
	case bool:
		return strconv.FormatBool(p)
	case []*Object:
		elements := make([]string, len(p))
		for i, e := range p {
			elements[i] = e.value.String()
		}
		return "#(" + strings.Join(elements, " ") + ")"
	case interface{ String() string }:
		return p.String()
	}
	return fmt.Sprint(v.Payload)
}
