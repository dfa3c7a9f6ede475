package affinity

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// Kind is the datatype of a payload, independent of its affinity.
type Kind uint8

const (
	KindNone Kind = iota
	KindNumber
	KindString
	KindBoolean
	KindArray
	KindProperties
	KindLocation
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindArray:
		return "array"
	case KindProperties:
		return "properties"
	case KindLocation:
		return "location"
	}
	return "other"
}

// Locator is implemented by payloads that name a hub location.
type Locator interface {
	Int64() int64
}

// UnboundedMarker stands in for "every possible value" of a collection
// datatype. It is never expanded.
type UnboundedMarker struct {
	Kind Kind
}

func (u UnboundedMarker) String() string {
	return "*" + u.Kind.String()
}

// Unbounded returns the sentinel for the given collection kind.
func Unbounded(k Kind) UnboundedMarker {
	return UnboundedMarker{Kind: k}
}

// KindOf classifies a payload.
func KindOf(payload any) Kind {
	switch payload.(type) {
	case nil:
		return KindNone
	case float64, float32, int, int64, int32:
		return KindNumber
	case string:
		return KindString
	case bool:
		return KindBoolean
	case []any:
		return KindArray
	case map[string]any:
		return KindProperties
	case Locator:
		return KindLocation
	case UnboundedMarker:
		return payload.(UnboundedMarker).Kind
	}
	v := reflect.ValueOf(payload)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return KindArray
	case reflect.Map:
		return KindProperties
	}
	return KindOther
}

// Bottom is the zero value substituted whenever a coercion is undefined.
func Bottom(k Kind) any {
	switch k {
	case KindNumber:
		return 0.0
	case KindString:
		return ""
	case KindBoolean:
		return false
	case KindArray:
		return []any{}
	case KindProperties:
		return map[string]any{}
	case KindLocation:
		return int64(0)
	}
	return nil
}

type converter func(payload any) (any, bool)

var somethingConverters = map[Kind]converter{
	KindNone:       func(any) (any, bool) { return nil, true },
	KindNumber:     toNumber,
	KindString:     toString,
	KindBoolean:    toBoolean,
	KindArray:      toArray,
	KindProperties: toProperties,
	KindLocation:   toLocation,
}

var everythingConverters = map[Kind]converter{
	KindNone:       func(any) (any, bool) { return 0.0, true },
	KindNumber:     func(any) (any, bool) { return math.MaxFloat64, true },
	KindString:     func(any) (any, bool) { return Unbounded(KindString), true },
	KindBoolean:    func(any) (any, bool) { return true, true },
	KindArray:      func(any) (any, bool) { return Unbounded(KindArray), true },
	KindProperties: func(any) (any, bool) { return Unbounded(KindProperties), true },
	KindLocation:   func(any) (any, bool) { return int64(math.MaxInt64), true },
}

func convertersFor(target Affinity) map[Kind]converter {
	switch target {
	case Something, Reference:
		return somethingConverters
	case Everything:
		return everythingConverters
	}
	return nil
}

// Coerce converts payload into the representation of datatype kind under the
// target affinity. It never fails: a missing or failing conversion yields
// Bottom(kind).
func Coerce(payload any, kind Kind, target Affinity) any {
	if target == Nothing {
		return nil
	}
	convert, ok := convertersFor(target)[kind]
	if !ok {
		return Bottom(kind)
	}
	v, ok := convert(payload)
	if !ok {
		return Bottom(kind)
	}
	return v
}

func toNumber(payload any) (any, bool) {
	switch x := payload.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case bool:
		if x {
			return 1.0, true
		}
		return 0.0, true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	case Locator:
		return float64(x.Int64()), true
	}
	return nil, false
}

func toString(payload any) (any, bool) {
	switch x := payload.(type) {
	case nil:
		return nil, false
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	case fmt.Stringer:
		return x.String(), true
	}
	return fmt.Sprintf("%v", payload), true
}

func toBoolean(payload any) (any, bool) {
	switch x := payload.(type) {
	case bool:
		return x, true
	case float64:
		return x != 0, true
	case string:
		b, err := strconv.ParseBool(x)
		return b, err == nil
	}
	return nil, false
}

func toArray(payload any) (any, bool) {
	switch x := payload.(type) {
	case nil:
		return nil, false
	case []any:
		return x, true
	}
	return []any{payload}, true
}

func toProperties(payload any) (any, bool) {
	switch x := payload.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return x, true
	}
	s, _ := toString(payload)
	return map[string]any{s.(string): payload}, true
}

func toLocation(payload any) (any, bool) {
	switch x := payload.(type) {
	case Locator:
		return x.Int64(), true
	case float64:
		if x != math.Trunc(x) {
			return nil, false
		}
		return int64(x), true
	case int64:
		return x, true
	case int:
		return int64(x), true
	}
	return nil, false
}
