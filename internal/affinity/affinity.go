// Package affinity implements the four-valued type lattice that decides what
// kind of value comes out of combining two values, and the per-datatype
// coercions into each affinity's representation.
package affinity

import (
	"fmt"
	"strings"
)

type Affinity uint8

const (
	Nothing Affinity = iota
	Something
	Everything
	Reference
)

var names = [...]string{"nothing", "something", "everything", "reference"}

func (a Affinity) String() string {
	if !a.Valid() {
		return fmt.Sprintf("affinity(%d)", uint8(a))
	}
	return names[a]
}

func (a Affinity) Valid() bool {
	return a <= Reference
}

// ParseAffinity accepts the lower-case names used by String.
func ParseAffinity(s string) (Affinity, error) {
	for i, n := range names {
		if strings.EqualFold(s, n) {
			return Affinity(i), nil
		}
	}
	return Nothing, fmt.Errorf("unknown affinity %q", s)
}

// LatticeError reports a pair of affinities the lattice does not define.
type LatticeError struct {
	Left  Affinity
	Right Affinity
}

func (e *LatticeError) Error() string {
	return fmt.Sprintf("no outcome affinity for (%s, %s); valid affinities are %s",
		e.Left, e.Right, strings.Join(names[:], ", "))
}

// Combine resolves the affinity of an operation over values of affinity a and b:
//
//	            EVERYTHING  SOMETHING  NOTHING  REFERENCE
//	EVERYTHING  EVERYTHING  SOMETHING  NOTHING  REFERENCE
//	SOMETHING   SOMETHING   SOMETHING  NOTHING  REFERENCE
//	NOTHING     NOTHING     NOTHING    NOTHING  NOTHING
//	REFERENCE   REFERENCE   REFERENCE  NOTHING  REFERENCE
func Combine(a, b Affinity) (Affinity, error) {
	if !a.Valid() || !b.Valid() {
		return Nothing, &LatticeError{Left: a, Right: b}
	}
	switch {
	case a == b:
		return a, nil
	case a == Nothing || b == Nothing:
		return Nothing, nil
	case a == Everything:
		return b, nil
	case b == Everything:
		return a, nil
	case a == Something && b == Reference, a == Reference && b == Something:
		return Reference, nil
	}
	return Nothing, &LatticeError{Left: a, Right: b}
}
