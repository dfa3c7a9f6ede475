// Package hub is the address space of a gloom program: a map from location
// to object. It implements object.Store.
package hub

import (
	"gloom/internal/object"
	"log/slog"
	"sort"
	"strings"
)

type Hub struct {
	objects map[object.Location]*object.Object
}

func New() *Hub {
	return &Hub{objects: make(map[object.Location]*object.Object)}
}

// Store puts obj at loc. The last write wins.
func (h *Hub) Store(loc object.Location, obj *object.Object) {
	h.objects[loc] = obj
}

func (h *Hub) Lookup(loc object.Location) (*object.Object, bool) {
	obj, ok := h.objects[loc]
	return obj, ok
}

// Get returns the occupant of loc, or def when the slot is empty.
func (h *Hub) Get(loc object.Location, def *object.Object) *object.Object {
	if obj, ok := h.objects[loc]; ok {
		return obj
	}
	return def
}

func (h *Hub) Contains(loc object.Location) bool {
	_, ok := h.objects[loc]
	return ok
}

func (h *Hub) Free(loc object.Location) {
	delete(h.objects, loc)
}

func (h *Hub) FreeAll() {
	slog.Debug("freeing hub", slog.Int("objects", len(h.objects)))
	clear(h.objects)
}

func (h *Hub) Size() int {
	return len(h.objects)
}

func (h *Hub) TotalReferences() int64 {
	var total int64
	for _, obj := range h.objects {
		total += obj.References()
	}
	return total
}

// Locations returns every occupied location in ascending order.
func (h *Hub) Locations() []object.Location {
	locs := make([]object.Location, 0, len(h.objects))
	for loc := range h.objects {
		locs = append(locs, loc)
	}
	sort.Slice(locs, func(i, j int) bool { return locs[i] < locs[j] })
	return locs
}

// Move relocates obj to loc. An object that lives in another store, or in
// none, is placed here instead.
func (h *Hub) Move(obj *object.Object, to object.Location) {
	if s, ok := obj.Store().(*Hub); ok && s == h && obj.Placed() {
		obj.Move(to)
		return
	}
	obj.Observe()
	obj.Place(h, to)
}

// Dereference resolves a pointer. A location with no occupant yields a fresh
// empty object bound to that location but not stored; callers that want it
// kept must store it. A non-pointer yields an empty unplaced object.
func (h *Hub) Dereference(ptr object.Value) *object.Object {
	loc, ok := ptr.Location()
	if !ok {
		return object.Anonymous(object.Nothing(), nil)
	}
	if obj, ok := h.objects[loc]; ok {
		return obj
	}
	slog.Debug("auto-vivifying", slog.String("location", loc.String()))
	empty := object.Anonymous(object.Nothing(), nil)
	empty.Bind(h, loc)
	return empty
}

// Describe renders the report of every occupant in location order. Each
// occupant is observed once.
func (h *Hub) Describe() string {
	var sb strings.Builder
	sb.WriteString("gloom hub:\n")
	for _, loc := range h.Locations() {
		sb.WriteString(h.objects[loc].Describe())
	}
	return sb.String()
}
