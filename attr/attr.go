// Package attr provides a type-safe heterogeneous attribute store.
//
// A Key carries the static type of the values stored under it, so unrelated
// subsystems can share one Map without a common schema: a value can only be
// observed through a key whose declared type matches the stored value. Keys
// are identified by name and should be package-scoped, the same convention
// as context keys.
//
// Map is immutable: Put and Remove return a new Map and never mutate the
// receiver, so a Map held inside a session snapshot is safe to share.
package attr

import "maps"

// Key declares an attribute with value type T, identified by name.
type Key[T any] struct {
	name string
}

// NewKey returns a key for values of type T under the given name.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the key's identity.
func (k Key[T]) Name() string {
	return k.name
}

// Map is an immutable mapping from typed keys to values.
// The zero value is an empty, usable Map.
type Map struct {
	values map[string]any
}

// Get returns the value stored under k. The second result is false when no
// value is present, or when the stored value is not of k's declared type
// (which can only happen if two keys share a name across types).
func Get[T any](m Map, k Key[T]) (T, bool) {
	v, ok := m.values[k.name]
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Put returns a new Map with v stored under k.
func Put[T any](m Map, k Key[T], v T) Map {
	values := maps.Clone(m.values)
	if values == nil {
		values = make(map[string]any, 1)
	}
	values[k.name] = v
	return Map{values: values}
}

// Remove returns a new Map without an entry for k.
func Remove[T any](m Map, k Key[T]) Map {
	if _, ok := m.values[k.name]; !ok {
		return m
	}
	values := maps.Clone(m.values)
	delete(values, k.name)
	return Map{values: values}
}

// Contains reports whether Get would succeed for k.
func Contains[T any](m Map, k Key[T]) bool {
	v, ok := m.values[k.name]
	if !ok {
		return false
	}
	_, ok = v.(T)
	return ok
}

// Len returns the number of stored attributes.
func (m Map) Len() int {
	return len(m.values)
}
