package session

import "github.com/zhubert/forge-core/attr"

// Get returns the attribute stored under k in the session's scratch space.
func Get[T any](s State, k attr.Key[T]) (T, bool) {
	return attr.Get(s.Attributes, k)
}

// Put returns a state with v stored under k.
func Put[T any](s State, k attr.Key[T], v T) State {
	s.Attributes = attr.Put(s.Attributes, k, v)
	return s
}

// Update returns a state with the attribute under k replaced by f applied
// to the current value (zero value and false when absent). This is a
// read-then-write over one snapshot, not an atomic operation; the driver
// loop advances a single authoritative state, so updates on divergent
// copies do not compose.
func Update[T any](s State, k attr.Key[T], f func(v T, ok bool) T) State {
	v, ok := attr.Get(s.Attributes, k)
	return Put(s, k, f(v, ok))
}

// Remove returns a state without an attribute under k.
func Remove[T any](s State, k attr.Key[T]) State {
	s.Attributes = attr.Remove(s.Attributes, k)
	return s
}

// Has reports whether an attribute is stored under k.
func Has[T any](s State, k attr.Key[T]) bool {
	return attr.Contains(s.Attributes, k)
}
