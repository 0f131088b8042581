package identified

// Array is an ordered collection whose elements are uniquely keyed by a
// caller-supplied key function. Insertion order is preserved; a key
// occurs at most once.
//
// Mutating methods copy the backing slice before writing, so snapshots
// taken from an Array value stay point-in-time consistent even while the
// original keeps evolving.
type Array[K comparable, E any] struct {
	keyOf func(E) K
	elems []E
}

// NewArray builds an array keyed by keyOf. Elements with a key already
// present are skipped (first occurrence wins).
func NewArray[K comparable, E any](keyOf func(E) K, elems ...E) Array[K, E] {
	a := Array[K, E]{keyOf: keyOf}
	for _, e := range elems {
		a.Append(e)
	}
	return a
}

func (a Array[K, E]) indexOf(key K) int {
	for i, e := range a.elems {
		if a.keyOf(e) == key {
			return i
		}
	}
	return -1
}

// Get returns the element stored under key, if any.
func (a Array[K, E]) Get(key K) (E, bool) {
	if i := a.indexOf(key); i >= 0 {
		return a.elems[i], true
	}
	var zero E
	return zero, false
}

// Append adds e at the end. Reports false without modifying the array
// when an element with the same key already exists.
func (a *Array[K, E]) Append(e E) bool {
	if a.indexOf(a.keyOf(e)) >= 0 {
		return false
	}
	a.elems = append(append(make([]E, 0, len(a.elems)+1), a.elems...), e)
	return true
}

// Update replaces the element stored under key with e, keeping its
// position. Reports false when key is absent or e carries a different key.
func (a *Array[K, E]) Update(key K, e E) bool {
	if a.keyOf(e) != key {
		return false
	}
	i := a.indexOf(key)
	if i < 0 {
		return false
	}
	elems := append(make([]E, 0, len(a.elems)), a.elems...)
	elems[i] = e
	a.elems = elems
	return true
}

// Remove deletes the element stored under key, preserving the order of
// the rest. Reports false when key is absent.
func (a *Array[K, E]) Remove(key K) bool {
	i := a.indexOf(key)
	if i < 0 {
		return false
	}
	elems := make([]E, 0, len(a.elems)-1)
	elems = append(elems, a.elems[:i]...)
	elems = append(elems, a.elems[i+1:]...)
	a.elems = elems
	return true
}

// Len returns the number of elements.
func (a Array[K, E]) Len() int { return len(a.elems) }

// At returns the element at position i in insertion order.
func (a Array[K, E]) At(i int) E { return a.elems[i] }

// Keys returns every key in insertion order.
func (a Array[K, E]) Keys() []K {
	keys := make([]K, 0, len(a.elems))
	for _, e := range a.elems {
		keys = append(keys, a.keyOf(e))
	}
	return keys
}

// All returns a copy of the elements in insertion order.
func (a Array[K, E]) All() []E {
	return append(make([]E, 0, len(a.elems)), a.elems...)
}
