package booksearch

// Values is the ordered collection stored under a single tree key.
//
// Elements are compared with ==. For pointer element types that makes
// equality identity, which is how the book indexes use it: two books with
// identical fields are still two entries. A Values never holds the same
// element twice.
type Values[V comparable] struct {
	items []V
}

// NewValues builds a collection from vs, keeping the first occurrence of any
// repeated element.
func NewValues[V comparable](vs ...V) Values[V] {
	out := Values[V]{items: make([]V, 0, len(vs))}
	seen := make(map[V]struct{}, len(vs))
	for _, v := range vs {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out.items = append(out.items, v)
	}
	return out
}

func (vs Values[V]) Len() int {
	return len(vs.items)
}

// Slice returns a copy of the elements in stored order.
func (vs Values[V]) Slice() []V {
	buf := make([]V, len(vs.items))
	copy(buf, vs.items)
	return buf
}

func (vs Values[V]) Contains(v V) bool {
	for _, item := range vs.items {
		if item == v {
			return true
		}
	}
	return false
}

// Equal reports whether both collections hold the same elements in the same
// order.
func (vs Values[V]) Equal(other Values[V]) bool {
	if len(vs.items) != len(other.items) {
		return false
	}
	for i := range vs.items {
		if vs.items[i] != other.items[i] {
			return false
		}
	}
	return true
}

// Merge drops every element of incoming from vs and then appends incoming in
// its own order. Shared elements end up where incoming places them; the net
// membership is the union of both collections.
func (vs *Values[V]) Merge(incoming Values[V]) {
	drop := make(map[V]struct{}, len(incoming.items))
	for _, v := range incoming.items {
		drop[v] = struct{}{}
	}
	kept := vs.items[:0]
	for _, v := range vs.items {
		if _, ok := drop[v]; ok {
			continue
		}
		kept = append(kept, v)
	}
	vs.items = append(kept, incoming.items...)
}
