package trie

import (
	"bytes"
	"sync"
)

// Trie is a byte-wise radix tree mapping string keys to values.
type Trie[V any] struct {
	root *node[V]
	pool sync.Pool
	size int
}

// node represents a node in the trie
type node[V any] struct {
	edge   byte          // the byte (char) that led to this node
	label  []byte        // compressed path (can be more than one byte)
	value  V             // value stored at the node when isLeaf is set
	child  [256]*node[V] // direct access to child nodes (O(1) access)
	isLeaf bool
}

// NewTrie creates a new Trie
func NewTrie[V any]() *Trie[V] {
	t := &Trie[V]{}
	t.pool.New = func() any {
		return &node[V]{}
	}
	t.root = t.newNode()
	return t
}

// Len returns the number of keys stored.
func (t *Trie[V]) Len() int {
	return t.size
}

// Insert adds or replaces the value stored for key.
func (t *Trie[V]) Insert(key string, value V) {
	t.insert(t.root, []byte(key), value)
}

func (t *Trie[V]) insert(n *node[V], key []byte, value V) {
	if len(key) == 0 {
		if !n.isLeaf {
			t.size++
		}
		n.value = value
		n.isLeaf = true
		return
	}

	c := key[0]
	child := n.child[c]

	if child == nil {
		leaf := t.newNode()
		leaf.edge = c
		leaf.label = bytes.Clone(key)
		leaf.value = value
		leaf.isLeaf = true
		n.child[c] = leaf
		t.size++
		return
	}

	common := commonPrefix(key, child.label)
	if len(common) == len(child.label) {
		t.insert(child, key[len(common):], value)
		return
	}

	// Split child at the end of the shared prefix.
	split := t.newNode()
	split.edge = c
	split.label = bytes.Clone(common)
	child.label = child.label[len(common):]
	child.edge = child.label[0]
	split.child[child.edge] = child
	n.child[c] = split

	if len(common) == len(key) {
		split.value = value
		split.isLeaf = true
		t.size++
		return
	}

	leaf := t.newNode()
	suffix := bytes.Clone(key[len(common):])
	leaf.edge = suffix[0]
	leaf.label = suffix
	leaf.value = value
	leaf.isLeaf = true
	split.child[leaf.edge] = leaf
	t.size++
}

// Get returns the value for a given key
func (t *Trie[V]) Get(key string) (V, bool) {
	k := []byte(key)
	n := t.root

	for len(k) > 0 {
		child := n.child[k[0]]
		if child == nil || !bytes.HasPrefix(k, child.label) {
			var zero V
			return zero, false
		}
		k = k[len(child.label):]
		n = child
	}

	if n.isLeaf {
		return n.value, true
	}
	var zero V
	return zero, false
}

// WalkPrefix calls fn for every key starting with prefix, in byte order,
// until fn returns false.
func (t *Trie[V]) WalkPrefix(prefix string, fn func(key string, value V) bool) {
	k := []byte(prefix)
	n := t.root
	var path []byte

	for len(k) > 0 {
		child := n.child[k[0]]
		if child == nil {
			return
		}
		switch {
		case bytes.HasPrefix(k, child.label):
			k = k[len(child.label):]
		case bytes.HasPrefix(child.label, k):
			// prefix ends inside this edge
			k = nil
		default:
			return
		}
		path = append(path, child.label...)
		n = child
	}
	t.walk(n, path[:len(path)-len(n.label)], fn)
}

// Traverse iterates over all key-value pairs in the trie
func (t *Trie[V]) Traverse(fn func(key string, value V)) {
	t.walk(t.root, nil, func(key string, value V) bool {
		fn(key, value)
		return true
	})
}

func (t *Trie[V]) walk(n *node[V], prefix []byte, fn func(key string, value V) bool) bool {
	full := make([]byte, 0, len(prefix)+len(n.label))
	full = append(full, prefix...)
	full = append(full, n.label...)
	if n.isLeaf && !fn(string(full), n.value) {
		return false
	}
	for i := 0; i < len(n.child); i++ {
		if child := n.child[i]; child != nil {
			if !t.walk(child, full, fn) {
				return false
			}
		}
	}
	return true
}

// Helper: allocate a new node from pool
func (t *Trie[V]) newNode() *node[V] {
	n := t.pool.Get().(*node[V])
	*n = node[V]{} // clear contents
	return n
}

// Helper: find common prefix
func commonPrefix(a, b []byte) []byte {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
