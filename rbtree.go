package booksearch

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/xlab/treeprint"
)

// Ordered is the set of key types a tree can hold.
type Ordered interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64 | ~string
}

var errInvariant = errors.New("booksearch: red-black invariant violated")

type color uint8

const (
	red color = iota
	black
)

func (c color) String() string {
	if c == red {
		return "red"
	}
	return "black"
}

type node[K Ordered, V comparable] struct {
	key    K
	values Values[V]
	parent *node[K, V]
	left   *node[K, V]
	right  *node[K, V]
	color  color
}

func (n *node[K, V]) isLeftChild() bool {
	return n.parent != nil && n.parent.left == n
}

func isRed[K Ordered, V comparable](n *node[K, V]) bool {
	return n != nil && n.color == red
}

// RBTree is an ordered multi-map backed by a red-black tree. Each distinct
// key owns one node holding a Values collection; inserting an existing key
// merges into that collection instead of adding a node.
//
// RBTree is not safe for concurrent use.
type RBTree[K Ordered, V comparable] struct {
	root   *node[K, V]
	size   int
	values int
}

// NewRBTree returns an empty tree.
func NewRBTree[K Ordered, V comparable]() *RBTree[K, V] {
	return &RBTree[K, V]{}
}

// Insert stores values under key.
//
// A new key becomes a red leaf and the tree is rebalanced. An existing key
// merges values into its collection (see Values.Merge) without touching the
// tree shape. Inserting a collection identical to the stored one fails with
// ErrDuplicateValue. NaN keys and empty collections fail with
// ErrInvalidArgument. A failed Insert leaves the tree unchanged.
func (t *RBTree[K, V]) Insert(key K, values ...V) error {
	if key != key {
		return fmt.Errorf("%w: key %v has no ordering", ErrInvalidArgument, key)
	}
	if len(values) == 0 {
		return fmt.Errorf("%w: empty value collection for key %v", ErrInvalidArgument, key)
	}
	incoming := NewValues(values...)
	var parent *node[K, V]
	cur := t.root
	for cur != nil {
		parent = cur
		switch {
		case key < cur.key:
			cur = cur.left
		case key > cur.key:
			cur = cur.right
		default:
			if cur.values.Equal(incoming) {
				return fmt.Errorf("%w: key %v already holds these values", ErrDuplicateValue, key)
			}
			before := cur.values.Len()
			cur.values.Merge(incoming)
			t.values += cur.values.Len() - before
			return nil
		}
	}
	n := &node[K, V]{key: key, values: incoming, parent: parent, color: red}
	switch {
	case parent == nil:
		t.root = n
	case key < parent.key:
		parent.left = n
	default:
		parent.right = n
	}
	t.size++
	t.values += incoming.Len()
	t.fixAfterInsert(n)
	t.root.color = black
	return nil
}

// fixAfterInsert restores the red-black properties walking up from n.
func (t *RBTree[K, V]) fixAfterInsert(n *node[K, V]) {
	for {
		parent := n.parent
		if parent == nil || parent.color == black {
			return
		}
		grand := parent.parent
		if grand == nil {
			// red root, painted black by Insert
			return
		}
		uncle := grand.left
		if parent == grand.left {
			uncle = grand.right
		}
		if isRed(uncle) {
			parent.color = black
			uncle.color = black
			grand.color = red
			n = grand
			continue
		}
		if n.isLeftChild() != parent.isLeftChild() {
			t.mustRotate(n, parent)
			n, parent = parent, n
		}
		t.mustRotate(parent, grand)
		parent.color = black
		grand.color = red
		return
	}
}

func (t *RBTree[K, V]) mustRotate(child, parent *node[K, V]) {
	if err := t.rotate(child, parent); err != nil {
		panic(err)
	}
}

// rotate swaps child and parent: a right child triggers a left rotation and
// a left child a right rotation. Nodes that are not parent and direct child
// are rejected with ErrInvalidArgument.
func (t *RBTree[K, V]) rotate(child, parent *node[K, V]) error {
	if child == nil || parent == nil || child.parent != parent {
		return fmt.Errorf("%w: rotation needs a node and its direct child", ErrInvalidArgument)
	}
	switch child {
	case parent.right:
		t.rotateLeft(parent)
	case parent.left:
		t.rotateRight(parent)
	default:
		return fmt.Errorf("%w: child is not linked under parent", ErrInvalidArgument)
	}
	return nil
}

func (t *RBTree[K, V]) rotateLeft(p *node[K, V]) {
	r := p.right
	p.right = r.left
	if r.left != nil {
		r.left.parent = p
	}
	t.replaceChild(p.parent, p, r)
	r.left = p
	p.parent = r
}

func (t *RBTree[K, V]) rotateRight(p *node[K, V]) {
	l := p.left
	p.left = l.right
	if l.right != nil {
		l.right.parent = p
	}
	t.replaceChild(p.parent, p, l)
	l.right = p
	p.parent = l
}

// replaceChild points parent (or the root when parent is nil) at repl
// instead of old.
func (t *RBTree[K, V]) replaceChild(parent, old, repl *node[K, V]) {
	switch {
	case parent == nil:
		t.root = repl
	case parent.left == old:
		parent.left = repl
	default:
		parent.right = repl
	}
	repl.parent = parent
}

func (t *RBTree[K, V]) find(key K) *node[K, V] {
	cur := t.root
	for cur != nil {
		switch {
		case key < cur.key:
			cur = cur.left
		case key > cur.key:
			cur = cur.right
		default:
			return cur
		}
	}
	return nil
}

// Contains reports whether key is stored.
func (t *RBTree[K, V]) Contains(key K) bool {
	return t.find(key) != nil
}

// Get returns a copy of the values stored under key.
func (t *RBTree[K, V]) Get(key K) ([]V, bool) {
	n := t.find(key)
	if n == nil {
		return nil, false
	}
	return n.values.Slice(), true
}

// Size returns the number of distinct keys.
func (t *RBTree[K, V]) Size() int {
	return t.size
}

// IsEmpty reports whether the tree holds no keys.
func (t *RBTree[K, V]) IsEmpty() bool {
	return t.size == 0
}

// ValueCount returns the number of values across all keys.
func (t *RBTree[K, V]) ValueCount() int {
	return t.values
}

// walk visits nodes in ascending key order using an explicit stack, so the
// extra space is bounded by the tree height. fn returning false stops it.
func (t *RBTree[K, V]) walk(fn func(n *node[K, V]) bool) {
	stack := make([]*node[K, V], 0, 32)
	cur := t.root
	for cur != nil || len(stack) > 0 {
		for cur != nil {
			stack = append(stack, cur)
			cur = cur.left
		}
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			return
		}
		cur = n.right
	}
}

// Keys yields the keys in ascending order. Every call starts a new
// traversal. The tree must not be modified while the sequence is consumed.
func (t *RBTree[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		t.walk(func(n *node[K, V]) bool {
			return yield(n.key)
		})
	}
}

// All yields every key with a copy of its values, in ascending key order.
func (t *RBTree[K, V]) All() iter.Seq2[K, []V] {
	return func(yield func(K, []V) bool) {
		t.walk(func(n *node[K, V]) bool {
			return yield(n.key, n.values.Slice())
		})
	}
}

type KeyValuePair[K Ordered, V comparable] struct {
	Key    K
	Values []V
}

// InOrderTraversal returns every key with a copy of its values, smallest key
// first.
func (t *RBTree[K, V]) InOrderTraversal() []KeyValuePair[K, V] {
	result := make([]KeyValuePair[K, V], 0, t.size)
	for k, vs := range t.All() {
		result = append(result, KeyValuePair[K, V]{Key: k, Values: vs})
	}
	return result
}

// LevelOrder returns the keys breadth first, starting at the root.
func (t *RBTree[K, V]) LevelOrder() []K {
	if t.root == nil {
		return nil
	}
	keys := make([]K, 0, t.size)
	queue := []*node[K, V]{t.root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		keys = append(keys, n.key)
		if n.left != nil {
			queue = append(queue, n.left)
		}
		if n.right != nil {
			queue = append(queue, n.right)
		}
	}
	return keys
}

// String renders the keys in level order and in order.
func (t *RBTree[K, V]) String() string {
	var sb strings.Builder
	sb.WriteString("level order: ")
	writeKeys(&sb, t.LevelOrder())
	sb.WriteString("\nin order: ")
	inOrder := make([]K, 0, t.size)
	for k := range t.Keys() {
		inOrder = append(inOrder, k)
	}
	writeKeys(&sb, inOrder)
	return sb.String()
}

func writeKeys[K Ordered](sb *strings.Builder, keys []K) {
	sb.WriteString("[ ")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprint(sb, k)
	}
	sb.WriteString(" ]")
}

// Dump renders the tree shape with node colors and value counts.
func (t *RBTree[K, V]) Dump() string {
	if t.root == nil {
		return treeprint.NewWithRoot("(empty)").String()
	}
	tree := treeprint.NewWithRoot(nodeLabel(t.root))
	dumpChildren(tree, t.root)
	return tree.String()
}

func dumpChildren[K Ordered, V comparable](branch treeprint.Tree, n *node[K, V]) {
	if n.left != nil {
		dumpChildren(branch.AddBranch("L "+nodeLabel(n.left)), n.left)
	}
	if n.right != nil {
		dumpChildren(branch.AddBranch("R "+nodeLabel(n.right)), n.right)
	}
}

func nodeLabel[K Ordered, V comparable](n *node[K, V]) string {
	return fmt.Sprintf("%v (%s, %d)", n.key, n.color, n.values.Len())
}

// Validate checks key ordering, parent links, node colors and black height
// across the whole tree.
func (t *RBTree[K, V]) Validate() error {
	if t.root == nil {
		if t.size != 0 {
			return fmt.Errorf("%w: empty tree reports size %d", errInvariant, t.size)
		}
		return nil
	}
	if t.root.parent != nil {
		return fmt.Errorf("%w: root has a parent", errInvariant)
	}
	if t.root.color != black {
		return fmt.Errorf("%w: root is red", errInvariant)
	}
	count := 0
	if _, err := validateNode(t.root, nil, nil, &count); err != nil {
		return err
	}
	if count != t.size {
		return fmt.Errorf("%w: counted %d nodes, size is %d", errInvariant, count, t.size)
	}
	return nil
}

func validateNode[K Ordered, V comparable](n *node[K, V], lo, hi *K, count *int) (int, error) {
	if n == nil {
		return 1, nil
	}
	*count++
	if lo != nil && !(n.key > *lo) {
		return 0, fmt.Errorf("%w: key %v not above %v", errInvariant, n.key, *lo)
	}
	if hi != nil && !(n.key < *hi) {
		return 0, fmt.Errorf("%w: key %v not below %v", errInvariant, n.key, *hi)
	}
	if n.values.Len() == 0 {
		return 0, fmt.Errorf("%w: key %v has no values", errInvariant, n.key)
	}
	if n.color == red && (isRed(n.left) || isRed(n.right)) {
		return 0, fmt.Errorf("%w: red node %v has a red child", errInvariant, n.key)
	}
	if (n.left != nil && n.left.parent != n) || (n.right != nil && n.right.parent != n) {
		return 0, fmt.Errorf("%w: broken parent link under %v", errInvariant, n.key)
	}
	lh, err := validateNode(n.left, lo, &n.key, count)
	if err != nil {
		return 0, err
	}
	rh, err := validateNode(n.right, &n.key, hi, count)
	if err != nil {
		return 0, err
	}
	if lh != rh {
		return 0, fmt.Errorf("%w: black height %d vs %d under %v", errInvariant, lh, rh, n.key)
	}
	if n.color == black {
		lh++
	}
	return lh, nil
}

// Cursor is a pull-style in-order cursor over the keys of a tree.
type Cursor[K Ordered, V comparable] struct {
	tree    *RBTree[K, V]
	stack   []*node[K, V]
	current *node[K, V]
}

// Cursor returns a cursor positioned before the smallest key.
func (t *RBTree[K, V]) Cursor() *Cursor[K, V] {
	return &Cursor[K, V]{tree: t, current: t.root}
}

// HasNext reports whether Next has a key left to return.
func (c *Cursor[K, V]) HasNext() bool {
	return c.current != nil || len(c.stack) > 0
}

// Next returns the next key, or ErrNotFound once the traversal is done.
func (c *Cursor[K, V]) Next() (K, error) {
	for c.current != nil {
		c.stack = append(c.stack, c.current)
		c.current = c.current.left
	}
	if len(c.stack) == 0 {
		var zero K
		return zero, fmt.Errorf("%w: cursor exhausted", ErrNotFound)
	}
	n := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.current = n.right
	return n.key, nil
}

// Reset rewinds the cursor to the smallest key of the tree as it is now.
func (c *Cursor[K, V]) Reset() {
	c.stack = c.stack[:0]
	c.current = c.tree.root
}
