package booksearch

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-reflect"

	"github.com/oarkflow/booksearch/utils"
)

// SortedIndex adds a sorted, partial-key Search on top of RBTree. Every
// RBTree method is available unchanged through the embedded tree.
type SortedIndex[K Ordered, V comparable] struct {
	*RBTree[K, V]
}

// NewSortedIndex returns an empty index.
func NewSortedIndex[K Ordered, V comparable]() *SortedIndex[K, V] {
	return &SortedIndex[K, V]{RBTree: NewRBTree[K, V]()}
}

// Search looks query up by the string form of the keys and returns a sorted
// copy of the matching node's values.
//
// The descent starts at the root. Whenever a visited key's string contains
// the target string, the target is narrowed to that key, which can redirect
// the rest of the path. The first node whose key string equals the target
// is the hit. Only keys on that single comparison path are inspected, so a
// key elsewhere in the tree that contains the query is not found. Reaching
// an absent child returns ErrNotFound.
func (si *SortedIndex[K, V]) Search(query K) ([]V, error) {
	target := keyString(query)
	cur := si.root
	for cur != nil {
		key := keyString(cur.key)
		if strings.Contains(key, target) {
			target = key
		}
		switch cmp := strings.Compare(target, key); {
		case cmp == 0:
			return sortByString(cur.values.Slice()), nil
		case cmp < 0:
			cur = cur.left
		default:
			cur = cur.right
		}
	}
	return nil, fmt.Errorf("%w: no key matches %q", ErrNotFound, target)
}

// keyString renders keys for Search. Floats always carry a fractional part
// ("4.0", not "4") so whole ratings are not substrings of their neighbours.
func keyString(key any) string {
	v := reflect.ValueOf(key)
	switch v.Kind() {
	case reflect.Float64:
		return formatFloat(v.Float(), 64)
	case reflect.Float32:
		return formatFloat(v.Float(), 32)
	default:
		return utils.ToString(key)
	}
}

func formatFloat(f float64, bitSize int) string {
	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// sortByString orders values by their string form. Ties keep their stored
// order.
func sortByString[V any](values []V) []V {
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = valueString(v)
	}
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return strs[idx[a]] < strs[idx[b]]
	})
	out := make([]V, len(values))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}

func valueString(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return utils.ToString(v)
}
