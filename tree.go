package patrol

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"
)

// tree is a compressed prefix trie keyed on the literal prefixes of the
// registered patterns. Patterns sharing a longer common literal prefix share
// deeper nodes. The tree is assembled single-threaded at build time and
// read-only afterwards, which makes unsynchronized concurrent lookups safe.
type tree[V any] struct {
	root *node[V]
}

type node[V any] struct {
	// key is the edge label leading to this node from its parent. Labels
	// begin and end on codepoint boundaries: an edge is never split inside
	// a multi-byte sequence, so a supplementary-plane character is never
	// torn apart by a split.
	key string

	// First rune of each outgoing edge, sorted in ascending order. Two
	// sibling edges may share leading bytes (distinct codepoints with a
	// common UTF-8 lead byte) but never a leading rune.
	childKeys []rune

	// Child nodes representing outgoing edges, in childKeys order.
	children []*node[V]

	// Endpoints whose full literal prefix terminates exactly at this node,
	// in rank order.
	endpoints []*Endpoint[V]
}

func newTree[V any]() *tree[V] {
	return &tree[V]{root: &node[V]{}}
}

// insert adds ep under its literal prefix key. Insertion walks iteratively
// from the root, splitting an existing edge when the key diverges in the
// middle of it. Not safe for concurrent use.
func (t *tree[V]) insert(key string, ep *Endpoint[V]) {
	n := t.root
	search := key
	for {
		if search == "" {
			n.endpoints = append(n.endpoints, ep)
			return
		}

		r, _ := utf8.DecodeRuneInString(search)
		next := n.getEdge(r, search[0])
		if next == nil {
			// e.g. no edge starting with "s" when inserting "st" key.
			n.addEdge(&node[V]{key: search, endpoints: []*Endpoint[V]{ep}})
			return
		}

		cPrefix := commonPrefix(search, next.key)
		if len(cPrefix) == len(next.key) {
			// Full edge consumed, e.g. matched "te" node when inserting "test".
			search = search[len(cPrefix):]
			n = next
			continue
		}

		// The key diverges in the middle of the edge, e.g. matched until "s"
		// for the "st" node when inserting "sa".
		// te
		// └── st
		//
		// After patching
		// te
		// └── s
		//     ├── a
		//     └── t
		// The existing node keeps its children and endpoints under the edge
		// suffix, and a new branch node takes over the common prefix.
		child := &node[V]{
			key:       next.key[len(cPrefix):],
			childKeys: next.childKeys,
			children:  next.children,
			endpoints: next.endpoints,
		}
		branch := &node[V]{key: cPrefix}
		branch.addEdge(child)
		if len(cPrefix) == len(search) {
			// The key ends at the split point, e.g. inserting "s" above.
			branch.endpoints = []*Endpoint[V]{ep}
		} else {
			branch.addEdge(&node[V]{key: search[len(cPrefix):], endpoints: []*Endpoint[V]{ep}})
		}
		n.updateEdge(branch)
		return
	}
}

// candidates walks the trie following the literal characters of path and
// collects the endpoints of every visited node, root included: a shorter
// literal prefix can still have a regex tail matching past its node. The
// walk stops at the first diverging edge, pruning every branch whose literal
// prefix cannot prefix the path.
func (t *tree[V]) candidates(path string) []*Endpoint[V] {
	var out []*Endpoint[V]
	n := t.root
	out = append(out, n.endpoints...)
	search := path
	for search != "" {
		r, _ := utf8.DecodeRuneInString(search)
		next := n.getEdge(r, search[0])
		if next == nil || !strings.HasPrefix(search, next.key) {
			break
		}
		out = append(out, next.endpoints...)
		search = search[len(next.key):]
		n = next
	}
	slices.SortFunc(out, func(a, b *Endpoint[V]) int {
		return cmp.Compare(a.rank, b.rank)
	})
	return out
}

func (n *node[V]) getEdge(r rune, b byte) *node[V] {
	var id int
	if len(n.children) <= 4 {
		id = iterativeSearch(n.childKeys, r)
	} else {
		id = binarySearch(n.childKeys, r)
	}
	if id < 0 {
		return nil
	}
	if r != utf8.RuneError {
		return n.children[id]
	}
	// Invalid byte sequences and a genuine U+FFFD all decode to RuneError,
	// so disambiguate on the raw leading byte among equal child keys.
	for i := id; i >= 0 && n.childKeys[i] == r; i-- {
		if n.children[i].key[0] == b {
			return n.children[i]
		}
	}
	for i := id + 1; i < len(n.childKeys) && n.childKeys[i] == r; i++ {
		if n.children[i].key[0] == b {
			return n.children[i]
		}
	}
	return nil
}

// addEdge inserts child keeping childKeys sorted by first rune, then by raw
// leading byte among RuneError entries.
func (n *node[V]) addEdge(child *node[V]) {
	r, _ := utf8.DecodeRuneInString(child.key)
	id, _ := slices.BinarySearchFunc(n.children, child, func(a, b *node[V]) int {
		ra, _ := utf8.DecodeRuneInString(a.key)
		rb, _ := utf8.DecodeRuneInString(b.key)
		if c := cmp.Compare(ra, rb); c != 0 {
			return c
		}
		return cmp.Compare(a.key[0], b.key[0])
	})
	n.children = slices.Insert(n.children, id, child)
	n.childKeys = slices.Insert(n.childKeys, id, r)
}

// updateEdge replaces the edge starting with the same rune as node.key.
func (n *node[V]) updateEdge(node *node[V]) {
	r, _ := utf8.DecodeRuneInString(node.key)
	old := n.getEdge(r, node.key[0])
	if old == nil {
		panic("internal error: cannot update the edge with this node")
	}
	for i := range n.children {
		if n.children[i] == old {
			n.children[i] = node
			return
		}
	}
}

// iterativeSearch return the index of r in keys or -1, using a simple loop.
// Although binary search is a more efficient search algorithm, the small
// size of the child keys array means that the constant factor will dominate.
func iterativeSearch(keys []rune, r rune) int {
	for i := 0; i < len(keys); i++ {
		if keys[i] == r {
			return i
		}
	}
	return -1
}

// binarySearch return the index of r in keys or -1. When duplicates exist
// (RuneError entries) it returns the index of one of them.
func binarySearch(keys []rune, r rune) int {
	low, high := 0, len(keys)-1
	for low <= high {
		mid := int(uint(low+high) >> 1) // avoid overflow
		if keys[mid] < r {
			low = mid + 1
		} else if keys[mid] > r {
			high = mid - 1
		} else {
			return mid
		}
	}
	return -(low + 1)
}

// commonPrefix returns the longest common prefix of k1 and k2 that ends on a
// codepoint boundary. Comparing rune by rune guarantees that a shared lead
// byte of two distinct codepoints never produces a split inside a multi-byte
// sequence. Bytes that do not form a valid sequence are compared one at a
// time.
func commonPrefix(k1, k2 string) string {
	i := 0
	for i < len(k1) && i < len(k2) {
		r1, n1 := utf8.DecodeRuneInString(k1[i:])
		r2, n2 := utf8.DecodeRuneInString(k2[i:])
		if r1 != r2 || n1 != n2 {
			break
		}
		if r1 == utf8.RuneError && k1[i] != k2[i] {
			break
		}
		i += n1
	}
	return k1[:i]
}

func (t *tree[V]) String() string {
	return t.root.string(0)
}

// string renders the subtree rooted at n, one node per line, using an
// explicit iterator rather than recursion.
func (n *node[V]) string(space int) string {
	sb := strings.Builder{}
	it := newIterator(n, space)
	for it.hasNext() {
		cur := it.node()
		sb.WriteString(strings.Repeat(" ", it.depth()))
		if cur.key == "" {
			sb.WriteString("root")
		} else {
			sb.WriteString("key: ")
			sb.WriteString(cur.key)
		}
		if len(cur.endpoints) > 0 {
			sb.WriteString(" [")
			for i, ep := range cur.endpoints {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(ep.pattern.String())
			}
			sb.WriteByte(']')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
