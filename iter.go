package patrol

// iterator walks a subtree pre-order with an explicit stack. Deeply
// overlapping literal prefixes can produce deep chains, so traversal never
// recurses.
type iterator[V any] struct {
	stack   []frame[V]
	current *node[V]
	path    string
	d       int
}

type frame[V any] struct {
	path  string
	depth int
	edges []*node[V]
}

func newIterator[V any](n *node[V], depth int) *iterator[V] {
	return &iterator[V]{
		stack: []frame[V]{{depth: depth, edges: []*node[V]{n}}},
	}
}

// fullPath returns the literal prefix accumulated from the iteration root to
// the current node.
func (it *iterator[V]) fullPath() string {
	return it.path
}

func (it *iterator[V]) node() *node[V] {
	return it.current
}

func (it *iterator[V]) depth() int {
	return it.d
}

// hasNextEndpoint advances until the next node holding endpoints.
func (it *iterator[V]) hasNextEndpoint() bool {
	for it.hasNext() {
		if len(it.current.endpoints) > 0 {
			return true
		}
	}
	return false
}

func (it *iterator[V]) hasNext() bool {
	if len(it.stack) > 0 {
		n := len(it.stack)
		last := it.stack[n-1]
		elem := last.edges[0]

		if len(last.edges) > 1 {
			it.stack[n-1].edges = last.edges[1:]
		} else {
			it.stack = it.stack[:n-1]
		}

		if len(elem.children) > 0 {
			// The tree is frozen, popping by reslicing never writes through
			// to the shared children array.
			it.stack = append(it.stack, frame[V]{
				path:  last.path + elem.key,
				depth: last.depth + 2,
				edges: elem.children,
			})
		}

		it.current = elem
		it.path = last.path + elem.key
		it.d = last.depth
		return true
	}

	it.current = nil
	it.path = ""
	return false
}
