package patrol

import (
	"iter"
	"strings"

	"github.com/patrol-go/patrol/internal/iterutil"
)

// Endpoint pairs a compiled [Pattern] with a caller supplied value. Endpoints
// are created by [Builder.Add] and immutable once the router is built.
type Endpoint[V any] struct {
	pattern *Pattern
	value   V
	rank    int
	index   int
}

// Value returns the value registered with this endpoint.
func (e *Endpoint[V]) Value() V {
	return e.value
}

// Pattern returns the endpoint's compiled pattern.
func (e *Endpoint[V]) Pattern() *Pattern {
	return e.pattern
}

// Match is the result of a successful query: the matched endpoint and the
// path variable bindings extracted from the path. A Match is produced per
// query and never shared.
type Match[V any] struct {
	endpoint *Endpoint[V]
	params   Params
}

// Value returns the matched endpoint's value.
func (m *Match[V]) Value() V {
	return m.endpoint.value
}

// Endpoint returns the matched endpoint.
func (m *Match[V]) Endpoint() *Endpoint[V] {
	return m.endpoint
}

// Variables returns the variable bindings extracted from the path, in
// pattern declaration order.
func (m *Match[V]) Variables() Params {
	return m.params
}

// matchSource discovers the candidate endpoints for a path: every endpoint
// whose literal prefix prefixes the path, in rank order. The trie and the
// flat scan implement it interchangeably; which one a router carries is a
// pure performance decision and never changes observable behavior.
type matchSource[V any] interface {
	candidates(path string) []*Endpoint[V]
}

// flatSource matches candidates with a rank-ordered scan over all endpoints.
// Below the linear threshold the constant factor of walking the trie exceeds
// the cost of the scan.
type flatSource[V any] struct {
	endpoints []*Endpoint[V]
}

func (s *flatSource[V]) candidates(path string) []*Endpoint[V] {
	out := make([]*Endpoint[V], 0, len(s.endpoints))
	for _, ep := range s.endpoints {
		if strings.HasPrefix(path, ep.pattern.prefix) {
			out = append(out, ep)
		}
	}
	return out
}

// Router dispatches paths to the registered endpoints. It is frozen after
// [Builder.Build]: queries are pure reads, never mutate router state and are
// safe for unsynchronized concurrent use from any number of goroutines.
type Router[V any] struct {
	src matchSource[V]
	eps []*Endpoint[V]
}

// Find returns the highest ranked endpoint matching path together with its
// variable bindings, or nil when no endpoint matches. An unmatched path is a
// normal outcome, not an error.
//
// An exact literal match (a variable-free pattern equal to the path
// verbatim) always ranks first. Other matches follow the ordering configured
// at build time, with registration order as final tie-break.
func (r *Router[V]) Find(path string) *Match[V] {
	m, _ := iterutil.First(r.FindAll(path))
	return m
}

// FindAll returns an iterator over every endpoint matching path, in the same
// ranked order as [Router.Find]. Candidates are evaluated lazily: stopping
// early does not evaluate the remaining candidates.
func (r *Router[V]) FindAll(path string) iter.Seq[*Match[V]] {
	return func(yield func(*Match[V]) bool) {
		cands := r.src.candidates(path)

		// An exact literal match carries no ambiguity and surfaces first
		// regardless of the active comparator. At most one candidate can be
		// exact since structural duplicates are rejected at build time.
		for i, ep := range cands {
			if ep.pattern.exact(path) {
				copy(cands[1:i+1], cands[:i])
				cands[0] = ep
				break
			}
		}

		for _, ep := range cands {
			params, ok := ep.pattern.Match(path)
			if !ok {
				continue
			}
			if !yield(&Match[V]{endpoint: ep, params: params}) {
				return
			}
		}
	}
}

// Len returns the number of registered endpoints.
func (r *Router[V]) Len() int {
	return len(r.eps)
}

// Endpoints returns an iterator over all registered endpoints in
// registration order.
func (r *Router[V]) Endpoints() iter.Seq[*Endpoint[V]] {
	return iterutil.SeqOf(r.eps...)
}

// Endpoint returns the registered endpoint structurally equal to pattern
// (variable names ignored), or nil when the pattern is invalid or not
// registered.
func (r *Router[V]) Endpoint(pattern string) *Endpoint[V] {
	p, err := Parse(pattern)
	if err != nil {
		return nil
	}
	for _, ep := range r.eps {
		if ep.pattern.skeleton == p.skeleton {
			return ep
		}
	}
	return nil
}
