// Package patrol implements a pattern-compiling path router.
//
// A set of path patterns, each paired with an opaque value, is compiled once
// into a [Router]. Given a concrete path, the router returns the single best
// matching pattern's value and the named variable bindings extracted from
// the path, or the full ordered list of matches.
//
// Patterns mix literal text with variable declarations:
//
//	/results/{uuid:[\w-]+}.json
//	/raw/{file}
//	help.{ext}
//
// {name} binds one or more characters greedily, {name:regex} constrains the
// bound text, and \{ escapes a literal brace. Dispatch over large route sets
// is sub-linear: patterns are grouped in a compressed prefix trie keyed on
// their literal prefixes, so branches that cannot match a path are never
// evaluated.
//
// Building is single-threaded and happens once at startup; the resulting
// [Router] is immutable and safe for unsynchronized concurrent queries.
package patrol

import (
	"cmp"
	"fmt"
	"slices"
)

// defaultLinearThreshold is the endpoint count below which a router scans a
// flat endpoint list instead of walking the trie. Tuning detail, not a
// contract: both representations produce identical results.
const defaultLinearThreshold = 64

// Comparator defines the relative order of two endpoints: negative when a
// ranks before b, zero when equal, positive otherwise. It never applies to
// exact literal matches, which always rank first.
type Comparator[V any] func(a, b *Endpoint[V]) int

// Option configures a [Builder.Build] call.
type Option[V any] interface {
	apply(*config[V]) error
}

type config[V any] struct {
	comparator Comparator[V]
	threshold  int
}

type optionFunc[V any] func(*config[V]) error

func (o optionFunc[V]) apply(c *config[V]) error {
	return o(c)
}

// WithComparator overrides the default specificity ordering among non-exact
// matches. The final tie-break remains registration order.
func WithComparator[V any](cmp Comparator[V]) Option[V] {
	return optionFunc[V](func(c *config[V]) error {
		if cmp == nil {
			return fmt.Errorf("%w: comparator cannot be nil", ErrInvalidConfig)
		}
		c.comparator = cmp
		return nil
	})
}

// withLinearThreshold overrides the representation switch point. Exposed to
// tests so the same suite runs against both the flat scan and the trie.
func withLinearThreshold[V any](n int) Option[V] {
	return optionFunc[V](func(c *config[V]) error {
		if n < 0 {
			return fmt.Errorf("%w: linear threshold cannot be negative", ErrInvalidConfig)
		}
		c.threshold = n
		return nil
	})
}

// Builder collects pattern and value pairs and assembles them into a
// [Router]. A Builder is not safe for concurrent use and is consumed by
// [Builder.Build]: any later call fails with [ErrBuilderSealed].
type Builder[V any] struct {
	skeletons map[string]*Endpoint[V]
	endpoints []*Endpoint[V]
	sealed    bool
}

// New returns an empty [Builder].
func New[V any]() *Builder[V] {
	return &Builder[V]{skeletons: make(map[string]*Endpoint[V])}
}

// Add registers a pattern with its associated value. If an error occurs, it
// returns one of the following:
//   - [ErrPatternSyntax]: if the pattern is malformed (as [*PatternSyntaxError]).
//   - [ErrRouteExist]: if a structurally identical pattern, irrespective of
//     variable names, was already added (as [*DuplicateRouteError]).
//   - [ErrBuilderSealed]: if the builder was already consumed by [Builder.Build].
//
// A duplicate is a fatal configuration mistake, not something to retry.
func (b *Builder[V]) Add(pattern string, value V) error {
	if b.sealed {
		return ErrBuilderSealed
	}
	p, err := Parse(pattern)
	if err != nil {
		return err
	}
	if existing, ok := b.skeletons[p.skeleton]; ok {
		return &DuplicateRouteError{New: p, Existing: existing.pattern}
	}
	ep := &Endpoint[V]{pattern: p, value: value, index: len(b.endpoints)}
	b.skeletons[p.skeleton] = ep
	b.endpoints = append(b.endpoints, ep)
	return nil
}

// MustAdd registers a pattern with its associated value and returns the
// builder for chaining. This function is a convenience wrapper for
// [Builder.Add] and panics on error.
func (b *Builder[V]) MustAdd(pattern string, value V) *Builder[V] {
	if err := b.Add(pattern, value); err != nil {
		panic(err)
	}
	return b
}

// Build assembles the registered endpoints into an immutable [Router] and
// seals the builder. The default ordering ranks endpoints by specificity,
// most specific first; [WithComparator] overrides it for non-exact matches.
func (b *Builder[V]) Build(opts ...Option[V]) (*Router[V], error) {
	if b.sealed {
		return nil, ErrBuilderSealed
	}
	cfg := config[V]{threshold: defaultLinearThreshold}
	for _, opt := range opts {
		if err := opt.apply(&cfg); err != nil {
			return nil, err
		}
	}
	b.sealed = true

	ranked := slices.Clone(b.endpoints)
	slices.SortStableFunc(ranked, func(x, y *Endpoint[V]) int {
		if cfg.comparator != nil {
			if c := cfg.comparator(x, y); c != 0 {
				return c
			}
		} else if c := x.pattern.spec.Compare(y.pattern.spec); c != 0 {
			return c
		}
		return cmp.Compare(x.index, y.index)
	})
	for i, ep := range ranked {
		ep.rank = i
	}

	var src matchSource[V]
	if len(ranked) < cfg.threshold {
		src = &flatSource[V]{endpoints: ranked}
	} else {
		// Endpoints are inserted in rank order so every node accumulates its
		// endpoint list already ranked.
		t := newTree[V]()
		for _, ep := range ranked {
			t.insert(ep.pattern.prefix, ep)
		}
		src = t
	}

	return &Router[V]{src: src, eps: b.endpoints}, nil
}
