// Package iterutil provides small generic helpers over [iter.Seq] sequences.
package iterutil

import (
	"iter"

	"golang.org/x/exp/constraints"
)

// SeqOf returns an iterator over the provided elements.
func SeqOf[E any](elems ...E) iter.Seq[E] {
	return func(yield func(E) bool) {
		for _, e := range elems {
			if !yield(e) {
				return
			}
		}
	}
}

// Map returns an iterator yielding f applied to each element of seq.
func Map[A, B any](seq iter.Seq[A], f func(A) B) iter.Seq[B] {
	return func(yield func(B) bool) {
		for a := range seq {
			if !yield(f(a)) {
				return
			}
		}
	}
}

// Take returns an iterator yielding at most count leading elements of seq.
func Take[I constraints.Integer, E any](seq iter.Seq[E], count I) iter.Seq[E] {
	return func(yield func(E) bool) {
		count += 1
		for e := range seq {
			count--
			if count <= 0 || !yield(e) {
				return
			}
		}
	}
}

// First returns the first element of seq, or the zero value and false when
// seq is empty. The sequence is not consumed past its first element.
func First[E any](seq iter.Seq[E]) (e E, ok bool) {
	for v := range seq {
		return v, true
	}
	return e, false
}

// Collect gathers all elements of seq into a slice.
func Collect[E any](seq iter.Seq[E]) []E {
	var out []E
	for e := range seq {
		out = append(out, e)
	}
	return out
}
