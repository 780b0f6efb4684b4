package patrol

import (
	"fmt"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree(patterns ...string) *tree[int] {
	t := newTree[int]()
	for i, pattern := range patterns {
		p := MustParse(pattern)
		t.insert(p.prefix, &Endpoint[int]{pattern: p, value: i, rank: i, index: i})
	}
	return t
}

// collectEdges walks the whole tree and returns every edge label.
func collectEdges[V any](t *tree[V]) []string {
	var keys []string
	it := newIterator(t.root, 0)
	for it.hasNext() {
		if it.node().key != "" {
			keys = append(keys, it.node().key)
		}
	}
	return keys
}

func candidateValues(t *tree[int], path string) []int {
	var values []int
	for _, ep := range t.candidates(path) {
		values = append(values, ep.value)
	}
	return values
}

func TestTreeInsertSharedPrefix(t *testing.T) {
	tr := newTestTree(
		"/users/list",
		"/users/{id}",
		"/users/{id}/posts",
		"/orgs/{org}",
	)

	// Patterns sharing a longer literal prefix share deeper nodes: the walk
	// for a path under /users/ must not consider the /orgs/ branch.
	assert.Equal(t, []int{1, 2}, candidateValues(tr, "/users/42/posts"))
	assert.Equal(t, []int{0, 1, 2}, candidateValues(tr, "/users/list"))
	assert.Equal(t, []int{3}, candidateValues(tr, "/orgs/acme"))
	assert.Empty(t, candidateValues(tr, "/teams/acme"))
}

func TestTreeRootEndpoints(t *testing.T) {
	// A pattern starting with a variable has an empty literal prefix and
	// lands on the root node, so it is a candidate for every path.
	tr := newTestTree(
		"{name}.txt",
		"help.{ext}",
	)

	assert.Equal(t, []int{0, 1}, candidateValues(tr, "help.txt"))
	assert.Equal(t, []int{0}, candidateValues(tr, "readme.txt"))
	assert.Equal(t, []int{0}, candidateValues(tr, "zzz"))
}

func TestTreeCandidatesRankOrder(t *testing.T) {
	tr := newTree[int]()
	// Insert out of rank order, candidates must still come back ranked.
	for i, pattern := range []string{"/a/{x}/c", "/a/b/{y}", "/a/{x}/{y}"} {
		p := MustParse(pattern)
		tr.insert(p.prefix, &Endpoint[int]{pattern: p, value: i, rank: 2 - i, index: i})
	}

	cands := tr.candidates("/a/b/c")
	require.Len(t, cands, 3)
	assert.Equal(t, 0, cands[0].rank)
	assert.Equal(t, 1, cands[1].rank)
	assert.Equal(t, 2, cands[2].rank)
}

func TestTreeSplitMidEdge(t *testing.T) {
	// Inserting "te", then "test", then "team" forces both the end-mid-edge
	// and the middle-of-edge splits.
	tr := newTestTree("test", "te", "team")

	assert.ElementsMatch(t, []string{"te", "st", "am"}, collectEdges(tr))
	assert.Equal(t, []int{0, 1}, candidateValues(tr, "test"))
	assert.Equal(t, []int{1, 2}, candidateValues(tr, "team"))
	assert.Equal(t, []int{1}, candidateValues(tr, "te"))
}

func TestTreeSplitOnCodepointBoundary(t *testing.T) {
	cases := []struct {
		name     string
		patterns []string
	}{
		{
			name:     "two byte runes sharing lead byte",
			patterns: []string{"/é/a", "/è/b"},
		},
		{
			name:     "emoji sharing three lead bytes",
			patterns: []string{"/🙂abc", "/🙃xyz"},
		},
		{
			name:     "split after shared emoji",
			patterns: []string{"x🙂a{v}", "x🙂b{v}"},
		},
		{
			name:     "deeply nested multibyte",
			patterns: []string{"/caf/é", "/caf/è/{x}", "/caf/éteria", "/caf/és"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := newTestTree(tc.patterns...)

			// An edge must never split inside a multi-byte sequence.
			for _, key := range collectEdges(tr) {
				assert.True(t, utf8.ValidString(key), "edge %q splits a codepoint", key)
			}

			// Every literal prefix must reconstruct exactly from the root.
			prefixes := make(map[string]int)
			it := newIterator(tr.root, 0)
			for it.hasNextEndpoint() {
				prefixes[it.fullPath()] = len(it.node().endpoints)
			}
			for _, pattern := range tc.patterns {
				p := MustParse(pattern)
				assert.Contains(t, prefixes, p.prefix)
			}
		})
	}
}

func TestTreeSiblingEdgesShareLeadByte(t *testing.T) {
	// "é" (0xC3 0xA9) and "è" (0xC3 0xA8) share their UTF-8 lead byte, so
	// sibling edges may begin with the same byte but never the same rune.
	tr := newTestTree("/é1", "/è2")

	assert.Equal(t, []int{0}, candidateValues(tr, "/é1"))
	assert.Equal(t, []int{1}, candidateValues(tr, "/è2"))
	// A path carrying only the shared lead byte matches neither branch.
	assert.Empty(t, candidateValues(tr, "/\xc3"))
}

func TestTreeInvalidLeadingBytes(t *testing.T) {
	// Distinct invalid bytes all decode to RuneError, as does a genuine
	// U+FFFD. Edge resolution falls back to the raw byte so the branches
	// stay distinguishable. Patterns cannot carry invalid UTF-8 (the regexp
	// compiler rejects it), so the trie is driven directly here.
	tr := newTree[int]()
	for i, prefix := range []string{"\x80a", "\xffb", "�c"} {
		tr.insert(prefix, &Endpoint[int]{pattern: MustParse("{x}"), value: i, rank: i, index: i})
	}

	assert.Equal(t, []int{0}, candidateValues(tr, "\x80a"))
	assert.Equal(t, []int{1}, candidateValues(tr, "\xffb"))
	assert.Equal(t, []int{2}, candidateValues(tr, "�cd"))
	assert.Empty(t, candidateValues(tr, "\xfeb"))
}

func TestTreeWideFanout(t *testing.T) {
	// More than four edges from one node exercises the binary search path.
	var patterns []string
	for i := 0; i < 26; i++ {
		patterns = append(patterns, fmt.Sprintf("/%c/{x}", 'a'+i))
	}
	tr := newTestTree(patterns...)

	for i := 0; i < 26; i++ {
		path := fmt.Sprintf("/%c/1", 'a'+i)
		assert.Equal(t, []int{i}, candidateValues(tr, path), "path %s", path)
	}
}

func TestTreeDeepChainIterative(t *testing.T) {
	// Heavily overlapping prefixes produce a deep chain of splits. Both
	// insertion and traversal must stay iterative and survive the depth.
	var patterns []string
	prefix := ""
	for i := 0; i < 2000; i++ {
		prefix += "a"
		patterns = append(patterns, prefix+"{x}")
	}
	tr := newTestTree(patterns...)

	deepest := ""
	for i := 0; i < 2000; i++ {
		deepest += "a"
	}
	assert.Len(t, candidateValues(tr, deepest+"zzz"), 2000)

	n := 0
	it := newIterator(tr.root, 0)
	for it.hasNextEndpoint() {
		n += len(it.node().endpoints)
	}
	assert.Equal(t, 2000, n)
}

func TestTreeString(t *testing.T) {
	tr := newTestTree("/users/list", "/users/{id}")
	out := tr.String()
	assert.Contains(t, out, "root")
	assert.Contains(t, out, "/users/")
	assert.Contains(t, out, "/users/{id}")
}
