package patrol

import (
	"cmp"
	"iter"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Pattern is a compiled route pattern. It owns the parsed segment sequence,
// an anchored matcher and a precomputed specificity key. A Pattern is
// immutable once constructed and safe for concurrent use.
type Pattern struct {
	re       *regexp.Regexp
	raw      string
	prefix   string
	skeleton string
	names    []string
	groups   []int
	segs     []segment
	spec     Specificity
}

// Parse parses and compiles a route pattern. It returns a
// [*PatternSyntaxError] when the pattern is malformed. The accepted syntax:
//
//   - Literal characters match themselves.
//   - {name} declares a variable bound to one or more characters, greedily.
//   - {name:regex} declares a variable whose bound text must match regex.
//   - \{ is a literal brace; } requires no escape.
//
// Variable names must be non-empty Unicode letters or digits and unique
// within one pattern. Inline regexp flags in a value pattern apply to that
// variable only.
func Parse(pattern string) (*Pattern, error) {
	segs, err := parseSegments(pattern)
	if err != nil {
		return nil, err
	}
	return compilePattern(pattern, segs)
}

// MustParse is a convenience wrapper for [Parse] which panics on error.
func MustParse(pattern string) *Pattern {
	p, err := Parse(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// compilePattern assembles one anchored matcher by concatenating the escaped
// literal text of each literal segment with each variable's value pattern
// wrapped in a capturing group. The wrapping parenthesis both isolates inline
// flags to the variable's subexpression and guards top level alternations.
// Capture recovery is positional: a value pattern may itself contain
// capturing or named groups, so each variable records the index of its
// wrapping group, advancing past the groups the value pattern contributes.
func compilePattern(pattern string, segs []segment) (*Pattern, error) {
	var re, sk, prefix strings.Builder
	var names []string
	var groups []int

	re.WriteString(`\A`)
	group := 1
	literals := 0
	sawVar := false
	for _, seg := range segs {
		if seg.kind == literalSegment {
			re.WriteString(regexp.QuoteMeta(seg.text))
			sk.WriteByte('l')
			sk.WriteString(strconv.Quote(seg.text))
			literals += utf8.RuneCountInString(seg.text)
			if !sawVar {
				prefix.WriteString(seg.text)
			}
			continue
		}

		sawVar = true
		sub, err := regexp.Compile("(" + seg.valuePattern + ")")
		if err != nil {
			return nil, &PatternSyntaxError{
				Pattern: pattern,
				Reason:  "invalid value pattern for variable " + strconv.Quote(seg.text),
				Pos:     seg.off,
				Cause:   err,
			}
		}
		names = append(names, seg.text)
		groups = append(groups, group)
		group += sub.NumSubexp()
		re.WriteByte('(')
		re.WriteString(seg.valuePattern)
		re.WriteByte(')')
		sk.WriteByte('v')
		sk.WriteString(strconv.Quote(seg.valuePattern))
	}
	re.WriteString(`\z`)

	compiled, err := regexp.Compile(re.String())
	if err != nil {
		return nil, &PatternSyntaxError{Pattern: pattern, Reason: "cannot compile matcher", Cause: err}
	}

	return &Pattern{
		re:       compiled,
		raw:      pattern,
		prefix:   prefix.String(),
		skeleton: sk.String(),
		names:    names,
		groups:   groups,
		segs:     segs,
		spec:     Specificity{Literals: literals, Variables: len(names)},
	}, nil
}

// Match runs the anchored matcher against the full path. On success it
// returns the variable bindings in declaration order and true. On failure it
// returns nil and false. Match never fails with an error and is safe for
// concurrent use.
func (p *Pattern) Match(path string) (Params, bool) {
	m := p.re.FindStringSubmatchIndex(path)
	if m == nil {
		return nil, false
	}
	if len(p.names) == 0 {
		return nil, true
	}
	params := make(Params, len(p.names))
	for i, name := range p.names {
		g := p.groups[i]
		if m[2*g] < 0 {
			params[i] = Param{Key: name}
			continue
		}
		params[i] = Param{Key: name, Value: path[m[2*g]:m[2*g+1]]}
	}
	return params, true
}

// String returns the original pattern string.
func (p *Pattern) String() string {
	return p.raw
}

// Prefix returns the literal text preceding the pattern's first variable, or
// the whole literal text for a variable-free pattern.
func (p *Pattern) Prefix() string {
	return p.prefix
}

// Specificity returns the pattern's specificity key.
func (p *Pattern) Specificity() Specificity {
	return p.spec
}

// VarsLen returns the number of variables declared by this pattern.
func (p *Pattern) VarsLen() int {
	return len(p.names)
}

// Vars returns an iterator over the variable names in declaration order.
func (p *Pattern) Vars() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range p.names {
			if !yield(name) {
				return
			}
		}
	}
}

// exact reports whether the pattern is variable-free and equals path
// verbatim. For such patterns the literal prefix is the whole pattern text.
func (p *Pattern) exact(path string) bool {
	return len(p.names) == 0 && p.prefix == path
}

// Specificity is a comparable key ordering patterns from most to least
// constrained: more literal runes rank first, then fewer variables.
type Specificity struct {
	Literals  int
	Variables int
}

// Compare returns a negative number when s ranks before (is more specific
// than) o, zero when they rank equally and a positive number otherwise.
func (s Specificity) Compare(o Specificity) int {
	if c := cmp.Compare(o.Literals, s.Literals); c != 0 {
		return c
	}
	return cmp.Compare(s.Variables, o.Variables)
}
