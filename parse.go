package patrol

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// defaultValuePattern is the greedy one-or-more-characters pattern bound to
// variables declared without an explicit value pattern.
const defaultValuePattern = ".+"

type segmentKind uint8

const (
	literalSegment segmentKind = iota
	variableSegment
)

// segment is one literal run or one variable declaration within a parsed
// pattern. For a literal segment, text holds the literal characters with
// escapes resolved. For a variable segment, text holds the variable name and
// valuePattern its regular expression source.
type segment struct {
	text         string
	valuePattern string
	off          int
	kind         segmentKind
	defaulted    bool
}

// parseSegments scans pattern left to right and produces literal runs
// interleaved with variable declarations. Consecutive literal characters
// collapse into a single segment, so the result never contains two adjacent
// literal segments. The sequence may start or end with a variable.
func parseSegments(pattern string) ([]segment, error) {
	var segs []segment
	var lit strings.Builder
	var seen map[string]struct{}

	i := 0
	for i < len(pattern) {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern) && pattern[i+1] == '{':
			// \{ is a literal brace and does not open a variable.
			lit.WriteByte('{')
			i += 2
		case c == '{':
			start := i
			name, src, defaulted, end, err := parseVariable(pattern, i)
			if err != nil {
				return nil, err
			}
			if seen == nil {
				seen = make(map[string]struct{})
			}
			if _, ok := seen[name]; ok {
				return nil, newSyntaxError(pattern, "duplicate variable name "+strconv.Quote(name), start)
			}
			seen[name] = struct{}{}

			if lit.Len() > 0 {
				segs = append(segs, segment{kind: literalSegment, text: lit.String()})
				lit.Reset()
			}
			segs = append(segs, segment{
				kind:         variableSegment,
				text:         name,
				valuePattern: src,
				defaulted:    defaulted,
				off:          start,
			})
			i = end
		default:
			lit.WriteByte(c)
			i++
		}
	}

	if lit.Len() > 0 {
		segs = append(segs, segment{kind: literalSegment, text: lit.String()})
	}
	return segs, nil
}

// parseVariable scans a variable declaration starting at the opening brace at
// pattern[i]. It returns the variable name, its value pattern source, whether
// the value pattern was defaulted and the index just past the closing brace.
func parseVariable(pattern string, i int) (name, src string, defaulted bool, end int, err error) {
	nameStart := i + 1
	j := nameStart
	for j < len(pattern) {
		r, size := utf8.DecodeRuneInString(pattern[j:])
		if r == '}' || r == ':' {
			break
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return "", "", false, 0, newSyntaxError(pattern, "invalid character "+strconv.QuoteRune(r)+" in variable name", j)
		}
		j += size
	}
	if j == len(pattern) {
		return "", "", false, 0, newSyntaxError(pattern, "unclosed variable", i)
	}

	name = pattern[nameStart:j]
	if name == "" {
		return "", "", false, 0, newSyntaxError(pattern, "missing variable name", i)
	}

	if pattern[j] == '}' {
		return name, defaultValuePattern, true, j + 1, nil
	}

	// Value pattern: runs until the brace balancing the opening one. Braces
	// nest to allow regexp quantifiers such as [0-9]{1,3}, and a backslash
	// escapes the character that follows it.
	srcStart := j + 1
	depth := 1
	k := srcStart
	for k < len(pattern) {
		switch pattern[k] {
		case '\\':
			k++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return name, pattern[srcStart:k], false, k + 1, nil
			}
		}
		k++
	}
	return "", "", false, 0, newSyntaxError(pattern, "unbalanced braces in value pattern", i)
}
