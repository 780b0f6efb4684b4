package patrol

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPatternSyntax = errors.New("invalid pattern syntax")
	ErrRouteExist    = errors.New("route already registered")
	ErrBuilderSealed = errors.New("builder already consumed")
	ErrInvalidConfig = errors.New("invalid config")
)

// PatternSyntaxError describes a malformed route pattern. It is returned by
// [Parse] and [Builder.Add] and reports the offending pattern, the byte offset
// at which scanning failed and the reason.
type PatternSyntaxError struct {
	// Cause holds the underlying regexp compilation error when the variable's
	// value pattern failed to compile, nil otherwise.
	Cause error
	// Pattern is the full pattern being parsed.
	Pattern string
	// Reason describes why the pattern was rejected.
	Reason string
	// Pos is the byte offset in Pattern where the error was detected.
	Pos int
}

func (e *PatternSyntaxError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid pattern syntax: ")
	sb.WriteString(e.Reason)
	sb.WriteString(" in ")
	sb.WriteString(e.Pattern)
	fmt.Fprintf(&sb, " at offset %d", e.Pos)
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the sentinel value [ErrPatternSyntax].
func (e *PatternSyntaxError) Unwrap() error {
	return ErrPatternSyntax
}

func newSyntaxError(pattern, reason string, pos int) *PatternSyntaxError {
	return &PatternSyntaxError{Pattern: pattern, Reason: reason, Pos: pos}
}

// DuplicateRouteError represents a conflict that occurred during route
// registration. Two patterns conflict when they are structurally identical:
// same literal skeleton and same per-position value patterns, irrespective
// of variable names.
type DuplicateRouteError struct {
	// New is the pattern that was being registered when the conflict was detected.
	New *Pattern
	// Existing is the previously registered pattern that conflicts with New.
	Existing *Pattern
}

func (e *DuplicateRouteError) Error() string {
	var sb strings.Builder
	sb.WriteString("route already registered: new route ")
	sb.WriteString(e.New.String())
	sb.WriteString(" conflicts with ")
	sb.WriteString(e.Existing.String())
	return sb.String()
}

// Unwrap returns the sentinel value [ErrRouteExist].
func (e *DuplicateRouteError) Unwrap() error {
	return ErrRouteExist
}
