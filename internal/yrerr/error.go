// Copyright 2026 The yarig Authors.
//
// Use of this source code is governed by a BSD 3-clause
// license that can be found in the LICENSE file.

// Package yrerr defines the error taxonomy shared by the parser,
// loader and elaborator.
package yrerr

import "fmt"

// Kind classifies the cause of an Error, matching the taxonomy of
// the compiler's error model.
type Kind int

const (
	// Io reports a file open or read failure.
	Io Kind = iota
	// Parse reports a grammar or indentation violation.
	Parse
	// FieldKind reports an incompatible combination of hardware kinds.
	FieldKind
	// NotIntr reports an interrupt-specific attribute on a non-interrupt register.
	NotIntr
	// MissingDef reports a register definition that could not be found.
	MissingDef
	// Unsupported reports a syntactically valid construct with no implemented semantics.
	Unsupported
	// Duplicated reports two definitions sharing a name where uniqueness is required.
	Duplicated
	// Generic wraps an error surfaced as a plain string.
	Generic
)

// Error is the error type returned throughout the compiler. Line is
// 0 for errors with no associated source position (Io, Generic).
type Error struct {
	Kind Kind
	Line int
	Text string
}

func (e *Error) Error() string {
	switch e.Kind {
	case Io:
		return fmt.Sprintf("IO exception: %s", e.Text)
	case Parse:
		return fmt.Sprintf("Line %d: %s", e.Line, e.Text)
	case FieldKind:
		return fmt.Sprintf("Line %d: incompatible field kind %s", e.Line, e.Text)
	case NotIntr:
		return fmt.Sprintf("Line %d: trying to set interrupt properties while register is not an interrupt", e.Line)
	case MissingDef:
		return fmt.Sprintf("Line %d: missing register definition for %s", e.Line, e.Text)
	case Unsupported:
		return fmt.Sprintf("Line %d: unsupported feature %s", e.Line, e.Text)
	case Duplicated:
		return fmt.Sprintf("Line %d: %s duplicated!", e.Line, e.Text)
	default:
		return e.Text
	}
}

// New builds a Generic error with no associated line.
func New(text string) *Error {
	return &Error{Kind: Generic, Text: text}
}

// Newf builds a Generic error from a format string.
func Newf(format string, args ...any) *Error {
	return &Error{Kind: Generic, Text: fmt.Sprintf(format, args...)}
}

// IoError wraps a filesystem error.
func IoError(cause error) *Error {
	return &Error{Kind: Io, Text: cause.Error()}
}

// ParseError builds a Parse error attributed to the given line.
func ParseError(line int, format string, args ...any) *Error {
	return &Error{Kind: Parse, Line: line, Text: fmt.Sprintf(format, args...)}
}

// MissingDefError builds a MissingDef error naming the reference that
// could not be resolved.
func MissingDefError(line int, name string) *Error {
	return &Error{Kind: MissingDef, Line: line, Text: name}
}

// UnsupportedError builds an Unsupported error naming the construct
// and the offending line text.
func UnsupportedError(line int, what, lineText string) *Error {
	return &Error{Kind: Unsupported, Line: line, Text: fmt.Sprintf("%s | %q", what, lineText)}
}

// DuplicatedError builds a Duplicated error naming the kind of
// definition and its name.
func DuplicatedError(line int, what, name string) *Error {
	return &Error{Kind: Duplicated, Line: line, Text: fmt.Sprintf("%s %s", what, name)}
}

// FieldKindError builds a FieldKind error describing the conflicting
// combination.
func FieldKindError(line int, text string) *Error {
	return &Error{Kind: FieldKind, Line: line, Text: text}
}

// NotIntrError builds a NotIntr error for the given line.
func NotIntrError(line int) *Error {
	return &Error{Kind: NotIntr, Line: line}
}
