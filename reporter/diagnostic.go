// Package reporter contains the diagnostic types produced by the Hielements
// lexer, parser, and interpreter, plus a Diagnostics collection that keeps
// them in source order and partitions them by severity.
package reporter

import (
	"fmt"

	"github.com/ercasta/hielements/span"
)

// Severity classifies how serious a Diagnostic is.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// MarshalJSON renders severity the way the wire format expects:
// lowercase strings.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Diagnostic is a single severity-tagged, coded, spanned message.
//
// Codes are stable identifiers: once assigned to a class of
// error they must never be reused for another class. See errorcodes.go for
// the registry of codes this package emits.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	File     string   `json:"file"`
	Span     span.Span `json:"span"`
	Context  string   `json:"context,omitempty"`
	Help     string   `json:"help,omitempty"`
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.File, d.Code, d.Message)
}

// GetPosition implements the ErrorWithPos-shaped contract used elsewhere in
// the pack (see bufbuild/protocompile's reporter.ErrorWithPos): it gives
// callers position info without forcing them to reach into Span directly.
func (d Diagnostic) GetPosition() span.Position {
	return d.Span.Start
}

// Builder constructs a Diagnostic fluently, mirroring
// original_source's DiagnosticBuilder.
type Builder struct {
	d Diagnostic
}

// NewError starts building an error-severity diagnostic with the given
// stable code and message.
func NewError(code, message string) *Builder {
	return &Builder{d: Diagnostic{Severity: SeverityError, Code: code, Message: message}}
}

// NewWarning starts building a warning-severity diagnostic.
func NewWarning(code, message string) *Builder {
	return &Builder{d: Diagnostic{Severity: SeverityWarning, Code: code, Message: message}}
}

func (b *Builder) WithFile(file string) *Builder {
	b.d.File = file
	return b
}

func (b *Builder) WithSpan(s span.Span) *Builder {
	b.d.Span = s
	return b
}

func (b *Builder) WithContext(context string) *Builder {
	b.d.Context = context
	return b
}

func (b *Builder) WithHelp(help string) *Builder {
	b.d.Help = help
	return b
}

func (b *Builder) Build() Diagnostic {
	return b.d
}

// Errorf is a convenience that builds an error diagnostic from a format
// string, attaching the given span.
func Errorf(code string, s span.Span, format string, args ...interface{}) Diagnostic {
	return NewError(code, fmt.Sprintf(format, args...)).WithSpan(s).Build()
}

// Warningf is the warning-severity counterpart of Errorf.
func Warningf(code string, s span.Span, format string, args ...interface{}) Diagnostic {
	return NewWarning(code, fmt.Sprintf(format, args...)).WithSpan(s).Build()
}
