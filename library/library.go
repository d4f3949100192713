// Package library defines the contract that every check library - built-in,
// subprocess, or WASM - implements: a single call/check dispatch
// over a small value system, grounded on original_source/stdlib/mod.rs.
package library

import "fmt"

// ValueKind discriminates the Value variant.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueBool
	ValueInt
	ValueFloat
	ValueString
	ValueList
	ValueScope
	ValueConnectionPoint
)

// Value is the tagged union passed to and returned from library calls.
type Value struct {
	Kind ValueKind

	Bool   bool
	Int    int64
	Float  float64
	String string
	List   []Value

	Scope           *Scope
	ConnectionPoint *ConnectionPoint
}

func Null() Value                 { return Value{Kind: ValueNull} }
func Bool(b bool) Value           { return Value{Kind: ValueBool, Bool: b} }
func Int(i int64) Value           { return Value{Kind: ValueInt, Int: i} }
func Float(f float64) Value       { return Value{Kind: ValueFloat, Float: f} }
func Str(s string) Value          { return Value{Kind: ValueString, String: s} }
func List(vs []Value) Value       { return Value{Kind: ValueList, List: vs} }
func FromScope(s *Scope) Value    { return Value{Kind: ValueScope, Scope: s} }
func FromConnPoint(c *ConnectionPoint) Value {
	return Value{Kind: ValueConnectionPoint, ConnectionPoint: c}
}

// ScopeKind records which selector produced a Scope, since files.exists and
// friends behave differently for a single file, a whole folder, or a glob
// match set.
type ScopeKind int

const (
	ScopeFile ScopeKind = iota
	ScopeFolder
	ScopeGlob
)

// Scope is the evaluated form of a selector call such as
// `files.folder_selector(...)`: a descriptor of what was selected, which
// kind of selector produced it, and every file path the selector matched,
// joined onto the library's workspace root.
type Scope struct {
	Kind     ScopeKind
	Selector string
	Paths    []string
}

// AsString returns v's string, if v is a ValueString.
func (v Value) AsString() (string, bool) {
	if v.Kind != ValueString {
		return "", false
	}
	return v.String, true
}

// AsInt returns v's integer, if v is a ValueInt (a ValueFloat with no
// fractional part also counts, matching the interpreter's own int/float
// folding at evaluation time).
func (v Value) AsInt() (int64, bool) {
	switch v.Kind {
	case ValueInt:
		return v.Int, true
	case ValueFloat:
		if v.Float == float64(int64(v.Float)) {
			return int64(v.Float), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// AsScope returns v's scope, if v is a ValueScope.
func (v Value) AsScope() (*Scope, bool) {
	if v.Kind != ValueScope || v.Scope == nil {
		return nil, false
	}
	return v.Scope, true
}

// ConnectionPoint is the evaluated form of ast.RefDeclaration: a named,
// typed interface point of an element.
type ConnectionPoint struct {
	Name     string
	TypeName string
	Path     string
}

// CheckStatus is the outcome of one check invocation.
type CheckStatus int

const (
	StatusPass CheckStatus = iota
	StatusFail
	StatusError
)

func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusFail:
		return "fail"
	case StatusError:
		return "error"
	default:
		return "error"
	}
}

// CheckResult is what a library's check function returns.
type CheckResult struct {
	Status  CheckStatus
	Message string
}

// LibError is returned by a Library when a call/check cannot be serviced at
// all (unknown function, malformed arguments, transport failure) - distinct
// from a CheckResult carrying StatusError, which is a library-level
// "this check failed to evaluate" outcome still worth reporting per-check.
type LibError struct {
	Library  string
	Function string
	Cause    error
}

func (e *LibError) Error() string {
	return fmt.Sprintf("library %s.%s: %v", e.Library, e.Function, e.Cause)
}

func (e *LibError) Unwrap() error { return e.Cause }

// Library is the dispatch contract every in-process built-in and every
// external transport implements uniformly.
type Library interface {
	// Name is the identifier elements use to address this library, e.g.
	// "files" or "rust".
	Name() string

	// Call invokes a value-returning library function, used to build
	// scope/ref/binding expressions.
	Call(function string, args []Value) (Value, error)

	// Check invokes a boolean-producing library function, used to
	// evaluate a check declaration.
	Check(function string, args []Value) (CheckResult, error)
}
