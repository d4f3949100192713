// Package ast defines the Hielements abstract syntax tree. The
// tree is built once by parser.Parse and is immutable afterward; it is
// owned by whichever interpreter.Interpreter validates and evaluates it.
package ast

import "github.com/ercasta/hielements/span"

// Program is the root of a parsed Hielements file.
type Program struct {
	Imports   []ImportStatement
	Languages []LanguageDeclaration
	Templates []Template
	Elements  []Element
	Span      span.Span
}

// ImportStatement is one `import` or `from ... import ...` statement.
type ImportStatement struct {
	Path      ImportPath
	Alias     *Identifier
	Selective []Identifier
	Span      span.Span
}

// ImportPath is either a dotted identifier path or a quoted string path.
type ImportPath struct {
	Identifiers []Identifier // non-nil when the path is `a.b.c`
	String      *StringLiteral
}

// LanguageDeclaration declares a language and, optionally, the
// connection_check functions available for that language.
type LanguageDeclaration struct {
	Name             Identifier
	ConnectionChecks []ConnectionCheck
	Span             span.Span
}

// ConnectionCheck is a named, parameterized boolean expression declared
// inside a `language` block.
type ConnectionCheck struct {
	Name       Identifier
	Params     []ConnectionCheckParam
	Expression Expression
	Span       span.Span
}

// ConnectionCheckParam is one `name: scope[]` parameter.
type ConnectionCheckParam struct {
	Name Identifier
	Span span.Span
}

// Template is a reusable bundle of scopes/refs/checks/constraints that
// elements may implement.
type Template struct {
	Doc                  string
	Name                 Identifier
	Scopes               []ScopeDeclaration
	Refs                 []RefDeclaration
	Checks               []CheckDeclaration
	ComponentRequirements []ComponentRequirement
	Elements             []Element
	Span                 span.Span
}

// Element is a named architectural component.
type Element struct {
	Doc              string
	Name             Identifier
	Implements       []Identifier
	Scopes           []ScopeDeclaration
	Refs             []RefDeclaration
	Uses             []UsesDeclaration
	Checks           []CheckDeclaration
	TemplateBindings []TemplateBinding
	Children         []Element
	Span             span.Span
}

// ScopeDeclaration names a region of the codebase. Expression is the zero
// Expression for an unbounded scope, which is only legal inside a template.
type ScopeDeclaration struct {
	Name       Identifier
	Language   *Identifier
	BindsPath  []Identifier
	Expression Expression // zero value when unbounded
	Span       span.Span
}

// RefDeclaration is a typed interface point of an element. TypeAnnotation is
// always present (enforced at parse time); Expression is the zero
// Expression for an unbounded ref, permitted only inside a template.
type RefDeclaration struct {
	Name           Identifier
	TypeAnnotation Identifier
	BindsPath      []Identifier
	Expression     Expression // zero value when unbounded
	Span           span.Span
}

// UsesDeclaration records a dependency edge: `source uses target.path`.
type UsesDeclaration struct {
	Source Identifier
	Target []Identifier
	Span   span.Span
}

// CheckDeclaration is a predicate; its Expression must be a `lib.fn(...)`
// call at evaluation time.
type CheckDeclaration struct {
	Expression Expression
	Span       span.Span
}

// TemplateBinding ties an abstract template member to a concrete value in
// an implementing element: `template.element.member = expression`. Path
// always has length >= 2.
type TemplateBinding struct {
	Path       []Identifier
	Expression Expression
	Span       span.Span
}

// RequirementAction is the verb of a ComponentRequirement.
type RequirementAction int

const (
	RequirementRequires RequirementAction = iota
	RequirementAllows
	RequirementForbids
)

func (a RequirementAction) String() string {
	switch a {
	case RequirementRequires:
		return "requires"
	case RequirementAllows:
		return "allows"
	case RequirementForbids:
		return "forbids"
	default:
		return "?"
	}
}

// ComponentRequirement is a `requires | allows | forbids [descendant] ...`
// constraint, valid only inside a template.
type ComponentRequirement struct {
	Action     RequirementAction
	Descendant bool
	Spec       ComponentSpec
	Span       span.Span
}

// ComponentSpecKind discriminates the ComponentSpec variant.
type ComponentSpecKind int

const (
	ComponentScope ComponentSpecKind = iota
	ComponentCheck
	ComponentElement
	ComponentConnection
	ComponentRef
	ComponentLanguage
	ComponentImplements
)

// ComponentSpec is the target of a ComponentRequirement.
type ComponentSpec struct {
	Kind ComponentSpecKind

	// ComponentScope
	Scope *ScopeDeclaration
	// ComponentCheck
	Check *CheckDeclaration
	// ComponentElement
	ElementName       *Identifier
	ElementType       *Identifier
	ElementImplements *Identifier
	ElementBody       *Element
	// ComponentConnection
	Connection *ConnectionPattern
	// ComponentRef
	RefName *Identifier
	RefType *Identifier
	RefExpr Expression
	// ComponentLanguage / ComponentImplements
	Name *Identifier
}

// ConnectionPattern is a dotted path with an optional trailing `.*`
// wildcard, used by `connection`/`requires connection to`.
type ConnectionPattern struct {
	Path     []Identifier
	Wildcard bool
	Span     span.Span
}

// Identifier is a name with its source span.
type Identifier struct {
	Name string
	Span span.Span
}

// StringLiteral is a parsed, unescaped string literal.
type StringLiteral struct {
	Value string
	Span  span.Span
}

// NumberLiteral is a parsed numeric literal; the lexical form distinguishes
// int-valued from fractional only at evaluation time.
type NumberLiteral struct {
	Value float64
	Span  span.Span
}

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Value bool
	Span  span.Span
}
