package ast

import (
	"strconv"

	"github.com/ercasta/hielements/span"
)

// ExpressionKind discriminates the Expression variant.
type ExpressionKind int

const (
	ExprIdentifier ExpressionKind = iota
	ExprMemberAccess
	ExprFunctionCall
	ExprString
	ExprNumber
	ExprBoolean
	ExprList
)

// Expression is the tagged union of everything that can appear in a scope,
// ref, check, or template binding expression position.
type Expression struct {
	Kind ExpressionKind

	Identifier *Identifier

	// ExprMemberAccess
	Object *Expression
	Member *Identifier

	// ExprFunctionCall
	Function  *Expression
	Arguments []Expression

	// ExprString / ExprNumber / ExprBoolean
	StringLit *StringLiteral
	Number    *NumberLiteral
	Boolean   *BooleanLiteral

	// ExprList
	Elements []Expression

	Span span.Span
}

// NewIdentifierExpr builds an ExprIdentifier expression.
func NewIdentifierExpr(id Identifier) Expression {
	return Expression{Kind: ExprIdentifier, Identifier: &id, Span: id.Span}
}

// NewMemberAccessExpr builds an ExprMemberAccess expression: object.member.
func NewMemberAccessExpr(object Expression, member Identifier, sp span.Span) Expression {
	return Expression{Kind: ExprMemberAccess, Object: &object, Member: &member, Span: sp}
}

// NewFunctionCallExpr builds an ExprFunctionCall expression: function(args...).
func NewFunctionCallExpr(function Expression, args []Expression, sp span.Span) Expression {
	return Expression{Kind: ExprFunctionCall, Function: &function, Arguments: args, Span: sp}
}

// NewStringExpr builds an ExprString expression.
func NewStringExpr(s StringLiteral) Expression {
	return Expression{Kind: ExprString, StringLit: &s, Span: s.Span}
}

// NewNumberExpr builds an ExprNumber expression.
func NewNumberExpr(n NumberLiteral) Expression {
	return Expression{Kind: ExprNumber, Number: &n, Span: n.Span}
}

// NewBooleanExpr builds an ExprBoolean expression.
func NewBooleanExpr(b BooleanLiteral) Expression {
	return Expression{Kind: ExprBoolean, Boolean: &b, Span: b.Span}
}

// NewListExpr builds an ExprList expression.
func NewListExpr(elements []Expression, sp span.Span) Expression {
	return Expression{Kind: ExprList, Elements: elements, Span: sp}
}

// IsLibraryCall reports whether e has the shape `lib.fn(...)` required of
// check expressions: a FunctionCall whose function is a
// MemberAccess of two identifiers.
func (e Expression) IsLibraryCall() (lib, fn Identifier, args []Expression, ok bool) {
	if e.Kind != ExprFunctionCall || e.Function == nil {
		return Identifier{}, Identifier{}, nil, false
	}
	fnExpr := *e.Function
	if fnExpr.Kind != ExprMemberAccess || fnExpr.Object == nil || fnExpr.Member == nil {
		return Identifier{}, Identifier{}, nil, false
	}
	if fnExpr.Object.Kind != ExprIdentifier || fnExpr.Object.Identifier == nil {
		return Identifier{}, Identifier{}, nil, false
	}
	return *fnExpr.Object.Identifier, *fnExpr.Member, e.Arguments, true
}

// String renders the expression the way the interpreter's expression-to-
// string conversion does.
func (e Expression) String() string {
	switch e.Kind {
	case ExprIdentifier:
		return e.Identifier.Name
	case ExprString:
		return "'" + e.String_Unescape() + "'"
	case ExprNumber:
		return formatNumber(e.Number.Value)
	case ExprBoolean:
		if e.Boolean.Value {
			return "true"
		}
		return "false"
	case ExprMemberAccess:
		return e.Object.String() + "." + e.Member.Name
	case ExprFunctionCall:
		args := make([]string, len(e.Arguments))
		for i, a := range e.Arguments {
			args[i] = a.String()
		}
		return e.Function.String() + "(" + joinComma(args) + ")"
	case ExprList:
		elems := make([]string, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = el.String()
		}
		return "[" + joinComma(elems) + "]"
	default:
		return "<invalid>"
	}
}

// String_Unescape returns the raw string value for rendering purposes.
func (e Expression) String_Unescape() string {
	if e.StringLit == nil {
		return ""
	}
	return e.StringLit.Value
}

func joinComma(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		out += item
	}
	return out
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
