// Package interpreter validates a Hielements program and walks it to
// evaluate scopes and run checks, dispatching `lib.fn(...)` expressions into
// a library.Registry, grounded on
// original_source/crates/hielements-core/src/interpreter.rs.
package interpreter

import (
	"fmt"

	"github.com/tidwall/btree"
	"go.uber.org/zap"

	"github.com/ercasta/hielements/ast"
	"github.com/ercasta/hielements/library"
	"github.com/ercasta/hielements/reporter"
)

// Interpreter owns the library registry, the evaluated-scope store, and the
// diagnostics accumulated while validating or running a program.
type Interpreter struct {
	libraries *library.Registry
	workspace string

	// scopes is keyed by dotted element path ("a.b.src") and holds every
	// evaluated scope/ref value seen so far. A btree.Map keeps iteration
	// order deterministic, which the suffix-match fallback in resolve
	// depends on for reproducible output.
	scopes *btree.Map[string, library.Value]

	currentElementPath string
	logger             *zap.Logger
}

// New creates an Interpreter rooted at workspace with no libraries
// registered; callers add built-ins and external libraries via
// RegisterLibrary before Validate/Run.
func New(workspace string, logger *zap.Logger) *Interpreter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interpreter{
		libraries: library.NewRegistry(),
		workspace: workspace,
		scopes:    &btree.Map[string, library.Value]{},
		logger:    logger,
	}
}

// RegisterLibrary adds lib to the interpreter's registry.
func (in *Interpreter) RegisterLibrary(lib library.Library) {
	in.libraries.Register(lib)
}

// Registry exposes the underlying library registry, e.g. to list the
// registered library names.
func (in *Interpreter) Registry() *library.Registry {
	return in.libraries
}

// Validate runs semantic validation over an already parsed program and
// returns a new collection holding parseDiags followed by every diagnostic
// the semantic pass adds. A nil program skips the semantic pass.
func (in *Interpreter) Validate(program *ast.Program, parseDiags *reporter.Diagnostics, filePath string) *reporter.Diagnostics {
	diags := reporter.New()
	diags.Extend(parseDiags)
	if program != nil {
		in.validateSemantics(program, filePath, diags)
	}
	return diags
}

func (in *Interpreter) validateSemantics(program *ast.Program, filePath string, diags *reporter.Diagnostics) {
	for _, imp := range program.Imports {
		if len(imp.Path.Identifiers) == 0 {
			continue
		}
		first := imp.Path.Identifiers[0]
		if _, ok := in.libraries.Lookup(first.Name); !ok {
			diags.Push(reporter.NewWarning(reporter.CodeUnknownLibrary,
				fmt.Sprintf("unknown library %q (will be resolved at runtime)", first.Name)).
				WithFile(filePath).WithSpan(first.Span).Build())
		}
	}

	for _, tmpl := range program.Templates {
		in.validateTemplate(tmpl, filePath, diags)
	}
	for _, elem := range program.Elements {
		in.validateElement(elem, filePath, diags, nil)
	}
}

func (in *Interpreter) validateTemplate(tmpl ast.Template, filePath string, diags *reporter.Diagnostics) {
	for _, s := range tmpl.Scopes {
		in.validateExpression(s.Expression, filePath, diags)
	}
	for _, r := range tmpl.Refs {
		in.validateExpression(r.Expression, filePath, diags)
	}
	for _, c := range tmpl.Checks {
		in.validateExpression(c.Expression, filePath, diags)
	}
	for _, elem := range tmpl.Elements {
		in.validateElement(elem, filePath, diags, nil)
	}
}

func (in *Interpreter) validateElement(elem ast.Element, filePath string, diags *reporter.Diagnostics, path []string) {
	currentPath := append(append([]string{}, path...), elem.Name.Name)

	for _, s := range elem.Scopes {
		in.validateExpression(s.Expression, filePath, diags)
	}
	for _, r := range elem.Refs {
		in.validateExpression(r.Expression, filePath, diags)
	}
	for _, c := range elem.Checks {
		in.validateExpression(c.Expression, filePath, diags)
	}
	for _, b := range elem.TemplateBindings {
		in.validateExpression(b.Expression, filePath, diags)
	}
	for _, child := range elem.Children {
		in.validateElement(child, filePath, diags, currentPath)
	}
}

// validateExpression recurses through an expression's shape purely to
// surface structural problems early; it performs no library resolution
// (that only happens at evaluation time, where the workspace and any
// external transports are live).
func (in *Interpreter) validateExpression(expr ast.Expression, filePath string, diags *reporter.Diagnostics) {
	switch expr.Kind {
	case ast.ExprFunctionCall:
		if expr.Function != nil {
			in.validateExpression(*expr.Function, filePath, diags)
		}
		for _, arg := range expr.Arguments {
			in.validateExpression(arg, filePath, diags)
		}
	case ast.ExprMemberAccess:
		if expr.Object != nil {
			in.validateExpression(*expr.Object, filePath, diags)
		}
	case ast.ExprList:
		for _, el := range expr.Elements {
			in.validateExpression(el, filePath, diags)
		}
	}
}
