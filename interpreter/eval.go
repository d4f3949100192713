package interpreter

import (
	"strings"

	"github.com/ercasta/hielements/ast"
	"github.com/ercasta/hielements/library"
	"github.com/ercasta/hielements/reporter"
)

// CheckOutput summarizes one Run/RunWithOptions invocation.
type CheckOutput struct {
	Total   int
	Passed  int
	Failed  int
	Errors  int
	Skipped int
	Results []SingleCheckResult
}

// SingleCheckResult is the outcome of one check declaration, at one element
// path, in source order.
type SingleCheckResult struct {
	ElementPath string
	CheckExpr   string
	Status      library.CheckStatus
	Message     string
}

// RunOptions narrows which checks Run evaluates and how much it reports
// along the way.
type RunOptions struct {
	Filter  string
	Limit   int // 0 means unlimited
	Verbose bool
}

// Run evaluates every check in program with default options.
func (in *Interpreter) Run(program *ast.Program) *CheckOutput {
	return in.RunWithOptions(program, RunOptions{})
}

// RunWithOptions evaluates every check in program, pre-order, honoring
// filter and limit.
func (in *Interpreter) RunWithOptions(program *ast.Program, opts RunOptions) *CheckOutput {
	out := &CheckOutput{}
	for _, elem := range program.Elements {
		in.runElement(elem, nil, out, opts)
	}
	return out
}

func (in *Interpreter) runElement(elem ast.Element, path []string, out *CheckOutput, opts RunOptions) {
	currentPath := append(append([]string{}, path...), elem.Name.Name)
	pathStr := strings.Join(currentPath, ".")
	in.currentElementPath = pathStr

	limited := opts.Limit > 0 && len(out.Results) >= opts.Limit
	matchesFilter := opts.Filter == "" || strings.Contains(pathStr, opts.Filter)

	// Scopes and refs are always evaluated, independent of filter/limit, so
	// that later elements can still resolve references into this one.
	for _, s := range elem.Scopes {
		in.evalAndStoreScope(pathStr, s.Name.Name, s.Expression, opts.Verbose)
	}
	for _, r := range elem.Refs {
		in.evalAndStoreScope(pathStr, r.Name.Name, r.Expression, opts.Verbose)
	}

	for _, c := range elem.Checks {
		if opts.Limit > 0 && len(out.Results) >= opts.Limit {
			out.Skipped++
			continue
		}
		checkExpr := c.Expression.String()
		if !matchesFilter || limited {
			out.Skipped++
			continue
		}

		out.Total++
		if opts.Verbose {
			in.logger.Sugar().Infof("running %s :: %s", pathStr, checkExpr)
		}

		result, err := in.runCheck(c.Expression)
		if err != nil {
			out.Errors++
			out.Results = append(out.Results, SingleCheckResult{
				ElementPath: pathStr, CheckExpr: checkExpr,
				Status: library.StatusError, Message: err.Error(),
			})
			continue
		}
		switch result.Status {
		case library.StatusPass:
			out.Passed++
		case library.StatusFail:
			out.Failed++
		default:
			out.Errors++
		}
		out.Results = append(out.Results, SingleCheckResult{
			ElementPath: pathStr, CheckExpr: checkExpr,
			Status: result.Status, Message: result.Message,
		})
	}

	for _, child := range elem.Children {
		in.runElement(child, currentPath, out, opts)
	}
}

func (in *Interpreter) evalAndStoreScope(elementPath, name string, expr ast.Expression, verbose bool) {
	key := elementPath + "." + name
	if verbose {
		in.logger.Sugar().Infof("evaluating scope %s", key)
	}
	value, err := in.evaluateExpression(expr)
	if err != nil {
		in.logger.Sugar().Debugf("scope %s failed: %v", key, err)
		return
	}
	in.scopes.Set(key, value)
}

// evaluateExpression turns an expression into a Value, resolving identifiers
// against previously evaluated scopes and dispatching function calls into
// the library registry.
func (in *Interpreter) evaluateExpression(expr ast.Expression) (library.Value, error) {
	switch expr.Kind {
	case ast.ExprString:
		return library.Str(expr.String_Unescape()), nil
	case ast.ExprNumber:
		v := expr.Number.Value
		if v == float64(int64(v)) {
			return library.Int(int64(v)), nil
		}
		return library.Float(v), nil
	case ast.ExprBoolean:
		return library.Bool(expr.Boolean.Value), nil
	case ast.ExprList:
		values := make([]library.Value, 0, len(expr.Elements))
		for _, el := range expr.Elements {
			v, err := in.evaluateExpression(el)
			if err != nil {
				return library.Value{}, err
			}
			values = append(values, v)
		}
		return library.List(values), nil
	case ast.ExprIdentifier:
		return in.resolveIdentifier(expr)
	case ast.ExprMemberAccess:
		return in.resolveMemberAccess(expr)
	case ast.ExprFunctionCall:
		return in.evaluateCall(expr)
	default:
		return library.Value{}, reporter.Errorf(reporter.CodeUndefinedIdentifier, expr.Span, "cannot evaluate expression")
	}
}

// resolveIdentifier looks up id first as "<currentElementPath>.<name>",
// then falls back to a deterministic suffix scan over every stored scope
//: the first scope whose key ends in
// ".<name>", or whose key equals <name> outright, wins.
func (in *Interpreter) resolveIdentifier(expr ast.Expression) (library.Value, error) {
	id := *expr.Identifier
	exactKey := in.currentElementPath + "." + id.Name
	if v, ok := in.scopes.Get(exactKey); ok {
		return v, nil
	}

	suffix := "." + id.Name
	var found library.Value
	var ok bool
	in.scopes.Scan(func(key string, value library.Value) bool {
		if key == id.Name || strings.HasSuffix(key, suffix) {
			found, ok = value, true
			return false
		}
		return true
	})
	if ok {
		return found, nil
	}
	return library.Value{}, reporter.Errorf(reporter.CodeUndefinedIdentifier, expr.Span, "undefined identifier: %s", id.Name)
}

// resolveMemberAccess resolves a dotted scope/ref reference like
// `parent.child`. A member access whose object is a bare identifier could
// also be the function half of a `lib.fn(...)` call; that shape is only
// meaningful inside evaluateCall; evaluated directly, it resolves as a
// scope path.
func (in *Interpreter) resolveMemberAccess(expr ast.Expression) (library.Value, error) {
	scopeName := expr.String()
	var found library.Value
	var ok bool
	in.scopes.Scan(func(key string, value library.Value) bool {
		if strings.HasSuffix(key, scopeName) {
			found, ok = value, true
			return false
		}
		return true
	})
	if ok {
		return found, nil
	}
	return library.Value{}, reporter.Errorf(reporter.CodeUndefinedReference, expr.Span, "undefined reference: %s", scopeName)
}

func (in *Interpreter) evaluateCall(expr ast.Expression) (library.Value, error) {
	libName, fnName, args, ok := expr.IsLibraryCall()
	if !ok {
		return library.Value{}, reporter.Errorf(reporter.CodeMalformedLibraryCall, expr.Span, "expected library.function(...)")
	}
	values, err := in.evaluateArgs(args)
	if err != nil {
		return library.Value{}, err
	}
	value, err := in.libraries.Call(libName.Name, fnName.Name, values)
	if err != nil {
		return library.Value{}, reporter.Errorf(reporter.CodeUnknownLibraryAtRun, expr.Span, "%v", err)
	}
	return value, nil
}

func (in *Interpreter) evaluateArgs(args []ast.Expression) ([]library.Value, error) {
	values := make([]library.Value, 0, len(args))
	for _, a := range args {
		v, err := in.evaluateExpression(a)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// runCheck evaluates a check declaration's expression, which must have the
// shape `lib.fn(...)`.
func (in *Interpreter) runCheck(expr ast.Expression) (library.CheckResult, error) {
	libName, fnName, args, ok := expr.IsLibraryCall()
	if !ok {
		return library.CheckResult{}, reporter.Errorf(reporter.CodeCheckNotACall, expr.Span, "check must be a function call")
	}
	values, err := in.evaluateArgs(args)
	if err != nil {
		return library.CheckResult{}, err
	}
	result, err := in.libraries.Check(libName.Name, fnName.Name, values)
	if err != nil {
		return library.CheckResult{}, reporter.Errorf(reporter.CodeUnknownLibraryAtRun, expr.Span, "%v", err)
	}
	return result, nil
}
