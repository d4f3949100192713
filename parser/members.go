package parser

import (
	"github.com/ercasta/hielements/ast"
	"github.com/ercasta/hielements/lexer"
	"github.com/ercasta/hielements/reporter"
	"github.com/ercasta/hielements/span"
)

// parseScopeDecl parses `scope NAME [<LANGUAGE> | : LANGUAGE] [binds PATH] [= EXPR]`
//. An absent `= EXPR` is an unbounded
// scope, legal only inside a template (E014 otherwise).
func (p *Parser) parseScopeDecl(inTemplate bool) (ast.ScopeDeclaration, error) {
	start := p.currentSpan()
	p.advance() // `scope`
	name, err := p.parseIdentifier()
	if err != nil {
		return ast.ScopeDeclaration{}, err
	}
	decl := ast.ScopeDeclaration{Name: name}

	if p.check(lexer.COLON) {
		p.advance()
		lang, err := p.parseIdentifier()
		if err != nil {
			return ast.ScopeDeclaration{}, err
		}
		decl.Language = &lang
	} else if p.check(lexer.LANGLE) {
		p.advance()
		lang, err := p.parseIdentifier()
		if err != nil {
			return ast.ScopeDeclaration{}, err
		}
		if _, err := p.expect(lexer.RANGLE, reporter.CodeExpectedType); err != nil {
			return ast.ScopeDeclaration{}, err
		}
		decl.Language = &lang
	}
	if p.check(lexer.BINDS) {
		p.advance()
		path, err := p.parseQualifiedPath()
		if err != nil {
			return ast.ScopeDeclaration{}, err
		}
		decl.BindsPath = path
	}
	if p.check(lexer.EQUALS) {
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return ast.ScopeDeclaration{}, err
		}
		decl.Expression = expr
	} else if !inTemplate {
		tok := p.current()
		p.push(reporter.NewError(reporter.CodeUnboundedScope, "unbounded scope is only valid inside a template").WithFile(p.filePath).WithSpan(tok.Span).Build())
	}
	decl.Span = span.Merge(start, p.previousSpan())
	if err := p.expectNewline(); err != nil {
		return decl, err
	}
	return decl, nil
}

// parseRefDecl parses `ref NAME: TYPE [binds PATH] [= EXPR]`. The type annotation is mandatory; an absent
// `= EXPR` is an unbounded ref, legal only inside a template (E015
// otherwise).
func (p *Parser) parseRefDecl(inTemplate bool) (ast.RefDeclaration, error) {
	start := p.currentSpan()
	p.advance() // `ref`
	name, err := p.parseIdentifier()
	if err != nil {
		return ast.RefDeclaration{}, err
	}
	if _, err := p.expect(lexer.COLON, reporter.CodeExpectedBlockEnd); err != nil {
		return ast.RefDeclaration{}, err
	}
	typeAnn, err := p.parseIdentifier()
	if err != nil {
		return ast.RefDeclaration{}, p.errorf(reporter.CodeExpectedType, p.currentSpan(), "expected a type annotation for ref %s", name.Name)
	}
	decl := ast.RefDeclaration{Name: name, TypeAnnotation: typeAnn}

	if p.check(lexer.BINDS) {
		p.advance()
		path, err := p.parseQualifiedPath()
		if err != nil {
			return ast.RefDeclaration{}, err
		}
		decl.BindsPath = path
	}
	if p.check(lexer.EQUALS) {
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return ast.RefDeclaration{}, err
		}
		decl.Expression = expr
	} else if !inTemplate {
		tok := p.current()
		p.push(reporter.NewError(reporter.CodeUnboundedRef, "unbounded ref is only valid inside a template").WithFile(p.filePath).WithSpan(tok.Span).Build())
	}
	decl.Span = span.Merge(start, p.previousSpan())
	if err := p.expectNewline(); err != nil {
		return decl, err
	}
	return decl, nil
}

// parseUsesDecl parses `uses_decl := ident "uses" qualified_path`, i.e.
// `SOURCE uses TARGET.path`. The current token is the leading identifier;
// the caller has already confirmed it is followed by `uses`.
func (p *Parser) parseUsesDecl() (ast.UsesDeclaration, error) {
	start := p.currentSpan()
	source, err := p.parseIdentifier()
	if err != nil {
		return ast.UsesDeclaration{}, err
	}
	if _, err := p.expect(lexer.USES, "E005"); err != nil {
		return ast.UsesDeclaration{}, err
	}
	target, err := p.parseQualifiedPath()
	if err != nil {
		return ast.UsesDeclaration{}, err
	}
	decl := ast.UsesDeclaration{Source: source, Target: target, Span: span.Merge(start, p.previousSpan())}
	if err := p.expectNewline(); err != nil {
		return decl, err
	}
	return decl, nil
}

// parseCheckDecl parses `check EXPR`, where EXPR must have the shape
// `lib.fn(...)`.
func (p *Parser) parseCheckDecl() (ast.CheckDeclaration, error) {
	start := p.currentSpan()
	p.advance() // `check`
	expr, err := p.parseExpression()
	if err != nil {
		return ast.CheckDeclaration{}, err
	}
	decl := ast.CheckDeclaration{Expression: expr, Span: span.Merge(start, p.previousSpan())}
	if err := p.expectNewline(); err != nil {
		return decl, err
	}
	return decl, nil
}

// parseTemplateBinding parses `template.element.member = EXPR` inside an
// element body. The path must
// have at least two segments (E013 otherwise, matching
// reporter.CodeBadTemplateBinding).
func (p *Parser) parseTemplateBinding() (ast.TemplateBinding, error) {
	start := p.currentSpan()
	path, err := p.parseQualifiedPath()
	if err != nil {
		return ast.TemplateBinding{}, err
	}
	if len(path) < 2 {
		return ast.TemplateBinding{}, p.errorf(reporter.CodeBadTemplateBinding, span.Merge(start, p.previousSpan()), "template binding path must have at least two segments")
	}
	if _, err := p.expect(lexer.EQUALS, reporter.CodeExpectedEquals); err != nil {
		return ast.TemplateBinding{}, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return ast.TemplateBinding{}, err
	}
	tb := ast.TemplateBinding{Path: path, Expression: expr, Span: span.Merge(start, p.previousSpan())}
	if err := p.expectNewline(); err != nil {
		return tb, err
	}
	return tb, nil
}

// parseComponentRequirement parses
// `(requires|allows|forbids) [descendant] spec`, valid only inside a template.
func (p *Parser) parseComponentRequirement() (ast.ComponentRequirement, error) {
	start := p.currentSpan()
	var action ast.RequirementAction
	switch p.current().Kind {
	case lexer.REQUIRES:
		action = ast.RequirementRequires
	case lexer.ALLOWS:
		action = ast.RequirementAllows
	case lexer.FORBIDS:
		action = ast.RequirementForbids
	}
	p.advance()

	descendant := false
	if p.check(lexer.DESCENDANT) {
		p.advance()
		descendant = true
	}

	specNode, err := p.parseComponentSpec()
	if err != nil {
		return ast.ComponentRequirement{}, err
	}
	req := ast.ComponentRequirement{Action: action, Descendant: descendant, Spec: specNode, Span: span.Merge(start, p.previousSpan())}
	if err := p.expectNewline(); err != nil {
		return req, err
	}
	return req, nil
}

// parseComponentSpec parses the target of a requirement: scope, check,
// element, connection, ref, language, or implements.
func (p *Parser) parseComponentSpec() (ast.ComponentSpec, error) {
	switch {
	case p.check(lexer.SCOPE):
		s, err := p.parseScopeDecl(true)
		if err != nil {
			return ast.ComponentSpec{}, err
		}
		return ast.ComponentSpec{Kind: ast.ComponentScope, Scope: &s}, nil
	case p.check(lexer.CHECK):
		c, err := p.parseCheckDecl()
		if err != nil {
			return ast.ComponentSpec{}, err
		}
		return ast.ComponentSpec{Kind: ast.ComponentCheck, Check: &c}, nil
	case p.check(lexer.REF):
		p.advance()
		name, err := p.parseIdentifier()
		if err != nil {
			return ast.ComponentSpec{}, err
		}
		var typeAnn *ast.Identifier
		if p.check(lexer.COLON) {
			p.advance()
			t, err := p.parseIdentifier()
			if err != nil {
				return ast.ComponentSpec{}, err
			}
			typeAnn = &t
		}
		var expr ast.Expression
		if p.check(lexer.EQUALS) {
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return ast.ComponentSpec{}, err
			}
			expr = e
		}
		return ast.ComponentSpec{Kind: ast.ComponentRef, RefName: &name, RefType: typeAnn, RefExpr: expr}, nil
	case p.check(lexer.CONNECTION):
		p.advance()
		if p.check(lexer.TO) {
			p.advance()
		}
		pattern, err := p.parseConnectionPattern()
		if err != nil {
			return ast.ComponentSpec{}, err
		}
		return ast.ComponentSpec{Kind: ast.ComponentConnection, Connection: &pattern}, nil
	case p.check(lexer.LANGUAGE):
		p.advance()
		name, err := p.parseIdentifier()
		if err != nil {
			return ast.ComponentSpec{}, err
		}
		return ast.ComponentSpec{Kind: ast.ComponentLanguage, Name: &name}, nil
	case p.check(lexer.IMPLEMENTS):
		p.advance()
		name, err := p.parseIdentifier()
		if err != nil {
			return ast.ComponentSpec{}, err
		}
		return ast.ComponentSpec{Kind: ast.ComponentImplements, Name: &name}, nil
	case p.check(lexer.ELEMENT):
		return p.parseComponentElementSpec()
	default:
		tok := p.current()
		return ast.ComponentSpec{}, p.errorf(reporter.CodeExpectedIdentifier, tok.Span, "expected a requirement target (scope, check, ref, connection, element, language, or implements), found %s", tok.Kind)
	}
}

// parseComponentElementSpec parses `element NAME [: TYPE] [implements T]`,
// optionally followed by a full nested element body.
func (p *Parser) parseComponentElementSpec() (ast.ComponentSpec, error) {
	p.advance() // `element`
	name, err := p.parseIdentifier()
	if err != nil {
		return ast.ComponentSpec{}, err
	}
	spec := ast.ComponentSpec{Kind: ast.ComponentElement, ElementName: &name}
	if p.check(lexer.COLON) {
		p.advance()
		t, err := p.parseIdentifier()
		if err != nil {
			return ast.ComponentSpec{}, err
		}
		spec.ElementType = &t
	}
	if p.check(lexer.IMPLEMENTS) {
		p.advance()
		impl, err := p.parseIdentifier()
		if err != nil {
			return ast.ComponentSpec{}, err
		}
		spec.ElementImplements = &impl
	}
	if p.check(lexer.COLON) || p.check(lexer.LBRACE) {
		mark := p.mark()
		kind, err := p.expectBlockStart()
		if err != nil {
			p.reset(mark)
			return spec, nil
		}
		body := ast.Element{Name: name}
		for !p.atBlockEnd(kind) {
			if p.skipMemberTrivia(kind) {
				continue
			}
			if err := p.parseElementMember(&body, true); err != nil {
				p.pushErr(err)
				p.recoverToMember()
			}
		}
		p.expectBlockEnd(kind)
		spec.ElementBody = &body
	}
	return spec, nil
}

// parseConnectionPattern parses a dotted path with an optional trailing
// `.*` wildcard.
func (p *Parser) parseConnectionPattern() (ast.ConnectionPattern, error) {
	start := p.currentSpan()
	first, err := p.parseIdentifier()
	if err != nil {
		return ast.ConnectionPattern{}, err
	}
	path := []ast.Identifier{first}
	wildcard := false
	for p.check(lexer.DOT) {
		p.advance()
		if p.check(lexer.STAR) {
			p.advance()
			wildcard = true
			break
		}
		next, err := p.parseIdentifier()
		if err != nil {
			return ast.ConnectionPattern{}, err
		}
		path = append(path, next)
	}
	return ast.ConnectionPattern{Path: path, Wildcard: wildcard, Span: span.Merge(start, p.previousSpan())}, nil
}
