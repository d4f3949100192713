package parser

import (
	"github.com/ercasta/hielements/ast"
	"github.com/ercasta/hielements/lexer"
	"github.com/ercasta/hielements/reporter"
	"github.com/ercasta/hielements/span"
)

// parseProgram is the grammar's start symbol:
//
//	program := {import} {language_decl | template | element}
//
// grounded on original_source/crates/hielements-core/src/parser.rs's parse()
// but extended to dispatch on `language` and `template` as well, which the
// older grammar did not have.
func (p *Parser) parseProgram() (*ast.Program, *reporter.Diagnostics) {
	start := p.currentSpan()
	prog := &ast.Program{}

	p.skipNewlines()
	for p.check(lexer.IMPORT) || p.check(lexer.FROM) {
		imp, err := p.parseImportStatement()
		if err != nil {
			p.pushErr(err)
			p.recoverToNewline()
			continue
		}
		prog.Imports = append(prog.Imports, imp)
		p.skipNewlines()
	}

	for !p.isAtEnd() {
		switch {
		case p.check(lexer.NEWLINE):
			p.advance()
		case p.check(lexer.LANGUAGE):
			decl, err := p.parseLanguageDecl()
			if err != nil {
				p.pushErr(err)
				p.recoverToElement()
				continue
			}
			prog.Languages = append(prog.Languages, decl)
		case p.check(lexer.TEMPLATE):
			tmpl, err := p.parseTemplate()
			if err != nil {
				p.pushErr(err)
				p.recoverToElement()
				continue
			}
			prog.Templates = append(prog.Templates, tmpl)
		case p.check(lexer.DOC_COMMENT) || p.check(lexer.ELEMENT):
			doc := p.parseDocComment()
			if p.check(lexer.TEMPLATE) {
				tmpl, err := p.parseTemplate()
				if err != nil {
					p.pushErr(err)
					p.recoverToElement()
					continue
				}
				tmpl.Doc = doc
				prog.Templates = append(prog.Templates, tmpl)
				break
			}
			if !p.check(lexer.ELEMENT) {
				tok := p.current()
				p.push(reporter.NewError(reporter.CodeUnexpectedTopLevel, "doc comment must be followed by an element or template declaration").WithFile(p.filePath).WithSpan(tok.Span).Build())
				p.recoverToElement()
				continue
			}
			elem, err := p.parseElement(doc, false)
			if err != nil {
				p.pushErr(err)
				p.recoverToElement()
				continue
			}
			prog.Elements = append(prog.Elements, elem)
		default:
			tok := p.current()
			p.push(reporter.NewError(reporter.CodeUnexpectedTopLevel, "expected import, language, template, or element declaration, found "+tok.Kind.String()).WithFile(p.filePath).WithSpan(tok.Span).Build())
			p.recoverToElement()
		}
		p.skipNewlines()
	}

	prog.Span = span.Merge(start, p.previousSpan())
	return prog, p.diags
}

// parseImportStatement parses `import a.b.c [as alias]` or
// `from a.b.c import x, y`.
func (p *Parser) parseImportStatement() (ast.ImportStatement, error) {
	start := p.currentSpan()
	if p.check(lexer.FROM) {
		p.advance()
		path, err := p.parseImportPath()
		if err != nil {
			return ast.ImportStatement{}, err
		}
		if _, err := p.expect(lexer.IMPORT, "E002"); err != nil {
			return ast.ImportStatement{}, err
		}
		var names []ast.Identifier
		for {
			id, err := p.parseIdentifier()
			if err != nil {
				return ast.ImportStatement{}, err
			}
			names = append(names, id)
			if !p.check(lexer.COMMA) {
				break
			}
			p.advance()
		}
		end := p.previousSpan()
		if err := p.expectNewline(); err != nil {
			return ast.ImportStatement{}, err
		}
		return ast.ImportStatement{Path: path, Selective: names, Span: span.Merge(start, end)}, nil
	}

	if _, err := p.expect(lexer.IMPORT, "E002"); err != nil {
		return ast.ImportStatement{}, err
	}
	path, err := p.parseImportPath()
	if err != nil {
		return ast.ImportStatement{}, err
	}
	var alias *ast.Identifier
	if p.check(lexer.AS) {
		p.advance()
		id, err := p.parseIdentifier()
		if err != nil {
			return ast.ImportStatement{}, err
		}
		alias = &id
	}
	end := p.previousSpan()
	if err := p.expectNewline(); err != nil {
		return ast.ImportStatement{}, err
	}
	return ast.ImportStatement{Path: path, Alias: alias, Span: span.Merge(start, end)}, nil
}

func (p *Parser) parseImportPath() (ast.ImportPath, error) {
	if p.check(lexer.STRING) {
		tok := p.advance()
		return ast.ImportPath{String: &ast.StringLiteral{Value: unquote(tok.Text), Span: tok.Span}}, nil
	}
	ids, err := p.parseQualifiedPath()
	if err != nil {
		return ast.ImportPath{}, err
	}
	return ast.ImportPath{Identifiers: ids}, nil
}

// parseLanguageDecl parses `language NAME: {connection_check ...}`
//.
func (p *Parser) parseLanguageDecl() (ast.LanguageDeclaration, error) {
	start := p.currentSpan()
	p.advance() // `language`
	name, err := p.parseIdentifier()
	if err != nil {
		return ast.LanguageDeclaration{}, err
	}
	kind, err := p.expectBlockStart()
	if err != nil {
		return ast.LanguageDeclaration{}, err
	}
	decl := ast.LanguageDeclaration{Name: name}
	for !p.atBlockEnd(kind) {
		if p.skipMemberTrivia(kind) {
			continue
		}
		if !p.check(lexer.CONNECTION_CHECK) {
			tok := p.current()
			p.push(reporter.NewError(reporter.CodeUnexpectedMember, "only connection_check declarations are allowed inside a language block, found "+tok.Kind.String()).WithFile(p.filePath).WithSpan(tok.Span).Build())
			p.recoverToMember()
			continue
		}
		cc, err := p.parseConnectionCheck()
		if err != nil {
			p.pushErr(err)
			p.recoverToMember()
			continue
		}
		decl.ConnectionChecks = append(decl.ConnectionChecks, cc)
	}
	p.expectBlockEnd(kind)
	decl.Span = span.Merge(start, p.previousSpan())
	return decl, nil
}

func (p *Parser) parseConnectionCheck() (ast.ConnectionCheck, error) {
	start := p.currentSpan()
	p.advance() // `connection_check`
	name, err := p.parseIdentifier()
	if err != nil {
		return ast.ConnectionCheck{}, err
	}
	if _, err := p.expect(lexer.LPAREN, "E005"); err != nil {
		return ast.ConnectionCheck{}, err
	}
	var params []ast.ConnectionCheckParam
	for !p.check(lexer.RPAREN) && !p.isAtEnd() {
		pname, err := p.parseIdentifier()
		if err != nil {
			return ast.ConnectionCheck{}, err
		}
		if _, err := p.expect(lexer.COLON, "E005"); err != nil {
			return ast.ConnectionCheck{}, err
		}
		if _, err := p.expect(lexer.SCOPE, "E004"); err != nil {
			return ast.ConnectionCheck{}, err
		}
		if _, err := p.expect(lexer.LBRACKET, "E005"); err != nil {
			return ast.ConnectionCheck{}, err
		}
		if _, err := p.expect(lexer.RBRACKET, "E005"); err != nil {
			return ast.ConnectionCheck{}, err
		}
		params = append(params, ast.ConnectionCheckParam{Name: pname, Span: pname.Span})
		if p.check(lexer.COMMA) {
			p.advance()
		}
	}
	if _, err := p.expect(lexer.RPAREN, "E005"); err != nil {
		return ast.ConnectionCheck{}, err
	}
	if _, err := p.expect(lexer.COLON, "E005"); err != nil {
		return ast.ConnectionCheck{}, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return ast.ConnectionCheck{}, err
	}
	if err := p.expectNewline(); err != nil {
		return ast.ConnectionCheck{}, err
	}
	return ast.ConnectionCheck{Name: name, Params: params, Expression: expr, Span: span.Merge(start, p.previousSpan())}, nil
}

// parseTemplate parses `template NAME: {member}`, dispatching each member
// through parseTemplateMember.
func (p *Parser) parseTemplate() (ast.Template, error) {
	start := p.currentSpan()
	p.advance() // `template`
	name, err := p.parseIdentifier()
	if err != nil {
		return ast.Template{}, err
	}
	kind, err := p.expectBlockStart()
	if err != nil {
		return ast.Template{}, err
	}
	tmpl := ast.Template{Name: name}
	for !p.atBlockEnd(kind) {
		if p.skipMemberTrivia(kind) {
			continue
		}
		if err := p.parseTemplateMember(&tmpl); err != nil {
			p.pushErr(err)
			p.recoverToMember()
		}
	}
	p.expectBlockEnd(kind)
	tmpl.Span = span.Merge(start, p.previousSpan())
	return tmpl, nil
}

func (p *Parser) parseTemplateMember(tmpl *ast.Template) error {
	switch {
	case p.check(lexer.SCOPE):
		s, err := p.parseScopeDecl(true)
		if err != nil {
			return err
		}
		tmpl.Scopes = append(tmpl.Scopes, s)
	case p.check(lexer.REF) || p.check(lexer.CONNECTION_POINT):
		r, err := p.parseRefDecl(true)
		if err != nil {
			return err
		}
		tmpl.Refs = append(tmpl.Refs, r)
	case p.check(lexer.CHECK):
		c, err := p.parseCheckDecl()
		if err != nil {
			return err
		}
		tmpl.Checks = append(tmpl.Checks, c)
	case p.checkAny(lexer.REQUIRES, lexer.ALLOWS, lexer.FORBIDS):
		r, err := p.parseComponentRequirement()
		if err != nil {
			return err
		}
		tmpl.ComponentRequirements = append(tmpl.ComponentRequirements, r)
	case p.check(lexer.DOC_COMMENT) || p.check(lexer.ELEMENT):
		doc := p.parseDocComment()
		if !p.check(lexer.ELEMENT) {
			tok := p.current()
			return p.errorf(reporter.CodeUnexpectedTopLevel, tok.Span, "doc comment must be followed by an element")
		}
		elem, err := p.parseElement(doc, true)
		if err != nil {
			return err
		}
		tmpl.Elements = append(tmpl.Elements, elem)
	default:
		tok := p.current()
		return p.errorf(reporter.CodeUnexpectedMember, tok.Span, "unexpected %s inside template body", tok.Kind)
	}
	return nil
}

// parseElement parses `element NAME [implements T1, T2]: {member}`
//. inTemplate permits unbounded scope/ref members;
// requires/allows/forbids is reported as E012 in every element body.
func (p *Parser) parseElement(doc string, inTemplate bool) (ast.Element, error) {
	start := p.currentSpan()
	p.advance() // `element`
	name, err := p.parseIdentifier()
	if err != nil {
		return ast.Element{}, err
	}
	elem := ast.Element{Doc: doc, Name: name}
	if p.check(lexer.IMPLEMENTS) {
		p.advance()
		for {
			id, err := p.parseIdentifier()
			if err != nil {
				return ast.Element{}, err
			}
			elem.Implements = append(elem.Implements, id)
			if !p.check(lexer.COMMA) {
				break
			}
			p.advance()
		}
	}
	kind, err := p.expectBlockStart()
	if err != nil {
		return ast.Element{}, err
	}
	for !p.atBlockEnd(kind) {
		if p.skipMemberTrivia(kind) {
			continue
		}
		if err := p.parseElementMember(&elem, inTemplate); err != nil {
			p.pushErr(err)
			p.recoverToMember()
		}
	}
	p.expectBlockEnd(kind)
	elem.Span = span.Merge(start, p.previousSpan())
	return elem, nil
}

func (p *Parser) parseElementMember(elem *ast.Element, inTemplate bool) error {
	switch {
	case p.check(lexer.SCOPE):
		s, err := p.parseScopeDecl(inTemplate)
		if err != nil {
			return err
		}
		elem.Scopes = append(elem.Scopes, s)
	case p.check(lexer.REF) || p.check(lexer.CONNECTION_POINT):
		r, err := p.parseRefDecl(inTemplate)
		if err != nil {
			return err
		}
		elem.Refs = append(elem.Refs, r)
	case (p.check(lexer.IDENT) || lexer.IsSoftKeyword(p.current().Kind)) && p.peek(1).Kind == lexer.USES:
		u, err := p.parseUsesDecl()
		if err != nil {
			return err
		}
		elem.Uses = append(elem.Uses, u)
	case p.check(lexer.CHECK):
		c, err := p.parseCheckDecl()
		if err != nil {
			return err
		}
		elem.Checks = append(elem.Checks, c)
	case p.checkAny(lexer.REQUIRES, lexer.ALLOWS, lexer.FORBIDS):
		tok := p.current()
		p.push(reporter.NewError(reporter.CodeRequiresInElement, "requires/allows/forbids is only valid inside a template body, not an element").WithFile(p.filePath).WithSpan(tok.Span).Build())
		// ast.Element has no requirements slot: only template bodies carry
		// ComponentRequirements, so the parsed node is dropped after the
		// diagnostic above regardless of whether this element sits inside a
		// template.
		if _, err := p.parseComponentRequirement(); err != nil {
			return err
		}
	case p.check(lexer.DOC_COMMENT) || p.check(lexer.ELEMENT):
		doc := p.parseDocComment()
		if !p.check(lexer.ELEMENT) {
			tok := p.current()
			return p.errorf(reporter.CodeUnexpectedTopLevel, tok.Span, "doc comment must be followed by an element")
		}
		child, err := p.parseElement(doc, inTemplate)
		if err != nil {
			return err
		}
		elem.Children = append(elem.Children, child)
	case p.check(lexer.IDENT) || lexer.IsSoftKeyword(p.current().Kind):
		tb, err := p.parseTemplateBinding()
		if err != nil {
			return err
		}
		elem.TemplateBindings = append(elem.TemplateBindings, tb)
	default:
		tok := p.current()
		return p.errorf(reporter.CodeUnexpectedMember, tok.Span, "unexpected %s inside element body", tok.Kind)
	}
	return nil
}

func unquote(text string) string {
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}
