package parser

import (
	"strconv"

	"github.com/ercasta/hielements/ast"
	"github.com/ercasta/hielements/lexer"
	"github.com/ercasta/hielements/reporter"
	"github.com/ercasta/hielements/span"
)

// parseExpression parses a primary expression followed by any number of
// `.member` and `(args)` postfix operators. Hielements expressions have no infix operators:
// everything is identifiers, literals, member access, and calls.
func (p *Parser) parseExpression() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return ast.Expression{}, err
	}
	for {
		switch {
		case p.check(lexer.DOT):
			p.advance()
			member, err := p.parseIdentifier()
			if err != nil {
				return ast.Expression{}, err
			}
			expr = ast.NewMemberAccessExpr(expr, member, span.Merge(expr.Span, member.Span))
		case p.check(lexer.LPAREN):
			p.advance()
			var args []ast.Expression
			for !p.check(lexer.RPAREN) && !p.isAtEnd() {
				arg, err := p.parseExpression()
				if err != nil {
					return ast.Expression{}, err
				}
				args = append(args, arg)
				if p.check(lexer.COMMA) {
					p.advance()
				}
			}
			closeTok, err := p.expect(lexer.RPAREN, reporter.CodeExpectedBlockEnd)
			if err != nil {
				return ast.Expression{}, err
			}
			expr = ast.NewFunctionCallExpr(expr, args, span.Merge(expr.Span, closeTok.Span))
		default:
			return expr, nil
		}
	}
}

// parsePrimary parses an identifier, literal, or list.
func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.current()
	switch {
	case tok.Kind == lexer.STRING:
		p.advance()
		return ast.NewStringExpr(ast.StringLiteral{Value: unescapeString(tok.Text), Span: tok.Span}), nil
	case tok.Kind == lexer.NUMBER:
		p.advance()
		v, _ := strconv.ParseFloat(tok.Text, 64)
		return ast.NewNumberExpr(ast.NumberLiteral{Value: v, Span: tok.Span}), nil
	case tok.Kind == lexer.TRUE:
		p.advance()
		return ast.NewBooleanExpr(ast.BooleanLiteral{Value: true, Span: tok.Span}), nil
	case tok.Kind == lexer.FALSE:
		p.advance()
		return ast.NewBooleanExpr(ast.BooleanLiteral{Value: false, Span: tok.Span}), nil
	case tok.Kind == lexer.LBRACKET:
		return p.parseListLiteral()
	case tok.Kind == lexer.IDENT || lexer.IsSoftKeyword(tok.Kind):
		id, err := p.parseIdentifier()
		if err != nil {
			return ast.Expression{}, err
		}
		return ast.NewIdentifierExpr(id), nil
	default:
		return ast.Expression{}, p.errorf(reporter.CodeExpectedExpression, tok.Span, "expected an expression, found %s", tok.Kind)
	}
}

// parseListLiteral parses `[e1, e2, ...]`.
func (p *Parser) parseListLiteral() (ast.Expression, error) {
	start := p.currentSpan()
	p.advance() // `[`
	var elems []ast.Expression
	for !p.check(lexer.RBRACKET) && !p.isAtEnd() {
		el, err := p.parseExpression()
		if err != nil {
			return ast.Expression{}, err
		}
		elems = append(elems, el)
		if p.check(lexer.COMMA) {
			p.advance()
		}
	}
	closeTok, err := p.expect(lexer.RBRACKET, reporter.CodeExpectedBlockEnd)
	if err != nil {
		return ast.Expression{}, err
	}
	return ast.NewListExpr(elems, span.Merge(start, closeTok.Span)), nil
}

// unescapeString strips the surrounding quotes and resolves the escape
// sequences the lexer recognized without interpreting
// (original_source/lexer.rs string escaping: \\, \", \', \n, \t).
func unescapeString(raw string) string {
	if len(raw) < 2 {
		return ""
	}
	body := raw[1 : len(raw)-1]
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' && i+1 < len(body) {
			i++
			switch body[i] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case '\\':
				out = append(out, '\\')
			case '\'':
				out = append(out, '\'')
			case '"':
				out = append(out, '"')
			default:
				out = append(out, body[i])
			}
			continue
		}
		out = append(out, c)
	}
	return string(out)
}
