// Package parser implements the Hielements hand-written, recursive-descent
// parser: token stream to AST, with bounded backtracking for
// element-body type-annotation disambiguation, and two error-recovery
// strategies so that one malformed
// declaration never prevents the rest of the file from parsing.
package parser

import (
	"fmt"

	"github.com/ercasta/hielements/ast"
	"github.com/ercasta/hielements/lexer"
	"github.com/ercasta/hielements/reporter"
	"github.com/ercasta/hielements/span"
)

// Parser holds the token stream and cursor for one parse of one file.
type Parser struct {
	filePath string
	tokens   []lexer.Token
	pos      int
	diags    *reporter.Diagnostics
}

// New creates a Parser over source, lexing it eagerly (the grammar's
// bounded backtracking needs random access to the token stream).
func New(source, filePath string) *Parser {
	return &Parser{
		filePath: filePath,
		tokens:   lexer.Tokenize(source),
		diags:    reporter.New(),
	}
}

// Parse lexes and parses source, returning the resulting Program (always
// non-nil; a badly malformed file still yields a Program as complete as
// recovery allowed) and the diagnostics accumulated along the way.
func Parse(source, filePath string) (*ast.Program, *reporter.Diagnostics) {
	p := New(source, filePath)
	return p.parseProgram()
}

// --- token stream primitives -------------------------------------------------

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) currentSpan() span.Span {
	return p.current().Span
}

func (p *Parser) previousSpan() span.Span {
	if p.pos > 0 {
		return p.tokens[p.pos-1].Span
	}
	return p.currentSpan()
}

func (p *Parser) check(k lexer.Kind) bool {
	return p.current().Kind == k
}

// checkAny reports whether the current token is any of the given kinds.
func (p *Parser) checkAny(kinds ...lexer.Kind) bool {
	cur := p.current().Kind
	for _, k := range kinds {
		if cur == k {
			return true
		}
	}
	return false
}

func (p *Parser) isAtEnd() bool {
	return p.current().Kind == lexer.EOF
}

// peek looks ahead offset tokens without consuming anything, clamping to the
// final token (EOF) past the end of the stream.
func (p *Parser) peek(offset int) lexer.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if !p.isAtEnd() {
		p.pos++
	}
	return tok
}

// mark/reset implement the bounded backtracking used for the element-body
// type-annotation ambiguity (parseComponentElementSpec). Template bindings
// are recognized by their leading identifier and parsed without
// backtracking: a malformed binding reports its own error (E004, E010 or
// E013) instead of rewinding.
func (p *Parser) mark() int {
	return p.pos
}

func (p *Parser) reset(mark int) {
	p.pos = mark
}

func (p *Parser) skipNewlines() {
	for p.check(lexer.NEWLINE) {
		p.advance()
	}
}

// --- diagnostics --------------------------------------------------------------

type parseError struct {
	diag reporter.Diagnostic
}

func (e parseError) Error() string { return e.diag.Message }

func (p *Parser) errorf(code string, sp span.Span, format string, args ...interface{}) error {
	return parseError{diag: reporter.NewError(code, fmt.Sprintf(format, args...)).WithFile(p.filePath).WithSpan(sp).Build()}
}

func (p *Parser) push(diag reporter.Diagnostic) {
	p.diags.Push(diag)
}

func (p *Parser) pushErr(err error) {
	if pe, ok := err.(parseError); ok {
		p.push(pe.diag)
		return
	}
	p.push(reporter.NewError("E000", err.Error()).WithFile(p.filePath).WithSpan(p.currentSpan()).Build())
}

// --- recovery -----------------------------------------------------------------

// recoverToNewline advances until a newline or EOF, used for
// statement-level errors.
func (p *Parser) recoverToNewline() {
	for !p.isAtEnd() && !p.check(lexer.NEWLINE) {
		p.advance()
	}
	if p.check(lexer.NEWLINE) {
		p.advance()
	}
}

// recoverToElement advances until the next `element` keyword, used for
// top-level errors.
func (p *Parser) recoverToElement() {
	for !p.isAtEnd() {
		if p.check(lexer.ELEMENT) {
			return
		}
		p.advance()
	}
}

// recoverToMember advances until a token that plausibly starts the next
// member or ends the current block, used when a scope/ref/check/etc body
// fails mid-way.
func (p *Parser) recoverToMember() {
	for !p.isAtEnd() {
		if p.checkAny(lexer.SCOPE, lexer.REF, lexer.CONNECTION_POINT, lexer.CHECK, lexer.ELEMENT,
			lexer.REQUIRES, lexer.ALLOWS, lexer.FORBIDS, lexer.DEDENT, lexer.RBRACE) {
			return
		}
		if p.check(lexer.NEWLINE) {
			p.advance()
			return
		}
		p.advance()
	}
}
