package parser

import (
	"github.com/ercasta/hielements/ast"
	"github.com/ercasta/hielements/lexer"
)

// expect consumes the current token if it has kind k, else returns a parse
// error carrying the caller-supplied code.
func (p *Parser) expect(k lexer.Kind, code string) (lexer.Token, error) {
	if p.check(k) {
		return p.advance(), nil
	}
	tok := p.current()
	return lexer.Token{}, p.errorf(code, tok.Span, "expected %s, found %s", k, tok.Kind)
}

// expectNewline consumes a NEWLINE if present; EOF and DEDENT/RBRACE also
// terminate a statement, matching the original's expect_newline.
func (p *Parser) expectNewline() error {
	if p.check(lexer.NEWLINE) {
		p.advance()
		return nil
	}
	if p.check(lexer.EOF) || p.check(lexer.DEDENT) || p.check(lexer.RBRACE) {
		return nil
	}
	tok := p.current()
	return p.errorf("E009", tok.Span, "expected newline, found %s", tok.Kind)
}

// parseIdentifier consumes an IDENT, or any soft keyword demoted to an
// identifier.
func (p *Parser) parseIdentifier() (ast.Identifier, error) {
	tok := p.current()
	if tok.Kind == lexer.IDENT || lexer.IsSoftKeyword(tok.Kind) {
		p.advance()
		return ast.Identifier{Name: tok.Text, Span: tok.Span}, nil
	}
	return ast.Identifier{}, p.errorf("E004", tok.Span, "expected identifier, found %s", tok.Kind)
}

// parseQualifiedPath parses ident {"." ident}, accepting soft keywords at
// every position (binds targets, template bindings, patterns all use this).
func (p *Parser) parseQualifiedPath() ([]ast.Identifier, error) {
	first, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	path := []ast.Identifier{first}
	for p.check(lexer.DOT) {
		p.advance()
		next, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		path = append(path, next)
	}
	return path, nil
}

// blockKind distinguishes which closing token a block expects.
type blockKind int

const (
	blockIndent blockKind = iota
	blockBrace
)

// expectBlockStart consumes `:` NEWLINE INDENT or `{`, returning which form
// was used so the caller knows which terminator to expect.
func (p *Parser) expectBlockStart() (blockKind, error) {
	if p.check(lexer.LBRACE) {
		p.advance()
		// Brace blocks ignore any INDENT/DEDENT produced by layout inside
		// them; skip layout trivia immediately following `{`.
		p.skipLayoutTrivia()
		return blockBrace, nil
	}
	if _, err := p.expect(lexer.COLON, "E005"); err != nil {
		return blockIndent, err
	}
	p.skipNewlines()
	if _, err := p.expect(lexer.INDENT, "E006"); err != nil {
		return blockIndent, err
	}
	return blockIndent, nil
}

// skipLayoutTrivia consumes INDENT/DEDENT/NEWLINE tokens, used inside brace
// blocks where they are trivia.
func (p *Parser) skipLayoutTrivia() {
	for p.checkAny(lexer.NEWLINE, lexer.INDENT, lexer.DEDENT) {
		p.advance()
	}
}

// skipMemberTrivia consumes one layout token that carries no meaning at the
// start of a member-loop iteration: a NEWLINE in either block form, or an
// INDENT/DEDENT in a brace block, where the lexer is layout-unaware of `{`/
// `}` and still emits them for whatever indentation the line happens to
// have. It reports whether it consumed anything, so callers can `continue`.
func (p *Parser) skipMemberTrivia(kind blockKind) bool {
	if p.check(lexer.NEWLINE) {
		p.advance()
		return true
	}
	if kind == blockBrace && p.checkAny(lexer.INDENT, lexer.DEDENT) {
		p.advance()
		return true
	}
	return false
}

// atBlockEnd reports whether the current token can terminate a block of the
// given kind.
func (p *Parser) atBlockEnd(kind blockKind) bool {
	if kind == blockBrace {
		return p.check(lexer.RBRACE) || p.isAtEnd()
	}
	return p.check(lexer.DEDENT) || p.isAtEnd()
}

// expectBlockEnd consumes the appropriate terminator.
func (p *Parser) expectBlockEnd(kind blockKind) {
	if kind == blockBrace {
		if p.check(lexer.RBRACE) {
			p.advance()
		}
		return
	}
	if p.check(lexer.DEDENT) {
		p.advance()
	}
}

// parseDocComment consumes a run of leading `##` doc-comment lines,
// concatenating them with newlines.
func (p *Parser) parseDocComment() string {
	var lines []string
	for p.check(lexer.DOC_COMMENT) {
		tok := p.advance()
		text := trimDocPrefix(tok.Text)
		lines = append(lines, text)
		p.skipNewlines()
	}
	if len(lines) == 0 {
		return ""
	}
	out := lines[0]
	for _, l := range lines[1:] {
		out += "\n" + l
	}
	return out
}

func trimDocPrefix(text string) string {
	i := 0
	for i < len(text) && text[i] == '#' {
		i++
	}
	text = text[i:]
	start := 0
	for start < len(text) && (text[start] == ' ' || text[start] == '\t') {
		start++
	}
	end := len(text)
	for end > start && (text[end-1] == ' ' || text[end-1] == '\t') {
		end--
	}
	return text[start:end]
}
