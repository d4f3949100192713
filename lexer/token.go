// Package lexer turns Hielements source text into a token stream, handling
// the language's offside-rule-plus-braces layout and its
// contextually-demoted keyword set.
package lexer

import "github.com/ercasta/hielements/span"

// Kind identifies what a Token represents.
type Kind int

const (
	EOF Kind = iota
	ILLEGAL

	// Synthetic layout tokens, synthesized by the indent-stack algorithm.
	INDENT
	DEDENT
	NEWLINE

	// Trivia.
	COMMENT
	DOC_COMMENT

	// Literals.
	IDENT
	STRING
	NUMBER

	// Punctuation.
	COLON
	EQUALS
	DOT
	COMMA
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
	LANGLE
	RANGLE
	STAR

	// Keywords. These are recognized uniformly by the lexer; the parser
	// demotes them to IDENT where the grammar allows a "soft keyword" (see
	// IsSoftKeyword below): keywords remain valid identifiers in most positions.
	ELEMENT
	TEMPLATE
	IMPLEMENTS
	SCOPE
	REF
	CONNECTION_POINT
	USES
	CHECK
	IMPORT
	FROM
	AS
	TRUE
	FALSE
	BINDS
	REQUIRES
	ALLOWS
	FORBIDS
	DESCENDANT
	CONNECTION
	TO
	LANGUAGE
	CONNECTION_CHECK
)

var kindNames = map[Kind]string{
	EOF:              "EOF",
	ILLEGAL:          "ILLEGAL",
	INDENT:           "INDENT",
	DEDENT:           "DEDENT",
	NEWLINE:          "NEWLINE",
	COMMENT:          "COMMENT",
	DOC_COMMENT:      "DOC_COMMENT",
	IDENT:            "IDENT",
	STRING:           "STRING",
	NUMBER:           "NUMBER",
	COLON:            ":",
	EQUALS:           "=",
	DOT:              ".",
	COMMA:            ",",
	LPAREN:           "(",
	RPAREN:           ")",
	LBRACKET:         "[",
	RBRACKET:         "]",
	LBRACE:           "{",
	RBRACE:           "}",
	LANGLE:           "<",
	RANGLE:           ">",
	STAR:             "*",
	ELEMENT:          "element",
	TEMPLATE:         "template",
	IMPLEMENTS:       "implements",
	SCOPE:            "scope",
	REF:              "ref",
	CONNECTION_POINT: "connection_point",
	USES:             "uses",
	CHECK:            "check",
	IMPORT:           "import",
	FROM:             "from",
	AS:               "as",
	TRUE:             "true",
	FALSE:            "false",
	BINDS:            "binds",
	REQUIRES:         "requires",
	ALLOWS:           "allows",
	FORBIDS:          "forbids",
	DESCENDANT:       "descendant",
	CONNECTION:       "connection",
	TO:               "to",
	LANGUAGE:         "language",
	CONNECTION_CHECK: "connection_check",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "?"
}

// keywords maps the exact text of a keyword to its Kind. Demotion back to
// IDENT in path/pattern positions happens in the parser.
var keywords = map[string]Kind{
	"element":          ELEMENT,
	"template":         TEMPLATE,
	"implements":       IMPLEMENTS,
	"scope":            SCOPE,
	"ref":              REF,
	"connection_point": CONNECTION_POINT,
	"uses":             USES,
	"check":            CHECK,
	"import":           IMPORT,
	"from":             FROM,
	"as":               AS,
	"true":             TRUE,
	"false":            FALSE,
	"binds":            BINDS,
	"requires":         REQUIRES,
	"allows":           ALLOWS,
	"forbids":          FORBIDS,
	"descendant":       DESCENDANT,
	"connection":       CONNECTION,
	"to":               TO,
	"language":         LANGUAGE,
	"connection_check": CONNECTION_CHECK,
}

// softKeywords is the set of keyword Kinds the parser may treat as plain
// identifiers when they occur in a qualified-path, binds-target, or pattern
// position. Maintained in
// exactly one place, per that design note.
var softKeywords = map[Kind]bool{
	SCOPE: true, ELEMENT: true, CHECK: true, REF: true, CONNECTION_POINT: true,
	USES: true, TEMPLATE: true, IMPLEMENTS: true, BINDS: true, TO: true,
	REQUIRES: true, ALLOWS: true, FORBIDS: true, DESCENDANT: true,
	CONNECTION: true, LANGUAGE: true, CONNECTION_CHECK: true,
}

// IsSoftKeyword reports whether k may be demoted to an identifier in a
// qualified-path or pattern position.
func IsSoftKeyword(k Kind) bool {
	return softKeywords[k]
}

// Token is a single lexed token: its kind, the exact matched text, and its
// source span.
type Token struct {
	Kind Kind
	Text string
	Span span.Span
}
