package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ercasta/hielements/lexer"
)

func kinds(tokens []lexer.Token) []lexer.Kind {
	out := make([]lexer.Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizeIndentDedent(t *testing.T) {
	t.Parallel()

	source := "element foo:\n  scope root\nelement bar:\n  scope root\n"
	toks := lexer.Tokenize(source)

	require.NotEmpty(t, toks)
	assert.Equal(t, lexer.EOF, toks[len(toks)-1].Kind)

	got := kinds(toks)
	want := []lexer.Kind{
		lexer.ELEMENT, lexer.IDENT, lexer.COLON, lexer.NEWLINE,
		lexer.INDENT, lexer.SCOPE, lexer.IDENT, lexer.NEWLINE,
		lexer.DEDENT, lexer.ELEMENT, lexer.IDENT, lexer.COLON, lexer.NEWLINE,
		lexer.INDENT, lexer.SCOPE, lexer.IDENT, lexer.NEWLINE,
		lexer.DEDENT, lexer.EOF,
	}
	assert.Equal(t, want, got)
}

func TestTokenizeBlankLineDoesNotAffectIndent(t *testing.T) {
	t.Parallel()

	source := "element foo:\n  scope root\n\n  scope root2\n"
	toks := lexer.Tokenize(source)
	got := kinds(toks)

	// Only one INDENT for the whole nested block, and the blank line in the
	// middle produces no spurious INDENT/DEDENT pair.
	indentCount := 0
	dedentCount := 0
	for _, k := range got {
		if k == lexer.INDENT {
			indentCount++
		}
		if k == lexer.DEDENT {
			dedentCount++
		}
	}
	assert.Equal(t, 1, indentCount)
	assert.Equal(t, 1, dedentCount)
}

func TestTokenizeDocComment(t *testing.T) {
	t.Parallel()

	source := "## this is a doc comment\nelement foo:\n  scope root\n"
	toks := lexer.Tokenize(source)
	require.NotEmpty(t, toks)
	assert.Equal(t, lexer.DOC_COMMENT, toks[0].Kind)
	assert.Equal(t, "## this is a doc comment", toks[0].Text)
}

func TestTokenizeMultilineCommentIsDropped(t *testing.T) {
	t.Parallel()

	source := "### dropped\nentirely ###\nelement foo:\n  scope root\n"
	toks := lexer.Tokenize(source)
	got := kinds(toks)
	// The comment itself yields no token; only the newline that ends its
	// last line does.
	require.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, []lexer.Kind{lexer.NEWLINE, lexer.ELEMENT}, got[:2])
}

func TestTokenizeStringLiteral(t *testing.T) {
	t.Parallel()

	toks := lexer.Tokenize(`scope root = files.folder_selector('src')`)
	var strs []string
	for _, tok := range toks {
		if tok.Kind == lexer.STRING {
			strs = append(strs, tok.Text)
		}
	}
	require.Len(t, strs, 1)
	assert.Equal(t, "'src'", strs[0])
}

func TestTokenizeNumber(t *testing.T) {
	t.Parallel()

	toks := lexer.Tokenize("check files.max_size(root, 10.5)")
	var nums []string
	for _, tok := range toks {
		if tok.Kind == lexer.NUMBER {
			nums = append(nums, tok.Text)
		}
	}
	require.Len(t, nums, 1)
	assert.Equal(t, "10.5", nums[0])
}

func TestKeywordsAreSoftWherePermitted(t *testing.T) {
	t.Parallel()

	assert.True(t, lexer.IsSoftKeyword(lexer.SCOPE))
	assert.True(t, lexer.IsSoftKeyword(lexer.BINDS))
	assert.False(t, lexer.IsSoftKeyword(lexer.IDENT))
}

func TestKindStringFallsBackToQuestionMark(t *testing.T) {
	t.Parallel()
	var unknown lexer.Kind = 9999
	assert.Equal(t, "?", unknown.String())
	assert.Equal(t, "element", lexer.ELEMENT.String())
}
