package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()

	lex := New([]byte(src))

	var toks []Token

	for {
		tok, err := lex.Next()
		require.NoError(t, err)

		if tok.Kind == EOF {
			return toks
		}

		toks = append(toks, tok)
	}
}

func TestIdentifier(t *testing.T) {
	require.Equal(t, []Token{{Kind: Identifier, Val: "foo"}}, lexAll(t, "foo"))
}

func TestIdentifierWithNumber(t *testing.T) {
	require.Equal(t, []Token{{Kind: Identifier, Val: "foo1"}}, lexAll(t, "foo1"))
}

func TestIdentifierFollowedBySymbol(t *testing.T) {
	require.Equal(t, []Token{
		{Kind: Identifier, Val: "foo"},
		{Kind: SemiColon},
	}, lexAll(t, "foo;"))
}

func TestIdentifierCaseNormalized(t *testing.T) {
	require.Equal(t, []Token{
		{Kind: Begin},
		{Kind: Identifier, Val: "foo"},
		{Kind: End},
	}, lexAll(t, "BEGIN Foo END"))
}

func TestNumber(t *testing.T) {
	require.Equal(t, []Token{{Kind: Number, Val: "123"}}, lexAll(t, "123"))
}

func TestString(t *testing.T) {
	require.Equal(t, []Token{{Kind: String, Val: "foo"}}, lexAll(t, "'foo'"))
}

func TestSymbols(t *testing.T) {
	require.Equal(t, []Token{
		{Kind: Period},
		{Kind: SemiColon},
		{Kind: OpenParen},
		{Kind: CloseParen},
	}, lexAll(t, ".;()"))
}

func TestCompoundSymbols(t *testing.T) {
	require.Equal(t, []Token{
		{Kind: LessThanEqual},
		{Kind: GreaterThanEqual},
		{Kind: NotEqual},
	}, lexAll(t, "<=>=<>"))
}

func TestMixedSymbols(t *testing.T) {
	require.Equal(t, []Token{
		{Kind: LessThan},
		{Kind: SemiColon},
		{Kind: LessThanEqual},
		{Kind: LessThan},
		{Kind: OpenParen},
	}, lexAll(t, "<;<=<("))
}

func TestAssignAndRange(t *testing.T) {
	require.Equal(t, []Token{
		{Kind: Assign},
		{Kind: DoublePeriod},
		{Kind: Colon},
		{Kind: Period},
	}, lexAll(t, ":= .. : ."))
}

func TestKeywords(t *testing.T) {
	require.Equal(t, []Token{
		{Kind: If},
		{Kind: Identifier, Val: "foo"},
		{Kind: Begin},
		{Kind: End},
		{Kind: Identifier, Val: "beginning"},
	}, lexAll(t, "if foo begin end beginning"))
}

func TestEOFRepeats(t *testing.T) {
	lex := New([]byte("foo"))

	_, err := lex.Next()
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		tok, err := lex.Next()
		require.NoError(t, err)
		require.Equal(t, EOF, tok.Kind)
	}
}

func TestUnknownSymbol(t *testing.T) {
	lex := New([]byte("?"))

	_, err := lex.Next()
	require.Error(t, err)

	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
	require.Equal(t, "Unknown symbol", lexErr.Msg)
}

func TestMismatchedQuotes(t *testing.T) {
	lex := New([]byte("'foo"))

	_, err := lex.Next()
	require.Error(t, err)

	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
	require.Equal(t, "Mismatched quotes", lexErr.Msg)
}
