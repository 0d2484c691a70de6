package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	lx := NewLexer(src, 0)
	toks := lx.TokenizeAll()
	require.False(t, lx.Errors().HasErrors(), "unexpected lex errors: %v", lx.Errors().Errors)
	return toks
}

func TestLexerSkipsCommentsAndWhitespace(t *testing.T) {
	toks := lexAll(t, "  # a comment\nadd")
	require.Len(t, toks, 3) // newline, identifier, EOF
	assert.Equal(t, TokenNewline, toks[0].Kind)
	assert.Equal(t, TokenIdentifier, toks[1].Kind)
	assert.Equal(t, "add", toks[1].Literal)
}

func TestLexerRadixPrefixedIntegers(t *testing.T) {
	toks := lexAll(t, "0x1F 0o17 0b101 42")
	require.Len(t, toks, 5)
	assert.Equal(t, RadixHex, toks[0].Radix)
	assert.Equal(t, "0x1F", toks[0].Literal)
	assert.Equal(t, RadixOctal, toks[1].Radix)
	assert.Equal(t, RadixBinary, toks[2].Radix)
	assert.Equal(t, RadixDecimal, toks[3].Radix)
}

func TestLexerFractionalLiteral(t *testing.T) {
	toks := lexAll(t, "3.14")
	require.Len(t, toks, 2)
	assert.Equal(t, TokenFloat, toks[0].Kind)
	assert.Equal(t, "3.14", toks[0].Literal)
}

func TestLexerRegisterToken(t *testing.T) {
	toks := lexAll(t, "$t0 $f12")
	require.Len(t, toks, 3)
	assert.Equal(t, TokenRegister, toks[0].Kind)
	assert.Equal(t, "$t0", toks[0].Literal)
	assert.Equal(t, "$f12", toks[1].Literal)
}

func TestLexerDirectiveToken(t *testing.T) {
	toks := lexAll(t, ".asciiz")
	require.Len(t, toks, 2)
	assert.Equal(t, TokenDirective, toks[0].Kind)
	assert.Equal(t, "asciiz", toks[0].Literal)
}

func TestLexerStringLiteralPreservesEscapes(t *testing.T) {
	toks := lexAll(t, `"hi\n"`)
	require.Len(t, toks, 2)
	assert.Equal(t, TokenString, toks[0].Kind)
	assert.Equal(t, `hi\n`, toks[0].Literal)
}

func TestLexerCharLiteral(t *testing.T) {
	toks := lexAll(t, `'a' '\n'`)
	require.Len(t, toks, 3)
	assert.Equal(t, "a", toks[0].Literal)
	assert.Equal(t, `\n`, toks[1].Literal)
}

func TestLexerUnterminatedStringReportsError(t *testing.T) {
	lx := NewLexer(`"abc`, 0)
	lx.TokenizeAll()
	require.True(t, lx.Errors().HasErrors())
	assert.Equal(t, ErrUnterminatedString, lx.Errors().Errors[0].Kind)
}

func TestLexerInvalidCharacterReportsErrorAndContinues(t *testing.T) {
	lx := NewLexer("add @ sub", 0)
	toks := lx.TokenizeAll()
	require.True(t, lx.Errors().HasErrors())
	assert.Equal(t, ErrInvalidChar, lx.Errors().Errors[0].Kind)
	// lexing continues past the bad character
	var idents []string
	for _, tok := range toks {
		if tok.Kind == TokenIdentifier {
			idents = append(idents, tok.Literal)
		}
	}
	assert.Equal(t, []string{"add", "sub"}, idents)
}

func TestLexerPunctuation(t *testing.T) {
	toks := lexAll(t, "8($t0),+-:")
	var kinds []TokenKind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []TokenKind{
		TokenInteger, TokenLParen, TokenRegister, TokenRParen,
		TokenComma, TokenPlus, TokenMinus, TokenColon, TokenEOF,
	}, kinds)
}

func TestLexerSpansAreOffsetByBase(t *testing.T) {
	lx := NewLexer("add", 100)
	tok := lx.NextToken()
	assert.Equal(t, uint32(100), tok.Span.Start)
	assert.Equal(t, uint32(3), tok.Span.Len)
}
