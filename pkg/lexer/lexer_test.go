package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kristofer/clox/pkg/lexer"
)

func scanAll(source string) []lexer.Token {
	lx := lexer.New(source)
	var tokens []lexer.Token
	for {
		tok := lx.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == lexer.TokenEOF {
			return tokens
		}
	}
}

func types(tokens []lexer.Token) []lexer.TokenType {
	out := make([]lexer.TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestScanPunctuationAndOperators(t *testing.T) {
	tokens := scanAll("(){};,.-+/*!= == <= >= < >")
	assert.Equal(t, []lexer.TokenType{
		lexer.TokenLeftParen, lexer.TokenRightParen, lexer.TokenLeftBrace, lexer.TokenRightBrace,
		lexer.TokenSemicolon, lexer.TokenComma, lexer.TokenDot, lexer.TokenMinus, lexer.TokenPlus,
		lexer.TokenSlash, lexer.TokenStar, lexer.TokenBangEqual, lexer.TokenEqualEqual,
		lexer.TokenLessEqual, lexer.TokenGreaterEqual, lexer.TokenLess, lexer.TokenGreater,
		lexer.TokenEOF,
	}, types(tokens))
}

func TestScanKeywordsVsIdentifiers(t *testing.T) {
	tokens := scanAll("class fun var myClass myFun")
	require.Len(t, tokens, 6)
	assert.Equal(t, lexer.TokenClass, tokens[0].Type)
	assert.Equal(t, lexer.TokenFun, tokens[1].Type)
	assert.Equal(t, lexer.TokenVar, tokens[2].Type)
	assert.Equal(t, lexer.TokenIdentifier, tokens[3].Type)
	assert.Equal(t, lexer.TokenIdentifier, tokens[4].Type)
}

func TestScanStringLiteral(t *testing.T) {
	tokens := scanAll(`"hello world"`)
	require.Len(t, tokens, 2)
	assert.Equal(t, lexer.TokenString, tokens[0].Type)
	assert.Equal(t, `"hello world"`, tokens[0].Lexeme)
}

func TestScanUnterminatedStringIsAnErrorToken(t *testing.T) {
	tokens := scanAll(`"oops`)
	require.Len(t, tokens, 2)
	assert.Equal(t, lexer.TokenError, tokens[0].Type)
	assert.Contains(t, tokens[0].Lexeme, "Unterminated string")
}

func TestScanNumberLiterals(t *testing.T) {
	tokens := scanAll("123 45.67 8.")
	require.Len(t, tokens, 5)
	assert.Equal(t, "123", tokens[0].Lexeme)
	assert.Equal(t, "45.67", tokens[1].Lexeme)
	// a trailing dot with nothing after it is not part of the number
	assert.Equal(t, "8", tokens[2].Lexeme)
	assert.Equal(t, lexer.TokenDot, tokens[3].Type)
}

func TestScanSkipsLineComments(t *testing.T) {
	tokens := scanAll("1 // a comment\n2")
	require.Len(t, tokens, 3)
	assert.Equal(t, "1", tokens[0].Lexeme)
	assert.Equal(t, "2", tokens[1].Lexeme)
}

func TestScanTracksLineNumbers(t *testing.T) {
	tokens := scanAll("1\n2\n\n3")
	require.Len(t, tokens, 4)
	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, 2, tokens[1].Line)
	assert.Equal(t, 4, tokens[2].Line)
}

func TestScanUnexpectedCharacterIsAnErrorToken(t *testing.T) {
	tokens := scanAll("@")
	require.Len(t, tokens, 2)
	assert.Equal(t, lexer.TokenError, tokens[0].Type)
}

func TestScanUTF8IdentifierBytesPassThrough(t *testing.T) {
	tokens := scanAll("var café = 1;")
	require.Len(t, tokens, 6)
	assert.Equal(t, lexer.TokenIdentifier, tokens[1].Type)
	assert.Equal(t, "café", tokens[1].Lexeme)
}
