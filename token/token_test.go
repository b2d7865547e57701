package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_Instruction(t *testing.T) {
	toks, err := Tokenize("MOV AX, 5 ; comment\n", "t.asm")
	require.NoError(t, err)

	var types []Type
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []Type{Identifier, Identifier, Comma, Number, Newline, EOF}, types)
}

func TestTokenize_Label(t *testing.T) {
	toks, err := Tokenize("loop:\n", "t.asm")
	require.NoError(t, err)
	assert.Equal(t, Identifier, toks[0].Type)
	assert.Equal(t, "loop", toks[0].Literal)
	assert.Equal(t, Colon, toks[1].Type)
}

func TestTokenize_AddressExpression(t *testing.T) {
	toks, err := Tokenize("LOADR AX, [BX+4]\n", "t.asm")
	require.NoError(t, err)
	var types []Type
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.Contains(t, types, LBracket)
	assert.Contains(t, types, Plus)
	assert.Contains(t, types, RBracket)
}

func TestTokenize_HexAndBinaryNumbers(t *testing.T) {
	toks, err := Tokenize("0x1A 0b101 42\n", "t.asm")
	require.NoError(t, err)
	assert.Equal(t, "0x1A", toks[0].Literal)
	assert.Equal(t, "0b101", toks[1].Literal)
	assert.Equal(t, "42", toks[2].Literal)
}

func TestTokenize_String(t *testing.T) {
	toks, err := Tokenize(`"hello\nworld"` + "\n", "t.asm")
	require.NoError(t, err)
	assert.Equal(t, String, toks[0].Type)
	assert.Equal(t, `hello\nworld`, toks[0].Literal)
}

func TestTokenize_UnterminatedString(t *testing.T) {
	_, err := Tokenize(`"oops`, "t.asm")
	require.Error(t, err)
}

func TestTokenize_CharLiteral(t *testing.T) {
	toks, err := Tokenize(`MOV AL, 'A'` + "\n", "t.asm")
	require.NoError(t, err)
	var lit Token
	for _, tok := range toks {
		if tok.Type == Char {
			lit = tok
		}
	}
	assert.Equal(t, Char, lit.Type)
	assert.Equal(t, "A", lit.Literal)
}

func TestTokenize_CharLiteral_Escape(t *testing.T) {
	toks, err := Tokenize(`'\n'`+"\n", "t.asm")
	require.NoError(t, err)
	assert.Equal(t, Char, toks[0].Type)
	assert.Equal(t, `\n`, toks[0].Literal)
}

func TestTokenize_CharLiteral_Unterminated(t *testing.T) {
	_, err := Tokenize(`'ab`, "t.asm")
	require.Error(t, err)
}

func TestTokenize_DottedLocalLabel(t *testing.T) {
	toks, err := Tokenize(".loop1:\n", "t.asm")
	require.NoError(t, err)
	assert.Equal(t, Identifier, toks[0].Type)
	assert.Equal(t, ".loop1", toks[0].Literal)
}

func TestTokenize_CommentsDropped(t *testing.T) {
	toks, err := Tokenize("; just a comment\n", "t.asm")
	require.NoError(t, err)
	assert.Equal(t, Newline, toks[0].Type)
}
