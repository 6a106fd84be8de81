package asm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zip-lang/zip/internal/ascii"
)

func TestDisassembleColorsAndResolvesNames(t *testing.T) {
	p := New()
	_, err := p.DefineClause("parent", []Term{Atom("tom"), Atom("bob")}, nil, 0)
	require.NoError(t, err)

	out := p.Disassemble()

	assert.Contains(t, out, ascii.DefaultTheme.Muted, "instruction addresses should use the disassembler's muted color")
	assert.Contains(t, out, ascii.DefaultTheme.Operator, "opcodes should use the disassembler's operator color")
	assert.Contains(t, out, ascii.DefaultTheme.Operand, "operands should use the disassembler's operand color")
	assert.Contains(t, out, "tom")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, ascii.Reset)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.NotEmpty(t, lines)
}
