package zip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWord(t *testing.T) {
	t.Run("round-trips tag and payload", func(t *testing.T) {
		w := NewWord(TagStr, 42)
		assert.Equal(t, TagStr, w.Tag())
		assert.Equal(t, 42, w.Payload())
	})

	t.Run("zero payload", func(t *testing.T) {
		w := NewWord(TagRef, 0)
		assert.Equal(t, TagRef, w.Tag())
		assert.Equal(t, 0, w.Payload())
	})

	t.Run("every tag survives", func(t *testing.T) {
		for _, tag := range []Tag{TagRef, TagStr, TagFun, TagCon} {
			w := NewWord(tag, 7)
			assert.Equal(t, tag, w.Tag())
			assert.Equal(t, 7, w.Payload())
		}
	})

	t.Run("panics on negative payload", func(t *testing.T) {
		assert.Panics(t, func() { NewWord(TagRef, -1) })
	})
}

func TestOperatorEncoding(t *testing.T) {
	t.Run("round-trips opcode and mode", func(t *testing.T) {
		for _, mode := range []Mode{ModeArg, ModeCopy, ModeMatch} {
			w := EncodeOperator(OpFunctor, mode)
			op, m := decodeOperator(w)
			assert.Equal(t, OpFunctor, op)
			assert.Equal(t, mode, m)
		}
	})
}
