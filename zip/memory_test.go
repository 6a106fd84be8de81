package zip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegion(t *testing.T) {
	t.Run("push then read", func(t *testing.T) {
		r := newRegion("global", 4)
		addr, err := r.Push(NewWord(TagCon, 1))
		require.NoError(t, err)
		assert.Equal(t, 0, addr)

		w, err := r.Read(addr)
		require.NoError(t, err)
		assert.Equal(t, TagCon, w.Tag())
	})

	t.Run("exhaustion is fatal, not silent growth", func(t *testing.T) {
		r := newRegion("trail", 1)
		_, err := r.Push(0)
		require.NoError(t, err)
		_, err = r.Push(0)
		assert.IsType(t, ResourceExhaustionError{}, err)
	})

	t.Run("read past top is out of bounds", func(t *testing.T) {
		r := newRegion("local", 4)
		_, err := r.Read(0)
		assert.IsType(t, OutOfBoundsError{}, err)
	})

	t.Run("truncate then grow reuses freed addresses", func(t *testing.T) {
		r := newRegion("local", 4)
		_, err := r.Grow(3)
		require.NoError(t, err)
		r.Truncate(1)
		addr, err := r.Grow(1)
		require.NoError(t, err)
		assert.Equal(t, 1, addr)
	})
}

func TestAddressSpace(t *testing.T) {
	t.Run("local addresses are always greater than any global one", func(t *testing.T) {
		assert.True(t, isLocalAddr(localBase))
		assert.False(t, isLocalAddr(localBase-1))
	})

	t.Run("local index conversion round-trips", func(t *testing.T) {
		assert.Equal(t, 5, toLocalIndex(fromLocalIndex(5)))
	})
}

func TestScratchpad(t *testing.T) {
	t.Run("is a LIFO work list", func(t *testing.T) {
		var s scratchpad
		s.push(1, 2)
		s.push(3, 4)

		item, ok := s.pop()
		require.True(t, ok)
		assert.Equal(t, scratchItem{3, 4}, item)

		item, ok = s.pop()
		require.True(t, ok)
		assert.Equal(t, scratchItem{1, 2}, item)

		_, ok = s.pop()
		assert.False(t, ok)
	})
}
