package zip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetFrame(t *testing.T) {
	t.Run("allocate then deallocate frees the local top", func(t *testing.T) {
		m, _ := newTestMachine()
		before := m.localTop()

		base := m.pushTargetFrame()
		assert.Equal(t, before, base)
		assert.Equal(t, base, m.TF)

		m.popTargetFrame()
		assert.Equal(t, NoFrame, m.TF)
		assert.Equal(t, before, m.localTop())
	})

	t.Run("lazily grows local cells as self-referential REFs", func(t *testing.T) {
		m, _ := newTestMachine()
		base := m.pushTargetFrame()

		require.NoError(t, m.ensureLocalCell(base+2))
		w, err := m.ReadWord(base + 2)
		require.NoError(t, err)
		assert.Equal(t, TagRef, w.Tag())
		assert.Equal(t, base+2, w.Payload())
	})
}

func TestSourceFrame(t *testing.T) {
	t.Run("finalizing clears TF and sets SF", func(t *testing.T) {
		m, _ := newTestMachine()
		m.pushTargetFrame()

		require.NoError(t, m.pushSourceFrame(2, 99))
		assert.Equal(t, NoFrame, m.TF)
		assert.NotEqual(t, NoFrame, m.SF)
	})

	t.Run("popping the query frame leaves its bindings readable", func(t *testing.T) {
		m, _ := newTestMachine()
		m.pushTargetFrame()
		require.NoError(t, m.pushSourceFrame(1, 0))
		queryFrame := m.SF

		done, err := m.popSourceFrame()
		require.NoError(t, err)
		assert.True(t, done)
		assert.Equal(t, queryFrame, m.SF)

		_, _, err = m.ReadBinding(queryFrame, 0)
		assert.NoError(t, err)
	})

	t.Run("popping a nested frame returns to its continuation", func(t *testing.T) {
		m, _ := newTestMachine()
		m.pushTargetFrame()
		require.NoError(t, m.pushSourceFrame(0, 0))
		outer := m.SF

		m.pushTargetFrame()
		require.NoError(t, m.pushSourceFrame(0, 42))

		done, err := m.popSourceFrame()
		require.NoError(t, err)
		assert.False(t, done)
		assert.Equal(t, outer, m.SF)
		assert.Equal(t, 42, m.PC)
	})
}

func TestChoicePoint(t *testing.T) {
	t.Run("promotes the target frame and links the previous CP", func(t *testing.T) {
		m, _ := newTestMachine()
		m.pushTargetFrame()
		first := m.TF

		require.NoError(t, m.pushChoicePoint(0))
		assert.Equal(t, first, m.CP)
		assert.NotNil(t, m.records[first].cp)
		assert.Equal(t, NoFrame, m.records[first].cp.previousCP)
	})
}
