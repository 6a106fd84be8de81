package zip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider is the smallest possible BytecodeProvider for exercising
// the core in isolation, without pulling in the asm package (which
// itself depends on this one).
type fakeProvider struct {
	code      []Word
	constants []Symbol
}

func (p *fakeProvider) CodeSize() int { return len(p.code) }
func (p *fakeProvider) ReadCode(addr int) (Word, error) {
	if addr < 0 || addr >= len(p.code) {
		return 0, OutOfBoundsError{Region: "code", Addr: addr, Top: len(p.code)}
	}
	return p.code[addr], nil
}
func (p *fakeProvider) Constant(idx int) (Symbol, error) {
	if idx < 0 || idx >= len(p.constants) {
		return Symbol{}, OutOfBoundsError{Region: "constants", Addr: idx, Top: len(p.constants)}
	}
	return p.constants[idx], nil
}
func (p *fakeProvider) AppendCode(w Word) (int, error) {
	p.code = append(p.code, w)
	return len(p.code) - 1, nil
}
func (p *fakeProvider) CreateMemento() Memento { return NewMemento(len(p.code), len(p.constants)) }
func (p *fakeProvider) RestoreMemento(m Memento) {
	codeSize, constSize := m.Sizes()
	p.code = p.code[:codeSize]
	p.constants = p.constants[:constSize]
}
func (p *fakeProvider) internFunctor(name string, arity int) int {
	idx := len(p.constants)
	p.constants = append(p.constants, Symbol{Kind: SymFunctor, Functor: FunctorSymbol{Name: name, Arity: arity}})
	return idx
}

func newTestMachine() (*Machine, *fakeProvider) {
	p := &fakeProvider{}
	m := NewMachine(p, Config{GlobalCapacity: 64, LocalCapacity: 64, TrailCapacity: 64})
	m.Reset(0)
	return m, p
}

func TestDeref(t *testing.T) {
	t.Run("unbound variable derefs to itself", func(t *testing.T) {
		m, _ := newTestMachine()
		addr, err := m.PushGlobal(NewWord(TagRef, 0))
		require.NoError(t, err)

		d, w, err := m.Deref(addr)
		require.NoError(t, err)
		assert.Equal(t, addr, d)
		assert.Equal(t, TagRef, w.Tag())
	})

	t.Run("follows a chain to its end", func(t *testing.T) {
		m, p := newTestMachine()
		atomIdx := p.internFunctor("a", 0)
		v1, _ := m.PushGlobal(NewWord(TagRef, 0))
		_ = v1
		con, err := m.PushGlobal(NewWord(TagCon, atomIdx))
		require.NoError(t, err)

		require.NoError(t, m.WriteWord(v1, NewWord(TagRef, con)))

		d, w, err := m.Deref(v1)
		require.NoError(t, err)
		assert.Equal(t, con, d)
		assert.Equal(t, TagCon, w.Tag())
	})
}

func TestBindDirection(t *testing.T) {
	t.Run("binds the younger variable to the older one", func(t *testing.T) {
		m, _ := newTestMachine()
		older, err := m.PushGlobal(0)
		require.NoError(t, err)
		require.NoError(t, m.WriteWord(older, NewWord(TagRef, older)))
		younger, err := m.PushGlobal(0)
		require.NoError(t, err)
		require.NoError(t, m.WriteWord(younger, NewWord(TagRef, younger)))

		bound, err := m.Bind(older, younger)
		require.NoError(t, err)
		assert.Equal(t, younger, bound)

		w, err := m.ReadWord(younger)
		require.NoError(t, err)
		assert.Equal(t, older, w.Payload())
	})
}

func TestUnifiable(t *testing.T) {
	t.Run("two unbound variables unify and stay linked", func(t *testing.T) {
		m, _ := newTestMachine()
		a, _ := m.PushGlobal(0)
		m.WriteWord(a, NewWord(TagRef, a))
		b, _ := m.PushGlobal(0)
		m.WriteWord(b, NewWord(TagRef, b))

		_, ok, err := m.Unifiable(a, b)
		require.NoError(t, err)
		assert.True(t, ok)

		da, _, _ := m.Deref(a)
		db, _, _ := m.Deref(b)
		assert.Equal(t, da, db)
	})

	t.Run("atoms of the same constant unify", func(t *testing.T) {
		m, p := newTestMachine()
		idx := p.internFunctor("a", 0)
		a, _ := m.PushGlobal(NewWord(TagCon, idx))
		b, _ := m.PushGlobal(NewWord(TagCon, idx))

		_, ok, err := m.Unifiable(a, b)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("distinct atoms fail", func(t *testing.T) {
		m, p := newTestMachine()
		idxA := p.internFunctor("a", 0)
		idxB := p.internFunctor("b", 0)
		a, _ := m.PushGlobal(NewWord(TagCon, idxA))
		b, _ := m.PushGlobal(NewWord(TagCon, idxB))

		_, ok, err := m.Unifiable(a, b)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("is symmetric", func(t *testing.T) {
		m1, p1 := newTestMachine()
		idx1 := p1.internFunctor("a", 0)
		v1, _ := m1.PushGlobal(0)
		m1.WriteWord(v1, NewWord(TagRef, v1))
		c1, _ := m1.PushGlobal(NewWord(TagCon, idx1))
		_, ok1, err := m1.Unifiable(v1, c1)
		require.NoError(t, err)

		m2, p2 := newTestMachine()
		idx2 := p2.internFunctor("a", 0)
		v2, _ := m2.PushGlobal(0)
		m2.WriteWord(v2, NewWord(TagRef, v2))
		c2, _ := m2.PushGlobal(NewWord(TagCon, idx2))
		_, ok2, err := m2.Unifiable(c2, v2)
		require.NoError(t, err)

		assert.Equal(t, ok1, ok2)
	})

	t.Run("self-binding through a compound does not loop", func(t *testing.T) {
		m, p := newTestMachine()
		fIdx := p.internFunctor("f", 1)

		x, _ := m.PushGlobal(0)
		m.WriteWord(x, NewWord(TagRef, x))

		funAddr, err := m.buildCompoundSkeleton(fIdx, 1)
		require.NoError(t, err)
		require.NoError(t, m.WriteWord(funAddr+1, NewWord(TagRef, x)))

		strAddr, err := m.PushGlobal(NewWord(TagStr, funAddr))
		require.NoError(t, err)

		_, ok, err := m.Unifiable(x, strAddr)
		require.NoError(t, err)
		assert.True(t, ok)

		d, w, err := m.Deref(x)
		require.NoError(t, err)
		assert.Equal(t, TagStr, w.Tag())
		assert.Equal(t, funAddr, w.Payload())
		_ = d
	})
}
