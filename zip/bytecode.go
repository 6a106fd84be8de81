package zip

// BytecodeProvider is the external collaborator that owns code memory
// and the constant pool. The core only ever reads through this
// interface; appending code and interning symbols is the query
// compiler's job (out of scope here -- see zip/asm for a reference,
// test-only implementation).
type BytecodeProvider interface {
	CodeSize() int
	ReadCode(addr int) (Word, error)
	Constant(idx int) (Symbol, error)

	// AppendCode is used only by the query compiler to append the
	// compiled query at a known address.
	AppendCode(w Word) (int, error)

	// CreateMemento snapshots the current code segment and
	// constant-pool size so they can be rolled back after a query
	// finishes, per spec.md §6.
	CreateMemento() Memento
	RestoreMemento(m Memento)
}

// Memento is an opaque snapshot of a BytecodeProvider's code segment
// length and constant-pool size, used to roll back the query-time
// additions a REPL turn makes to the program.
type Memento struct {
	codeSize     int
	constantSize int
}

// NewMemento constructs a Memento from a provider's own code and
// constant-pool sizes; only a BytecodeProvider implementation should
// call this.
func NewMemento(codeSize, constantSize int) Memento {
	return Memento{codeSize: codeSize, constantSize: constantSize}
}

// Sizes returns the snapshotted code segment length and constant-pool
// size.
func (m Memento) Sizes() (int, int) {
	return m.codeSize, m.constantSize
}
