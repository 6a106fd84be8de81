// Package asm is a reference bytecode provider: it assembles clauses
// and queries into a zip.Machine-compatible code segment and constant
// pool directly, in place of the parser/compiler collaborator spec.md
// leaves out of scope. It exists for tests and the REPL, not as a
// production compiler.
package asm

import "github.com/zip-lang/zip/zip"

// Program is an in-memory zip.BytecodeProvider: a flat code segment
// and a constant pool, both append-only except for the memento
// rollback CreateMemento/RestoreMemento provide.
type Program struct {
	code      []zip.Word
	constants []zip.Symbol

	functors   map[functorKey]int
	predicates map[functorKey]int
	queryCount int
}

type functorKey struct {
	name  string
	arity int
}

// New returns an empty program.
func New() *Program {
	return &Program{
		functors:   make(map[functorKey]int),
		predicates: make(map[functorKey]int),
	}
}

func (p *Program) CodeSize() int { return len(p.code) }

func (p *Program) ReadCode(addr int) (zip.Word, error) {
	if addr < 0 || addr >= len(p.code) {
		return 0, zip.OutOfBoundsError{Region: "code", Addr: addr, Top: len(p.code)}
	}
	return p.code[addr], nil
}

func (p *Program) Constant(idx int) (zip.Symbol, error) {
	if idx < 0 || idx >= len(p.constants) {
		return zip.Symbol{}, zip.OutOfBoundsError{Region: "constants", Addr: idx, Top: len(p.constants)}
	}
	return p.constants[idx], nil
}

func (p *Program) AppendCode(w zip.Word) (int, error) {
	addr := len(p.code)
	p.code = append(p.code, w)
	return addr, nil
}

// CreateMemento snapshots the current code and constant-pool sizes.
func (p *Program) CreateMemento() zip.Memento {
	return zip.NewMemento(len(p.code), len(p.constants))
}

// RestoreMemento truncates code and the constant pool back to a
// previously observed size, discarding whatever a query compiled on
// top of a program's standing clauses.
func (p *Program) RestoreMemento(m zip.Memento) {
	codeSize, constantSize := m.Sizes()
	p.code = p.code[:codeSize]
	p.constants = p.constants[:constantSize]
	for k, idx := range p.functors {
		if idx >= constantSize {
			delete(p.functors, k)
		}
	}
	for k, idx := range p.predicates {
		if idx >= constantSize {
			delete(p.predicates, k)
		}
	}
}

// internFunctor returns the constant-pool index of the FunctorSymbol
// named name/arity, creating it if this is the first occurrence.
func (p *Program) internFunctor(name string, arity int) int {
	key := functorKey{name, arity}
	if idx, ok := p.functors[key]; ok {
		return idx
	}
	idx := len(p.constants)
	p.constants = append(p.constants, zip.Symbol{
		Kind:    zip.SymFunctor,
		Functor: zip.FunctorSymbol{Name: name, Arity: arity},
	})
	p.functors[key] = idx
	return idx
}

// internPredicate returns the constant-pool index of the
// PredicateSymbol named name/arity, creating it (with no clauses yet)
// if this is the first occurrence.
func (p *Program) internPredicate(name string, arity int) int {
	key := functorKey{name, arity}
	if idx, ok := p.predicates[key]; ok {
		return idx
	}
	idx := len(p.constants)
	p.constants = append(p.constants, zip.Symbol{
		Kind:      zip.SymPredicate,
		Predicate: zip.PredicateSymbol{Name: name, Arity: arity, FirstClause: zip.NoClause},
	})
	p.predicates[key] = idx
	return idx
}

// reserveClauseSlot interns name/arity's predicate and appends a
// placeholder ClauseSymbol for a new alternative, linking it after any
// existing clauses. Every clause's code begins with its own
// try/retry/trust prologue naming its own constant-pool index, so the
// index must exist before that clause's code is assembled -- hence
// reserving the slot before the caller knows the clause's entry
// address, and filling the rest in with finalizeClause once it does.
//
// Linking a clause after a previous last alternative also patches
// that previous clause's prologue instruction in place, from trust to
// try, since it no longer is the final alternative. try and retry
// behave identically in this machine (there is no separate choice-
// point stack entry for retry to update in place), so every non-final
// clause uses try; only the final alternative is ever compiled or
// patched to trust.
func (p *Program) reserveClauseSlot(name string, arity int) int {
	predIdx := p.internPredicate(name, arity)
	clauseIdx := len(p.constants)
	p.constants = append(p.constants, zip.Symbol{
		Kind:   zip.SymClause,
		Clause: zip.ClauseSymbol{NextClause: zip.NoClause},
	})

	predSym := p.constants[predIdx]
	if predSym.Predicate.FirstClause == zip.NoClause {
		predSym.Predicate.FirstClause = clauseIdx
		p.constants[predIdx] = predSym
		return clauseIdx
	}

	last := predSym.Predicate.FirstClause
	for {
		sym := p.constants[last]
		if sym.Clause.NextClause == zip.NoClause {
			sym.Clause.NextClause = clauseIdx
			p.constants[last] = sym
			p.code[sym.Clause.EntryAddr] = zip.EncodeOperator(zip.OpTryClause, 0)
			return clauseIdx
		}
		last = sym.Clause.NextClause
	}
}

// finalizeClause fills in a clause reserved by reserveClauseSlot once
// its code has been assembled and its entry address is known.
func (p *Program) finalizeClause(idx, entryAddr, numParams, numLocals int) {
	sym := p.constants[idx]
	sym.Clause.EntryAddr = entryAddr
	sym.Clause.NumParams = numParams
	sym.Clause.NumLocals = numLocals
	p.constants[idx] = sym
}
