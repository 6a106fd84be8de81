package asm

import "github.com/zip-lang/zip/zip"

// Term describes a clause argument or query goal argument pattern: a
// reference to a local variable slot, an atom, or a compound term
// built from further Terms.
type Term struct {
	kind     termKind
	varIndex int
	name     string
	args     []Term
}

type termKind uint8

const (
	kindVar termKind = iota
	kindAtom
	kindCompound
)

// Var names a local variable slot, shared across every Term in the
// same clause head/body or the same query.
func Var(index int) Term { return Term{kind: kindVar, varIndex: index} }

// Atom is a zero-arity functor.
func Atom(name string) Term { return Term{kind: kindAtom, name: name} }

// Compound builds a functor application.
func Compound(name string, args ...Term) Term {
	return Term{kind: kindCompound, name: name, args: args}
}

// Goal is one call in a clause body or a query: a predicate name
// applied to argument patterns.
type Goal struct {
	Pred string
	Args []Term
}

// Call constructs a Goal.
func Call(pred string, args ...Term) Goal {
	return Goal{Pred: pred, Args: args}
}

// DefineClause compiles one fact (body == nil) or rule for pred/
// len(headArgs), matching parameter i against headArgs[i] and then
// running body left to right. Parameters occupy slots
// 0..len(headArgs)-1; numLocals is the count of additional slots used
// by Var references in headArgs/body for the clause's own temporary
// variables, numbered starting at len(headArgs).
func (p *Program) DefineClause(pred string, headArgs []Term, body []Goal, numLocals int) (int, error) {
	clauseIdx := p.reserveClauseSlot(pred, len(headArgs))

	entryAddr := p.CodeSize()
	var code []zip.Word
	code = append(code, zip.EncodeOperator(zip.OpTrustClause, 0), zip.Word(clauseIdx))
	for i, t := range headArgs {
		code = appendParam(p, code, i, zip.ModeMatch, t)
	}
	for _, g := range body {
		code = appendCall(p, code, g)
	}
	code = append(code, zip.EncodeOperator(zip.OpProceed, 0))

	if err := p.appendAll(code); err != nil {
		return 0, err
	}
	p.finalizeClause(clauseIdx, entryAddr, len(headArgs), numLocals)
	return clauseIdx, nil
}

// querySeqNames disambiguates successive queries compiled into the
// same program so each gets its own synthetic zero-arity predicate
// instead of being chained as alternatives of a shared one. The names
// repeat after ten queries; a query that reuses a name is linked as a
// further alternative of the earlier query's predicate.
var querySeqNames = []string{
	"$query", "$query2", "$query3", "$query4", "$query5",
	"$query6", "$query7", "$query8", "$query9", "$query10",
}

// CompileQuery compiles goals as a top-level query with numVars local
// slots for its own free variables, wrapped as a synthetic clause of
// a fresh predicate so the ordinary call/proceed/backtrack machinery
// needs no special case for the outermost frame. It returns the
// address to pass to Machine.Reset; after a successful Run, the
// query's variables are indices 0..numVars-1 of the returned
// Solution's QueryFrame.
func (p *Program) CompileQuery(goals []Goal, numVars int) (int, error) {
	name := querySeqNames[p.queryCount%len(querySeqNames)]
	p.queryCount++
	clauseIdx := p.reserveClauseSlot(name, 0)

	queryAddr := p.CodeSize()
	if _, err := p.AppendCode(zip.EncodeOperator(zip.OpAllocateTarget, 0)); err != nil {
		return 0, err
	}
	if _, err := p.AppendCode(zip.EncodeOperator(zip.OpTrustClause, 0)); err != nil {
		return 0, err
	}
	if _, err := p.AppendCode(zip.Word(clauseIdx)); err != nil {
		return 0, err
	}

	entryAddr := p.CodeSize()
	var code []zip.Word
	for _, g := range goals {
		code = appendCall(p, code, g)
	}
	code = append(code, zip.EncodeOperator(zip.OpHalt, 0))
	if err := p.appendAll(code); err != nil {
		return 0, err
	}

	p.finalizeClause(clauseIdx, entryAddr, 0, numVars)
	return queryAddr, nil
}

func (p *Program) appendAll(code []zip.Word) error {
	for _, w := range code {
		if _, err := p.AppendCode(w); err != nil {
			return err
		}
	}
	return nil
}

// appendParam emits the top-level instruction that matches (or, in a
// query's argument-building context, builds) parameter index against
// pattern t.
func appendParam(p *Program, code []zip.Word, index int, mode zip.Mode, t Term) []zip.Word {
	switch t.kind {
	case kindVar:
		return append(code, zip.EncodeOperator(zip.OpVar, mode), zip.Word(index), zip.Word(t.varIndex))
	case kindAtom:
		constIdx := p.internFunctor(t.name, 0)
		return append(code, zip.EncodeOperator(zip.OpConst, mode), zip.Word(index), zip.Word(constIdx))
	case kindCompound:
		symIdx := p.internFunctor(t.name, len(t.args))
		code = append(code, zip.EncodeOperator(zip.OpFunctor, mode), zip.Word(index), zip.Word(symIdx))
		for _, a := range t.args {
			code = appendInline(p, code, a)
		}
		return code
	}
	return code
}

// appendInline emits the nested, mode-free term encoding consumed by
// Machine.unifyTermAt: a functor argument, or a call's own argument
// value.
func appendInline(p *Program, code []zip.Word, t Term) []zip.Word {
	switch t.kind {
	case kindVar:
		return append(code, zip.Word(zip.OpVar), zip.Word(t.varIndex))
	case kindAtom:
		constIdx := p.internFunctor(t.name, 0)
		return append(code, zip.Word(zip.OpConst), zip.Word(constIdx))
	case kindCompound:
		symIdx := p.internFunctor(t.name, len(t.args))
		code = append(code, zip.Word(zip.OpFunctor), zip.Word(symIdx))
		for _, a := range t.args {
			code = appendInline(p, code, a)
		}
		return code
	}
	return code
}

// appendCall emits one body/query goal: allocate a target frame,
// build each argument into it, then call the predicate.
func appendCall(p *Program, code []zip.Word, g Goal) []zip.Word {
	code = append(code, zip.EncodeOperator(zip.OpAllocateTarget, 0))
	for i, a := range g.Args {
		code = append(code, zip.EncodeOperator(zip.OpSetArg, zip.ModeCopy), zip.Word(i))
		code = appendInline(p, code, a)
	}
	predIdx := p.internPredicate(g.Pred, len(g.Args))
	return append(code, zip.EncodeOperator(zip.OpCall, 0), zip.Word(predIdx))
}
