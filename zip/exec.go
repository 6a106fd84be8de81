package zip

// Solution is the outcome of running a query to a success: the source
// frame whose parameter cells hold the query's variable bindings,
// readable with ReadBinding. Backtrack searches for the next one.
type Solution struct {
	QueryFrame int
}

// status is the result of executing one instruction.
type status uint8

const (
	statusRunning status = iota
	statusSucceeded
	statusFailed
	statusHalted
)

// Run executes instructions starting from the machine's current PC
// until the query succeeds, exhausts every choice point, or hits a
// fatal error. A successful return means a solution is available;
// call Backtrack to search for the next one, ReadBinding to inspect
// the one just found.
func (m *Machine) Run() (Solution, error) {
	for {
		st, err := m.step()
		if err != nil {
			return Solution{}, err
		}
		switch st {
		case statusSucceeded, statusHalted:
			return Solution{QueryFrame: m.SF}, nil
		case statusFailed:
			if _, err := m.Backtrack(); err != nil {
				return Solution{}, err
			}
		case statusRunning:
			// keep going
		}
	}
}

// step fetches and executes exactly one top-level instruction.
func (m *Machine) step() (status, error) {
	op, mode, err := m.FetchOperator()
	if err != nil {
		return statusFailed, err
	}

	switch op {
	case OpHalt:
		return statusHalted, nil

	case OpAllocateTarget:
		m.pushTargetFrame()
		return statusRunning, nil

	case OpDeallocateTarget:
		m.popTargetFrame()
		return statusRunning, nil

	case OpSetArg:
		index, err := m.fetchRaw()
		if err != nil {
			return statusFailed, err
		}
		addr := m.TF + index
		if err := m.ensureLocalCell(addr); err != nil {
			return statusFailed, err
		}
		ok, err := m.unifyTermAt(ModeCopy, addr)
		if err != nil {
			return statusFailed, err
		}
		if !ok {
			return statusFailed, nil
		}
		return statusRunning, nil

	case OpVar, OpConst, OpFunctor:
		addr, err := m.fetchParamCell()
		if err != nil {
			return statusFailed, err
		}
		ok, err := m.unifyTermTagged(op, mode, addr)
		if err != nil {
			return statusFailed, err
		}
		if !ok {
			return statusFailed, nil
		}
		return statusRunning, nil

	case OpCall:
		predIdx, err := m.fetchRaw()
		if err != nil {
			return statusFailed, err
		}
		return m.doCall(predIdx)

	case OpProceed:
		done, err := m.popSourceFrame()
		if err != nil {
			return statusFailed, err
		}
		if done {
			return statusSucceeded, nil
		}
		return statusRunning, nil

	case OpTryClause, OpRetryClause:
		clauseIdx, err := m.fetchRaw()
		if err != nil {
			return statusFailed, err
		}
		if err := m.enterClauseAlternative(clauseIdx, true); err != nil {
			return statusFailed, err
		}
		return statusRunning, nil

	case OpTrustClause:
		clauseIdx, err := m.fetchRaw()
		if err != nil {
			return statusFailed, err
		}
		if err := m.enterClauseAlternative(clauseIdx, false); err != nil {
			return statusFailed, err
		}
		return statusRunning, nil

	case OpFail:
		return statusFailed, nil

	default:
		return statusFailed, PreconditionError{Op: "step", Message: "unknown opcode"}
	}
}

// fetchParamCell reads a variable-index operand local to the current
// clause's own frame and translates it to an absolute address,
// growing the local region lazily. This is always SF, never TF: by
// the time any clause's instructions run, its own frame has already
// been finalized from target to source (see enterClauseAlternative),
// and a target frame only exists afterwards to build the arguments of
// a further call -- a Var operand occurring in that argument list
// still names a slot of the enclosing clause, not of the call being
// built.
func (m *Machine) fetchParamCell() (int, error) {
	index, err := m.fetchRaw()
	if err != nil {
		return 0, err
	}
	if m.SF == NoFrame {
		return 0, PreconditionError{Op: "fetchParamCell", Message: "no frame in scope"}
	}
	addr := m.SF + index
	if err := m.ensureLocalCell(addr); err != nil {
		return 0, err
	}
	return addr, nil
}

// unifyTermTagged dispatches a top-level OpVar/OpConst/OpFunctor
// instruction, whose operator word already names the term kind, to
// the same per-kind handlers unifyTermAt uses.
func (m *Machine) unifyTermTagged(op Opcode, mode Mode, addr int) (bool, error) {
	switch op {
	case OpVar:
		return m.unifyVar(addr)
	case OpConst:
		constIdx, err := m.fetchRaw()
		if err != nil {
			return false, err
		}
		return m.unifyConst(mode, addr, constIdx)
	case OpFunctor:
		symIdx, err := m.fetchRaw()
		if err != nil {
			return false, err
		}
		return m.unifyFunctor(mode, addr, symIdx)
	default:
		return false, PreconditionError{Op: "unifyTermTagged", Message: "not a term opcode"}
	}
}

// unifyTermAt consumes one inline term encoding from the code stream
// (a term-kind tag followed by that kind's operands, recursing for
// nested functors) and unifies it against addr. Used for the
// arguments of a compound term being built or matched -- the
// recursion keeps argument cell addresses, which only exist once the
// enclosing functor is built or located at runtime, entirely local to
// this call instead of needing a runtime "current structure" register.
func (m *Machine) unifyTermAt(mode Mode, addr int) (bool, error) {
	kindWord, err := m.fetchRaw()
	if err != nil {
		return false, err
	}
	switch Opcode(kindWord) {
	case OpVar:
		return m.unifyVar(addr)
	case OpConst:
		constIdx, err := m.fetchRaw()
		if err != nil {
			return false, err
		}
		return m.unifyConst(mode, addr, constIdx)
	case OpFunctor:
		symIdx, err := m.fetchRaw()
		if err != nil {
			return false, err
		}
		return m.unifyFunctor(mode, addr, symIdx)
	default:
		return false, PreconditionError{Op: "unifyTermAt", Message: "bad inline term kind"}
	}
}

// unifyVar unifies addr against a named local variable cell (read as
// the next operand) with Unifiable; it fails when the two cells
// already hold terms that do not unify.
func (m *Machine) unifyVar(addr int) (bool, error) {
	varAddr, err := m.fetchParamCell()
	if err != nil {
		return false, err
	}
	if varAddr == addr {
		return true, nil
	}
	_, ok, err := m.Unifiable(addr, varAddr)
	return ok, err
}

// unifyConst builds (COPY) or matches (MATCH) an atomic constant.
func (m *Machine) unifyConst(mode Mode, addr, constIdx int) (bool, error) {
	if mode != ModeMatch {
		return true, m.writeConst(addr, constIdx)
	}
	d, w, err := m.Deref(addr)
	if err != nil {
		return false, err
	}
	if w.Tag() == TagRef {
		return true, m.writeConst(d, constIdx)
	}
	return w.Tag() == TagCon && w.Payload() == constIdx, nil
}

func (m *Machine) writeConst(addr, constIdx int) error {
	if err := m.WriteWord(addr, NewWord(TagCon, constIdx)); err != nil {
		return err
	}
	return m.Trail(addr)
}

// unifyFunctor builds (COPY) or matches (MATCH) a compound term at
// addr: if addr is unbound, a fresh skeleton is allocated on the
// global stack and bound to it, with every argument then recursively
// built (ignoring the caller's mode, since a fresh skeleton can only
// ever be built into, never matched against); if addr already holds a
// compatible STR cell, each argument is recursively unified against
// the existing argument cell in the caller's mode.
func (m *Machine) unifyFunctor(mode Mode, addr, symIdx int) (bool, error) {
	sym, err := m.provider.Constant(symIdx)
	if err != nil {
		return false, err
	}
	functor, err := sym.asFunctor(symIdx)
	if err != nil {
		return false, err
	}

	d, w, err := m.Deref(addr)
	if err != nil {
		return false, err
	}

	if w.Tag() == TagRef {
		funAddr, err := m.buildCompoundSkeleton(symIdx, functor.Arity)
		if err != nil {
			return false, err
		}
		if err := m.WriteWord(d, NewWord(TagStr, funAddr)); err != nil {
			return false, err
		}
		if err := m.Trail(d); err != nil {
			return false, err
		}
		for i := 0; i < functor.Arity; i++ {
			ok, err := m.unifyTermAt(ModeCopy, funAddr+1+i)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}

	if w.Tag() != TagStr {
		return false, nil
	}
	existing, err := m.readFunctorAt(w.Payload())
	if err != nil {
		return false, err
	}
	if existing.arity != functor.Arity || existing.symbolIdx != symIdx {
		return false, nil
	}
	for i := 0; i < functor.Arity; i++ {
		ok, err := m.unifyTermAt(mode, existing.firstArg+i)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// buildCompoundSkeleton appends a FUN word and arity fresh-variable
// argument cells to the global stack, returning the FUN word's
// address (an STR cell's payload always names this address directly).
func (m *Machine) buildCompoundSkeleton(symIdx, arity int) (int, error) {
	funAddr, err := m.PushGlobal(NewWord(TagFun, symIdx))
	if err != nil {
		return 0, err
	}
	for i := 0; i < arity; i++ {
		cellAddr, err := m.PushGlobal(0)
		if err != nil {
			return 0, err
		}
		if err := m.WriteWord(cellAddr, NewWord(TagRef, cellAddr)); err != nil {
			return 0, err
		}
	}
	return funAddr, nil
}

// doCall finalizes the pending argument list in the target frame as a
// call to predIdx, recording the return address as that frame's
// continuation, and jumps to the predicate's first clause alternative.
func (m *Machine) doCall(predIdx int) (status, error) {
	sym, err := m.provider.Constant(predIdx)
	if err != nil {
		return statusFailed, err
	}
	pred, err := sym.asPredicate(predIdx)
	if err != nil {
		return statusFailed, err
	}
	if pred.FirstClause == NoClause {
		return statusFailed, nil
	}
	rec, ok := m.records[m.TF]
	if !ok {
		return statusFailed, PreconditionError{Op: "doCall", Message: "no target frame for call"}
	}
	rec.continuation = m.PC

	clauseSym, err := m.provider.Constant(pred.FirstClause)
	if err != nil {
		return statusFailed, err
	}
	clause, err := clauseSym.asClause(pred.FirstClause)
	if err != nil {
		return statusFailed, err
	}
	m.PC = clause.EntryAddr
	return statusRunning, nil
}

// enterClauseAlternative runs the shared try/retry machinery: if
// mayHaveMore and the clause has a further alternative, the current
// target frame is promoted to a choice point recording it before the
// frame is finalized as a source frame; trust (mayHaveMore == false)
// finalizes directly, leaving any outer choice point as CP.
func (m *Machine) enterClauseAlternative(clauseIdx int, mayHaveMore bool) error {
	sym, err := m.provider.Constant(clauseIdx)
	if err != nil {
		return err
	}
	clause, err := sym.asClause(clauseIdx)
	if err != nil {
		return err
	}
	if mayHaveMore && clause.NextClause != NoClause {
		if err := m.pushChoicePoint(clause.NextClause); err != nil {
			return err
		}
	}
	rec, ok := m.records[m.TF]
	if !ok {
		return PreconditionError{Op: "enterClauseAlternative", Message: "no target frame to enter"}
	}
	return m.pushSourceFrame(clause.NumParams+clause.NumLocals, rec.continuation)
}

// ReadBinding derefs the variable at frame+index, returning its
// dereferenced address and cell so the caller can render it as a
// term (see zipterm).
func (m *Machine) ReadBinding(frame, index int) (int, Word, error) {
	return m.Deref(frame + index)
}
