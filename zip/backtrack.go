package zip

// resetCell rewrites the cell at addr back to an unbound,
// self-referential REF, undoing whatever binding the trail recorded
// for it.
func (m *Machine) resetCell(addr int) error {
	return m.WriteWord(addr, NewWord(TagRef, addr))
}

// Backtrack undoes every binding made since the most recently pushed
// live choice point, shrinks the global and local stacks back to the
// sizes they had when that choice point was created (the local stack
// keeps the choice-point frame's argument cells), and resumes
// execution at its next clause alternative (per spec.md §4.4 and
// §4.5's backtrack(vars_out) operation). It returns
// BacktrackExhaustedError if no choice point remains, which callers
// treat as the query having no more solutions.
//
// The returned vars_out slice lists, most recent binding first, the
// addresses of every cell reset back to an unbound REF -- the REPL's
// -trace mode uses it to report which cells just lost their binding.
func (m *Machine) Backtrack() ([]int, error) {
	if m.CP == NoFrame {
		return nil, BacktrackExhaustedError{}
	}
	rec, ok := m.records[m.CP]
	if !ok || rec.cp == nil {
		return nil, BacktrackExhaustedError{}
	}
	cp := rec.cp

	var varsOut []int
	for m.trail.Top() > cp.savedTrailTop {
		w, err := m.trail.Read(m.trail.Top() - 1)
		if err != nil {
			return nil, err
		}
		m.trail.Truncate(m.trail.Top() - 1)
		addr := int(w)
		if err := m.resetCell(addr); err != nil {
			return nil, err
		}
		varsOut = append(varsOut, addr)
	}

	sym, err := m.provider.Constant(cp.backtrackClause)
	if err != nil {
		return nil, err
	}
	clause, err := sym.asClause(cp.backtrackClause)
	if err != nil {
		return nil, err
	}

	// The frame's argument cells, written by the caller before the
	// choice point was pushed, stay in place for the next alternative.
	m.global.Truncate(cp.savedGlobalTop)
	m.truncateLocal(cp.savedLocalTop + clause.NumParams)
	delete(m.records, m.CP)

	base := cp.savedLocalTop
	m.records[base] = &frameRecord{base: base, parentSource: rec.parentSource, continuation: rec.continuation}
	m.TF = base
	m.CP = cp.previousCP
	m.PC = clause.EntryAddr
	return varsOut, nil
}
