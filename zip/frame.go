package zip

// NoFrame is the sentinel address meaning "no target/source/choice-
// point frame", used for TF, SF and CP when they are empty.
const NoFrame = -1

// choicePointSuffix is the retry state recorded when a target frame is
// promoted to a choice point: enough to restore the machine and try
// the next clause alternative on backtrack.
type choicePointSuffix struct {
	backtrackClause int // constant-pool index of the clause to retry
	savedGlobalTop  int
	savedTrailTop   int
	savedLocalTop   int // local top *before* this frame was allocated
	previousCP      int
}

// frameRecord is the out-of-band bookkeeping for one local-stack
// frame: the continuation, the parent-source link, its finalized size
// once known, and its choice-point suffix if it was promoted.
//
// spec.md describes these fields as part of the frame's layout "on
// the local stack", but none of them is ever a target of unification
// or read_word/write_word -- only the frame manager's named
// operations touch them. Keeping them in a side table (keyed by the
// frame's base address) instead of packing them as extra Words into
// the same region that variable cells live in avoids a layout
// conflict: push_choice_point records its suffix before a clause (and
// therefore the frame's final size) has been chosen, so the suffix
// cannot simply follow the variable cells in address order the way a
// fixed C struct would lay them out.
type frameRecord struct {
	base         int
	size         int // 0 until push_source_frame finalizes it
	continuation int
	parentSource int
	cp           *choicePointSuffix
}

// pushTargetFrame allocates a new target frame. Per spec.md, no
// variable cells are reserved yet -- ARG/COPY opcodes address them
// lazily via TF+index, growing the local region as they do.
func (m *Machine) pushTargetFrame() int {
	base := m.localTop()
	m.records[base] = &frameRecord{base: base, parentSource: m.SF}
	m.TF = base
	return base
}

// popTargetFrame reverses a target frame allocation: used when the
// caller compiled directly into the target and then discovered there
// were no goals left to call.
func (m *Machine) popTargetFrame() {
	if m.TF == NoFrame {
		return
	}
	delete(m.records, m.TF)
	m.truncateLocal(m.TF)
	m.TF = NoFrame
}

// ensureLocalCell grows the local region (initializing new cells to
// self-referential REFs) so that addr is valid, if it isn't already.
func (m *Machine) ensureLocalCell(addr int) error {
	i := toLocalIndex(addr)
	if i < m.local.Top() {
		return nil
	}
	n := i - m.local.Top() + 1
	first, err := m.local.Grow(n)
	if err != nil {
		return err
	}
	for a := first; a <= i; a++ {
		if err := m.local.Write(a, NewWord(TagRef, fromLocalIndex(a))); err != nil {
			return err
		}
	}
	return nil
}

// pushChoicePoint promotes the current target frame into a choice
// point, recording enough state to retry backtrackClause (the next
// alternative) later.
func (m *Machine) pushChoicePoint(backtrackClause int) error {
	rec, ok := m.records[m.TF]
	if !ok {
		return PreconditionError{Op: "pushChoicePoint", Message: "no target frame to promote"}
	}
	rec.cp = &choicePointSuffix{
		backtrackClause: backtrackClause,
		savedGlobalTop:  m.global.Top(),
		savedTrailTop:   m.trail.Top(),
		savedLocalTop:   m.TF,
		previousCP:      m.CP,
	}
	m.CP = m.TF
	return nil
}

// pushSourceFrame finalizes the target frame as the activation of the
// called clause, growing its variable-cell span to size, recording
// where execution resumes on proceed, and clearing TF.
func (m *Machine) pushSourceFrame(size, continuation int) error {
	rec, ok := m.records[m.TF]
	if !ok {
		return PreconditionError{Op: "pushSourceFrame", Message: "no target frame to finalize"}
	}
	if size > 0 {
		if err := m.ensureLocalCell(m.TF + size - 1); err != nil {
			return err
		}
	}
	rec.size = size
	rec.continuation = continuation
	m.SF = m.TF
	m.TF = NoFrame
	return nil
}

// popSourceFrame returns control to the caller: restores PC from the
// current source frame's continuation and SF from its parent, and
// shrinks the local top to discard the returning frame unless it is a
// live choice point or a younger choice point (one above it on the
// local stack) may still return into it. Returns true iff the frame
// being popped was the
// original query frame -- in that case SF and the frame's cells are
// left exactly as they are, since the query's bindings must still be
// readable via ReadBinding after success; only a later Backtrack past
// it, or the next Reset, reclaims it.
func (m *Machine) popSourceFrame() (bool, error) {
	rec, ok := m.records[m.SF]
	if !ok {
		return false, PreconditionError{Op: "popSourceFrame", Message: "no source frame to pop"}
	}

	if rec.parentSource == NoFrame {
		return true, nil
	}

	m.PC = rec.continuation
	poppedBase := m.SF
	m.SF = rec.parentSource
	if rec.cp == nil && m.CP < poppedBase {
		delete(m.records, poppedBase)
		m.truncateLocal(poppedBase)
	}
	return false, nil
}
