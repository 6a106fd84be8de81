package zip

// Deref follows REF links starting at addr until it hits either a
// non-REF word or a self-referential REF (an unbound variable). It
// terminates because binding never introduces cycles -- see Bind.
func (m *Machine) Deref(addr int) (int, Word, error) {
	for {
		w, err := m.ReadWord(addr)
		if err != nil {
			return addr, 0, err
		}
		if w.Tag() != TagRef {
			return addr, w, nil
		}
		next := w.Payload()
		if next == addr {
			return addr, w, nil // unbound
		}
		addr = next
	}
}

// Bind binds one REF cell to point at the other address, following
// the direction rule in spec.md §4.3, and trails the address it
// wrote. At least one of a1, a2 must currently hold a REF word. When
// the REF cell is older than the non-REF cell (e.g. a global cell
// against a local frame cell), it receives a copy of that cell's word
// rather than a REF to it, so REFs only ever point from newer to
// older memory.
func (m *Machine) Bind(a1, a2 int) (int, error) {
	w1, err := m.ReadWord(a1)
	if err != nil {
		return 0, err
	}
	w2, err := m.ReadWord(a2)
	if err != nil {
		return 0, err
	}

	ref1 := w1.Tag() == TagRef
	ref2 := w2.Tag() == TagRef
	if !ref1 && !ref2 {
		return 0, PreconditionError{Op: "Bind", Message: "neither address holds a REF"}
	}

	var bound, target int
	switch {
	case ref1 && ref2:
		// Both unbound: bind the younger (higher address) to the
		// older, so REFs only ever point from newer to older memory.
		if a1 > a2 {
			bound, target = a1, a2
		} else {
			bound, target = a2, a1
		}
	case ref1:
		bound, target = a1, a2
	default:
		bound, target = a2, a1
	}

	word := NewWord(TagRef, target)
	if target > bound {
		// Only one side is a REF and the other cell is younger: the REF
		// cell takes a copy of that cell's word instead of pointing at it.
		if word, err = m.ReadWord(target); err != nil {
			return 0, err
		}
	}
	if err := m.WriteWord(bound, word); err != nil {
		return 0, err
	}
	if err := m.Trail(bound); err != nil {
		return 0, err
	}
	return bound, nil
}

// Trail appends addr to the trail iff a choice point currently exists
// and the binding at addr would otherwise survive a backtrack past
// it: either addr is on the local stack, or addr is on the global
// stack strictly below the choice point's saved global-stack top.
// Otherwise trailing would be wasted space, since the binding vanishes
// naturally when the stacks are truncated.
func (m *Machine) Trail(addr int) error {
	if m.CP == NoFrame {
		return nil
	}
	rec := m.records[m.CP]
	if rec == nil || rec.cp == nil {
		return nil
	}
	if isLocalAddr(addr) || addr < rec.cp.savedGlobalTop {
		if _, err := m.trail.Push(Word(addr)); err != nil {
			return err
		}
	}
	return nil
}

// Unifiable attempts full structural unification of a1 and a2,
// returning the addresses it bound (direction rule applied) or false
// on any mismatch. No occurs check is performed: spec.md's scenario S4
// requires that binding a variable to a term containing itself
// succeeds and produces a cyclic term instead of looping forever or
// failing.
func (m *Machine) Unifiable(a1, a2 int) ([]int, bool, error) {
	m.scratch.reset()
	m.scratch.push(a1, a2)

	var bound []int
	for {
		item, ok := m.scratch.pop()
		if !ok {
			return bound, true, nil
		}

		d1, w1, err := m.Deref(item.a1)
		if err != nil {
			return nil, false, err
		}
		d2, w2, err := m.Deref(item.a2)
		if err != nil {
			return nil, false, err
		}

		t1, t2 := w1.Tag(), w2.Tag()

		switch {
		case t1 == TagRef && t2 == TagRef:
			addr, err := m.Bind(d1, d2)
			if err != nil {
				return nil, false, err
			}
			bound = append(bound, addr)

		case t1 == TagRef:
			addr, err := m.Bind(d1, d2)
			if err != nil {
				return nil, false, err
			}
			bound = append(bound, addr)

		case t2 == TagRef:
			addr, err := m.Bind(d1, d2)
			if err != nil {
				return nil, false, err
			}
			bound = append(bound, addr)

		case (t1 == TagCon || t1 == TagFun) && (t1 == t2):
			if w1.Payload() != w2.Payload() {
				return nil, false, nil
			}

		case t1 == TagStr && t2 == TagStr:
			f1, err := m.readFunctorAt(w1.Payload())
			if err != nil {
				return nil, false, err
			}
			f2, err := m.readFunctorAt(w2.Payload())
			if err != nil {
				return nil, false, err
			}
			if f1.arity != f2.arity || f1.symbolIdx != f2.symbolIdx {
				return nil, false, nil
			}
			for i := 0; i < f1.arity; i++ {
				m.scratch.push(f1.firstArg+i, f2.firstArg+i)
			}

		default:
			return nil, false, nil
		}
	}
}

type functorRef struct {
	symbolIdx int
	arity     int
	firstArg  int
}

// readFunctorAt reads the FUN word immediately at a global-stack
// address (the payload of an already-dereferenced STR cell) and
// returns its symbol index, arity, and the address of its first
// argument cell.
func (m *Machine) readFunctorAt(addr int) (functorRef, error) {
	funWord, err := m.ReadWord(addr)
	if err != nil {
		return functorRef{}, err
	}
	if funWord.Tag() != TagFun {
		return functorRef{}, OutOfBoundsError{Region: "global", Addr: addr, Top: m.global.Top()}
	}
	idx := funWord.Payload()
	sym, err := m.provider.Constant(idx)
	if err != nil {
		return functorRef{}, err
	}
	functor, err := sym.asFunctor(idx)
	if err != nil {
		return functorRef{}, err
	}
	return functorRef{symbolIdx: idx, arity: functor.Arity, firstArg: addr + 1}, nil
}
