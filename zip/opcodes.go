package zip

// Opcode is the operation selector fetched from code memory. Per the
// redesign note in spec.md §9, each fetched instruction is an
// (Opcode, Mode) pair packed into a single operator word. Dispatch is
// a switch on the opcode alone (Machine.step); the mode is handed to
// the handlers that depend on it (unifyConst, unifyFunctor). There is
// no table indexed by (opcode, mode).
type Opcode uint8

const (
	// OpAllocateTarget reserves a fresh target frame for an upcoming
	// call; no operands.
	OpAllocateTarget Opcode = iota
	// OpDeallocateTarget discards a target frame that turned out not
	// to need a call (a fact with no body); no operands.
	OpDeallocateTarget
	// OpSetArg builds one argument cell of the call being built in the
	// target frame, always in COPY mode. Operand 1: the parameter
	// index, relative to TF. It is followed by one inline term
	// encoding (see Machine.unifyTermAt) describing the argument.
	OpSetArg
	// OpFunctor builds (COPY) or matches (MATCH) a compound term.
	// Operand 1: the parameter index, relative to SF. Operand 2:
	// constant-pool index of the FunctorSymbol. It is followed by one
	// inline term encoding per argument.
	OpFunctor
	// OpVar unifies a parameter cell with a named variable slot.
	// Operand 1: the parameter index, relative to SF. Operand 2: the
	// variable slot index, relative to SF.
	OpVar
	// OpConst builds (COPY) or matches (MATCH) an atomic constant.
	// Operand 1: the parameter index, relative to SF. Operand 2:
	// constant-pool index.
	OpConst
	// OpCall invokes a predicate: records the return address as the
	// target frame's continuation and jumps to the first clause
	// alternative, whose try/trust prologue finalizes the frame.
	// Operand 1: constant-pool index of the PredicateSymbol.
	OpCall
	// OpProceed returns from the current source frame to its
	// continuation. No operands.
	OpProceed
	// OpTryClause pushes a choice point for the next alternative (if
	// any) and enters the given clause. Operand 1: constant-pool
	// index of the ClauseSymbol.
	OpTryClause
	// OpRetryClause executes exactly like OpTryClause; restoring
	// machine state on failure is done by Machine.Backtrack. Operand
	// 1: constant-pool index of the ClauseSymbol.
	OpRetryClause
	// OpTrustClause enters the clause without pushing a choice point
	// (this is the last alternative); any outer choice point stays CP.
	// Operand 1: constant-pool index of the ClauseSymbol.
	OpTrustClause
	// OpFail forces a backtrack; no operands.
	OpFail
	// OpHalt stops the interpreter loop; used only by the query
	// compiler to terminate a compiled query's code. No operands.
	OpHalt
)

func (op Opcode) String() string {
	switch op {
	case OpAllocateTarget:
		return "allocate_target"
	case OpDeallocateTarget:
		return "deallocate_target"
	case OpSetArg:
		return "set_arg"
	case OpFunctor:
		return "functor"
	case OpVar:
		return "var"
	case OpConst:
		return "const"
	case OpCall:
		return "call"
	case OpProceed:
		return "proceed"
	case OpTryClause:
		return "try"
	case OpRetryClause:
		return "retry"
	case OpTrustClause:
		return "trust"
	case OpFail:
		return "fail"
	case OpHalt:
		return "halt"
	default:
		return "???"
	}
}

const (
	opcodeBits = 8
	opcodeMask = (1 << opcodeBits) - 1
	modeShift  = opcodeBits
	modeMask   = 0x3
)

// EncodeOperator packs an (Opcode, Mode) pair into one code word. Mode
// is meaningless for opcodes that don't branch on it, but packing it
// uniformly keeps the fetch/dispatch path free of special cases.
func EncodeOperator(op Opcode, mode Mode) Word {
	return Word(uint64(op)&opcodeMask | uint64(mode)&modeMask<<modeShift)
}

func decodeOperator(w Word) (Opcode, Mode) {
	return Opcode(uint64(w) & opcodeMask), Mode((uint64(w) >> modeShift) & modeMask)
}

// DecodeOperatorForDisasm exposes decodeOperator to tooling (the
// disassembler) outside this package.
func DecodeOperatorForDisasm(w Word) (Opcode, Mode) {
	return decodeOperator(w)
}
