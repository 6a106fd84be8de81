package zip

// Mode selects how the current opcode's operands are interpreted, per
// spec.md §4.2. It's encoded in the high bits of the fetched operator
// word, next to the opcode; step switches on the opcode and passes the
// mode along.
type Mode uint8

const (
	// ModeArg: arguments of the head literal are being set up; write
	// operand cells into the target frame's parameter slots.
	ModeArg Mode = iota
	// ModeCopy: building a compound term on the global stack
	// (write-mode).
	ModeCopy
	// ModeMatch: structurally unifying an existing term against the
	// clause head (read-mode).
	ModeMatch
)

func (m Mode) String() string {
	switch m {
	case ModeArg:
		return "ARG"
	case ModeCopy:
		return "COPY"
	case ModeMatch:
		return "MATCH"
	default:
		return "?"
	}
}

// Config holds the fixed capacities of every memory region. Region
// storage is allocated in contiguous arenas sized to these limits;
// exhaustion is a fatal ResourceExhaustionError, per spec.md §5 --
// the machine never grows a region past its configured cap.
type Config struct {
	GlobalCapacity int
	LocalCapacity  int
	TrailCapacity  int
}

// DefaultConfig returns capacities generous enough for interactive use
// and the test scenarios in spec.md §8.
func DefaultConfig() Config {
	return Config{
		GlobalCapacity: 1 << 16,
		LocalCapacity:  1 << 16,
		TrailCapacity:  1 << 14,
	}
}

// Machine is the ZIP abstract machine: it owns every memory region and
// register exclusively, runs single-threaded, and is never shared
// across instances (spec.md §5). Callers construct one Machine per
// running program/REPL session.
type Machine struct {
	provider BytecodeProvider
	config   Config

	global *region
	local  *region
	trail  *region

	scratch scratchpad
	records map[int]*frameRecord

	PC int
	TF int
	SF int
	CP int
}

// NewMachine creates a machine bound to provider, with regions sized
// by cfg.
func NewMachine(provider BytecodeProvider, cfg Config) *Machine {
	m := &Machine{
		provider: provider,
		config:   cfg,
		global:   newRegion("global", cfg.GlobalCapacity),
		local:    newRegion("local", cfg.LocalCapacity),
		trail:    newRegion("trail", cfg.TrailCapacity),
	}
	return m
}

// Reset prepares the machine for a fresh run of the query compiled at
// queryAddr, per spec.md §4.6: PC points at the query, all frame
// registers are cleared, and every region is truncated back to empty.
// The machine keeps no mode register: each operator word carries its
// own mode.
func (m *Machine) Reset(queryAddr int) {
	m.PC = queryAddr
	m.TF, m.SF, m.CP = NoFrame, NoFrame, NoFrame
	m.global.Truncate(0)
	m.local.Truncate(0)
	m.trail.Truncate(0)
	m.scratch.reset()
	m.records = make(map[int]*frameRecord)
}

// ReadWord is random access to any region reachable by address; REF
// chains are not followed (use Deref for that).
func (m *Machine) ReadWord(addr int) (Word, error) {
	if isLocalAddr(addr) {
		return m.local.Read(toLocalIndex(addr))
	}
	return m.global.Read(addr)
}

// WriteWord is an unconditional write; the caller arranges trailing.
func (m *Machine) WriteWord(addr int, w Word) error {
	if isLocalAddr(addr) {
		return m.local.Write(toLocalIndex(addr), w)
	}
	return m.global.Write(addr, w)
}

// PushGlobal appends a word to the global stack and returns its
// address, growing GT.
func (m *Machine) PushGlobal(w Word) (int, error) {
	return m.global.Push(w)
}

// Provider exposes the machine's bytecode provider so tooling (the
// disassembler, the term printer) can resolve constant-pool entries
// without the core needing to know about either of them.
func (m *Machine) Provider() BytecodeProvider {
	return m.provider
}

// localTop returns the first unused local-stack address, in the flat
// address space (i.e. offset by localBase).
func (m *Machine) localTop() int {
	return fromLocalIndex(m.local.Top())
}

// truncateLocal shrinks the local stack back to a previously observed
// flat-address top.
func (m *Machine) truncateLocal(addr int) {
	m.local.Truncate(toLocalIndex(addr))
}

// FetchOperator reads one code word at PC, advances PC, and splits it
// into its opcode and mode.
func (m *Machine) FetchOperator() (Opcode, Mode, error) {
	w, err := m.provider.ReadCode(m.PC)
	if err != nil {
		return 0, 0, err
	}
	m.PC++
	op, mode := decodeOperator(w)
	return op, mode, nil
}

// fetchRaw reads the next code word at PC, advances PC, and returns it
// as a plain int (a constant-pool index or a frame-relative slot
// index, depending on the instruction).
func (m *Machine) fetchRaw() (int, error) {
	w, err := m.provider.ReadCode(m.PC)
	if err != nil {
		return 0, err
	}
	m.PC++
	return int(w), nil
}

