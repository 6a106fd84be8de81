package zip

import "fmt"

// BacktrackExhaustedError is returned when Backtrack is called with no
// live choice point. The REPL recovers from this one specifically and
// turns it into the canonical "no" answer; every other error kind
// bubbles up unmodified.
type BacktrackExhaustedError struct{}

func (e BacktrackExhaustedError) Error() string {
	return "no more solutions"
}

// ConstantPoolMiscastError is returned when a symbol fetched from the
// constant pool isn't of the kind the caller expected. It indicates a
// bytecode/compiler bug, not a recoverable runtime condition.
type ConstantPoolMiscastError struct {
	Index int
	Want  string
	Got   string
}

func (e ConstantPoolMiscastError) Error() string {
	return fmt.Sprintf("constant pool entry %d: expected %s, got %s", e.Index, e.Want, e.Got)
}

// OutOfBoundsError is returned when an address or code index falls
// outside the bounds of the region it's read against. It indicates
// corrupt bytecode.
type OutOfBoundsError struct {
	Region string
	Addr   int
	Top    int
}

func (e OutOfBoundsError) Error() string {
	return fmt.Sprintf("%s: address %d out of bounds (top=%d)", e.Region, e.Addr, e.Top)
}

// ResourceExhaustionError is returned when a region's top would exceed
// its configured capacity. It aborts the current query.
type ResourceExhaustionError struct {
	Region   string
	Capacity int
}

func (e ResourceExhaustionError) Error() string {
	return fmt.Sprintf("%s: exhausted capacity of %d words", e.Region, e.Capacity)
}

// PreconditionError is returned when a caller violates an operation's
// stated precondition, e.g. calling Bind when neither address holds a
// REF, or calling a frame operation with no frame to act on. It always
// indicates a programmer error in a caller of this package.
type PreconditionError struct {
	Op      string
	Message string
}

func (e PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}
