// Package ascii provides terminal ANSI color codes and semantic names
// for colors so they can be grouped in themes.
package ascii

import "fmt"

const (
	Reset = "\033[0m"
	Red   = "\033[1;31m"
	Green = "\033[1;32m"
	Cyan  = "\033[1;36m"
	Gray  = "\033[90m" // Bright black, actually

	// 256-color palette
	Purple = "\033[1;38;5;99m"
	Pink   = "\033[1;38;5;127m"
)

// Theme defines semantic color mappings for the two things this
// module renders in color: the bytecode disassembler (zip/asm) and
// the term tree printer (zipterm).
type Theme struct {
	// Disassembler
	Muted    string // instruction addresses
	Operator string
	Operand  string

	// Term rendering
	Var     string // unbound variable, e.g. _G12
	Atom    string
	Functor string
	Cycle   string // a term referencing itself
}

// DefaultTheme provides a sensible default color mapping, chosen to
// read well on both dark and light terminal backgrounds.
var DefaultTheme = Theme{
	Muted:    Gray,
	Operator: Purple,
	Operand:  Pink,

	Var:     Cyan,
	Atom:    Green,
	Functor: Purple,
	Cycle:   Red,
}

// Color wraps s (built from format and args) in color, resetting
// afterwards.
func Color(color, format string, args ...any) string {
	return fmt.Sprintf(color+format+Reset, args...)
}
