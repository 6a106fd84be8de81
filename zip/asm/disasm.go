package asm

import (
	"fmt"
	"strings"

	"github.com/zip-lang/zip/zip"
	"github.com/zip-lang/zip/internal/ascii"
)

// Disassemble renders the program's code segment as one instruction
// per line, resolving constant-pool operands to their symbol names
// where it can and coloring address/operator/operand text with the
// shared ascii theme. The REPL's -trace mode prints this output.
func (p *Program) Disassemble() string {
	var b strings.Builder
	addr := 0
	for addr < len(p.code) {
		op, mode := zip.DecodeOperatorForDisasm(p.code[addr])
		fmt.Fprintf(&b, "%s  ", ascii.Color(ascii.DefaultTheme.Muted, "%04d", addr))
		b.WriteString(ascii.Color(ascii.DefaultTheme.Operator, "%-16s", opLabel(op, mode)))
		addr++
		n := operandCount(op)
		for i := 0; i < n && addr < len(p.code); i++ {
			b.WriteString(" ")
			b.WriteString(ascii.Color(ascii.DefaultTheme.Operand, "%s", p.operandText(op, int(p.code[addr]))))
			addr++
		}
		b.WriteString("\n")
	}
	return b.String()
}

func opLabel(op zip.Opcode, mode zip.Mode) string {
	switch op {
	case zip.OpVar, zip.OpConst, zip.OpFunctor, zip.OpSetArg:
		return fmt.Sprintf("%s.%s", op, mode)
	default:
		return op.String()
	}
}

// operandCount is the number of raw code words following op's
// operator word at the top level (nested term arguments inside
// OpFunctor are variable-length and not walked by the disassembler).
func operandCount(op zip.Opcode) int {
	switch op {
	case zip.OpVar:
		return 2
	case zip.OpConst, zip.OpFunctor:
		return 2
	case zip.OpSetArg:
		return 1
	case zip.OpCall, zip.OpTryClause, zip.OpRetryClause, zip.OpTrustClause:
		return 1
	default:
		return 0
	}
}

func (p *Program) operandText(op zip.Opcode, raw int) string {
	switch op {
	case zip.OpConst:
		if sym, err := p.Constant(raw); err == nil && sym.Kind == zip.SymFunctor {
			return sym.Functor.Name
		}
	case zip.OpFunctor:
		if sym, err := p.Constant(raw); err == nil && sym.Kind == zip.SymFunctor {
			return fmt.Sprintf("%s/%d", sym.Functor.Name, sym.Functor.Arity)
		}
	case zip.OpCall:
		if sym, err := p.Constant(raw); err == nil && sym.Kind == zip.SymPredicate {
			return fmt.Sprintf("%s/%d", sym.Predicate.Name, sym.Predicate.Arity)
		}
	case zip.OpTryClause, zip.OpRetryClause, zip.OpTrustClause:
		return fmt.Sprintf("clause#%d", raw)
	}
	return fmt.Sprintf("%d", raw)
}
