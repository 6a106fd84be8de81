package zipterm

import (
	"fmt"

	"github.com/zip-lang/zip/zip"
	"github.com/zip-lang/zip/internal/ascii"
)

// Kind discriminates the variants of Term.
type Kind uint8

const (
	KindVar Kind = iota
	KindAtom
	KindCompound
	// KindCycle marks a compound term address already being expanded
	// higher up the same ReadTerm call -- spec.md's self-binding
	// scenario permits a variable to be bound to a structure
	// containing itself, and the reader must terminate instead of
	// recursing forever.
	KindCycle
)

// Term is a read-only snapshot of a value on the machine's global or
// local stack, suitable for rendering independent of the machine's
// own memory layout.
type Term struct {
	Kind Kind
	Name string
	Args []Term
}

// ReadTerm derefs addr and recursively copies out the term it's bound
// to (or a single Term{Kind: KindVar} if it's unbound).
func ReadTerm(m *zip.Machine, addr int) (Term, error) {
	return readTerm(m, addr, make(map[int]bool))
}

func readTerm(m *zip.Machine, addr int, inProgress map[int]bool) (Term, error) {
	d, w, err := m.Deref(addr)
	if err != nil {
		return Term{}, err
	}

	switch w.Tag() {
	case zip.TagRef:
		return Term{Kind: KindVar, Name: VarLabel(d)}, nil

	case zip.TagCon:
		sym, err := m.Provider().Constant(w.Payload())
		if err != nil {
			return Term{}, err
		}
		return Term{Kind: KindAtom, Name: sym.Functor.Name}, nil

	case zip.TagStr:
		funAddr := w.Payload()
		if inProgress[funAddr] {
			return Term{Kind: KindCycle, Name: VarLabel(funAddr)}, nil
		}
		funWord, err := m.ReadWord(funAddr)
		if err != nil {
			return Term{}, err
		}
		sym, err := m.Provider().Constant(funWord.Payload())
		if err != nil {
			return Term{}, err
		}

		inProgress[funAddr] = true
		defer delete(inProgress, funAddr)

		args := make([]Term, sym.Functor.Arity)
		for i := range args {
			a, err := readTerm(m, funAddr+1+i, inProgress)
			if err != nil {
				return Term{}, err
			}
			args[i] = a
		}
		return Term{Kind: KindCompound, Name: sym.Functor.Name, Args: args}, nil

	default:
		return Term{}, zip.PreconditionError{Op: "ReadTerm", Message: "cell holds neither a variable, atom, nor compound"}
	}
}

// VarLabel names the unbound variable cell at addr, e.g. for
// backtrack(vars_out) reporting as well as for rendering an unbound Term.
func VarLabel(addr int) string {
	return fmt.Sprintf("_G%d", addr)
}

// Write renders t as inline Prolog syntax, e.g. "f(_G3, g(a))".
func Write(t Term) string {
	var b []byte
	b = appendInline(b, t)
	return string(b)
}

func appendInline(b []byte, t Term) []byte {
	switch t.Kind {
	case KindVar:
		return append(b, t.Name...)
	case KindCycle:
		return append(b, formatCycleRef(t.Name)...)
	case KindAtom:
		return append(b, quoteAtom(t.Name)...)
	case KindCompound:
		b = append(b, quoteAtom(t.Name)...)
		b = append(b, '(')
		for i, a := range t.Args {
			if i > 0 {
				b = append(b, ", "...)
			}
			b = appendInline(b, a)
		}
		return append(b, ')')
	}
	return b
}

func quoteAtom(name string) string {
	if name == "" {
		return "''"
	}
	needsQuote := name[0] < 'a' || name[0] > 'z'
	for _, c := range name {
		alnum := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if !alnum {
			needsQuote = true
		}
	}
	if !needsQuote {
		return name
	}
	return "'" + escapeAtom(name) + "'"
}

// FormatToken tags a rendered fragment's role for Highlight's
// coloring, mirroring the variant each Term.Kind carries.
type FormatToken int

const (
	FormatNone FormatToken = iota
	FormatVar
	FormatAtom
	FormatFunctor
	FormatCycle
)

// themeColor resolves a FormatToken to the ascii package's shared
// theme, the same one zip/asm's disassembler draws from, instead of
// keeping a second, parallel color table.
func themeColor(tok FormatToken) string {
	switch tok {
	case FormatVar:
		return ascii.DefaultTheme.Var
	case FormatAtom:
		return ascii.DefaultTheme.Atom
	case FormatFunctor:
		return ascii.DefaultTheme.Functor
	case FormatCycle:
		return ascii.DefaultTheme.Cycle
	default:
		return ""
	}
}

// Pretty renders t as an indented tree, one node per line, with every
// compound's arity shown next to its name.
func Pretty(t Term) string {
	p := newTreePrinter(func(s string, _ FormatToken) string { return s })
	visitTree(p, t)
	return p.output.String()
}

// Highlight is Pretty with ANSI coloring by token role.
func Highlight(t Term) string {
	p := newTreePrinter(func(s string, tok FormatToken) string {
		if tok == FormatNone {
			return s
		}
		return ascii.Color(themeColor(tok), "%s", s)
	})
	visitTree(p, t)
	return p.output.String()
}

func visitTree(p *treePrinter[FormatToken], t Term) {
	switch t.Kind {
	case KindVar:
		p.write(p.format(t.Name, FormatVar))
	case KindCycle:
		p.write(p.format(formatCycleRef(t.Name), FormatCycle))
	case KindAtom:
		p.write(p.format(quoteAtom(t.Name), FormatAtom))
	case KindCompound:
		label := fmt.Sprintf("%s/%d", t.Name, len(t.Args))
		p.writel(p.format(label, FormatFunctor))
		for i, a := range t.Args {
			if i == len(t.Args)-1 {
				p.pwrite("└── ")
				p.indent("    ")
				visitTree(p, a)
				p.unindent()
			} else {
				p.pwrite("├── ")
				p.indent("│   ")
				visitTree(p, a)
				p.unindent()
				p.write("\n")
			}
		}
	}
}
