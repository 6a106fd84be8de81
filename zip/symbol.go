package zip

// SymbolKind discriminates the variants of Symbol. Per the redesign
// note in spec.md §9, the constant pool stores a tagged variant
// directly instead of an inheritance hierarchy with a visitor: the
// core only ever needs to pattern-match the two or three variants it
// actually consumes.
type SymbolKind uint8

const (
	SymFunctor SymbolKind = iota
	SymPredicate
	SymClause
)

func (k SymbolKind) String() string {
	switch k {
	case SymFunctor:
		return "functor"
	case SymPredicate:
		return "predicate"
	case SymClause:
		return "clause"
	default:
		return "unknown"
	}
}

// FunctorSymbol names a term constructor. Functors are interned by the
// bytecode provider, so pointer equality implies value equality --
// the core identifies functors by constant-pool index and never
// compares Name directly.
type FunctorSymbol struct {
	Name  string
	Arity int
}

// PredicateSymbol is a fixed-arity procedure: a name plus a pointer
// (constant-pool index) to its first clause alternative. Clauses
// point forward only; predicates never point back at their clauses.
type PredicateSymbol struct {
	Name        string
	Arity       int
	FirstClause int // constant-pool index of the first ClauseSymbol, or -1
}

// ClauseSymbol is one fact or rule: a compiled entry point, its
// parameter/local counts, and a forward link to the next alternative
// for the same predicate.
type ClauseSymbol struct {
	EntryAddr  int // code memory address of the clause's first instruction
	NumParams  int
	NumLocals  int
	NextClause int // constant-pool index of the next alternative, or -1
}

// Symbol is the tagged-union constant pool entry. Exactly one of the
// payload fields is meaningful, selected by Kind.
type Symbol struct {
	Kind      SymbolKind
	Functor   FunctorSymbol
	Predicate PredicateSymbol
	Clause    ClauseSymbol
}

// asFunctor returns the functor payload, or a ConstantPoolMiscastError
// if idx does not name a functor.
func (s Symbol) asFunctor(idx int) (FunctorSymbol, error) {
	if s.Kind != SymFunctor {
		return FunctorSymbol{}, ConstantPoolMiscastError{Index: idx, Want: "functor", Got: s.Kind.String()}
	}
	return s.Functor, nil
}

func (s Symbol) asPredicate(idx int) (PredicateSymbol, error) {
	if s.Kind != SymPredicate {
		return PredicateSymbol{}, ConstantPoolMiscastError{Index: idx, Want: "predicate", Got: s.Kind.String()}
	}
	return s.Predicate, nil
}

func (s Symbol) asClause(idx int) (ClauseSymbol, error) {
	if s.Kind != SymClause {
		return ClauseSymbol{}, ConstantPoolMiscastError{Index: idx, Want: "clause", Got: s.Kind.String()}
	}
	return s.Clause, nil
}

// NoClause is the sentinel used for "no next alternative" / "no first
// clause" links in PredicateSymbol.FirstClause and
// ClauseSymbol.NextClause.
const NoClause = -1
