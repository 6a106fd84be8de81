// Command zip is a small interactive shell around the ZIP machine. It
// has no Prolog source parser (out of scope, per spec.md's Non-goals),
// so it ships a handful of hand-assembled demo programs and queries
// and lets the user step through their solutions.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/zip-lang/zip/zip"
	"github.com/zip-lang/zip/zip/asm"
	"github.com/zip-lang/zip/zipterm"
)

type args struct {
	demo  *string
	trace *bool
}

func readArgs() *args {
	a := &args{
		demo:  flag.String("demo", "family", "Which built-in program to load: family, peano, choice, cyclic"),
		trace: flag.Bool("trace", false, "Print the disassembled program before running"),
	}
	flag.Parse()
	return a
}

// demo bundles a compiled program, the query it runs, the human
// readable query text printed at the prompt, and the number of query
// variables the REPL should print bindings for.
type demo struct {
	text  string
	build func(p *asm.Program) (queryAddr int, numVars int, err error)
}

var demos = map[string]demo{
	"family": {text: "parent(tom, X)", build: buildFamily},
	"peano":  {text: "+(succ(zero), succ(zero), N)", build: buildPeano},
	"choice": {text: "p(b)", build: buildChoice},
	"cyclic": {text: "X = f(X)", build: buildCyclic},
}

func buildFamily(p *asm.Program) (int, int, error) {
	parent := func(a, b string) error {
		_, err := p.DefineClause("parent", []asm.Term{asm.Atom(a), asm.Atom(b)}, nil, 0)
		return err
	}
	if err := parent("tom", "bob"); err != nil {
		return 0, 0, err
	}
	if err := parent("tom", "liz"); err != nil {
		return 0, 0, err
	}
	if err := parent("bob", "ann"); err != nil {
		return 0, 0, err
	}
	addr, err := p.CompileQuery([]asm.Goal{
		asm.Call("parent", asm.Atom("tom"), asm.Var(0)),
	}, 1)
	return addr, 1, err
}

func buildPeano(p *asm.Program) (int, int, error) {
	// +(zero, N, N).
	if _, err := p.DefineClause("+", []asm.Term{
		asm.Atom("zero"), asm.Var(3), asm.Var(3),
	}, nil, 1); err != nil {
		return 0, 0, err
	}
	// +(succ(N), M, succ(K)) :- +(N, M, K).
	if _, err := p.DefineClause("+", []asm.Term{
		asm.Compound("succ", asm.Var(3)), asm.Var(4), asm.Compound("succ", asm.Var(5)),
	}, []asm.Goal{
		asm.Call("+", asm.Var(3), asm.Var(4), asm.Var(5)),
	}, 3); err != nil {
		return 0, 0, err
	}
	addr, err := p.CompileQuery([]asm.Goal{
		asm.Call("+", asm.Compound("succ", asm.Atom("zero")), asm.Compound("succ", asm.Atom("zero")), asm.Var(0)),
	}, 1)
	return addr, 1, err
}

func buildChoice(p *asm.Program) (int, int, error) {
	if _, err := p.DefineClause("p", []asm.Term{asm.Atom("a")}, nil, 0); err != nil {
		return 0, 0, err
	}
	if _, err := p.DefineClause("p", []asm.Term{asm.Atom("b")}, nil, 0); err != nil {
		return 0, 0, err
	}
	addr, err := p.CompileQuery([]asm.Goal{
		asm.Call("p", asm.Atom("b")),
	}, 0)
	return addr, 0, err
}

func buildCyclic(p *asm.Program) (int, int, error) {
	// =(X, X). -- the two parameter slots alias the same local
	// variable, so matching both against it unifies them together.
	if _, err := p.DefineClause("=", []asm.Term{
		asm.Var(2), asm.Var(2),
	}, nil, 1); err != nil {
		return 0, 0, err
	}
	addr, err := p.CompileQuery([]asm.Goal{
		asm.Call("=", asm.Var(0), asm.Compound("f", asm.Var(0))),
	}, 1)
	return addr, 1, err
}

func main() {
	a := readArgs()

	d, ok := demos[*a.demo]
	if !ok {
		log.Fatalf("unknown demo %q", *a.demo)
	}

	program := asm.New()
	queryAddr, numVars, err := d.build(program)
	if err != nil {
		log.Fatalf("assembling demo: %s", err.Error())
	}

	if *a.trace {
		fmt.Print(program.Disassemble())
	}

	memento := program.CreateMemento()
	m := zip.NewMachine(program, zip.DefaultConfig())

	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("?- %s\n", d.text)
	m.Reset(queryAddr)

	runOnce := func() {
		sol, err := m.Run()
		if err != nil {
			if _, ok := err.(zip.BacktrackExhaustedError); ok {
				fmt.Println("no")
				return
			}
			fmt.Println("ERROR: " + err.Error())
			program.RestoreMemento(memento)
			return
		}
		printSolution(m, sol, numVars)
	}

	runOnce()

	for {
		fmt.Print("?- ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}
		line = strings.TrimSpace(line)

		if line == "halt" {
			return
		}
		if line == ";" {
			sol, err := func() (zip.Solution, error) {
				varsOut, err := m.Backtrack()
				if err != nil {
					return zip.Solution{}, err
				}
				if *a.trace {
					printVarsOut(varsOut)
				}
				return m.Run()
			}()
			if err != nil {
				if _, ok := err.(zip.BacktrackExhaustedError); ok {
					fmt.Println("no")
					continue
				}
				fmt.Println("ERROR: " + err.Error())
				program.RestoreMemento(memento)
				continue
			}
			printSolution(m, sol, numVars)
			continue
		}

		// Bare newline: commit and reset for the next run of the same
		// demo query, rolling the code segment back to the memento
		// taken once the demo program and its query were assembled.
		program.RestoreMemento(memento)
		m.Reset(queryAddr)
		runOnce()
	}
}

// printVarsOut reports, for -trace, the cell addresses backtrack(vars_out)
// just reset to unbound. These are every trailed cell, not only the
// query variables printSolution shows.
func printVarsOut(varsOut []int) {
	if len(varsOut) == 0 {
		return
	}
	names := make([]string, len(varsOut))
	for i, addr := range varsOut {
		names[i] = zipterm.VarLabel(addr)
	}
	fmt.Println("; unbound: " + strings.Join(names, ", "))
}

func printSolution(m *zip.Machine, sol zip.Solution, numVars int) {
	for i := 0; i < numVars; i++ {
		term, err := zipterm.ReadTerm(m, sol.QueryFrame+i)
		if err != nil {
			fmt.Println("ERROR: " + err.Error())
			return
		}
		fmt.Printf("_%d = %s\n", i, zipterm.Write(term))
	}
	if numVars == 0 {
		fmt.Println("yes")
	}
}
