// Package zipterm renders the terms a query binds its variables to
// into readable Prolog syntax, for the REPL and for tracing.
package zipterm

import (
	"strings"
)

// FormatFunc wraps a piece of already-rendered text with a token's
// styling, e.g. color in Highlight and identity in Pretty.
type FormatFunc[T any] func(input string, token T) string

// treePrinter is a small indent-tracking writer shared by every
// tree-shaped renderer in this package.
type treePrinter[T any] struct {
	padStr *[]string
	output *strings.Builder
	format FormatFunc[T]
}

func newTreePrinter[T any](format FormatFunc[T]) *treePrinter[T] {
	return &treePrinter[T]{
		padStr: &[]string{},
		output: &strings.Builder{},
		format: format,
	}
}

func (tp *treePrinter[T]) indent(s string) {
	*tp.padStr = append(*tp.padStr, s)
}

func (tp *treePrinter[T]) unindent() {
	index := len(*tp.padStr) - 1
	*tp.padStr = (*tp.padStr)[:index]
}

func (tp *treePrinter[T]) padding() {
	for _, item := range *tp.padStr {
		tp.write(item)
	}
}

func (tp *treePrinter[T]) writel(s string) {
	tp.write(s)
	tp.output.WriteRune('\n')
}

func (tp *treePrinter[T]) write(s string) {
	tp.output.WriteString(s)
}

func (tp *treePrinter[T]) pwrite(s string) {
	tp.padding()
	tp.write(s)
}

// cycleMarker prefixes a rendered reference to a term already being
// expanded higher up the same tree, so a self-referential term prints
// as e.g. "*_G12" instead of the renderer looping forever.
const cycleMarker = "*"

func formatCycleRef(name string) string {
	return cycleMarker + name
}

var literalSanitizer = strings.NewReplacer(
	`"`, `\"`,
	`\`, `\\`,
	string('\n'), `\n`,
	string('\r'), `\r`,
	string('\t'), `\t`,
)

func escapeAtom(s string) string {
	return literalSanitizer.Replace(s)
}
