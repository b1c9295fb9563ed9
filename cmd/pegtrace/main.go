// Command pegtrace drives the arithmetic sample grammar from the
// command line: evaluate an expression, dump its parser-structural or
// scope tree, list its tagged tokens, or watch a file and re-evaluate
// it on every change.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
