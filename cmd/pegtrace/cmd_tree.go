package main

import (
	"fmt"
	"io"
	"strings"

	cerrors "github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/ava12/peg/examples/arithmetic"
	"github.com/ava12/peg/scope"
	"github.com/ava12/peg/tree"
)

func newTreeCmd(logger *logr.Logger) *cobra.Command {
	var scoped bool

	cmd := &cobra.Command{
		Use:   "tree <expression>",
		Short: "Print the parse tree for an arithmetic expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := arithmetic.New()
			m, err := arithmetic.Parse(g, args[0])
			if err != nil {
				return cerrors.Wrapf(err, "parse %q", args[0])
			}

			if scoped {
				node, faults := scope.FromParserMatch(m)
				for _, f := range faults {
					logger.Info("scope fault", "detail", f.String())
				}
				printScopeNode(cmd.OutOrStdout(), node, 0)
				return nil
			}

			root := tree.FromParserMatch(m, true)
			printTreeNode(cmd.OutOrStdout(), root, 0)
			return nil
		},
	}

	cmd.Flags().BoolVar(&scoped, "scope", false, "print the tag/scope grouping instead of the parser-structural tree")

	return cmd
}

func printTreeNode(w io.Writer, n *tree.Node, depth int) {
	if n == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	tag := n.Tag()
	if tag == "" {
		tag = "-"
	}
	fmt.Fprintf(w, "%s%s %q\n", indent, tag, n.Value())
	for _, c := range n.Children() {
		printTreeNode(w, c, depth+1)
	}
}

func printScopeNode(w io.Writer, n *scope.ScopeNode, depth int) {
	if n == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%sscope\n", indent)
	for _, c := range n.Children() {
		switch {
		case c.Data != nil:
			fmt.Fprintf(w, "%s  %q\n", indent, c.Data.Value())
		case c.Scope != nil:
			printScopeNode(w, c.Scope, depth+1)
		case c.Pivot != nil:
			fmt.Fprintf(w, "%s  pivot %q\n", indent, c.Pivot.Pivot.Value())
		}
	}
}
