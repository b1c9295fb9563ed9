// Package scope projects a parse's match chain into a ScopeNode
// hierarchy driven by each match's Scope metadata (scanner.OpenScope,
// scanner.CloseScope, scanner.Enclosed, scanner.Pivot), followed by a
// pivot rewrite pass that folds Pivot-tagged operators into their own
// subtrees for operator-precedence-style layouts. This is distinct
// from package tree's parser-structural view: scope groups by
// tag/scope metadata, tree mirrors the parser graph itself.
package scope

import (
	"fmt"

	"github.com/ava12/peg/scanner"
)

// PivotFold is the result of folding a Pivot-scoped match into its own
// subtree: Left holds every sibling since the previous fold (or start),
// Right holds every sibling up to the next pivot (or end).
type PivotFold struct {
	Pivot *scanner.ParserMatch
	Left  []Child
	Right []Child
}

// Child is one entry in a ScopeNode's ordered child list: exactly one
// of Data, Scope or Pivot is set.
type Child struct {
	Data  *scanner.ParserMatch
	Scope *ScopeNode
	Pivot *PivotFold
}

// isPivot reports whether this child is an un-rewritten Pivot data
// leaf (true only before FromParserMatch's pivot rewrite pass runs).
func (c Child) isPivot() bool {
	return c.Data != nil && c.Data.Scope() == scanner.Pivot
}

// ScopeNode is one level of the scope hierarchy. Opening and Closing
// record the matches that bounded it: both are the same match for an
// Enclosed scope, distinct matches for an OpenScope/CloseScope pair,
// and Closing is nil if the input closed fewer scopes than it opened.
type ScopeNode struct {
	parent   *ScopeNode
	opening  *scanner.ParserMatch
	closing  *scanner.ParserMatch
	children []Child
}

// Parent is this node's enclosing scope, or nil at the root.
func (n *ScopeNode) Parent() *ScopeNode { return n.parent }

// Opening is the match that opened this scope.
func (n *ScopeNode) Opening() *scanner.ParserMatch { return n.opening }

// Closing is the match that closed this scope, or nil if unclosed.
func (n *ScopeNode) Closing() *scanner.ParserMatch { return n.closing }

// Children is this node's ordered content.
func (n *ScopeNode) Children() []Child { return n.children }

// Fault describes a structural problem found while building the scope
// tree, e.g. an unmatched CloseScope.
type Fault struct {
	Message string
	Offset  int
}

type builder struct {
	cursor    *ScopeNode
	scopeEnds []int
	faults    []Fault
	faulted   bool
}

// FromParserMatch walks m's structural descendants depth-first,
// filtering to matches that are non-empty and either tagged or scoped,
// and builds a ScopeNode tree from the resulting event stream. It then
// runs the pivot rewrite pass over every nested scope. Any faults
// encountered (e.g. more closes than opens) are returned alongside the
// root; processing stops at the first such fault.
func FromParserMatch(m *scanner.ParserMatch) (*ScopeNode, []Fault) {
	root := &ScopeNode{}
	b := &builder{cursor: root}
	b.walk(m)
	rewritePivots(root)
	return root, b.faults
}

func (b *builder) walk(m *scanner.ParserMatch) {
	if b.faulted || !m.Success() {
		return
	}

	qualifies := !m.IsEmpty() && (m.Tag() != "" || m.Scope() != scanner.NoScope)
	if !qualifies {
		for _, c := range m.Children() {
			b.walk(c)
			if b.faulted {
				return
			}
		}
		return
	}

	b.emit(m)
}

func (b *builder) emit(m *scanner.ParserMatch) {
	switch m.Scope() {
	case scanner.OpenScope:
		next := &ScopeNode{parent: b.cursor, opening: m}
		b.cursor.children = append(b.cursor.children, Child{Scope: next})
		b.cursor = next

	case scanner.CloseScope:
		b.cursor.closing = m
		if b.cursor.parent == nil {
			b.faults = append(b.faults, Fault{Message: "more closes than opens", Offset: m.Offset()})
			b.faulted = true
			return
		}
		b.cursor = b.cursor.parent

	case scanner.Enclosed:
		next := &ScopeNode{parent: b.cursor, opening: m, closing: m}
		saved := b.cursor
		b.cursor = next
		for _, c := range m.Children() {
			b.walk(c)
			if b.faulted {
				break
			}
		}
		b.cursor = saved
		b.cursor.children = append(b.cursor.children, Child{Scope: next})
		b.scopeEnds = append(b.scopeEnds, m.Right())

	default: // scanner.NoScope (tagged) or scanner.Pivot
		b.cursor.children = append(b.cursor.children, Child{Data: m})
	}

	for len(b.scopeEnds) > 0 && b.scopeEnds[len(b.scopeEnds)-1] <= m.Right() {
		b.scopeEnds = b.scopeEnds[:len(b.scopeEnds)-1]
	}
}

func rewritePivots(n *ScopeNode) {
	for _, c := range n.children {
		if c.Scope != nil {
			rewritePivots(c.Scope)
		}
	}
	n.children = foldPivots(n.children)
}

// foldPivots replaces every Pivot data child with a PivotFold spanning
// the siblings since the previous fold (or start) and the siblings up
// to the next pivot (or end), left to right. Processing pivots in
// order this way naturally produces a left-associative fold: each
// fold's Left includes the previous fold as its sole element once one
// exists.
func foldPivots(children []Child) []Child {
	if !anyPivot(children) {
		return children
	}

	var out []Child
	lastBoundary := 0
	i := 0
	for i < len(children) {
		c := children[i]
		if !c.isPivot() {
			out = append(out, c)
			i++
			continue
		}

		left := append([]Child(nil), out[lastBoundary:]...)
		j := i + 1
		var right []Child
		for j < len(children) && !children[j].isPivot() {
			right = append(right, children[j])
			j++
		}

		fold := Child{Pivot: &PivotFold{Pivot: c.Data, Left: left, Right: right}}
		out = append(out[:lastBoundary], fold)
		lastBoundary = len(out) - 1
		i = j
	}
	return out
}

func anyPivot(children []Child) bool {
	for _, c := range children {
		if c.isPivot() {
			return true
		}
	}
	return false
}

// String renders a compact, indentation-free description of a fault,
// suitable for inclusion in a peg.Error message.
func (f Fault) String() string {
	return fmt.Sprintf("%s at offset %d", f.Message, f.Offset)
}
