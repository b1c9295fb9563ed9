// Package tree builds a parser-structural TreeNode from a
// scanner.ParserMatch, mirroring the shape of the Parser graph that
// produced it rather than the tag/scope grouping that package scope
// projects (see scope.ScopeNode for that view).
package tree

import (
	"github.com/ava12/peg/scanner"
)

// Node is one level of the parser-structural tree: the ParserMatch
// that produced it plus, for a composite, its direct children in
// left-to-right order.
type Node struct {
	match    *scanner.ParserMatch
	children []*Node
	parent   *Node
}

// Match is the ParserMatch this node was built from.
func (n *Node) Match() *scanner.ParserMatch {
	return n.match
}

// Tag is the Tag of the producing parser, or "" if none.
func (n *Node) Tag() string {
	return n.match.Tag()
}

// Scope is the Scope of the producing parser, or scanner.NoScope.
func (n *Node) Scope() scanner.ScopeKind {
	return n.match.Scope()
}

// Value is the matched substring.
func (n *Node) Value() string {
	return n.match.Value()
}

// Offset is the position this node's match starts at.
func (n *Node) Offset() int {
	return n.match.Offset()
}

// Right is the position immediately after this node's match.
func (n *Node) Right() int {
	return n.match.Right()
}

// Children is this node's direct children, or nil for a leaf.
func (n *Node) Children() []*Node {
	return n.children
}

// Parent is this node's parent, or nil at the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsLeaf reports whether this node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.children) == 0
}

// FromParserMatch builds a TreeNode from m. When prune is true, a node
// whose source parser has neither a Tag nor a Scope is collapsed into
// its single child (or dropped entirely if it has none); a pruned node
// with more than one child cannot be collapsed without losing
// structure, so it is kept. Original left-to-right order is always
// preserved.
func FromParserMatch(m *scanner.ParserMatch, prune bool) *Node {
	return fromParserMatch(m, prune, nil)
}

func fromParserMatch(m *scanner.ParserMatch, prune bool, parent *Node) *Node {
	if !m.Success() {
		return nil
	}

	node := &Node{match: m, parent: parent}
	for _, c := range m.Children() {
		child := fromParserMatch(c, prune, node)
		if child != nil {
			node.children = append(node.children, child)
		}
	}

	if prune && m.Tag() == "" && m.Scope() == scanner.NoScope {
		switch len(node.children) {
		case 0:
			return nil
		case 1:
			only := node.children[0]
			only.parent = parent
			return only
		}
	}

	return node
}

// Visitor is called for each node during Walk. Returning
// walkChildren=false skips this node's subtree; walkSiblings=false
// skips this node's remaining siblings (the walk then carries on with
// the parent's next sibling).
type Visitor func(n *Node) (walkChildren, walkSiblings bool)

// Walk performs a depth-first, left-to-right traversal of n, invoking
// visitor at each node.
func Walk(n *Node, visitor Visitor) {
	if n != nil {
		visitNode(n, visitor)
	}
}

func visitNode(n *Node, v Visitor) (keepGoing bool) {
	walkChildren, walkSiblings := v(n)
	if walkChildren {
		for _, c := range n.children {
			if !visitNode(c, v) {
				break
			}
		}
	}
	return walkSiblings
}

// Filter reports whether a node should be selected.
type Filter func(n *Node) bool

// Find collects every node in n's subtree (n included) matching f, in
// document order.
func Find(n *Node, f Filter) []*Node {
	var res []*Node
	Walk(n, func(nn *Node) (bool, bool) {
		if f(nn) {
			res = append(res, nn)
		}
		return true, true
	})
	return res
}

// ByTag builds a Filter matching any of the given tags.
func ByTag(tags ...string) Filter {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return func(n *Node) bool { return set[n.Tag()] }
}
