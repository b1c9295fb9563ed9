package parser

import (
	"github.com/ava12/peg/scanner"
)

func mustChildren(name string, children []Parser, min int) {
	if len(children) < min {
		panic(grammarError("%s requires at least %d child parser(s), got %d", name, min, len(children)))
	}
	for i, c := range children {
		if c == nil {
			panic(grammarError("%s: child %d is nil", name, i))
		}
	}
}

// Sequence matches its children in order, each starting where the
// previous one left off. The resulting match spans from the first
// child's offset through the last child's right edge; its Previous()
// chains through the last child's match.
type Sequence struct {
	base
	children []Parser
}

// Seq builds a parser matching all of children in order.
func Seq(children ...Parser) *Sequence {
	mustChildren("Sequence", children, 1)
	p := &Sequence{children: children}
	p.self = p
	return p
}

func (p *Sequence) Kind() Kind             { return KindSequence }
func (p *Sequence) ChildParsers() []Parser { return p.children }
func (p *Sequence) ShortDescription(depth int) string {
	return describeOr(p, func() string {
		if depth <= 0 {
			return "<sequence>"
		}
		return joinDescriptions(p.children, depth, " ")
	})
}

func (p *Sequence) TryMatch(sc *scanner.Scanner, prev *scanner.ParserMatch, allowAutoAdvance bool) *scanner.ParserMatch {
	prev, skip := advanceWithSkip(sc, p, prev, allowAutoAdvance)
	start := prev.Right()
	cur := prev
	children := make([]*scanner.ParserMatch, 0, len(p.children)+1)
	if skip != nil {
		children = append(children, skip)
	}
	for _, c := range p.children {
		m := c.TryMatch(sc, cur, true)
		if !m.Success() {
			return sc.NoMatch(p, prev)
		}
		cur = m
		children = append(children, m)
	}
	return sc.CreateBranch(p, start, cur.Right()-start, cur, children)
}

// Union is ordered choice: tries each child in order and returns the
// first successful match verbatim, without building a new summary
// match. If all children fail, fails at prev.
type Union struct {
	base
	children []Parser
}

// Or builds an ordered-choice parser trying children in order.
func Or(children ...Parser) *Union {
	mustChildren("Union", children, 2)
	p := &Union{children: children}
	p.self = p
	return p
}

func (p *Union) Kind() Kind             { return KindUnion }
func (p *Union) ChildParsers() []Parser { return p.children }
func (p *Union) IsOptional() bool {
	for _, c := range p.children {
		if c.IsOptional() {
			return true
		}
	}
	return false
}
func (p *Union) ShortDescription(depth int) string {
	return describeOr(p, func() string {
		if depth <= 0 {
			return "<choice>"
		}
		return joinDescriptions(p.children, depth, " | ")
	})
}

func (p *Union) TryMatch(sc *scanner.Scanner, prev *scanner.ParserMatch, allowAutoAdvance bool) *scanner.ParserMatch {
	prev = advance(sc, p, prev, allowAutoAdvance)
	for _, c := range p.children {
		m := c.TryMatch(sc, prev, true)
		if m.Success() {
			m.SetThrough(p)
			return m
		}
	}
	return sc.NoMatch(p, prev)
}

// Exclusive matches iff exactly one of its children matches, returning
// that child's match verbatim. Fails if zero or more than one child
// matches.
type Exclusive struct {
	base
	children []Parser
}

// Xor builds a parser matching iff exactly one of children matches.
func Xor(children ...Parser) *Exclusive {
	mustChildren("Exclusive", children, 2)
	p := &Exclusive{children: children}
	p.self = p
	return p
}

func (p *Exclusive) Kind() Kind             { return KindExclusive }
func (p *Exclusive) ChildParsers() []Parser { return p.children }
func (p *Exclusive) ShortDescription(depth int) string {
	return describeOr(p, func() string {
		if depth <= 0 {
			return "<xor>"
		}
		return joinDescriptions(p.children, depth, " ^ ")
	})
}

func (p *Exclusive) TryMatch(sc *scanner.Scanner, prev *scanner.ParserMatch, allowAutoAdvance bool) *scanner.ParserMatch {
	prev = advance(sc, p, prev, allowAutoAdvance)
	var winner *scanner.ParserMatch
	matches := 0
	for _, c := range p.children {
		m := c.TryMatch(sc, prev, true)
		if m.Success() {
			matches++
			winner = m
		}
	}
	if matches != 1 {
		return sc.NoMatch(p, prev)
	}
	winner.SetThrough(p)
	return winner
}

// Intersection matches iff both a and b match at prev, returning a
// success spanning the union of their two ranges. a is tried first,
// then b; both read from the same starting cursor, neither sees the
// other's consumption.
type Intersection struct {
	base
	a, b Parser
}

// And builds a parser matching iff both a and b match.
func And(a, b Parser) *Intersection {
	mustChildren("Intersection", []Parser{a, b}, 2)
	p := &Intersection{a: a, b: b}
	p.self = p
	return p
}

func (p *Intersection) Kind() Kind             { return KindIntersection }
func (p *Intersection) ChildParsers() []Parser { return []Parser{p.a, p.b} }
func (p *Intersection) ShortDescription(depth int) string {
	return describeOr(p, func() string {
		if depth <= 0 {
			return "<and>"
		}
		return joinDescriptions(p.ChildParsers(), depth, " & ")
	})
}

func (p *Intersection) TryMatch(sc *scanner.Scanner, prev *scanner.ParserMatch, allowAutoAdvance bool) *scanner.ParserMatch {
	prev = advance(sc, p, prev, allowAutoAdvance)
	am := p.a.TryMatch(sc, prev, true)
	bm := p.b.TryMatch(sc, prev, true)
	return sc.JoinMatches(p, am, bm, prev)
}

// Difference matches iff a matches and b fails at the same starting
// offset, regardless of how much b would have consumed had it
// succeeded; returns a's match verbatim.
type Difference struct {
	base
	a, b Parser
}

// Sub builds a parser matching a provided b does not also match at a's starting offset.
func Sub(a, b Parser) *Difference {
	mustChildren("Difference", []Parser{a, b}, 2)
	p := &Difference{a: a, b: b}
	p.self = p
	return p
}

func (p *Difference) Kind() Kind             { return KindDifference }
func (p *Difference) ChildParsers() []Parser { return []Parser{p.a, p.b} }
func (p *Difference) ShortDescription(depth int) string {
	return describeOr(p, func() string {
		if depth <= 0 {
			return "<difference>"
		}
		return joinDescriptions(p.ChildParsers(), depth, " - ")
	})
}

func (p *Difference) TryMatch(sc *scanner.Scanner, prev *scanner.ParserMatch, allowAutoAdvance bool) *scanner.ParserMatch {
	prev = advance(sc, p, prev, allowAutoAdvance)
	am := p.a.TryMatch(sc, prev, true)
	if !am.Success() {
		return sc.NoMatch(p, prev)
	}
	bm := p.b.TryMatch(sc, prev, true)
	if bm.Success() {
		return sc.NoMatch(p, prev)
	}
	am.SetThrough(p)
	return am
}
