package parser

import (
	"github.com/ava12/peg/scanner"
)

// Repetition greedily matches child until it fails or max repetitions
// are reached, failing overall if fewer than min repetitions succeed.
// A negative max means unbounded.
type Repetition struct {
	base
	child    Parser
	min, max int
}

// Rep builds a parser matching child between min and max times
// (inclusive). A negative max means unbounded.
func Rep(child Parser, min, max int) *Repetition {
	mustChildren("Repetition", []Parser{child}, 1)
	if min < 0 {
		panic(grammarError("Repetition: min must be >= 0, got %d", min))
	}
	if max >= 0 && max < min {
		panic(grammarError("Repetition: max (%d) must be >= min (%d)", max, min))
	}
	p := &Repetition{child: child, min: min, max: max}
	p.self = p
	return p
}

// Opt builds a parser matching child zero or one times.
func Opt(child Parser) *Repetition { return Rep(child, 0, 1) }

// Star builds a parser matching child zero or more times.
func Star(child Parser) *Repetition { return Rep(child, 0, -1) }

// Plus builds a parser matching child one or more times.
func Plus(child Parser) *Repetition { return Rep(child, 1, -1) }

func (p *Repetition) Kind() Kind             { return KindRepetition }
func (p *Repetition) ChildParsers() []Parser { return []Parser{p.child} }
func (p *Repetition) IsOptional() bool       { return p.min == 0 }
func (p *Repetition) ShortDescription(depth int) string {
	return describeOr(p, func() string {
		if depth <= 0 {
			return "<repetition>"
		}
		return p.child.ShortDescription(depth-1) + "*"
	})
}

func (p *Repetition) TryMatch(sc *scanner.Scanner, prev *scanner.ParserMatch, allowAutoAdvance bool) *scanner.ParserMatch {
	prev, skip := advanceWithSkip(sc, p, prev, allowAutoAdvance)
	start := prev.Right()
	cur := prev
	var children []*scanner.ParserMatch
	if skip != nil {
		children = append(children, skip)
	}

	reps := 0
	for p.max < 0 || reps < p.max {
		m := p.child.TryMatch(sc, cur, true)
		if !m.Success() {
			break
		}
		noProgress := m.IsEmpty() && m.Right() == cur.Right()
		cur = m
		children = append(children, m)
		reps++
		if noProgress {
			break
		}
	}

	if reps < p.min {
		return sc.NoMatch(p, prev)
	}
	return sc.CreateBranch(p, start, cur.Right()-start, cur, children)
}

// DelimitedList matches item (sep item)*: at least one item, with sep
// between successive items. A trailing sep is not consumed: if, after
// a successful item and sep, the next item fails, the list rewinds to
// just after the last successful item.
type DelimitedList struct {
	base
	item, sep Parser
}

// Delimited builds a parser matching item % sep.
func Delimited(item, sep Parser) *DelimitedList {
	mustChildren("DelimitedList", []Parser{item, sep}, 2)
	p := &DelimitedList{item: item, sep: sep}
	p.self = p
	return p
}

func (p *DelimitedList) Kind() Kind             { return KindDelimitedList }
func (p *DelimitedList) ChildParsers() []Parser { return []Parser{p.item, p.sep} }
func (p *DelimitedList) ShortDescription(depth int) string {
	return describeOr(p, func() string {
		if depth <= 0 {
			return "<delimited list>"
		}
		return p.item.ShortDescription(depth-1) + " % " + p.sep.ShortDescription(depth-1)
	})
}

func (p *DelimitedList) TryMatch(sc *scanner.Scanner, prev *scanner.ParserMatch, allowAutoAdvance bool) *scanner.ParserMatch {
	prev, skip := advanceWithSkip(sc, p, prev, allowAutoAdvance)
	start := prev.Right()

	first := p.item.TryMatch(sc, prev, true)
	if !first.Success() {
		return sc.NoMatch(p, prev)
	}
	cur := first
	last := first
	var children []*scanner.ParserMatch
	if skip != nil {
		children = append(children, skip)
	}
	children = append(children, first)

	for {
		sepMatch := p.sep.TryMatch(sc, cur, true)
		if !sepMatch.Success() {
			break
		}
		itemMatch := p.item.TryMatch(sc, sepMatch, true)
		if !itemMatch.Success() {
			break
		}
		cur = itemMatch
		last = itemMatch
		children = append(children, sepMatch, itemMatch)
	}

	return sc.CreateBranch(p, start, last.Right()-start, last, children)
}

// TerminatedList matches (item sep)+: one or more item-then-sep pairs.
// If item succeeds but sep fails, the list rewinds to before that item
// and stops at the previous sep.
type TerminatedList struct {
	base
	item, sep Parser
}

// Terminated builds a parser matching item < sep.
func Terminated(item, sep Parser) *TerminatedList {
	mustChildren("TerminatedList", []Parser{item, sep}, 2)
	p := &TerminatedList{item: item, sep: sep}
	p.self = p
	return p
}

func (p *TerminatedList) Kind() Kind             { return KindTerminatedList }
func (p *TerminatedList) ChildParsers() []Parser { return []Parser{p.item, p.sep} }
func (p *TerminatedList) ShortDescription(depth int) string {
	return describeOr(p, func() string {
		if depth <= 0 {
			return "<terminated list>"
		}
		return p.item.ShortDescription(depth-1) + " < " + p.sep.ShortDescription(depth-1)
	})
}

func (p *TerminatedList) TryMatch(sc *scanner.Scanner, prev *scanner.ParserMatch, allowAutoAdvance bool) *scanner.ParserMatch {
	prev, skip := advanceWithSkip(sc, p, prev, allowAutoAdvance)
	start := prev.Right()
	cur := prev
	var children []*scanner.ParserMatch
	if skip != nil {
		children = append(children, skip)
	}

	pairs := 0
	for {
		itemMatch := p.item.TryMatch(sc, cur, true)
		if !itemMatch.Success() {
			break
		}
		sepMatch := p.sep.TryMatch(sc, itemMatch, true)
		if !sepMatch.Success() {
			break
		}
		cur = sepMatch
		children = append(children, itemMatch, sepMatch)
		pairs++
	}

	if pairs == 0 {
		return sc.NoMatch(p, prev)
	}
	return sc.CreateBranch(p, start, cur.Right()-start, cur, children)
}
