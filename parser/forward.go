package parser

import (
	"github.com/ava12/peg/scanner"
)

// Forward is a mutable holder enabling self-referential grammars: build
// it first, wire it into the children of other parsers, then call
// Assign once the real parser is known. The graph itself stays
// immutable after Assign; only the holder's single slot is mutated,
// and only during grammar construction.
type Forward struct {
	base
	name   string
	target Parser
}

// NewForward builds an unassigned forward reference. name is used only
// in diagnostics (GrammarError messages, ShortDescription).
func NewForward(name string) *Forward {
	p := &Forward{name: name}
	p.self = p
	return p
}

// Assign wires the real parser into this holder. It runs a
// best-effort static left-recursion check first: if target can reach
// this same holder without consuming input first, Assign refuses and
// returns a GrammarError instead of installing a parser that would
// loop forever on every parse. This catches the common case (a
// directly or indirectly left-recursive rule) at construction time;
// a dynamic per-parse guard in TryMatch catches what this static walk
// cannot see (e.g. mutual Forwards not yet assigned when the walk ran).
func (p *Forward) Assign(target Parser) error {
	if target == nil {
		return grammarError("Forward %q: cannot assign a nil parser", p.name)
	}
	if leftReachable(target, p, make(map[Parser]bool)) {
		return grammarError("Forward %q: target is left-recursive", p.name)
	}
	p.target = target
	return nil
}

// MustAssign is Assign but panics on error.
func (p *Forward) MustAssign(target Parser) {
	if err := p.Assign(target); err != nil {
		panic(err)
	}
}

func (p *Forward) Kind() Kind             { return KindForward }
func (p *Forward) ChildParsers() []Parser {
	if p.target == nil {
		return nil
	}
	return []Parser{p.target}
}
func (p *Forward) IsOptional() bool {
	return p.target != nil && p.target.IsOptional()
}
func (p *Forward) ShortDescription(depth int) string {
	return describeOr(p, func() string {
		if p.name != "" {
			return p.name
		}
		return "<forward>"
	})
}

type forwardState struct {
	activeOffsets map[int]bool
}

func (p *Forward) TryMatch(sc *scanner.Scanner, prev *scanner.ParserMatch, allowAutoAdvance bool) *scanner.ParserMatch {
	if p.target == nil {
		panic(grammarError("Forward %q: used before Assign", p.name))
	}

	prev = advance(sc, p, prev, allowAutoAdvance)
	offset := prev.Right()

	raw, _ := sc.GetContext(p)
	state, _ := raw.(*forwardState)
	if state == nil {
		state = &forwardState{activeOffsets: make(map[int]bool)}
		sc.SetContext(p, state)
	}

	if state.activeOffsets[offset] {
		return sc.NoMatch(p, prev)
	}

	state.activeOffsets[offset] = true
	m := p.target.TryMatch(sc, prev, true)
	delete(state.activeOffsets, offset)

	if !m.Success() {
		return sc.NoMatch(p, prev)
	}
	if m.Offset() == prev.Offset() && m.Right() == prev.Right() {
		return sc.NoMatch(p, prev)
	}
	m.SetThrough(p)
	return m
}

// leftReachable reports whether target can match while consuming
// nothing before reaching holder again, i.e. whether holder is
// left-recursive through target. seen guards against infinite descent
// through an already-assigned cyclic graph.
func leftReachable(target Parser, holder *Forward, seen map[Parser]bool) bool {
	if target == nil {
		return false
	}
	if target == Parser(holder) {
		return true
	}
	if seen[target] {
		return false
	}
	seen[target] = true

	switch target.Kind() {
	case KindSequence:
		for _, c := range target.ChildParsers() {
			if leftReachable(c, holder, seen) {
				return true
			}
			if !c.IsOptional() {
				return false
			}
		}
		return false

	case KindUnion, KindExclusive:
		for _, c := range target.ChildParsers() {
			if leftReachable(c, holder, seen) {
				return true
			}
		}
		return false

	case KindIntersection, KindDifference:
		children := target.ChildParsers()
		return len(children) > 0 && leftReachable(children[0], holder, seen)

	case KindRepetition, KindForward:
		children := target.ChildParsers()
		return len(children) > 0 && leftReachable(children[0], holder, seen)

	case KindDelimitedList, KindTerminatedList:
		children := target.ChildParsers()
		return len(children) > 0 && leftReachable(children[0], holder, seen)

	default:
		return false
	}
}
