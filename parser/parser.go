// Package parser defines the Parser contract together with the full
// combinator set: terminals (literal, character set, regex fragment,
// end-of-input, ...) and composites (sequence, ordered choice,
// repetition, difference, recursion, ...).
//
// A Parser graph is immutable once built and may be shared across
// threads for independent parses against distinct scanner.Scanner
// instances.
package parser

import (
	"strings"

	"github.com/ava12/peg"
	"github.com/ava12/peg/scanner"
)

// Kind is a closed tagged variant over the fixed combinator set. Keeping
// dispatch over an enum (rather than open interface polymorphism)
// matches the fact that the combinator algebra itself is fixed: a
// Kind switch is exhaustive and lets result-transform code (package
// tree, package scope) reason about structure without type-asserting
// every concrete type.
type Kind int

const (
	KindLiteralChar Kind = iota
	KindLiteralString
	KindCharacterSet
	KindAnyCharacter
	KindEndOfInput
	KindEmpty
	KindRegex
	KindRemainingLength
	KindSequence
	KindUnion
	KindExclusive
	KindIntersection
	KindDifference
	KindRepetition
	KindDelimitedList
	KindTerminatedList
	KindForward
)

// Parser is the common contract every terminal and composite satisfies:
// try_match plus optional tag/scope metadata and structural
// introspection. It embeds scanner.Matcher and scanner.MatchSource so a
// Parser is usable anywhere the scanner package expects either.
type Parser interface {
	scanner.Matcher
	scanner.MatchSource

	// Kind reports which combinator this is.
	Kind() Kind

	// ChildParsers returns this parser's direct children, or nil for a
	// terminal.
	ChildParsers() []Parser

	// IsOptional reports whether this parser can succeed while consuming
	// nothing and being entirely absent (used by diagnostics and by
	// left-recursion analysis).
	IsOptional() bool

	// ShortDescription renders a short, human-readable description of
	// the parser: its quoted tag if set, otherwise a rendering of its
	// shape. depth bounds recursion into children (composites must not
	// loop forever over a self-referential Forward).
	ShortDescription(depth int) string

	// WithTag sets this parser's tag and returns it for chaining.
	WithTag(tag string) Parser

	// WithScope sets this parser's scope kind and returns it for
	// chaining.
	WithScope(sc scanner.ScopeKind) Parser
}

// base provides the Tag/Scope/WithTag/WithScope/IsOptional bookkeeping
// shared by every terminal and composite. Each concrete type embeds
// base and sets base.self to itself in its constructor so the fluent
// WithTag/WithScope methods can return the right interface value.
type base struct {
	self  Parser
	tag   string
	scope scanner.ScopeKind
}

func (b *base) Tag() string {
	return b.tag
}

func (b *base) Scope() scanner.ScopeKind {
	return b.scope
}

func (b *base) WithTag(tag string) Parser {
	b.tag = tag
	return b.self
}

func (b *base) WithScope(sc scanner.ScopeKind) Parser {
	b.scope = sc
	return b.self
}

func (b *base) IsOptional() bool {
	return false
}

// advance applies the scanner's auto-advance hook to prev unless the
// caller disallowed it. Every Parser's TryMatch calls this first,
// terminals included: composites pass allowAutoAdvance=true to every
// child, so a terminal runs the auto-advance parser itself before
// reading. Inside a composite that run starts where the composite's
// own run ended and normally matches nothing. The scanner passes false
// only for the auto-advance sub-parser's own run.
func advance(sc *scanner.Scanner, self scanner.MatchSource, prev *scanner.ParserMatch, allowAutoAdvance bool) *scanner.ParserMatch {
	if allowAutoAdvance {
		return sc.DoAutoAdvance(self, prev)
	}
	return prev
}

// advanceWithSkip is advance plus, when sc.IncludeSkipped() is set and
// auto-advance produced a genuine non-empty match, that match itself
// as skip. Used only by the composites that already build a
// structural children list (Sequence, Repetition, DelimitedList,
// TerminatedList), which record skip as a leading child so skipped
// material (e.g. whitespace) stays visible to package tree/scope
// instead of vanishing once consumed.
func advanceWithSkip(sc *scanner.Scanner, self scanner.MatchSource, prev *scanner.ParserMatch, allowAutoAdvance bool) (cur, skip *scanner.ParserMatch) {
	cur = advance(sc, self, prev, allowAutoAdvance)
	if sc.IncludeSkipped() && allowAutoAdvance && cur != prev && cur.Success() && !cur.IsEmpty() {
		skip = cur
	}
	return cur, skip
}

func quoted(s string) string {
	return "'" + s + "'"
}

// describeOr renders p's own tag if set, otherwise falls back to a
// description produced by the given function.
func describeOr(p Parser, fallback func() string) string {
	if p.Tag() != "" {
		return quoted(p.Tag())
	}
	return fallback()
}

func grammarError(format string, params ...interface{}) *peg.Error {
	return peg.FormatError(peg.GrammarErrors, format, params...)
}

func joinDescriptions(children []Parser, depth int, sep string) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = c.ShortDescription(depth - 1)
	}
	return strings.Join(parts, sep)
}
