package scanner

// ParserMatch is an immutable record describing success or failure at a
// position, chained left-to-right through a parse via Previous(). Once
// constructed, a ParserMatch is never mutated except by SetThrough,
// which records the combinator boundary a match was produced through
// (used for diagnostics, not for the match's own offset/length).
type ParserMatch struct {
	source   MatchSource
	scanner  *Scanner
	offset   int
	length   int // -1 means no match; >= 0 means success (0 permitted)
	previous *ParserMatch
	through  MatchSource
	children []*ParserMatch
}

// Offset is the position this match starts at.
func (m *ParserMatch) Offset() int {
	if m == nil {
		return 0
	}
	return m.offset
}

// Length is the number of units matched, or -1 if this match failed.
func (m *ParserMatch) Length() int {
	if m == nil {
		return -1
	}
	return m.length
}

// Success reports whether this match represents a successful parse.
func (m *ParserMatch) Success() bool {
	return m != nil && m.length >= 0
}

// Right is the position immediately after this match: Offset() +
// max(Length(), 0).
func (m *ParserMatch) Right() int {
	if m == nil {
		return 0
	}
	if m.length < 0 {
		return m.offset
	}
	return m.offset + m.length
}

// Previous is the match immediately preceding this one in the same
// chain, or nil at the start of a chain.
func (m *ParserMatch) Previous() *ParserMatch {
	if m == nil {
		return nil
	}
	return m.previous
}

// Scanner is the scanner that produced this match.
func (m *ParserMatch) Scanner() *Scanner {
	if m == nil {
		return nil
	}
	return m.scanner
}

// SourceParser is the parser that produced this match.
func (m *ParserMatch) SourceParser() MatchSource {
	if m == nil {
		return nil
	}
	return m.source
}

// Tag reads the Tag of the producing parser, or "" if there is none.
func (m *ParserMatch) Tag() string {
	if m == nil || m.source == nil {
		return ""
	}
	return m.source.Tag()
}

// Scope reads the Scope of the producing parser, or NoScope if there is
// none.
func (m *ParserMatch) Scope() ScopeKind {
	if m == nil || m.source == nil {
		return NoScope
	}
	return m.source.Scope()
}

// Value is the substring [Offset(), Right()) from the scanner's
// transformed view. Returns "" for a failed match.
func (m *ParserMatch) Value() string {
	if !m.Success() {
		return ""
	}
	return m.scanner.Substring(m.offset, m.length)
}

// UntransformedValue is Value but read from the scanner's original,
// untransformed input.
func (m *ParserMatch) UntransformedValue() string {
	if !m.Success() {
		return ""
	}
	return m.scanner.UntransformedSubstring(m.offset, m.length)
}

// Through is the combinator-boundary parser recorded by SetThrough, or
// nil if none was set.
func (m *ParserMatch) Through() MatchSource {
	if m == nil {
		return nil
	}
	return m.through
}

// SetThrough records the combinator that produced/forwarded this match
// at a composite boundary (e.g. a Union recording which branch matched).
// It is the one mutation a ParserMatch allows after construction.
func (m *ParserMatch) SetThrough(source MatchSource) {
	if m == nil {
		return
	}
	m.through = source
}

// IsEmpty reports whether this is a successful zero-length match.
func (m *ParserMatch) IsEmpty() bool {
	return m.Success() && m.length == 0
}

// Children is the list of direct child matches a composite recorded
// when it built this match (via Scanner.CreateBranch), or nil for a
// terminal. A pass-through composite (Union, Exclusive, Difference,
// Forward) returns a child's match verbatim, so the result carries that
// child's own children. Package tree
// uses this to reconstruct parser-structural nodes without having to
// walk the diagnostic chain, which records attempts, not structure.
func (m *ParserMatch) Children() []*ParserMatch {
	if m == nil {
		return nil
	}
	return m.children
}
