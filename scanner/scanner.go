// Package scanner owns the input buffer for a parse and produces the
// immutable ParserMatch values that combinators chain together.
//
// A Scanner is exclusively owned by one parse at a time: it accumulates
// furthest-failure diagnostics and per-parser context as the parse
// progresses and must not be shared between concurrent parses. A Parser
// graph built from package parser is immutable and may be reused across
// scanners.
package scanner

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ava12/peg"
)

// ScopeKind classifies how a parser's matches should be folded into a
// ScopeNode hierarchy by package scope.
type ScopeKind int

const (
	NoScope ScopeKind = iota
	OpenScope
	CloseScope
	Enclosed
	Pivot
)

func (k ScopeKind) String() string {
	switch k {
	case OpenScope:
		return "OpenScope"
	case CloseScope:
		return "CloseScope"
	case Enclosed:
		return "Enclosed"
	case Pivot:
		return "Pivot"
	default:
		return "None"
	}
}

// MatchSource is the narrow contract a ParserMatch needs from the parser
// that produced it: just enough for the tag/scope post-processors in
// packages tree and scope. The full parser.Parser interface satisfies
// this structurally; package scanner never imports package parser.
type MatchSource interface {
	Tag() string
	Scope() ScopeKind
}

// Matcher is the contract a Scanner needs in order to run a sub-parser,
// used for the auto-advance hook. parser.Parser satisfies this too.
type Matcher interface {
	TryMatch(sc *Scanner, prev *ParserMatch, allowAutoAdvance bool) *ParserMatch
}

// CaseTransform selects the view the Scanner presents to terminals.
type CaseTransform int

const (
	NoCaseTransform CaseTransform = iota
	LowerCase
)

// Options configures a new Scanner.
type Options struct {
	// AutoAdvance is invoked between combinator children when auto-advance
	// is allowed, typically a whitespace/comment skipper.
	AutoAdvance Matcher

	// CaseTransform selects the transformed view terminals read from.
	CaseTransform CaseTransform

	// IncludeSkipped, when true, makes composites that build a
	// structural children list (Sequence, Repetition, DelimitedList,
	// TerminatedList) record a non-empty auto-advance match as a child
	// alongside their own, instead of silently discarding it. Off by
	// default: a grammar that never asks for skipped material back
	// gets the same tree it always did.
	IncludeSkipped bool
}

// failurePoint records one attempted-and-failed match at the deepest
// position reached since the last success.
type failurePoint struct {
	tag      string
	position int
}

// Scanner owns the input buffer for exactly one parse.
type Scanner struct {
	input       string
	transformed string

	autoAdvance    Matcher
	includeSkipped bool
	advancing      bool

	lineStarts    []int
	prevLineIndex int

	furthestMatch *ParserMatch
	furthestTest  *ParserMatch
	failurePoints []failurePoint
	lastTag       string

	contexts map[MatchSource]interface{}

	completed bool
}

// New creates a Scanner over input. The transformed view (what terminals
// actually read) is derived from input according to opts.CaseTransform.
func New(input string, opts Options) *Scanner {
	transformed := input
	if opts.CaseTransform == LowerCase {
		transformed = strings.ToLower(input)
	}

	s := &Scanner{
		input:          input,
		transformed:    transformed,
		autoAdvance:    opts.AutoAdvance,
		includeSkipped: opts.IncludeSkipped,
		prevLineIndex:  -1,
	}
	s.indexLines()
	return s
}

// IncludeSkipped reports whether auto-advance matches should be
// retained as structural children, per Options.IncludeSkipped.
func (s *Scanner) IncludeSkipped() bool {
	return s.includeSkipped
}

func (s *Scanner) indexLines() {
	lineCnt := strings.Count(s.input, "\n") + 1
	s.lineStarts = make([]int, lineCnt)
	j := 1
	for i := 0; i < len(s.input) && j < lineCnt; i++ {
		if s.input[i] == '\n' {
			s.lineStarts[j] = i + 1
			j++
		}
	}
}

// Input returns the original, untransformed input.
func (s *Scanner) Input() string {
	return s.input
}

// Transformed returns the view terminals read from.
func (s *Scanner) Transformed() string {
	return s.transformed
}

// Len returns the length of the input in bytes.
func (s *Scanner) Len() int {
	return len(s.input)
}

// Completed reports whether Complete has been called.
func (s *Scanner) Completed() bool {
	return s.completed
}

// Complete marks the scanner unusable. After it, PeekRune, Substring,
// UntransformedSubstring and IndexOf panic with a *peg.Error, matching
// the "scanner misuse is non-recoverable" policy: a completed scanner
// has no legitimate caller left to hand a recovered error to. Input,
// Transformed, Len and EndOfInput do not check and keep answering.
func (s *Scanner) Complete() {
	s.completed = true
}

func (s *Scanner) checkReadable() {
	if s.completed {
		panic(peg.FormatError(peg.ScannerErrors, "scanner read after complete()"))
	}
}

// EndOfInput reports whether offset is at or past the end of input.
func (s *Scanner) EndOfInput(offset int) bool {
	return offset >= len(s.input)
}

// PeekRune decodes the rune at offset in the transformed view, returning
// its size in bytes. Returns (0, 0) past the end of input.
func (s *Scanner) PeekRune(offset int) (r rune, size int) {
	s.checkReadable()
	if offset < 0 || offset >= len(s.transformed) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(s.transformed[offset:])
}

func substr(str string, offset, length int) string {
	if length < 0 {
		end := offset
		offset = end + length
		if offset < 0 {
			offset = 0
		}
		if end > len(str) {
			end = len(str)
		}
		if end < offset {
			return ""
		}
		return str[offset:end]
	}

	if offset < 0 {
		offset = 0
	}
	if offset > len(str) {
		offset = len(str)
	}
	end := offset + length
	if end > len(str) {
		end = len(str)
	}
	if end < offset {
		end = offset
	}
	return str[offset:end]
}

// Substring returns a view of the transformed input. A negative length
// means "the |length| units ending at offset".
func (s *Scanner) Substring(offset, length int) string {
	s.checkReadable()
	return substr(s.transformed, offset, length)
}

// UntransformedSubstring is Substring over the original input.
func (s *Scanner) UntransformedSubstring(offset, length int) string {
	s.checkReadable()
	return substr(s.input, offset, length)
}

// IndexOf returns the first occurrence of needle on or after offset, or
// -1. caseSensitive selects whether the comparison runs against the
// original input or against a lowercased copy of the transformed view
// with a lowercased needle.
func (s *Scanner) IndexOf(offset int, needle string, caseSensitive bool) int {
	s.checkReadable()
	view := s.input
	n := needle
	if !caseSensitive {
		view = strings.ToLower(s.transformed)
		n = strings.ToLower(needle)
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(view) {
		return -1
	}
	idx := strings.Index(view[offset:], n)
	if idx < 0 {
		return -1
	}
	return offset + idx
}

// LineCol returns the 1-based line and column for a byte offset into the
// original input, using the same binary-search-with-cache approach as
// llx's source.Source.
func (s *Scanner) LineCol(offset int) (line, col int) {
	var lineIndex int
	if offset < 0 {
		offset = 0
		lineIndex = 0
	} else if offset >= len(s.input) {
		offset = len(s.input)
		lineIndex = len(s.lineStarts) - 1
	} else {
		lineIndex = s.findLineIndex(offset)
	}

	lineStart := s.lineStarts[lineIndex]
	return lineIndex + 1, utf8.RuneCountInString(s.input[lineStart:offset]) + 1
}

func (s *Scanner) findLineIndex(pos int) int {
	if s.prevLineIndex >= 0 && s.lineStarts[s.prevLineIndex] <= pos {
		lineIndex := s.prevLineIndex
		last := len(s.lineStarts) - 1
		for lineIndex <= last && s.lineStarts[lineIndex] <= pos {
			lineIndex++
		}
		lineIndex--
		s.prevLineIndex = lineIndex
		return lineIndex
	}

	leftIndex := 0
	rightIndex := len(s.lineStarts) - 1
	if s.prevLineIndex >= 0 {
		rightIndex = s.prevLineIndex
	}
	index := 0
	for leftIndex < rightIndex {
		index = (leftIndex + rightIndex + 1) >> 1
		lineStart := s.lineStarts[index]
		if lineStart == pos {
			s.prevLineIndex = index
			return index
		}
		if lineStart < pos {
			leftIndex = index
		} else {
			rightIndex = index - 1
			index = rightIndex
		}
	}
	s.prevLineIndex = leftIndex
	return leftIndex
}

// SetContext stores per-parser, per-parse mutable state keyed by parser
// identity. Used by the parser.Forward combinator for its
// left-recursion guard.
func (s *Scanner) SetContext(source MatchSource, value interface{}) {
	if s.contexts == nil {
		s.contexts = make(map[MatchSource]interface{})
	}
	s.contexts[source] = value
}

// GetContext retrieves per-parser, per-parse state previously stored
// with SetContext.
func (s *Scanner) GetContext(source MatchSource) (interface{}, bool) {
	v, ok := s.contexts[source]
	return v, ok
}

// DoAutoAdvance runs the auto-advance sub-parser (if any) at
// previous.Right() with allowAutoAdvance=false, returning either its
// success or a null match at that position. With no auto-advance parser
// configured, or while the auto-advance parser itself is running (so its
// own children do not re-enter it), it returns previous unchanged.
func (s *Scanner) DoAutoAdvance(source MatchSource, previous *ParserMatch) *ParserMatch {
	if s.autoAdvance == nil || s.advancing {
		return previous
	}

	s.advancing = true
	m := s.autoAdvance.TryMatch(s, previous, false)
	s.advancing = false
	if m.Success() {
		return m
	}

	right := 0
	if previous != nil {
		right = previous.Right()
	}
	return s.NullMatch(source, right, previous)
}

// NoMatch records a failed attempt and returns a ParserMatch with
// Length() == -1 positioned at previous.Right() (or 0 with no previous).
func (s *Scanner) NoMatch(source MatchSource, previous *ParserMatch) *ParserMatch {
	offset := 0
	if previous != nil {
		offset = previous.Right()
	}
	m := &ParserMatch{source: source, scanner: s, offset: offset, length: -1, previous: previous}
	s.recordAttempt(m)
	return m
}

// NullMatch builds an internal length-(-1) sentinel at offset without
// touching diagnostics. Used by DoAutoAdvance and by combinators that
// need a placeholder cursor.
func (s *Scanner) NullMatch(source MatchSource, offset int, previous *ParserMatch) *ParserMatch {
	return &ParserMatch{source: source, scanner: s, offset: offset, length: -1, previous: previous}
}

// EmptyMatch returns a zero-length success at offset.
func (s *Scanner) EmptyMatch(source MatchSource, offset int, previous *ParserMatch) *ParserMatch {
	m := &ParserMatch{source: source, scanner: s, offset: offset, length: 0, previous: previous}
	s.recordAttempt(m)
	return m
}

// CreateMatch returns a success of the given length at offset.
func (s *Scanner) CreateMatch(source MatchSource, offset, length int, previous *ParserMatch) *ParserMatch {
	m := &ParserMatch{source: source, scanner: s, offset: offset, length: length, previous: previous}
	s.recordAttempt(m)
	return m
}

// CreateBranch is CreateMatch plus an explicit record of the direct
// child matches that compose it, read back later by package tree.
func (s *Scanner) CreateBranch(source MatchSource, offset, length int, previous *ParserMatch, children []*ParserMatch) *ParserMatch {
	m := s.CreateMatch(source, offset, length, previous)
	m.children = children
	return m
}

// JoinMatches builds a success spanning the union of a's and b's
// ranges, used by the Intersection composite, recording both as
// structural children so tags/scopes nested inside either operand
// stay reachable to package tree and package scope. Fails (via
// NoMatch) if either input failed.
func (s *Scanner) JoinMatches(source MatchSource, a, b, previous *ParserMatch) *ParserMatch {
	if !a.Success() || !b.Success() {
		return s.NoMatch(source, previous)
	}

	off := a.Offset()
	if b.Offset() < off {
		off = b.Offset()
	}
	right := a.Right()
	if b.Right() > right {
		right = b.Right()
	}
	return s.CreateBranch(source, off, right-off, previous, []*ParserMatch{a, b})
}

func (s *Scanner) recordAttempt(m *ParserMatch) {
	if s.furthestTest == nil || m.Right() > s.furthestTest.Right() {
		s.furthestTest = m
	}

	if m.Success() {
		if s.furthestMatch == nil || m.Right() > s.furthestMatch.Right() {
			s.furthestMatch = m
			if m.Tag() != "" {
				s.lastTag = m.Tag()
			}
		}
		s.ClearFailures()
	} else {
		s.AddFailure(m)
	}
}

// AddFailure records m as a diagnostic failure candidate. Only the
// deepest failure position is kept; ties accumulate distinct tags so
// multiple expectations can be reported together.
func (s *Scanner) AddFailure(m *ParserMatch) {
	pos := m.Offset()
	tag := m.Tag()

	if len(s.failurePoints) == 0 || pos > s.failurePoints[0].position {
		s.failurePoints = s.failurePoints[:0]
		if tag != "" {
			s.failurePoints = append(s.failurePoints, failurePoint{tag, pos})
		} else {
			s.failurePoints = append(s.failurePoints, failurePoint{"", pos})
		}
		return
	}

	if pos == s.failurePoints[0].position && tag != "" {
		for _, fp := range s.failurePoints {
			if fp.tag == tag {
				return
			}
		}
		s.failurePoints = append(s.failurePoints, failurePoint{tag, pos})
	}
}

// ClearFailures drops accumulated failure diagnostics, called whenever a
// success is recorded, however deep.
func (s *Scanner) ClearFailures() {
	s.failurePoints = nil
}

// ListFailures renders the furthest-failure diagnostic: "Expected 'tag',
// 'tag2' After 'priorTag' <text>◢<bad>◣<rest>". Returns "" if the
// furthest failure is shallower than minOffset or there is nothing to
// report.
func (s *Scanner) ListFailures(minOffset int, showDetails bool) string {
	if len(s.failurePoints) == 0 {
		return ""
	}

	pos := s.failurePoints[0].position
	if pos < minOffset {
		return ""
	}

	tags := make([]string, 0, len(s.failurePoints))
	for _, fp := range s.failurePoints {
		if fp.tag == "" {
			continue
		}
		tags = append(tags, "'"+fp.tag+"'")
	}

	var msg string
	if len(tags) > 0 {
		msg = "Expected " + strings.Join(tags, ", ")
	} else {
		msg = "Expected more input"
	}
	if s.lastTag != "" {
		msg += " After '" + s.lastTag + "'"
	}

	if showDetails {
		before := substr(s.input, 0, pos)
		badLen := 1
		if pos+badLen > len(s.input) {
			badLen = len(s.input) - pos
		}
		bad := substr(s.input, pos, badLen)
		rest := substr(s.input, pos+badLen, len(s.input)-pos-badLen)
		msg += fmt.Sprintf(" %s◢%s◣%s", before, bad, rest)
	}

	return msg
}
