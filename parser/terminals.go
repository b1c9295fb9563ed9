package parser

import (
	"regexp"
	"strings"

	"github.com/ava12/peg/scanner"
)

// LiteralChar matches a single rune.
type LiteralChar struct {
	base
	ch rune
}

// Char builds a parser matching exactly the rune ch.
func Char(ch rune) *LiteralChar {
	p := &LiteralChar{ch: ch}
	p.self = p
	return p
}

func (p *LiteralChar) Kind() Kind               { return KindLiteralChar }
func (p *LiteralChar) ChildParsers() []Parser   { return nil }
func (p *LiteralChar) ShortDescription(depth int) string {
	return describeOr(p, func() string { return quoted(string(p.ch)) })
}

func (p *LiteralChar) TryMatch(sc *scanner.Scanner, prev *scanner.ParserMatch, allowAutoAdvance bool) *scanner.ParserMatch {
	prev = advance(sc, p, prev, allowAutoAdvance)
	off := prev.Right()
	r, size := sc.PeekRune(off)
	if size == 0 || r != p.ch {
		return sc.NoMatch(p, prev)
	}
	return sc.CreateMatch(p, off, size, prev)
}

// LiteralString matches a fixed string, optionally case-insensitively.
type LiteralString struct {
	base
	text          string
	caseSensitive bool
}

// Str builds a parser matching text exactly (case-sensitive).
func Str(text string) *LiteralString {
	p := &LiteralString{text: text, caseSensitive: true}
	p.self = p
	return p
}

// StrCI builds a parser matching text case-insensitively.
func StrCI(text string) *LiteralString {
	p := &LiteralString{text: text, caseSensitive: false}
	p.self = p
	return p
}

func (p *LiteralString) Kind() Kind             { return KindLiteralString }
func (p *LiteralString) ChildParsers() []Parser { return nil }
func (p *LiteralString) ShortDescription(depth int) string {
	return describeOr(p, func() string { return quoted(p.text) })
}

func (p *LiteralString) TryMatch(sc *scanner.Scanner, prev *scanner.ParserMatch, allowAutoAdvance bool) *scanner.ParserMatch {
	prev = advance(sc, p, prev, allowAutoAdvance)
	off := prev.Right()
	length := len(p.text)
	actual := sc.UntransformedSubstring(off, length)
	if len(actual) != length {
		return sc.NoMatch(p, prev)
	}

	matched := actual == p.text
	if !p.caseSensitive {
		matched = strings.EqualFold(actual, p.text)
	}
	if !matched {
		return sc.NoMatch(p, prev)
	}
	return sc.CreateMatch(p, off, length, prev)
}

// RuneRange is an inclusive [Lo, Hi] rune range.
type RuneRange struct {
	Lo, Hi rune
}

// CharacterSet matches any rune inside one of its ranges and outside its
// exclusions.
type CharacterSet struct {
	base
	ranges     []RuneRange
	exclusions map[rune]bool
}

// CharRange builds a parser matching any rune in [lo, hi].
func CharRange(lo, hi rune) *CharacterSet {
	return CharIn([]RuneRange{{lo, hi}})
}

// CharIn builds a parser matching any rune inside one of ranges.
func CharIn(ranges []RuneRange) *CharacterSet {
	p := &CharacterSet{ranges: ranges}
	p.self = p
	return p
}

// Exclude narrows a CharacterSet to reject the given runes even if they
// fall inside one of its ranges.
func (p *CharacterSet) Exclude(runes ...rune) *CharacterSet {
	if p.exclusions == nil {
		p.exclusions = make(map[rune]bool, len(runes))
	}
	for _, r := range runes {
		p.exclusions[r] = true
	}
	return p
}

func (p *CharacterSet) Kind() Kind             { return KindCharacterSet }
func (p *CharacterSet) ChildParsers() []Parser { return nil }
func (p *CharacterSet) ShortDescription(depth int) string {
	return describeOr(p, func() string { return "<char set>" })
}

func (p *CharacterSet) TryMatch(sc *scanner.Scanner, prev *scanner.ParserMatch, allowAutoAdvance bool) *scanner.ParserMatch {
	prev = advance(sc, p, prev, allowAutoAdvance)
	off := prev.Right()
	r, size := sc.PeekRune(off)
	if size == 0 {
		return sc.NoMatch(p, prev)
	}

	in := false
	for _, rg := range p.ranges {
		if r >= rg.Lo && r <= rg.Hi {
			in = true
			break
		}
	}
	if !in || p.exclusions[r] {
		return sc.NoMatch(p, prev)
	}
	return sc.CreateMatch(p, off, size, prev)
}

// AnyCharacter matches any single rune, failing only at end of input.
type AnyCharacter struct{ base }

// Any builds a parser matching any single rune.
func Any() *AnyCharacter {
	p := &AnyCharacter{}
	p.self = p
	return p
}

func (p *AnyCharacter) Kind() Kind             { return KindAnyCharacter }
func (p *AnyCharacter) ChildParsers() []Parser { return nil }
func (p *AnyCharacter) ShortDescription(depth int) string {
	return describeOr(p, func() string { return "<any char>" })
}

func (p *AnyCharacter) TryMatch(sc *scanner.Scanner, prev *scanner.ParserMatch, allowAutoAdvance bool) *scanner.ParserMatch {
	prev = advance(sc, p, prev, allowAutoAdvance)
	off := prev.Right()
	if sc.EndOfInput(off) {
		return sc.NoMatch(p, prev)
	}
	_, size := sc.PeekRune(off)
	if size == 0 {
		size = 1
	}
	return sc.CreateMatch(p, off, size, prev)
}

// EndOfInput matches a zero-length success only at the end of input.
type EndOfInput struct{ base }

// EOI builds a parser matching end of input.
func EOI() *EndOfInput {
	p := &EndOfInput{}
	p.self = p
	return p
}

func (p *EndOfInput) Kind() Kind             { return KindEndOfInput }
func (p *EndOfInput) ChildParsers() []Parser { return nil }
func (p *EndOfInput) ShortDescription(depth int) string {
	return describeOr(p, func() string { return "<end of input>" })
}

func (p *EndOfInput) TryMatch(sc *scanner.Scanner, prev *scanner.ParserMatch, allowAutoAdvance bool) *scanner.ParserMatch {
	prev = advance(sc, p, prev, allowAutoAdvance)
	off := prev.Right()
	if !sc.EndOfInput(off) {
		return sc.NoMatch(p, prev)
	}
	return sc.EmptyMatch(p, off, prev)
}

// Empty always succeeds, matching zero length.
type Empty struct{ base }

// Eps builds a parser that always succeeds without consuming input.
func Eps() *Empty {
	p := &Empty{}
	p.self = p
	return p
}

func (p *Empty) Kind() Kind               { return KindEmpty }
func (p *Empty) ChildParsers() []Parser   { return nil }
func (p *Empty) IsOptional() bool         { return true }
func (p *Empty) ShortDescription(depth int) string {
	return describeOr(p, func() string { return "<empty>" })
}

func (p *Empty) TryMatch(sc *scanner.Scanner, prev *scanner.ParserMatch, allowAutoAdvance bool) *scanner.ParserMatch {
	prev = advance(sc, p, prev, allowAutoAdvance)
	return sc.EmptyMatch(p, prev.Right(), prev)
}

// Regex matches a compiled regular expression, anchored at the cursor:
// a leading ^ in the pattern refers to the cursor, not the start of
// input. Go's regexp already treats ^ as "start of the string it was
// given" (not of the whole document), so feeding it the scanner's
// transformed view starting at the cursor gets cursor anchoring for
// free; engines whose ^ always means document start would instead need
// a one-char lookbehind window to simulate it.
type Regex struct {
	base
	re *regexp.Regexp
}

// NewRegex compiles pattern and builds a Regex parser. Compilation
// errors are grammar construction errors, surfaced here rather than at
// parse time.
func NewRegex(pattern string) (*Regex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, grammarError("invalid regex %q: %s", pattern, err)
	}
	p := &Regex{re: re}
	p.self = p
	return p, nil
}

// MustRegex is NewRegex but panics on a compilation error.
func MustRegex(pattern string) *Regex {
	p, err := NewRegex(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Regex) Kind() Kind             { return KindRegex }
func (p *Regex) ChildParsers() []Parser { return nil }
func (p *Regex) ShortDescription(depth int) string {
	return describeOr(p, func() string { return "/" + p.re.String() + "/" })
}

func (p *Regex) TryMatch(sc *scanner.Scanner, prev *scanner.ParserMatch, allowAutoAdvance bool) *scanner.ParserMatch {
	prev = advance(sc, p, prev, allowAutoAdvance)
	off := prev.Right()

	view := sc.Transformed()
	loc := p.re.FindStringIndex(view[off:])
	if loc == nil || loc[0] != 0 {
		return sc.NoMatch(p, prev)
	}

	length := loc[1] - loc[0]
	if length == 0 {
		return sc.EmptyMatch(p, off, prev)
	}
	return sc.CreateMatch(p, off, length, prev)
}

// RemainingLength matches iff the number of units remaining in the
// input falls within [min, max]. A negative max means unbounded.
type RemainingLength struct {
	base
	min, max int
}

// Remaining builds a parser matching based on how much input is left.
func Remaining(min, max int) *RemainingLength {
	p := &RemainingLength{min: min, max: max}
	p.self = p
	return p
}

func (p *RemainingLength) Kind() Kind             { return KindRemainingLength }
func (p *RemainingLength) ChildParsers() []Parser { return nil }
func (p *RemainingLength) ShortDescription(depth int) string {
	return describeOr(p, func() string { return "<remaining length>" })
}

func (p *RemainingLength) TryMatch(sc *scanner.Scanner, prev *scanner.ParserMatch, allowAutoAdvance bool) *scanner.ParserMatch {
	prev = advance(sc, p, prev, allowAutoAdvance)
	off := prev.Right()
	remaining := sc.Len() - off
	if remaining < p.min || (p.max >= 0 && remaining > p.max) {
		return sc.NoMatch(p, prev)
	}
	if remaining == 0 {
		return sc.EmptyMatch(p, off, prev)
	}
	return sc.CreateMatch(p, off, remaining, prev)
}
