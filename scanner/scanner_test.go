package scanner

import (
	"testing"
)

type lineColResult struct {
	pos, line, col int
}

func TestScannerLineCol(t *testing.T) {
	samples := map[string][]lineColResult{
		"": {
			{0, 1, 1},
			{100, 1, 1},
		},
		"\n": {
			{0, 1, 1},
			{1, 2, 1},
			{100, 2, 1},
		},
		"0\n2\n4\n6789abcde\ng\ni\n": {
			{4, 3, 1},
			{5, 3, 2},
			{6, 4, 1},
			{14, 4, 9},
			{19, 6, 2},
			{20, 7, 1},
			{9, 4, 4},
		},
	}

	for text, results := range samples {
		s := New(text, Options{})
		for _, res := range results {
			l, c := s.LineCol(res.pos)
			if l != res.line || c != res.col {
				t.Errorf("sample %q: pos %d: expected line %d col %d, got %d, %d", text, res.pos, res.line, res.col, l, c)
			}
		}
	}
}

func TestScannerSubstring(t *testing.T) {
	s := New("hello world", Options{})
	if v := s.Substring(0, 5); v != "hello" {
		t.Fatalf("expected %q, got %q", "hello", v)
	}
	if v := s.Substring(11, -5); v != "world" {
		t.Fatalf("expected %q, got %q", "world", v)
	}
	if v := s.Substring(6, 100); v != "world" {
		t.Fatalf("expected truncated %q, got %q", "world", v)
	}
}

func TestScannerCaseTransform(t *testing.T) {
	s := New("Hello", Options{CaseTransform: LowerCase})
	if s.Transformed() != "hello" {
		t.Fatalf("expected lowercased view, got %q", s.Transformed())
	}
	if s.Input() != "Hello" {
		t.Fatalf("expected untransformed input preserved, got %q", s.Input())
	}
}

func TestScannerIndexOf(t *testing.T) {
	s := New("Hello World", Options{})
	if i := s.IndexOf(0, "world", false); i != 6 {
		t.Fatalf("expected 6, got %d", i)
	}
	if i := s.IndexOf(0, "world", true); i != -1 {
		t.Fatalf("expected -1 for case-sensitive miss, got %d", i)
	}
	if i := s.IndexOf(0, "World", true); i != 6 {
		t.Fatalf("expected 6, got %d", i)
	}
}

func TestScannerEndOfInput(t *testing.T) {
	s := New("ab", Options{})
	if s.EndOfInput(0) || s.EndOfInput(1) {
		t.Fatalf("expected not at end of input before position 2")
	}
	if !s.EndOfInput(2) || !s.EndOfInput(3) {
		t.Fatalf("expected at end of input at or beyond position 2")
	}
}

func TestScannerNoMatchPosition(t *testing.T) {
	s := New("ab", Options{})
	first := s.CreateMatch(nil, 0, 1, nil)
	m := s.NoMatch(nil, first)
	if m.Success() {
		t.Fatalf("expected failure")
	}
	if m.Offset() != first.Right() {
		t.Fatalf("expected no-match offset %d, got %d", first.Right(), m.Offset())
	}
}

func TestScannerFurthestFailureDiagnostic(t *testing.T) {
	s := New("let 42 = x", Options{})

	letMatch := s.CreateMatch(tagged("let"), 0, 3, nil)
	_ = s.NoMatch(tagged("identifier"), letMatch)

	msg := s.ListFailures(0, false)
	if msg == "" {
		t.Fatalf("expected a diagnostic message")
	}
	if msg != "Expected 'identifier' After 'let'" {
		t.Fatalf("unexpected diagnostic: %q", msg)
	}
}

type taggedSource string

func (t taggedSource) Tag() string    { return string(t) }
func (t taggedSource) Scope() ScopeKind { return NoScope }

func tagged(tag string) MatchSource {
	return taggedSource(tag)
}

func TestScannerCompleteGuard(t *testing.T) {
	s := New("x", Options{})
	s.Complete()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic reading a completed scanner")
		}
	}()
	s.Substring(0, 1)
}

func TestScannerAutoAdvanceNoop(t *testing.T) {
	s := New("x", Options{})
	prev := s.CreateMatch(nil, 0, 0, nil)
	m := s.DoAutoAdvance(nil, prev)
	if m != prev {
		t.Fatalf("expected unchanged previous with no auto-advance configured")
	}
}

type fixedMatcher struct {
	length int
}

func (f fixedMatcher) TryMatch(sc *Scanner, prev *ParserMatch, allowAutoAdvance bool) *ParserMatch {
	if f.length < 0 {
		return sc.NoMatch(nil, prev)
	}
	return sc.CreateMatch(nil, prev.Right(), f.length, prev)
}

func TestScannerAutoAdvanceSkipsWhitespace(t *testing.T) {
	s := New("   x", Options{AutoAdvance: fixedMatcher{length: 3}})
	prev := s.CreateMatch(nil, 0, 0, nil)
	m := s.DoAutoAdvance(nil, prev)
	if !m.Success() || m.Right() != 3 {
		t.Fatalf("expected auto-advance to land at 3, got success=%v right=%d", m.Success(), m.Right())
	}
}
