package parser

import (
	"testing"

	"github.com/ava12/peg/scanner"
	"github.com/ava12/peg/scope"
)

func digitSet() *CharacterSet {
	return CharRange('0', '9').WithTag("digit").(*CharacterSet)
}

func expectPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic")
		}
	}()
	fn()
}

func TestRepRejectsInvalidMinMax(t *testing.T) {
	expectPanic(t, func() { Rep(Char('a'), -1, 1) })
	expectPanic(t, func() { Rep(Char('a'), 3, 2) })
}

func TestRepAcceptsValidMinMax(t *testing.T) {
	p := Rep(Char('a'), 1, -1)
	sc := scanner.New("aaa", scanner.Options{})
	m := p.TryMatch(sc, nil, true)
	if !m.Success() || m.Right() != 3 {
		t.Fatalf("expected a valid min/max repetition to parse normally, got success=%v right=%d", m.Success(), m.Right())
	}
}

// S2 — delimited list.
func TestDelimitedListTrailingSeparatorNotConsumed(t *testing.T) {
	p := Delimited(digitSet(), Char(','))

	sc := scanner.New("1,2,3", scanner.Options{})
	m := p.TryMatch(sc, nil, true)
	if !m.Success() || m.Offset() != 0 || m.Right() != 5 {
		t.Fatalf("expected [0,5), got success=%v [%d,%d)", m.Success(), m.Offset(), m.Right())
	}
	// 3 items plus 2 separators between them.
	if got := len(m.Children()); got != 5 {
		t.Fatalf("expected 5 recorded children (3 items + 2 separators), got %d", got)
	}

	sc2 := scanner.New("1,2,", scanner.Options{})
	m2 := p.TryMatch(sc2, nil, true)
	if !m2.Success() || m2.Offset() != 0 || m2.Right() != 3 {
		t.Fatalf("expected trailing delimiter dropped, range [0,3), got success=%v [%d,%d)", m2.Success(), m2.Offset(), m2.Right())
	}
}

// S3 — terminated list.
func TestTerminatedListDropsDanglingItem(t *testing.T) {
	p := Terminated(digitSet(), Char(';'))

	sc := scanner.New("1;2;3;", scanner.Options{})
	m := p.TryMatch(sc, nil, true)
	if !m.Success() || m.Offset() != 0 || m.Right() != 6 {
		t.Fatalf("expected [0,6) for three full pairs, got success=%v [%d,%d)", m.Success(), m.Offset(), m.Right())
	}

	sc2 := scanner.New("1;2;3", scanner.Options{})
	m2 := p.TryMatch(sc2, nil, true)
	if !m2.Success() || m2.Offset() != 0 || m2.Right() != 4 {
		t.Fatalf("expected dangling final item dropped, range [0,4), got success=%v [%d,%d)", m2.Success(), m2.Offset(), m2.Right())
	}
}

// S4 — difference.
func TestDifferenceRepeatedApplication(t *testing.T) {
	p := Sub(Any(), Char('x'))

	sc := scanner.New("abcxde", scanner.Options{})
	var got []string
	var prev *scanner.ParserMatch
	for i := 0; i < 3; i++ {
		m := p.TryMatch(sc, prev, true)
		if !m.Success() {
			t.Fatalf("expected a match at step %d", i)
		}
		got = append(got, m.Value())
		prev = m
	}
	want := []string{"a", "b", "c"}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("step %d: expected %q, got %q", i, w, got[i])
		}
	}

	failed := p.TryMatch(sc, prev, true)
	if failed.Success() {
		t.Fatalf("expected failure at 'x', got a match %q", failed.Value())
	}
}

// Difference must reject as soon as b matches anything at a's starting
// offset, even if b's match is shorter than a's.
func TestDifferenceRejectsOnAnySuccessfulBRegardlessOfLength(t *testing.T) {
	p := Sub(Str("interface"), Str("int"))
	sc := scanner.New("interface", scanner.Options{})
	m := p.TryMatch(sc, nil, true)
	if m.Success() {
		t.Fatalf("expected failure, 'int' matches a 3-byte prefix of 'interface'")
	}
}

// S5 — left-recursion guard: a directly left-recursive rule is rejected
// at construction rather than looping forever.
func TestForwardRejectsDirectLeftRecursion(t *testing.T) {
	e := NewForward("e")
	plusDigit := Seq(e, Char('+'), digitSet())
	choice := Or(plusDigit, digitSet())

	if err := e.Assign(choice); err == nil {
		t.Fatalf("expected left-recursive assignment to be rejected")
	}
}

// S5 alternative framing: the left-recursive rule rewritten as
// iteration (a digit followed by zero or more '+' digit pairs, built
// from Seq and Star with no Forward and no left recursion) matches all
// of "1+2+3"; package scope's pivot fold turns that flat list into a
// left-associative chain.
func TestIterativeRewriteOfLeftRecursionMatchesFullInput(t *testing.T) {
	digit := digitSet()
	plus := Char('+').WithTag("Operation").WithScope(scanner.Pivot)
	expr := Seq(digit, Star(Seq(plus, digit)))

	sc := scanner.New("1+2+3", scanner.Options{})
	m := expr.TryMatch(sc, nil, true)
	if !m.Success() || m.Right() != sc.Len() {
		t.Fatalf("expected a full match over %q, got success=%v right=%d", "1+2+3", m.Success(), m.Right())
	}
}

// S6 — an unmatched open scope leaves closing unset.
func TestEnclosedLikeOpenCloseUnmatchedLeavesClosingNil(t *testing.T) {
	open := Char('(').WithScope(scanner.OpenScope)
	content := CharRange('a', 'z').WithTag("content")
	closeParen := Char(')').WithScope(scanner.CloseScope)

	grammar := Seq(open, content, Opt(closeParen))

	sc := scanner.New("(a", scanner.Options{})
	m := grammar.TryMatch(sc, nil, true)
	if !m.Success() {
		t.Fatalf("expected a match even with the closing paren missing")
	}

	var foundClose bool
	for _, c := range m.Children() {
		if c.Scope() == scanner.CloseScope {
			foundClose = true
		}
	}
	if foundClose {
		t.Fatalf("expected no CloseScope match recorded when ')' is absent")
	}

	node, _ := scope.FromParserMatch(m)
	if len(node.Children()) != 1 || node.Children()[0].Scope == nil {
		t.Fatalf("expected '(' to open a single scope")
	}
	if node.Children()[0].Scope.Closing() != nil {
		t.Fatalf("expected the unmatched open scope to have no closing match")
	}
}

func TestSequenceFailsIfAnyChildFails(t *testing.T) {
	p := Seq(Char('a'), Char('b'), Char('c'))
	sc := scanner.New("abx", scanner.Options{})
	m := p.TryMatch(sc, nil, true)
	if m.Success() {
		t.Fatalf("expected failure, sequence's third child does not match")
	}
}

func TestUnionTriesInOrder(t *testing.T) {
	p := Or(Str("foo"), Str("foobar"))
	sc := scanner.New("foobar", scanner.Options{})
	m := p.TryMatch(sc, nil, true)
	if !m.Success() || m.Value() != "foo" {
		t.Fatalf("expected ordered choice to stop at the first match 'foo', got %q", m.Value())
	}
}

func TestIntersectionOrdersAThenB(t *testing.T) {
	p := And(CharRange('a', 'z'), CharRange('a', 'm'))
	sc := scanner.New("g", scanner.Options{})
	m := p.TryMatch(sc, nil, true)
	if !m.Success() || m.Value() != "g" {
		t.Fatalf("expected both ranges to accept 'g', got success=%v value=%q", m.Success(), m.Value())
	}

	sc2 := scanner.New("z", scanner.Options{})
	m2 := p.TryMatch(sc2, nil, true)
	if m2.Success() {
		t.Fatalf("expected failure, 'z' is outside the second range")
	}
}

// Intersection's synthesized match must record both operands as
// structural children so a tag nested inside either one stays
// reachable to package tree/scope, not just to the diagnostic chain.
func TestIntersectionRecordsOperandsAsChildren(t *testing.T) {
	a := CharRange('a', 'z').WithTag("letter")
	b := CharRange('a', 'm')
	p := And(a, b)

	sc := scanner.New("g", scanner.Options{})
	m := p.TryMatch(sc, nil, true)
	if !m.Success() {
		t.Fatalf("expected a match")
	}

	children := m.Children()
	if len(children) != 2 {
		t.Fatalf("expected 2 recorded children, got %d", len(children))
	}
	if children[0].Tag() != "letter" {
		t.Fatalf("expected the first child to be a's tagged match, got tag %q", children[0].Tag())
	}
}

func TestExclusiveFailsWhenBothMatch(t *testing.T) {
	p := Xor(CharRange('a', 'z'), CharRange('a', 'm'))
	sc := scanner.New("g", scanner.Options{})
	m := p.TryMatch(sc, nil, true)
	if m.Success() {
		t.Fatalf("expected failure, both ranges match 'g'")
	}
}

func TestIncludeSkippedRecordsAutoAdvanceAsChild(t *testing.T) {
	ws := Star(Char(' ')).WithTag("ws")
	grammar := Seq(Char('a'), Char('b'))

	sc := scanner.New(" ab", scanner.Options{AutoAdvance: ws, IncludeSkipped: true})
	m := grammar.TryMatch(sc, nil, true)
	if !m.Success() {
		t.Fatalf("expected a match")
	}

	children := m.Children()
	if len(children) == 0 || children[0].Tag() != "ws" || children[0].Value() != " " {
		t.Fatalf("expected the leading skipped whitespace recorded as the first child when IncludeSkipped is set")
	}
}

func TestIncludeSkippedOffByDefault(t *testing.T) {
	ws := Star(Char(' ')).WithTag("ws")
	grammar := Seq(Char('a'), Char('b'))

	sc := scanner.New(" ab", scanner.Options{AutoAdvance: ws})
	m := grammar.TryMatch(sc, nil, true)
	if !m.Success() {
		t.Fatalf("expected a match")
	}

	for _, c := range m.Children() {
		if c.Tag() == "ws" {
			t.Fatalf("expected no skipped-whitespace child when IncludeSkipped is unset")
		}
	}
}

func TestRepetitionStopsOnNoProgress(t *testing.T) {
	p := Star(Opt(Char('a')))
	sc := scanner.New("aaa", scanner.Options{})
	m := p.TryMatch(sc, nil, true)
	if !m.Success() || m.Right() != 3 {
		t.Fatalf("expected the no-progress guard to stop after consuming all input, got right=%d", m.Right())
	}
}
