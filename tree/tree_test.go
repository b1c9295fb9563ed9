package tree

import (
	"testing"

	"github.com/ava12/peg/scanner"
)

type taggedSource struct {
	tag   string
	scope scanner.ScopeKind
}

func (t taggedSource) Tag() string             { return t.tag }
func (t taggedSource) Scope() scanner.ScopeKind { return t.scope }

func tagged(tag string) scanner.MatchSource {
	return taggedSource{tag: tag}
}

func untagged() scanner.MatchSource {
	return taggedSource{}
}

func TestFromParserMatchLeaf(t *testing.T) {
	sc := scanner.New("ab", scanner.Options{})
	m := sc.CreateMatch(tagged("digit"), 0, 1, nil)

	n := FromParserMatch(m, false)
	if n.Tag() != "digit" || n.Value() != "a" {
		t.Fatalf("unexpected node: tag=%q value=%q", n.Tag(), n.Value())
	}
	if !n.IsLeaf() {
		t.Fatalf("expected leaf")
	}
}

func TestFromParserMatchPrunesUntaggedWrapper(t *testing.T) {
	sc := scanner.New("ab", scanner.Options{})
	a := sc.CreateMatch(tagged("a"), 0, 1, nil)
	b := sc.CreateMatch(untagged(), 1, 1, a)
	seq := sc.CreateBranch(untagged(), 0, 2, b, []*scanner.ParserMatch{a, b})

	n := FromParserMatch(seq, true)
	if n.Tag() != "a" {
		t.Fatalf("expected pruning to collapse down to the single tagged child, got tag %q", n.Tag())
	}
}

func TestFromParserMatchKeepsTaggedWrapperWithMultipleChildren(t *testing.T) {
	sc := scanner.New("ab", scanner.Options{})
	a := sc.CreateMatch(tagged("a"), 0, 1, nil)
	b := sc.CreateMatch(tagged("b"), 1, 1, a)
	seq := sc.CreateBranch(tagged("pair"), 0, 2, b, []*scanner.ParserMatch{a, b})

	n := FromParserMatch(seq, true)
	if n.Tag() != "pair" || len(n.Children()) != 2 {
		t.Fatalf("expected tagged wrapper with 2 children, got tag=%q children=%d", n.Tag(), len(n.Children()))
	}
	if n.Children()[0].Parent() != n || n.Children()[1].Parent() != n {
		t.Fatalf("expected children to point back at their parent")
	}
}

func TestFromParserMatchDropsEmptyUntaggedWrapper(t *testing.T) {
	sc := scanner.New("", scanner.Options{})
	empty := sc.CreateBranch(untagged(), 0, 0, nil, nil)
	if FromParserMatch(empty, true) != nil {
		t.Fatalf("expected an untagged childless wrapper to be dropped")
	}
}

func TestFindByTag(t *testing.T) {
	sc := scanner.New("ab", scanner.Options{})
	a := sc.CreateMatch(tagged("digit"), 0, 1, nil)
	b := sc.CreateMatch(tagged("digit"), 1, 1, a)
	seq := sc.CreateBranch(tagged("pair"), 0, 2, b, []*scanner.ParserMatch{a, b})

	n := FromParserMatch(seq, true)
	found := Find(n, ByTag("digit"))
	if len(found) != 2 {
		t.Fatalf("expected 2 digit nodes, got %d", len(found))
	}
}
