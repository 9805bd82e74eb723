package regex

import (
	"github.com/coregx/ahocorasick"

	"github.com/elm/regex/helpers"
	"github.com/elm/regex/runecacher"
	"github.com/elm/regex/syntax"
)

// A prefilter skips the scan ahead to the next position where a match
// could possibly start. It must never skip a true match start, so only
// patterns with a guaranteed leading literal get one.
type prefilter interface {
	next(rc *runecacher.RuneCacher, pos int) (int, bool)
}

// newPrefilter inspects the parse tree for a usable literal. A pattern
// that is nothing but an alternation of literals gets an Aho-Corasick
// automaton over all branches; otherwise a single leading literal (rune,
// string or class) guaranteed to begin every match is searched directly.
func newPrefilter(tree *syntax.RegexTree) (prefilter, error) {
	root := tree.Root

	if root.T == syntax.NtAlternate {
		lits := literalBranches(root)
		if lits != nil {
			builder := ahocorasick.NewBuilder()
			maxLen := 0
			for _, lit := range lits {
				builder.AddPattern([]byte(lit))
				if len(lit) > maxLen {
					maxLen = len(lit)
				}
			}
			auto, err := builder.Build()
			if err != nil {
				return nil, err
			}
			return &acFilter{auto: auto, maxLen: maxLen, total: true}, nil
		}
		return nil, nil
	}

	lit := root.FindStartingLiteralNode()
	if lit == nil {
		return nil, nil
	}
	switch lit.T {
	case syntax.NtOne, syntax.NtOneloop, syntax.NtOnelazy:
		return &charFilter{ch: lit.Ch}, nil
	case syntax.NtMulti:
		return &multiFilter{str: lit.Str}, nil
	case syntax.NtSet, syntax.NtSetloop, syntax.NtSetlazy:
		return &setFilter{set: lit.Set}, nil
	}
	return nil, nil
}

// literalBranches returns the branch strings of a pure literal
// alternation, or nil if any branch is more than a literal.
func literalBranches(root *syntax.RegexNode) []string {
	lits := make([]string, 0, len(root.Children))
	for _, child := range root.Children {
		switch child.T {
		case syntax.NtMulti:
			lits = append(lits, string(child.Str))
		case syntax.NtOne:
			lits = append(lits, string(child.Ch))
		default:
			return nil
		}
	}
	return lits
}

// acFilter finds candidates with an Aho-Corasick automaton over the
// branch literals. total marks the automaton as equivalent to the whole
// pattern, which lets Contains answer from it alone.
type acFilter struct {
	auto   *ahocorasick.Automaton
	maxLen int // longest branch literal, in bytes
	total  bool
}

// next reports a position at or before the start of every remaining
// occurrence. The automaton returns the occurrence that ends first,
// which can start later than an overlapping longer branch (abc|b on
// "abc" reports the "b"), so the candidate is backed up far enough to
// cover any occurrence ending at or after the reported one.
func (f *acFilter) next(rc *runecacher.RuneCacher, pos int) (int, bool) {
	hay := rc.Bytes()
	at := rc.ByteIndex(pos)
	if at >= len(hay) {
		return 0, false
	}
	m := f.auto.Find(hay, at)
	if m == nil {
		return 0, false
	}
	start := m.End - f.maxLen
	if m.Start < start {
		start = m.Start
	}
	if start < at {
		start = at
	}
	return rc.RuneIndex(start), true
}

type charFilter struct {
	ch rune
}

func (f *charFilter) next(rc *runecacher.RuneCacher, pos int) (int, bool) {
	i := helpers.IndexOfRune(rc.Runes(), f.ch, pos)
	return i, i >= 0
}

type multiFilter struct {
	str []rune
}

func (f *multiFilter) next(rc *runecacher.RuneCacher, pos int) (int, bool) {
	i := helpers.IndexOf(rc.Runes(), f.str, pos)
	return i, i >= 0
}

type setFilter struct {
	set *syntax.CharSet
}

func (f *setFilter) next(rc *runecacher.RuneCacher, pos int) (int, bool) {
	i := helpers.IndexOfSet(rc.Runes(), f.set, pos)
	return i, i >= 0
}
