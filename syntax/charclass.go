package syntax

import (
	"bytes"
	"fmt"
	"sort"
	"unicode"
)

// CharSet is a set of runes expressed as sorted, non-overlapping, inclusive
// ranges plus a negation flag. Negation is applied after membership in the
// ranges is decided, so a case-folded [^a-z] still rejects 'A'.
type CharSet struct {
	ranges    []singleRange
	negate    bool
	canonical bool
}

type singleRange struct {
	first rune
	last  rune
}

// foldRangeLimit bounds per-rune case folding of a range. Ranges wider than
// this come from negated class escapes (\D, \W, \S) and are already closed
// under the simple case foldings we care about.
const foldRangeLimit = 128

var lineTerminators = []singleRange{
	{'\n', '\n'},
	{'\r', '\r'},
	{'\u2028', '\u2029'},
}

var digitRanges = []singleRange{{'0', '9'}}

var wordRanges = []singleRange{
	{'0', '9'},
	{'A', 'Z'},
	{'_', '_'},
	{'a', 'z'},
}

// ECMAScript WhiteSpace plus LineTerminator.
var spaceRanges = []singleRange{
	{'\t', '\r'},
	{' ', ' '},
	{'\u00a0', '\u00a0'},
	{'\u1680', '\u1680'},
	{'\u2000', '\u200a'},
	{'\u2028', '\u2029'},
	{'\u202f', '\u202f'},
	{'\u205f', '\u205f'},
	{'\u3000', '\u3000'},
	{'\ufeff', '\ufeff'},
}

func newDigitClass(negate bool) *CharSet { return classFromRanges(digitRanges, negate) }
func newWordClass(negate bool) *CharSet  { return classFromRanges(wordRanges, negate) }
func newSpaceClass(negate bool) *CharSet { return classFromRanges(spaceRanges, negate) }

// newAnyClass returns the class for the wildcard: any rune that is not a
// line terminator.
func newAnyClass() *CharSet {
	return classFromRanges(lineTerminators, true)
}

func classFromRanges(ranges []singleRange, negate bool) *CharSet {
	return &CharSet{
		ranges:    append([]singleRange(nil), ranges...),
		negate:    negate,
		canonical: true,
	}
}

func (c *CharSet) addChar(ch rune) {
	c.addRange(ch, ch)
}

func (c *CharSet) addRange(first, last rune) {
	c.ranges = append(c.ranges, singleRange{first: first, last: last})
	c.canonical = false
}

// addSet merges the ranges of another (non-negated) set into this one.
func (c *CharSet) addSet(set CharSet) {
	c.ranges = append(c.ranges, set.ranges...)
	c.canonical = false
}

// addNegatedRanges adds the complement of the given ranges, for class escapes
// like \D appearing inside a bracket expression.
func (c *CharSet) addNegatedRanges(ranges []singleRange) {
	prev := rune(0)
	for _, r := range ranges {
		if r.first > prev {
			c.addRange(prev, r.first-1)
		}
		prev = r.last + 1
	}
	if prev <= unicode.MaxRune {
		c.addRange(prev, unicode.MaxRune)
	}
}

func (c *CharSet) negateSet() {
	c.negate = !c.negate
}

// addCaseEquivalences closes the set's content over simple case folding.
// Folding happens before negation is applied.
func (c *CharSet) addCaseEquivalences() {
	for _, r := range append([]singleRange(nil), c.ranges...) {
		if r.last-r.first > foldRangeLimit {
			continue
		}
		for ch := r.first; ch <= r.last; ch++ {
			for f := unicode.SimpleFold(ch); f != ch; f = unicode.SimpleFold(f) {
				c.addChar(f)
			}
		}
	}
	c.canonicalize()
}

func (c *CharSet) canonicalize() {
	if c.canonical {
		return
	}
	sort.Slice(c.ranges, func(i, j int) bool {
		if c.ranges[i].first != c.ranges[j].first {
			return c.ranges[i].first < c.ranges[j].first
		}
		return c.ranges[i].last < c.ranges[j].last
	})
	merged := c.ranges[:0]
	for _, r := range c.ranges {
		if n := len(merged); n > 0 && r.first <= merged[n-1].last+1 {
			if r.last > merged[n-1].last {
				merged[n-1].last = r.last
			}
			continue
		}
		merged = append(merged, r)
	}
	c.ranges = merged
	c.canonical = true
}

// CharIn reports whether ch is a member of the set.
func (c *CharSet) CharIn(ch rune) bool {
	c.canonicalize()
	lo, hi := 0, len(c.ranges)
	for lo < hi {
		mid := (lo + hi) / 2
		if ch > c.ranges[mid].last {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	in := lo < len(c.ranges) && ch >= c.ranges[lo].first
	return in != c.negate
}

func (c *CharSet) Copy() CharSet {
	return CharSet{
		ranges:    append([]singleRange(nil), c.ranges...),
		negate:    c.negate,
		canonical: c.canonical,
	}
}

// IsMergeable reports whether another set's content can be unioned into this
// one without changing semantics.
func (c *CharSet) IsMergeable() bool {
	return !c.negate
}

func (c *CharSet) IsNegated() bool {
	return c.negate
}

func (c *CharSet) IsEmpty() bool {
	c.canonicalize()
	return len(c.ranges) == 0 && !c.negate
}

func (c *CharSet) IsSingleton() bool {
	c.canonicalize()
	return !c.negate && len(c.ranges) == 1 && c.ranges[0].first == c.ranges[0].last
}

func (c *CharSet) IsSingletonInverse() bool {
	c.canonicalize()
	return c.negate && len(c.ranges) == 1 && c.ranges[0].first == c.ranges[0].last
}

func (c *CharSet) SingletonChar() rune {
	return c.ranges[0].first
}

// String returns a human-readable description for debugging and error text.
func (c *CharSet) String() string {
	c.canonicalize()
	buf := &bytes.Buffer{}
	buf.WriteRune('[')
	if c.negate {
		buf.WriteRune('^')
	}
	for _, r := range c.ranges {
		buf.WriteString(CharDescription(r.first))
		if r.last != r.first {
			if r.last != r.first+1 {
				buf.WriteRune('-')
			}
			buf.WriteString(CharDescription(r.last))
		}
	}
	buf.WriteRune(']')
	return buf.String()
}

// CharDescription produces a printable description for a single character.
func CharDescription(ch rune) string {
	if ch == '\\' {
		return "\\\\"
	}
	if ch >= ' ' && ch <= '~' {
		return string(ch)
	}
	return fmt.Sprintf("%U", ch)
}

// IsWordChar matches the ECMAScript \w class: [0-9A-Za-z_].
func IsWordChar(r rune) bool {
	return 'A' <= r && r <= 'Z' || 'a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '_'
}

// IsLineTerminator reports whether r ends a line per ECMAScript: LF, CR,
// LINE SEPARATOR, or PARAGRAPH SEPARATOR.
func IsLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029'
}
