package regex

import "github.com/elm/regex/runecacher"

// Match describes one occurrence of a pattern in the input.
type Match struct {
	// Text is the matched substring.
	Text string

	// Index is the rune offset of the match in the input.
	Index int

	// Number is the 1-based ordinal of this match within the operation
	// that produced it.
	Number int

	// Submatches holds the text captured by each group, in group order.
	// A group that did not take part in the match is nil.
	Submatches []*string
}

// matchSpan is the runner's view of a match: rune offsets plus a snapshot
// of the capture slots. Projection to a Match is deferred so operations
// that only need offsets (Split) skip it entirely.
type matchSpan struct {
	start, end int
	saved      []int
}

func (sp *matchSpan) project(rc *runecacher.RuneCacher, captop, number int) Match {
	subs := make([]*string, 0, captop)
	for g := 1; g <= captop; g++ {
		st, en := sp.saved[g*2], sp.saved[g*2+1]
		if st < 0 || en < 0 {
			subs = append(subs, nil)
			continue
		}
		text := rc.Slice(st, en)
		subs = append(subs, &text)
	}
	return Match{
		Text:       rc.Slice(sp.start, sp.end),
		Index:      sp.start,
		Number:     number,
		Submatches: subs,
	}
}
