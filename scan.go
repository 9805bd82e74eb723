package regex

import "github.com/elm/regex/runecacher"

// run finds up to bound matches in input, left to right and
// non-overlapping. Attempts are anchored at each candidate position in
// turn; a zero-width match advances the scan by one rune so the loop
// always makes progress.
func (re *Regexp) run(bound Count, input string) ([]matchSpan, *runecacher.RuneCacher) {
	rc := runecacher.NewFromString(input)

	limit := -1
	if bound.limited {
		limit = bound.n
	}
	if limit == 0 {
		return nil, rc
	}

	r := re.getRunner()
	defer re.putRunner(r)
	r.runes = rc.Runes()

	var spans []matchSpan
	pos := 0
	for pos <= rc.Len() {
		if re.prefilter != nil {
			next, ok := re.prefilter.next(rc, pos)
			if !ok {
				break
			}
			pos = next
		}

		if !r.attempt(pos) {
			pos++
			continue
		}

		start, end := r.saved[0], r.saved[1]
		spans = append(spans, matchSpan{
			start: start,
			end:   end,
			saved: append([]int(nil), r.saved...),
		})
		if limit > 0 && len(spans) == limit {
			break
		}

		if end == start {
			pos = end + 1
		} else {
			pos = end
		}
	}
	return spans, rc
}
