package regex

import "bytes"

// Replace rewrites up to bound matches of the pattern in input. Each match
// is handed to replacer, which returns the text to substitute; the
// replacement text is inserted verbatim, with no $-expansion. Text outside
// the matches is copied through unchanged.
func (re *Regexp) Replace(bound Count, input string, replacer func(Match) string) string {
	spans, rc := re.run(bound, input)
	if len(spans) == 0 {
		return input
	}

	buf := &bytes.Buffer{}
	buf.Grow(len(input))
	prev := 0
	for i := range spans {
		buf.WriteString(rc.Slice(prev, spans[i].start))
		buf.WriteString(replacer(spans[i].project(rc, re.code.Captop, i+1)))
		prev = spans[i].end
	}
	buf.WriteString(rc.Slice(prev, rc.Len()))
	return buf.String()
}
