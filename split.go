package regex

// Split cuts input at up to bound matches of the pattern and returns the
// pieces between them, including the text before the first match and after
// the last. With no matches the result is the whole input as a single
// piece, so the result always has one more piece than there were matches.
func (re *Regexp) Split(bound Count, input string) []string {
	spans, rc := re.run(bound, input)

	pieces := make([]string, 0, len(spans)+1)
	prev := 0
	for i := range spans {
		pieces = append(pieces, rc.Slice(prev, spans[i].start))
		prev = spans[i].end
	}
	return append(pieces, rc.Slice(prev, rc.Len()))
}
