package regex

// Contains reports whether the pattern matches anywhere in input.
func (re *Regexp) Contains(input string) bool {
	if ac, ok := re.prefilter.(*acFilter); ok && ac.total {
		return ac.auto.IsMatch([]byte(input))
	}
	spans, _ := re.run(AtMost(1), input)
	return len(spans) > 0
}

// Find returns up to bound matches of the pattern in input, in order of
// appearance. Matches never overlap. It returns nil when there are none.
func (re *Regexp) Find(bound Count, input string) []Match {
	spans, rc := re.run(bound, input)
	if len(spans) == 0 {
		return nil
	}
	ms := make([]Match, len(spans))
	for i := range spans {
		ms[i] = spans[i].project(rc, re.code.Captop, i+1)
	}
	return ms
}
