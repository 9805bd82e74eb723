package regex

import "testing"

func TestScanMatchesDoNotOverlap(t *testing.T) {
	re := compile(t, "aa")
	ms := re.Find(All, "aaaa")
	if len(ms) != 2 || ms[0].Index != 0 || ms[1].Index != 2 {
		t.Errorf("matches = %+v, want non-overlapping pairs", ms)
	}
}

func TestScanAdvancesPastMatch(t *testing.T) {
	re := compile(t, "ab")
	ms := re.Find(All, "ababab")
	if len(ms) != 3 {
		t.Fatalf("got %d matches, want 3", len(ms))
	}
	for i, m := range ms {
		if m.Index != i*2 {
			t.Errorf("match %d at %d, want %d", i, m.Index, i*2)
		}
	}
}

func TestScanZeroWidthNeverStalls(t *testing.T) {
	// every pattern here can match empty; the scan must still terminate
	// with one match per position
	for _, p := range []string{"", "a*", "x?", "(?:)"} {
		re := compile(t, p)
		ms := re.Find(All, "12")
		if len(ms) != 3 {
			t.Errorf("Find(%q, \"12\") = %d matches, want 3", p, len(ms))
		}
	}
}

func TestScanEmptyInput(t *testing.T) {
	re := compile(t, "a*")
	ms := re.Find(All, "")
	if len(ms) != 1 || ms[0].Text != "" || ms[0].Index != 0 {
		t.Errorf("matches on empty input = %+v", ms)
	}

	re = compile(t, "a+")
	if ms := re.Find(All, ""); len(ms) != 0 {
		t.Errorf("a+ on empty input = %+v", ms)
	}
}

func TestScanBoundStopsEarly(t *testing.T) {
	calls := 0
	re := compile(t, ".")
	re.Replace(AtMost(2), "abcdef", func(Match) string {
		calls++
		return "_"
	})
	if calls != 2 {
		t.Errorf("replacer called %d times under AtMost(2), want 2", calls)
	}
}

func TestScanGreedyBacktracksIntoTail(t *testing.T) {
	// .* swallows the whole line, then gives back enough for the suffix
	re := compile(t, `.*(\d+)`)
	ms := re.Find(All, "order 1234!")
	if len(ms) != 1 {
		t.Fatalf("got %d matches, want 1", len(ms))
	}
	// .* backs off one rune only, so the group gets the last digit
	if got := *ms[0].Submatches[0]; got != "4" {
		t.Errorf("submatch = %q, want %q", got, "4")
	}
}

func TestScanAnchoredPatternMatchesOncePerInput(t *testing.T) {
	re := compile(t, "^ab")
	ms := re.Find(All, "abab")
	if len(ms) != 1 || ms[0].Index != 0 {
		t.Errorf("matches = %+v, want only the anchored one", ms)
	}
}
