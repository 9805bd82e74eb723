package regex

import "testing"

func TestPrefilterSelection(t *testing.T) {
	cases := []struct {
		pattern string
		want    string
	}{
		{"cat|dog|bird", "ac"},
		{"error|x", "ac"},
		{"foo\\d+", "multi"},
		{"z+", "char"},
		{"[ab]z", "set"},
		{"a*", "none"},
		{"^x", "none"},
		{"(?=a)b", "none"},
		{"cat|d+", "none"}, // branch is not a literal
	}
	for _, c := range cases {
		re := compile(t, c.pattern)
		var got string
		switch re.prefilter.(type) {
		case *acFilter:
			got = "ac"
		case *multiFilter:
			got = "multi"
		case *charFilter:
			got = "char"
		case *setFilter:
			got = "set"
		case nil:
			got = "none"
		}
		if got != c.want {
			t.Errorf("prefilter for %q = %s, want %s", c.pattern, got, c.want)
		}
	}
}

func TestPrefilterFindsSameMatches(t *testing.T) {
	// patterns chosen so each prefilter kind runs on a real scan
	cases := []struct {
		pattern string
		input   string
		want    []string
	}{
		{"cat|dog", "a dog, a catalog, a dog", []string{"dog", "cat", "dog"}},
		{"needle", "haystack needle haystack needle", []string{"needle", "needle"}},
		{`q\d`, "zzq1zzq2", []string{"q1", "q2"}},
		{"[xy]a", "xa ya za", []string{"xa", "ya"}},
	}
	for _, c := range cases {
		re := compile(t, c.pattern)
		ms := re.Find(All, c.input)
		if len(ms) != len(c.want) {
			t.Errorf("Find(%q, %q) = %d matches, want %d", c.pattern, c.input, len(ms), len(c.want))
			continue
		}
		for i := range ms {
			if ms[i].Text != c.want[i] {
				t.Errorf("Find(%q, %q)[%d] = %q, want %q", c.pattern, c.input, i, ms[i].Text, c.want[i])
			}
		}
	}
}

func TestPrefilterLiteralAlternationContains(t *testing.T) {
	re := compile(t, "alpha|beta|gamma")
	if _, ok := re.prefilter.(*acFilter); !ok {
		t.Fatal("literal alternation should use the automaton")
	}
	if !re.Contains("ab gamma cd") || re.Contains("delta epsilon") {
		t.Error("automaton-backed Contains disagrees with the pattern")
	}
}

func TestPrefilterOverlappingBranchLiterals(t *testing.T) {
	// one branch ends inside another; the automaton reports the
	// occurrence that ends first, and the scan must not be pulled past
	// an earlier-starting match
	cases := []struct {
		pattern string
		input   string
		want    string
		index   int
	}{
		{"abc|b", "abc", "abc", 0},
		{"b|abc", "abc", "abc", 0},
		{"abc|b", "xabc", "abc", 1},
		{"ab|ba", "aba", "ab", 0},
	}
	for _, c := range cases {
		re := compile(t, c.pattern)
		if _, ok := re.prefilter.(*acFilter); !ok {
			t.Fatalf("%q should use the automaton", c.pattern)
		}
		ms := re.Find(AtMost(1), c.input)
		if len(ms) != 1 || ms[0].Text != c.want || ms[0].Index != c.index {
			t.Errorf("Find(%q, %q) = %+v, want {%q, %d}", c.pattern, c.input, ms, c.want, c.index)
		}
	}
}

func TestPrefilterOverlappingLiteralsFullScan(t *testing.T) {
	re := compile(t, "abc|b")
	ms := re.Find(All, "b abc bc")
	want := []struct {
		text  string
		index int
	}{
		{"b", 0},
		{"abc", 2},
		{"b", 6},
	}
	if len(ms) != len(want) {
		t.Fatalf("got %d matches, want %d", len(ms), len(want))
	}
	for i, m := range ms {
		if m.Text != want[i].text || m.Index != want[i].index {
			t.Errorf("match %d = {%q, %d}, want {%q, %d}", i, m.Text, m.Index, want[i].text, want[i].index)
		}
	}
}

func TestPrefilterMultiByteInput(t *testing.T) {
	// byte offsets from the automaton must translate back to rune indexes
	re := compile(t, "abc|xyz")
	ms := re.Find(All, "日本語abc日本語xyz")
	if len(ms) != 2 {
		t.Fatalf("got %d matches, want 2", len(ms))
	}
	if ms[0].Index != 3 || ms[1].Index != 9 {
		t.Errorf("indexes = %d, %d, want 3, 9", ms[0].Index, ms[1].Index)
	}
}

func TestPrefilterCaseInsensitiveDisablesLiterals(t *testing.T) {
	// folded literals become sets, so no automaton is built and matching
	// still works through the general path
	re, err := FromStringWith("cat|dog", Options{CaseInsensitive: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := re.prefilter.(*acFilter); ok {
		t.Fatal("case-folded alternation must not use the byte automaton")
	}
	if !re.Contains("hotDOG") || !re.Contains("CATalog") {
		t.Error("case-insensitive alternation failed to match")
	}
}
