package regex

import "testing"

func TestContains(t *testing.T) {
	cases := []struct {
		pattern string
		input   string
		want    bool
	}{
		{"[0-9]", "abc123", true},
		{"[0-9]", "abcxyz", false},
		{"cat|dog", "hotdog", true},
		{"cat|dog", "catalog", true},
		{"cat|dog", "bird", false},
		{"", "anything", true},
		{"", "", true},
		{"a+", "", false},
		{"^$", "", true},
	}
	for _, c := range cases {
		re := compile(t, c.pattern)
		if got := re.Contains(c.input); got != c.want {
			t.Errorf("Contains(%q, %q) = %v, want %v", c.pattern, c.input, got, c.want)
		}
	}
}

func TestFindWithCaptures(t *testing.T) {
	re := compile(t, `[oi]n a (\w+)`)
	ms := re.Find(All, "I am on a boat in a lake.")
	if len(ms) != 2 {
		t.Fatalf("got %d matches, want 2", len(ms))
	}

	wantText := []string{"on a boat", "in a lake"}
	wantSub := []string{"boat", "lake"}
	for i, m := range ms {
		if m.Text != wantText[i] {
			t.Errorf("match %d text = %q, want %q", i, m.Text, wantText[i])
		}
		if m.Number != i+1 {
			t.Errorf("match %d number = %d, want %d", i, m.Number, i+1)
		}
		if len(m.Submatches) != 1 {
			t.Fatalf("match %d has %d submatches, want 1", i, len(m.Submatches))
		}
		if m.Submatches[0] == nil || *m.Submatches[0] != wantSub[i] {
			t.Errorf("match %d submatch = %v, want %q", i, m.Submatches[0], wantSub[i])
		}
	}
}

func TestFindZeroWidth(t *testing.T) {
	re := compile(t, "a*")
	ms := re.Find(All, "bbb")
	if len(ms) != 4 {
		t.Fatalf("got %d matches, want 4", len(ms))
	}
	for i, m := range ms {
		if m.Text != "" || m.Index != i || m.Number != i+1 {
			t.Errorf("match %d = {%q, %d, %d}, want empty match at %d", i, m.Text, m.Index, m.Number, i)
		}
	}
}

func TestFindZeroWidthBetweenRuns(t *testing.T) {
	re := compile(t, "a*")
	ms := re.Find(All, "aabaa")
	want := []struct {
		text  string
		index int
	}{
		{"aa", 0},
		{"", 2},
		{"aa", 3},
		{"", 5},
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

func TestFindAtMost(t *testing.T) {
	re := compile(t, `\d`)
	input := "1a2b3c4"
	for n := 0; n <= 5; n++ {
		ms := re.Find(AtMost(n), input)
		want := n
		if want > 4 {
			want = 4
		}
		if len(ms) != want {
			t.Errorf("Find(AtMost(%d)) returned %d matches, want %d", n, len(ms), want)
		}
	}
}

func TestFindRuneIndexes(t *testing.T) {
	re := compile(t, "b")
	ms := re.Find(All, "héllo b")
	if len(ms) != 1 {
		t.Fatalf("got %d matches, want 1", len(ms))
	}
	// indexes count runes, not bytes
	if ms[0].Index != 6 {
		t.Errorf("Index = %d, want 6", ms[0].Index)
	}

	re = compile(t, "日+")
	ms = re.Find(All, "x日日y日")
	if len(ms) != 2 || ms[0].Index != 1 || ms[0].Text != "日日" || ms[1].Index != 4 {
		t.Errorf("unexpected matches: %+v", ms)
	}
}

func TestFindCaseInsensitive(t *testing.T) {
	re, err := FromStringWith("ab", Options{CaseInsensitive: true})
	if err != nil {
		t.Fatal(err)
	}
	ms := re.Find(All, "AB aB Ab xx")
	if len(ms) != 3 {
		t.Fatalf("got %d matches, want 3", len(ms))
	}

	// classes fold too, including through ranges
	re, err = FromStringWith("[a-d]+", Options{CaseInsensitive: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := re.Find(All, "BaD")[0].Text; got != "BaD" {
		t.Errorf("folded class matched %q, want %q", got, "BaD")
	}
}

func TestFindMultiline(t *testing.T) {
	re, err := FromStringWith(`^\w+`, Options{Multiline: true})
	if err != nil {
		t.Fatal(err)
	}
	ms := re.Find(All, "foo\nbar\r\nbaz")
	if len(ms) != 3 {
		t.Fatalf("got %d matches, want 3", len(ms))
	}
	if ms[0].Text != "foo" || ms[1].Text != "bar" || ms[2].Text != "baz" {
		t.Errorf("matches = %q %q %q", ms[0].Text, ms[1].Text, ms[2].Text)
	}

	// without the flag, anchors bind to the whole input
	re = compile(t, `^\w+`)
	ms = re.Find(All, "foo\nbar")
	if len(ms) != 1 || ms[0].Text != "foo" {
		t.Errorf("unanchored multiline matches: %+v", ms)
	}

	re, err = FromStringWith(`\w+$`, Options{Multiline: true})
	if err != nil {
		t.Fatal(err)
	}
	ms = re.Find(All, "one\ntwo")
	if len(ms) != 2 || ms[0].Text != "one" || ms[1].Text != "two" {
		t.Errorf("$ multiline matches: %+v", ms)
	}
}

func TestFindBackreference(t *testing.T) {
	re := compile(t, `(\w+) \1`)
	ms := re.Find(All, "say hello hello now")
	if len(ms) != 1 {
		t.Fatalf("got %d matches, want 1", len(ms))
	}
	if ms[0].Text != "hello hello" || ms[0].Index != 4 {
		t.Errorf("match = {%q, %d}", ms[0].Text, ms[0].Index)
	}

	// a reference to a group that never participated matches empty
	re = compile(t, `(?:(a)|b)\1c`)
	ms = re.Find(All, "bc")
	if len(ms) != 1 || ms[0].Text != "bc" {
		t.Errorf("unset backreference: %+v", ms)
	}
}

func TestFindBackreferenceCaseFold(t *testing.T) {
	re, err := FromStringWith(`(ab)\1`, Options{CaseInsensitive: true})
	if err != nil {
		t.Fatal(err)
	}
	if !re.Contains("abAB") {
		t.Error("folded backreference should match differently-cased capture")
	}
	if re.Contains("abxy") {
		t.Error("folded backreference matched unrelated text")
	}
}

func TestFindLazyQuantifier(t *testing.T) {
	re := compile(t, "<.+?>")
	ms := re.Find(All, "<a><b>")
	if len(ms) != 2 || ms[0].Text != "<a>" || ms[1].Text != "<b>" {
		t.Errorf("lazy matches = %+v", ms)
	}

	re = compile(t, "<.+>")
	ms = re.Find(All, "<a><b>")
	if len(ms) != 1 || ms[0].Text != "<a><b>" {
		t.Errorf("greedy matches = %+v", ms)
	}
}

func TestFindAlternationPrefersLeft(t *testing.T) {
	re := compile(t, "foo|foobar")
	ms := re.Find(All, "foobar")
	if len(ms) != 1 || ms[0].Text != "foo" {
		t.Errorf("matches = %+v, want the first alternative", ms)
	}
}

func TestFindLookahead(t *testing.T) {
	re := compile(t, `\w+(?=,)`)
	ms := re.Find(All, "one,two three,four")
	if len(ms) != 2 || ms[0].Text != "one" || ms[1].Text != "three" {
		t.Errorf("lookahead matches = %+v", ms)
	}

	re = compile(t, `ab(?!c)`)
	ms = re.Find(All, "abc abd abe")
	if len(ms) != 2 || ms[0].Index != 4 || ms[1].Index != 8 {
		t.Errorf("negative lookahead matches = %+v", ms)
	}
}

func TestFindUnsetGroupIsNil(t *testing.T) {
	re := compile(t, "(a)|(b)")
	ms := re.Find(All, "b")
	if len(ms) != 1 {
		t.Fatalf("got %d matches, want 1", len(ms))
	}
	subs := ms[0].Submatches
	if len(subs) != 2 {
		t.Fatalf("got %d submatches, want 2", len(subs))
	}
	if subs[0] != nil {
		t.Errorf("submatch 1 = %q, want nil", *subs[0])
	}
	if subs[1] == nil || *subs[1] != "b" {
		t.Errorf("submatch 2 = %v, want \"b\"", subs[1])
	}
}

func TestFindGroupResetPerIteration(t *testing.T) {
	// the last iteration of the loop doesn't enter the group, so the
	// capture from the earlier iteration must not leak out
	re := compile(t, `(?:(a)|b)*`)
	ms := re.Find(AtMost(1), "ab")
	if len(ms) != 1 || ms[0].Text != "ab" {
		t.Fatalf("matches = %+v", ms)
	}
	if ms[0].Submatches[0] != nil {
		t.Errorf("submatch = %q, want nil after non-capturing iteration", *ms[0].Submatches[0])
	}
}

func TestFindDotExcludesLineTerminators(t *testing.T) {
	re := compile(t, "a.b")
	if re.Contains("a\nb") || re.Contains("a\rb") || re.Contains("a\u2028b") {
		t.Error(". must not match line terminators")
	}
	if !re.Contains("a b") || !re.Contains("axb") {
		t.Error(". should match ordinary runes")
	}
}

func TestFindWordBoundary(t *testing.T) {
	re := compile(t, `\bcat\b`)
	if !re.Contains("the cat sat") || re.Contains("concatenate") {
		t.Error(`\b boundary misbehaved`)
	}

	re = compile(t, `\Bcat\B`)
	if !re.Contains("concatenate") || re.Contains("the cat sat") {
		t.Error(`\B boundary misbehaved`)
	}
}
