package regex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var propPatterns = []string{
	`[0-9]+`,
	`a*`,
	`\w+`,
	` *, *`,
	`(b)(c)?`,
	`x|y{2}`,
	`c.t`,
	`(\w)\1`,
}

var propInputs = []string{
	"",
	"abc123",
	"tom, 99, 90, 85",
	"bcbcb",
	"xyyx yy",
	"aaa bb c",
	"cat cot cup",
	"héllo 日本",
}

func TestContainsAgreesWithFind(t *testing.T) {
	for _, p := range propPatterns {
		re, err := FromString(p)
		require.NoError(t, err, p)
		for _, s := range propInputs {
			assert.Equal(t, len(re.Find(AtMost(1), s)) > 0, re.Contains(s),
				"pattern %q input %q", p, s)
		}
	}
}

func TestBoundedFindIsPrefixOfAll(t *testing.T) {
	for _, p := range propPatterns {
		re, err := FromString(p)
		require.NoError(t, err, p)
		for _, s := range propInputs {
			all := re.Find(All, s)
			for n := 0; n <= len(all)+1; n++ {
				bounded := re.Find(AtMost(n), s)
				require.LessOrEqual(t, len(bounded), n, "pattern %q input %q", p, s)
				for i := range bounded {
					assert.Equal(t, all[i].Text, bounded[i].Text, "pattern %q input %q", p, s)
					assert.Equal(t, all[i].Index, bounded[i].Index, "pattern %q input %q", p, s)
					assert.Equal(t, all[i].Number, bounded[i].Number, "pattern %q input %q", p, s)
				}
			}
		}
	}
}

func TestSplitReconstructsInput(t *testing.T) {
	for _, p := range propPatterns {
		re, err := FromString(p)
		require.NoError(t, err, p)
		for _, s := range propInputs {
			matches := re.Find(All, s)
			pieces := re.Split(All, s)
			require.Len(t, pieces, len(matches)+1, "pattern %q input %q", p, s)

			var b strings.Builder
			for i, piece := range pieces {
				b.WriteString(piece)
				if i < len(matches) {
					b.WriteString(matches[i].Text)
				}
			}
			assert.Equal(t, s, b.String(), "pattern %q", p)
		}
	}
}

func TestMatchNumbersAreSequential(t *testing.T) {
	for _, p := range propPatterns {
		re, err := FromString(p)
		require.NoError(t, err, p)
		for _, s := range propInputs {
			for _, bound := range []Count{All, AtMost(1), AtMost(3)} {
				for i, m := range re.Find(bound, s) {
					assert.Equal(t, i+1, m.Number, "pattern %q input %q", p, s)
				}
			}
		}
	}
}

func TestIdentityReplaceIsNoop(t *testing.T) {
	for _, p := range propPatterns {
		re, err := FromString(p)
		require.NoError(t, err, p)
		for _, s := range propInputs {
			got := re.Replace(All, s, func(m Match) string { return m.Text })
			assert.Equal(t, s, got, "pattern %q", p)
		}
	}
}

func TestMatchesAreOrderedAndDisjoint(t *testing.T) {
	for _, p := range propPatterns {
		re, err := FromString(p)
		require.NoError(t, err, p)
		for _, s := range propInputs {
			prevEnd := -1
			for _, m := range re.Find(All, s) {
				require.GreaterOrEqual(t, m.Index, prevEnd, "pattern %q input %q", p, s)
				end := m.Index + len([]rune(m.Text))
				require.GreaterOrEqual(t, end, m.Index)
				prevEnd = end
			}
		}
	}
}

func TestSubmatchCountIsFixed(t *testing.T) {
	re, err := FromString(`(a)(b(c)?)?`)
	require.NoError(t, err)
	require.Equal(t, 3, re.GroupCount())
	for _, s := range []string{"a", "ab", "abc", "abca"} {
		for _, m := range re.Find(All, s) {
			assert.Len(t, m.Submatches, 3, "input %q", s)
		}
	}
}
