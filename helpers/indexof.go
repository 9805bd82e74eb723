// Package helpers holds the small rune-slice search routines the scan loop
// uses to skip ahead to candidate match positions.
package helpers

import "github.com/elm/regex/syntax"

// IndexOf returns the index of the first occurrence of sub in r at or after
// start, or -1 if there is none. An empty sub matches at start.
func IndexOf(r []rune, sub []rune, start int) int {
	if len(sub) == 0 {
		if start > len(r) {
			return -1
		}
		return start
	}
	for i := start; i+len(sub) <= len(r); i++ {
		if r[i] != sub[0] {
			continue
		}
		j := 1
		for ; j < len(sub); j++ {
			if r[i+j] != sub[j] {
				break
			}
		}
		if j == len(sub) {
			return i
		}
	}
	return -1
}

// IndexOfRune returns the index of the first occurrence of ch in r at or
// after start, or -1.
func IndexOfRune(r []rune, ch rune, start int) int {
	for i := start; i < len(r); i++ {
		if r[i] == ch {
			return i
		}
	}
	return -1
}

// IndexOfSet returns the index of the first rune in r at or after start
// that is a member of set, or -1.
func IndexOfSet(r []rune, set *syntax.CharSet, start int) int {
	for i := start; i < len(r); i++ {
		if set.CharIn(r[i]) {
			return i
		}
	}
	return -1
}
