// Package runecacher converts between the byte-indexed world of Go strings
// and the rune-indexed world of the matcher. Decoding happens once per
// input; after that, slicing and index translation are O(1) (translation
// from bytes is a binary search).
package runecacher

import "sort"

type RuneCacher struct {
	str     string
	runes   []rune
	byteOff []int // byteOff[i] is the byte offset of rune i; one extra entry for len(str)
	bytes   []byte
}

func NewFromString(s string) *RuneCacher {
	rc := &RuneCacher{str: s}
	rc.runes = make([]rune, 0, len(s))
	rc.byteOff = make([]int, 0, len(s)+1)
	for i, r := range s {
		rc.runes = append(rc.runes, r)
		rc.byteOff = append(rc.byteOff, i)
	}
	rc.byteOff = append(rc.byteOff, len(s))
	return rc
}

// Len is the length of the input in runes.
func (rc *RuneCacher) Len() int {
	return len(rc.runes)
}

func (rc *RuneCacher) Runes() []rune {
	return rc.runes
}

func (rc *RuneCacher) String() string {
	return rc.str
}

// Bytes returns the input as a byte slice. The conversion is cached; the
// caller must not modify the result.
func (rc *RuneCacher) Bytes() []byte {
	if rc.bytes == nil {
		rc.bytes = []byte(rc.str)
	}
	return rc.bytes
}

// Slice returns the input text between rune indexes i and j, without
// re-encoding.
func (rc *RuneCacher) Slice(i, j int) string {
	return rc.str[rc.byteOff[i]:rc.byteOff[j]]
}

// ByteIndex converts a rune index to the byte offset where that rune
// starts. ByteIndex(Len()) is len of the input in bytes.
func (rc *RuneCacher) ByteIndex(i int) int {
	return rc.byteOff[i]
}

// RuneIndex converts a byte offset to the index of the rune containing it.
// Offsets inside a multi-byte rune round down to that rune.
func (rc *RuneCacher) RuneIndex(b int) int {
	return sort.Search(len(rc.runes), func(i int) bool {
		return rc.byteOff[i+1] > b
	})
}
