package syntax

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"unicode"
)

// RegexTree is the parsed form of a pattern, ready to be lowered to a
// program by Write.
type RegexTree struct {
	Root    *RegexNode
	Captop  int // number of capturing groups
	Options RegexOptions
}

// RegexOptions mirrors the public option record at the syntax layer.
type RegexOptions int32

const (
	IgnoreCase RegexOptions = 0x0001 // "i"
	Multiline  RegexOptions = 0x0002 // "m"
)

// RegexNodes are built into a tree, linked by the n.Children list. The tree
// is a temporary structure used only while lowering the pattern to a
// program, so it is laid out for clarity rather than space.
//
// Leaves correspond to primitive operations; a handful of leaf variants
// (Oneloop, Setlazy, ...) exist so single-rune quantifiers can become tight
// runtime loops instead of generic loop structures.
type RegexNode struct {
	T        NodeType
	Children []*RegexNode
	Str      []rune
	Set      *CharSet
	Ch       rune
	M        int
	N        int
	Options  RegexOptions
	Next     *RegexNode
}

type NodeType int32

const (
	NtUnknown NodeType = -1

	// Leaves.
	NtOneloop     NodeType = 3  // a{m,n}
	NtNotoneloop  NodeType = 4  // [^a]{m,n}
	NtSetloop     NodeType = 5  // [\d]{m,n}
	NtOnelazy     NodeType = 6  // a{m,n}?
	NtNotonelazy  NodeType = 7  // [^a]{m,n}?
	NtSetlazy     NodeType = 8  // [\d]{m,n}?
	NtOne         NodeType = 9  // a
	NtNotone      NodeType = 10 // [^a]
	NtSet         NodeType = 11 // [a-z\s]
	NtMulti       NodeType = 12 // abcd
	NtRef         NodeType = 13 // \1
	NtBol         NodeType = 14 // ^
	NtEol         NodeType = 15 // $
	NtBoundary    NodeType = 16 // \b
	NtNonboundary NodeType = 17 // \B

	// Interior nodes compositing other operations.
	NtNothing     NodeType = 22 // []
	NtEmpty       NodeType = 23 // ()
	NtAlternate   NodeType = 24 // a|b
	NtConcatenate NodeType = 25 // ab
	NtLoop        NodeType = 26 // * + ? {m,n}
	NtLazyloop    NodeType = 27 // *? +? ?? {m,n}?
	NtCapture     NodeType = 28 // (...)
	NtGroup       NodeType = 29 // (?:...)
	NtPosLook     NodeType = 30 // (?=...)
	NtNegLook     NodeType = 31 // (?!...)
)

func newRegexNode(t NodeType, opt RegexOptions) *RegexNode {
	return &RegexNode{
		T:       t,
		Options: opt,
	}
}

func newRegexNodeCh(t NodeType, opt RegexOptions, ch rune) *RegexNode {
	return nodeWithCaseConversion(&RegexNode{
		T:       t,
		Options: opt,
		Ch:      ch,
	})
}

func newRegexNodeStr(t NodeType, opt RegexOptions, str []rune) *RegexNode {
	return &RegexNode{
		T:       t,
		Options: opt,
		Str:     str,
	}
}

func newRegexNodeSet(t NodeType, opt RegexOptions, set *CharSet) *RegexNode {
	return nodeWithCaseConversion(&RegexNode{
		T:       t,
		Options: opt,
		Set:     set,
	})
}

func newRegexNodeM(t NodeType, opt RegexOptions, m int) *RegexNode {
	return &RegexNode{
		T:       t,
		Options: opt,
		M:       m,
	}
}

func newRegexNodeMN(t NodeType, opt RegexOptions, m, n int) *RegexNode {
	return &RegexNode{
		T:       t,
		Options: opt,
		M:       m,
		N:       n,
	}
}

// nodeWithCaseConversion folds case insensitivity into the node itself:
// under IgnoreCase a cased rune becomes the set of its case equivalents and
// a set gets its case equivalences added. The IgnoreCase bit is then dropped
// so later stages never consult it (backreferences excepted, see reduce).
func nodeWithCaseConversion(n *RegexNode) *RegexNode {
	if n.Options&IgnoreCase == 0 {
		return n
	}

	if n.Set == nil {
		ch := n.Ch
		if unicode.SimpleFold(ch) == ch {
			n.Options &= ^IgnoreCase
			return n
		}

		set := &CharSet{}
		set.addChar(ch)
		for f := unicode.SimpleFold(ch); f != ch; f = unicode.SimpleFold(f) {
			set.addChar(f)
		}

		t := NtSet
		if n.T == NtOneloop || n.T == NtNotoneloop {
			t = NtSetloop
		} else if n.T == NtOnelazy || n.T == NtNotonelazy {
			t = NtSetlazy
		}
		set.negate = n.IsNotoneFamily()

		return &RegexNode{
			T:       t,
			Options: n.Options & ^IgnoreCase,
			Set:     set,
			M:       n.M,
			N:       n.N,
		}
	}

	// just to be safe we don't modify the original set pointer
	// in case it's shared with a case-sensitive node
	s := n.Set.Copy()
	s.addCaseEquivalences()
	n.Set = &s
	n.Options &= ^IgnoreCase
	return n
}

func (n *RegexNode) IsSetFamily() bool {
	return n.T == NtSet || n.T == NtSetloop || n.T == NtSetlazy
}
func (n *RegexNode) IsOneFamily() bool {
	return n.T == NtOne || n.T == NtOneloop || n.T == NtOnelazy
}
func (n *RegexNode) IsNotoneFamily() bool {
	return n.T == NtNotone || n.T == NtNotoneloop || n.T == NtNotonelazy
}

func (n *RegexNode) addChild(child *RegexNode) {
	reduced := child.reduce()
	n.Children = append(n.Children, reduced)
	reduced.Next = n
}

func (n *RegexNode) insertChildren(afterIndex int, nodes []*RegexNode) {
	newChildren := make([]*RegexNode, 0, len(n.Children)+len(nodes))
	n.Children = append(append(append(newChildren, n.Children[:afterIndex]...), nodes...), n.Children[afterIndex:]...)
}

// removes children including the start but not the end index
func (n *RegexNode) removeChildren(startIndex, endIndex int) {
	n.Children = append(n.Children[:startIndex], n.Children[endIndex:]...)
}

// Pass type as OneLazy or OneLoop
func (n *RegexNode) makeRep(t NodeType, min, max int) {
	n.T += (t - NtOne)
	n.M = min
	n.N = max
}

func (n *RegexNode) reduce() *RegexNode {
	// IgnoreCase was folded into leaves at construction; only a
	// backreference still needs it at match time.
	if n.T != NtRef {
		n.Options &= ^IgnoreCase
	}
	switch n.T {
	case NtAlternate:
		return n.reduceAlternation()

	case NtConcatenate:
		return n.reduceConcatenation()

	case NtGroup:
		return n.reduceGroup()

	case NtSet, NtSetloop, NtSetlazy:
		return n.reduceSet()

	default:
		return n
	}
}

// Basic optimization. Adjacent single-char alternatives merge into sets, and
// nested alternations with no intervening operators flatten:
//
// a|b|c|def|g|h -> [a-c]|def|[gh]
// apple|(?:orange|pear)|grape -> apple|orange|pear|grape
func (n *RegexNode) reduceAlternation() *RegexNode {
	if len(n.Children) == 0 {
		return newRegexNode(NtNothing, n.Options)
	}

	wasLastSet := false
	var i, j int

	for i, j = 0, 0; i < len(n.Children); i, j = i+1, j+1 {
		at := n.Children[i]

		if j < i {
			n.Children[j] = at
		}

		if at.T == NtAlternate {
			for k := 0; k < len(at.Children); k++ {
				at.Children[k].Next = n
			}
			n.insertChildren(i+1, at.Children)
			j--
		} else if at.T == NtSet || at.T == NtOne {
			mergeable := at.T == NtOne || at.Set.IsMergeable()
			if !wasLastSet || !mergeable {
				wasLastSet = mergeable
				continue
			}

			// the last node was a mergeable Set or a One, merge the two
			j--
			prev := n.Children[j]

			var prevSet *CharSet
			if prev.T == NtOne {
				prevSet = &CharSet{}
				prevSet.addChar(prev.Ch)
			} else {
				prevSet = prev.Set
			}

			if at.T == NtOne {
				prevSet.addChar(at.Ch)
			} else {
				prevSet.addSet(*at.Set)
			}
			prevSet.canonicalize()

			prev.T = NtSet
			prev.Set = prevSet
		} else if at.T == NtNothing {
			j--
		} else {
			wasLastSet = false
		}
	}

	if j < i {
		n.removeChildren(j, i)
	}

	return n.stripEnation(NtNothing)
}

// Basic optimization. Empties vanish and adjacent strings/chars concatenate:
//
// (?:abc)(?:def) -> abcdef
func (n *RegexNode) reduceConcatenation() *RegexNode {
	if len(n.Children) == 0 {
		return newRegexNode(NtEmpty, n.Options)
	}

	wasLastString := false
	var i, j int

	for i, j = 0, 0; i < len(n.Children); i, j = i+1, j+1 {
		at := n.Children[i]

		if j < i {
			n.Children[j] = at
		}

		if at.T == NtConcatenate {
			for k := 0; k < len(at.Children); k++ {
				at.Children[k].Next = n
			}
			n.insertChildren(i+1, at.Children)
			j--
		} else if at.T == NtMulti || at.T == NtOne {
			if !wasLastString {
				wasLastString = true
				continue
			}

			j--
			prev := n.Children[j]

			if prev.T == NtOne {
				prev.T = NtMulti
				prev.Str = []rune{prev.Ch}
			}

			if at.T == NtOne {
				prev.Str = append(prev.Str, at.Ch)
			} else {
				prev.Str = append(prev.Str, at.Str...)
			}
		} else if at.T == NtEmpty {
			j--
		} else {
			wasLastString = false
		}
	}

	if j < i {
		n.removeChildren(j, i)
	}

	return n.stripEnation(NtEmpty)
}

// Simple optimization. If a concatenation or alternation has only
// one child strip out the intermediate node. If it has zero children,
// turn it into an empty.
func (n *RegexNode) stripEnation(emptyType NodeType) *RegexNode {
	switch len(n.Children) {
	case 0:
		return newRegexNode(emptyType, n.Options)
	case 1:
		return n.Children[0]
	default:
		return n
	}
}

func (n *RegexNode) reduceGroup() *RegexNode {
	u := n
	for u.T == NtGroup {
		u = u.Children[0]
	}
	return u
}

// Simple optimization. If a set is a singleton, an inverse singleton,
// or empty, it's transformed accordingly.
func (n *RegexNode) reduceSet() *RegexNode {
	if n.Set == nil || n.Set.IsEmpty() {
		n.T = NtNothing
		n.Set = nil
	} else if n.Set.IsSingleton() {
		n.Ch = n.Set.SingletonChar()
		n.Set = nil
		n.T += (NtOne - NtSet)
	} else if n.Set.IsSingletonInverse() {
		n.Ch = n.Set.SingletonChar()
		n.Set = nil
		n.T += (NtNotone - NtSet)
	}
	return n
}

func (n *RegexNode) makeQuantifier(lazy bool, min, max int) *RegexNode {
	if min == 0 && max == 0 {
		return newRegexNode(NtEmpty, n.Options)
	}

	if min == 1 && max == 1 {
		return n
	}

	switch n.T {
	case NtOne, NtNotone, NtSet:
		if lazy {
			n.makeRep(NtOnelazy, min, max)
		} else {
			n.makeRep(NtOneloop, min, max)
		}
		return n

	default:
		var t NodeType
		if lazy {
			t = NtLazyloop
		} else {
			t = NtLoop
		}
		result := newRegexNodeMN(t, n.Options, min, max)
		result.addChild(n)
		return result
	}
}

// ComputeMinLength computes a min bound on the length of any string that
// could possibly match. If the result is 0, there is no minimum to enforce.
func (n *RegexNode) ComputeMinLength() int {
	switch n.T {
	case NtOne, NtNotone, NtSet:
		return 1
	case NtMulti:
		return len(n.Str)
	case NtOnelazy, NtOneloop, NtNotonelazy, NtNotoneloop, NtSetlazy, NtSetloop:
		return n.M
	case NtLazyloop, NtLoop:
		return n.M * n.Children[0].ComputeMinLength()
	case NtAlternate:
		min := n.Children[0].ComputeMinLength()
		for i := 1; i < len(n.Children) && min > 0; i++ {
			if newMin := n.Children[i].ComputeMinLength(); newMin < min {
				min = newMin
			}
		}
		return min
	case NtConcatenate:
		sum := 0
		for i := 0; i < len(n.Children); i++ {
			sum += n.Children[i].ComputeMinLength()
		}
		return sum
	case NtCapture, NtGroup:
		return n.Children[0].ComputeMinLength()
	}
	// Anchors, lookarounds, backreferences and empties guarantee nothing.
	return 0
}

// CaptureRange reports the lowest and highest capture-group numbers opened
// inside the subtree, or ok=false if it contains none. Group numbers inside
// a subtree are contiguous because they're assigned left to right.
func (n *RegexNode) CaptureRange() (lo, hi int, ok bool) {
	if n.T == NtCapture {
		lo, hi, ok = n.M, n.M, true
	}
	for _, child := range n.Children {
		clo, chi, cok := child.CaptureRange()
		if !cok {
			continue
		}
		if !ok || clo < lo {
			lo = clo
		}
		if !ok || chi > hi {
			hi = chi
		}
		ok = true
	}
	return lo, hi, ok
}

// FindStartingLiteralNode finds a literal leaf guaranteed to begin any match
// of the subtree, or nil if none exists. Used by the scan prefilter.
func (n *RegexNode) FindStartingLiteralNode() *RegexNode {
	node := n
	for node != nil {
		switch node.T {
		case NtOne, NtMulti, NtSet:
			return node

		case NtOneloop, NtOnelazy, NtSetloop, NtSetlazy:
			if node.M > 0 {
				return node
			}
			return nil

		case NtConcatenate, NtCapture, NtGroup:
			node = node.Children[0]
			continue

		case NtLoop, NtLazyloop:
			if node.M > 0 {
				node = node.Children[0]
				continue
			}
			return nil
		}
		return nil
	}
	return nil
}

// debug helpers

var typeStr = map[NodeType]string{
	NtOneloop: "Oneloop", NtNotoneloop: "Notoneloop", NtSetloop: "Setloop",
	NtOnelazy: "Onelazy", NtNotonelazy: "Notonelazy", NtSetlazy: "Setlazy",
	NtOne: "One", NtNotone: "Notone", NtSet: "Set",
	NtMulti: "Multi", NtRef: "Ref",
	NtBol: "Bol", NtEol: "Eol", NtBoundary: "Boundary", NtNonboundary: "Nonboundary",
	NtNothing: "Nothing", NtEmpty: "Empty",
	NtAlternate: "Alternate", NtConcatenate: "Concatenate",
	NtLoop: "Loop", NtLazyloop: "Lazyloop",
	NtCapture: "Capture", NtGroup: "Group",
	NtPosLook: "PosLook", NtNegLook: "NegLook",
}

func (n *RegexNode) Description() string {
	buf := &bytes.Buffer{}
	buf.WriteString(typeStr[n.T])

	switch n.T {
	case NtOneloop, NtNotoneloop, NtOnelazy, NtNotonelazy, NtOne, NtNotone:
		buf.WriteString("(Ch = " + CharDescription(n.Ch) + ")")
	case NtCapture, NtRef:
		buf.WriteString("(index = " + strconv.Itoa(n.M) + ")")
	case NtMulti:
		fmt.Fprintf(buf, "(String = %s)", string(n.Str))
	case NtSet, NtSetloop, NtSetlazy:
		buf.WriteString("(Set = " + n.Set.String() + ")")
	}

	switch n.T {
	case NtOneloop, NtNotoneloop, NtOnelazy, NtNotonelazy, NtSetloop, NtSetlazy, NtLoop, NtLazyloop:
		buf.WriteString("(Min = ")
		buf.WriteString(strconv.Itoa(n.M))
		buf.WriteString(", Max = ")
		if n.N == math.MaxInt32 {
			buf.WriteString("inf")
		} else {
			buf.WriteString(strconv.Itoa(n.N))
		}
		buf.WriteString(")")
	}

	return buf.String()
}

var padSpace = []byte("                                ")

func (t *RegexTree) Dump() string {
	return t.Root.dump()
}

func (n *RegexNode) dump() string {
	var stack []int
	curNode := n
	curChild := 0

	buf := bytes.NewBufferString(curNode.Description())
	buf.WriteRune('\n')

	for {
		if curNode.Children != nil && curChild < len(curNode.Children) {
			stack = append(stack, curChild+1)
			curNode = curNode.Children[curChild]
			curChild = 0

			depth := len(stack)
			if depth > 32 {
				depth = 32
			}
			buf.Write(padSpace[:depth])
			buf.WriteString(curNode.Description())
			buf.WriteRune('\n')
		} else {
			if len(stack) == 0 {
				break
			}

			curChild = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			curNode = curNode.Next
		}
	}
	return buf.String()
}
