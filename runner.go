package regex

import (
	"unicode"

	"github.com/elm/regex/syntax"
)

// runner executes a compiled program against one input. It is the mutable
// half of a Regexp: capture slots, loop marks and the backtrack stack all
// live here, so a Regexp hands out runners under a lock.
type runner struct {
	code  *syntax.Code
	runes []rune

	saved []int // capture slots; -1 means unset
	marks []int // loop progress slots
}

type trackKind byte

const (
	trackAlt    trackKind = iota // resume at pc with restored state
	trackRepeat                  // greedy repeat: retry with one fewer iteration
	trackLazy                    // lazy repeat: retry with one more iteration
)

// trackFrame records one backtrack point. Repeat frames stay on the stack
// and count down (or up) in place until their bounds are exhausted.
type trackFrame struct {
	kind  trackKind
	pc    int
	pos   int
	cur   int // iteration count for repeat frames
	saved []int
	marks []int
}

func newRunner(code *syntax.Code) *runner {
	return &runner{
		code:  code,
		saved: make([]int, code.Capsize),
		marks: make([]int, code.Markslots),
	}
}

// attempt runs one anchored attempt at the given rune position. On success
// the overall span is left in slots 0 and 1 and the group spans in the
// higher slots.
func (r *runner) attempt(start int) bool {
	for i := range r.saved {
		r.saved[i] = -1
	}
	for i := range r.marks {
		r.marks[i] = -1
	}
	r.saved[0] = start

	end, ok := r.exec(r.code.Insts, start)
	if ok {
		r.saved[1] = end
	}
	return ok
}

// exec interprets a program starting at pos. Lookahead bodies recurse into
// exec with their own backtrack stack, so choices inside a lookahead never
// unwind into the enclosing program.
func (r *runner) exec(insts []syntax.Inst, pos int) (int, bool) {
	var track []trackFrame
	pc := 0

loop:
	for {
		inst := &insts[pc]
		switch inst.Op {
		case syntax.OpMatch:
			return pos, true

		case syntax.OpFail:
			// fall through to backtracking

		case syntax.OpChar:
			if pos < len(r.runes) && r.runes[pos] == inst.Ch {
				pos++
				pc++
				continue loop
			}

		case syntax.OpNotChar:
			if pos < len(r.runes) && r.runes[pos] != inst.Ch {
				pos++
				pc++
				continue loop
			}

		case syntax.OpSet:
			if pos < len(r.runes) && inst.Set.CharIn(r.runes[pos]) {
				pos++
				pc++
				continue loop
			}

		case syntax.OpMulti:
			if pos+len(inst.Str) <= len(r.runes) {
				j := 0
				for ; j < len(inst.Str); j++ {
					if r.runes[pos+j] != inst.Str[j] {
						break
					}
				}
				if j == len(inst.Str) {
					pos += j
					pc++
					continue loop
				}
			}

		case syntax.OpRepeatChar, syntax.OpRepeatNotChar, syntax.OpRepeatSet:
			if inst.Lazy {
				if pos+inst.M <= len(r.runes) && r.repeatRun(inst, pos, inst.M) == inst.M {
					if inst.M < inst.N {
						track = append(track, trackFrame{
							kind: trackLazy, pc: pc, pos: pos, cur: inst.M,
							saved: r.snapSaved(), marks: r.snapMarks(),
						})
					}
					pos += inst.M
					pc++
					continue loop
				}
			} else {
				k := r.repeatRun(inst, pos, inst.N)
				if k >= inst.M {
					if k > inst.M {
						track = append(track, trackFrame{
							kind: trackRepeat, pc: pc, pos: pos, cur: k,
							saved: r.snapSaved(), marks: r.snapMarks(),
						})
					}
					pos += k
					pc++
					continue loop
				}
			}

		case syntax.OpSplit:
			track = append(track, trackFrame{
				kind: trackAlt, pc: inst.Alt, pos: pos,
				saved: r.snapSaved(), marks: r.snapMarks(),
			})
			pc = inst.Out
			continue loop

		case syntax.OpJmp:
			pc = inst.Out
			continue loop

		case syntax.OpSave:
			r.saved[inst.M] = pos
			pc++
			continue loop

		case syntax.OpReset:
			for s := inst.M; s <= inst.N; s++ {
				r.saved[s] = -1
			}
			pc++
			continue loop

		case syntax.OpMark:
			r.marks[inst.M] = pos
			pc++
			continue loop

		case syntax.OpCheckMark:
			// an iteration that consumed nothing would loop forever
			if r.marks[inst.M] != pos {
				pc++
				continue loop
			}

		case syntax.OpRef:
			st, en := r.saved[inst.M*2], r.saved[inst.M*2+1]
			if st < 0 || en < 0 {
				// a reference to a group that never matched matches empty
				pc++
				continue loop
			}
			n := en - st
			if pos+n <= len(r.runes) {
				j := 0
				for ; j < n; j++ {
					if !runeEq(r.runes[pos+j], r.runes[st+j], inst.Fold) {
						break
					}
				}
				if j == n {
					pos += n
					pc++
					continue loop
				}
			}

		case syntax.OpBol:
			if pos == 0 || (r.code.Options&syntax.Multiline != 0 && syntax.IsLineTerminator(r.runes[pos-1])) {
				pc++
				continue loop
			}

		case syntax.OpEol:
			if pos == len(r.runes) || (r.code.Options&syntax.Multiline != 0 && syntax.IsLineTerminator(r.runes[pos])) {
				pc++
				continue loop
			}

		case syntax.OpBoundary:
			before := pos > 0 && syntax.IsWordChar(r.runes[pos-1])
			after := pos < len(r.runes) && syntax.IsWordChar(r.runes[pos])
			if (before != after) != inst.Neg {
				pc++
				continue loop
			}

		case syntax.OpLook:
			savedCopy, marksCopy := r.snapSaved(), r.snapMarks()
			_, ok := r.exec(inst.Sub, pos)
			if inst.Neg || !ok {
				copy(r.saved, savedCopy)
				copy(r.marks, marksCopy)
			}
			if ok != inst.Neg {
				pc++
				continue loop
			}
		}

		// the instruction failed; unwind to the newest viable choice
		for {
			if len(track) == 0 {
				return 0, false
			}
			f := &track[len(track)-1]
			switch f.kind {
			case trackAlt:
				pc, pos = f.pc, f.pos
				copy(r.saved, f.saved)
				copy(r.marks, f.marks)
				track = track[:len(track)-1]

			case trackRepeat:
				f.cur--
				if f.cur < insts[f.pc].M {
					track = track[:len(track)-1]
					continue
				}
				copy(r.saved, f.saved)
				copy(r.marks, f.marks)
				pos = f.pos + f.cur
				pc = f.pc + 1

			case trackLazy:
				in := &insts[f.pc]
				if f.cur >= in.N || f.pos+f.cur >= len(r.runes) || !r.repeatOne(in, f.pos+f.cur) {
					track = track[:len(track)-1]
					continue
				}
				f.cur++
				copy(r.saved, f.saved)
				copy(r.marks, f.marks)
				pos = f.pos + f.cur
				pc = f.pc + 1
			}
			break
		}
	}
}

// repeatRun counts how many consecutive runes from pos satisfy a repeat
// instruction, up to max.
func (r *runner) repeatRun(inst *syntax.Inst, pos, max int) int {
	k := 0
	for k < max && pos+k < len(r.runes) && r.repeatOne(inst, pos+k) {
		k++
	}
	return k
}

func (r *runner) repeatOne(inst *syntax.Inst, pos int) bool {
	switch inst.Op {
	case syntax.OpRepeatChar:
		return r.runes[pos] == inst.Ch
	case syntax.OpRepeatNotChar:
		return r.runes[pos] != inst.Ch
	default:
		return inst.Set.CharIn(r.runes[pos])
	}
}

func (r *runner) snapSaved() []int {
	return append([]int(nil), r.saved...)
}

func (r *runner) snapMarks() []int {
	if len(r.marks) == 0 {
		return nil
	}
	return append([]int(nil), r.marks...)
}

// runeEq compares two runes, optionally under simple case folding. Used by
// backreferences, the one construct where case insensitivity survives to
// match time.
func runeEq(a, b rune, fold bool) bool {
	if a == b {
		return true
	}
	if !fold {
		return false
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}
