package syntax

import (
	"bytes"
	"fmt"
)

type InstOp byte

const (
	OpChar          InstOp = iota // match rune Ch
	OpNotChar                     // match any rune but Ch
	OpSet                         // match a rune in Set
	OpMulti                       // match the literal run Str
	OpRepeatChar                  // Ch repeated M..N times (runtime loop)
	OpRepeatNotChar               // [^Ch] repeated M..N times
	OpRepeatSet                   // Set repeated M..N times
	OpSplit                       // try Out first, fall back to Alt
	OpJmp                         // continue at Out
	OpSave                        // record position in capture slot M
	OpReset                       // clear capture slots M..N inclusive
	OpMark                        // record position in mark slot M
	OpCheckMark                   // fail the branch if no progress since mark M
	OpRef                         // match the text captured by group M
	OpBol                         // ^
	OpEol                         // $
	OpBoundary                    // \b (Neg: \B)
	OpLook                        // lookahead running Sub (Neg: negative)
	OpFail                        // always backtrack
	OpMatch                       // attempt succeeded
)

// Inst is one instruction of a compiled program. Which fields are meaningful
// depends on Op; M and N double as repeat bounds, slot numbers and group
// numbers.
type Inst struct {
	Op   InstOp
	Ch   rune
	Str  []rune
	Set  *CharSet
	M    int
	N    int
	Out  int
	Alt  int
	Lazy bool
	Neg  bool
	Fold bool // case-insensitive backreference comparison
	Sub  []Inst
}

// Code is the executable form of a pattern: a flat program plus the slot
// counts an attempt needs for its scratch state. It holds no mutable state
// itself, so one Code can back any number of concurrent attempts.
type Code struct {
	Insts     []Inst
	Captop    int // number of capturing groups
	Capsize   int // capture slots: 2*(Captop+1)
	Markslots int // loop progress slots
	Options   RegexOptions
}

var opStr = []string{
	"Char", "NotChar", "Set", "Multi",
	"RepeatChar", "RepeatNotChar", "RepeatSet",
	"Split", "Jmp", "Save", "Reset", "Mark", "CheckMark",
	"Ref", "Bol", "Eol", "Boundary", "Look", "Fail", "Match",
}

func (i *Inst) Description() string {
	buf := &bytes.Buffer{}
	buf.WriteString(opStr[i.Op])
	switch i.Op {
	case OpChar, OpNotChar:
		buf.WriteString("(Ch = " + CharDescription(i.Ch) + ")")
	case OpSet:
		buf.WriteString("(Set = " + i.Set.String() + ")")
	case OpMulti:
		fmt.Fprintf(buf, "(String = %s)", string(i.Str))
	case OpRepeatChar, OpRepeatNotChar, OpRepeatSet:
		if i.Set != nil {
			buf.WriteString("(Set = " + i.Set.String() + ")")
		} else {
			buf.WriteString("(Ch = " + CharDescription(i.Ch) + ")")
		}
		fmt.Fprintf(buf, "(Min = %v, Max = %v, Lazy = %v)", i.M, i.N, i.Lazy)
	case OpSplit:
		fmt.Fprintf(buf, "(Out = %v, Alt = %v)", i.Out, i.Alt)
	case OpJmp:
		fmt.Fprintf(buf, "(Out = %v)", i.Out)
	case OpSave, OpMark, OpCheckMark:
		fmt.Fprintf(buf, "(Slot = %v)", i.M)
	case OpReset:
		fmt.Fprintf(buf, "(Slots = %v..%v)", i.M, i.N)
	case OpRef:
		fmt.Fprintf(buf, "(Group = %v, Fold = %v)", i.M, i.Fold)
	case OpBoundary, OpLook:
		fmt.Fprintf(buf, "(Neg = %v)", i.Neg)
	}
	return buf.String()
}

// Dump produces a listing of the program for debugging.
func (c *Code) Dump() string {
	buf := &bytes.Buffer{}
	dumpInsts(buf, c.Insts, 0)
	return buf.String()
}

func dumpInsts(buf *bytes.Buffer, insts []Inst, depth int) {
	for pc := range insts {
		for i := 0; i < depth; i++ {
			buf.WriteString("    ")
		}
		fmt.Fprintf(buf, "%04d %s\n", pc, insts[pc].Description())
		if insts[pc].Op == OpLook {
			dumpInsts(buf, insts[pc].Sub, depth+1)
		}
	}
}
