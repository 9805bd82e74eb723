package syntax

import (
	"fmt"
	"math"
)

// Write lowers a parse tree to an executable program. Single-rune
// quantifiers become runtime repeat instructions; quantified groups are
// expanded into split/jmp structure, with an empty-iteration guard on
// unbounded loops so patterns like (a?)* terminate.
func Write(tree *RegexTree) (*Code, error) {
	w := &writer{}
	if err := w.writeNode(tree.Root); err != nil {
		return nil, err
	}
	w.emit(Inst{Op: OpMatch})
	return &Code{
		Insts:     w.insts,
		Captop:    tree.Captop,
		Capsize:   (tree.Captop + 1) * 2,
		Markslots: w.markslots,
		Options:   tree.Options,
	}, nil
}

type writer struct {
	insts     []Inst
	markslots int
}

func (w *writer) emit(i Inst) int {
	w.insts = append(w.insts, i)
	return len(w.insts) - 1
}

// here is the pc the next emitted instruction will get.
func (w *writer) here() int {
	return len(w.insts)
}

func (w *writer) writeNode(n *RegexNode) error {
	switch n.T {
	case NtEmpty:
		// matches at every position, nothing to emit

	case NtNothing:
		w.emit(Inst{Op: OpFail})

	case NtOne:
		w.emit(Inst{Op: OpChar, Ch: n.Ch})

	case NtNotone:
		w.emit(Inst{Op: OpNotChar, Ch: n.Ch})

	case NtSet:
		// compiled sets are read by concurrent scans and must not
		// mutate after this point
		n.Set.canonicalize()
		w.emit(Inst{Op: OpSet, Set: n.Set})

	case NtMulti:
		w.emit(Inst{Op: OpMulti, Str: n.Str})

	case NtOneloop, NtOnelazy:
		w.emit(Inst{Op: OpRepeatChar, Ch: n.Ch, M: n.M, N: n.N, Lazy: n.T == NtOnelazy})

	case NtNotoneloop, NtNotonelazy:
		w.emit(Inst{Op: OpRepeatNotChar, Ch: n.Ch, M: n.M, N: n.N, Lazy: n.T == NtNotonelazy})

	case NtSetloop, NtSetlazy:
		n.Set.canonicalize()
		w.emit(Inst{Op: OpRepeatSet, Set: n.Set, M: n.M, N: n.N, Lazy: n.T == NtSetlazy})

	case NtRef:
		w.emit(Inst{Op: OpRef, M: n.M, Fold: n.Options&IgnoreCase != 0})

	case NtBol:
		w.emit(Inst{Op: OpBol})

	case NtEol:
		w.emit(Inst{Op: OpEol})

	case NtBoundary:
		w.emit(Inst{Op: OpBoundary})

	case NtNonboundary:
		w.emit(Inst{Op: OpBoundary, Neg: true})

	case NtConcatenate:
		for _, child := range n.Children {
			if err := w.writeNode(child); err != nil {
				return err
			}
		}

	case NtAlternate:
		return w.writeAlternation(n)

	case NtCapture:
		w.emit(Inst{Op: OpSave, M: n.M * 2})
		if err := w.writeNode(n.Children[0]); err != nil {
			return err
		}
		w.emit(Inst{Op: OpSave, M: n.M*2 + 1})

	case NtGroup:
		// groups are stripped during reduction; tolerate one anyway
		if err := w.writeNode(n.Children[0]); err != nil {
			return err
		}

	case NtPosLook, NtNegLook:
		sub, err := w.writeSub(n.Children[0])
		if err != nil {
			return err
		}
		w.emit(Inst{Op: OpLook, Sub: sub, Neg: n.T == NtNegLook})

	case NtLoop, NtLazyloop:
		return w.writeLoop(n)

	default:
		return fmt.Errorf("unexpected node type in writer: %v", n.T)
	}

	return nil
}

// writeAlternation emits a split chain. Each branch but the last gets a
// split preferring it over the rest, so branches are tried left to right.
func (w *writer) writeAlternation(n *RegexNode) error {
	var jmps []int
	for i, child := range n.Children {
		if i == len(n.Children)-1 {
			if err := w.writeNode(child); err != nil {
				return err
			}
			break
		}
		split := w.emit(Inst{Op: OpSplit})
		w.insts[split].Out = w.here()
		if err := w.writeNode(child); err != nil {
			return err
		}
		jmps = append(jmps, w.emit(Inst{Op: OpJmp}))
		w.insts[split].Alt = w.here()
	}
	end := w.here()
	for _, j := range jmps {
		w.insts[j].Out = end
	}
	return nil
}

// writeSub compiles a subtree into its own program, for lookahead bodies.
// Capture slots and mark slots stay in the enclosing numbering so the sub
// program reads and writes the same attempt state.
func (w *writer) writeSub(n *RegexNode) ([]Inst, error) {
	saved := w.insts
	w.insts = nil
	err := w.writeNode(n)
	w.emit(Inst{Op: OpMatch})
	sub := w.insts
	w.insts = saved
	return sub, err
}

// writeLoop expands a quantified group. The minimum iterations are emitted
// as plain copies of the body. A bounded remainder becomes a chain of
// optional copies; an unbounded remainder becomes a split back-edge with a
// progress check. Body captures are cleared before each iteration so a
// group that matched in an earlier iteration but not the last reads as
// unset.
func (w *writer) writeLoop(n *RegexNode) error {
	lazy := n.T == NtLazyloop
	child := n.Children[0]

	lo, hi, hasCaps := child.CaptureRange()
	emitReset := func() {
		if hasCaps {
			w.emit(Inst{Op: OpReset, M: 2 * lo, N: 2*hi + 1})
		}
	}

	for i := 0; i < n.M; i++ {
		emitReset()
		if err := w.writeNode(child); err != nil {
			return err
		}
	}

	if n.N == math.MaxInt32 {
		mark := w.markslots
		w.markslots++

		start := w.here()
		split := w.emit(Inst{Op: OpSplit})
		body := w.here()
		emitReset()
		w.emit(Inst{Op: OpMark, M: mark})
		if err := w.writeNode(child); err != nil {
			return err
		}
		w.emit(Inst{Op: OpCheckMark, M: mark})
		w.emit(Inst{Op: OpJmp, Out: start})
		end := w.here()

		if lazy {
			w.insts[split].Out = end
			w.insts[split].Alt = body
		} else {
			w.insts[split].Out = body
			w.insts[split].Alt = end
		}
		return nil
	}

	var splits []int
	for i := n.M; i < n.N; i++ {
		splits = append(splits, w.emit(Inst{Op: OpSplit}))
		emitReset()
		if err := w.writeNode(child); err != nil {
			return err
		}
	}
	end := w.here()
	for _, s := range splits {
		if lazy {
			w.insts[s].Out = end
			w.insts[s].Alt = s + 1
		} else {
			w.insts[s].Out = s + 1
			w.insts[s].Alt = end
		}
	}
	return nil
}
