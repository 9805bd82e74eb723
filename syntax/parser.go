package syntax

import (
	"fmt"
	"math"
)

// MaxRepeatCount bounds explicit {m,n} quantifiers, matching the limit the
// standard library's regexp applies.
const MaxRepeatCount = 1000

type ErrorCode string

const (
	ErrIllegalEndEscape     ErrorCode = "illegal \\ at end of pattern"
	ErrUnterminatedBracket  ErrorCode = "unterminated [] set"
	ErrInvalidRepeatSize    ErrorCode = "illegal {x,y} with x > y"
	ErrRepeatTooLarge       ErrorCode = "repeat count exceeds 1000"
	ErrNothingToRepeat      ErrorCode = "quantifier following nothing"
	ErrNotEnoughParens      ErrorCode = "not enough )'s"
	ErrTooManyParens        ErrorCode = "too many )'s"
	ErrUnrecognizedGrouping ErrorCode = "unrecognized grouping construct: (%v"
	ErrUnrecognizedEscape   ErrorCode = "unrecognized escape sequence \\%v"
	ErrUndefinedBackRef     ErrorCode = "reference to undefined group number %v"
	ErrReversedCharRange    ErrorCode = "[x-y] range in reverse order"
	ErrTooFewHex            ErrorCode = "insufficient hexadecimal digits"
)

// Error is the only error type surfaced from compilation. It carries the
// offending pattern so diagnostics stay readable when patterns are built up
// programmatically.
type Error struct {
	Code ErrorCode
	Expr string
	Args []interface{}
}

func (e *Error) Error() string {
	if len(e.Args) == 0 {
		return fmt.Sprintf("error parsing regexp: %v in `%v`", string(e.Code), e.Expr)
	}
	return fmt.Sprintf("error parsing regexp: %v in `%v`", fmt.Sprintf(string(e.Code), e.Args...), e.Expr)
}

type parser struct {
	pattern []rune
	pos     int
	options RegexOptions
	captop  int // total capturing groups, from the prepass
	capnum  int // capturing groups opened so far
	expr    string
}

// Parse converts a pattern string into a RegexTree or an *Error. The
// grammar is the commonly supported JavaScript subset: literals, escapes,
// character classes, anchors, greedy and lazy quantifiers, capturing and
// non-capturing groups, lookahead, backreferences \1..\9 and alternation.
func Parse(re string, op RegexOptions) (*RegexTree, error) {
	p := parser{
		pattern: []rune(re),
		options: op,
		expr:    re,
	}
	p.countCaptures()

	root, err := p.scanAlternation()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.pattern) {
		// scanAlternation only stops early on an unopened ')'
		return nil, p.makeError(ErrTooManyParens)
	}

	return &RegexTree{
		Root:    root.reduce(),
		Captop:  p.captop,
		Options: op,
	}, nil
}

func (p *parser) makeError(code ErrorCode, args ...interface{}) *Error {
	return &Error{Code: code, Expr: p.expr, Args: args}
}

// countCaptures assigns the capture-group count before the real scan so that
// backreferences can be validated in a single pass.
func (p *parser) countCaptures() {
	inClass := false
	for i := 0; i < len(p.pattern); i++ {
		switch p.pattern[i] {
		case '\\':
			i++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '(':
			if !inClass && (i+1 >= len(p.pattern) || p.pattern[i+1] != '?') {
				p.captop++
			}
		}
	}
}

func (p *parser) done() bool {
	return p.pos >= len(p.pattern)
}

func (p *parser) cur() rune {
	return p.pattern[p.pos]
}

func (p *parser) scanAlternation() (*RegexNode, error) {
	alt := newRegexNode(NtAlternate, p.options)
	for {
		concat, err := p.scanConcatenation()
		if err != nil {
			return nil, err
		}
		alt.addChild(concat)

		if !p.done() && p.cur() == '|' {
			p.pos++
			continue
		}
		break
	}
	return alt, nil
}

func (p *parser) scanConcatenation() (*RegexNode, error) {
	concat := newRegexNode(NtConcatenate, p.options)
	for !p.done() && p.cur() != '|' && p.cur() != ')' {
		atom, quantifiable, err := p.scanAtom()
		if err != nil {
			return nil, err
		}
		node, err := p.scanQuantifier(atom, quantifiable)
		if err != nil {
			return nil, err
		}
		concat.addChild(node)
	}
	return concat, nil
}

func (p *parser) scanAtom() (node *RegexNode, quantifiable bool, err error) {
	switch ch := p.cur(); ch {
	case '(':
		return p.scanGroup()

	case '[':
		p.pos++
		set, err := p.scanCharSet()
		if err != nil {
			return nil, false, err
		}
		return newRegexNodeSet(NtSet, p.options, set), true, nil

	case '\\':
		p.pos++
		return p.scanBackslash()

	case '^':
		p.pos++
		return newRegexNode(NtBol, p.options), false, nil

	case '$':
		p.pos++
		return newRegexNode(NtEol, p.options), false, nil

	case '.':
		p.pos++
		return newRegexNodeSet(NtSet, p.options, newAnyClass()), true, nil

	case '*', '+', '?':
		return nil, false, p.makeError(ErrNothingToRepeat)

	default:
		p.pos++
		return newRegexNodeCh(NtOne, p.options, ch), true, nil
	}
}

func (p *parser) scanGroup() (node *RegexNode, quantifiable bool, err error) {
	p.pos++ // '('

	t := NtCapture
	capnum := 0
	if !p.done() && p.cur() == '?' {
		p.pos++
		if p.done() {
			return nil, false, p.makeError(ErrUnrecognizedGrouping, "?")
		}
		switch p.cur() {
		case ':':
			t = NtGroup
		case '=':
			t = NtPosLook
		case '!':
			t = NtNegLook
		default:
			return nil, false, p.makeError(ErrUnrecognizedGrouping, "?"+string(p.cur()))
		}
		p.pos++
	} else {
		p.capnum++
		capnum = p.capnum
	}

	body, err := p.scanAlternation()
	if err != nil {
		return nil, false, err
	}
	if p.done() || p.cur() != ')' {
		return nil, false, p.makeError(ErrNotEnoughParens)
	}
	p.pos++ // ')'

	group := newRegexNodeM(t, p.options, capnum)
	group.addChild(body)

	// Lookaheads are zero-width; quantifying them is rejected rather than
	// silently ignored.
	return group, t == NtCapture || t == NtGroup, nil
}

// scanQuantifier applies a trailing *, +, ?, or {m,n} (with optional lazy ?)
// to the atom. A '{' that doesn't form a valid quantifier is left alone to
// be scanned as a literal.
func (p *parser) scanQuantifier(atom *RegexNode, quantifiable bool) (*RegexNode, error) {
	if p.done() {
		return atom, nil
	}

	min, max := 0, 0
	switch p.cur() {
	case '*':
		min, max = 0, math.MaxInt32
	case '+':
		min, max = 1, math.MaxInt32
	case '?':
		min, max = 0, 1
	case '{':
		var ok bool
		var err error
		min, max, ok, err = p.scanRepeat()
		if err != nil {
			return nil, err
		}
		if !ok {
			return atom, nil
		}
		p.pos-- // shared bump below
	default:
		return atom, nil
	}
	p.pos++

	if !quantifiable {
		return nil, p.makeError(ErrNothingToRepeat)
	}

	lazy := false
	if !p.done() && p.cur() == '?' {
		lazy = true
		p.pos++
	}

	return atom.makeQuantifier(lazy, min, max), nil
}

// scanRepeat parses {m}, {m,} or {m,n} starting at '{'. ok=false means the
// brace sequence isn't a quantifier at all and should be read literally.
func (p *parser) scanRepeat() (min, max int, ok bool, err error) {
	start := p.pos
	p.pos++ // '{'

	min, found := p.scanDecimal()
	if !found {
		p.pos = start
		return 0, 0, false, nil
	}

	max = min
	if !p.done() && p.cur() == ',' {
		p.pos++
		max, found = p.scanDecimal()
		if !found {
			max = math.MaxInt32
		}
	}

	if p.done() || p.cur() != '}' {
		p.pos = start
		return 0, 0, false, nil
	}
	p.pos++ // '}'

	if min > MaxRepeatCount || (max != math.MaxInt32 && max > MaxRepeatCount) {
		return 0, 0, false, p.makeError(ErrRepeatTooLarge)
	}
	if min > max {
		return 0, 0, false, p.makeError(ErrInvalidRepeatSize)
	}
	return min, max, true, nil
}

func (p *parser) scanDecimal() (int, bool) {
	found := false
	n := 0
	for !p.done() && p.cur() >= '0' && p.cur() <= '9' {
		found = true
		if n < math.MaxInt32/10 {
			n = n*10 + int(p.cur()-'0')
		}
		p.pos++
	}
	return n, found
}

func (p *parser) scanBackslash() (node *RegexNode, quantifiable bool, err error) {
	if p.done() {
		return nil, false, p.makeError(ErrIllegalEndEscape)
	}

	ch := p.cur()
	p.pos++
	switch ch {
	case 'd', 'D':
		return newRegexNodeSet(NtSet, p.options, newDigitClass(ch == 'D')), true, nil
	case 'w', 'W':
		return newRegexNodeSet(NtSet, p.options, newWordClass(ch == 'W')), true, nil
	case 's', 'S':
		return newRegexNodeSet(NtSet, p.options, newSpaceClass(ch == 'S')), true, nil

	case 'b':
		return newRegexNode(NtBoundary, p.options), false, nil
	case 'B':
		return newRegexNode(NtNonboundary, p.options), false, nil

	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		num := int(ch - '0')
		if num > p.captop {
			return nil, false, p.makeError(ErrUndefinedBackRef, num)
		}
		return newRegexNodeM(NtRef, p.options, num), true, nil

	default:
		r, err := p.scanCharEscape(ch)
		if err != nil {
			return nil, false, err
		}
		return newRegexNodeCh(NtOne, p.options, r), true, nil
	}
}

// scanCharEscape resolves an escape that stands for a single character. The
// leading backslash and ch itself have been consumed.
func (p *parser) scanCharEscape(ch rune) (rune, error) {
	switch ch {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case 'f':
		return '\f', nil
	case 'v':
		return '\v', nil
	case '0':
		return 0, nil
	case 'x':
		return p.scanHex(2)
	case 'u':
		return p.scanHex(4)
	}

	// identity escape: any non-word character may be escaped
	if !IsWordChar(ch) {
		return ch, nil
	}
	return 0, p.makeError(ErrUnrecognizedEscape, string(ch))
}

func (p *parser) scanHex(c int) (rune, error) {
	if p.pos+c > len(p.pattern) {
		return 0, p.makeError(ErrTooFewHex)
	}
	i := rune(0)
	for ; c > 0; c-- {
		d := hexDigit(p.cur())
		if d < 0 {
			return 0, p.makeError(ErrTooFewHex)
		}
		i = i*0x10 + d
		p.pos++
	}
	return i, nil
}

func hexDigit(ch rune) rune {
	if d := ch - '0'; d >= 0 && d <= 9 {
		return d
	}
	if d := ch - 'a'; d >= 0 && d <= 5 {
		return d + 0xa
	}
	if d := ch - 'A'; d >= 0 && d <= 5 {
		return d + 0xa
	}
	return -1
}

// scanCharSet parses a bracket expression; the '[' has been consumed.
func (p *parser) scanCharSet() (*CharSet, error) {
	set := &CharSet{}

	if !p.done() && p.cur() == '^' {
		set.negateSet()
		p.pos++
	}

	for {
		if p.done() {
			return nil, p.makeError(ErrUnterminatedBracket)
		}
		if p.cur() == ']' {
			p.pos++
			return set, nil
		}

		lo, isClass, err := p.scanClassAtom(set)
		if err != nil {
			return nil, err
		}

		// a range needs single chars on both ends; [\d-x] treats '-' literally
		if isClass || p.done() || p.cur() != '-' {
			continue
		}
		if p.pos+1 < len(p.pattern) && p.pattern[p.pos+1] == ']' {
			continue // trailing '-' is a literal
		}

		p.pos++ // '-'
		hi, hiClass, err := p.scanClassAtom(set)
		if err != nil {
			return nil, err
		}
		if hiClass {
			// the class escape added its own ranges; keep '-' and lo literal
			set.addChar(lo)
			set.addChar('-')
			continue
		}
		if lo > hi {
			return nil, p.makeError(ErrReversedCharRange)
		}
		// lo and hi were added as singletons; the range subsumes them
		set.addRange(lo, hi)
	}
}

// scanClassAtom parses one element of a bracket expression and adds it to
// the set. isClass reports that the element was a class escape (\d etc.)
// rather than a single character.
func (p *parser) scanClassAtom(set *CharSet) (r rune, isClass bool, err error) {
	ch := p.cur()
	p.pos++

	if ch != '\\' {
		set.addChar(ch)
		return ch, false, nil
	}

	if p.done() {
		return 0, false, p.makeError(ErrIllegalEndEscape)
	}
	esc := p.cur()
	p.pos++
	switch esc {
	case 'd':
		set.addSet(*newDigitClass(false))
		return 0, true, nil
	case 'D':
		set.addNegatedRanges(digitRanges)
		return 0, true, nil
	case 'w':
		set.addSet(*newWordClass(false))
		return 0, true, nil
	case 'W':
		set.addNegatedRanges(wordRanges)
		return 0, true, nil
	case 's':
		set.addSet(*newSpaceClass(false))
		return 0, true, nil
	case 'S':
		set.addNegatedRanges(spaceRanges)
		return 0, true, nil
	case 'b':
		// inside a class \b is backspace
		set.addChar('\b')
		return '\b', false, nil
	}

	r, err = p.scanCharEscape(esc)
	if err != nil {
		return 0, false, err
	}
	set.addChar(r)
	return r, false, nil
}
