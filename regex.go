/*
Package regex matches JavaScript-flavored regular expressions against
strings.

A pattern is compiled once with FromString (or FromStringWith to set
options) and the resulting Regexp is safe for concurrent use. Four
operations cover the common uses: Contains answers whether the pattern
matches anywhere, Find collects matches with their captured groups, Split
cuts the input at matches, and Replace rewrites matches through a callback.
Each of Find, Split and Replace takes a Count bounding how many matches it
may consume; pass All for no bound.

Positions and lengths are in runes, not bytes, so an index from a Match can
be compared against the rune count of a prefix regardless of encoding.

The matcher backtracks, which means nested or overlapping quantifiers such
as (a+)+ can take exponential time on inputs that nearly match. Prefer
unambiguous patterns when the input is untrusted.
*/
package regex

import (
	"fmt"
	"strings"
	"sync"

	"github.com/elm/regex/syntax"
)

// Options selects matching behavior for a compiled pattern.
type Options struct {
	// CaseInsensitive makes literals and character classes match their
	// simple case foldings, so /abc/ matches "ABC".
	CaseInsensitive bool

	// Multiline makes ^ and $ also match at line breaks rather than only
	// at the start and end of the input.
	Multiline bool
}

// Count bounds how many matches an operation may use. The zero value
// (also available as All) means unbounded.
type Count struct {
	limited bool
	n       int
}

// All places no bound on the number of matches.
var All = Count{}

// AtMost bounds an operation to the first n matches. Negative n is
// treated as 0.
func AtMost(n int) Count {
	if n < 0 {
		n = 0
	}
	return Count{limited: true, n: n}
}

// Regexp is the representation of a compiled pattern. It holds no
// per-match state and can be shared between goroutines.
type Regexp struct {
	pattern string
	options Options

	code *syntax.Code

	// one idle runner is cached between calls
	mu     sync.Mutex
	runner *runner

	prefilter prefilter
}

// FromString compiles a pattern with default options: case-sensitive,
// with ^ and $ anchored to the whole input.
func FromString(pattern string) (*Regexp, error) {
	return FromStringWith(pattern, Options{})
}

// FromStringWith compiles a pattern with the given options.
func FromStringWith(pattern string, options Options) (*Regexp, error) {
	var opts syntax.RegexOptions
	if options.CaseInsensitive {
		opts |= syntax.IgnoreCase
	}
	if options.Multiline {
		opts |= syntax.Multiline
	}

	tree, err := syntax.Parse(pattern, opts)
	if err != nil {
		return nil, err
	}

	code, err := syntax.Write(tree)
	if err != nil {
		return nil, err
	}

	re := &Regexp{
		pattern: pattern,
		options: options,
		code:    code,
	}
	re.prefilter, err = newPrefilter(tree)
	if err != nil {
		return nil, err
	}
	return re, nil
}

// MustCompile is like FromStringWith but panics on a malformed pattern.
// It simplifies initialization of package-level patterns.
func MustCompile(pattern string, options Options) *Regexp {
	re, err := FromStringWith(pattern, options)
	if err != nil {
		panic(`regex: FromStringWith(` + quote(pattern) + `): ` + err.Error())
	}
	return re
}

// String returns the source pattern.
func (re *Regexp) String() string {
	return re.pattern
}

// GroupCount returns the number of capturing groups in the pattern, which
// is the length of the Submatches slice of every Match it produces.
func (re *Regexp) GroupCount() int {
	return re.code.Captop
}

func (re *Regexp) getRunner() *runner {
	re.mu.Lock()
	defer re.mu.Unlock()
	if re.runner != nil {
		r := re.runner
		re.runner = nil
		return r
	}
	return newRunner(re.code)
}

func (re *Regexp) putRunner(r *runner) {
	r.runes = nil
	re.mu.Lock()
	re.runner = r
	re.mu.Unlock()
}

// Escape returns a pattern that matches the input literally, with every
// metacharacter backslash-escaped.
func Escape(input string) string {
	b := &strings.Builder{}
	for _, ch := range input {
		switch ch {
		case '\\', '^', '$', '.', '|', '?', '*', '+', '(', ')', '[', ']', '{', '}':
			b.WriteRune('\\')
			b.WriteRune(ch)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\f':
			b.WriteString(`\f`)
		default:
			b.WriteRune(ch)
		}
	}
	return b.String()
}

func quote(s string) string {
	if strings.ContainsRune(s, '`') {
		return fmt.Sprintf("%q", s)
	}
	return "`" + s + "`"
}
