// Package placeholder rewrites positional placeholders ({0}, {1}, ...) in a
// query template into parameter references.
//
// The grammar is lexical and ignores SQL quoting and comments:
//
//	{N}   reference to parameter N (decimal digits, leading zeros allowed)
//	{{    literal {
//	}}    literal }
//
// Any other use of a brace is malformed. Only the reference text produced by
// the caller's FormatFunc is ever written into the result, never a value.
package placeholder

import (
	"strconv"
	"strings"
)

// Token is one placeholder occurrence in a template.
type Token struct {
	Index int // referenced parameter
	Start int // byte offset of '{' in the template
	End   int // byte offset just past '}'
}

// Tokens lists occurrences in template order.
type Tokens []Token

// Indexes returns the referenced parameter index of every occurrence.
func (ts Tokens) Indexes() []int {
	idx := make([]int, len(ts))
	for i, t := range ts {
		idx[i] = t.Index
	}
	return idx
}

// FormatFunc renders the reference written in place of a token for
// parameter i named name, e.g. "@"+name or "$"+strconv.Itoa(i+1).
type FormatFunc func(i int, name string) string

// Result is a rewritten template.
type Result struct {
	Text        string
	Occurrences Tokens
}

type options struct {
	strict bool
}

// Option adjusts substitution.
type Option func(*options)

// Strict rejects parameters that no token references.
func Strict() Option {
	return func(o *options) { o.strict = true }
}

// Substitute replaces every {i} in template with format(i, names[i]). A nil
// format writes the bare name. Unused names are allowed unless Strict is
// given.
func Substitute(template string, names []string, format FormatFunc, opts ...Option) (Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if format == nil {
		format = func(_ int, name string) string { return name }
	}

	// Render each reference once; repeated tokens reuse it.
	refs := make([]string, len(names))
	for i, n := range names {
		refs[i] = format(i, n)
	}

	var b strings.Builder
	b.Grow(len(template) + 16*len(names))
	used := make([]bool, len(names))
	var occ Tokens

	err := walk(template,
		func(lit string) { b.WriteString(lit) },
		func(tok Token, raw string) error {
			if tok.Index < 0 || tok.Index >= len(names) {
				return &TokenError{
					Offset:  tok.Start,
					Raw:     raw,
					Index:   tok.Index,
					Count:   len(names),
					problem: problemOutOfRange,
				}
			}
			b.WriteString(refs[tok.Index])
			used[tok.Index] = true
			occ = append(occ, tok)
			return nil
		},
	)
	if err != nil {
		return Result{}, err
	}

	if o.strict {
		for i, u := range used {
			if !u {
				return Result{}, &TokenError{
					Offset:  -1,
					Index:   i,
					Count:   len(names),
					problem: problemUnused,
				}
			}
		}
	}

	return Result{Text: b.String(), Occurrences: occ}, nil
}

// Scan validates the template grammar and lists its tokens without
// checking them against a parameter count.
func Scan(template string) (Tokens, error) {
	var occ Tokens
	err := walk(template, func(string) {}, func(tok Token, _ string) error {
		occ = append(occ, tok)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return occ, nil
}

// walk drives lit with literal runs (escapes already folded) and ref with
// each well-formed token. Out-of-range indexes that do not fit an int are
// passed to ref as -1.
func walk(src string, lit func(string), ref func(Token, string) error) error {
	n := len(src)
	i := 0
	for i < n {
		j := strings.IndexAny(src[i:], "{}")
		if j < 0 {
			lit(src[i:])
			break
		}
		if j > 0 {
			lit(src[i : i+j])
			i += j
		}

		if i+1 < n && src[i+1] == src[i] {
			lit(src[i : i+1])
			i += 2
			continue
		}
		if src[i] == '}' {
			return malformed(src, i, "unmatched closing brace")
		}

		end, err := readToken(src, i)
		if err != nil {
			return err
		}
		idx, convErr := strconv.Atoi(src[i+1 : end-1])
		if convErr != nil {
			idx = -1
		}
		if err := ref(Token{Index: idx, Start: i, End: end}, src[i:end]); err != nil {
			return err
		}
		i = end
	}
	return nil
}

// readToken reads "{digits}" starting at the '{' at start and returns the
// offset just past the closing brace.
func readToken(src string, start int) (int, error) {
	j := start + 1
	for j < len(src) && src[j] >= '0' && src[j] <= '9' {
		j++
	}
	switch {
	case j == start+1 && j < len(src) && src[j] == '}':
		return 0, malformed(src, start, "empty placeholder")
	case j == start+1:
		return 0, malformed(src, start, "expected a parameter index")
	case j >= len(src):
		return 0, malformed(src, start, "unterminated placeholder")
	case src[j] != '}':
		return 0, malformed(src, start, "only bare indexes are allowed")
	}
	return j + 1, nil
}
