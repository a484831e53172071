// Package pool locates the encoded string pool of an obfuscated script and
// recovers the order its rotation routine leaves it in.
package pool

import (
	"regexp"

	"github.com/YoshihikoAbe/jsdeob/scan"
)

type poolError string

func (e poolError) Error() string {
	return "jsdeob/pool: " + string(e)
}

// ErrNotFound is returned when the source declares no array of string
// literals.
const ErrNotFound = poolError("string pool not found")

// const I = [
var declRe = regexp.MustCompile(`\b(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*\[`)

type Pool struct {
	// Name is the identifier the pool is declared under.
	Name string
	// Tokens holds the encoded entries in declaration order.
	Tokens []string
	// Start and End bound the array body in the source.
	Start, End int
}

func (p *Pool) Len() int {
	return len(p.Tokens)
}

// Token returns the entry at i, or false if i is out of range.
func (p *Pool) Token(i int) (string, bool) {
	if i < 0 || i >= len(p.Tokens) {
		return "", false
	}
	return p.Tokens[i], true
}

// Extract returns the first array declaration that holds at least one
// double-quoted literal.
func Extract(src string) (*Pool, error) {
	for _, m := range declRe.FindAllStringSubmatchIndex(src, -1) {
		start := m[1]
		end := scan.MatchClose(src, start, '[', ']')
		if end < 0 {
			continue
		}
		tokens := scan.StringLiterals(src[start:end])
		if len(tokens) == 0 {
			continue
		}
		return &Pool{
			Name:   src[m[2]:m[3]],
			Tokens: tokens,
			Start:  start,
			End:    end,
		}, nil
	}
	return nil, ErrNotFound
}
