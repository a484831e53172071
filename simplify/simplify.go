// Package simplify removes syntactic noise left behind once strings and
// operators have been inlined. Every pass is idempotent.
package simplify

import (
	"github.com/dlclark/regexp2"
)

var (
	// a ? a : b
	//
	// The left context keeps the ternary's condition from being the tail
	// of a longer expression, and the right context keeps b from being the
	// condition of another ternary or the target of an assignment.
	ternaryRe = regexp2.MustCompile(
		`(?<=(?:^|[(,;{}\[?:]|[^=!<>]=|\breturn)\s*)`+
			`([A-Za-z_$][\w$]*)\s*\?\s*\1(?![\w$])\s*:\s*([A-Za-z_$][\w$]*)`+
			`(?![\w$]|\s*(?:\?|=(?!=)))`,
		regexp2.Multiline)

	// o["key"], o['key']
	bracketRe = regexp2.MustCompile(
		`(?<=[\w$)\]])\[\s*(?:"([A-Za-z_][A-Za-z0-9_]*)"|'([A-Za-z_][A-Za-z0-9_]*)')\s*\]`,
		regexp2.None)
)

// Ternaries rewrites "x ? x : y" to "x || y".
func Ternaries(src string) string {
	out, err := ternaryRe.Replace(src, "$1 || $2", -1, -1)
	if err != nil {
		return src
	}
	return out
}

// DotNotation rewrites o["key"] to o.key when key is a plain identifier.
func DotNotation(src string) string {
	out, err := bracketRe.ReplaceFunc(src, func(m regexp2.Match) string {
		if g := m.GroupByNumber(1); g.Length > 0 {
			return "." + g.String()
		}
		return "." + m.GroupByNumber(2).String()
	}, -1, -1)
	if err != nil {
		return src
	}
	return out
}

// All runs every pass.
func All(src string) string {
	return DotNotation(Ternaries(src))
}
