package opmap

import (
	"regexp"
	"strings"

	"github.com/YoshihikoAbe/jsdeob/scan"
)

// useRe matches m.key, m["key"] and m['key'] for the map's name.
func (m *Map) useRe() *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^\w$.])(` + regexp.QuoteMeta(m.Name) + `)\s*(?:\.\s*([\w$]+)|\[\s*("(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*')\s*\])`)
}

// Rewrite inlines every use of the map in src and reports how many uses
// were replaced. Binary entries are only inlined when called with exactly
// two arguments; string constants only in bracket form.
func (m *Map) Rewrite(src string) (string, int) {
	if m == nil || m.Entries == nil {
		return src, 0
	}
	return m.rewrite(src, m.useRe())
}

func (m *Map) rewrite(src string, re *regexp.Regexp) (string, int) {
	var (
		b      strings.Builder
		count  int
		cursor int
	)
	for _, loc := range re.FindAllStringSubmatchIndex(src, -1) {
		start, end := loc[2], loc[1]
		if start < cursor {
			continue
		}

		var (
			key     string
			bracket bool
		)
		if loc[4] >= 0 {
			key = src[loc[4]:loc[5]]
		} else {
			k, err := scan.Unquote(src[loc[6]:loc[7]])
			if err != nil {
				continue
			}
			key, bracket = k, true
		}
		e, ok := m.Lookup(key)
		if !ok {
			continue
		}

		switch e.Kind {
		case StringConstant:
			if !bracket {
				continue
			}
			b.WriteString(src[cursor:start])
			b.WriteString(scan.Quote(e.Value))
			cursor = end
			count++

		case Binary:
			lparen := end + len(src[end:]) - len(strings.TrimLeft(src[end:], " \t\r\n"))
			if lparen >= len(src) || src[lparen] != '(' {
				continue
			}
			rparen := scan.MatchClose(src, lparen+1, '(', ')')
			if rparen < 0 {
				continue
			}

			inner, n := m.rewrite(src[lparen+1:rparen], re)
			count += n
			b.WriteString(src[cursor:start])
			if args := scan.SplitArgs(inner); len(args) == 2 {
				b.WriteString("(" + strings.TrimSpace(args[0]) + " " + e.Symbol + " " + strings.TrimSpace(args[1]) + ")")
				count++
			} else {
				b.WriteString(src[start:lparen+1] + inner + ")")
			}
			cursor = rparen + 1
		}
	}
	if cursor == 0 {
		return src, count
	}
	b.WriteString(src[cursor:])
	return b.String(), count
}
