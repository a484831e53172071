// Package scan implements the delimiter-aware text scanning shared by the
// extractors. It stands in for a real JavaScript lexer: it knows about
// brackets and string literals and nothing else.
package scan

import (
	"strconv"
	"strings"
)

type scanError string

func (e scanError) Error() string {
	return "jsdeob/scan: " + string(e)
}

// ErrSyntax is returned when a literal cannot be parsed.
const ErrSyntax = scanError("invalid literal")

// MatchClose returns the offset of the delimiter that closes the one opened
// just before start, or -1 if the text ends first. Nested open/close pairs
// are counted and delimiters inside string literals are ignored.
func MatchClose(src string, start int, open, close byte) int {
	if start < 0 {
		return -1
	}
	depth := 1
	for i := start; i < len(src); i++ {
		switch c := src[i]; c {
		case '"', '\'', '`':
			end := skipString(src, i)
			if end < 0 {
				return -1
			}
			i = end
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// StringEnd returns the offset of the quote that terminates the literal
// starting at src[i], or -1 if it is unterminated.
func StringEnd(src string, i int) int {
	return skipString(src, i)
}

func skipString(src string, i int) int {
	quote := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return -1
}

// SplitArgs splits an argument list at the commas that are not nested
// inside brackets, braces, parentheses or string literals. The pieces are
// returned verbatim. An empty or blank list yields no arguments.
func SplitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var (
		args  []string
		depth int
		last  int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\'', '`':
			end := skipString(s, i)
			if end < 0 {
				return append(args, s[last:])
			}
			i = end
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, s[last:i])
				last = i + 1
			}
		}
	}
	return append(args, s[last:])
}

// StringLiterals returns the raw contents of every double-quoted literal in
// body, in order. Escape sequences are left as written.
func StringLiterals(body string) []string {
	var out []string
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '"':
			end := skipString(body, i)
			if end < 0 {
				return out
			}
			out = append(out, body[i+1:end])
			i = end
		case '\'', '`':
			// single-quoted and template literals may contain '"'
			end := skipString(body, i)
			if end < 0 {
				return out
			}
			i = end
		}
	}
	return out
}

// IsIdent reports whether s can be written as a bare property name: a letter
// or underscore followed by letters, digits or underscores.
func IsIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && '0' <= c && c <= '9':
		default:
			return false
		}
	}
	return true
}

// IsStringLiteral reports whether s, once trimmed, is a single complete
// single- or double-quoted literal.
func IsStringLiteral(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 2 || (s[0] != '"' && s[0] != '\'') {
		return false
	}
	return skipString(s, 0) == len(s)-1
}

// ParseInt parses a decimal or 0x-prefixed hexadecimal integer literal with
// an optional sign. Surrounding whitespace is ignored, as is whitespace
// between the sign and the digits.
func ParseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = strings.TrimSpace(s[1:])
	}
	if s == "" || s[0] == '-' || s[0] == '+' {
		return 0, ErrSyntax
	}

	var (
		n   int64
		err error
	)
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		if c := s[2]; c == '-' || c == '+' {
			return 0, ErrSyntax
		}
		n, err = strconv.ParseInt(s[2:], 16, 64)
	} else {
		n, err = strconv.ParseInt(s, 10, 64)
	}
	if err != nil {
		return 0, ErrSyntax
	}
	if neg {
		n = -n
	}
	return int(n), nil
}
