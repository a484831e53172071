package scan

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

// Quote returns s as a double-quoted JavaScript string literal. Control
// characters and every non-ASCII rune are written as \uXXXX escapes, so the
// result is plain ASCII.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r < 0x20 || r == 0x7f:
				writeU(&b, uint16(r))
			case r < utf8.RuneSelf:
				b.WriteRune(r)
			case r > 0xffff:
				hi, lo := utf16.EncodeRune(r)
				writeU(&b, uint16(hi))
				writeU(&b, uint16(lo))
			default:
				writeU(&b, uint16(r))
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

func writeU(b *strings.Builder, u uint16) {
	b.WriteString(`\u`)
	b.WriteByte(hexDigits[u>>12&0xf])
	b.WriteByte(hexDigits[u>>8&0xf])
	b.WriteByte(hexDigits[u>>4&0xf])
	b.WriteByte(hexDigits[u&0xf])
}

// Unquote decodes a single- or double-quoted JavaScript string literal.
func Unquote(lit string) (string, error) {
	lit = strings.TrimSpace(lit)
	if !IsStringLiteral(lit) {
		return "", ErrSyntax
	}
	return Unescape(lit[1 : len(lit)-1])
}

// Unescape decodes the escape sequences of a JavaScript string body.
// Unknown escapes yield the escaped character itself.
func Unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}

	var (
		b     strings.Builder
		units []uint16
	)
	flush := func() {
		if len(units) > 0 {
			b.WriteString(string(utf16.Decode(units)))
			units = units[:0]
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			flush()
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", ErrSyntax
		}
		switch c = s[i]; c {
		case 'n':
			flush()
			b.WriteByte('\n')
		case 'r':
			flush()
			b.WriteByte('\r')
		case 't':
			flush()
			b.WriteByte('\t')
		case 'b':
			flush()
			b.WriteByte('\b')
		case 'f':
			flush()
			b.WriteByte('\f')
		case 'v':
			flush()
			b.WriteByte('\v')
		case '0':
			flush()
			b.WriteByte(0)
		case 'x':
			if i+2 >= len(s) {
				return "", ErrSyntax
			}
			n, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return "", ErrSyntax
			}
			flush()
			b.WriteRune(rune(n))
			i += 2
		case 'u':
			if i+4 >= len(s) {
				return "", ErrSyntax
			}
			n, err := strconv.ParseUint(s[i+1:i+5], 16, 16)
			if err != nil {
				return "", ErrSyntax
			}
			// surrogate pairs arrive as two consecutive escapes
			units = append(units, uint16(n))
			i += 4
		case '\n':
			// line continuation
		default:
			flush()
			b.WriteByte(c)
		}
	}
	flush()
	return b.String(), nil
}
