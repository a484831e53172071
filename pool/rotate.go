package pool

import (
	"regexp"
	"strings"

	"github.com/YoshihikoAbe/jsdeob/scan"
)

var (
	// (function(a, b) {
	iifeRe = regexp.MustCompile(`\(\s*function\s*\(\s*[\w$]+\s*,\s*[\w$]+\s*\)\s*\{`)
	// while (--b)
	whileRe = regexp.MustCompile(`while\s*\(\s*--\s*[\w$]+\s*\)`)
	// a.push(a.shift()) or a['push'](a['shift']())
	pushRe  = regexp.MustCompile(`(?:\.\s*push|\[\s*['"]push['"]\s*\])\s*\(`)
	shiftRe = regexp.MustCompile(`(?:\.\s*shift|\[\s*['"]shift['"]\s*\])\s*\(\s*\)`)
)

// FindRotation looks for the self-invoking routine that moves the first
// element of the pool to its end N times and returns N. A routine invoked
// on name is preferred over any other.
func FindRotation(src, name string) (int, bool) {
	var (
		first int
		found bool
	)
	for _, m := range iifeRe.FindAllStringIndex(src, -1) {
		end := scan.MatchClose(src, m[1], '{', '}')
		if end < 0 {
			continue
		}
		body := src[m[1]:end]
		if !whileRe.MatchString(body) || !pushRe.MatchString(body) || !shiftRe.MatchString(body) {
			continue
		}

		arg, n, ok := invocation(src, end+1)
		if !ok {
			continue
		}
		if arg == name {
			return n, true
		}
		if !found {
			first, found = n, true
		}
	}
	return first, found
}

// invocation parses the "})(ARG, N)" or "}(ARG, N))" tail that follows the
// routine's body.
func invocation(src string, i int) (string, int, bool) {
	rest := strings.TrimLeft(src[i:], " \t\r\n")
	closed := strings.HasPrefix(rest, ")")
	if closed {
		rest = strings.TrimLeft(rest[1:], " \t\r\n")
	}
	if !strings.HasPrefix(rest, "(") {
		return "", 0, false
	}
	end := scan.MatchClose(rest, 1, '(', ')')
	if end < 0 {
		return "", 0, false
	}
	if !closed && !strings.HasPrefix(strings.TrimLeft(rest[end+1:], " \t\r\n"), ")") {
		return "", 0, false
	}

	args := scan.SplitArgs(rest[1:end])
	if len(args) != 2 {
		return "", 0, false
	}
	n, err := scan.ParseInt(args[1])
	if err != nil || n < 0 {
		return "", 0, false
	}
	return strings.TrimSpace(args[0]), n, true
}

// Rotate returns a copy of tokens rotated left by n positions. A negative n
// is treated as zero.
func Rotate(tokens []string, n int) []string {
	out := make([]string, 0, len(tokens))
	if len(tokens) == 0 {
		return out
	}
	if n < 0 {
		n = 0
	}
	n %= len(tokens)
	out = append(out, tokens[n:]...)
	return append(out, tokens[:n]...)
}
