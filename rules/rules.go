// Package rules recovers the request-signing constants embedded in an
// obfuscated script. Every field is found by an independent heuristic over
// the unmodified source and may be missing.
package rules

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/YoshihikoAbe/jsdeob/scan"
)

// RemovedHeader is the one header the signing routine always drops.
const RemovedHeader = "user_id"

// ChecksumModulus is the modulus a checksum index expression must use.
const ChecksumModulus = 40

type Rules struct {
	Start            *string  `json:"start"`
	End              *string  `json:"end"`
	Format           *string  `json:"format"`
	Prefix           *string  `json:"prefix"`
	Suffix           *string  `json:"suffix"`
	StaticParam      *string  `json:"static_param"`
	RemoveHeaders    []string `json:"remove_headers"`
	ChecksumIndexes  []int    `json:"checksum_indexes"`
	ChecksumConstant int64    `json:"checksum_constant"`
}

var (
	// [ "a", "b" ]
	arrayRe = regexp.MustCompile(`\[\s*([^\]]+?)\s*\]`)
	// x + 12, x - 12
	constantRe = regexp.MustCompile(`(\w+)\s*([+\-%])\s*(\d+)`)
	// 123 % 40
	indexRe = regexp.MustCompile(`(\d+)\s*%\s*(\d+)`)
)

// Extract runs every heuristic over src.
func Extract(src string) *Rules {
	r := &Rules{
		RemoveHeaders:   []string{RemovedHeader},
		ChecksumIndexes: []int{},
	}

	for _, m := range arrayRe.FindAllStringSubmatch(src, -1) {
		elems := scan.StringLiterals(m[1])
		if len(elems) == 0 {
			continue
		}
		first, last := elems[0], elems[len(elems)-1]
		if r.StaticParam == nil && len(first) == 32 {
			r.StaticParam = str(first)
		}
		if r.Prefix == nil && isDigits(first) {
			r.Prefix = str(first)
		}
		if r.Suffix == nil && isHex(last) {
			r.Suffix = str(last)
		}
	}

	for _, m := range constantRe.FindAllStringSubmatch(src, -1) {
		n, err := strconv.ParseInt(m[3], 10, 64)
		if err != nil {
			continue
		}
		switch m[2] {
		case "+":
			if r.ChecksumConstant > math.MaxInt64-n {
				continue
			}
			r.ChecksumConstant += n
		case "-":
			if r.ChecksumConstant < math.MinInt64+n {
				continue
			}
			r.ChecksumConstant -= n
		}
	}

	seen := make(map[int]bool)
	for _, m := range indexRe.FindAllStringSubmatch(src, -1) {
		if mod, err := strconv.Atoi(m[2]); err != nil || mod != ChecksumModulus {
			continue
		}
		if i := modDigits(m[1], ChecksumModulus); !seen[i] {
			seen[i] = true
			r.ChecksumIndexes = append(r.ChecksumIndexes, i)
		}
	}
	sort.Ints(r.ChecksumIndexes)

	r.Start = copyStr(r.Prefix)
	r.End = copyStr(r.Suffix)
	if r.Prefix != nil && r.Suffix != nil {
		r.Format = str(*r.Prefix + ":{}:{:x}:" + *r.Suffix)
	}
	return r
}

// Missing names the required fields no heuristic matched.
func (r *Rules) Missing() []string {
	var out []string
	if r.Prefix == nil {
		out = append(out, "prefix")
	}
	if r.Suffix == nil {
		out = append(out, "suffix")
	}
	if r.StaticParam == nil {
		out = append(out, "static_param")
	}
	return out
}

func str(s string) *string {
	return &s
}

func copyStr(s *string) *string {
	if s == nil {
		return nil
	}
	return str(*s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isHex accepts what a lenient integer parser does in base 16: an optional
// sign, an optional 0x prefix and underscores between digits.
func isHex(s string) bool {
	s = strings.TrimSpace(s)
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = strings.TrimPrefix(s[2:], "_")
	}
	if s == "" || s[0] == '_' || s[len(s)-1] == '_' || strings.Contains(s, "__") {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '_':
		case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// modDigits reduces a decimal string of any length modulo m.
func modDigits(digits string, m int) int {
	n := 0
	for i := 0; i < len(digits); i++ {
		n = (n*10 + int(digits[i]-'0')) % m
	}
	return n
}
