// Package chain recovers the wrapper functions that forward decrypt calls
// to the pool accessor and resolves the pool index a call ends up reading.
//
// A wrapper looks like
//
//	function u(W, n) { return f(n - -882, W); }
//
// and contributes the offset -882 on its way to the delegate f.
package chain

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/YoshihikoAbe/jsdeob/scan"
)

type chainError string

func (e chainError) Error() string {
	return "jsdeob/chain: " + string(e)
}

// ErrUnresolved is returned when resolution does not leave the chain within
// as many hops as there are entries.
const ErrUnresolved = chainError("index unresolved")

// DefaultBias is subtracted from the raw index of every decrypt call before
// wrapper offsets are applied.
const DefaultBias = 410

var (
	// function u(W, n) {
	funcRe = regexp.MustCompile(`\bfunction\s+([\w$]+)\s*\(\s*([\w$]+)\s*,\s*([\w$]+)\s*\)\s*\{`)
	// return f(
	returnRe = regexp.MustCompile(`^\s*return\s+([\w$]+)\s*\(`)
	// n - -882
	offsetRe = regexp.MustCompile(`^\s*([\w$]+)\s*([-+])\s*(-?\s*(?:0[xX][0-9a-fA-F]+|\d+))\s*$`)
	// W = W - 410
	biasRe = regexp2.MustCompile(`(?<![\w$.])([\w$]+)\s*=\s*\1\s*-\s*(0[xX][0-9a-fA-F]+|\d+)`, regexp2.None)
)

type Entry struct {
	Name     string `json:"name"`
	Delegate string `json:"delegate"`
	Offset   int    `json:"offset"`
}

// Chain holds wrapper entries in declaration order with a name index over
// them.
type Chain struct {
	entries []Entry
	index   map[string]int
}

func New() *Chain {
	return &Chain{index: make(map[string]int)}
}

// Add stores e, replacing any earlier entry with the same name in place.
func (c *Chain) Add(e Entry) {
	if i, ok := c.index[e.Name]; ok {
		c.entries[i] = e
		return
	}
	c.index[e.Name] = len(c.entries)
	c.entries = append(c.entries, e)
}

func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

func (c *Chain) Entries() []Entry {
	if c == nil {
		return nil
	}
	return append([]Entry(nil), c.entries...)
}

func (c *Chain) Lookup(name string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	i, ok := c.index[name]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Terminals returns the delegates that are not themselves wrappers, in the
// order they first appear.
func (c *Chain) Terminals() []string {
	if c == nil {
		return nil
	}
	var (
		out  []string
		seen = make(map[string]bool)
	)
	for _, e := range c.entries {
		if _, ok := c.index[e.Delegate]; ok || e.Delegate == "" || seen[e.Delegate] {
			continue
		}
		seen[e.Delegate] = true
		out = append(out, e.Delegate)
	}
	return out
}

// Resolve computes the pool index read by a call to name with the given raw
// index argument.
func (c *Chain) Resolve(name string, raw, bias int) (int, error) {
	index := raw - bias
	if c == nil {
		return index, nil
	}
	for hops := 0; ; hops++ {
		i, ok := c.index[name]
		if !ok {
			return index, nil
		}
		if hops == len(c.entries) {
			return 0, ErrUnresolved
		}
		e := c.entries[i]
		index -= e.Offset
		name = e.Delegate
	}
}

// Extract collects every two-parameter function whose body only forwards
// one parameter, shifted by a literal, to another function.
func Extract(src string) *Chain {
	c := New()
	for _, m := range funcRe.FindAllStringSubmatchIndex(src, -1) {
		end := scan.MatchClose(src, m[1], '{', '}')
		if end < 0 {
			continue
		}
		params := [2]string{src[m[4]:m[5]], src[m[6]:m[7]]}
		if e, ok := parseWrapper(src[m[1]:end], params); ok {
			e.Name = src[m[2]:m[3]]
			c.Add(e)
		}
	}
	return c
}

func parseWrapper(body string, params [2]string) (Entry, bool) {
	m := returnRe.FindStringSubmatchIndex(body)
	if m == nil {
		return Entry{}, false
	}
	end := scan.MatchClose(body, m[1], '(', ')')
	if end < 0 {
		return Entry{}, false
	}
	for _, arg := range scan.SplitArgs(body[m[1]:end]) {
		sm := offsetRe.FindStringSubmatch(arg)
		if sm == nil || (sm[1] != params[0] && sm[1] != params[1]) {
			continue
		}
		n, err := scan.ParseInt(sm[3])
		if err != nil {
			return Entry{}, false
		}
		if sm[2] == "+" {
			n = -n
		}
		return Entry{
			Delegate: body[m[2]:m[3]],
			Offset:   n,
		}, true
	}
	return Entry{}, false
}

// DetectBias returns LIT from the first "x = x - LIT" statement in the body
// of the function named accessor.
func DetectBias(src, accessor string) (int, bool) {
	body, ok := FuncBody(src, accessor)
	if !ok {
		return 0, false
	}
	m, err := biasRe.FindStringMatch(body)
	if err != nil || m == nil {
		return 0, false
	}
	n, err := scan.ParseInt(m.GroupByNumber(2).String())
	if err != nil {
		return 0, false
	}
	return n, true
}

// FuncBody returns the body of the function declared or assigned under name.
func FuncBody(src, name string) (string, bool) {
	q := regexp.QuoteMeta(name)
	re := regexp.MustCompile(`(?:\bfunction\s+` + q + `|(?:^|[^\w$.])` + q + `\s*=\s*function)\s*\([^)]*\)\s*\{`)
	m := re.FindStringIndex(src)
	if m == nil {
		return "", false
	}
	end := scan.MatchClose(src, m[1], '{', '}')
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(src[m[1]:end]), true
}
