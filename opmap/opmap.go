// Package opmap recovers the object literal an obfuscator uses in place of
// native binary operators and string constants, and inlines its uses.
//
//	const m = { aBc: function(a, b) { return a + b; }, dEf: "log" };
//	m.aBc(x, 1) + m["dEf"]  =>  (x + 1) + "log"
package opmap

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/iancoleman/orderedmap"

	"github.com/YoshihikoAbe/jsdeob/scan"
)

type opmapError string

func (e opmapError) Error() string {
	return "jsdeob/opmap: " + string(e)
}

// ErrNotFound is returned when no object literal declares a recognised
// entry.
const ErrNotFound = opmapError("operator map not found")

type Kind int

const (
	Binary Kind = iota
	StringConstant
)

func (k Kind) String() string {
	switch k {
	case Binary:
		return "binary"
	case StringConstant:
		return "string"
	}
	return "unknown"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type Entry struct {
	Kind Kind `json:"kind"`
	// Symbol is the operator of a Binary entry.
	Symbol string `json:"op,omitempty"`
	// Value is the decoded literal of a StringConstant entry.
	Value string `json:"value,omitempty"`
}

type Map struct {
	Name    string
	Entries *orderedmap.OrderedMap
}

func (m *Map) Len() int {
	return len(m.Entries.Keys())
}

func (m *Map) Lookup(key string) (Entry, bool) {
	v, ok := m.Entries.Get(key)
	if !ok {
		return Entry{}, false
	}
	e, ok := v.(Entry)
	return e, ok
}

func (m *Map) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name    string                 `json:"name"`
		Entries *orderedmap.OrderedMap `json:"entries"`
	}{m.Name, m.Entries})
}

var (
	// const m = {
	declRe = regexp.MustCompile(`\b(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*\{`)
	// function(a, b) { return a + b; }
	binaryRe = regexp.MustCompile(`^function\s*\(\s*([\w$]+)\s*,\s*([\w$]+)\s*\)\s*\{\s*return\s+([\w$]+)\s*(` +
		`>>>|===|!==|\*\*|==|!=|<=|>=|<<|>>|&&|\|\||[-+*/%&|^<>]` +
		`)\s*([\w$]+)\s*;?\s*\}$`)
)

// Extract returns the first object literal declaration holding at least one
// operator or string-constant property.
func Extract(src string) (*Map, error) {
	for _, m := range declRe.FindAllStringSubmatchIndex(src, -1) {
		start := m[1]
		end := scan.MatchClose(src, start, '{', '}')
		if end < 0 {
			continue
		}
		entries := parseBody(src[start:end])
		if len(entries.Keys()) == 0 {
			continue
		}
		return &Map{
			Name:    src[m[2]:m[3]],
			Entries: entries,
		}, nil
	}
	return nil, ErrNotFound
}

func parseBody(body string) *orderedmap.OrderedMap {
	entries := orderedmap.New()
	for _, prop := range scan.SplitArgs(body) {
		key, value, ok := splitProp(prop)
		if !ok {
			continue
		}
		if e, ok := parseValue(value); ok {
			entries.Set(key, e)
		}
	}
	return entries
}

// splitProp splits "key: value", unquoting a quoted key.
func splitProp(prop string) (string, string, bool) {
	prop = strings.TrimSpace(prop)
	if prop == "" {
		return "", "", false
	}

	var key string
	switch prop[0] {
	case '"', '\'':
		end := scan.StringEnd(prop, 0)
		if end < 0 {
			return "", "", false
		}
		k, err := scan.Unquote(prop[:end+1])
		if err != nil {
			return "", "", false
		}
		rest := strings.TrimSpace(prop[end+1:])
		if !strings.HasPrefix(rest, ":") {
			return "", "", false
		}
		key, prop = k, rest[1:]
	default:
		i := strings.IndexByte(prop, ':')
		if i < 0 {
			return "", "", false
		}
		key, prop = strings.TrimSpace(prop[:i]), prop[i+1:]
		if !scan.IsIdent(strings.ReplaceAll(key, "$", "_")) {
			return "", "", false
		}
	}
	return key, strings.TrimSpace(prop), true
}

func parseValue(value string) (Entry, bool) {
	if scan.IsStringLiteral(value) {
		s, err := scan.Unquote(value)
		if err != nil {
			return Entry{}, false
		}
		return Entry{Kind: StringConstant, Value: s}, true
	}

	sm := binaryRe.FindStringSubmatch(value)
	if sm == nil || sm[1] == sm[2] || sm[3] != sm[1] || sm[5] != sm[2] {
		return Entry{}, false
	}
	return Entry{Kind: Binary, Symbol: sm[4]}, true
}
