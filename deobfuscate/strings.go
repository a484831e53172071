package deobfuscate

import (
	"encoding/base64"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/YoshihikoAbe/jsdeob/chain"
	"github.com/YoshihikoAbe/jsdeob/scan"
	"github.com/YoshihikoAbe/jsdeob/strcipher"
)

// f(
var callRe = regexp.MustCompile(`([\w$]+)\s*\(`)

// isMember reports whether the identifier at start is a property access.
func isMember(src string, start int) bool {
	return start > 0 && src[start-1] == '.'
}

// decoder turns decrypt calls into the strings they return.
type decoder struct {
	tokens []string
	chain  *chain.Chain
	names  map[string]bool
	bias   int
	enc    *base64.Encoding

	decoded int
	res     *Result[Output]
}

func newDecoder(tokens []string, c *chain.Chain, accessor string, bias int, enc *base64.Encoding) *decoder {
	names := map[string]bool{accessor: true}
	for _, e := range c.Entries() {
		names[e.Name] = true
	}
	for _, name := range c.Terminals() {
		names[name] = true
	}
	return &decoder{
		tokens: tokens,
		chain:  c,
		names:  names,
		bias:   bias,
		enc:    enc,
	}
}

// call is a decrypt call site: name(raw, "key").
type call struct {
	name   string
	raw    int
	key    string
	offset int
}

// parseCall reports whether args have the shape of a decrypt call: an index
// followed by a string key. err is set when the index is not an integer
// literal.
func parseCall(args []string) (raw int, key string, isCall bool, err error) {
	if len(args) != 2 || !scan.IsStringLiteral(args[1]) {
		return 0, "", false, nil
	}
	key, err = scan.Unquote(args[1])
	if err != nil {
		return 0, "", false, nil
	}
	raw, err = scan.ParseInt(args[0])
	return raw, key, true, err
}

// decode resolves and decrypts one call.
func (d *decoder) decode(name string, raw int, key string) (string, Kind, error) {
	index, err := d.chain.Resolve(name, raw, d.bias)
	if err != nil {
		return "", KindCycle, err
	}
	token, ok := tokenAt(d.tokens, index)
	if !ok {
		return "", KindOutOfRange, errors.New("index " + strconv.Itoa(index) + " outside pool of " + strconv.Itoa(len(d.tokens)))
	}
	s, err := strcipher.Decode(token, key, d.enc)
	if err != nil {
		return "", KindDecode, err
	}
	return s, "", nil
}

func tokenAt(tokens []string, i int) (string, bool) {
	if i < 0 || i >= len(tokens) {
		return "", false
	}
	return tokens[i], true
}

// rewrite replaces every decrypt call in src. Arguments are rewritten
// before the call that holds them, and the cursor only moves forward.
func (d *decoder) rewrite(src string, base int) string {
	var (
		b      strings.Builder
		cursor int
	)
	for _, loc := range callRe.FindAllStringSubmatchIndex(src, -1) {
		start, lparen := loc[2], loc[1]-1
		if start < cursor {
			continue
		}
		name := src[loc[2]:loc[3]]
		if !d.names[name] || isMember(src, start) {
			continue
		}
		rparen := scan.MatchClose(src, lparen+1, '(', ')')
		if rparen < 0 {
			continue
		}

		inner := d.rewrite(src[lparen+1:rparen], base+lparen+1)
		b.WriteString(src[cursor:start])
		cursor = rparen + 1

		raw, key, isCall, err := parseCall(scan.SplitArgs(inner))
		if !isCall {
			b.WriteString(src[start:lparen+1] + inner + ")")
			continue
		}
		if err != nil {
			d.res.add("strings", KindUnresolved, name+": index is not a literal", base+start)
			b.WriteString(src[start:lparen+1] + inner + ")")
			continue
		}

		s, kind, err := d.decode(name, raw, key)
		if err != nil {
			d.res.add("strings", kind, name+"("+strconv.Itoa(raw)+"): "+err.Error(), base+start)
			b.WriteString(src[start:lparen+1] + inner + ")")
			continue
		}
		b.WriteString(scan.Quote(s))
		d.decoded++
	}
	if cursor == 0 {
		return src
	}
	b.WriteString(src[cursor:])
	return b.String()
}

// sites returns up to limit decrypt calls in src with literal arguments.
// Calls nested in the arguments of another call are not visited.
func (d *decoder) sites(src string, limit int) []call {
	var (
		out    []call
		cursor int
	)
	for _, loc := range callRe.FindAllStringSubmatchIndex(src, -1) {
		if len(out) == limit {
			break
		}
		start, lparen := loc[2], loc[1]-1
		if start < cursor || !d.names[src[loc[2]:loc[3]]] || isMember(src, start) {
			continue
		}
		rparen := scan.MatchClose(src, lparen+1, '(', ')')
		if rparen < 0 {
			continue
		}
		cursor = rparen + 1

		args := scan.SplitArgs(src[lparen+1 : rparen])
		if raw, key, isCall, err := parseCall(args); isCall && err == nil {
			out = append(out, call{
				name:   src[loc[2]:loc[3]],
				raw:    raw,
				key:    key,
				offset: start,
			})
		}
	}
	return out
}
