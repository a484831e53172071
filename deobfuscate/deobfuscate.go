// Package deobfuscate drives the rewrite pipeline: it decrypts pooled
// strings, inlines the operator map and simplifies what is left. Nothing in
// the pipeline aborts on a partial match; every skipped step is reported as
// a Diagnostic instead.
package deobfuscate

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/YoshihikoAbe/jsdeob/chain"
	"github.com/YoshihikoAbe/jsdeob/opmap"
	"github.com/YoshihikoAbe/jsdeob/pool"
	"github.com/YoshihikoAbe/jsdeob/rules"
	"github.com/YoshihikoAbe/jsdeob/simplify"
)

type deobfuscateError string

func (e deobfuscateError) Error() string {
	return "jsdeob/deobfuscate: " + string(e)
}

// DefaultAccessor is the name of the function that reads the pool directly.
const DefaultAccessor = "f"

type Options struct {
	// Bias is subtracted from every raw index before wrapper offsets.
	Bias int
	// DetectBias replaces Bias with the literal found in the accessor's
	// body, if there is one.
	DetectBias bool
	// Accessor names the pool accessor.
	Accessor string
	// Rotation is the number of positions the pool is rotated left by. A
	// negative value means the rotation routine is searched for.
	Rotation int
	// Encoding decodes pool entries. nil means standard base64.
	Encoding *base64.Encoding
}

func DefaultOptions() Options {
	return Options{
		Bias:       chain.DefaultBias,
		DetectBias: true,
		Accessor:   DefaultAccessor,
		Rotation:   -1,
	}
}

// Output is the rewritten source with a summary of what each stage found.
type Output struct {
	Source string `json:"-"`

	Pool     string `json:"pool"`
	PoolSize int    `json:"pool_size"`
	Rotation int    `json:"rotation"`
	Wrappers int    `json:"wrappers"`
	Bias     int    `json:"bias"`
	Decoded  int    `json:"decoded"`
	Failed   int    `json:"failed"`

	Map         string `json:"map,omitempty"`
	MapEntries  int    `json:"map_entries"`
	MapRewrites int    `json:"map_rewrites"`
}

// Source runs the pipeline over src. If src declares no string pool it is
// returned unchanged.
func Source(src string, opt Options) Result[Output] {
	res := Result[Output]{Value: Output{Source: src}}
	out := &res.Value

	p, err := pool.Extract(src)
	if err != nil {
		res.add("pool", KindAbsent, err.Error(), -1)
		return res
	}
	out.Pool, out.PoolSize = p.Name, p.Len()

	tokens, rotation := rotate(src, p, opt.Rotation)
	out.Rotation = rotation

	c := chain.Extract(src)
	if out.Wrappers = c.Len(); out.Wrappers == 0 {
		res.add("chain", KindAbsent, "no wrapper functions found", -1)
	}

	out.Bias = bias(src, opt)
	d := newDecoder(tokens, c, accessor(opt), out.Bias, opt.Encoding)
	d.res = &res
	src = d.rewrite(src, 0)
	out.Decoded = d.decoded
	out.Failed = len(res.Diags) - res.Count(KindAbsent)

	m, err := opmap.Extract(src)
	if err != nil {
		res.add("opmap", KindAbsent, err.Error(), -1)
	} else {
		out.Map, out.MapEntries = m.Name, m.Len()
		src, out.MapRewrites = m.Rewrite(src)
	}

	out.Source = simplify.All(src)
	return res
}

// Rules extracts the dynamic rules of src. Missing fields are reported once.
func Rules(src string) Result[*rules.Rules] {
	res := Result[*rules.Rules]{Value: rules.Extract(src)}
	if missing := res.Value.Missing(); len(missing) > 0 {
		res.add("rules", KindIncomplete, "could not find "+strings.Join(missing, ", "), -1)
	}
	return res
}

func rotate(src string, p *pool.Pool, n int) ([]string, int) {
	if n < 0 {
		n, _ = pool.FindRotation(src, p.Name)
	}
	return pool.Rotate(p.Tokens, n), n
}

func bias(src string, opt Options) int {
	if opt.DetectBias {
		if n, ok := chain.DetectBias(src, accessor(opt)); ok {
			return n
		}
	}
	return opt.Bias
}

func accessor(opt Options) string {
	if opt.Accessor == "" {
		return DefaultAccessor
	}
	return opt.Accessor
}

func (o Output) String() string {
	s := "pool " + o.Pool + " (" + strconv.Itoa(o.PoolSize) + " entries, rotated " + strconv.Itoa(o.Rotation) +
		"), " + strconv.Itoa(o.Wrappers) + " wrappers, bias " + strconv.Itoa(o.Bias) +
		", " + strconv.Itoa(o.Decoded) + " decoded, " + strconv.Itoa(o.Failed) + " failed"
	if o.Map != "" {
		s += ", map " + o.Map + " (" + strconv.Itoa(o.MapEntries) + " entries, " + strconv.Itoa(o.MapRewrites) + " rewrites)"
	}
	return s
}
