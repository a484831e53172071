package deobfuscate

import (
	"strings"
	"testing"

	"github.com/YoshihikoAbe/jsdeob/pool"
	"github.com/YoshihikoAbe/jsdeob/strcipher"
)

func encode(t *testing.T, plain, key string) string {
	t.Helper()
	token, err := strcipher.Encode(plain, key, nil)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func poolDecl(tokens []string) string {
	return `const I = ["` + strings.Join(tokens, `", "`) + `"];` + "\n"
}

func TestSecret(t *testing.T) {
	src := poolDecl([]string{"eAlXn0H7"}) + `console.log(f(410, "key"));`

	res := Source(src, DefaultOptions())
	if want := poolDecl([]string{"eAlXn0H7"}) + `console.log("secret");`; res.Value.Source != want {
		t.Fatalf("got %s", res.Value.Source)
	}
	if res.Value.Decoded != 1 || res.Value.Failed != 0 {
		t.Fatalf("summary: %+v", res.Value)
	}
}

func TestSample(t *testing.T) {
	plain := []string{"log", "hello", "world", "fallback"}
	tokens := make([]string, len(plain))
	for i, s := range plain {
		tokens[i] = encode(t, s, "k"+string(rune('0'+i)))
	}

	src := poolDecl(pool.Rotate(tokens, len(tokens)-2)) + `(function(a, b) {
	var c = function(d) {
		while (--d) {
			a["push"](a["shift"]());
		}
	};
	c(++b);
})(I, 2);
function f(W, n) {
	W = W - 400;
	return I[W];
}
function u(W, n) {
	return f(W - -100, n);
}
function k(W, n) {
	return u(W - 5, n);
}
const R = {
	aBc: function(a, b) { return a + b; },
	dEf: f(400, "k0"),
};
var x = R.aBc(1, 2);
console[R["dEf"]](k(306, "k1"), u(302, "k2"));
var z = u(303, "k3");
var y = x ? x : z;
`

	res := Source(src, DefaultOptions())
	out := res.Value
	if len(res.Diags) != 0 {
		t.Fatalf("diagnostics: %v", res.Diags)
	}
	if out.Pool != "I" || out.PoolSize != 4 || out.Rotation != 2 || out.Wrappers != 2 || out.Bias != 400 {
		t.Fatalf("summary: %+v", out)
	}
	if out.Decoded != 4 || out.Map != "R" || out.MapEntries != 2 || out.MapRewrites != 2 {
		t.Fatalf("summary: %+v", out)
	}

	for _, want := range []string{
		`dEf: "log"`,
		"var x = (1 + 2);",
		`console.log("hello", "world");`,
		`var z = "fallback";`,
		"var y = x || z;",
		"a.push(a.shift());",
	} {
		if !strings.Contains(out.Source, want) {
			t.Errorf("output lacks %s:\n%s", want, out.Source)
		}
	}
}

func TestNoPool(t *testing.T) {
	for _, src := range []string{"", "console.log(f(410, \"key\"));", "const a = [1, 2];"} {
		res := Source(src, DefaultOptions())
		if res.Value.Source != src {
			t.Fatalf("%q changed to %q", src, res.Value.Source)
		}
		if len(res.Diags) != 1 || res.Diags[0].Kind != KindAbsent {
			t.Fatalf("%q: diagnostics %v", src, res.Diags)
		}
		if again := Source(res.Value.Source, DefaultOptions()); again.Value.Source != src {
			t.Fatalf("%q: second run changed output", src)
		}
	}
}

func TestFailuresLeaveCall(t *testing.T) {
	tests := []struct {
		call string
		kind Kind
	}{
		{`f(999, "key")`, KindOutOfRange},
		{`f(409, "key")`, KindOutOfRange},
		{`f(410, "")`, KindDecode},
		{`f(a + 1, "key")`, KindUnresolved},
		{`a(410, "key")`, KindCycle},
	}

	decls := poolDecl([]string{"eAlXn0H7"}) +
		"function a(x, y) { return b(x - 1, y); }\n" +
		"function b(x, y) { return a(x - 1, y); }\n"
	for _, test := range tests {
		src := decls + "g(" + test.call + ");"
		res := Source(src, DefaultOptions())
		if res.Value.Source != src {
			t.Fatalf("%s: got %s", test.call, res.Value.Source)
		}
		if res.Count(test.kind) != 1 || res.Value.Failed != 1 {
			t.Fatalf("%s: diagnostics %v", test.call, res.Diags)
		}
		for _, d := range res.Diags {
			if d.Kind == test.kind && !strings.HasPrefix(src[d.Offset:], test.call) {
				t.Fatalf("%s: offset %d points at %q", test.call, d.Offset, src[d.Offset:])
			}
		}
	}
}

func TestNested(t *testing.T) {
	tokens := []string{encode(t, "secret", "inner"), encode(t, "inner", "key")}
	src := poolDecl(tokens) + `x = f(410, f(411, "key")) + f(410, f(0, "key"));`

	res := Source(src, DefaultOptions())
	want := poolDecl(tokens) + `x = "secret" + f(410, f(0, "key"));`
	if res.Value.Source != want {
		t.Fatalf("got %s", res.Value.Source)
	}
	if res.Value.Decoded != 2 || res.Count(KindOutOfRange) != 1 {
		t.Fatalf("summary: %+v %v", res.Value, res.Diags)
	}
}

func TestOptions(t *testing.T) {
	tokens := []string{encode(t, "first", "key"), encode(t, "second", "key")}
	src := poolDecl(tokens) + `(function(a, b) { while (--b) { a.push(a.shift()); } })(I, 1);
dec(100, "key");`

	opt := DefaultOptions()
	opt.Accessor = "dec"
	opt.Bias = 100
	if got := Source(src, opt).Value.Source; !strings.HasSuffix(got, `"second";`) {
		t.Fatalf("detected rotation: %s", got)
	}

	opt.Rotation = 0
	if got := Source(src, opt).Value.Source; !strings.HasSuffix(got, `"first";`) {
		t.Fatalf("fixed rotation: %s", got)
	}
}

func TestRules(t *testing.T) {
	res := Rules(`var a = ["30", "1f"];`)
	if len(res.Diags) != 1 || res.Diags[0].Kind != KindIncomplete {
		t.Fatalf("diagnostics: %v", res.Diags)
	}
	if !strings.Contains(res.Diags[0].Msg, "static_param") || strings.Contains(res.Diags[0].Msg, "prefix") {
		t.Fatalf("message: %s", res.Diags[0].Msg)
	}
}
