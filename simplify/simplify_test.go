package simplify

import "testing"

func TestTernaries(t *testing.T) {
	tests := map[string]string{
		"a ? a : b":                     "a || b",
		"a ? c : b":                     "a ? c : b",
		"x = _t?_t:def;":                "x = _t || def;",
		"f(a ? a : b, c)":               "f(a || b, c)",
		"return $a ? $a : $b":           "return $a || $b",
		"o.a ? a : b":                   "o.a ? a : b",
		"ab ? a : b":                    "ab ? a : b",
		"a ? ab : b":                    "a ? ab : b",
		"x == a ? a : b":                "x == a ? a : b",
		"c + a ? a : b":                 "c + a ? a : b",
		"a ? a : b ? c : d":             "a ? a : b ? c : d",
		"p ? q : a ? a : b":             "p ? q : a || b",
		"a ? a : b.c":                   "a || b.c",
		"x = a ? a : b;\ny = c ? c : d": "x = a || b;\ny = c || d",
	}
	for in, want := range tests {
		if got := Ternaries(in); got != want {
			t.Errorf("Ternaries(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDotNotation(t *testing.T) {
	tests := map[string]string{
		`console["log"]`:        "console.log",
		`obj["12x"]`:            `obj["12x"]`,
		`arr["0"]`:              `arr["0"]`,
		`a["b"]["c"]('d')`:      "a.b.c('d')",
		`f()['x_1'] + g[ "y" ]`: "f().x_1 + g.y",
		`o["a-b"]`:              `o["a-b"]`,
		`o["$x"]`:               `o["$x"]`,
		`["a"]`:                 `["a"]`,
		`x = ["a"]`:             `x = ["a"]`,
		`m[0]["k"]`:             "m[0].k",
		`o["a"+"b"]`:            `o["a"+"b"]`,
	}
	for in, want := range tests {
		if got := DotNotation(in); got != want {
			t.Errorf("DotNotation(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIdempotent(t *testing.T) {
	src := `var v = a ? a : b; console["log"](v["x"], w ? w : "y");`
	once := All(src)
	if want := `var v = a || b; console.log(v.x, w ? w : "y");`; once != want {
		t.Fatalf("got %s", once)
	}
	if twice := All(once); twice != once {
		t.Fatalf("second pass changed output: %s", twice)
	}
}
