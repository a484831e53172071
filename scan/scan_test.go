package scan

import (
	"reflect"
	"testing"
)

func TestMatchClose(t *testing.T) {
	tests := []struct {
		src   string
		start int
		open  byte
		close byte
		want  int
	}{
		{"[1, 2]", 1, '[', ']', 5},
		{"[[1], [2, [3]]] tail", 1, '[', ']', 14},
		{`{a: "}", b: {c: 1}}`, 1, '{', '}', 18},
		{`["a]", 'b]']`, 1, '[', ']', 11},
		{"[1, 2", 1, '[', ']', -1},
		{`["unterminated]`, 1, '[', ']', -1},
		{"f(a, g(b), c) + 1", 2, '(', ')', 12},
	}

	for i, test := range tests {
		if got := MatchClose(test.src, test.start, test.open, test.close); got != test.want {
			t.Errorf("(%d) MatchClose(%q) = %d, want %d", i, test.src, got, test.want)
		}
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"  ", nil},
		{"a", []string{"a"}},
		{"a, b", []string{"a", " b"}},
		{`g(1, 2), "x,y"`, []string{"g(1, 2)", ` "x,y"`}},
		{"[1, 2], {a: 1, b: 2}, c", []string{"[1, 2]", " {a: 1, b: 2}", " c"}},
	}

	for _, test := range tests {
		if got := SplitArgs(test.in); !reflect.DeepEqual(got, test.want) {
			t.Errorf("SplitArgs(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestStringLiterals(t *testing.T) {
	got := StringLiterals(`"a", 'b"c', "d\"e", 1, "f"`)
	want := []string{"a", `d\"e`, "f"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("StringLiterals = %q, want %q", got, want)
	}
}

func TestIsIdent(t *testing.T) {
	for s, want := range map[string]bool{
		"log":   true,
		"_x1":   true,
		"A_b_C": true,
		"":      false,
		"12x":   false,
		"0":     false,
		"a-b":   false,
		"a b":   false,
		"$x":    false,
	} {
		if got := IsIdent(s); got != want {
			t.Errorf("IsIdent(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestParseInt(t *testing.T) {
	good := map[string]int{
		"410":   410,
		" 410 ": 410,
		"-5":    -5,
		"- 5":   -5,
		"+7":    7,
		"0x1a":  26,
		"-0x1A": -26,
		"0":     0,
		"007":   7,
	}
	for s, want := range good {
		got, err := ParseInt(s)
		if err != nil || got != want {
			t.Errorf("ParseInt(%q) = %d, %v, want %d", s, got, err, want)
		}
	}

	for _, s := range []string{"", "-", "--5", "0x", "0x-5", "1e3", "a", `"1"`} {
		if _, err := ParseInt(s); err == nil {
			t.Errorf("ParseInt(%q): expected error", s)
		}
	}
}

func TestQuote(t *testing.T) {
	tests := map[string]string{
		"secret":     `"secret"`,
		`a"b\c`:      `"a\"b\\c"`,
		"line\nnext": `"line\nnext"`,
		"\x01":       `"\u0001"`,
		"\u00e9":     `"\u00e9"`,
		"\U0001F600": `"\ud83d\ude00"`,
	}
	for in, want := range tests {
		if got := Quote(in); got != want {
			t.Errorf("Quote(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestUnquoteRoundTrip(t *testing.T) {
	for _, s := range []string{"", "plain", `q"uo\te`, "tab\tnl\n", "\u00ff\u0100", "\U0001F600"} {
		got, err := Unquote(Quote(s))
		if err != nil {
			t.Fatalf("Unquote(Quote(%q)): %v", s, err)
		}
		if got != s {
			t.Fatalf("Unquote(Quote(%q)) = %q", s, got)
		}
	}
}

func TestUnquote(t *testing.T) {
	good := map[string]string{
		`'it\'s'`:  "it's",
		`"\x41B"`:  "AB",
		`"\u0041"`: "A",
		`'a"b'`:    `a"b`,
	}
	for in, want := range good {
		got, err := Unquote(in)
		if err != nil || got != want {
			t.Errorf("Unquote(%s) = %q, %v, want %q", in, got, err, want)
		}
	}

	for _, in := range []string{`"open`, `abc`, `"a" + "b"`, `"\x4"`, `"\u12"`} {
		if _, err := Unquote(in); err == nil {
			t.Errorf("Unquote(%s): expected error", in)
		}
	}
}
