package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"

	"github.com/YoshihikoAbe/jsdeob/chain"
	"github.com/YoshihikoAbe/jsdeob/pool"
	"github.com/YoshihikoAbe/jsdeob/scan"
	"github.com/YoshihikoAbe/jsdeob/strcipher"
)

// wrapperOffset is subtracted by the sample's single wrapper function.
const wrapperOffset = 5

func main() {
	log.SetHandler(cli.New(os.Stderr))
	if len(os.Args) < 4 {
		log.Fatal("usage: make-sample KEY OUT STRINGS...")
	}
	key, out, plain := os.Args[1], os.Args[2], os.Args[3:]

	tokens := make([]string, len(plain))
	for i, s := range plain {
		token, err := strcipher.Encode(s, key, nil)
		if err != nil {
			log.WithError(err).Fatal("encode failed")
		}
		tokens[i] = token
	}
	rotation := len(tokens) / 2

	b := strings.Builder{}
	b.WriteString("const I = [")
	for i, token := range pool.Rotate(tokens, len(tokens)-rotation) {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(scan.Quote(token))
	}
	b.WriteString("];\n")
	b.WriteString(`(function(a, b) {
	var c = function(d) {
		while (--d) {
			a["push"](a["shift"]());
		}
	};
	c(++b);
})(I, ` + strconv.Itoa(rotation) + ");\n")
	b.WriteString(`function f(W, n) {
	W = W - ` + strconv.Itoa(chain.DefaultBias) + `;
	return I[W];
}
function u(W, n) {
	return f(W - ` + strconv.Itoa(wrapperOffset) + `, n);
}
`)
	for i := range plain {
		raw := chain.DefaultBias + wrapperOffset + i
		b.WriteString("console.log(u(" + strconv.Itoa(raw) + ", " + scan.Quote(key) + "));\n")
	}

	if err := os.WriteFile(out, []byte(b.String()), 0644); err != nil {
		log.WithError(err).Fatal("write failed")
	}
}
