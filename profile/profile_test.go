package profile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/YoshihikoAbe/jsdeob/chain"
	"github.com/YoshihikoAbe/jsdeob/strcipher"
)

const reversed = "ZYXWVUTSRQPONMLKJIHGFEDCBAzyxwvutsrqponmlkjihgfedcba9876543210+/"

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"v1.yaml": "name: v1\naccessor: dec\nbias: 300\nrotation: 4\nalphabet: " + reversed + "\n",
		"v1.json": `{"name": "v1", "accessor": "dec", "bias": 300, "rotation": 4, "alphabet": "` + reversed + `"}`,
	}

	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(data), 0666); err != nil {
			t.Fatal(err)
		}

		p, err := Load(path)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		opt, err := p.Options()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if opt.Accessor != "dec" || opt.Bias != 300 || opt.DetectBias || opt.Rotation != 4 || opt.Encoding == nil {
			t.Fatalf("%s: got %+v", name, opt)
		}

		token, err := strcipher.Encode("plain", "key", opt.Encoding)
		if err != nil {
			t.Fatal(err)
		}
		if s, err := strcipher.Decode(token, "key", nil); err == nil && s == "plain" {
			t.Fatalf("%s: custom alphabet ignored", name)
		}
	}
}

func TestDefaults(t *testing.T) {
	p, err := Read(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	opt, err := p.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opt.Accessor != "f" || opt.Bias != chain.DefaultBias || !opt.DetectBias || opt.Rotation != -1 || opt.Encoding != nil {
		t.Fatalf("got %+v", opt)
	}
	if p.BiasOrDefault() != chain.DefaultBias {
		t.Fatalf("bias: %d", p.BiasOrDefault())
	}

	p, err = Read(strings.NewReader("bias: 0\n"))
	if err != nil {
		t.Fatal(err)
	}
	if opt, _ := p.Options(); opt.Bias != 0 || opt.DetectBias {
		t.Fatalf("explicit zero bias: %+v", opt)
	}
}

func TestInvalid(t *testing.T) {
	for _, data := range []string{
		"accessor: 1f\n",
		"rotation: -1\n",
		"alphabet: abc\n",
		"alphabet: " + strings.Repeat("A", 64) + "\n",
		"bias: ten\n",
		"unknown: 1\n",
	} {
		if _, err := Read(strings.NewReader(data)); err == nil {
			t.Fatalf("%q: expected error", data)
		}
	}
}

func TestWrite(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	if err := Default().Write(buf); err != nil {
		t.Fatal(err)
	}
	if want := "name: default\naccessor: f\n"; buf.String() != want {
		t.Fatalf("got %q", buf.String())
	}

	p, err := Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if *p != *Default() {
		t.Fatalf("got %+v", p)
	}
}
