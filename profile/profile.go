// Package profile holds the parameters that change between releases of the
// obfuscator: the index bias, the accessor's name, the pool rotation and
// the base64 alphabet of the pool.
package profile

import (
	"bytes"
	"encoding/base64"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/YoshihikoAbe/jsdeob/chain"
	"github.com/YoshihikoAbe/jsdeob/deobfuscate"
	"github.com/YoshihikoAbe/jsdeob/scan"
)

type profileError string

func (e profileError) Error() string {
	return "jsdeob/profile: " + string(e)
}

// Profile is read from YAML or JSON. Unset fields keep their defaults; an
// unset bias or rotation is detected from the source.
type Profile struct {
	Name     string `yaml:"name" json:"name"`
	Accessor string `yaml:"accessor" json:"accessor"`
	Bias     *int   `yaml:"bias,omitempty" json:"bias,omitempty"`
	Rotation *int   `yaml:"rotation,omitempty" json:"rotation,omitempty"`
	Alphabet string `yaml:"alphabet,omitempty" json:"alphabet,omitempty"`
}

func Default() *Profile {
	return &Profile{
		Name:     "default",
		Accessor: deobfuscate.DefaultAccessor,
	}
}

// Load reads a profile file. Fields it does not set keep the values of
// Default.
func Load(name string) (*Profile, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return Read(bytes.NewReader(data))
}

func Read(rd io.Reader) (*Profile, error) {
	p := Default()
	dec := yaml.NewDecoder(rd)
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && err != io.EOF {
		return nil, err
	}
	if _, err := p.Options(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Profile) Write(wr io.Writer) error {
	enc := yaml.NewEncoder(wr)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return err
	}
	return enc.Close()
}

// Options converts p to pipeline options.
func (p *Profile) Options() (deobfuscate.Options, error) {
	opt := deobfuscate.DefaultOptions()
	if p.Accessor != "" {
		if !scan.IsIdent(p.Accessor) {
			return opt, profileError("invalid accessor: " + p.Accessor)
		}
		opt.Accessor = p.Accessor
	}
	if p.Bias != nil {
		opt.Bias = *p.Bias
		opt.DetectBias = false
	}
	if p.Rotation != nil {
		if *p.Rotation < 0 {
			return opt, profileError("negative rotation: " + strconv.Itoa(*p.Rotation))
		}
		opt.Rotation = *p.Rotation
	}
	if p.Alphabet != "" {
		enc, err := encoding(p.Alphabet)
		if err != nil {
			return opt, err
		}
		opt.Encoding = enc
	}
	return opt, nil
}

// BiasOrDefault returns the configured bias or the built-in one.
func (p *Profile) BiasOrDefault() int {
	if p.Bias != nil {
		return *p.Bias
	}
	return chain.DefaultBias
}

func encoding(alphabet string) (*base64.Encoding, error) {
	if len(alphabet) != 64 {
		return nil, profileError("alphabet must have 64 characters, not " + strconv.Itoa(len(alphabet)))
	}
	var seen [256]bool
	for i := 0; i < len(alphabet); i++ {
		c := alphabet[i]
		if c >= 0x80 || c == '=' || c == '\r' || c == '\n' || seen[c] {
			return nil, profileError("invalid alphabet character: " + strconv.QuoteRune(rune(c)))
		}
		seen[c] = true
	}
	return base64.NewEncoding(alphabet), nil
}
