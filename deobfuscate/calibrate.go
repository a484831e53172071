package deobfuscate

import (
	"github.com/YoshihikoAbe/jsdeob/chain"
	"github.com/YoshihikoAbe/jsdeob/pool"
)

const (
	ErrNoPool  = deobfuscateError("string pool not found")
	ErrNoCalls = deobfuscateError("no decrypt calls with literal arguments")
	ErrRange   = deobfuscateError("empty bias range")
	ErrNoBias  = deobfuscateError("no bias in range decodes any call")
)

// calibrationSites caps the number of call sites each candidate is scored
// against.
const calibrationSites = 64

type Calibration struct {
	Bias  int `json:"bias"`
	Score int `json:"score"`
	Sites int `json:"sites"`
}

// Calibrate tries every bias in [lo, hi] against the decrypt calls of src
// and returns the one that decodes the most calls to printable text. Ties
// go to the lowest bias.
func Calibrate(src string, opt Options, lo, hi int) (Calibration, error) {
	if lo > hi {
		return Calibration{}, ErrRange
	}
	p, err := pool.Extract(src)
	if err != nil {
		return Calibration{}, ErrNoPool
	}
	tokens, _ := rotate(src, p, opt.Rotation)

	d := newDecoder(tokens, chain.Extract(src), accessor(opt), 0, opt.Encoding)
	sites := d.sites(src, calibrationSites)
	if len(sites) == 0 {
		return Calibration{}, ErrNoCalls
	}

	best := Calibration{Sites: len(sites)}
	for b := lo; b <= hi; b++ {
		d.bias = b
		score := 0
		for _, site := range sites {
			if s, _, err := d.decode(site.name, site.raw, site.key); err == nil && printable(s) {
				score++
			}
		}
		if score > best.Score {
			best.Bias, best.Score = b, score
		}
		if b == hi {
			break
		}
	}
	if best.Score == 0 {
		return best, ErrNoBias
	}
	return best, nil
}

func printable(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 0x20 || r > 0x7e) && r != '\t' && r != '\r' && r != '\n' {
			return false
		}
	}
	return true
}
