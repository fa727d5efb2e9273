package deploy

import (
	"math/rand/v2"
	"unicode/utf16"
)

// RandomSource yields uniform floats in [0, 1).
type RandomSource interface {
	Float64() float64
}

// Mulberry32 is a small seeded generator. The same seed always produces the
// same sequence, which makes sessions reproducible from their seed.
type Mulberry32 struct {
	state uint32
}

// NewMulberry32 creates a generator from a 32-bit seed.
func NewMulberry32(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

// Uint32 returns the next raw 32-bit output.
func (m *Mulberry32) Uint32() uint32 {
	m.state += 0x6D2B79F5
	t := m.state
	r := (t ^ (t >> 15)) * (t | 1)
	r ^= r + (r^(r>>7))*(r|61)
	return r ^ (r >> 14)
}

// Float64 returns the next value in [0, 1).
func (m *Mulberry32) Float64() float64 {
	return float64(m.Uint32()) / 4294967296
}

// systemSource is an unseeded generator for casual play.
type systemSource struct{}

// NewSystemSource returns a RandomSource backed by the runtime's generator.
func NewSystemSource() RandomSource {
	return systemSource{}
}

func (systemSource) Float64() float64 { return rand.Float64() }

// SeedFromStrings derives a seed from arbitrary identity strings, typically
// a player name and a timestamp. Parts are joined with "|" and hashed with
// 32-bit FNV-1a over UTF-16 code units; the result is the absolute value of
// the signed hash. Empty input yields the unsigned offset basis.
func SeedFromStrings(parts ...string) uint32 {
	h := uint32(0x811C9DC5)
	hashed := false
	for i, p := range parts {
		if i > 0 {
			h = (h ^ '|') * 0x1000193
			hashed = true
		}
		for _, r := range p {
			// One code unit per code point: astral runes contribute their
			// high surrogate only.
			u := uint32(r)
			if r >= 0x10000 {
				hi, _ := utf16.EncodeRune(r)
				u = uint32(hi)
			}
			h = (h ^ u) * 0x1000193
			hashed = true
		}
	}
	if !hashed {
		return h
	}
	s := int32(h)
	if s < 0 {
		return uint32(-int64(s))
	}
	return uint32(s)
}

// between returns a uniform value in [lo, hi).
func between(rng RandomSource, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
