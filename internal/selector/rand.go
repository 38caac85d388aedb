package selector

import "unicode/utf16"

// Rand is a small-fast-counter (sfc32) generator seeded from a string via the
// cyrb128 hash. The stream matches the rand-seed JavaScript package, so day keys
// pick the same cards as the browser version of the game.
type Rand struct {
	a, b, c, d uint32
}

// NewRand seeds a generator from seed. Equal seeds give equal streams.
func NewRand(seed string) *Rand {
	h := cyrb128(seed)
	return &Rand{a: h[0], b: h[1], c: h[2], d: h[3]}
}

// Uint32 advances the generator.
func (r *Rand) Uint32() uint32 {
	t := r.a + r.b
	r.a = r.b ^ (r.b >> 9)
	r.b = r.c + (r.c << 3)
	r.c = (r.c << 21) | (r.c >> 11)
	r.d++
	t += r.d
	r.c += t
	return t
}

// Float64 returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	return float64(r.Uint32()) / 4294967296
}

// cyrb128 hashes the UTF-16 code units of s into four 32-bit words.
func cyrb128(s string) [4]uint32 {
	h1, h2, h3, h4 := uint32(1779033703), uint32(3144134277), uint32(1013904242), uint32(2773480762)
	for _, u := range utf16.Encode([]rune(s)) {
		k := uint32(u)
		h1 = h2 ^ ((h1 ^ k) * 597399067)
		h2 = h3 ^ ((h2 ^ k) * 2869860233)
		h3 = h4 ^ ((h3 ^ k) * 951274213)
		h4 = h1 ^ ((h4 ^ k) * 2716044179)
	}
	h1 = (h3 ^ (h1 >> 18)) * 597399067
	h2 = (h4 ^ (h2 >> 22)) * 2869860233
	h3 = (h1 ^ (h3 >> 17)) * 951274213
	h4 = (h2 ^ (h4 >> 19)) * 2716044179
	return [4]uint32{h1 ^ h2 ^ h3 ^ h4, h2 ^ h1, h3 ^ h1, h4 ^ h1}
}
