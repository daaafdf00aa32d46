package core

import "math/rand/v2"

// NewRNG creates a deterministic generator using the provided seed.
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// FillPercent sets every cell alive iff a uniform draw in [0,100) lands at or
// above 100-percent, so each cell is alive with probability percent/100.
func FillPercent(r *rand.Rand, buf []uint8, percent int) {
	threshold := 100 - percent
	for i := range buf {
		if r.IntN(100) >= threshold {
			buf[i] = 1
			continue
		}
		buf[i] = 0
	}
}
