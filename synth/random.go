package synth

// Rand is the mulberry32 generator: a 32-bit state advanced by a fixed
// increment and mixed with xorshift-multiply rounds. Sequences are
// bit-for-bit reproducible from the seed on every platform.
//
// Not safe for concurrent use.
type Rand struct {
	state uint32
}

// NewRand seeds a generator.
func NewRand(seed uint32) *Rand {
	return &Rand{state: seed}
}

// Uint32 returns the next raw 32-bit output.
func (r *Rand) Uint32() uint32 {
	r.state += 0x6D2B79F5
	t := r.state
	x := (t ^ (t >> 15)) * (1 | t)
	x ^= x + (x^(x>>7))*(61|x)
	return x ^ (x >> 14)
}

// Float64 returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	return float64(r.Uint32()) / 4294967296
}
