package util

import "time"

// LCG is a 64-bit linear congruential generator. Each battle owns its own
// instance; there is no package-level generator.
type LCG struct {
	state uint64
}

const (
	lcgMul = 6364136223846793005
	lcgInc = 1442695040888963407
)

func New(seed int64) *LCG {
	return &LCG{state: uint64(seed)}
}

// Float64 returns the next value in [0,1).
func (r *LCG) Float64() float64 {
	r.state = r.state*lcgMul + lcgInc
	return float64(r.state>>11) / (1 << 53)
}

// Intn returns a value in [0,n). n <= 0 yields 0.
func (r *LCG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(r.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// Chance rolls once and reports whether the roll landed under p.
func (r *LCG) Chance(p float64) bool {
	return r.Float64() < p
}

func ClockSeed() int64 {
	return time.Now().UnixNano()
}
