package gbm

import (
	"math"
	"math/rand/v2"
)

// Source is a seeded standard normal generator owned by a single run.
//
// Uniforms come from PCG-DXSM (128-bit state) seeded with (uint64(seed), 0)
// and are mapped to [0, 1) as (x >> 11) * 2^-53. Normals use the basic
// Box-Muller transform: each pair of uniforms (u1, u2) yields
// r*cos(2*pi*u2) followed by r*sin(2*pi*u2), where r = sqrt(-2*ln(1-u1)).
//
// A Source is not safe for concurrent use; create one per run.
type Source struct {
	pcg      *rand.PCG
	spare    float64
	hasSpare bool
}

// NewSource returns a Source whose output depends only on seed.
func NewSource(seed int64) *Source {
	return &Source{pcg: rand.NewPCG(uint64(seed), 0)}
}

// Uniform returns a float64 in [0, 1) with 53 random mantissa bits.
func (s *Source) Uniform() float64 {
	return float64(s.pcg.Uint64()>>11) * 0x1p-53
}

// Normal returns the next standard normal draw.
func (s *Source) Normal() float64 {
	if s.hasSpare {
		s.hasSpare = false
		return s.spare
	}
	u1 := 1 - s.Uniform() // (0, 1], keeps log finite
	u2 := s.Uniform()
	r := math.Sqrt(-2 * math.Log(u1))
	theta := 2 * math.Pi * u2
	s.spare = r * math.Sin(theta)
	s.hasSpare = true
	return r * math.Cos(theta)
}
