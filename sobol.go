package rendezvous

import "math/bits"

const sobolBits = 32

// sobol2 generates the two dimensional Sobol sequence in Gray code order.
// Dimension one is the base-2 van der Corput sequence, dimension two uses the
// primitive polynomial x+1.
type sobol2 struct {
	dir   [2][sobolBits]uint32
	x     [2]uint32
	index uint32
}

func newSobol2() *sobol2 {
	s := &sobol2{}
	for k := 0; k < sobolBits; k++ {
		s.dir[0][k] = 1 << (sobolBits - 1 - k)
	}
	s.dir[1][0] = 1 << (sobolBits - 1)
	for k := 1; k < sobolBits; k++ {
		s.dir[1][k] = s.dir[1][k-1] ^ (s.dir[1][k-1] >> 1)
	}
	return s
}

// next returns the next point in [0,1)². The origin is skipped.
func (s *sobol2) next() (float64, float64) {
	c := bits.TrailingZeros32(^s.index)
	if c >= sobolBits {
		s.reset()
		c = 0
	}
	s.x[0] ^= s.dir[0][c]
	s.x[1] ^= s.dir[1][c]
	s.index++
	const scale = 1.0 / (1 << sobolBits)
	return float64(s.x[0]) * scale, float64(s.x[1]) * scale
}

func (s *sobol2) reset() {
	s.x = [2]uint32{}
	s.index = 0
}
