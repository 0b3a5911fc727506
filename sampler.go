package rendezvous

import (
	"math"

	orb "github.com/paulmach/orb"
)

// maxSampleAttemptsFactor bounds rejection sampling per requested point
const maxSampleAttemptsFactor = 50

// Sampler draws candidate points from the known free space. Output is
// deterministic for a given grid and generator state; successive calls continue
// the sequence.
type Sampler struct {
	seq *sobol2
}

// NewSampler creates a sampler at the start of its sequence
func NewSampler() *Sampler {
	return &Sampler{seq: newSobol2()}
}

// Reset rewinds the generator
func (s *Sampler) Reset() {
	s.seq.reset()
}

// SampleCount is the number of points drawn for a grid, one per density free cells
func SampleCount(grid Grid, density int) int {
	free := grid.FreeCellCount()
	if free <= 0 || density <= 0 {
		return 0
	}
	n := free / density
	if n < 1 {
		n = 1
	}
	return n
}

// Sample returns free-space candidates followed by the base location
func (s *Sampler) Sample(grid Grid, density int, base orb.Point) []*Candidate {
	want := SampleCount(grid, density)
	out := make([]*Candidate, 0, want+1)
	seen := make(map[orb.Point]struct{}, want+1)
	seen[base] = struct{}{}

	b := grid.Bound()
	w := b.Max[0] - b.Min[0]
	h := b.Max[1] - b.Min[1]

	for attempts := 0; len(out) < want && attempts < want*maxSampleAttemptsFactor; attempts++ {
		u, v := s.seq.next()
		p := orb.Point{
			math.Floor(b.Min[0] + u*w),
			math.Floor(b.Min[1] + v*h),
		}
		if _, dup := seen[p]; dup {
			continue
		}
		if !grid.IsFree(p) {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, NewCandidate(p))
	}

	return append(out, NewCandidate(base))
}
