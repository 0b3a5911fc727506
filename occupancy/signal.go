package occupancy

import (
	orb "github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	rendezvous "github.com/skovsen/D2D_Rendezvous"
)

// RangeSignal is a range cutoff model where every obstacle on the straight
// line costs ObstaclePenalty cells of range
type RangeSignal struct {
	ObstaclePenalty float64
}

// IsConnected reports whether a and b can talk
func (s RangeSignal) IsConnected(commRange float64, grid rendezvous.Grid, a, b orb.Point) bool {
	return s.effectiveDistance(grid, a, b) <= commRange
}

// MaxRangeForCutoff is the range over an unobstructed line
func (s RangeSignal) MaxRangeForCutoff(commRange float64) float64 {
	return commRange
}

// Strength is the remaining range margin, negative when out of range
func (s RangeSignal) Strength(commRange float64, grid rendezvous.Grid, a, b orb.Point) float64 {
	return commRange - s.effectiveDistance(grid, a, b)
}

func (s RangeSignal) effectiveDistance(grid rendezvous.Grid, a, b orb.Point) float64 {
	d := planar.Distance(a, b)
	if s.ObstaclePenalty > 0 {
		d += float64(grid.ObstacleCountOnLine(a, b)) * s.ObstaclePenalty
	}
	return d
}
