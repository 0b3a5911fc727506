package rendezvous

import (
	orb "github.com/paulmach/orb"
)

// Grid is the agent's known occupancy map
type Grid interface {
	IsFree(p orb.Point) bool
	IsObstacle(p orb.Point) bool
	HasLineOfSight(a, b orb.Point) bool
	FreeCellCount() int
	ObstacleCountOnLine(a, b orb.Point) int
	// Bound is the extent of the map in cell coordinates
	Bound() orb.Bound
}

// SignalModel turns distance and obstruction into a connectivity verdict
type SignalModel interface {
	IsConnected(commRange float64, grid Grid, a, b orb.Point) bool
	MaxRangeForCutoff(commRange float64) float64
	// Strength is the predicted signal between a and b, higher is better
	Strength(commRange float64, grid Grid, a, b orb.Point) float64
}

// Path is the result of a path query
type Path struct {
	Found  bool
	Length float64
	Points []orb.Point
}

// LineString returns the path geometry
func (p Path) LineString() orb.LineString {
	return orb.LineString(p.Points)
}

// PathPlanner turns two coordinates into a travel distance
type PathPlanner interface {
	Plan(a, b orb.Point) Path
}

// Skeleton is the thinned free-space graph of a grid
type Skeleton interface {
	// KeyPoints are the junction and endpoint cells
	KeyPoints() []orb.Point
	Degree(p orb.Point) int
}

// Topology extracts skeletons
type Topology interface {
	FindSkeleton(grid Grid) Skeleton
}

// MergeStats classifies the free cells touched by a map merge
type MergeStats struct {
	KnownAtBase int
	Relayed     int
	New         int
}

// MapMerger merges a teammate's published map into the local one
type MapMerger interface {
	Merge(remote *Snapshot) MergeStats
}
