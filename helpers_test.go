package rendezvous

import (
	"testing"

	orb "github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/require"
)

// openGrid is a w x h map with no obstacles
type openGrid struct {
	w, h float64
}

func (g openGrid) IsFree(p orb.Point) bool {
	return p[0] >= 0 && p[1] >= 0 && p[0] < g.w && p[1] < g.h
}
func (g openGrid) IsObstacle(orb.Point) bool              { return false }
func (g openGrid) HasLineOfSight(a, b orb.Point) bool     { return true }
func (g openGrid) FreeCellCount() int                     { return int(g.w * g.h) }
func (g openGrid) ObstacleCountOnLine(a, b orb.Point) int { return 0 }
func (g openGrid) Bound() orb.Bound {
	return orb.Bound{Max: orb.Point{g.w, g.h}}
}

// rangeSignal connects anything within range
type rangeSignal struct{}

func (rangeSignal) IsConnected(r float64, _ Grid, a, b orb.Point) bool {
	return planar.Distance(a, b) <= r
}
func (rangeSignal) MaxRangeForCutoff(r float64) float64 { return r }
func (rangeSignal) Strength(r float64, _ Grid, a, b orb.Point) float64 {
	return r - planar.Distance(a, b)
}

type leg [2]orb.Point

// tablePlanner answers from a table of leg lengths, falling back to
// straight-line distance when euclid is set. It counts every query.
type tablePlanner struct {
	lengths map[leg]float64
	euclid  bool
	queries int
}

func (p *tablePlanner) Plan(a, b orb.Point) Path {
	p.queries++
	if l, ok := p.lengths[leg{a, b}]; ok {
		return Path{Found: true, Length: l, Points: []orb.Point{a, b}}
	}
	if p.euclid {
		return Path{Found: true, Length: planar.Distance(a, b), Points: []orb.Point{a, b}}
	}
	return Path{}
}

func newTestStrategy(t *testing.T, agent Agent, cfg Config, planner PathPlanner) *Strategy {
	t.Helper()
	if planner == nil {
		planner = &tablePlanner{euclid: true}
	}
	s, err := NewStrategy(agent, cfg, Collaborators{Signal: rangeSignal{}, Planner: planner})
	require.NoError(t, err)
	return s
}

// fixedSkeleton reports the same key points, all with the same degree
type fixedSkeleton struct {
	keys   []orb.Point
	degree int
}

func (s fixedSkeleton) KeyPoints() []orb.Point { return s.keys }
func (s fixedSkeleton) Degree(orb.Point) int   { return s.degree }

// countingTopology counts skeleton extractions
type countingTopology struct {
	skel  fixedSkeleton
	calls int
}

func (c *countingTopology) FindSkeleton(Grid) Skeleton {
	c.calls++
	return c.skel
}
