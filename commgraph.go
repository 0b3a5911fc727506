package rendezvous

import (
	orb "github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// CommGraph is the sparse link graph over one cycle's candidates
type CommGraph struct {
	Candidates []*Candidate
	Base       orb.Point
	// ToBase holds the links whose remote endpoint is the base
	ToBase []Link

	byLocation map[orb.Point]*Candidate
}

// BuildCommGraph tests every candidate pair within theoretical range and links
// the connected ones on both sides
func BuildCommGraph(cands []*Candidate, base orb.Point, grid Grid, signal SignalModel, commRange float64) *CommGraph {
	g := &CommGraph{
		Candidates: cands,
		Base:       base,
		byLocation: make(map[orb.Point]*Candidate, len(cands)),
	}
	for _, c := range cands {
		g.byLocation[c.Location] = c
	}

	maxRange := signal.MaxRangeForCutoff(commRange)
	for i := 0; i < len(cands); i++ {
		a := cands[i]
		for j := i + 1; j < len(cands); j++ {
			b := cands[j]
			if planar.Distance(a.Location, b.Location) > maxRange {
				continue
			}
			if !signal.IsConnected(commRange, grid, a.Location, b.Location) {
				continue
			}
			l := Link{
				Local:     a.Location,
				Remote:    b.Location,
				Obstacles: grid.ObstacleCountOnLine(a.Location, b.Location),
			}
			a.Links = append(a.Links, l)
			b.Links = append(b.Links, l.Reverse())
		}
	}

	for _, c := range cands {
		for _, l := range c.Links {
			if l.Remote == base {
				g.ToBase = append(g.ToBase, l)
			}
		}
	}
	return g
}

// Candidate looks up the candidate at p
func (g *CommGraph) Candidate(p orb.Point) (*Candidate, bool) {
	c, ok := g.byLocation[p]
	return c, ok
}

// Add links an extra point into the graph, used for points chosen outside
// the sampled set
func (g *CommGraph) Add(p orb.Point, grid Grid, signal SignalModel, commRange float64) *Candidate {
	if c, ok := g.byLocation[p]; ok {
		return c
	}
	c := NewCandidate(p)
	maxRange := signal.MaxRangeForCutoff(commRange)
	for _, o := range g.Candidates {
		if planar.Distance(p, o.Location) > maxRange {
			continue
		}
		if !signal.IsConnected(commRange, grid, p, o.Location) {
			continue
		}
		l := Link{Local: p, Remote: o.Location, Obstacles: grid.ObstacleCountOnLine(p, o.Location)}
		c.Links = append(c.Links, l)
		o.Links = append(o.Links, l.Reverse())
		if o.Location == g.Base {
			g.ToBase = append(g.ToBase, l)
		}
	}
	g.Candidates = append(g.Candidates, c)
	g.byLocation[p] = c
	return c
}
