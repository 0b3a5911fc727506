package rendezvous

import (
	"math"
	"sort"

	orb "github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Resolution is the cached base reachability of a location
type Resolution struct {
	Distance float64
	Anchor   orb.Point
	Found    bool
}

// Resolver finds and caches the cheapest real path from a point to the nearest
// base-linked candidate. Euclidean distance prunes the candidates before any
// path is planned.
type Resolver struct {
	planner PathPlanner
	los     int
	nlos    int
	table   map[orb.Point]Resolution
	queries int
	metrics *metrics
}

// NewResolver creates a resolver keeping the closest los line-of-sight and
// nlos obstructed candidates for exact planning
func NewResolver(planner PathPlanner, los, nlos int) *Resolver {
	return &Resolver{
		planner: planner,
		los:     los,
		nlos:    nlos,
		table:   make(map[orb.Point]Resolution),
	}
}

// Resolve returns the travel distance from p to the nearest base-linked
// candidate and that candidate's location. When nothing is reachable the
// distance is +Inf and ok is false.
func (r *Resolver) Resolve(p orb.Point, toBase []Link) (dist float64, anchor orb.Point, ok bool) {
	if res, cached := r.table[p]; cached && res.Found {
		return res.Distance, res.Anchor, true
	}

	var los, nlos []orb.Point
	seen := make(map[orb.Point]struct{}, len(toBase))
	for _, l := range toBase {
		if _, dup := seen[l.Local]; dup {
			continue
		}
		seen[l.Local] = struct{}{}
		if l.Local == p {
			r.table[p] = Resolution{Distance: 0, Anchor: p, Found: true}
			return 0, p, true
		}
		if l.LineOfSight() {
			los = append(los, l.Local)
		} else {
			nlos = append(nlos, l.Local)
		}
	}

	best := Resolution{Distance: math.Inf(1)}
	for _, c := range append(closest(p, los, r.los), closest(p, nlos, r.nlos)...) {
		r.queries++
		r.metrics.pathQuery()
		path := r.planner.Plan(p, c)
		if !path.Found {
			continue
		}
		if path.Length < best.Distance {
			best = Resolution{Distance: path.Length, Anchor: c, Found: true}
		}
	}
	if !best.Found {
		return math.Inf(1), orb.Point{}, false
	}
	r.table[p] = best
	return best.Distance, best.Anchor, true
}

// Lookup returns the cached resolution for p
func (r *Resolver) Lookup(p orb.Point) (Resolution, bool) {
	res, ok := r.table[p]
	return res, ok
}

// PathQueries is the number of path computations issued so far
func (r *Resolver) PathQueries() int {
	return r.queries
}

// Clear drops every cached resolution. Called at the start of a planning cycle.
func (r *Resolver) Clear() {
	r.table = make(map[orb.Point]Resolution)
}

// closest returns up to n points nearest to p by straight-line distance
func closest(p orb.Point, pts []orb.Point, n int) []orb.Point {
	if n <= 0 || len(pts) == 0 {
		return nil
	}
	sorted := append([]orb.Point(nil), pts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return planar.DistanceSquared(p, sorted[i]) < planar.DistanceSquared(p, sorted[j])
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
