package rendezvous

import (
	"fmt"
	"log/slog"
	"math"

	orb "github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Situation is what the exploration state machine knows when it asks for a plan
type Situation struct {
	Now  int
	Grid Grid
	Self Agent
	// Parent and Child are the last known states of the linked teammates
	Parent Teammate
	Child  Teammate
	Base   orb.Point
	// Frontier is the explorer's next frontier, nil when it has none
	Frontier      *Frontier
	OpenFrontiers []Frontier
	// HierarchyDepth is the number of hops from the explorer to the base
	HierarchyDepth int
}

func (s Situation) nextFrontier() orb.Point {
	if s.Frontier != nil {
		return s.Frontier.Centre
	}
	return s.Self.Position
}

// Selection is the outcome of one rendezvous computation
type Selection struct {
	Primary *Rendezvous
	Backup  *Rendezvous
	// ExploreFrontier is the frontier the parent explores while waiting
	ExploreFrontier *orb.Point
	// Graph is the communication graph built this cycle, nil for policies that
	// do not sample
	Graph *CommGraph
	// Fallback is set when the plan is a conservative default, Reason says why
	Fallback bool
	Reason   error
}

// Policy chooses a rendezvous pair for an explorer and its parent. The set of
// policies is closed, pick one with NewPolicy.
type Policy interface {
	Kind() PolicyKind
	selectRendezvous(env *environment, sit Situation) Selection
}

// NewPolicy returns the policy implementation for kind
func NewPolicy(kind PolicyKind) (Policy, error) {
	switch kind {
	case SinglePoint:
		return singlePointPolicy{}, nil
	case DualPoint:
		return dualPointPolicy{}, nil
	case FrontierAware:
		return frontierAwarePolicy{}, nil
	}
	return nil, fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, kind)
}

// environment bundles the collaborators and helpers shared by the policies
type environment struct {
	cfg      Config
	signal   SignalModel
	planner  PathPlanner
	topology Topology
	sampler  *Sampler
	resolver *Resolver
	timing   *Timing
	metrics  *metrics
	logger   *slog.Logger
}

// rankSkeleton scores skeleton key points by degree² over distance to the
// frontier and returns them best first. Points close to obstacles or to an
// already kept point are dropped.
func (e *environment) rankSkeleton(sit Situation) []*Candidate {
	if e.topology == nil || sit.Grid == nil {
		return nil
	}
	skel := e.topology.FindSkeleton(sit.Grid)
	keys := append([]orb.Point(nil), skel.KeyPoints()...)
	sortPoints(keys)

	// junctions before endpoints so spacing keeps the better cell
	pending := make([]*Candidate, 0, len(keys))
	for _, p := range keys {
		c := NewCandidate(p)
		c.Utility = float64(skel.Degree(p))
		pending = append(pending, c)
	}
	byDegree := NewCandidateQueue(ByUtility, pending)

	frontier := sit.nextFrontier()
	var kept []*Candidate
	for {
		c, ok := byDegree.Pop()
		if !ok {
			break
		}
		if !sit.Grid.IsFree(c.Location) || e.nearObstacle(sit.Grid, c.Location) || tooClose(c.Location, kept, e.cfg.MinCandidateSpacing) {
			continue
		}
		deg := c.Utility
		c.DistanceToFrontier = planar.Distance(c.Location, frontier)
		c.Utility = deg * deg / math.Max(1, c.DistanceToFrontier)
		kept = append(kept, c)
	}

	q := NewCandidateQueue(ByUtility, kept)
	ranked := make([]*Candidate, 0, len(kept))
	for q.Len() > 0 {
		c, _ := q.Pop()
		ranked = append(ranked, c)
	}
	return ranked
}

func (e *environment) nearObstacle(grid Grid, p orb.Point) bool {
	r := e.cfg.MinObstacleDistance
	if r <= 0 {
		return false
	}
	n := math.Ceil(r)
	for dx := -n; dx <= n; dx++ {
		for dy := -n; dy <= n; dy++ {
			q := orb.Point{p[0] + dx, p[1] + dy}
			if planar.Distance(p, q) <= r && grid.IsObstacle(q) {
				return true
			}
		}
	}
	return false
}

func tooClose(p orb.Point, kept []*Candidate, spacing float64) bool {
	for _, k := range kept {
		if planar.Distance(p, k.Location) < spacing {
			return true
		}
	}
	return false
}

// degenerate is the always-available plan: meet where the explorer already is,
// the parent then heads back to where it was last seen
func (e *environment) degenerate(sit Situation, reason error) Selection {
	e.logger.Warn("rendezvous fallback to explorer location", "reason", reason, "location", sit.Self.Position)
	e.metrics.fallback(reason.Error())

	primary := NewRendezvous(sit.Self.Position)
	primary.ParentsRV = NewRendezvous(sit.Parent.Location)
	openEnded(primary.ParentsRV, sit.Now)
	e.timing.Schedule(primary, MeetingInput{
		Now:            sit.Now,
		Relay:          sit.Parent.Location,
		BaseAnchor:     sit.Base,
		ParentLocation: primary.ParentLocation,
		Explorer:       sit.Self.Position,
		NextFrontier:   sit.nextFrontier(),
		ChildLocation:  primary.ChildLocation,
	})
	backup := NewRendezvous(sit.Parent.Location)
	e.timing.ComputeBackup(primary, backup)
	return Selection{Primary: primary, Backup: backup, Fallback: true, Reason: reason}
}

// finish schedules primary with anchor as the relay's base anchor and derives
// the backup from alt, or from the parent location when there is no alternative.
// An alternative keeps its own upstream leg; otherwise the primary's is shared.
func (e *environment) finish(sit Situation, primary *Rendezvous, anchor orb.Point, alt *Rendezvous) (*Rendezvous, *Rendezvous) {
	e.timing.Schedule(primary, MeetingInput{
		Now:            sit.Now,
		Relay:          sit.Parent.Location,
		BaseAnchor:     anchor,
		ParentLocation: primary.ParentLocation,
		Explorer:       sit.Self.Position,
		NextFrontier:   sit.nextFrontier(),
		ChildLocation:  primary.ChildLocation,
	})
	backup := alt
	if backup == nil || backup.Equal(primary) {
		// the explorer walks up to the parent's side, or to where the parent was last seen
		backup = NewRendezvous(primary.ParentLocation)
		if backup.Equal(primary) {
			backup = NewRendezvous(sit.Parent.Location)
		}
	}
	openEnded(primary.ParentsRV, sit.Now)
	if backup.ParentsRV == nil {
		backup.ParentsRV = primary.ParentsRV.Copy()
	} else {
		openEnded(backup.ParentsRV, sit.Now)
	}
	e.timing.ComputeBackup(primary, backup)
	return primary, backup
}

// openEnded makes the upstream leg valid from now on without a deadline, the
// parent side schedules it properly when it next plans with its own parent
func openEnded(rv *Rendezvous, now int) {
	if rv == nil {
		return
	}
	rv.MeetingTime = now
	rv.WaitTime = Unreachable
}
