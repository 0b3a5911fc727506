package rendezvous

import (
	"log/slog"
	"math"

	orb "github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// MeetingInput holds the positions that decide when two agents can meet
type MeetingInput struct {
	Now int

	// Relay leg: relay -> base anchor -> parent location
	Relay          orb.Point
	BaseAnchor     orb.Point
	ParentLocation orb.Point

	// Explorer leg: explorer -> next frontier -> child location
	Explorer      orb.Point
	NextFrontier  orb.Point
	ChildLocation orb.Point
}

// Timing converts geometric rendezvous into absolute meeting and wait times
type Timing struct {
	planner  PathPlanner
	speed    float64
	minDwell int
	waitTime int
	metrics  *metrics
	logger   *slog.Logger
}

// NewTiming creates a timing planner from the config
func NewTiming(planner PathPlanner, cfg Config) *Timing {
	return &Timing{
		planner:  planner,
		speed:    cfg.Speed,
		minDwell: cfg.MinDwell,
		waitTime: cfg.WaitTime,
		logger:   slog.Default(),
	}
}

// Travel is the planned distance between a and b. When no path is found the
// straight-line distance is used and ok is false.
func (t *Timing) Travel(a, b orb.Point) (dist float64, ok bool) {
	if a == b {
		return 0, true
	}
	t.metrics.pathQuery()
	p := t.planner.Plan(a, b)
	if !p.Found {
		return planar.Distance(a, b), false
	}
	return p.Length, true
}

// EstimateMeetingTime is the earliest tick both sides can be at their meeting
// locations, with the explorer granted its minimum dwell at the next frontier
func (t *Timing) EstimateMeetingTime(in MeetingInput) int {
	relayDist := t.travelOrLine(in.Relay, in.BaseAnchor) + t.travelOrLine(in.BaseAnchor, in.ParentLocation)
	explorerDist := t.travelOrLine(in.Explorer, in.NextFrontier) + t.travelOrLine(in.NextFrontier, in.ChildLocation)

	relayETA := float64(in.Now) + relayDist/t.speed
	explorerETA := float64(in.Now+t.minDwell) + explorerDist/t.speed
	return MeetingTime(in.Now, relayETA, explorerETA)
}

// MeetingTime rounds the later of the two arrival estimates up, never before now
func MeetingTime(now int, relayETA, explorerETA float64) int {
	m := math.Ceil(math.Max(relayETA, explorerETA))
	if m < float64(now) || math.IsNaN(m) {
		return now
	}
	if m >= Unreachable {
		return Unreachable
	}
	return int(m)
}

// Schedule sets the meeting and wait times on rv
func (t *Timing) Schedule(rv *Rendezvous, in MeetingInput) {
	rv.MeetingTime = t.EstimateMeetingTime(in)
	rv.WaitTime = t.waitTime
}

// ComputeBackup schedules backup after the primary window has closed, allowing
// the slower of the two parties to travel from its primary to its backup
// location. If either leg has no path the backup is marked Unreachable.
func (t *Timing) ComputeBackup(primary, backup *Rendezvous) {
	if !primary.Reachable() {
		markUnreachable(backup)
		return
	}
	childLeg, okChild := t.Travel(primary.ChildLocation, backup.ChildLocation)
	parentLeg, okParent := t.Travel(primary.ParentLocation, backup.ParentLocation)
	if !okChild || !okParent {
		t.logger.Warn("backup rendezvous unreachable",
			"primary", primary.String(), "backup_child", backup.ChildLocation, "backup_parent", backup.ParentLocation)
		t.metrics.fallback("backup_unreachable")
		markUnreachable(backup)
		return
	}
	leg := math.Max(childLeg, parentLeg) / t.speed
	// at least one tick after the primary window closes
	backup.MeetingTime = primary.MeetingTime + primary.WaitTime + int(math.Max(1, math.Ceil(leg)))
	backup.WaitTime = t.waitTime
}

func (t *Timing) travelOrLine(a, b orb.Point) float64 {
	d, ok := t.Travel(a, b)
	if !ok {
		t.logger.Debug("no path, using straight line", "from", a, "to", b)
	}
	return d
}

func markUnreachable(rv *Rendezvous) {
	rv.MeetingTime = Unreachable
	rv.WaitTime = Unreachable
}
