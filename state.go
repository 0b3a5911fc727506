package rendezvous

import (
	"sort"

	"github.com/google/uuid"
	orb "github.com/paulmach/orb"
)

// Info counts explored free cells by how far their knowledge has travelled
// towards the base
type Info struct {
	KnownAtBase int
	Relayed     int
	New         int
}

// State is the rendezvous state owned by one agent
type State struct {
	ParentRV       *Rendezvous
	ParentBackupRV *Rendezvous
	ChildRV        *Rendezvous
	ChildBackupRV  *Rendezvous

	// Cooldown is the number of ticks before the policy may recompute
	Cooldown             int
	TicksSinceRoleSwitch int

	Teammates            map[AgentID]Teammate
	UnreachableFrontiers map[orb.Point]struct{}
	Info                 Info

	// ParentExploreTarget is the frontier this agent suggested its parent
	// explores while waiting, ExploreTarget the one its child suggested to it
	ParentExploreTarget *orb.Point
	ExploreTarget       *orb.Point

	applied map[AgentID]uuid.UUID
}

// NewState seeds every rendezvous with the agent's own location
func NewState(self orb.Point) *State {
	return &State{
		ParentRV:             NewRendezvous(self),
		ParentBackupRV:       NewRendezvous(self),
		ChildRV:              NewRendezvous(self),
		ChildBackupRV:        NewRendezvous(self),
		Teammates:            make(map[AgentID]Teammate),
		UnreachableFrontiers: make(map[orb.Point]struct{}),
		applied:              make(map[AgentID]uuid.UUID),
	}
}

// Copy returns a deep copy of the state
func (s *State) Copy() *State {
	if s == nil {
		return nil
	}
	c := &State{
		ParentRV:             s.ParentRV.Copy(),
		ParentBackupRV:       s.ParentBackupRV.Copy(),
		ChildRV:              s.ChildRV.Copy(),
		ChildBackupRV:        s.ChildBackupRV.Copy(),
		Cooldown:             s.Cooldown,
		TicksSinceRoleSwitch: s.TicksSinceRoleSwitch,
		Teammates:            make(map[AgentID]Teammate, len(s.Teammates)),
		UnreachableFrontiers: make(map[orb.Point]struct{}, len(s.UnreachableFrontiers)),
		Info:                 s.Info,
		applied:              make(map[AgentID]uuid.UUID, len(s.applied)),
	}
	c.ExploreTarget = copyPoint(s.ExploreTarget)
	c.ParentExploreTarget = copyPoint(s.ParentExploreTarget)
	for id, tm := range s.Teammates {
		c.Teammates[id] = tm
	}
	for p := range s.UnreachableFrontiers {
		c.UnreachableFrontiers[p] = struct{}{}
	}
	for id, u := range s.applied {
		c.applied[id] = u
	}
	return c
}

// MarkUnreachable blacklists a frontier
func (s *State) MarkUnreachable(frontier orb.Point) {
	s.UnreachableFrontiers[frontier] = struct{}{}
}

// IsUnreachable reports whether a frontier is blacklisted
func (s *State) IsUnreachable(frontier orb.Point) bool {
	_, ok := s.UnreachableFrontiers[frontier]
	return ok
}

// Unreachable lists blacklisted frontiers sorted by x, then y
func (s *State) Unreachable() []orb.Point {
	out := make([]orb.Point, 0, len(s.UnreachableFrontiers))
	for p := range s.UnreachableFrontiers {
		out = append(out, p)
	}
	sortPoints(out)
	return out
}

func sortPoints(ps []orb.Point) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i][0] != ps[j][0] {
			return ps[i][0] < ps[j][0]
		}
		return ps[i][1] < ps[j][1]
	})
}

func copyPoint(p *orb.Point) *orb.Point {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
