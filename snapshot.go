package rendezvous

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	orb "github.com/paulmach/orb"
)

// Snapshot is the state an agent publishes to a teammate on contact. State is
// a deep copy; Map is shared with the publisher and must be treated as read-only.
type Snapshot struct {
	ID         uuid.UUID
	From       AgentID
	Role       Role
	Parent     AgentID
	Child      AgentID
	Time       int
	Location   orb.Point
	Frontier   *orb.Point
	TimeToBase float64
	State      *State
	// Map is the publisher's live grid, not a copy. A harness that mutates grids
	// after publishing has to hand over its own copy.
	Map Grid
}

// Publish builds the snapshot this agent hands to a teammate in range
func (s *Strategy) Publish(sit Situation) *Snapshot {
	snap := &Snapshot{
		ID:         uuid.New(),
		From:       s.agent.ID,
		Role:       s.agent.Role,
		Parent:     s.agent.Parent,
		Child:      s.agent.Child,
		Time:       sit.Now,
		Location:   s.agent.Position,
		TimeToBase: s.TimeToBase(sit),
		State:      s.state.Copy(),
		Map:        sit.Grid,
	}
	if sit.Frontier != nil {
		f := sit.Frontier.Centre
		snap.Frontier = &f
	}
	return snap
}

type snapshotJSON struct {
	ID         uuid.UUID      `json:"id"`
	From       AgentID        `json:"from"`
	Role       string         `json:"role"`
	Parent     AgentID        `json:"parent,omitempty"`
	Child      AgentID        `json:"child,omitempty"`
	Time       int            `json:"time"`
	Location   orb.Point      `json:"location"`
	Frontier   *orb.Point     `json:"frontier,omitempty"`
	TimeToBase float64        `json:"timeToBase"`
	ParentRV   *Rendezvous    `json:"parentRV,omitempty"`
	ParentBkRV *Rendezvous    `json:"parentBackupRV,omitempty"`
	ChildRV    *Rendezvous    `json:"childRV,omitempty"`
	ChildBkRV  *Rendezvous    `json:"childBackupRV,omitempty"`
	Teammates  []Teammate     `json:"teammates,omitempty"`
	Blacklist  []orb.Point    `json:"unreachableFrontiers,omitempty"`
	Info       Info           `json:"info"`
	Explore    *exploreTarget `json:"explore,omitempty"`
}

type exploreTarget struct {
	Self   *orb.Point `json:"self,omitempty"`
	Parent *orb.Point `json:"parent,omitempty"`
}

// MarshalJSON writes the snapshot for debugging dumps. The map is not included.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	out := snapshotJSON{
		ID:         s.ID,
		From:       s.From,
		Role:       s.Role.String(),
		Parent:     s.Parent,
		Child:      s.Child,
		Time:       s.Time,
		Location:   s.Location,
		Frontier:   s.Frontier,
		TimeToBase: s.TimeToBase,
	}
	if st := s.State; st != nil {
		out.ParentRV, out.ParentBkRV = st.ParentRV, st.ParentBackupRV
		out.ChildRV, out.ChildBkRV = st.ChildRV, st.ChildBackupRV
		out.Info = st.Info
		out.Blacklist = st.Unreachable()
		for _, tm := range st.Teammates {
			out.Teammates = append(out.Teammates, tm)
		}
		sortTeammates(out.Teammates)
		if st.ExploreTarget != nil || st.ParentExploreTarget != nil {
			out.Explore = &exploreTarget{Self: st.ExploreTarget, Parent: st.ParentExploreTarget}
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a snapshot written by MarshalJSON
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var in snapshotJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("unmarshal snapshot: %w", err)
	}
	role, err := parseRole(in.Role)
	if err != nil {
		return err
	}

	st := NewState(in.Location)
	st.ParentRV = orSeed(in.ParentRV, in.Location)
	st.ParentBackupRV = orSeed(in.ParentBkRV, in.Location)
	st.ChildRV = orSeed(in.ChildRV, in.Location)
	st.ChildBackupRV = orSeed(in.ChildBkRV, in.Location)
	st.Info = in.Info
	for _, tm := range in.Teammates {
		st.Teammates[tm.ID] = tm
	}
	for _, p := range in.Blacklist {
		st.MarkUnreachable(p)
	}
	if in.Explore != nil {
		st.ExploreTarget = in.Explore.Self
		st.ParentExploreTarget = in.Explore.Parent
	}

	*s = Snapshot{
		ID:         in.ID,
		From:       in.From,
		Role:       role,
		Parent:     in.Parent,
		Child:      in.Child,
		Time:       in.Time,
		Location:   in.Location,
		Frontier:   in.Frontier,
		TimeToBase: in.TimeToBase,
		State:      st,
	}
	return nil
}

func orSeed(rv *Rendezvous, p orb.Point) *Rendezvous {
	if rv == nil {
		return NewRendezvous(p)
	}
	return rv
}

func parseRole(s string) (Role, error) {
	for _, r := range []Role{Explorer, Relay, Base} {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func sortTeammates(ts []Teammate) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].ID < ts[j].ID })
}
