package rendezvous

import (
	"testing"

	orb "github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain() *Rendezvous {
	return &Rendezvous{
		ChildLocation:  orb.Point{1, 2},
		ParentLocation: orb.Point{3, 4},
		MeetingTime:    100,
		WaitTime:       15,
		ParentsRV: &Rendezvous{
			ChildLocation:  orb.Point{5, 6},
			ParentLocation: orb.Point{7, 8},
			ParentsRV:      NewRendezvous(orb.Point{9, 9}),
		},
	}
}

func TestRendezvousCopyIsDeep(t *testing.T) {
	r := chain()
	c := r.Copy()
	require.True(t, c.Equal(r))
	require.Equal(t, 3, c.Depth())

	c.ChildLocation[0] = 42
	c.ParentsRV.ParentLocation[1] = 42
	c.ParentsRV.ParentsRV.ChildLocation = orb.Point{0, 0}
	c.ParentsRV.MeetingTime = 7

	assert.Equal(t, orb.Point{1, 2}, r.ChildLocation)
	assert.Equal(t, orb.Point{7, 8}, r.ParentsRV.ParentLocation)
	assert.Equal(t, orb.Point{9, 9}, r.ParentsRV.ParentsRV.ChildLocation)
	assert.Equal(t, 0, r.ParentsRV.MeetingTime)
	assert.NotSame(t, r.ParentsRV, c.ParentsRV)

	// a copy of a copy is still independent
	cc := c.Copy()
	cc.ParentsRV.ParentsRV = nil
	assert.NotNil(t, c.ParentsRV.ParentsRV)
}

func TestRendezvousCopyNil(t *testing.T) {
	var r *Rendezvous
	assert.Nil(t, r.Copy())
}

func TestRendezvousEqualIgnoresTimes(t *testing.T) {
	a := chain()
	b := &Rendezvous{ChildLocation: a.ChildLocation, ParentLocation: a.ParentLocation, MeetingTime: 1}
	assert.True(t, a.Equal(b))

	b.ParentLocation = orb.Point{0, 0}
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
}

func TestRendezvousDeadline(t *testing.T) {
	r := &Rendezvous{MeetingTime: 100, WaitTime: 15}
	assert.Equal(t, 115, r.Deadline())
	assert.True(t, r.Reachable())

	markUnreachable(r)
	assert.False(t, r.Reachable())
	assert.Equal(t, Unreachable, r.Deadline())

	open := &Rendezvous{MeetingTime: 3}
	openEnded(open, 3)
	assert.True(t, open.Reachable())
	assert.Equal(t, Unreachable, open.Deadline())
}

func TestStateCopyIsDeep(t *testing.T) {
	s := NewState(orb.Point{1, 1})
	s.ParentRV = chain()
	s.MarkUnreachable(orb.Point{4, 4})
	s.Teammates["relay"] = Teammate{ID: "relay", LastContact: 5}
	target := orb.Point{8, 8}
	s.ExploreTarget = &target

	c := s.Copy()
	c.ParentRV.ParentsRV.ChildLocation = orb.Point{0, 0}
	c.MarkUnreachable(orb.Point{5, 5})
	c.Teammates["relay"] = Teammate{ID: "relay", LastContact: 9}
	c.ExploreTarget[0] = 0

	assert.Equal(t, orb.Point{5, 6}, s.ParentRV.ParentsRV.ChildLocation)
	assert.False(t, s.IsUnreachable(orb.Point{5, 5}))
	assert.Equal(t, 5, s.Teammates["relay"].LastContact)
	assert.Equal(t, orb.Point{8, 8}, *s.ExploreTarget)
}

func TestNewStateSeedsOwnLocation(t *testing.T) {
	p := orb.Point{3, 7}
	s := NewState(p)
	for _, rv := range []*Rendezvous{s.ParentRV, s.ParentBackupRV, s.ChildRV, s.ChildBackupRV} {
		assert.Equal(t, p, rv.ChildLocation)
		assert.Equal(t, p, rv.ParentLocation)
	}
}
