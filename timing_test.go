package rendezvous

import (
	"testing"

	orb "github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTiming(planner PathPlanner) *Timing {
	cfg := DefaultConfig()
	cfg.Speed = 10
	cfg.MinDwell = 75
	cfg.WaitTime = 15
	return NewTiming(planner, cfg)
}

func TestMeetingTimeTakesLaterArrival(t *testing.T) {
	assert.Equal(t, 120, MeetingTime(0, 120, 95))
	assert.Equal(t, 121, MeetingTime(0, 120.2, 95))
	assert.Equal(t, 50, MeetingTime(50, 10, 20))
}

func TestEstimateMeetingTimeScenario(t *testing.T) {
	relay, anchor, parentLoc := orb.Point{0, 0}, orb.Point{60, 0}, orb.Point{60, 60}
	explorer, frontier, childLoc := orb.Point{100, 100}, orb.Point{110, 100}, orb.Point{120, 100}
	planner := &tablePlanner{lengths: map[leg]float64{
		{relay, anchor}:      600,
		{anchor, parentLoc}:  600,
		{explorer, frontier}: 100,
		{frontier, childLoc}: 100,
	}}
	tm := testTiming(planner)

	got := tm.EstimateMeetingTime(MeetingInput{
		Now: 0, Relay: relay, BaseAnchor: anchor, ParentLocation: parentLoc,
		Explorer: explorer, NextFrontier: frontier, ChildLocation: childLoc,
	})
	// relay 1200/10 = 120, explorer 75 + 200/10 = 95
	assert.Equal(t, 120, got)
}

func TestEstimateMeetingTimeNeverBeforeNow(t *testing.T) {
	tm := testTiming(&tablePlanner{euclid: true})
	for _, now := range []int{0, 1, 37, 1000} {
		p := orb.Point{5, 5}
		got := tm.EstimateMeetingTime(MeetingInput{
			Now: now, Relay: p, BaseAnchor: p, ParentLocation: p,
			Explorer: p, NextFrontier: p, ChildLocation: p,
		})
		assert.GreaterOrEqual(t, got, now)
		assert.Equal(t, now+75, got)
	}
}

func TestEstimateMeetingTimeWithoutPathUsesStraightLine(t *testing.T) {
	tm := testTiming(&tablePlanner{})
	got := tm.EstimateMeetingTime(MeetingInput{
		Now: 10, Relay: orb.Point{0, 0}, BaseAnchor: orb.Point{0, 0}, ParentLocation: orb.Point{0, 300},
		Explorer: orb.Point{0, 300}, NextFrontier: orb.Point{0, 300}, ChildLocation: orb.Point{0, 300},
	})
	assert.Equal(t, 85, got)
}

func TestComputeBackupAfterPrimaryWindow(t *testing.T) {
	primary := &Rendezvous{ChildLocation: orb.Point{0, 0}, ParentLocation: orb.Point{10, 0}, MeetingTime: 120, WaitTime: 15}
	backup := &Rendezvous{ChildLocation: orb.Point{30, 0}, ParentLocation: orb.Point{10, 50}}
	tm := testTiming(&tablePlanner{euclid: true})

	tm.ComputeBackup(primary, backup)
	// slower leg is the parent's 50 cells, 5 ticks
	assert.Equal(t, 140, backup.MeetingTime)
	assert.Equal(t, 15, backup.WaitTime)
	assert.Greater(t, backup.MeetingTime, primary.MeetingTime+primary.WaitTime)
}

func TestComputeBackupSameLocationStillLater(t *testing.T) {
	primary := &Rendezvous{ChildLocation: orb.Point{0, 0}, ParentLocation: orb.Point{0, 0}, MeetingTime: 20, WaitTime: 15}
	backup := primary.Copy()
	testTiming(&tablePlanner{euclid: true}).ComputeBackup(primary, backup)
	assert.Greater(t, backup.MeetingTime, 35)
}

func TestComputeBackupUnreachable(t *testing.T) {
	primary := &Rendezvous{ChildLocation: orb.Point{0, 0}, ParentLocation: orb.Point{10, 0}, MeetingTime: 120, WaitTime: 15}
	backup := &Rendezvous{ChildLocation: orb.Point{30, 0}, ParentLocation: orb.Point{10, 50}}
	planner := &tablePlanner{lengths: map[leg]float64{{primary.ChildLocation, backup.ChildLocation}: 30}}

	testTiming(planner).ComputeBackup(primary, backup)
	require.False(t, backup.Reachable())
	assert.Equal(t, Unreachable, backup.MeetingTime)
	assert.Equal(t, Unreachable, backup.WaitTime)
}
