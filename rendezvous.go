package rendezvous

import (
	"fmt"
	"math"

	orb "github.com/paulmach/orb"
)

// Unreachable marks a meeting or wait time that can never be honoured
const Unreachable = math.MaxInt32

// Rendezvous is where and when two linked agents meet. The child goes to
// ChildLocation, the parent to ParentLocation. ParentsRV is the meeting the
// parent will use with its own parent, so a plan can move towards the base one
// hop at a time.
type Rendezvous struct {
	ChildLocation  orb.Point
	ParentLocation orb.Point
	MeetingTime    int
	WaitTime       int
	ParentsRV      *Rendezvous
}

// NewRendezvous creates a single point rendezvous at p
func NewRendezvous(p orb.Point) *Rendezvous {
	return &Rendezvous{ChildLocation: p, ParentLocation: p}
}

// Copy returns a deep copy, including the chained parent rendezvous
func (r *Rendezvous) Copy() *Rendezvous {
	if r == nil {
		return nil
	}
	c := *r
	c.ParentsRV = r.ParentsRV.Copy()
	return &c
}

// Equal compares the two locations only
func (r *Rendezvous) Equal(o *Rendezvous) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.ChildLocation == o.ChildLocation && r.ParentLocation == o.ParentLocation
}

// Reachable reports whether the meeting time is usable
func (r *Rendezvous) Reachable() bool {
	return r != nil && r.MeetingTime != Unreachable
}

// Deadline is the tick after which the meeting is abandoned
func (r *Rendezvous) Deadline() int {
	if !r.Reachable() || r.WaitTime == Unreachable {
		return Unreachable
	}
	return r.MeetingTime + r.WaitTime
}

// Depth is the length of the chain towards the base
func (r *Rendezvous) Depth() int {
	d := 0
	for cur := r; cur != nil; cur = cur.ParentsRV {
		d++
	}
	return d
}

func (r *Rendezvous) String() string {
	if r == nil {
		return "rv(nil)"
	}
	return fmt.Sprintf("rv child=%v parent=%v at=%d wait=%d", r.ChildLocation, r.ParentLocation, r.MeetingTime, r.WaitTime)
}
