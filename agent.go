package rendezvous

import (
	"fmt"

	orb "github.com/paulmach/orb"
)

// AgentID identifies a robot in the team
type AgentID string

// An Agent is a thing that explores, relays or anchors the team
type Agent struct {
	ID       AgentID
	Nick     string
	Role     Role
	Position orb.Point
	Parent   AgentID
	Child    AgentID
}

// Role is the place an agent holds in the hierarchy
type Role int

// The roles available
const (
	Explorer Role = iota
	Relay
	Base
)

func (r Role) String() string {
	switch r {
	case Explorer:
		return "explorer"
	case Relay:
		return "relay"
	case Base:
		return "base"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Teammate is what an agent believes about another agent.
// LastContact is the tick at which the information was first-hand.
type Teammate struct {
	ID          AgentID
	Location    orb.Point
	Frontier    orb.Point
	HasFrontier bool
	LastContact int
}

// Frontier is a boundary between known free and unknown space
type Frontier struct {
	Centre  orb.Point
	Area    int
	Claimed bool
}

func (a Agent) String() string {
	return fmt.Sprintf("%s(%s) at %v", a.ID, a.Role, a.Position)
}
