package rendezvous

import (
	"math"

	orb "github.com/paulmach/orb"
)

// frontierAwarePolicy extends the dual point plan with a frontier the parent can
// explore while it waits, as long as it still makes the meeting.
//
// Only explorer -> relay -> base hierarchies are supported: the relay's budget
// is measured against the explorer's meeting time alone. Deeper hierarchies fall
// back to the dual point plan.
type frontierAwarePolicy struct{}

func (frontierAwarePolicy) Kind() PolicyKind { return FrontierAware }

func (frontierAwarePolicy) selectRendezvous(env *environment, sit Situation) Selection {
	sel, plan := selectDual(env, sit)
	if plan == nil || sel.Fallback {
		return sel
	}
	if sit.HierarchyDepth > 2 {
		env.logger.Debug("frontier aware rendezvous needs depth 2, using dual point", "depth", sit.HierarchyDepth)
		return sel
	}

	deadline := sel.Primary.MeetingTime
	budget := float64(deadline - sit.Now)
	if budget <= 0 {
		return sel
	}

	// only remotes with a resolved base anchor can host the parent
	endpoints := make([]orb.Point, 0, len(plan.anchors))
	for _, l := range plan.explorer.Links {
		if _, ok := plan.anchors[l.Remote]; ok {
			endpoints = append(endpoints, l.Remote)
		}
	}

	bestSlack := float64(env.cfg.MinSlack)
	var bestFrontier, bestMeet orb.Point
	found := false
	for _, f := range sit.OpenFrontiers {
		if f.Claimed {
			continue
		}
		toFrontier, ok := env.timing.Travel(sit.Parent.Location, f.Centre)
		if !ok {
			continue
		}
		if toFrontier/env.cfg.Speed >= budget-bestSlack {
			continue
		}
		for _, l := range closest(f.Centre, endpoints, env.cfg.NLOSCandidates) {
			toMeet, ok := env.timing.Travel(f.Centre, l)
			if !ok {
				continue
			}
			slack := budget - (toFrontier+toMeet)/env.cfg.Speed
			if slack > bestSlack {
				bestSlack = slack
				bestFrontier = f.Centre
				bestMeet = l
				found = true
			}
		}
	}
	if !found {
		return sel
	}

	primary := sel.Primary
	primary.ParentLocation = bestMeet
	primary.ParentsRV = &Rendezvous{ChildLocation: plan.anchors[bestMeet], ParentLocation: sit.Base}
	openEnded(primary.ParentsRV, sit.Now)
	if sel.Backup.Equal(primary) {
		sel.Backup = fallbackBackup(sit, primary, plan)
	}
	env.timing.ComputeBackup(primary, sel.Backup)

	env.logger.Debug("relay explores while waiting",
		"frontier", bestFrontier, "parent", bestMeet, "slack", math.Floor(bestSlack))
	sel.ExploreFrontier = &bestFrontier
	return sel
}

// fallbackBackup is the backup used when the frontier detour moved the parent
// onto the backup's location: the original cheapest link, or the parent's last
// known location when that is the detour target itself
func fallbackBackup(sit Situation, primary *Rendezvous, plan *dualPlan) *Rendezvous {
	backup := NewRendezvous(sit.Parent.Location)
	if plan.best.Remote != primary.ParentLocation {
		backup = &Rendezvous{
			ChildLocation:  primary.ChildLocation,
			ParentLocation: plan.best.Remote,
			ParentsRV:      &Rendezvous{ChildLocation: plan.anchor, ParentLocation: sit.Base},
		}
	}
	if backup.ParentsRV == nil {
		backup.ParentsRV = primary.ParentsRV.Copy()
	}
	openEnded(backup.ParentsRV, sit.Now)
	return backup
}
