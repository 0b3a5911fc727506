package rendezvous

import (
	orb "github.com/paulmach/orb"
)

// dualPointPolicy sends the explorer to its skeleton point and the parent to the
// linked candidate that is cheapest to reach from the base side
type dualPointPolicy struct{}

func (dualPointPolicy) Kind() PolicyKind { return DualPoint }

func (dualPointPolicy) selectRendezvous(env *environment, sit Situation) Selection {
	sel, _ := selectDual(env, sit)
	return sel
}

// dualPlan is the intermediate result the frontier-aware policy builds on
type dualPlan struct {
	explorer *Candidate
	best     Link
	anchor   orb.Point
	// anchors maps every resolved link remote to its base anchor
	anchors map[orb.Point]orb.Point
}

func selectDual(env *environment, sit Situation) (Selection, *dualPlan) {
	explorerPoint := sit.Self.Position
	if ranked := env.rankSkeleton(sit); len(ranked) > 0 {
		explorerPoint = ranked[0].Location
	}

	env.resolver.Clear()
	cands := env.sampler.Sample(sit.Grid, env.cfg.SampleDensity, sit.Base)
	graph := BuildCommGraph(cands, sit.Base, sit.Grid, env.signal, env.cfg.CommRange)
	explorer := graph.Add(explorerPoint, sit.Grid, env.signal, env.cfg.CommRange)

	// score each link by how cheaply its remote end reaches the base
	anchors := make(map[orb.Point]orb.Point, len(explorer.Links))
	q := NewLinkQueue(nil)
	for i := range explorer.Links {
		l := &explorer.Links[i]
		dist, anchor, ok := resolveRemote(env, l.Remote, sit.Base, graph.ToBase)
		if !ok {
			continue
		}
		l.Utility = 1 / (1 + dist)
		anchors[l.Remote] = anchor
		if remote, found := graph.Candidate(l.Remote); found {
			remote.Utility = l.Utility
		}
		q.Push(*l)
	}

	best, ok := q.Pop()
	if !ok {
		sel := env.degenerate(sit, ErrNoFeasibleBaseLink)
		sel.Graph = graph
		return sel, nil
	}
	explorer.ClosestToBase = &best
	explorer.Utility = best.Utility

	primary := &Rendezvous{
		ChildLocation:  explorerPoint,
		ParentLocation: best.Remote,
		ParentsRV:      &Rendezvous{ChildLocation: anchors[best.Remote], ParentLocation: sit.Base},
	}
	var alt *Rendezvous
	if second, ok := q.Pop(); ok {
		alt = &Rendezvous{
			ChildLocation:  explorerPoint,
			ParentLocation: second.Remote,
			ParentsRV:      &Rendezvous{ChildLocation: anchors[second.Remote], ParentLocation: sit.Base},
		}
	}
	primary, backup := env.finish(sit, primary, anchors[best.Remote], alt)

	env.logger.Debug("dual point rendezvous",
		"child", primary.ChildLocation, "parent", primary.ParentLocation,
		"anchor", anchors[best.Remote], "candidates", len(graph.Candidates), "base_links", len(graph.ToBase))

	return Selection{Primary: primary, Backup: backup, Graph: graph},
		&dualPlan{explorer: explorer, best: best, anchor: anchors[best.Remote], anchors: anchors}
}

// resolveRemote resolves base reachability, treating the base itself as
// trivially reachable
func resolveRemote(env *environment, p, base orb.Point, toBase []Link) (float64, orb.Point, bool) {
	if p == base {
		return 0, base, true
	}
	return env.resolver.Resolve(p, toBase)
}
