package rendezvous

import (
	"math"
	"sort"
)

// Handoff is the direction relay responsibility moved on a contact
type Handoff int

// The handoff outcomes, seen from the local agent
const (
	HandoffNone Handoff = iota
	// HandoffToRemote: the remote is closer to base and takes our new information
	HandoffToRemote
	// HandoffToLocal: we are closer to base and take the remote's new information
	HandoffToLocal
)

func (h Handoff) String() string {
	switch h {
	case HandoffToRemote:
		return "to_remote"
	case HandoffToLocal:
		return "to_local"
	}
	return "none"
}

// SyncReport describes what a contact changed in the local state
type SyncReport struct {
	Duplicate        bool
	Merge            MergeStats
	AdoptedChildRV   bool
	AdoptedParentRV  bool
	TeammatesUpdated int
	// Stale counts teammate records ignored as older than the freshness threshold
	Stale          int
	Handoff        Handoff
	BlacklistAdded int
}

// Synchronize applies a teammate's published snapshot to the local state. Only
// local state is written; remote is read and copied.
func (s *Strategy) Synchronize(sit Situation, remote *Snapshot) SyncReport {
	var rep SyncReport
	if remote == nil || remote.State == nil || remote.From == s.agent.ID {
		return rep
	}
	if last, ok := s.state.applied[remote.From]; ok && last == remote.ID {
		rep.Duplicate = true
		return rep
	}
	s.state.applied[remote.From] = remote.ID

	// map knowledge
	if s.merger != nil {
		rep.Merge = s.merger.Merge(remote)
	}

	s.propagate(remote, &rep)
	s.refreshTeammates(sit.Now, remote, &rep)
	rep.Handoff = s.handoff(sit, remote, rep.Merge)
	for p := range remote.State.UnreachableFrontiers {
		if !s.state.IsUnreachable(p) {
			s.state.MarkUnreachable(p)
			rep.BlacklistAdded++
		}
	}

	s.logger.Debug("contact synchronized",
		"with", string(remote.From), "handoff", rep.Handoff.String(),
		"new", rep.Merge.New, "stale", rep.Stale, "blacklist_added", rep.BlacklistAdded)
	return rep
}

// propagate moves rendezvous plans one hop towards the base: a child's plan
// with us becomes our child rendezvous and its upstream leg becomes ours. Plans
// never flow back down, the child computed its own parent rendezvous.
func (s *Strategy) propagate(remote *Snapshot, rep *SyncReport) {
	if remote.From != s.agent.Child && remote.Parent != s.agent.ID {
		return
	}
	rs := remote.State
	s.state.ChildRV = rs.ParentRV.Copy()
	s.state.ChildBackupRV = rs.ParentBackupRV.Copy()
	rep.AdoptedChildRV = true
	if up := rs.ParentRV.ParentsRV; up != nil && s.agent.Role != Base {
		s.state.ParentRV = up.Copy()
		if bk := rs.ParentBackupRV.ParentsRV; bk != nil {
			s.state.ParentBackupRV = bk.Copy()
		}
		rep.AdoptedParentRV = true
	}
	s.state.ExploreTarget = copyPoint(rs.ParentExploreTarget)
}

// refreshTeammates keeps, per teammate, whichever record is more recent
func (s *Strategy) refreshTeammates(now int, remote *Snapshot, rep *SyncReport) {
	ids := make([]AgentID, 0, len(remote.State.Teammates))
	for id := range remote.State.Teammates {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if id == s.agent.ID || id == remote.From {
			continue
		}
		tm := remote.State.Teammates[id]
		if now-tm.LastContact > s.cfg.StaleAfter {
			s.logger.Debug("ignoring teammate record", "teammate", string(id), "error", ErrStaleTeammateData, "age", now-tm.LastContact)
			rep.Stale++
			continue
		}
		if local, ok := s.state.Teammates[id]; ok && local.LastContact >= tm.LastContact {
			continue
		}
		s.state.Teammates[id] = tm
		rep.TeammatesUpdated++
	}

	direct := Teammate{ID: remote.From, Location: remote.Location, LastContact: now}
	if remote.Frontier != nil {
		direct.Frontier = *remote.Frontier
		direct.HasFrontier = true
	}
	s.state.Teammates[remote.From] = direct
	rep.TeammatesUpdated++
}

// handoff settles who carries information the base has not seen yet
func (s *Strategy) handoff(sit Situation, remote *Snapshot, merged MergeStats) Handoff {
	info := &s.state.Info
	info.KnownAtBase += merged.KnownAtBase
	info.Relayed += merged.Relayed

	if remote.Role == Base {
		info.KnownAtBase += info.New + info.Relayed
		info.New, info.Relayed = 0, 0
		s.logger.Info("delivered to base", "known_at_base", info.KnownAtBase)
		s.env.metrics.handoff()
		return HandoffToRemote
	}
	if s.agent.Role == Base {
		info.KnownAtBase += info.New + info.Relayed + merged.New
		info.New, info.Relayed = 0, 0
		if remote.State.Info.New+remote.State.Info.Relayed == 0 {
			return HandoffNone
		}
		s.logger.Info("received at base", "from", string(remote.From), "known_at_base", info.KnownAtBase)
		s.env.metrics.handoff()
		return HandoffToLocal
	}

	dir := DecideHandoff(s.TimeToBase(sit), remote.TimeToBase, info.New, remote.State.Info.New, s.cfg.HandoffThreshold)
	switch dir {
	case HandoffToRemote:
		info.Relayed += info.New + merged.New
		info.New = 0
	case HandoffToLocal:
		info.New += remote.State.Info.New
	default:
		info.Relayed += merged.New
	}
	if dir != HandoffNone {
		s.env.metrics.handoff()
		s.logger.Info("relay responsibility handed over", "with", string(remote.From), "direction", dir.String())
	}
	return dir
}

// DecideHandoff picks who takes responsibility for undelivered information.
// The side closer to base takes it, but only when the difference exceeds
// threshold or one side has nothing new, so near-equal sides do not flip.
func DecideHandoff(localTimeToBase, remoteTimeToBase float64, localNew, remoteNew int, threshold float64) Handoff {
	if localNew == 0 && remoteNew == 0 {
		return HandoffNone
	}
	diff := localTimeToBase - remoteTimeToBase
	if math.Abs(diff) <= threshold && localNew != 0 && remoteNew != 0 {
		return HandoffNone
	}
	switch {
	case diff > 0 && localNew > 0:
		return HandoffToRemote
	case diff < 0 && remoteNew > 0:
		return HandoffToLocal
	}
	return HandoffNone
}
