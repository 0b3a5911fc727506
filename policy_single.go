package rendezvous

// singlePointPolicy sends both parties to the best skeleton junction
type singlePointPolicy struct{}

func (singlePointPolicy) Kind() PolicyKind { return SinglePoint }

func (singlePointPolicy) selectRendezvous(env *environment, sit Situation) Selection {
	ranked := env.rankSkeleton(sit)
	if len(ranked) == 0 {
		return env.degenerate(sit, ErrNoFeasibleBaseLink)
	}

	primary := NewRendezvous(ranked[0].Location)
	primary.ParentsRV = NewRendezvous(sit.Base)

	var alt *Rendezvous
	if len(ranked) > 1 {
		alt = NewRendezvous(ranked[1].Location)
	}
	primary, backup := env.finish(sit, primary, sit.Base, alt)
	env.logger.Debug("single point rendezvous", "location", primary.ChildLocation, "score", ranked[0].Utility)
	return Selection{Primary: primary, Backup: backup}
}
