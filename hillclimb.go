package rendezvous

import (
	orb "github.com/paulmach/orb"
)

// hillClimb probes the square neighbourhood around from for the free cell with
// the strongest predicted signal toward target. It returns from unless a
// strictly better cell exists.
func (s *Strategy) hillClimb(grid Grid, from, target orb.Point) orb.Point {
	signal := s.env.signal
	best := signal.Strength(s.cfg.CommRange, grid, from, target)
	bestAt := from
	r := float64(s.cfg.HillClimbRadius)
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			p := orb.Point{from[0] + dx, from[1] + dy}
			if !grid.IsFree(p) {
				continue
			}
			if v := signal.Strength(s.cfg.CommRange, grid, p, target); v > best {
				best = v
				bestAt = p
			}
		}
	}
	if bestAt != from {
		s.logger.Debug("hill climbing toward better signal", "from", from, "to", bestAt, "strength", best)
	}
	return bestAt
}
