package occupancy

import (
	rendezvous "github.com/skovsen/D2D_Rendezvous"
)

// Merger merges teammates' grids into Local
type Merger struct {
	Local *Grid
}

// Merge copies every cell the remote knows and Local does not, classifying the
// newly learnt free cells by how far the remote says they have travelled. A
// base publishes everything as known at base, and cells the local side already
// had are promoted when the remote knows them better.
func (m *Merger) Merge(remote *rendezvous.Snapshot) rendezvous.MergeStats {
	var stats rendezvous.MergeStats
	other, ok := remote.Map.(*Grid)
	if !ok || other == nil || m.Local == nil {
		return stats
	}
	fromBase := remote.Role == rendezvous.Base

	w := min(m.Local.Width, other.Width)
	h := min(m.Local.Height, other.Height)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rc := other.At(x, y)
			if rc == Unknown {
				continue
			}
			lc := m.Local.At(x, y)
			if lc == Unknown {
				m.Local.Set(x, y, rc)
			}
			if rc != Free || m.Local.At(x, y) != Free {
				continue
			}
			rk := other.KnowledgeAt(x, y)
			if fromBase {
				rk = KnownAtBase
			}
			lk := m.Local.KnowledgeAt(x, y)
			if lc != Unknown && rk <= lk {
				continue
			}
			switch rk {
			case KnownAtBase:
				stats.KnownAtBase++
			case Relayed:
				stats.Relayed++
			default:
				rk = New
				stats.New++
			}
			m.Local.SetKnowledge(x, y, rk)
		}
	}
	return stats
}
