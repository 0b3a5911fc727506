package occupancy

import (
	orb "github.com/paulmach/orb"

	rendezvous "github.com/skovsen/D2D_Rendezvous"
)

// Thinning finds skeletons with the Zhang-Suen algorithm over known free space
type Thinning struct{}

// FindSkeleton thins the free space of grid, which must be a *Grid
func (Thinning) FindSkeleton(grid rendezvous.Grid) rendezvous.Skeleton {
	g, ok := grid.(*Grid)
	if !ok {
		return &Skeleton{}
	}
	return Skeletonize(g)
}

// Skeleton is a one cell wide medial axis of the free space
type Skeleton struct {
	Width, Height int
	on            []bool
}

// Skeletonize computes the skeleton of g's free cells
func Skeletonize(g *Grid) *Skeleton {
	s := &Skeleton{Width: g.Width, Height: g.Height, on: make([]bool, len(g.cells))}
	for i, c := range g.cells {
		s.on[i] = c == Free
	}

	var remove []int
	for changed := true; changed; {
		changed = false
		for pass := 0; pass < 2; pass++ {
			remove = remove[:0]
			for y := 0; y < s.Height; y++ {
				for x := 0; x < s.Width; x++ {
					if s.at(x, y) && s.deletable(x, y, pass) {
						remove = append(remove, y*s.Width+x)
					}
				}
			}
			for _, i := range remove {
				s.on[i] = false
			}
			if len(remove) > 0 {
				changed = true
			}
		}
	}
	return s
}

// neighbours in P2..P9 order: N, NE, E, SE, S, SW, W, NW
func (s *Skeleton) ring(x, y int) [8]bool {
	var r [8]bool
	for i, v := range dirVectors {
		r[i] = s.at(x+v[0], y+v[1])
	}
	return r
}

func (s *Skeleton) deletable(x, y, pass int) bool {
	r := s.ring(x, y)
	b := 0
	for _, on := range r {
		if on {
			b++
		}
	}
	if b < 2 || b > 6 {
		return false
	}
	a := 0
	for i := 0; i < 8; i++ {
		if !r[i] && r[(i+1)%8] {
			a++
		}
	}
	if a != 1 {
		return false
	}
	n, e, south, w := r[0], r[2], r[4], r[6]
	if pass == 0 {
		return !(n && e && south) && !(e && south && w)
	}
	return !(n && e && w) && !(n && south && w)
}

func (s *Skeleton) at(x, y int) bool {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return false
	}
	return s.on[y*s.Width+x]
}

// Contains reports whether p is on the skeleton
func (s *Skeleton) Contains(p orb.Point) bool {
	return s.at(cellOf(p))
}

// Degree is the number of skeleton neighbours of p, 0 when p is off the skeleton
func (s *Skeleton) Degree(p orb.Point) int {
	x, y := cellOf(p)
	if !s.at(x, y) {
		return 0
	}
	n := 0
	for _, on := range s.ring(x, y) {
		if on {
			n++
		}
	}
	return n
}

// KeyPoints are the skeleton endpoints (degree 1) and junctions (degree 3 or more)
func (s *Skeleton) KeyPoints() []orb.Point {
	var out []orb.Point
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			p := orb.Point{float64(x), float64(y)}
			if d := s.Degree(p); d == 1 || d >= 3 {
				out = append(out, p)
			}
		}
	}
	return out
}

// Len is the number of skeleton cells
func (s *Skeleton) Len() int {
	n := 0
	for _, on := range s.on {
		if on {
			n++
		}
	}
	return n
}
