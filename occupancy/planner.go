package occupancy

import (
	orb "github.com/paulmach/orb"

	rendezvous "github.com/skovsen/D2D_Rendezvous"
)

// Weighted edge costs: cardinal = 10, diagonal = 14 (≈10√2)
const (
	costCardinal    = 10
	costDiagonal    = 14
	costUnreachable = 1<<30 - 1
)

// Order: N, NE, E, SE, S, SW, W, NW
var dirVectors = [8][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

var dirCosts = [8]int{
	costCardinal, costDiagonal, costCardinal, costDiagonal,
	costCardinal, costDiagonal, costCardinal, costDiagonal,
}

// Planner is an 8-connected Dijkstra planner over known free cells. Diagonal
// moves may not cut obstacle corners.
type Planner struct {
	Grid *Grid
	// Queries counts Plan calls
	Queries int
}

// NewPlanner creates a planner over g
func NewPlanner(g *Grid) *Planner {
	return &Planner{Grid: g}
}

// Plan finds the shortest path from a to b
func (p *Planner) Plan(a, b orb.Point) rendezvous.Path {
	p.Queries++
	g := p.Grid
	ax, ay := cellOf(a)
	bx, by := cellOf(b)
	src, okA := g.index(ax, ay)
	dst, okB := g.index(bx, by)
	if !okA || !okB || g.cells[src] != Free || g.cells[dst] != Free {
		return rendezvous.Path{}
	}
	if src == dst {
		return rendezvous.Path{Found: true, Points: []orb.Point{a}}
	}

	dist := make([]int, len(g.cells))
	prev := make([]int, len(g.cells))
	for i := range dist {
		dist[i] = costUnreachable
		prev[i] = -1
	}
	dist[src] = 0
	h := minHeap{{idx: src, dist: 0}}

	for len(h) > 0 {
		e := h.pop()
		if e.dist > dist[e.idx] {
			continue
		}
		if e.idx == dst {
			break
		}
		x, y := e.idx%g.Width, e.idx/g.Width
		for d, v := range dirVectors {
			nx, ny := x+v[0], y+v[1]
			n, ok := g.index(nx, ny)
			if !ok || g.cells[n] != Free {
				continue
			}
			if v[0] != 0 && v[1] != 0 && (g.At(x+v[0], y) != Free || g.At(x, y+v[1]) != Free) {
				continue
			}
			nd := e.dist + dirCosts[d]
			if nd < dist[n] {
				dist[n] = nd
				prev[n] = e.idx
				h.push(heapEntry{idx: n, dist: nd})
			}
		}
	}

	if dist[dst] >= costUnreachable {
		return rendezvous.Path{}
	}
	var cells []orb.Point
	for i := dst; i != -1; i = prev[i] {
		cells = append(cells, orb.Point{float64(i % g.Width), float64(i / g.Width)})
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return rendezvous.Path{Found: true, Length: float64(dist[dst]) / costCardinal, Points: cells}
}

// --- Min-heap for Dijkstra ---

type heapEntry struct {
	idx  int // Flat grid index (y*width + x)
	dist int // Weighted distance from source
}

type minHeap []heapEntry

func (h *minHeap) push(e heapEntry) {
	*h = append(*h, e)
	// Sift up
	i := len(*h) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if (*h)[parent].dist <= (*h)[i].dist {
			break
		}
		(*h)[parent], (*h)[i] = (*h)[i], (*h)[parent]
		i = parent
	}
}

func (h *minHeap) pop() heapEntry {
	old := *h
	n := len(old)
	e := old[0]
	old[0] = old[n-1]
	*h = old[:n-1]

	// Sift down
	i := 0
	for {
		left := 2*i + 1
		if left >= len(*h) {
			break
		}
		smallest := left
		if right := left + 1; right < len(*h) && (*h)[right].dist < (*h)[left].dist {
			smallest = right
		}
		if (*h)[i].dist <= (*h)[smallest].dist {
			break
		}
		(*h)[i], (*h)[smallest] = (*h)[smallest], (*h)[i]
		i = smallest
	}
	return e
}
