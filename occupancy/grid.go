// Package occupancy provides small reference implementations of the grid,
// signal, path planning, skeleton and map merge collaborators used by the
// rendezvous planner. They are meant for tests and demos, not for robots.
package occupancy

import (
	"fmt"
	"math"

	orb "github.com/paulmach/orb"
)

// Cell is the occupancy of a grid cell
type Cell uint8

// The cell states
const (
	Unknown Cell = iota
	Free
	Obstacle
)

// Knowledge is how far a free cell's discovery has travelled towards the base
type Knowledge uint8

// The knowledge levels
const (
	NotKnown Knowledge = iota
	New
	Relayed
	KnownAtBase
)

// Grid is a bitmap occupancy grid with cell (x, y) at index y*Width+x
type Grid struct {
	Width, Height int
	cells         []Cell
	knowledge     []Knowledge
}

// NewGrid creates an all-unknown grid
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:     width,
		Height:    height,
		cells:     make([]Cell, width*height),
		knowledge: make([]Knowledge, width*height),
	}
}

// NewOpenGrid creates a grid that is entirely free
func NewOpenGrid(width, height int) *Grid {
	g := NewGrid(width, height)
	g.FillRect(0, 0, width, height, Free)
	return g
}

// Parse builds a grid from rows of '.' (free), '#' (obstacle) and '?' (unknown)
func Parse(rows ...string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty grid")
	}
	g := NewGrid(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != g.Width {
			return nil, fmt.Errorf("row %d has width %d, want %d", y, len(row), g.Width)
		}
		for x, ch := range row {
			switch ch {
			case '.':
				g.Set(x, y, Free)
			case '#':
				g.Set(x, y, Obstacle)
			case '?':
			default:
				return nil, fmt.Errorf("row %d col %d: unknown cell %q", y, x, ch)
			}
		}
	}
	return g, nil
}

func (g *Grid) index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return 0, false
	}
	return y*g.Width + x, true
}

func cellOf(p orb.Point) (int, int) {
	return int(math.Floor(p[0])), int(math.Floor(p[1]))
}

// Set changes a cell. Newly free cells are marked New.
func (g *Grid) Set(x, y int, c Cell) {
	i, ok := g.index(x, y)
	if !ok {
		return
	}
	g.cells[i] = c
	if c == Free && g.knowledge[i] == NotKnown {
		g.knowledge[i] = New
	}
	if c != Free {
		g.knowledge[i] = NotKnown
	}
}

// FillRect sets every cell of the rectangle [x, x+w) × [y, y+h)
func (g *Grid) FillRect(x, y, w, h int, c Cell) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			g.Set(xx, yy, c)
		}
	}
}

// At returns the cell at (x, y); outside the map is Unknown
func (g *Grid) At(x, y int) Cell {
	i, ok := g.index(x, y)
	if !ok {
		return Unknown
	}
	return g.cells[i]
}

// KnowledgeAt returns the knowledge level of the cell at (x, y)
func (g *Grid) KnowledgeAt(x, y int) Knowledge {
	i, ok := g.index(x, y)
	if !ok {
		return NotKnown
	}
	return g.knowledge[i]
}

// SetKnowledge changes the knowledge level of a free cell
func (g *Grid) SetKnowledge(x, y int, k Knowledge) {
	if i, ok := g.index(x, y); ok && g.cells[i] == Free {
		g.knowledge[i] = k
	}
}

// IsFree reports whether p lies in a known free cell
func (g *Grid) IsFree(p orb.Point) bool {
	return g.At(cellOf(p)) == Free
}

// IsObstacle reports whether p lies in a known obstacle
func (g *Grid) IsObstacle(p orb.Point) bool {
	return g.At(cellOf(p)) == Obstacle
}

// FreeCellCount is the number of known free cells
func (g *Grid) FreeCellCount() int {
	n := 0
	for _, c := range g.cells {
		if c == Free {
			n++
		}
	}
	return n
}

// Bound is the map extent in cell coordinates
func (g *Grid) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{float64(g.Width), float64(g.Height)}}
}

// ObstacleCountOnLine counts the obstacle cells crossed by the segment ab
func (g *Grid) ObstacleCountOnLine(a, b orb.Point) int {
	n := 0
	line(a, b, func(x, y int) bool {
		if g.At(x, y) == Obstacle {
			n++
		}
		return true
	})
	return n
}

// HasLineOfSight reports whether the segment ab crosses no obstacle
func (g *Grid) HasLineOfSight(a, b orb.Point) bool {
	visible := true
	line(a, b, func(x, y int) bool {
		if g.At(x, y) == Obstacle {
			visible = false
			return false
		}
		return true
	})
	return visible
}

// line walks the cells of segment ab with Bresenham's algorithm until visit
// returns false
func line(a, b orb.Point, visit func(x, y int) bool) {
	x0, y0 := cellOf(a)
	x1, y1 := cellOf(b)
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		if !visit(x0, y0) {
			return
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
