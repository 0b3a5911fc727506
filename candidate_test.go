package rendezvous

import (
	"math"
	"testing"

	orb "github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestLinkQueueNonIncreasingUtility(t *testing.T) {
	utilities := []float64{0.3, 0.9, 0.1, 0.9, 0.5, 0, 0.75, 0.2, 0.6}
	var links []Link
	for i, u := range utilities {
		links = append(links, Link{Local: orb.Point{0, 0}, Remote: orb.Point{float64(i), 0}, Utility: u})
	}
	q := NewLinkQueue(links[:4])
	for _, l := range links[4:] {
		q.Push(l)
	}

	assert.Equal(t, len(utilities), q.Len())
	prev := math.Inf(1)
	for q.Len() > 0 {
		l, ok := q.Pop()
		assert.True(t, ok)
		assert.LessOrEqual(t, l.Utility, prev)
		prev = l.Utility
	}
	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestCandidateQueueOrders(t *testing.T) {
	mk := func(utility, frontier float64) *Candidate {
		c := NewCandidate(orb.Point{utility, frontier})
		c.Utility = utility
		c.DistanceToFrontier = frontier
		return c
	}
	cands := []*Candidate{mk(1, 30), mk(5, 10), mk(3, 20)}

	byUtility := NewCandidateQueue(ByUtility, cands)
	first, _ := byUtility.Pop()
	assert.Equal(t, 5.0, first.Utility)

	byFrontier := NewCandidateQueue(ByFrontierDistance, cands)
	var got []float64
	for byFrontier.Len() > 0 {
		c, _ := byFrontier.Pop()
		got = append(got, c.DistanceToFrontier)
	}
	assert.Equal(t, []float64{10, 20, 30}, got)
}

func TestLinkReverse(t *testing.T) {
	l := Link{Local: orb.Point{1, 1}, Remote: orb.Point{2, 2}, Obstacles: 3, Utility: 0.5}
	r := l.Reverse()
	assert.Equal(t, orb.Point{2, 2}, r.Local)
	assert.Equal(t, orb.Point{1, 1}, r.Remote)
	assert.Equal(t, 3, r.Obstacles)
	assert.Equal(t, l, r.Reverse())
	assert.False(t, l.LineOfSight())
}
