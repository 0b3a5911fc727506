package rendezvous

import (
	"container/heap"
	"fmt"
	"math"

	orb "github.com/paulmach/orb"
)

// Candidate is a sampled location considered as a rendezvous point.
// Candidates are rebuilt every planning cycle. Distance to base and the base
// anchor are kept in the Resolver, not here.
type Candidate struct {
	Location           orb.Point
	DistanceToFrontier float64
	Links              []Link
	ClosestToBase      *Link
	Utility            float64
}

// NewCandidate creates a candidate with no links and an unknown frontier distance
func NewCandidate(p orb.Point) *Candidate {
	return &Candidate{Location: p, DistanceToFrontier: math.Inf(1)}
}

// LinkTo returns the outgoing link towards p
func (c *Candidate) LinkTo(p orb.Point) (Link, bool) {
	for _, l := range c.Links {
		if l.Remote == p {
			return l, true
		}
	}
	return Link{}, false
}

func (c *Candidate) String() string {
	return fmt.Sprintf("candidate %v links=%d utility=%.2f", c.Location, len(c.Links), c.Utility)
}

// Link is a communication link between two candidate locations
type Link struct {
	Local     orb.Point
	Remote    orb.Point
	Obstacles int
	Utility   float64
}

// Reverse models the link from the remote side
func (l Link) Reverse() Link {
	return Link{Local: l.Remote, Remote: l.Local, Obstacles: l.Obstacles, Utility: l.Utility}
}

// LineOfSight reports whether nothing obstructs the link
func (l Link) LineOfSight() bool {
	return l.Obstacles == 0
}

// LinkQueue pops links in descending utility
type LinkQueue struct {
	h linkHeap
}

// NewLinkQueue builds a queue holding links
func NewLinkQueue(links []Link) *LinkQueue {
	q := &LinkQueue{h: append(linkHeap(nil), links...)}
	heap.Init(&q.h)
	return q
}

// Push adds a link
func (q *LinkQueue) Push(l Link) { heap.Push(&q.h, l) }

// Pop removes the link with the highest utility
func (q *LinkQueue) Pop() (Link, bool) {
	if q.h.Len() == 0 {
		return Link{}, false
	}
	return heap.Pop(&q.h).(Link), true
}

// Len is the number of queued links
func (q *LinkQueue) Len() int { return q.h.Len() }

type linkHeap []Link

func (h linkHeap) Len() int           { return len(h) }
func (h linkHeap) Less(i, j int) bool { return h[i].Utility > h[j].Utility }
func (h linkHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *linkHeap) Push(x any)        { *h = append(*h, x.(Link)) }
func (h *linkHeap) Pop() any {
	old := *h
	n := len(old)
	l := old[n-1]
	*h = old[:n-1]
	return l
}

// CandidateOrder picks the key a CandidateQueue sorts on
type CandidateOrder int

const (
	// ByUtility pops the highest utility first
	ByUtility CandidateOrder = iota
	// ByFrontierDistance pops the candidate nearest the frontier first
	ByFrontierDistance
)

// CandidateQueue is a priority queue of candidates with a caller-chosen order
type CandidateQueue struct {
	h candidateHeap
}

// NewCandidateQueue builds a queue of candidates in the given order
func NewCandidateQueue(order CandidateOrder, cands []*Candidate) *CandidateQueue {
	q := &CandidateQueue{h: candidateHeap{order: order, items: append([]*Candidate(nil), cands...)}}
	heap.Init(&q.h)
	return q
}

// Push adds a candidate
func (q *CandidateQueue) Push(c *Candidate) { heap.Push(&q.h, c) }

// Pop removes the first candidate in queue order
func (q *CandidateQueue) Pop() (*Candidate, bool) {
	if q.h.Len() == 0 {
		return nil, false
	}
	return heap.Pop(&q.h).(*Candidate), true
}

// Len is the number of queued candidates
func (q *CandidateQueue) Len() int { return q.h.Len() }

type candidateHeap struct {
	order CandidateOrder
	items []*Candidate
}

func (h candidateHeap) Len() int { return len(h.items) }
func (h candidateHeap) Less(i, j int) bool {
	if h.order == ByFrontierDistance {
		return h.items[i].DistanceToFrontier < h.items[j].DistanceToFrontier
	}
	return h.items[i].Utility > h.items[j].Utility
}
func (h candidateHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *candidateHeap) Push(x any)   { h.items = append(h.items, x.(*Candidate)) }
func (h *candidateHeap) Pop() any {
	n := len(h.items)
	c := h.items[n-1]
	h.items = h.items[:n-1]
	return c
}
