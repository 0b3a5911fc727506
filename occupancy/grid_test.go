package occupancy

import (
	"testing"

	orb "github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	g, err := Parse(
		"..#",
		"?.#",
	)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Width)
	assert.Equal(t, 2, g.Height)
	assert.Equal(t, Free, g.At(0, 0))
	assert.Equal(t, Obstacle, g.At(2, 1))
	assert.Equal(t, Unknown, g.At(0, 1))
	assert.Equal(t, Unknown, g.At(-1, 0))
	assert.Equal(t, 3, g.FreeCellCount())
	assert.Equal(t, New, g.KnowledgeAt(1, 1))
	assert.Equal(t, NotKnown, g.KnowledgeAt(2, 1))

	_, err = Parse("..", "...")
	assert.Error(t, err)
	_, err = Parse(".x")
	assert.Error(t, err)
	_, err = Parse()
	assert.Error(t, err)
}

func TestGridPointQueries(t *testing.T) {
	g := NewOpenGrid(10, 10)
	g.Set(4, 4, Obstacle)

	assert.True(t, g.IsFree(orb.Point{3.9, 4.5}))
	assert.True(t, g.IsObstacle(orb.Point{4.2, 4.7}))
	assert.False(t, g.IsFree(orb.Point{10, 0}))
	assert.Equal(t, orb.Bound{Max: orb.Point{10, 10}}, g.Bound())
}

func TestLineOfSight(t *testing.T) {
	g, err := Parse(
		"..........",
		"....#.....",
		"....#.....",
		"..........",
	)
	require.NoError(t, err)

	assert.True(t, g.HasLineOfSight(orb.Point{0, 0}, orb.Point{9, 0}))
	assert.False(t, g.HasLineOfSight(orb.Point{0, 1}, orb.Point{9, 2}))
	assert.Equal(t, 0, g.ObstacleCountOnLine(orb.Point{0, 3}, orb.Point{9, 3}))
	assert.Equal(t, 2, g.ObstacleCountOnLine(orb.Point{4, 0}, orb.Point{4, 3}))
	// symmetric for a straight vertical
	assert.Equal(t, 2, g.ObstacleCountOnLine(orb.Point{4, 3}, orb.Point{4, 0}))
}

func TestKnowledge(t *testing.T) {
	g := NewGrid(3, 1)
	g.SetKnowledge(0, 0, Relayed)
	assert.Equal(t, NotKnown, g.KnowledgeAt(0, 0))

	g.Set(0, 0, Free)
	g.SetKnowledge(0, 0, Relayed)
	assert.Equal(t, Relayed, g.KnowledgeAt(0, 0))

	g.Set(0, 0, Free)
	assert.Equal(t, Relayed, g.KnowledgeAt(0, 0))
	g.Set(0, 0, Obstacle)
	assert.Equal(t, NotKnown, g.KnowledgeAt(0, 0))
}
