package occupancy

import (
	"testing"

	orb "github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeSignal(t *testing.T) {
	g := NewOpenGrid(60, 10)
	s := RangeSignal{ObstaclePenalty: 10}
	a, b := orb.Point{0, 5}, orb.Point{30, 5}

	assert.True(t, s.IsConnected(50, g, a, b))
	assert.Equal(t, 20.0, s.Strength(50, g, a, b))
	assert.Equal(t, 50.0, s.MaxRangeForCutoff(50))

	g.Set(10, 5, Obstacle)
	g.Set(11, 5, Obstacle)
	assert.True(t, s.IsConnected(50, g, a, b))
	assert.Zero(t, s.Strength(50, g, a, b))

	g.Set(12, 5, Obstacle)
	assert.False(t, s.IsConnected(50, g, a, b))
	require.Negative(t, s.Strength(50, g, a, b))

	assert.True(t, RangeSignal{}.IsConnected(50, g, a, b))
}
