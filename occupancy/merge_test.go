package occupancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rendezvous "github.com/skovsen/D2D_Rendezvous"
)

func TestMergeClassifiesNewCells(t *testing.T) {
	local := NewGrid(5, 1)
	local.Set(0, 0, Free)
	remote, err := Parse("...#?")
	require.NoError(t, err)
	remote.SetKnowledge(1, 0, Relayed)

	m := &Merger{Local: local}
	stats := m.Merge(&rendezvous.Snapshot{Role: rendezvous.Explorer, Map: remote})
	assert.Equal(t, rendezvous.MergeStats{Relayed: 1, New: 1}, stats)
	assert.Equal(t, Free, local.At(2, 0))
	assert.Equal(t, Obstacle, local.At(3, 0))
	assert.Equal(t, Unknown, local.At(4, 0))
	assert.Equal(t, Relayed, local.KnowledgeAt(1, 0))

	// a second merge teaches nothing
	assert.Equal(t, rendezvous.MergeStats{}, m.Merge(&rendezvous.Snapshot{Role: rendezvous.Explorer, Map: remote}))
}

func TestMergeFromBasePromotes(t *testing.T) {
	local, err := Parse("...")
	require.NoError(t, err)
	base, err := Parse("..#")
	require.NoError(t, err)

	stats := (&Merger{Local: local}).Merge(&rendezvous.Snapshot{Role: rendezvous.Base, Map: base})
	assert.Equal(t, rendezvous.MergeStats{KnownAtBase: 2}, stats)
	assert.Equal(t, KnownAtBase, local.KnowledgeAt(0, 0))
	// local knowledge wins over the remote's occupancy
	assert.Equal(t, Free, local.At(2, 0))
}

func TestMergeIgnoresForeignMaps(t *testing.T) {
	m := &Merger{Local: NewOpenGrid(2, 2)}
	assert.Equal(t, rendezvous.MergeStats{}, m.Merge(&rendezvous.Snapshot{}))
}
