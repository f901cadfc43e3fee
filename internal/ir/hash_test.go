package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeHashDeterminism(t *testing.T) {
	h1, err := TreeHash(sampleTree())
	require.NoError(t, err)
	h2, err := TreeHash(sampleTree())
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "TreeHash must be deterministic")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestTreeHashChangesWithContent(t *testing.T) {
	base := MustTreeHash(sampleTree())

	renamed := sampleTree()
	renamed.Find("view", "chart").Name = "plot"

	revalued := sampleTree()
	revalued.Find("selection").Value = "row:18"

	reweighted := sampleTree()
	reweighted.Find("filters", "age").Importance = 3

	assert.NotEqual(t, base, MustTreeHash(renamed))
	assert.NotEqual(t, base, MustTreeHash(revalued))
	assert.NotEqual(t, base, MustTreeHash(reweighted))
}

func TestTreeHashNil(t *testing.T) {
	assert.NotEmpty(t, MustTreeHash(nil))
	assert.NotEqual(t, MustTreeHash(nil), MustTreeHash(Group("r")))
}

func TestRegistryHash(t *testing.T) {
	h1, err := RegistryHash(DefaultRegistry())
	require.NoError(t, err)

	other := MustRegistry(Category{ID: "a", Weight: 100})
	h2, err := RegistryHash(other)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}
