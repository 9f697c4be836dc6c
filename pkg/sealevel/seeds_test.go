package sealevel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineSeeds(t *testing.T) {
	seeds := [][]byte{[]byte("vault"), []byte("owner")}

	combined := CombineSeeds(seeds, 254)
	require.Len(t, combined, 3)
	assert.Equal(t, []byte("vault"), combined[0])
	assert.Equal(t, []byte("owner"), combined[1])
	assert.Equal(t, []byte{254}, combined[2])
}

func TestCombineSeeds_Empty(t *testing.T) {
	combined := CombineSeeds(nil, 7)
	require.Len(t, combined, 1)
	assert.Equal(t, []byte{7}, combined[0])
}

func TestCombineSeeds_AtCapacity(t *testing.T) {
	seeds := make([][]byte, MaxSeeds-1)
	for i := range seeds {
		seeds[i] = []byte{byte(i)}
	}

	// One short of capacity leaves exactly one slot for the bump.
	combined := CombineSeeds(seeds, 255)
	require.Len(t, combined, MaxSeeds)
	assert.Equal(t, []byte{255}, combined[MaxSeeds-1])

	// At or beyond capacity is a caller defect, not an input error.
	assert.Panics(t, func() {
		CombineSeeds(append(seeds, []byte{99}), 255)
	})
	assert.Panics(t, func() {
		CombineSeeds(append(seeds, []byte{99}, []byte{100}), 255)
	})
}
