package sealevel

import "fmt"

const (
	// MaxSeeds is the maximum number of seed fragments, including the bump,
	// in a derived-address seed list.
	MaxSeeds = 16

	// MaxSeedLength is the maximum byte length of a single seed fragment.
	MaxSeedLength = 32
)

// SignerSeeds is an ordered seed fragment list standing in for a derived
// address's signature when passed to a host-mediated operation. It is an
// authority token, never an address.
type SignerSeeds [][]byte

// CombineSeeds copies seeds into fixed-capacity storage and appends the bump
// as a final single-byte fragment.
//
// Seed counts are statically known by the calling instruction's author, so a
// count at or above MaxSeeds is a defect in the caller's code, not bad input:
// it panics rather than returning an error.
func CombineSeeds(seeds [][]byte, bump byte) SignerSeeds {
	if len(seeds) >= MaxSeeds {
		panic(fmt.Sprintf("seed count %d leaves no room for the bump (max %d fragments)", len(seeds), MaxSeeds))
	}

	combined := make(SignerSeeds, len(seeds)+1, MaxSeeds)
	copy(combined, seeds)
	combined[len(seeds)] = []byte{bump}

	return combined
}
