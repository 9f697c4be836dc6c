package system

const (
	// defaultLamportsPerByteYear matches the runtime's rent schedule
	// (1_000_000_000 / 100 * 365 / (1024 * 1024)).
	defaultLamportsPerByteYear = 3480

	// defaultExemptionThreshold is the number of years of rent an account
	// must hold up front to be exempt from collection.
	defaultExemptionThreshold = 2.0

	// accountStorageOverhead is the per-account metadata size the rent
	// schedule charges for on top of the data length.
	accountStorageOverhead = 128
)

// Rent is the host's rent schedule.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  float64
}

func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: defaultLamportsPerByteYear,
		ExemptionThreshold:  defaultExemptionThreshold,
	}
}

// MinimumBalance returns the smallest balance an account with space data
// bytes may hold without being reclaimed by rent collection.
func (r Rent) MinimumBalance(space uint64) uint64 {
	return uint64(float64((accountStorageOverhead+space)*r.LamportsPerByteYear) * r.ExemptionThreshold)
}
