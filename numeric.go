package agrizone

import "math"

// isFinite reports whether v is neither NaN nor +/-Inf. Go has no builtin
// equivalent of numpy's np.isfinite.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// hashSeed mixes a base seed with an integer key (a candidate k or a
// zone_id) into an independent-looking int64 stream seed, using an FNV-1a
// style avalanche so goroutines evaluating different keys never share or
// contend on RNG state while still being a pure, reproducible function of
// (seed, key) as the spec requires ("Derive per-zone sampling RNG as a
// deterministic function of (seed, zone_id)").
func hashSeed(seed int64, key int) int64 {
	const (
		offset uint64 = 14695981039346656037
		prime  uint64 = 1099511628211
	)
	h := offset
	for _, b := range []byte{
		byte(seed), byte(seed >> 8), byte(seed >> 16), byte(seed >> 24),
		byte(seed >> 32), byte(seed >> 40), byte(seed >> 48), byte(seed >> 56),
		byte(key), byte(key >> 8), byte(key >> 16), byte(key >> 24),
	} {
		h ^= uint64(b)
		h *= prime
	}
	// Clear the sign bit so the result is always a valid, non-negative
	// math/rand seed regardless of platform int size assumptions.
	return int64(h &^ (1 << 63))
}
