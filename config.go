package agrizone

import (
	"errors"

	"go.uber.org/multierr"
)

const (
	// DefaultSeed seeds every deterministic random choice in a run: k-means
	// initialization and per-zone farthest-point sampling.
	DefaultSeed = 42

	DefaultMinZoneSizeHa   = 0.5
	DefaultMaxZones        = 10
	DefaultPointsPerZone   = 5
	DefaultUsePCA          = false
	DefaultPCAVariance     = 0.95

	// kmeansMaxIterations and kmeansTolerance bound Lloyd's algorithm.
	kmeansMaxIterations = 300
	kmeansTolerance     = 1e-4

	// bufferMergeSegs is the segment count passed to the zero-distance
	// Buffer repair pass in polygonize.
	bufferMergeSegs = 24
)

// Config carries every tunable the spec's external interface names.
// Loading it from a file or environment is a collaborator's job; this type
// only documents and validates the shape the core expects.
type Config struct {
	Seed           int64
	MinZoneSizeHa  float64
	MaxZones       int
	ForceK         *int
	PointsPerZone  int
	UsePCA         bool
	PCAVariance    float64
}

// DefaultConfig returns the spec's documented defaults.
func DefaultConfig() Config {
	return Config{
		Seed:          DefaultSeed,
		MinZoneSizeHa: DefaultMinZoneSizeHa,
		MaxZones:      DefaultMaxZones,
		PointsPerZone: DefaultPointsPerZone,
		UsePCA:        DefaultUsePCA,
		PCAVariance:   DefaultPCAVariance,
	}
}

// Validate checks the config-level invariants the spec states explicitly
// (§6 field ranges), independent of any particular input raster. It
// supplements, rather than replaces, the per-stage failures Run returns:
// a collaborator MAY call this before Run to fail fast on a bad config,
// but Run re-derives the same checks internally (e.g. ForceK bounds depend
// on N, which is only known after masking).
//
// Every violated field is collected rather than stopping at the first, so a
// collaborator presenting this to a user (a config file, a form) can report
// every bad field in one pass instead of one fix-and-retry cycle per field.
// The combined list is still surfaced as a single tagged *Error, so callers
// dispatch on Kind exactly as they would for any other failure from Run.
func (c Config) Validate() error {
	var violations error
	if c.MaxZones < 2 {
		violations = multierr.Append(violations, errors.New("max_zones must be >= 2"))
	}
	if c.MinZoneSizeHa < 0 {
		violations = multierr.Append(violations, errors.New("min_zone_size_ha must be >= 0"))
	}
	if c.PointsPerZone < 1 {
		violations = multierr.Append(violations, errors.New("points_per_zone must be >= 1"))
	}
	if c.PCAVariance <= 0 || c.PCAVariance > 1 {
		violations = multierr.Append(violations, errors.New("pca_variance must be in (0,1]"))
	}
	if c.ForceK != nil && *c.ForceK < 2 {
		violations = multierr.Append(violations, errors.New("force_k must be >= 2"))
	}
	if violations == nil {
		return nil
	}
	return wrapError(ErrKindInvalidInput, violations, "invalid config")
}
