package agrizone

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wgdzlh/agrizone/log"
)

// stage names the pipeline's progress for logging and for the cancellation
// checks between them.
type stage int

const (
	stageInit stage = iota
	stageMasked
	stageFeaturized
	stageClustered
	stagePolygonized
	stageFiltered
	stageSampled
	stageDone
)

func (s stage) String() string {
	switch s {
	case stageInit:
		return "init"
	case stageMasked:
		return "masked"
	case stageFeaturized:
		return "featurized"
	case stageClustered:
		return "clustered"
	case stagePolygonized:
		return "polygonized"
	case stageFiltered:
		return "filtered"
	case stageSampled:
		return "sampled"
	case stageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Run executes the full zoning pipeline: masking, feature preparation,
// cluster count selection, clustering, polygonizing, size filtering,
// sampling, and statistics, returning the assembled ZoningResult.
//
// Run performs no I/O; field, georef, crs, and indices must already be in
// memory. It is safe to cancel via ctx: cancellation is observed at every
// stage boundary and inside the internal errgroup fan-outs, and always
// surfaces as an error with Kind ErrKindCancelled.
func Run(ctx context.Context, indices *IndexStack, field FieldPolygon, georef RasterGeoref, crs string, cfg Config) (ZoningResult, error) {
	if err := cfg.Validate(); err != nil {
		return ZoningResult{}, err
	}
	if indices.Len() == 0 {
		return ZoningResult{}, newError(ErrKindInvalidInput, "index stack must contain at least one band")
	}

	runID := uuid.NewString()
	log.Info("run: starting", zap.String("run_id", runID), zap.Int64("seed", cfg.Seed))

	engine := newGeomEngine()
	defer engine.close()

	st := stageInit
	advance := func(next stage) error {
		st = next
		log.Info("run: stage complete", zap.String("run_id", runID), zap.String("stage", st.String()))
		return checkCancelled(ctx)
	}

	if err := checkCancelled(ctx); err != nil {
		return ZoningResult{}, err
	}

	h, w := indices.Shape()
	mask, nValid, err := buildMask(field, georef, crs, indices, engine)
	if err != nil {
		return ZoningResult{}, err
	}
	if err := advance(stageMasked); err != nil {
		return ZoningResult{}, err
	}

	coords := scanOrder(mask)
	if len(coords) != nValid {
		return ZoningResult{}, newError(ErrKindNoValidPixels, "internal inconsistency between mask and scan order")
	}

	feat, err := prepareFeatures(indices, coords, cfg)
	if err != nil {
		return ZoningResult{}, err
	}
	if err := advance(stageFeaturized); err != nil {
		return ZoningResult{}, err
	}

	k, result, quality, err := selectK(ctx, feat.Matrix, cfg.Seed, cfg)
	if err != nil {
		return ZoningResult{}, err
	}
	clustered := runClusterer(h, w, coords, k, result, quality)
	if err := advance(stageClustered); err != nil {
		return ZoningResult{}, err
	}

	rawZones, err := polygonize(clustered.Labels, georef)
	if err != nil {
		return ZoningResult{}, err
	}
	if err := advance(stagePolygonized); err != nil {
		return ZoningResult{}, err
	}

	filtered, err := filterZones(rawZones, indices.Names(), cfg.MinZoneSizeHa)
	if err != nil {
		return ZoningResult{}, err
	}
	if err := advance(stageFiltered); err != nil {
		return ZoningResult{}, err
	}

	samples, err := sampleZones(ctx, filtered, clustered.Labels, georef, indices, cfg.Seed, cfg.PointsPerZone)
	if err != nil {
		return ZoningResult{}, err
	}
	if err := advance(stageSampled); err != nil {
		return ZoningResult{}, err
	}

	computeZoneStats(filtered, clustered.Labels, indices)
	st = stageDone

	zones := make([]Zone, len(filtered))
	for i, fz := range filtered {
		zones[i] = fz.zone
	}

	log.Info("run: complete", zap.String("run_id", runID), zap.Int("zones", len(zones)), zap.Int("samples", len(samples)))

	return ZoningResult{Zones: zones, Samples: samples, Metrics: clustered.Metrics}, nil
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return newError(ErrKindCancelled, "run cancelled")
	default:
		return nil
	}
}
