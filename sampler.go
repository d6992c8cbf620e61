package agrizone

import (
	"context"
	"math"
	"math/rand"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wgdzlh/agrizone/log"
)

// samplePixel is one sampled pixel awaiting its world coordinates and index
// values before becoming a SamplePoint.
type samplePixel struct {
	coord pixelCoord
	order int // selection order within its zone, for stable global ordering
}

// sampleZones implements §4.7: for every filtered zone, pick a spatially
// dispersed subset of its member pixels via farthest-point sampling, each
// zone processed concurrently with an RNG stream seeded purely from
// (seed, zone_id) so the result never depends on goroutine scheduling.
func sampleZones(ctx context.Context, zones []filteredZone, labels [][]int32, georef RasterGeoref, indices *IndexStack, seed int64, pointsPerZone int) ([]SamplePoint, error) {
	perZone := make([][]samplePixel, len(zones))

	g, gctx := errgroup.WithContext(ctx)
	for zi, fz := range zones {
		zi, fz := zi, fz
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return newError(ErrKindCancelled, "sampling cancelled")
			}
			members := zoneMembers(labels, fz.origLabel)
			perZone[zi] = farthestPointSample(members, georef, hashSeed(seed, fz.zone.ZoneID), pointsPerZone)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := indices.Names()
	var out []SamplePoint
	for zi, fz := range zones {
		for _, sp := range perZone[zi] {
			x, y := georef.Apply(float64(sp.coord.C)+0.5, float64(sp.coord.R)+0.5)
			pt := buildPoint(x, y)
			wkb, err := toWKB(pt)
			if err != nil {
				return nil, err
			}
			values := make(map[string]float64, len(names))
			for i, name := range names {
				values[name] = indices.At(i).Values[sp.coord.R][sp.coord.C]
			}
			out = append(out, SamplePoint{Geometry: wkb, ZoneID: fz.zone.ZoneID, Values: values})
		}
	}

	log.Info("sampler: emitted sample points", zap.Int("count", len(out)))

	if len(out) == 0 {
		return nil, newError(ErrKindNoSamples, "no sample points were produced for any zone")
	}
	return out, nil
}

// zoneMembers returns every pixel labeled origLabel, in scan order.
func zoneMembers(labels [][]int32, origLabel int) []pixelCoord {
	var coords []pixelCoord
	for r, row := range labels {
		for c, v := range row {
			if int(v) == origLabel {
				coords = append(coords, pixelCoord{R: r, C: c})
			}
		}
	}
	return coords
}

// farthestPointSample selects n_target = max(pointsPerZone, floor(sqrt(|P|)))
// pixels from members. If that target is at least |P|, every member is
// returned. Otherwise the first point is drawn uniformly at random and every
// subsequent point is the member maximizing its distance to the nearest
// already-selected point, with per-member minimum distances updated
// incrementally rather than recomputed from scratch each round. Ties are
// broken by lower scan index for determinism.
func farthestPointSample(members []pixelCoord, georef RasterGeoref, seed int64, pointsPerZone int) []samplePixel {
	nTarget := int(math.Floor(math.Sqrt(float64(len(members)))))
	if pointsPerZone > nTarget {
		nTarget = pointsPerZone
	}
	if nTarget >= len(members) {
		out := make([]samplePixel, len(members))
		for i, p := range members {
			out[i] = samplePixel{coord: p, order: i}
		}
		return out
	}

	rng := rand.New(rand.NewSource(seed))
	world := make([][2]float64, len(members))
	for i, p := range members {
		x, y := georef.Apply(float64(p.C)+0.5, float64(p.R)+0.5)
		world[i] = [2]float64{x, y}
	}

	selected := make([]bool, len(members))
	minDist := make([]float64, len(members))
	for i := range minDist {
		minDist[i] = math.Inf(1)
	}

	first := rng.Intn(len(members))
	out := make([]samplePixel, 0, nTarget)
	out = append(out, samplePixel{coord: members[first], order: 0})
	selected[first] = true
	updateMinDist(world, minDist, first, selected)

	for len(out) < nTarget {
		best := -1
		bestDist := -1.0
		for i, d := range minDist {
			if selected[i] {
				continue
			}
			if d > bestDist {
				bestDist = d
				best = i
			}
		}
		selected[best] = true
		out = append(out, samplePixel{coord: members[best], order: len(out)})
		updateMinDist(world, minDist, best, selected)
	}
	return out
}

// updateMinDist folds a newly selected point into every unselected member's
// running minimum distance to the selected set.
func updateMinDist(world [][2]float64, minDist []float64, newIdx int, selected []bool) {
	nx, ny := world[newIdx][0], world[newIdx][1]
	for i := range world {
		if selected[i] {
			continue
		}
		dx, dy := world[i][0]-nx, world[i][1]-ny
		d := math.Hypot(dx, dy)
		if d < minDist[i] {
			minDist[i] = d
		}
	}
}
