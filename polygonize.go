package agrizone

import (
	"math"
	"sort"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"

	"github.com/wgdzlh/agrizone/log"
)

// rawZone is a polygonized cluster before area filtering and zone_id
// reassignment.
type rawZone struct {
	label    int
	geometry gdal.Geometry
}

// polygonize implements §4.5: every pixel becomes an axis-aligned rectangle
// in georeferenced space, rectangles in the same scan row with the same
// label are merged into one row-run rectangle first (cutting the Union
// fan-in by roughly a factor of the average run length), and the row-runs
// for each label are unioned into the label's final geometry.
func polygonize(labels [][]int32, georef RasterGeoref) ([]rawZone, error) {
	// A vertex pair closer than this is almost certainly an artifact of the
	// pixel grid rather than a meaningful shape feature.
	simplifyTolerance := math.Sqrt(georef.PixelArea()) * 0.1

	runsByLabel := make(map[int32][]gdal.Geometry)
	h := len(labels)
	for r := 0; r < h; r++ {
		row := labels[r]
		w := len(row)
		c := 0
		for c < w {
			lbl := row[c]
			if lbl < 0 {
				c++
				continue
			}
			start := c
			for c < w && row[c] == lbl {
				c++
			}
			x0, y0 := georef.Apply(float64(start), float64(r))
			x1, y1 := georef.Apply(float64(c), float64(r+1))
			runsByLabel[lbl] = append(runsByLabel[lbl], buildRect(x0, y0, x1, y1))
		}
	}

	labelsSorted := make([]int32, 0, len(runsByLabel))
	for lbl := range runsByLabel {
		labelsSorted = append(labelsSorted, lbl)
	}
	sort.Slice(labelsSorted, func(i, j int) bool { return labelsSorted[i] < labelsSorted[j] })

	zones := make([]rawZone, 0, len(labelsSorted))
	for _, lbl := range labelsSorted {
		merged := unionAll(runsByLabel[lbl])
		// A long chain of rectangle unions can leave sliver self-intersections
		// along shared edges; a zero-distance buffer is the standard OGR
		// idiom to repair those without changing the area.
		repaired := merged.Buffer(0, bufferMergeSegs)
		merged.Destroy()
		if err := removeHoles(repaired); err != nil {
			repaired.Destroy()
			return nil, wrapError(ErrKindNoZones, err, "failed to remove interior rings from a dissolved zone")
		}
		simplified := simplifyGeo(repaired, simplifyTolerance)
		zones = append(zones, rawZone{label: int(lbl), geometry: simplified})
	}

	log.Info("polygonize: dissolved cluster geometries", zap.Int("zones", len(zones)))

	if len(zones) == 0 {
		return nil, newError(ErrKindNoZones, "no labeled clusters survived to polygonize")
	}
	return zones, nil
}
