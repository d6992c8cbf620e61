package agrizone

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// computeZoneStats implements §4.8: for every surviving zone and every
// index, the mean and sample standard deviation over that zone's member
// pixels, restricted to finite values. Values are read straight from the raw
// bands, not from the standardized features. Inside Run the mask has already
// excluded every pixel with a non-finite value in any index, so there the
// finite-value filter drops nothing.
func computeZoneStats(zones []filteredZone, labels [][]int32, indices *IndexStack) {
	names := indices.Names()
	for zi := range zones {
		origLabel := zones[zi].origLabel
		for i, name := range names {
			band := indices.At(i).Values
			var vals []float64
			for r, row := range labels {
				for c, v := range row {
					if int(v) != origLabel {
						continue
					}
					x := band[r][c]
					if isFinite(x) {
						vals = append(vals, x)
					}
				}
			}
			if len(vals) == 0 {
				zones[zi].zone.IndexMean[name] = math.NaN()
				zones[zi].zone.IndexStdDev[name] = math.NaN()
				continue
			}
			mean, std := stat.MeanStdDev(vals, nil)
			zones[zi].zone.IndexMean[name] = mean
			zones[zi].zone.IndexStdDev[name] = std
		}
	}
}
