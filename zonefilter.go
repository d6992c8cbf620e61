package agrizone

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/wgdzlh/agrizone/log"
)

// filteredZone pairs a Zone (its index stats are filled in later by
// computeZoneStats) with the origin label needed to look up its member
// pixels later.
type filteredZone struct {
	zone      Zone
	origLabel int
}

// filterZones implements §4.6: convert area, compute perimeter and
// compactness, drop zones under minZoneSizeHa, then renumber the survivors
// 0..M-1 in ascending order of their original cluster label.
func filterZones(raw []rawZone, indexOrder []string, minZoneSizeHa float64) ([]filteredZone, error) {
	survivors := make([]filteredZone, 0, len(raw))
	for _, rz := range raw {
		areaM2 := areaOf(rz.geometry)
		areaHa := areaM2 / 10000.0
		if areaHa < minZoneSizeHa {
			rz.geometry.Destroy()
			continue
		}
		perimeter := perimeterOf(rz.geometry)
		compactness := 0.0
		if perimeter > 0 {
			compactness = 4 * math.Pi * areaM2 / (perimeter * perimeter)
		}
		wkb, err := toWKB(rz.geometry)
		if err != nil {
			return nil, err
		}
		survivors = append(survivors, filteredZone{
			origLabel: rz.label,
			zone: Zone{
				OrigLabel:   rz.label,
				Geometry:    wkb,
				AreaHa:      areaHa,
				PerimeterM:  perimeter,
				Compactness: compactness,
				IndexMean:   make(map[string]float64, len(indexOrder)),
				IndexStdDev: make(map[string]float64, len(indexOrder)),
			},
		})
	}

	if len(survivors) == 0 {
		return nil, newError(ErrKindAllZonesFiltered, "every candidate zone fell below min_zone_size_ha")
	}

	sort.Slice(survivors, func(i, j int) bool { return survivors[i].origLabel < survivors[j].origLabel })
	for i := range survivors {
		survivors[i].zone.ZoneID = i
		survivors[i].zone.indexOrder = indexOrder
	}

	log.Info("zone_filter: zones survived size filter",
		zap.Int("input", len(raw)), zap.Int("surviving", len(survivors)))

	return survivors, nil
}
