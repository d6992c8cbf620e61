package agrizone

import "testing"

func TestPolygonizeMergesRunsAndSortsByLabel(t *testing.T) {
	labels := [][]int32{
		{2, 2, 0, 0},
		{2, 2, 0, 0},
	}
	georef := RasterGeoref{A: 10, E: 10}

	zones, err := polygonize(labels, georef)
	if err != nil {
		t.Fatalf("polygonize: %v", err)
	}
	if len(zones) != 2 {
		t.Fatalf("zones = %d, want 2", len(zones))
	}
	if zones[0].label != 0 || zones[1].label != 2 {
		t.Fatalf("labels = [%d, %d], want ascending [0, 2]", zones[0].label, zones[1].label)
	}
	for _, z := range zones {
		area := areaOf(z.geometry)
		// each region is 2x2 pixels of 10x10 units: 400 area-units
		if area < 350 || area > 450 {
			t.Fatalf("zone %d area = %v, want close to 400", z.label, area)
		}
	}
}

func TestPolygonizeNoLabeledPixelsFails(t *testing.T) {
	labels := [][]int32{{-1, -1}, {-1, -1}}
	_, err := polygonize(labels, RasterGeoref{A: 1, E: 1})
	var e *Error
	if !asError(err, &e) || e.Kind != ErrKindNoZones {
		t.Fatalf("expected ErrKindNoZones, got %v", err)
	}
}
