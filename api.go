// Package agrizone partitions an agricultural field, represented by a
// multi-band index raster and a bounding polygon, into a small number of
// contiguous management zones whose pixels are spectrally homogeneous, then
// places representative sampling points inside each zone and reports
// geometric and spectral statistics.
//
// The package performs no I/O of its own: rasters are passed in as
// in-memory index stacks, and results are returned as plain Go values for a
// collaborator to render to GeoPackage/CSV/JSON/PNG.
package agrizone

import "encoding/json"

// AnyJson is an opaque pre-encoded JSON payload, passed through unchanged.
type AnyJson = json.RawMessage

// GdalGeo is a WKB-encoded geometry, the wire form every Zone and
// SamplePoint geometry is stored in.
type GdalGeo = []byte

// FieldPolygon is the field boundary, WKB-encoded, in the same CRS as the
// raster's RasterGeoref.
type FieldPolygon GdalGeo

// RasterGeoref is the affine mapping from pixel (col, row) to world (x, y):
//
//	x = A*col + B*row + C
//	y = D*col + E*row + F
type RasterGeoref struct {
	A, B, C, D, E, F float64
}

// Apply maps a fractional pixel coordinate to world coordinates.
func (g RasterGeoref) Apply(col, row float64) (x, y float64) {
	x = g.A*col + g.B*row + g.C
	y = g.D*col + g.E*row + g.F
	return
}

// PixelArea is the footprint area in world units^2 implied by the affine
// coefficients: |A*E - B*D|.
func (g RasterGeoref) PixelArea() float64 {
	a := g.A*g.E - g.B*g.D
	if a < 0 {
		a = -a
	}
	return a
}

// Invert returns the affine mapping from world (x, y) back to pixel
// (col, row). ok is false if the forward mapping is singular. The core
// never needs this (it only ever maps pixel -> world), but a collaborator
// placing a manual sample point or reprojecting a click into pixel space
// will.
func (g RasterGeoref) Invert() (inv RasterGeoref, ok bool) {
	det := g.A*g.E - g.B*g.D
	if det == 0 {
		return RasterGeoref{}, false
	}
	inv.A = g.E / det
	inv.B = -g.B / det
	inv.D = -g.D / det
	inv.E = g.A / det
	inv.C = -(inv.A*g.C + inv.B*g.F)
	inv.F = -(inv.D*g.C + inv.E*g.F)
	return inv, true
}

// IndexBand is one named 2-D real array in an IndexStack.
type IndexBand struct {
	Name   string
	Values [][]float64 // row-major, shape (H, W)
}

// IndexStack is a non-empty, order-preserving collection of IndexBand.
// Insertion order is authoritative for feature-matrix column order and for
// CSV column order downstream.
type IndexStack struct {
	bands []IndexBand
	index map[string]int
}

// NewIndexStack builds a stack from bands in the given order. All bands
// must share the same (H, W) shape; that invariant is checked by the Mask
// Builder on first use, not here.
func NewIndexStack(bands ...IndexBand) *IndexStack {
	s := &IndexStack{
		bands: make([]IndexBand, len(bands)),
		index: make(map[string]int, len(bands)),
	}
	for i, b := range bands {
		s.bands[i] = b
		s.index[b.Name] = i
	}
	return s
}

// Len returns the number of indices (D0 in the spec).
func (s *IndexStack) Len() int { return len(s.bands) }

// Names returns index names in insertion order.
func (s *IndexStack) Names() []string {
	names := make([]string, len(s.bands))
	for i, b := range s.bands {
		names[i] = b.Name
	}
	return names
}

// At returns the i'th band in insertion order.
func (s *IndexStack) At(i int) IndexBand { return s.bands[i] }

// Band looks a band up by name.
func (s *IndexStack) Band(name string) (IndexBand, bool) {
	i, ok := s.index[name]
	if !ok {
		return IndexBand{}, false
	}
	return s.bands[i], true
}

// Shape returns (H, W) derived from the first band. Callers must have
// already verified the stack is non-empty.
func (s *IndexStack) Shape() (h, w int) {
	if len(s.bands) == 0 {
		return 0, 0
	}
	v := s.bands[0].Values
	h = len(v)
	if h > 0 {
		w = len(v[0])
	}
	return
}

// ClusterMetrics records the quality of the final clustering.
type ClusterMetrics struct {
	NClusters        int
	Silhouette       float64
	CalinskiHarabasz float64
	Inertia          float64
	ClusterSizes     map[int]int
	Timestamp        string // ISO-8601 UTC, stamped at clustering completion
}

// Zone is one management zone surviving the size filter, with its
// consecutive zone_id, dissolved geometry, and geometric/spectral
// attributes.
type Zone struct {
	ZoneID       int
	OrigLabel    int // the pre-filter cluster label this zone was built from
	Geometry     GdalGeo
	AreaHa       float64
	PerimeterM   float64
	Compactness  float64
	IndexMean    map[string]float64
	IndexStdDev  map[string]float64
	indexOrder   []string // preserves IndexStack insertion order for CSV emission
}

// IndexNames returns the index name order used when this zone's stats were
// computed (insertion order of the source IndexStack).
func (z *Zone) IndexNames() []string { return z.indexOrder }

// SamplePoint is one spatially-dispersed sample inside a zone.
type SamplePoint struct {
	Geometry GdalGeo // WKB point
	ZoneID   int
	Values   map[string]float64 // one entry per index name
}

// ZoningResult aggregates everything one Run produces.
type ZoningResult struct {
	Zones   []Zone
	Samples []SamplePoint
	Metrics ClusterMetrics
}
