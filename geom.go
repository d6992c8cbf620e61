package agrizone

import (
	"strconv"
	"strings"
	"sync"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"

	"github.com/wgdzlh/agrizone/log"
)

// geomEngine owns a small cache of gdal.SpatialReference per CRS string so
// repeated polygon/point construction inside one run doesn't re-parse the
// same "EPSG:xxxx" identifier on every pixel. One engine is created per Run
// and closed at the end of it — no state is shared across runs.
type geomEngine struct {
	mu   sync.Mutex
	refs map[string]gdal.SpatialReference
}

func newGeomEngine() *geomEngine {
	return &geomEngine{refs: make(map[string]gdal.SpatialReference)}
}

// ref resolves an opaque CRS identifier ("EPSG:32719") into a cached
// gdal.SpatialReference, mirroring GdalToolbox.getSridRef in the teacher.
func (e *geomEngine) ref(crs string) (ref gdal.SpatialReference, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ref, ok := e.refs[crs]; ok {
		return ref, nil
	}
	srid, err := parseEPSG(crs)
	if err != nil {
		return ref, newError(ErrKindInvalidInput, "unsupported crs: "+crs)
	}
	ref = gdal.CreateSpatialReference("")
	if err = ref.FromEPSG(srid); err != nil {
		log.Error("geom: set ref srid failed", zap.String("crs", crs), zap.Error(err))
		ref.Destroy()
		return ref, newError(ErrKindInvalidInput, "invalid crs: "+crs)
	}
	// Traditional GIS axis order (lon/lat, easting/northing) regardless of
	// the authority's declared axis order, so pixel-center tests below and
	// WKT/WKB round trips never flip axes — same reasoning as the teacher.
	ref.SetAxisMappingStrategy(gdal.OAMS_TraditionalGisOrder)
	e.refs[crs] = ref
	return ref, nil
}

func parseEPSG(crs string) (int, error) {
	parts := strings.SplitN(crs, ":", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "EPSG") {
		return 0, newError(ErrKindInvalidInput, "crs must be of the form EPSG:<code>")
	}
	return strconv.Atoi(parts[1])
}

// close releases every cached spatial reference. Called once at the end of
// Run via defer.
func (e *geomEngine) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ref := range e.refs {
		ref.Destroy()
	}
	e.refs = nil
}

func (e *geomEngine) parseWKB(wkb GdalGeo, crs string) (gdal.Geometry, error) {
	ref, err := e.ref(crs)
	if err != nil {
		return gdal.Geometry{}, err
	}
	geo, err := gdal.CreateFromWKB(wkb, ref, len(wkb))
	if err != nil {
		return geo, newError(ErrKindInvalidInput, "invalid field polygon WKB")
	}
	return geo, nil
}

// buildPoint constructs a GT_Point geometry at (x, y). Caller owns the
// returned geometry and must Destroy it.
func buildPoint(x, y float64) gdal.Geometry {
	pt := gdal.Create(gdal.GT_Point)
	pt.AddPoint2D(x, y)
	return pt
}

// containsPoint tests pixel-center containment against poly, boundary
// inclusive — Intersects rather than Contains, since OGR's Contains
// excludes the boundary.
func containsPoint(poly gdal.Geometry, x, y float64) bool {
	pt := buildPoint(x, y)
	defer pt.Destroy()
	return poly.Intersects(pt)
}

// buildRect constructs the axis-aligned rectangle [x0,x1] x [y0,y1] (or any
// corner ordering) as a GT_Polygon, the same ring-then-polygon idiom as the
// teacher's buildPolygon helper in vecalg.go.
func buildRect(x0, y0, x1, y1 float64) gdal.Geometry {
	ring := gdal.Create(gdal.GT_LinearRing)
	ring.AddPoint2D(x0, y0)
	ring.AddPoint2D(x1, y0)
	ring.AddPoint2D(x1, y1)
	ring.AddPoint2D(x0, y1)
	ring.AddPoint2D(x0, y0)
	poly := gdal.Create(gdal.GT_Polygon)
	if err := poly.AddGeometryDirectly(ring); err != nil {
		ring.Destroy()
	}
	return poly
}

// unionAll folds geoms into a single geometry via repeated Union, destroying
// every intermediate result — the same accumulation pattern as the
// teacher's GdalToolbox.Union.
func unionAll(geoms []gdal.Geometry) gdal.Geometry {
	acc := gdal.Create(gdal.GT_Polygon)
	for _, g := range geoms {
		next := acc.Union(g)
		acc.Destroy()
		acc = next
	}
	return acc
}

// toWKB converts geo to its WKB form, destroying geo afterward — used at
// the boundary where an internal gdal.Geometry becomes a Zone/SamplePoint's
// stored GdalGeo.
func toWKB(geo gdal.Geometry) (GdalGeo, error) {
	defer geo.Destroy()
	if geo.IsEmpty() {
		return nil, nil
	}
	return geo.ToWKB()
}

// areaOf returns the planar area of geo without consuming it.
func areaOf(geo gdal.Geometry) float64 {
	return geo.Area()
}

// perimeterOf returns the total boundary length of geo. OGR's own
// Geometry.Length() is defined for curves, not polygons, so the boundary is
// extracted first (mirrors how the teacher always routes through
// sub-geometries rather than assuming a direct accessor exists).
func perimeterOf(geo gdal.Geometry) float64 {
	b := geo.Boundary()
	defer b.Destroy()
	return b.Length()
}

// removeHoles drops every interior ring from a polygon, or from each
// sub-polygon of a multipolygon, in place. A zone dissolved from many small
// pixel rectangles can end up encircling an excluded pocket of pixels (a
// patch masked out, or belonging to another label); the filtered zone is
// meant to describe one contiguous management area, not that pocket, so
// interior rings are dropped the same way the teacher's muffGeo does for
// parcel boundaries.
func removeHoles(geo gdal.Geometry) error {
	switch geo.Type() {
	case gdal.GT_Polygon:
		return removeHolesInPolygon(geo)
	case gdal.GT_MultiPolygon:
		for i := 0; i < geo.GeometryCount(); i++ {
			if err := removeHolesInPolygon(geo.Geometry(i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func removeHolesInPolygon(geo gdal.Geometry) error {
	for geo.GeometryCount() > 1 {
		if err := geo.RemoveGeometry(1, true); err != nil {
			return err
		}
	}
	return nil
}

// simplifyGeo applies topology-preserving simplification at the given
// tolerance, the same idiom as the teacher's simpGeo, then destroys the
// input. Used to shed the dense, mostly-collinear vertex runs a pixel-grid
// union leaves along shared rectangle edges, without materially changing
// zone area or shape.
func simplifyGeo(geo gdal.Geometry, tolerance float64) gdal.Geometry {
	defer geo.Destroy()
	return geo.SimplifyPreservingTopology(tolerance)
}
