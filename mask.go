package agrizone

import (
	"go.uber.org/zap"

	"github.com/wgdzlh/agrizone/log"
)

// buildMask implements §4.1 Mask Builder: ValidMask[r,c] is true iff the
// pixel center is inside field (boundary inclusive) AND every index has a
// finite value at (r,c).
func buildMask(field FieldPolygon, georef RasterGeoref, crs string, indices *IndexStack, engine *geomEngine) ([][]bool, int, error) {
	h, w := indices.Shape()
	for i := 0; i < indices.Len(); i++ {
		band := indices.At(i)
		shapeOK := len(band.Values) == h
		for _, row := range band.Values {
			shapeOK = shapeOK && len(row) == w
		}
		if !shapeOK {
			return nil, 0, newError(ErrKindInvalidInput, "index band "+band.Name+" does not share the stack's (H, W) shape")
		}
	}

	poly, err := engine.parseWKB(GdalGeo(field), crs)
	if err != nil {
		return nil, 0, err
	}
	defer poly.Destroy()

	mask := make([][]bool, h)
	nValid := 0
	nInPoly := 0
	d := indices.Len()
	for r := 0; r < h; r++ {
		mask[r] = make([]bool, w)
		for c := 0; c < w; c++ {
			x, y := georef.Apply(float64(c)+0.5, float64(r)+0.5)
			if !containsPoint(poly, x, y) {
				continue
			}
			nInPoly++
			finite := true
			for i := 0; i < d; i++ {
				if !isFinite(indices.At(i).Values[r][c]) {
					finite = false
					break
				}
			}
			if finite {
				mask[r][c] = true
				nValid++
			}
		}
	}

	log.Info("mask: built valid mask",
		zap.Int("height", h), zap.Int("width", w),
		zap.Int("in_polygon", nInPoly), zap.Int("valid", nValid))

	if nValid == 0 {
		return mask, 0, newError(ErrKindNoValidPixels, "no pixels are both inside the field polygon and finite across all indices")
	}
	if nValid < nInPoly {
		log.Warn("mask: discarded pixels with non-finite index values",
			zap.Int("discarded", nInPoly-nValid))
	}
	return mask, nValid, nil
}
