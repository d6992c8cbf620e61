package agrizone

// pixelCoord is a (row, col) pixel location.
type pixelCoord struct {
	R, C int
}

// scanOrder returns every masked pixel's coordinates in row-major scan
// order. This ordering is authoritative: the Feature Preparer and Clusterer
// index back into pixels via this same slice, so row i of the feature matrix
// is always scanOrder(mask)[i]. The Polygonizer and Sampler walk the label
// raster in the same row-major order.
func scanOrder(mask [][]bool) []pixelCoord {
	var coords []pixelCoord
	for r, row := range mask {
		for c, v := range row {
			if v {
				coords = append(coords, pixelCoord{R: r, C: c})
			}
		}
	}
	return coords
}
