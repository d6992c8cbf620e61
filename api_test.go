package agrizone

import "testing"

func TestRasterGeorefApplyAndInvert(t *testing.T) {
	g := RasterGeoref{A: 10, B: 0, C: 100, D: 0, E: -10, F: 200}
	x, y := g.Apply(3, 4)
	inv, ok := g.Invert()
	if !ok {
		t.Fatal("expected an invertible affine transform")
	}
	col, row := inv.Apply(x, y)
	if diff := col - 3; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("recovered col = %v, want 3", col)
	}
	if diff := row - 4; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("recovered row = %v, want 4", row)
	}
}

func TestRasterGeorefInvertSingular(t *testing.T) {
	g := RasterGeoref{} // all zero: singular
	if _, ok := g.Invert(); ok {
		t.Fatal("expected a singular affine transform to fail to invert")
	}
}

func TestIndexStackOrderingAndLookup(t *testing.T) {
	s := NewIndexStack(
		IndexBand{Name: "ndvi", Values: [][]float64{{1, 2}, {3, 4}}},
		IndexBand{Name: "ndre", Values: [][]float64{{5, 6}, {7, 8}}},
	)
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if names := s.Names(); names[0] != "ndvi" || names[1] != "ndre" {
		t.Fatalf("Names() = %v, want [ndvi ndre]", names)
	}
	if _, ok := s.Band("missing"); ok {
		t.Fatal("Band lookup should fail for an unknown name")
	}
	b, ok := s.Band("ndre")
	if !ok || b.Values[1][1] != 8 {
		t.Fatalf("Band(ndre) = %+v, ok=%v", b, ok)
	}
	h, w := s.Shape()
	if h != 2 || w != 2 {
		t.Fatalf("Shape() = (%d,%d), want (2,2)", h, w)
	}
}
