package agrizone

import (
	"math"
	"testing"
)

func gridStack(bands map[string][][]float64) *IndexStack {
	names := make([]string, 0, len(bands))
	for name := range bands {
		names = append(names, name)
	}
	ibs := make([]IndexBand, 0, len(names))
	// deterministic order for test reproducibility
	for _, name := range []string{"ndvi", "ndre", "flat"} {
		if v, ok := bands[name]; ok {
			ibs = append(ibs, IndexBand{Name: name, Values: v})
		}
	}
	return NewIndexStack(ibs...)
}

func allCoords(h, w int) []pixelCoord {
	var coords []pixelCoord
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			coords = append(coords, pixelCoord{R: r, C: c})
		}
	}
	return coords
}

func TestPrepareFeaturesImputesAndStandardizes(t *testing.T) {
	nan := math.NaN()
	stack := gridStack(map[string][][]float64{
		"ndvi": {{0.1, 0.2}, {0.3, nan}},
		"ndre": {{1.0, 2.0}, {3.0, 4.0}},
	})
	coords := allCoords(2, 2)

	feat, err := prepareFeatures(stack, coords, DefaultConfig())
	if err != nil {
		t.Fatalf("prepareFeatures: %v", err)
	}
	n, d := feat.Matrix.Dims()
	if n != 4 || d != 2 {
		t.Fatalf("matrix dims = (%d,%d), want (4,2)", n, d)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			if !isFinite(feat.Matrix.At(i, j)) {
				t.Fatalf("non-finite entry at (%d,%d) after preparation", i, j)
			}
		}
	}
}

func TestPrepareFeaturesZeroVarianceColumn(t *testing.T) {
	stack := gridStack(map[string][][]float64{
		"ndvi": {{0.1, 0.1}, {0.1, 0.1}},
		"ndre": {{1.0, 2.0}, {3.0, 4.0}},
	})
	coords := allCoords(2, 2)

	feat, err := prepareFeatures(stack, coords, DefaultConfig())
	if err != nil {
		t.Fatalf("prepareFeatures: %v", err)
	}
	if !feat.ZeroVariance[0] {
		t.Fatal("constant column should be flagged zero-variance")
	}
	n, _ := feat.Matrix.Dims()
	for i := 0; i < n; i++ {
		if feat.Matrix.At(i, 0) != 0 {
			t.Fatalf("zero-variance column row %d = %v, want 0", i, feat.Matrix.At(i, 0))
		}
	}
}

func TestPrepareFeaturesAllNonFiniteColumnFails(t *testing.T) {
	nan := math.NaN()
	stack := gridStack(map[string][][]float64{
		"ndvi": {{nan, nan}, {nan, nan}},
		"ndre": {{1.0, 2.0}, {3.0, 4.0}},
	})
	coords := allCoords(2, 2)

	_, err := prepareFeatures(stack, coords, DefaultConfig())
	if err == nil {
		t.Fatal("expected an error for an entirely non-finite column")
	}
	var dzErr *Error
	if !asError(err, &dzErr) || dzErr.Kind != ErrKindDegenerateFeature {
		t.Fatalf("expected ErrKindDegenerateFeature, got %v", err)
	}
}

func TestPrepareFeaturesTooFewPixelsFails(t *testing.T) {
	stack := gridStack(map[string][][]float64{
		"ndvi": {{0.1}},
	})
	_, err := prepareFeatures(stack, []pixelCoord{{R: 0, C: 0}}, DefaultConfig())
	if err == nil {
		t.Fatal("expected an error for fewer than 2 pixels")
	}
}

func TestMedianOddEven(t *testing.T) {
	if got := median([]float64{3, 1, 2}); got != 2 {
		t.Fatalf("median odd = %v, want 2", got)
	}
	if got := median([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Fatalf("median even = %v, want 2.5", got)
	}
}

func TestPCARetainsRequestedVariance(t *testing.T) {
	stack := gridStack(map[string][][]float64{
		"ndvi": {{0.1, 0.2, 0.3, 0.9}, {0.15, 0.25, 0.35, 0.95}},
		"ndre": {{1.0, 2.0, 3.0, 9.0}, {1.5, 2.5, 3.5, 9.5}},
	})
	cfg := DefaultConfig()
	cfg.UsePCA = true
	cfg.PCAVariance = 0.9

	feat, err := prepareFeatures(stack, allCoords(2, 4), cfg)
	if err != nil {
		t.Fatalf("prepareFeatures: %v", err)
	}
	_, d := feat.Matrix.Dims()
	if d < 1 || d > 2 {
		t.Fatalf("PCA component count = %d, want 1 or 2", d)
	}
	if feat.PCAComponents != d {
		t.Fatalf("PCAComponents = %d, want %d", feat.PCAComponents, d)
	}
}

// asError is a small helper so tests can assert on *Error without importing
// the errors package for a single As call.
func asError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = e
	return true
}
