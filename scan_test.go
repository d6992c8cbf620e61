package agrizone

import "testing"

func TestScanOrderRowMajor(t *testing.T) {
	mask := [][]bool{
		{true, false, true},
		{false, true, false},
		{true, true, false},
	}
	got := scanOrder(mask)
	want := []pixelCoord{
		{R: 0, C: 0}, {R: 0, C: 2},
		{R: 1, C: 1},
		{R: 2, C: 0}, {R: 2, C: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d coords, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("coord %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScanOrderEmpty(t *testing.T) {
	mask := [][]bool{{false, false}, {false, false}}
	if got := scanOrder(mask); len(got) != 0 {
		t.Fatalf("expected no coords, got %d", len(got))
	}
}
