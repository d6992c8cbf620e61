package agrizone

import "testing"

func identityGeoref() RasterGeoref {
	return RasterGeoref{A: 1, E: 1}
}

func gridMembers(h, w int) []pixelCoord {
	var out []pixelCoord
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			out = append(out, pixelCoord{R: r, C: c})
		}
	}
	return out
}

func TestFarthestPointSampleTakesAllWhenFewPixels(t *testing.T) {
	members := gridMembers(1, 3)
	out := farthestPointSample(members, identityGeoref(), 1, 5)
	if len(out) != 3 {
		t.Fatalf("expected all 3 members taken, got %d", len(out))
	}
}

func TestFarthestPointSampleRespectsTarget(t *testing.T) {
	members := gridMembers(5, 5) // 25 pixels, sqrt(25) = 5
	out := farthestPointSample(members, identityGeoref(), 1, 2)
	if len(out) != 5 {
		t.Fatalf("selected %d points, want 5 (max(points_per_zone, floor(sqrt(n))))", len(out))
	}
	seen := map[pixelCoord]bool{}
	for _, sp := range out {
		if seen[sp.coord] {
			t.Fatalf("duplicate pixel selected: %v", sp.coord)
		}
		seen[sp.coord] = true
	}
}

func TestFarthestPointSampleDeterministic(t *testing.T) {
	members := gridMembers(6, 6)
	a := farthestPointSample(members, identityGeoref(), 123, 3)
	b := farthestPointSample(members, identityGeoref(), 123, 3)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].coord != b[i].coord {
			t.Fatalf("selection %d differs across identical seeds: %v vs %v", i, a[i].coord, b[i].coord)
		}
	}
}

func TestZoneMembersFiltersByLabel(t *testing.T) {
	labels := [][]int32{
		{0, 1, 0},
		{1, 1, 0},
	}
	members := zoneMembers(labels, 1)
	want := []pixelCoord{{R: 0, C: 1}, {R: 1, C: 0}, {R: 1, C: 1}}
	if len(members) != len(want) {
		t.Fatalf("got %d members, want %d", len(members), len(want))
	}
	for i := range want {
		if members[i] != want[i] {
			t.Fatalf("member %d = %v, want %v", i, members[i], want[i])
		}
	}
}
