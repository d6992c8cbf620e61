package agrizone

import "testing"

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestConfigValidateRejectsBadFields(t *testing.T) {
	forceK := 1
	cases := []Config{
		{MaxZones: 1, PointsPerZone: 1, PCAVariance: 0.9},
		{MaxZones: 5, MinZoneSizeHa: -1, PointsPerZone: 1, PCAVariance: 0.9},
		{MaxZones: 5, PointsPerZone: 0, PCAVariance: 0.9},
		{MaxZones: 5, PointsPerZone: 1, PCAVariance: 0},
		{MaxZones: 5, PointsPerZone: 1, PCAVariance: 1.5},
		{MaxZones: 5, PointsPerZone: 1, PCAVariance: 0.9, ForceK: &forceK},
	}
	for i, c := range cases {
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d: expected a validation error, got none", i)
		}
	}
}
