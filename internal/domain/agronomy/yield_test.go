package agronomy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cropadvisor/internal/domain/entities"
)

func ptr(v float64) *float64 { return &v }

func TestBaselineEstimator_Scenarios(t *testing.T) {
	est := NewBaselineEstimator(DefaultYieldTable())

	tests := []struct {
		name     string
		crop     string
		n        *float64
		expected float64
	}{
		{"rice low nitrogen", "rice", ptr(0.1), 2100.0},
		{"wheat moderate nitrogen", "wheat", ptr(0.35), 2250.0},
		{"unknown crop without soil data", "banana", nil, 2000.0},
		{"mixed case crop", "  Maize ", nil, 2200.0},
		{"nitrogen at low threshold is moderate", "rice", ptr(0.2), 2700.0},
		{"nitrogen at moderate threshold", "rice", ptr(0.5), 3000.0},
		{"sufficient nitrogen", "wheat", ptr(1.2), 2500.0},
		{"unknown crop with low nitrogen", "banana", ptr(0.0), 1400.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := est.Estimate(tt.crop, entities.FeatureSet{Crop: NormalizeCrop(tt.crop), N: tt.n})
			assert.InDelta(t, tt.expected, got.YieldKgPerHa, 1e-9)
			assert.Equal(t, BaselineConfidence, got.Confidence)
		})
	}
}

func TestBaselineEstimator_NeverExceedsBaseWhenDeficient(t *testing.T) {
	table := DefaultYieldTable()
	est := NewBaselineEstimator(table)

	for crop, base := range table.BaseYields {
		for _, n := range []float64{0, 0.05, 0.19, 0.2, 0.3, 0.49} {
			got := est.Estimate(crop, entities.FeatureSet{Crop: crop, N: ptr(n)})
			assert.LessOrEqual(t, got.YieldKgPerHa, base, "crop=%s n=%v", crop, n)
		}
		for _, n := range []*float64{nil, ptr(0.5), ptr(0.9), ptr(5)} {
			got := est.Estimate(crop, entities.FeatureSet{Crop: crop, N: n})
			assert.Equal(t, round(base, 2), got.YieldKgPerHa, "crop=%s", crop)
		}
	}
}

func TestBaselineEstimator_IgnoresOtherNutrients(t *testing.T) {
	est := NewBaselineEstimator(DefaultYieldTable())

	got := est.Estimate("rice", entities.FeatureSet{Crop: "rice", P: ptr(0.01), K: ptr(0.01), PH: ptr(4.0)})

	assert.Equal(t, 3000.0, got.YieldKgPerHa)
}

func TestBaselineEstimator_RoundsToTwoPlaces(t *testing.T) {
	table := DefaultYieldTable()
	table.BaseYields = map[string]float64{"sorghum": 1234.5678}
	est := NewBaselineEstimator(table)

	got := est.Estimate("sorghum", entities.FeatureSet{Crop: "sorghum"})

	assert.Equal(t, 1234.57, got.YieldKgPerHa)
}

func TestNewBaselineEstimator_CopiesTable(t *testing.T) {
	table := DefaultYieldTable()
	est := NewBaselineEstimator(table)

	table.BaseYields["rice"] = 1.0

	got := est.Estimate("rice", entities.FeatureSet{Crop: "rice"})
	assert.Equal(t, 3000.0, got.YieldKgPerHa)
	assert.Equal(t, BaselineModelVersion, est.Version())
}
