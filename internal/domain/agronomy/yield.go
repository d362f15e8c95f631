// Package agronomy holds the deterministic inference rules: the baseline
// yield estimator and the recommendation rule registry. Everything here is a
// pure function of its inputs and safe for concurrent use.
package agronomy

import (
	"math"
	"strings"

	"cropadvisor/internal/domain/entities"
)

const (
	// BaselineConfidence is reported for every baseline estimate.
	// It is a placeholder until a calibrated model replaces the rule table.
	BaselineConfidence = 0.6

	// BaselineModelVersion tags records produced by BaselineEstimator.
	BaselineModelVersion = "baseline-v0"

	yieldPrecision = 2
)

// Estimate is the numeric output of an Estimator.
type Estimate struct {
	YieldKgPerHa float64
	Confidence   float64
}

// Estimator computes a yield forecast from crop and soil features.
type Estimator interface {
	Estimate(crop string, features entities.FeatureSet) Estimate
	// Version is an opaque tag stored with every prediction record.
	Version() string
}

// NitrogenRule describes the two-step nitrogen deficiency penalty.
// N below LowThreshold is multiplied by LowFactor; N below
// ModerateThreshold (but not low) by ModerateFactor.
type NitrogenRule struct {
	LowThreshold      float64 `toml:"low_threshold"`
	LowFactor         float64 `toml:"low_factor"`
	ModerateThreshold float64 `toml:"moderate_threshold"`
	ModerateFactor    float64 `toml:"moderate_factor"`
}

// YieldTable is the immutable rule table behind BaselineEstimator.
type YieldTable struct {
	// BaseYields maps lower-case crop names to kg/ha.
	BaseYields map[string]float64 `toml:"base_yields"`
	// DefaultBaseYield applies to crops missing from BaseYields.
	DefaultBaseYield float64      `toml:"default_base_yield"`
	Nitrogen         NitrogenRule `toml:"nitrogen"`
}

// DefaultYieldTable returns the baseline table: rice, wheat and maize, with
// 2000 kg/ha for any other crop.
func DefaultYieldTable() YieldTable {
	return YieldTable{
		BaseYields: map[string]float64{
			"rice":  3000.0,
			"wheat": 2500.0,
			"maize": 2200.0,
		},
		DefaultBaseYield: 2000.0,
		Nitrogen: NitrogenRule{
			LowThreshold:      0.2,
			LowFactor:         0.7,
			ModerateThreshold: 0.5,
			ModerateFactor:    0.9,
		},
	}
}

// BaseYield returns the table value for crop, falling back to DefaultBaseYield.
func (t YieldTable) BaseYield(crop string) float64 {
	if v, ok := t.BaseYields[NormalizeCrop(crop)]; ok {
		return v
	}
	return t.DefaultBaseYield
}

// BaselineEstimator is the rule-table estimator.
type BaselineEstimator struct {
	table YieldTable
}

var _ Estimator = (*BaselineEstimator)(nil)

// NewBaselineEstimator copies table so later changes to the caller's map do
// not leak into estimates.
func NewBaselineEstimator(table YieldTable) *BaselineEstimator {
	base := make(map[string]float64, len(table.BaseYields))
	for crop, v := range table.BaseYields {
		base[NormalizeCrop(crop)] = v
	}
	table.BaseYields = base
	return &BaselineEstimator{table: table}
}

func (e *BaselineEstimator) Estimate(crop string, features entities.FeatureSet) Estimate {
	yield := e.table.BaseYield(crop)

	if n := features.N; n != nil {
		switch {
		case *n < e.table.Nitrogen.LowThreshold:
			yield *= e.table.Nitrogen.LowFactor
		case *n < e.table.Nitrogen.ModerateThreshold:
			yield *= e.table.Nitrogen.ModerateFactor
		}
	}

	return Estimate{
		YieldKgPerHa: round(yield, yieldPrecision),
		Confidence:   BaselineConfidence,
	}
}

func (e *BaselineEstimator) Version() string {
	return BaselineModelVersion
}

// NormalizeCrop is the lookup form of a crop identifier.
func NormalizeCrop(crop string) string {
	return strings.ToLower(strings.TrimSpace(crop))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
