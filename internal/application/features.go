package application

import (
	"cropadvisor/internal/domain/agronomy"
	"cropadvisor/internal/domain/entities"
)

// ResolveFeatures builds the inference input from the farm's latest soil
// observation. Nutrients the observation did not measure stay nil.
func ResolveFeatures(farm *entities.Farm, crop string) entities.FeatureSet {
	f := entities.FeatureSet{Crop: agronomy.NormalizeCrop(crop)}
	if farm == nil {
		return f
	}
	if latest := farm.LatestObservation(); latest != nil {
		f.N = copyFloat(latest.N)
		f.P = copyFloat(latest.P)
		f.K = copyFloat(latest.K)
		f.PH = copyFloat(latest.PH)
	}
	return f
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
