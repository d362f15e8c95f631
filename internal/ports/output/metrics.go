package output

import "time"

// PredictionMetrics receives one observation per prediction run.
type PredictionMetrics interface {
	ObservePrediction(crop string, err error, elapsed time.Duration)
}
