package entities

import "time"

// SoilObservation is a point-in-time snapshot of a plot's nutrient state.
// Nutrient fields are nil when the sample did not measure them.
type SoilObservation struct {
	ID         int64
	FarmID     int64
	ObservedAt time.Time
	N          *float64
	P          *float64
	K          *float64
	PH         *float64
	Extra      map[string]any
}

// Farm is a user-owned plot. Observations are ordered by ObservedAt.
type Farm struct {
	ID           int64
	UserID       int64
	Name         string
	AreaHa       *float64
	Observations []SoilObservation
	CreatedAt    time.Time
}

// LatestObservation returns the most recent observation, or nil when the farm
// has none. Ties on ObservedAt go to the later element of Observations.
func (f *Farm) LatestObservation() *SoilObservation {
	var latest *SoilObservation
	for i := range f.Observations {
		o := &f.Observations[i]
		if latest == nil || !o.ObservedAt.Before(latest.ObservedAt) {
			latest = o
		}
	}
	return latest
}
