package entities

import "time"

// FeatureSet is the resolved input to inference.
type FeatureSet struct {
	Crop string   `json:"crop"`
	N    *float64 `json:"n"`
	P    *float64 `json:"p"`
	K    *float64 `json:"k"`
	PH   *float64 `json:"ph"`
}

// RawStep is one recommendation step as a message key plus parameters.
type RawStep struct {
	Key    string
	Params map[string]any
}

// RawRecommendation is a language-independent recommendation.
type RawRecommendation struct {
	TitleKey     string
	TitleParams  map[string]any
	SummaryKey   string
	Steps        []RawStep
	CostEstimate *float64
	FallbackText string
}

// LocalizedStep keeps the machine-readable key next to its rendered text.
type LocalizedStep struct {
	Key    string         `json:"step"`
	Params map[string]any `json:"params"`
	Text   string         `json:"text"`
}

// LocalizedRecommendation is a RawRecommendation rendered for one language.
type LocalizedRecommendation struct {
	TitleKey     string          `json:"title_key"`
	TitleParams  map[string]any  `json:"title_params"`
	TitleText    string          `json:"title_text"`
	SummaryKey   string          `json:"summary_key"`
	SummaryText  string          `json:"summary_text"`
	Steps        []LocalizedStep `json:"steps"`
	CostEstimate *float64        `json:"cost_estimate"`
	FallbackText string          `json:"raw_text_en,omitempty"`
}

// PredictionInputs is the structured payload stored with a prediction.
type PredictionInputs struct {
	FeatureSet
	Recommendation LocalizedRecommendation `json:"recommendation"`
}

// PredictionRecord is the persisted, immutable outcome of one prediction run.
// ID and CreatedAt are assigned by the store.
type PredictionRecord struct {
	ID           int64            `json:"id"`
	FarmID       int64            `json:"farm_id"`
	Crop         string           `json:"crop"`
	YieldKgPerHa float64          `json:"predicted_yield_kg_per_ha"`
	Confidence   float64          `json:"confidence"`
	ModelVersion string           `json:"model_version"`
	Inputs       PredictionInputs `json:"inputs"`
	CreatedAt    time.Time        `json:"date_run"`
}

// PredictionResult is returned to the caller of a prediction run.
type PredictionResult struct {
	PredictedYield float64                 `json:"predicted_yield"`
	Confidence     float64                 `json:"confidence"`
	Recommendation LocalizedRecommendation `json:"recommendation"`
}
