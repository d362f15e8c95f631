package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"cropadvisor/internal/domain"
	"cropadvisor/internal/domain/agronomy"
	"cropadvisor/internal/domain/entities"
	"cropadvisor/internal/ports/input"
	"cropadvisor/internal/ports/output"
)

var _ input.PredictionUseCase = (*PredictionService)(nil)

type PredictionService struct {
	estimator      agronomy.Estimator
	builder        *agronomy.Builder
	localizer      *Localizer
	predictionRepo output.PredictionRepository
	farmRepo       output.FarmRepository
	metrics        output.PredictionMetrics
	logger         *zap.Logger
}

func NewPredictionService(
	estimator agronomy.Estimator,
	builder *agronomy.Builder,
	localizer *Localizer,
	predictionRepo output.PredictionRepository,
	farmRepo output.FarmRepository,
	metrics output.PredictionMetrics,
	logger *zap.Logger,
) *PredictionService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &PredictionService{
		estimator:      estimator,
		builder:        builder,
		localizer:      localizer,
		predictionRepo: predictionRepo,
		farmRepo:       farmRepo,
		metrics:        metrics,
		logger:         logger.Named("prediction-service"),
	}
}

// Run executes the pipeline for an already authorized farm and persists
// exactly one record. A persistence failure is returned to the caller and no
// result is produced.
func (s *PredictionService) Run(ctx context.Context, farm *entities.Farm, crop, language string) (*entities.PredictionResult, error) {
	start := time.Now()
	result, err := s.run(ctx, farm, crop, language)
	s.metrics.ObservePrediction(agronomy.NormalizeCrop(crop), err, time.Since(start))
	return result, err
}

func (s *PredictionService) run(ctx context.Context, farm *entities.Farm, crop, language string) (*entities.PredictionResult, error) {
	if farm == nil {
		return nil, domain.ErrFarmNotFound
	}
	features := ResolveFeatures(farm, crop)
	estimate := s.estimator.Estimate(features.Crop, features)
	recommendation := s.localizer.Localize(s.builder.Build(features), language)

	record := &entities.PredictionRecord{
		FarmID:       farm.ID,
		Crop:         strings.TrimSpace(crop),
		YieldKgPerHa: estimate.YieldKgPerHa,
		Confidence:   estimate.Confidence,
		ModelVersion: s.estimator.Version(),
		Inputs: entities.PredictionInputs{
			FeatureSet:     features,
			Recommendation: recommendation,
		},
	}
	if err := s.predictionRepo.Create(ctx, record); err != nil {
		s.logger.Error("Failed to persist prediction",
			zap.Int64("farm_id", farm.ID),
			zap.String("crop", features.Crop),
			zap.Error(err))
		return nil, fmt.Errorf("save prediction: %w", err)
	}

	s.logger.Info("Prediction recorded",
		zap.Int64("prediction_id", record.ID),
		zap.Int64("farm_id", farm.ID),
		zap.String("crop", features.Crop),
		zap.Float64("yield_kg_per_ha", estimate.YieldKgPerHa),
		zap.String("model_version", record.ModelVersion))

	return &entities.PredictionResult{
		PredictedYield: estimate.YieldKgPerHa,
		Confidence:     estimate.Confidence,
		Recommendation: recommendation,
	}, nil
}

// Predict checks that user owns farmID, then runs the pipeline in the user's
// preferred language.
func (s *PredictionService) Predict(ctx context.Context, user *entities.User, farmID int64, crop string) (*entities.PredictionResult, error) {
	if strings.TrimSpace(crop) == "" {
		return nil, domain.ErrInvalidCrop
	}
	farm, err := s.farmRepo.FindOwned(ctx, farmID, user.ID)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, farm, crop, user.LanguagePreference)
}

func (s *PredictionService) ListForFarm(ctx context.Context, user *entities.User, farmID int64) ([]entities.PredictionRecord, error) {
	if _, err := s.farmRepo.FindOwned(ctx, farmID, user.ID); err != nil {
		return nil, err
	}
	return s.predictionRepo.ListByFarm(ctx, farmID)
}

// GetPrediction returns domain.ErrAccessDenied when the record exists but its
// farm belongs to another user.
func (s *PredictionService) GetPrediction(ctx context.Context, user *entities.User, id int64) (*entities.PredictionRecord, error) {
	record, err := s.predictionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.farmRepo.FindOwned(ctx, record.FarmID, user.ID); err != nil {
		if errors.Is(err, domain.ErrFarmNotFound) {
			return nil, domain.ErrAccessDenied
		}
		return nil, err
	}
	return record, nil
}

type noopMetrics struct{}

func (noopMetrics) ObservePrediction(string, error, time.Duration) {}
