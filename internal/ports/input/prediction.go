package input

import (
	"context"

	"cropadvisor/internal/domain/entities"
)

// PredictionUseCase is what the delivery adapters (HTTP, Discord) call.
// Callers have already authenticated the user; the use case enforces farm
// ownership before running the pipeline.
type PredictionUseCase interface {
	Predict(ctx context.Context, user *entities.User, farmID int64, crop string) (*entities.PredictionResult, error)
	ListForFarm(ctx context.Context, user *entities.User, farmID int64) ([]entities.PredictionRecord, error)
	GetPrediction(ctx context.Context, user *entities.User, id int64) (*entities.PredictionRecord, error)
}

type UserUseCase interface {
	GetUser(ctx context.Context, id int64) (*entities.User, error)
	GetUserByDiscordID(ctx context.Context, discordID string) (*entities.User, error)
}
