package output

import (
	"context"

	"cropadvisor/internal/domain/entities"
)

// PredictionRepository stores prediction records. Records are append-only.
type PredictionRepository interface {
	// Create persists record and fills in its ID and CreatedAt.
	Create(ctx context.Context, record *entities.PredictionRecord) error
	FindByID(ctx context.Context, id int64) (*entities.PredictionRecord, error)
	// ListByFarm returns the farm's records, most recent first.
	ListByFarm(ctx context.Context, farmID int64) ([]entities.PredictionRecord, error)
}
