package output

import (
	"context"

	"cropadvisor/internal/domain/entities"
)

type FarmRepository interface {
	// FindOwned returns the farm with its soil observations ordered by time,
	// or domain.ErrFarmNotFound when it does not exist or belongs to someone else.
	FindOwned(ctx context.Context, farmID, userID int64) (*entities.Farm, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*entities.User, error)
	FindByDiscordID(ctx context.Context, discordID string) (*entities.User, error)
}
