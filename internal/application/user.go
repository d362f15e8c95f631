package application

import (
	"context"

	"cropadvisor/internal/domain/entities"
	"cropadvisor/internal/ports/input"
	"cropadvisor/internal/ports/output"
)

var _ input.UserUseCase = (*UserService)(nil)

type UserService struct {
	userRepo output.UserRepository
}

func NewUserService(userRepo output.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*entities.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserService) GetUserByDiscordID(ctx context.Context, discordID string) (*entities.User, error) {
	return s.userRepo.FindByDiscordID(ctx, discordID)
}
