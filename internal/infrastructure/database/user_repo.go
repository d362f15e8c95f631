package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"cropadvisor/internal/domain"
	"cropadvisor/internal/domain/entities"
	"cropadvisor/internal/ports/output"
)

var _ output.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entities.User, error) {
	return r.findOne(ctx, "get user by id", `WHERE id = $1`, id)
}

func (r *UserRepository) FindByDiscordID(ctx context.Context, discordID string) (*entities.User, error) {
	return r.findOne(ctx, "get user by discord id", `WHERE discord_id = $1`, discordID)
}

func (r *UserRepository) findOne(ctx context.Context, op, where string, arg any) (*entities.User, error) {
	var (
		u         entities.User
		lang      pgtype.Text
		discordID pgtype.Text
	)
	err := r.db.QueryRow(ctx, `SELECT id, name, language_preference, discord_id FROM users `+where, arg).
		Scan(&u.ID, &u.Name, &lang, &discordID)
	if err != nil {
		return nil, mapNoRows(err, op, domain.ErrUserNotFound)
	}
	u.LanguagePreference = pgtypeTextToString(lang)
	u.DiscordID = pgtypeTextToString(discordID)
	return &u, nil
}
