package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"cropadvisor/internal/domain"
	"cropadvisor/internal/domain/entities"
	"cropadvisor/internal/ports/output"
)

var _ output.FarmRepository = (*FarmRepository)(nil)

// FarmRepository reads farms and their soil samples. Farm and soil CRUD
// belongs to another service; this side only reads.
type FarmRepository struct {
	db DBTX
}

func NewFarmRepository(db DBTX) *FarmRepository {
	return &FarmRepository{db: db}
}

func (r *FarmRepository) FindOwned(ctx context.Context, farmID, userID int64) (*entities.Farm, error) {
	var (
		f      entities.Farm
		name   pgtype.Text
		areaHa pgtype.Float8
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, name, area_ha, created_at
		FROM farms
		WHERE id = $1 AND user_id = $2`, farmID, userID,
	).Scan(&f.ID, &f.UserID, &name, &areaHa, &f.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err, "get farm", domain.ErrFarmNotFound)
	}
	f.Name = pgtypeTextToString(name)
	f.AreaHa = pgtypeFloat8ToPtr(areaHa)

	if err := r.attachObservations(ctx, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FarmRepository) attachObservations(ctx context.Context, f *entities.Farm) error {
	rows, err := r.db.Query(ctx, `
		SELECT id, farm_id, sample_date, n, p, k, ph, extra
		FROM soil_samples
		WHERE farm_id = $1
		ORDER BY sample_date, id`, f.ID)
	if err != nil {
		return fmt.Errorf("get soil samples: %w", err)
	}
	defer rows.Close()

	f.Observations = make([]entities.SoilObservation, 0)
	for rows.Next() {
		var (
			o          entities.SoilObservation
			sampleDate pgtype.Timestamptz
			n, p, k    pgtype.Float8
			ph         pgtype.Float8
			extra      []byte
		)
		if err := rows.Scan(&o.ID, &o.FarmID, &sampleDate, &n, &p, &k, &ph, &extra); err != nil {
			return fmt.Errorf("scan soil sample: %w", err)
		}
		o.ObservedAt = pgtypeTimestamptzToTime(sampleDate)
		o.N = pgtypeFloat8ToPtr(n)
		o.P = pgtypeFloat8ToPtr(p)
		o.K = pgtypeFloat8ToPtr(k)
		o.PH = pgtypeFloat8ToPtr(ph)
		if err := decodeJSON(extra, &o.Extra); err != nil {
			return fmt.Errorf("decode soil sample extra: %w", err)
		}
		f.Observations = append(f.Observations, o)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("get soil samples: %w", err)
	}
	return nil
}
