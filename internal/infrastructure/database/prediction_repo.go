package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"cropadvisor/internal/domain"
	"cropadvisor/internal/domain/entities"
	"cropadvisor/internal/ports/output"
)

var _ output.PredictionRepository = (*PredictionRepository)(nil)

const predictionColumns = `id, farm_id, crop, predicted_yield_kg_per_ha, confidence, model_version, inputs, date_run`

// PredictionRepository implements output.PredictionRepository using pgx.
type PredictionRepository struct {
	db DBTX
}

func NewPredictionRepository(db DBTX) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) Create(ctx context.Context, record *entities.PredictionRecord) error {
	inputs, err := json.Marshal(record.Inputs)
	if err != nil {
		return fmt.Errorf("encode prediction inputs: %w", err)
	}
	err = r.db.QueryRow(ctx, `
		INSERT INTO predictions (farm_id, crop, predicted_yield_kg_per_ha, confidence, model_version, inputs)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, date_run`,
		record.FarmID, record.Crop, record.YieldKgPerHa, record.Confidence, record.ModelVersion, inputs,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("create prediction: %w", err)
	}
	return nil
}

func (r *PredictionRepository) FindByID(ctx context.Context, id int64) (*entities.PredictionRecord, error) {
	row := r.db.QueryRow(ctx, `SELECT `+predictionColumns+` FROM predictions WHERE id = $1`, id)
	p, err := scanPrediction(row)
	if err != nil {
		return nil, mapNoRows(err, "get prediction by id", domain.ErrPredictionNotFound)
	}
	return &p, nil
}

func (r *PredictionRepository) ListByFarm(ctx context.Context, farmID int64) ([]entities.PredictionRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+predictionColumns+`
		FROM predictions
		WHERE farm_id = $1
		ORDER BY date_run DESC, id DESC`, farmID)
	if err != nil {
		return nil, fmt.Errorf("list predictions by farm: %w", err)
	}
	defer rows.Close()

	out := make([]entities.PredictionRecord, 0)
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list predictions by farm: %w", err)
	}
	return out, nil
}

func scanPrediction(row pgx.Row) (entities.PredictionRecord, error) {
	var p entities.PredictionRecord
	var inputs []byte
	err := row.Scan(
		&p.ID,
		&p.FarmID,
		&p.Crop,
		&p.YieldKgPerHa,
		&p.Confidence,
		&p.ModelVersion,
		&inputs,
		&p.CreatedAt,
	)
	if err != nil {
		return p, err
	}
	if err := decodeJSON(inputs, &p.Inputs); err != nil {
		return p, fmt.Errorf("decode prediction inputs: %w", err)
	}
	return p, nil
}
