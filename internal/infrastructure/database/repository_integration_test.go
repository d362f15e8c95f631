package database

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"cropadvisor/internal/domain"
	"cropadvisor/internal/domain/entities"
)

type testDB struct {
	container testcontainers.Container
	pool      *pgxpool.Pool
	dsn       string
}

var (
	sharedTestDB     *testDB
	sharedTestDBOnce sync.Once
	sharedTestDBErr  error
)

// getTestDB starts one PostgreSQL container per test binary and applies the
// embedded migrations.
func getTestDB(t *testing.T) *testDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedTestDBOnce.Do(func() {
		sharedTestDB, sharedTestDBErr = setupTestDB()
	})
	if sharedTestDBErr != nil {
		t.Fatalf("Failed to setup test database: %v", sharedTestDBErr)
	}
	return sharedTestDB
}

func setupTestDB() (*testDB, error) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       "cropadvisor",
				"POSTGRES_USER":     "cropadvisor",
				"POSTGRES_PASSWORD": "test_password",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return nil, fmt.Errorf("container port: %w", err)
	}

	dsn := fmt.Sprintf("postgres://cropadvisor:test_password@%s:%s/cropadvisor?sslmode=disable", host, port.Port())

	if err := RunMigrations(dsn, zap.NewNop()); err != nil {
		return nil, err
	}

	pool, err := NewPool(ctx, dsn, zap.NewNop())
	if err != nil {
		return nil, err
	}

	return &testDB{container: container, pool: pool, dsn: dsn}, nil
}

func seedFarm(t *testing.T, db *testDB, lang string) (userID, farmID int64) {
	t.Helper()
	ctx := context.Background()

	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (name, language_preference, discord_id) VALUES ($1, NULLIF($2, ''), $3) RETURNING id`,
		"Farmer", lang, fmt.Sprintf("d-%d", time.Now().UnixNano()),
	).Scan(&userID)
	require.NoError(t, err)

	err = db.pool.QueryRow(ctx,
		`INSERT INTO farms (user_id, name, area_ha) VALUES ($1, 'North plot', 1.5) RETURNING id`, userID,
	).Scan(&farmID)
	require.NoError(t, err)
	return userID, farmID
}

func TestFarmRepository_FindOwned(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	repo := NewFarmRepository(db.pool)

	userID, farmID := seedFarm(t, db, "hi")
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := db.pool.Exec(ctx, `
		INSERT INTO soil_samples (farm_id, sample_date, n, p, k, ph, extra) VALUES
		($1, $2, 0.4, 0.2, 0.3, 6.5, '{"moisture": 21}'),
		($1, $3, 0.1, NULL, 0.2, NULL, NULL)`,
		farmID, t0.Add(48*time.Hour), t0)
	require.NoError(t, err)

	farm, err := repo.FindOwned(ctx, farmID, userID)
	require.NoError(t, err)
	assert.Equal(t, "North plot", farm.Name)
	require.NotNil(t, farm.AreaHa)
	assert.Equal(t, 1.5, *farm.AreaHa)
	require.Len(t, farm.Observations, 2)
	assert.True(t, farm.Observations[0].ObservedAt.Equal(t0))
	assert.Nil(t, farm.Observations[0].P)
	assert.Nil(t, farm.Observations[0].Extra)
	assert.Equal(t, float64(21), farm.Observations[1].Extra["moisture"])

	latest := farm.LatestObservation()
	require.NotNil(t, latest)
	assert.Equal(t, 0.4, *latest.N)

	_, err = repo.FindOwned(ctx, farmID, userID+1000)
	assert.ErrorIs(t, err, domain.ErrFarmNotFound)
}

func TestPredictionRepository_CreateListFind(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	repo := NewPredictionRepository(db.pool)
	_, farmID := seedFarm(t, db, "")

	n := 0.1
	cost := 150.0
	first := &entities.PredictionRecord{
		FarmID:       farmID,
		Crop:         "Rice",
		YieldKgPerHa: 2100,
		Confidence:   0.6,
		ModelVersion: "baseline-v0",
		Inputs: entities.PredictionInputs{
			FeatureSet: entities.FeatureSet{Crop: "rice", N: &n},
			Recommendation: entities.LocalizedRecommendation{
				TitleKey:     "rec.low_n_title",
				TitleParams:  map[string]any{"kg": 20},
				TitleText:    "Low nitrogen",
				Steps:        []entities.LocalizedStep{{Key: "rec.step_apply_urea", Params: map[string]any{"kg_per_ha": 20}, Text: "Apply"}},
				CostEstimate: &cost,
			},
		},
	}
	require.NoError(t, repo.Create(ctx, first))
	assert.NotZero(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second := &entities.PredictionRecord{FarmID: farmID, Crop: "wheat", YieldKgPerHa: 2500, Confidence: 0.6, ModelVersion: "baseline-v0"}
	require.NoError(t, repo.Create(ctx, second))

	list, err := repo.ListByFarm(ctx, farmID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	got, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rice", got.Crop)
	assert.Equal(t, "rice", got.Inputs.Crop)
	require.NotNil(t, got.Inputs.N)
	assert.Equal(t, 0.1, *got.Inputs.N)
	assert.Equal(t, "Low nitrogen", got.Inputs.Recommendation.TitleText)
	require.Len(t, got.Inputs.Recommendation.Steps, 1)
	assert.Equal(t, "rec.step_apply_urea", got.Inputs.Recommendation.Steps[0].Key)

	_, err = repo.FindByID(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrPredictionNotFound)

	empty, err := repo.ListByFarm(ctx, -1)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPredictionRepository_CreateFailsForUnknownFarm(t *testing.T) {
	db := getTestDB(t)
	repo := NewPredictionRepository(db.pool)

	err := repo.Create(context.Background(), &entities.PredictionRecord{FarmID: -42, Crop: "rice", ModelVersion: "baseline-v0"})

	assert.Error(t, err)
}

func TestUserRepository(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db.pool)

	userID, _ := seedFarm(t, db, "hi")
	noPrefID, _ := seedFarm(t, db, "")

	u, err := repo.FindByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "hi", u.LanguagePreference)

	byDiscord, err := repo.FindByDiscordID(ctx, u.DiscordID)
	require.NoError(t, err)
	assert.Equal(t, userID, byDiscord.ID)

	noPref, err := repo.FindByID(ctx, noPrefID)
	require.NoError(t, err)
	assert.Empty(t, noPref.LanguagePreference)

	_, err = repo.FindByID(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
