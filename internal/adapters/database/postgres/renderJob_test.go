package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/Badsnus/qrlabels/internal/domain/common/errorz"
	"github.com/Badsnus/qrlabels/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// openTestDB connects to QRLABELS_TEST_DSN and migrates into a fresh
// transaction that is rolled back after the test.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("QRLABELS_TEST_DSN")
	if dsn == "" {
		t.Skip("QRLABELS_TEST_DSN is not set")
	}
	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{Logger: gormLogger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Migrations...))

	tx := db.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() { tx.Rollback() })
	return tx
}

func TestRenderJobStorage(t *testing.T) {
	s := NewRenderJobStorage(openTestDB(t))
	ctx := context.Background()

	before, err := s.Count(ctx)
	require.NoError(t, err)

	job := &entity.RenderJob{
		ID:            uuid.NewString(),
		Template:      "avery_5658",
		Labels:        23,
		TotalPages:    2,
		LabelsPerPage: 12,
		Placeholders:  pq.Int64Array{4},
	}
	_, err = s.Create(ctx, job)
	require.NoError(t, err)

	got, err := s.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "avery_5658", got.Template)
	assert.Equal(t, pq.Int64Array{4}, got.Placeholders)

	latest, err := s.GetLatest(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, job.ID, latest[0].ID)

	after, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	_, err = s.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, errorz.ErrJobNotFound)
}
