package versioner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupVersioner(t *testing.T) (*gorm.DB, *Versioner) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	ver := NewVersioner(db, "_test_migrations")
	require.NoError(t, ver.Initialize(context.Background()))
	return db, ver
}

func TestInitialize(t *testing.T) {
	db, ver := setupVersioner(t)

	var count int64
	require.NoError(t, db.Table("_test_migrations").Count(&count).Error)
	assert.Zero(t, count)

	// Initialize is idempotent
	assert.NoError(t, ver.Initialize(context.Background()))
}

func TestRecordAndRemoveApplied(t *testing.T) {
	ctx := context.Background()
	_, ver := setupVersioner(t)

	applied, err := ver.IsApplied(ctx, "202510190001")
	require.NoError(t, err)
	assert.False(t, applied)

	require.NoError(t, ver.RecordApplied(ctx, "202510190001", "create_catalog"))
	applied, err = ver.IsApplied(ctx, "202510190001")
	require.NoError(t, err)
	assert.True(t, applied)

	require.NoError(t, ver.RemoveApplied(ctx, "202510190001"))
	applied, err = ver.IsApplied(ctx, "202510190001")
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestGetAppliedVersionsOrdered(t *testing.T) {
	ctx := context.Background()
	_, ver := setupVersioner(t)

	for _, v := range []string{"202510190003", "202510190001", "202510190002"} {
		require.NoError(t, ver.RecordApplied(ctx, v, "m_"+v))
	}

	applied, err := ver.GetAppliedVersions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"202510190001", "202510190002", "202510190003"}, applied)

	latest, err := ver.GetLatestVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "202510190003", latest)

	count, err := ver.GetAppliedCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestGetLatestVersionEmpty(t *testing.T) {
	_, ver := setupVersioner(t)

	latest, err := ver.GetLatestVersion(context.Background())
	require.NoError(t, err)
	assert.Empty(t, latest)
}

func TestWithTxRollsBackRecord(t *testing.T) {
	ctx := context.Background()
	db, ver := setupVersioner(t)

	errAbort := errors.New("abort")
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ver.WithTx(tx).RecordApplied(ctx, "202510190001", "create_catalog"); err != nil {
			return err
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	applied, err := ver.IsApplied(ctx, "202510190001")
	require.NoError(t, err)
	assert.False(t, applied)
}
