package tariff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"curbside-backend/config"
	"curbside-backend/internal/model"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.TariffWindow{}, &model.PrivilegedWindow{}))
	return db
}

func TestExpandSeeds(t *testing.T) {
	expanded, err := ExpandSeeds([]config.WindowSeed{
		{ID: "C1", Days: []string{"mon", "tue"}, Start: "07:00", End: "19:00"},
		{ID: "C1", Days: []string{"sat"}, Start: "07:00", End: "13:00"},
	})
	require.NoError(t, err)
	assert.Equal(t, []Window{
		{time.Monday, 420, 1140},
		{time.Tuesday, 420, 1140},
		{time.Saturday, 420, 780},
	}, expanded["C1"])

	_, err = ExpandSeeds([]config.WindowSeed{{ID: "C2", Days: []string{"mon"}, Start: "19:00", End: "07:00"}})
	assert.True(t, errors.Is(err, ErrInvalidWindow))

	_, err = ExpandSeeds([]config.WindowSeed{{ID: "C3", Days: []string{"someday"}, Start: "07:00", End: "09:00"}})
	assert.Error(t, err)
}

func TestSeedAndLoadWindows(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()

	tariffs := []config.WindowSeed{{ID: "C1", Days: []string{"mon", "fri"}, Start: "08:00", End: "18:00"}}
	require.NoError(t, SeedTariffWindows(ctx, db, tariffs))
	// Re-seeding with a new end time updates rather than duplicates.
	tariffs[0].End = "17:00"
	require.NoError(t, SeedTariffWindows(ctx, db, tariffs))

	ws, err := NewTariffSource(db).Windows(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, []Window{{time.Monday, 480, 1020}, {time.Friday, 480, 1020}}, ws)

	require.NoError(t, SeedPrivilegedWindows(ctx, db, []config.WindowSeed{{ID: "5", Days: []string{"sun"}, Start: "19:00", End: "24:00"}}))
	pws, err := NewPrivilegedSource(db).Windows(ctx, "5")
	require.NoError(t, err)
	assert.Equal(t, []Window{{time.Sunday, 1140, 1440}}, pws)

	none, err := NewTariffSource(db).Windows(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}
