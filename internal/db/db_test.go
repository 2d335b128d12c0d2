package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"curbside-backend/config"
	"curbside-backend/internal/model"
)

func TestInitAndSeed_SQLite(t *testing.T) {
	gormDB, err := Init(&config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1, LogLevel: "silent"})
	require.NoError(t, err)

	cfg := &config.Config{
		Tariffs: []config.WindowSeed{
			{ID: "C1", Days: []string{"mon", "tue", "wed", "thu", "fri"}, Start: "07:00", End: "19:00"},
		},
		PrivilegedZones: []config.WindowSeed{
			{ID: "5", Days: []string{"sat", "sun"}, Start: "19:00", End: "24:00"},
		},
	}
	ctx := context.Background()
	require.NoError(t, Seed(ctx, gormDB, cfg))
	require.NoError(t, Seed(ctx, gormDB, cfg))

	var tariffs, privileged int64
	require.NoError(t, gormDB.Model(&model.TariffWindow{}).Count(&tariffs).Error)
	require.NoError(t, gormDB.Model(&model.PrivilegedWindow{}).Count(&privileged).Error)
	assert.Equal(t, int64(5), tariffs)
	assert.Equal(t, int64(2), privileged)

	for _, m := range []interface{}{&model.Permit{}, &model.ParkingDailyBudget{}, &model.ParkingSession{}} {
		assert.True(t, gormDB.Migrator().HasTable(m))
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, logLevel("silent"))
	assert.Equal(t, logger.Error, logLevel("ERROR"))
	assert.Equal(t, logger.Info, logLevel("info"))
	assert.Equal(t, logger.Warn, logLevel(""))
}
