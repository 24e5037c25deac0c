package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Test_pruneOddsRuns(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = applyMigrations(db)
	assert.NoError(t, err)

	req := &OddsRequest{Label: "old", Records: testRecords(), Schedule: testSchedule()}
	res, err := runOdds(context.Background(), req, simDefaults{Trials: 20, PlayoffSlots: 2})
	require.NoError(t, err)

	old, err := saveOddsRun(db, req, res)
	require.NoError(t, err)
	require.NoError(t, db.Model(old).Update("created_at", time.Now().Add(-48*time.Hour)).Error)

	req.Label = "new"
	fresh, err := saveOddsRun(db, req, res)
	require.NoError(t, err)

	n, err := pruneOddsRuns(db, time.Now().Add(-24*time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = getOddsRun(db, old.RunID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	kept, err := getOddsRun(db, fresh.RunID)
	assert.NoError(t, err)
	assert.Equal(t, "new", kept.Label)
	assert.Equal(t, res.Seed, kept.Seed)
}
