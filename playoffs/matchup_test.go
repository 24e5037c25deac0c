package playoffs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWinProbability(t *testing.T) {
	a := TeamSeasonRecord{TeamID: "a", GamesPlayed: 4, PointsMean: 110, PointsStdDev: 15}
	b := TeamSeasonRecord{TeamID: "b", GamesPlayed: 4, PointsMean: 100, PointsStdDev: 20}

	p := WinProbability(a, b)
	// z = 10 / 25
	assert.InDelta(t, 0.6554217416103242, p, 1e-9)
	assert.InDelta(t, 1.0, p+WinProbability(b, a), 1e-12)
	assert.InDelta(t, 0.5, WinProbability(a, a), 1e-12)
}

func TestMoneyline(t *testing.T) {
	tests := []struct {
		p    float64
		want int
	}{
		{0.5, -100},
		{0.75, -300},
		{0.6554, -190},
		{0.4, 150},
		{0.2, 400},
		{0.3, 250},
		{0, 0},
		{1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Moneyline(tt.p), "p=%v", tt.p)
	}
}

func TestPreviewWeek(t *testing.T) {
	records := leagueRecords(4)
	schedule := roundRobin(teamIDs(records), 10, 2)

	odds, err := PreviewWeek(records, schedule, 0)
	require.NoError(t, err)
	require.Len(t, odds, 2)
	for _, o := range odds {
		assert.Equal(t, 10, o.Week)
		assert.InDelta(t, 1.0, o.HomeWinProb+o.AwayWinProb, 1e-12)
	}

	odds, err = PreviewWeek(records, schedule, 11)
	require.NoError(t, err)
	assert.Equal(t, 11, odds[0].Week)

	_, err = PreviewWeek(records, schedule, 14)
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, err = PreviewWeek(records, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}
