package playoffs

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	results := []GameResult{
		{Week: 1, HomeTeamID: "alpha", AwayTeamID: "bravo", HomeScore: 110, AwayScore: 90},
		{Week: 2, HomeTeamID: "bravo", AwayTeamID: "alpha", HomeScore: 100, AwayScore: 120},
		{Week: 3, HomeTeamID: "alpha", AwayTeamID: "bravo", HomeScore: 95, AwayScore: 95},
	}

	records, err := Summarize(results)
	require.NoError(t, err)
	require.Len(t, records, 2)

	alpha, bravo := records[0], records[1]
	assert.Equal(t, "alpha", alpha.TeamID)
	assert.Equal(t, 3, alpha.GamesPlayed)
	assert.Equal(t, 2, alpha.Wins)
	assert.Equal(t, 1, alpha.Ties)
	assert.InDelta(t, 325.0, alpha.PointsTotal, 1e-9)
	assert.InDelta(t, 325.0/3, alpha.PointsMean, 1e-9)
	// Sample standard deviation of 110, 120, 95.
	assert.InDelta(t, 12.583057392117917, alpha.PointsStdDev, 1e-9)

	assert.Equal(t, "bravo", bravo.TeamID)
	assert.Equal(t, 0, bravo.Wins)
	assert.Equal(t, 1, bravo.Ties)
	assert.InDelta(t, 285.0, bravo.PointsTotal, 1e-9)
	assert.Equal(t, 3, CompletedWeek(results))
}

func TestSummarize_SingleGameUsesLeagueSpread(t *testing.T) {
	results := []GameResult{
		{Week: 1, HomeTeamID: "a", AwayTeamID: "b", HomeScore: 80, AwayScore: 120},
		{Week: 1, HomeTeamID: "c", AwayTeamID: "d", HomeScore: 100, AwayScore: 100},
	}
	records, err := Summarize(results)
	require.NoError(t, err)
	require.Len(t, records, 4)

	spread := math.Sqrt(800.0 / 3) // sample stddev of 80, 120, 100, 100
	for _, r := range records {
		assert.Equal(t, 1, r.GamesPlayed, r.TeamID)
		assert.InDelta(t, spread, r.PointsStdDev, 1e-9, r.TeamID)
	}
	assert.Equal(t, 1, records[1].Wins)
	assert.Equal(t, 0, records[2].Wins)
	assert.Equal(t, 0, records[3].Wins)
}

func TestSummarize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		results []GameResult
	}{
		{"two games in a week", []GameResult{
			{Week: 1, HomeTeamID: "a", AwayTeamID: "b", HomeScore: 1, AwayScore: 2},
			{Week: 1, HomeTeamID: "a", AwayTeamID: "c", HomeScore: 1, AwayScore: 2},
		}},
		{"self matchup", []GameResult{{Week: 1, HomeTeamID: "a", AwayTeamID: "a"}}},
		{"missing id", []GameResult{{Week: 1, HomeTeamID: "a"}}},
		{"nan score", []GameResult{{Week: 1, HomeTeamID: "a", AwayTeamID: "b", HomeScore: math.NaN()}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Summarize(tt.results)
			assert.ErrorIs(t, err, ErrInvalidRecord)
		})
	}
}

func TestSummarize_FeedsSimulator(t *testing.T) {
	var results []GameResult
	ids := []string{"a", "b", "c", "d"}
	for _, m := range roundRobin(ids, 1, 6) {
		home := 100.0
		if m.HomeTeamID == "a" {
			home = 140
		}
		results = append(results, GameResult{
			Week: m.Week, HomeTeamID: m.HomeTeamID, AwayTeamID: m.AwayTeamID,
			HomeScore: home + float64(m.Week), AwayScore: 100 + float64(m.Week%3),
		})
	}
	records, err := Summarize(results)
	require.NoError(t, err)

	cfg := seeded(DefaultConfig(), 11)
	cfg.Trials = 1000
	cfg.PlayoffSlots = 2
	cfg.CompletedWeek = CompletedWeek(results)

	res, err := ComputePlayoffOdds(context.Background(), records, roundRobin(ids, 7, 3), cfg)
	require.NoError(t, err)
	assert.Len(t, res.Probabilities, 4)
	assert.Equal(t, []int{7, 8, 9}, res.Weeks)
}

func TestStandings(t *testing.T) {
	records := []TeamSeasonRecord{
		{TeamID: "c", GamesPlayed: 6, Wins: 3, PointsTotal: 600},
		{TeamID: "a", GamesPlayed: 6, Wins: 3, PointsTotal: 600},
		{TeamID: "b", GamesPlayed: 6, Wins: 3, PointsTotal: 650},
		{TeamID: "d", GamesPlayed: 6, Wins: 5, PointsTotal: 500},
	}
	table := Standings(records)
	require.Len(t, table, 4)

	var order []string
	for i, s := range table {
		order = append(order, s.TeamID)
		assert.Equal(t, i+1, s.Rank)
	}
	assert.Equal(t, []string{"d", "b", "a", "c"}, order)
	assert.Equal(t, 1, table[0].Losses)
}

func TestStandings_TiesAreNotLosses(t *testing.T) {
	results := []GameResult{
		{Week: 1, HomeTeamID: "alpha", AwayTeamID: "bravo", HomeScore: 110, AwayScore: 90},
		{Week: 2, HomeTeamID: "bravo", AwayTeamID: "alpha", HomeScore: 101.5, AwayScore: 101.5},
		{Week: 3, HomeTeamID: "alpha", AwayTeamID: "bravo", HomeScore: 88, AwayScore: 97},
	}
	records, err := Summarize(results)
	require.NoError(t, err)

	table := Standings(records)
	require.Len(t, table, 2)
	for _, s := range table {
		assert.Equal(t, 1, s.Wins, s.TeamID)
		assert.Equal(t, 1, s.Losses, s.TeamID)
		assert.Equal(t, 1, s.Ties, s.TeamID)
	}
}
