// Package playoffs forecasts how likely each team in a head-to-head fantasy
// league is to finish inside the playoff cut line. The forecast is a Monte
// Carlo simulation of the remaining schedule: every trial draws a weekly
// score for each team from a Normal distribution fitted to its completed
// weeks, resolves the matchups and ranks the final table.
//
// The package does no I/O. Callers supply the season-to-date records and the
// remaining schedule and get back a team -> probability table.
package playoffs

import (
	"errors"
	"sort"
)

const (
	DefaultTrials       = 10000
	DefaultPlayoffSlots = 8

	// MinPointsStdDev is the floor applied to every scoring distribution.
	MinPointsStdDev = 0.01
)

var (
	ErrInvalidSchedule  = errors.New("invalid schedule")
	ErrInsufficientData = errors.New("insufficient data")
	ErrInvalidConfig    = errors.New("invalid config")
	ErrInvalidRecord    = errors.New("invalid record")
	ErrSimulation       = errors.New("simulation failed")
)

// TeamSeasonRecord is one team's season to date. Ties count as games played
// but not as wins.
type TeamSeasonRecord struct {
	TeamID       string  `json:"teamId"`
	GamesPlayed  int     `json:"gamesPlayed"`
	Wins         int     `json:"wins"`
	Ties         int     `json:"ties,omitempty"`
	PointsMean   float64 `json:"pointsMean"`
	PointsStdDev float64 `json:"pointsStddev"`
	PointsTotal  float64 `json:"pointsTotal"`
}

// ScheduledMatchup is a game that has not been played yet.
type ScheduledMatchup struct {
	Week       int    `json:"week"`
	HomeTeamID string `json:"homeTeamId"`
	AwayTeamID string `json:"awayTeamId"`
}

// Config controls a simulation run. The zero value is not valid; start from
// DefaultConfig.
type Config struct {
	Trials       int
	PlayoffSlots int

	// Seed makes the run reproducible. When nil a seed is picked at random
	// and reported back in Result.Seed.
	Seed *int64

	// Parallelism is the number of workers. 0 uses GOMAXPROCS.
	Parallelism int

	// CompletedWeek, when positive, rejects scheduled weeks at or before it.
	CompletedWeek int

	// NewGenerator builds one generator per worker. Nil uses PCG.
	NewGenerator func() Generator
}

func DefaultConfig() Config {
	return Config{
		Trials:       DefaultTrials,
		PlayoffSlots: DefaultPlayoffSlots,
	}
}

// Result holds the qualification probability of every team, in percent.
type Result struct {
	Trials        int                `json:"trials"`
	PlayoffSlots  int                `json:"playoffSlots"`
	Seed          int64              `json:"seed"`
	Weeks         []int              `json:"weeks"`
	Probabilities map[string]float64 `json:"probabilities"`

	standings []Standing
}

// TeamOdds is one row of a ranked result table.
type TeamOdds struct {
	Rank        int     `json:"rank"`
	TeamID      string  `json:"teamId"`
	Wins        int     `json:"wins"`
	PointsTotal float64 `json:"pointsTotal"`
	Probability float64 `json:"probability"`

	// Clinched and Eliminated are set only when no remaining result can
	// change the outcome. A simulated 100 or 0 alone sets neither.
	Clinched   bool `json:"clinched,omitempty"`
	Eliminated bool `json:"eliminated,omitempty"`
}

// Ranked returns the table ordered by probability, highest first. Equal
// probabilities keep the current standings order. Rank is the current
// standing, not the position in the returned slice.
func (r *Result) Ranked() []TeamOdds {
	clinched, eliminated := settled(r.standings, len(r.Weeks), r.PlayoffSlots)
	rows := make([]TeamOdds, 0, len(r.standings))
	for _, s := range r.standings {
		rows = append(rows, TeamOdds{
			Rank:        s.Rank,
			TeamID:      s.TeamID,
			Wins:        s.Wins,
			PointsTotal: s.PointsTotal,
			Probability: r.Probabilities[s.TeamID],
			Clinched:    clinched[s.TeamID],
			Eliminated:  eliminated[s.TeamID],
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Probability > rows[j].Probability
	})
	return rows
}
