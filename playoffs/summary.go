package playoffs

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GameResult is a completed matchup.
type GameResult struct {
	Week       int     `json:"week"`
	HomeTeamID string  `json:"homeTeamId"`
	AwayTeamID string  `json:"awayTeamId"`
	HomeScore  float64 `json:"homeScore"`
	AwayScore  float64 `json:"awayScore"`
}

// Summarize turns completed matchups into season records. A win is a
// strictly higher score; a tied game counts as played but awards no win.
//
// The scoring distribution of each team is the sample mean and standard
// deviation of its weekly scores. A team with a single game has no spread of
// its own and takes the standard deviation of every score in the league.
func Summarize(results []GameResult) ([]TeamSeasonRecord, error) {
	type teamGames struct {
		weeks  map[int]bool
		scores []float64
		wins   int
		ties   int
	}
	teams := make(map[string]*teamGames)
	var all []float64

	add := func(id string, week int, score, opponent float64) error {
		tg, ok := teams[id]
		if !ok {
			tg = &teamGames{weeks: make(map[int]bool)}
			teams[id] = tg
		}
		if tg.weeks[week] {
			return fmt.Errorf("%w: team %q has more than one game in week %d", ErrInvalidRecord, id, week)
		}
		tg.weeks[week] = true
		tg.scores = append(tg.scores, score)
		switch {
		case score > opponent:
			tg.wins++
		case score == opponent:
			tg.ties++
		}
		all = append(all, score)
		return nil
	}

	for i, g := range results {
		if g.HomeTeamID == "" || g.AwayTeamID == "" {
			return nil, fmt.Errorf("%w: result %d is missing a team id", ErrInvalidRecord, i)
		}
		if g.HomeTeamID == g.AwayTeamID {
			return nil, fmt.Errorf("%w: week %d: team %q played itself", ErrInvalidRecord, g.Week, g.HomeTeamID)
		}
		if !finite(g.HomeScore) || !finite(g.AwayScore) {
			return nil, fmt.Errorf("%w: week %d: non-finite score in %q vs %q",
				ErrInvalidRecord, g.Week, g.HomeTeamID, g.AwayTeamID)
		}
		if err := add(g.HomeTeamID, g.Week, g.HomeScore, g.AwayScore); err != nil {
			return nil, err
		}
		if err := add(g.AwayTeamID, g.Week, g.AwayScore, g.HomeScore); err != nil {
			return nil, err
		}
	}

	var pooled float64
	if len(all) > 1 {
		pooled = stat.StdDev(all, nil)
	}

	records := make([]TeamSeasonRecord, 0, len(teams))
	for id, tg := range teams {
		r := TeamSeasonRecord{
			TeamID:      id,
			GamesPlayed: len(tg.scores),
			Wins:        tg.wins,
			Ties:        tg.ties,
			PointsTotal: floats.Sum(tg.scores),
		}
		if len(tg.scores) > 1 {
			r.PointsMean, r.PointsStdDev = stat.MeanStdDev(tg.scores, nil)
		} else {
			r.PointsMean = tg.scores[0]
			r.PointsStdDev = pooled
		}
		if math.IsNaN(r.PointsStdDev) {
			r.PointsStdDev = 0
		}
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].TeamID < records[j].TeamID })
	return records, nil
}

// CompletedWeek returns the latest week that appears in results.
func CompletedWeek(results []GameResult) int {
	var last int
	for _, g := range results {
		if g.Week > last {
			last = g.Week
		}
	}
	return last
}
