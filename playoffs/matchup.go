package playoffs

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// MatchupOdds is the projected outcome of a single scheduled game.
type MatchupOdds struct {
	Week          int     `json:"week"`
	HomeTeamID    string  `json:"homeTeamId"`
	AwayTeamID    string  `json:"awayTeamId"`
	HomeWinProb   float64 `json:"homeWinProb"`
	AwayWinProb   float64 `json:"awayWinProb"`
	HomeMoneyline int     `json:"homeMoneyline"`
	AwayMoneyline int     `json:"awayMoneyline"`
	Spread        float64 `json:"spread"`
}

// WinProbability is the chance that a outscores b in a single week when both
// scores are Normal. The difference of the two scores is itself Normal, so
// no simulation is needed.
func WinProbability(a, b TeamSeasonRecord) float64 {
	sa := math.Max(a.PointsStdDev, MinPointsStdDev)
	sb := math.Max(b.PointsStdDev, MinPointsStdDev)
	z := (a.PointsMean - b.PointsMean) / math.Sqrt(sa*sa+sb*sb)
	return distuv.UnitNormal.CDF(z)
}

// PreviewWeek prices every matchup of one scheduled week. Week 0 picks the
// earliest week in the schedule.
func PreviewWeek(records []TeamSeasonRecord, schedule []ScheduledMatchup, week int) ([]MatchupOdds, error) {
	index, err := validateRecords(records)
	if err != nil {
		return nil, err
	}
	weeks, _, err := validateSchedule(schedule, index, 0)
	if err != nil {
		return nil, err
	}
	if len(weeks) == 0 {
		return nil, fmt.Errorf("%w: no remaining matchups", ErrInvalidSchedule)
	}
	if week == 0 {
		week = weeks[0]
	}

	var out []MatchupOdds
	for _, m := range schedule {
		if m.Week != week {
			continue
		}
		home := records[index[m.HomeTeamID]]
		away := records[index[m.AwayTeamID]]
		p := WinProbability(home, away)
		out = append(out, MatchupOdds{
			Week:          week,
			HomeTeamID:    home.TeamID,
			AwayTeamID:    away.TeamID,
			HomeWinProb:   p,
			AwayWinProb:   1 - p,
			HomeMoneyline: Moneyline(p),
			AwayMoneyline: Moneyline(1 - p),
			Spread:        away.PointsMean - home.PointsMean,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: week %d is not on the schedule", ErrInvalidSchedule, week)
	}
	return out, nil
}

// Moneyline converts a win probability into American odds. Favourites are
// rounded to the nearest 10, short underdogs up to the next 10 and long
// underdogs up to the next 25. Certain outcomes have no line and return 0.
func Moneyline(p float64) int {
	if p <= 0 || p >= 1 {
		return 0
	}
	if p >= 0.5 {
		raw := -p / (1 - p) * 100
		return int(math.Round(raw/10)) * 10
	}
	raw := (1 - p) / p * 100
	if raw < 200 {
		return int(math.Ceil(raw/10)) * 10
	}
	return int(math.Ceil(raw/25)) * 25
}
