package playoffs

import (
	"fmt"
	"math"
	"sort"
)

// season is the validated, index-based form of the input that trials run on.
type season struct {
	ids    []string
	wins   []int
	points []float64
	mean   []float64
	stddev []float64

	weeks    []int
	schedule [][]pairing
}

type pairing struct {
	home, away int
}

func validateConfig(cfg Config, teams int) error {
	if cfg.Trials <= 0 {
		return fmt.Errorf("%w: trials must be positive, got %d", ErrInvalidConfig, cfg.Trials)
	}
	if cfg.PlayoffSlots < 1 || cfg.PlayoffSlots > teams {
		return fmt.Errorf("%w: playoff slots must be in [1, %d], got %d",
			ErrInvalidConfig, teams, cfg.PlayoffSlots)
	}
	if cfg.Parallelism < 0 {
		return fmt.Errorf("%w: parallelism must not be negative, got %d", ErrInvalidConfig, cfg.Parallelism)
	}
	return nil
}

func validateRecords(records []TeamSeasonRecord) (map[string]int, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no team records", ErrInsufficientData)
	}
	index := make(map[string]int, len(records))
	for i, r := range records {
		if r.TeamID == "" {
			return nil, fmt.Errorf("%w: record %d has no team id", ErrInvalidRecord, i)
		}
		if _, dup := index[r.TeamID]; dup {
			return nil, fmt.Errorf("%w: duplicate team %q", ErrInvalidRecord, r.TeamID)
		}
		index[r.TeamID] = i

		if r.GamesPlayed <= 0 {
			return nil, fmt.Errorf("%w: team %q has no completed games", ErrInsufficientData, r.TeamID)
		}
		if r.Wins < 0 || r.Wins > r.GamesPlayed {
			return nil, fmt.Errorf("%w: team %q has %d wins in %d games",
				ErrInvalidRecord, r.TeamID, r.Wins, r.GamesPlayed)
		}
		if r.Ties < 0 || r.Wins+r.Ties > r.GamesPlayed {
			return nil, fmt.Errorf("%w: team %q has %d wins and %d ties in %d games",
				ErrInvalidRecord, r.TeamID, r.Wins, r.Ties, r.GamesPlayed)
		}
		if !finite(r.PointsMean) || !finite(r.PointsTotal) || !finite(r.PointsStdDev) || r.PointsStdDev < 0 {
			return nil, fmt.Errorf("%w: team %q has malformed scoring distribution (mean=%v stddev=%v total=%v)",
				ErrInvalidRecord, r.TeamID, r.PointsMean, r.PointsStdDev, r.PointsTotal)
		}
	}
	return index, nil
}

// validateSchedule groups the matchups by week and checks that every week
// pairs each team exactly once.
func validateSchedule(schedule []ScheduledMatchup, index map[string]int, completedWeek int) ([]int, [][]pairing, error) {
	byWeek := make(map[int][]pairing)
	for _, m := range schedule {
		if m.Week <= 0 {
			return nil, nil, fmt.Errorf("%w: week %d is not a valid week", ErrInvalidSchedule, m.Week)
		}
		if completedWeek > 0 && m.Week <= completedWeek {
			return nil, nil, fmt.Errorf("%w: week %d has already been completed (through week %d)",
				ErrInvalidSchedule, m.Week, completedWeek)
		}
		home, ok := index[m.HomeTeamID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: week %d: unknown team %q", ErrInvalidSchedule, m.Week, m.HomeTeamID)
		}
		away, ok := index[m.AwayTeamID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: week %d: unknown team %q", ErrInvalidSchedule, m.Week, m.AwayTeamID)
		}
		if home == away {
			return nil, nil, fmt.Errorf("%w: week %d: team %q is scheduled against itself",
				ErrInvalidSchedule, m.Week, m.HomeTeamID)
		}
		byWeek[m.Week] = append(byWeek[m.Week], pairing{home: home, away: away})
	}

	weeks := make([]int, 0, len(byWeek))
	for w := range byWeek {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)

	ids := make([]string, len(index))
	for id, i := range index {
		ids[i] = id
	}

	out := make([][]pairing, len(weeks))
	for wi, w := range weeks {
		seen := make([]bool, len(index))
		for _, p := range byWeek[w] {
			for _, t := range [2]int{p.home, p.away} {
				if seen[t] {
					return nil, nil, fmt.Errorf("%w: week %d: team %q plays more than once",
						ErrInvalidSchedule, w, ids[t])
				}
				seen[t] = true
			}
		}
		for t, ok := range seen {
			if !ok {
				return nil, nil, fmt.Errorf("%w: week %d: team %q has no matchup",
					ErrInvalidSchedule, w, ids[t])
			}
		}
		out[wi] = byWeek[w]
	}
	return weeks, out, nil
}

// newSeason validates all input up front so no trial starts on bad data.
func newSeason(records []TeamSeasonRecord, schedule []ScheduledMatchup, cfg Config) (*season, error) {
	index, err := validateRecords(records)
	if err != nil {
		return nil, err
	}
	if err := validateConfig(cfg, len(records)); err != nil {
		return nil, err
	}
	weeks, pairings, err := validateSchedule(schedule, index, cfg.CompletedWeek)
	if err != nil {
		return nil, err
	}

	s := &season{
		ids:      make([]string, len(records)),
		wins:     make([]int, len(records)),
		points:   make([]float64, len(records)),
		mean:     make([]float64, len(records)),
		stddev:   make([]float64, len(records)),
		weeks:    weeks,
		schedule: pairings,
	}
	for i, r := range records {
		s.ids[i] = r.TeamID
		s.wins[i] = r.Wins
		s.points[i] = r.PointsTotal
		s.mean[i] = r.PointsMean
		s.stddev[i] = math.Max(r.PointsStdDev, MinPointsStdDev)
	}
	return s, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
