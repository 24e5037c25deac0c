package playoffs

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// ComputePlayoffOdds simulates the rest of the season cfg.Trials times and
// returns how often each team finished inside the top cfg.PlayoffSlots.
//
// All input is validated before the first trial. Any failure, including
// cancellation of ctx, fails the whole call and no partial table is returned.
func ComputePlayoffOdds(ctx context.Context, records []TeamSeasonRecord, schedule []ScheduledMatchup, cfg Config) (*Result, error) {
	s, err := newSeason(records, schedule, cfg)
	if err != nil {
		return nil, err
	}

	seed := randomSeed()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}

	res := &Result{
		Trials:        cfg.Trials,
		PlayoffSlots:  cfg.PlayoffSlots,
		Seed:          seed,
		Weeks:         s.weeks,
		Probabilities: make(map[string]float64, len(s.ids)),
		standings:     Standings(records),
	}

	var qualified []int
	if len(s.schedule) == 0 {
		// Nothing left to play: the current table is final.
		qualified = make([]int, len(s.ids))
		for _, st := range res.standings[:cfg.PlayoffSlots] {
			qualified[indexOf(s.ids, st.TeamID)] = cfg.Trials
		}
	} else {
		qualified, err = runTrials(ctx, s, cfg, uint64(seed))
		if err != nil {
			return nil, err
		}
	}

	for i, id := range s.ids {
		p := float64(qualified[i]) / float64(cfg.Trials) * 100
		if !finite(p) || p < 0 || p > 100 {
			return nil, fmt.Errorf("%w: team %q probability %v out of range", ErrSimulation, id, p)
		}
		res.Probabilities[id] = p
	}
	return res, nil
}

// runTrials splits the trials into contiguous chunks, one per worker. Each
// worker keeps its own tally and the tallies are summed once every worker has
// finished, so the totals do not depend on how trials were scheduled.
func runTrials(ctx context.Context, s *season, cfg Config, seed uint64) ([]int, error) {
	workers := cfg.Parallelism
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > cfg.Trials {
		workers = cfg.Trials
	}
	newGen := cfg.NewGenerator
	if newGen == nil {
		newGen = NewPCGGenerator
	}

	tallies := make([][]int, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * cfg.Trials / workers
		end := (w + 1) * cfg.Trials / workers
		g.Go(func() error {
			tr := newTrialRunner(s, newGen(), seed, cfg.PlayoffSlots)
			for t := start; t < end; t++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := tr.run(t); err != nil {
					return err
				}
			}
			tallies[w] = tr.qualified
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := make([]int, len(s.ids))
	for _, tally := range tallies {
		for i, n := range tally {
			total[i] += n
		}
	}
	return total, nil
}

// trialRunner holds one worker's scratch state. Nothing in it is shared.
type trialRunner struct {
	s     *season
	gen   Generator
	seed  uint64
	slots int

	wins      []int
	points    []float64
	order     []int
	qualified []int
}

func newTrialRunner(s *season, gen Generator, seed uint64, slots int) *trialRunner {
	n := len(s.ids)
	return &trialRunner{
		s:         s,
		gen:       gen,
		seed:      seed,
		slots:     slots,
		wins:      make([]int, n),
		points:    make([]float64, n),
		order:     make([]int, n),
		qualified: make([]int, n),
	}
}

func (tr *trialRunner) run(trial int) error {
	s := tr.s
	copy(tr.wins, s.wins)
	copy(tr.points, s.points)
	tr.gen.Reset(tr.seed, trial)

	for wi, week := range s.schedule {
		for _, p := range week {
			home := s.mean[p.home] + s.stddev[p.home]*tr.gen.NormFloat64()
			away := s.mean[p.away] + s.stddev[p.away]*tr.gen.NormFloat64()
			if !finite(home) || !finite(away) {
				return fmt.Errorf("%w: trial %d week %d: non-finite score for %q vs %q",
					ErrSimulation, trial, s.weeks[wi], s.ids[p.home], s.ids[p.away])
			}

			// Equal scores go to the team with more points before this
			// week, then to the home team.
			homeWins := home > away ||
				(home == away && tr.points[p.home] >= tr.points[p.away])
			if homeWins {
				tr.wins[p.home]++
			} else {
				tr.wins[p.away]++
			}
			tr.points[p.home] += home
			tr.points[p.away] += away
		}
	}

	for i := range tr.order {
		tr.order[i] = i
	}
	sort.Slice(tr.order, func(i, j int) bool {
		a, b := tr.order[i], tr.order[j]
		return ranksAhead(tr.wins[a], tr.points[a], s.ids[a], tr.wins[b], tr.points[b], s.ids[b])
	})
	for _, t := range tr.order[:tr.slots] {
		tr.qualified[t]++
	}
	return nil
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
