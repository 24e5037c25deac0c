package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/mccallie-ff/marcy/playoffs"
)

func (c *simulateCommand) Execute(_ []string) error {
	log, err := newLogger(c.opts, nil)
	if err != nil {
		return err
	}

	var in io.Reader
	switch {
	case c.File != "":
		f, err := os.Open(c.File)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	case stdinHasData():
		in = os.Stdin
	default:
		return errors.New("please supply -f or pipe league JSON to stdin")
	}

	var req OddsRequest
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := c.apply(&req); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := runOdds(ctx, &req, simDefaults{Parallelism: c.opts.Parallelism})
	if err != nil {
		return err
	}
	log.Debug().Int64("seed", res.Seed).Int("trials", res.Trials).Msg("simulation complete")

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(OddsResponse{
			Label:        req.Label,
			Trials:       res.Trials,
			PlayoffSlots: res.PlayoffSlots,
			Seed:         res.Seed,
			Weeks:        res.Weeks,
			Teams:        res.Ranked(),
		})
	}
	printOddsTable(os.Stdout, req.Label, res)
	return nil
}

func runOdds(ctx context.Context, req *OddsRequest, d simDefaults) (*playoffs.Result, error) {
	records, completedWeek, err := req.season()
	if err != nil {
		return nil, err
	}
	return playoffs.ComputePlayoffOdds(ctx, records, req.Schedule, d.config(req, completedWeek))
}

func printOddsTable(w io.Writer, label string, res *playoffs.Result) {
	if label != "" {
		fmt.Fprintln(w, label)
	}
	fmt.Fprintf(w, "%-4s %-20s %3s %9s %9s\n", "Rank", "Team", "W", "PF", "Playoff%")
	for _, t := range res.Ranked() {
		fmt.Fprintf(w, "%-4d %-20s %3d %9.2f %8.2f%%", t.Rank, t.TeamID, t.Wins, t.PointsTotal, t.Probability)
		switch {
		case t.Clinched:
			fmt.Fprint(w, "  clinched")
		case t.Eliminated:
			fmt.Fprint(w, "  eliminated")
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d trials, %d playoff spots, %d weeks left, seed %d\n",
		res.Trials, res.PlayoffSlots, len(res.Weeks), res.Seed)
}

func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
