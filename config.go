package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// options are shared by every command. Values can also come from the
// environment or a .env file in the working directory.
type options struct {
	DataDir  string `long:"datadir" env:"MARCY_DATADIR" description:"Directory holding the run history database (default ~/.marcy)"`
	LogLevel string `long:"loglevel" env:"MARCY_LOG_LEVEL" default:"info" description:"Log level (trace, debug, info, warn, error)"`
	LogJSON  bool   `long:"logjson" env:"MARCY_LOG_JSON" description:"Write logs as JSON instead of console text"`

	Parallelism int `long:"parallelism" env:"MARCY_PARALLELISM" default:"0" description:"Simulation workers (0 = one per CPU)"`
}

type serveCommand struct {
	opts *options

	Trials       int `long:"trials" env:"MARCY_TRIALS" default:"10000" description:"Trials for requests that do not set them"`
	PlayoffSlots int `long:"slots" env:"MARCY_PLAYOFF_SLOTS" default:"8" description:"Playoff spots for requests that do not set them"`

	Listen    string        `long:"listen" env:"MARCY_LISTEN" default:":8080" description:"HTTP listen address"`
	Timeout   time.Duration `long:"timeout" env:"MARCY_SIM_TIMEOUT" default:"30s" description:"Maximum time a single simulation may run"`
	RateLimit string        `long:"ratelimit" env:"MARCY_RATE_LIMIT" default:"30-M" description:"Simulation requests allowed per client, e.g. 30-M or 500-H"`
	Retention time.Duration `long:"retention" env:"MARCY_RETENTION" default:"720h" description:"How long stored runs are kept (0 keeps them forever)"`
	Origins   []string      `long:"origin" env:"MARCY_CORS_ORIGINS" env-delim:"," description:"Allowed CORS origin (repeatable)"`
	Dev       bool          `long:"dev" env:"MARCY_DEV" description:"Allow every CORS origin"`
}

type simulateCommand struct {
	opts *options

	File   string `short:"f" long:"file" description:"JSON input file (default stdin)"`
	Trials int    `long:"trials" description:"Number of simulated seasons, overriding the input file"`
	Slots  int    `long:"slots" description:"Number of playoff spots, overriding the input file"`
	Seed   string `long:"seed" description:"Random seed for a reproducible run"`
	Label  string `long:"label" description:"Label printed above the table"`
	JSON   bool   `long:"json" description:"Print the result as JSON"`
}

func (c *serveCommand) defaults() simDefaults {
	return simDefaults{
		Trials:       c.Trials,
		PlayoffSlots: c.PlayoffSlots,
		Parallelism:  c.opts.Parallelism,
	}
}

// apply overrides the request with every flag given on the command line.
func (c *simulateCommand) apply(req *OddsRequest) error {
	if c.Seed != "" {
		seed, err := strconv.ParseInt(c.Seed, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed %q: %w", c.Seed, err)
		}
		req.RandomSeed = &seed
	}
	if c.Trials != 0 {
		req.Trials = c.Trials
	}
	if c.Slots != 0 {
		req.PlayoffSlots = c.Slots
	}
	if c.Label != "" {
		req.Label = c.Label
	}
	return nil
}

func newLogger(o *options, out io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(o.LogLevel)
	if err != nil {
		return zerolog.Nop(), err
	}
	if out == nil {
		out = os.Stderr
	}
	if !o.LogJSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
