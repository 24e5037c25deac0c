package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/mccallie-ff/marcy/playoffs"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var errBadRequest = errors.New("bad request")

// OddsRequest is the body of POST /api/odds and POST /api/matchups, and the
// input file of the simulate command. Exactly one of Records and Results is
// set; Results are summarized into records before simulating.
type OddsRequest struct {
	Label         string                      `json:"label"`
	Records       []playoffs.TeamSeasonRecord `json:"records"`
	Results       []playoffs.GameResult       `json:"results"`
	Schedule      []playoffs.ScheduledMatchup `json:"schedule"`
	Trials        int                         `json:"trials"`
	PlayoffSlots  int                         `json:"playoffSlots"`
	RandomSeed    *int64                      `json:"randomSeed"`
	Parallelism   int                         `json:"parallelism"`
	CompletedWeek int                         `json:"completedWeek"`
	Week          int                         `json:"week"`
}

// OddsRun is a stored simulation.
type OddsRun struct {
	gorm.Model
	RunID        string         `json:"runId" gorm:"uniqueIndex"`
	Label        string         `json:"label"`
	Trials       int            `json:"trials"`
	PlayoffSlots int            `json:"playoffSlots"`
	Seed         int64          `json:"seed"`
	Teams        int            `json:"teams"`
	Weeks        int            `json:"weeks"`
	Request      datatypes.JSON `json:"request,omitempty" gorm:"type:json"`
	Table        datatypes.JSON `json:"table" gorm:"type:json"`
}

type OddsResponse struct {
	RunID        string              `json:"runId"`
	Label        string              `json:"label,omitempty"`
	Trials       int                 `json:"trials"`
	PlayoffSlots int                 `json:"playoffSlots"`
	Seed         int64               `json:"seed"`
	Weeks        []int               `json:"weeks"`
	Teams        []playoffs.TeamOdds `json:"teams"`
	CreatedAt    time.Time           `json:"createdAt"`
}

// simDefaults fill in whatever a request leaves unset.
type simDefaults struct {
	Trials       int
	PlayoffSlots int
	Parallelism  int
}

// season returns the records to simulate and the last completed week.
func (req *OddsRequest) season() ([]playoffs.TeamSeasonRecord, int, error) {
	switch {
	case len(req.Records) > 0 && len(req.Results) > 0:
		return nil, 0, fmt.Errorf("%w: send either records or results, not both", errBadRequest)
	case len(req.Records) > 0:
		return req.Records, req.CompletedWeek, nil
	case len(req.Results) > 0:
		records, err := playoffs.Summarize(req.Results)
		if err != nil {
			return nil, 0, err
		}
		week := req.CompletedWeek
		if week == 0 {
			week = playoffs.CompletedWeek(req.Results)
		}
		return records, week, nil
	default:
		return nil, 0, fmt.Errorf("%w: records or results are required", errBadRequest)
	}
}

func (d simDefaults) config(req *OddsRequest, completedWeek int) playoffs.Config {
	cfg := playoffs.DefaultConfig()
	if d.Trials != 0 {
		cfg.Trials = d.Trials
	}
	if d.PlayoffSlots != 0 {
		cfg.PlayoffSlots = d.PlayoffSlots
	}
	cfg.Parallelism = d.Parallelism

	if req.Trials != 0 {
		cfg.Trials = req.Trials
	}
	if req.PlayoffSlots != 0 {
		cfg.PlayoffSlots = req.PlayoffSlots
	}
	if req.Parallelism != 0 {
		cfg.Parallelism = req.Parallelism
	}
	cfg.Seed = req.RandomSeed
	cfg.CompletedWeek = completedWeek
	return cfg
}

func isInputError(err error) bool {
	return errors.Is(err, errBadRequest) ||
		errors.Is(err, playoffs.ErrInvalidSchedule) ||
		errors.Is(err, playoffs.ErrInsufficientData) ||
		errors.Is(err, playoffs.ErrInvalidConfig) ||
		errors.Is(err, playoffs.ErrInvalidRecord)
}
