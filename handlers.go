package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mccallie-ff/marcy/playoffs"
	"gorm.io/gorm"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
	maxBodyBytes     = 4 << 20
)

func decodeOddsRequest(w http.ResponseWriter, r *http.Request) (*OddsRequest, bool) {
	var req OddsRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		http.Error(w, "Bad request", http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}

func (s *Server) POSTOddsHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeOddsRequest(w, r)
	if !ok {
		return
	}

	records, completedWeek, err := req.season()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cfg := s.defaults.config(req, completedWeek)
	if cfg.Parallelism == 0 || cfg.Parallelism > runtime.GOMAXPROCS(0) {
		cfg.Parallelism = runtime.GOMAXPROCS(0)
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	start := time.Now()
	res, err := playoffs.ComputePlayoffOdds(ctx, records, req.Schedule, cfg)
	if err != nil {
		switch {
		case isInputError(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, context.DeadlineExceeded):
			s.log.Warn().Int("trials", cfg.Trials).Dur("timeout", s.timeout).Msg("simulation timed out")
			http.Error(w, "Simulation timed out", http.StatusGatewayTimeout)
		case errors.Is(err, context.Canceled):
			// The client went away; nobody is left to read a response.
			s.log.Debug().Err(err).Msg("simulation canceled by client")
		default:
			s.log.Error().Err(err).Msg("simulation failed")
			http.Error(w, "Simulation failed", http.StatusInternalServerError)
		}
		return
	}

	run, err := saveOddsRun(s.db, req, res)
	if err != nil {
		s.log.Error().Err(err).Msg("saving odds run")
		http.Error(w, "Could not save run", http.StatusInternalServerError)
		return
	}
	s.log.Info().
		Str("run", run.RunID).
		Int("teams", run.Teams).
		Int("weeks", run.Weeks).
		Int("trials", run.Trials).
		Int64("seed", run.Seed).
		Dur("took", time.Since(start)).
		Msg("simulated playoff odds")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(OddsResponse{
		RunID:        run.RunID,
		Label:        run.Label,
		Trials:       res.Trials,
		PlayoffSlots: res.PlayoffSlots,
		Seed:         res.Seed,
		Weeks:        res.Weeks,
		Teams:        res.Ranked(),
		CreatedAt:    run.CreatedAt,
	})
}

func (s *Server) GETOddsRunsHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			http.Error(w, "Malformed limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxRunsLimit)
	}

	runs, err := listOddsRuns(s.db, limit)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

func (s *Server) GETOddsRunHandler(w http.ResponseWriter, r *http.Request) {
	run, err := getOddsRun(s.db, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Run not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

func (s *Server) DELETEOddsRunHandler(w http.ResponseWriter, r *http.Request) {
	found, err := deleteOddsRun(s.db, chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Could not delete run", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) POSTMatchupsHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeOddsRequest(w, r)
	if !ok {
		return
	}
	records, _, err := req.season()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	odds, err := playoffs.PreviewWeek(records, req.Schedule, req.Week)
	if err != nil {
		if isInputError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, fmt.Sprintf("Could not price matchups: %s", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(odds)
}
