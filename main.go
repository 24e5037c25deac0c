package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"gorm.io/gorm"
)

type Server struct {
	db *gorm.DB
	r  chi.Router

	log      zerolog.Logger
	defaults simDefaults
	timeout  time.Duration
}

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.AddCommand("serve", "Run the playoff odds HTTP service",
		"Serves playoff odds simulations over HTTP and keeps a history of runs.",
		&serveCommand{opts: &opts})
	parser.AddCommand("simulate", "Simulate playoff odds from a JSON file",
		"Reads league records (or completed results) and the remaining schedule as JSON and prints the playoff odds table.",
		&simulateCommand{opts: &opts})

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

type serverConfig struct {
	defaults  simDefaults
	timeout   time.Duration
	rateLimit string
	origins   []string
	allowAll  bool
}

func newServer(db *gorm.DB, log zerolog.Logger, cfg serverConfig) (*Server, error) {
	rate, err := limiter.NewRateFromFormatted(cfg.rateLimit)
	if err != nil {
		return nil, err
	}
	simLimiter := stdlib.NewMiddleware(limiter.New(memory.NewStore(), rate))

	origins := cfg.origins
	if cfg.allowAll || len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s := &Server{
		db:       db,
		r:        r,
		log:      log,
		defaults: cfg.defaults,
		timeout:  cfg.timeout,
	}

	r.With(simLimiter.Handler).Post("/api/odds", s.POSTOddsHandler)
	r.With(simLimiter.Handler).Post("/api/matchups", s.POSTMatchupsHandler)
	r.Get("/api/odds/runs", s.GETOddsRunsHandler)
	r.Get("/api/odds/runs/{id}", s.GETOddsRunHandler)
	r.Delete("/api/odds/runs/{id}", s.DELETEOddsRunHandler)

	return s, nil
}

func (c *serveCommand) Execute(_ []string) error {
	log, err := newLogger(c.opts, nil)
	if err != nil {
		return err
	}

	db, err := initDatabase(c.opts.DataDir)
	if err != nil {
		log.Error().Err(err).Msg("database initialization failed")
		return err
	}

	s, err := newServer(db, log, serverConfig{
		defaults:  c.defaults(),
		timeout:   c.Timeout,
		rateLimit: c.RateLimit,
		origins:   c.Origins,
		allowAll:  c.Dev,
	})
	if err != nil {
		return err
	}

	if c.Retention > 0 {
		sched := cron.New()
		_, err := sched.AddFunc("@hourly", func() {
			n, err := pruneOddsRuns(db, time.Now().Add(-c.Retention))
			if err != nil {
				log.Error().Err(err).Msg("pruning odds runs")
				return
			}
			if n > 0 {
				log.Info().Int64("deleted", n).Msg("pruned old odds runs")
			}
		})
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              c.Listen,
		Handler:           s.r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	log.Info().Str("listen", c.Listen).Msg("serving playoff odds")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
