package main

import (
	"encoding/json"
	"os"
	"os/user"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/mccallie-ff/marcy/playoffs"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	dataDir = ".marcy"
	dbName  = "marcy.db"
)

// initDatabase opens (creating if needed) the run history database. An empty
// dir means ~/.marcy.
func initDatabase(dir string) (*gorm.DB, error) {
	if dir == "" {
		// Get the OS specific home directory via the Go standard lib.
		var homeDir string
		usr, err := user.Current()
		if err == nil {
			homeDir = usr.HomeDir
		}

		// Fall back to standard HOME environment variable that works
		// for most POSIX OSes if the directory from the Go standard
		// lib failed.
		if err != nil || homeDir == "" {
			homeDir = os.Getenv("HOME")
		}
		dir = path.Join(homeDir, dataDir)
	}

	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(path.Join(dir, dbName)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := applyMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

func applyMigrations(db *gorm.DB) error {
	return db.AutoMigrate(&OddsRun{})
}

// saveOddsRun stores a finished simulation together with the request that
// produced it.
func saveOddsRun(db *gorm.DB, req *OddsRequest, res *playoffs.Result) (*OddsRun, error) {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	tableJSON, err := json.Marshal(res.Ranked())
	if err != nil {
		return nil, err
	}
	run := &OddsRun{
		RunID:        uuid.NewString(),
		Label:        req.Label,
		Trials:       res.Trials,
		PlayoffSlots: res.PlayoffSlots,
		Seed:         res.Seed,
		Teams:        len(res.Probabilities),
		Weeks:        len(res.Weeks),
		Request:      reqJSON,
		Table:        tableJSON,
	}
	if err := db.Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func listOddsRuns(db *gorm.DB, limit int) ([]OddsRun, error) {
	var runs []OddsRun
	err := db.Omit("request").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

func getOddsRun(db *gorm.DB, runID string) (*OddsRun, error) {
	run := &OddsRun{}
	if err := db.First(run, "run_id = ?", runID).Error; err != nil {
		return nil, err
	}
	return run, nil
}

// deleteOddsRun removes a run for good. It reports whether a row existed.
func deleteOddsRun(db *gorm.DB, runID string) (bool, error) {
	result := db.Unscoped().Delete(&OddsRun{}, "run_id = ?", runID)
	return result.RowsAffected > 0, result.Error
}

// pruneOddsRuns deletes every run created before cutoff.
func pruneOddsRuns(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Unscoped().Where("created_at < ?", cutoff).Delete(&OddsRun{})
	return result.RowsAffected, result.Error
}
