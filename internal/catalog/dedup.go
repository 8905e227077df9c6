// Package catalog hosts the offline maintenance job that collapses
// case-variant duplicate game entries into a single canonical row per name.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"gameboxd/internal/logging"
	"gameboxd/internal/store"
)

// ErrAlreadyRunning indicates another dedup pass holds the lock file.
var ErrAlreadyRunning = errors.New("dedup job already running")

// Report describes one completed dedup pass.
type Report struct {
	BackupPath        string
	GamesRenamed      int
	GamesMerged       int
	ReviewsReassigned int
	ReviewsDeleted    int
}

// Changes reports whether the pass altered anything.
func (r Report) Changes() int {
	return r.GamesRenamed + r.GamesMerged + r.ReviewsReassigned + r.ReviewsDeleted
}

// Job runs the catalog normalization pass with single-instance locking and a
// pre-run database backup. The pass itself is all-or-nothing; the backup is
// the recovery mechanism if an operator aborts mid-run.
type Job struct {
	store  *store.Store
	logger *slog.Logger

	lockPath string
	lock     *flock.Flock
	now      func() time.Time
}

// NewJob constructs a dedup job over the given store.
func NewJob(st *store.Store, logger *slog.Logger) (*Job, error) {
	if st == nil {
		return nil, errors.New("dedup job requires a store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := st.Path() + ".lock"
	return &Job{
		store:    st,
		logger:   logging.NewComponentLogger(logger, "dedup"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
		now:      time.Now,
	}, nil
}

// Run executes the pass: acquire the lock, snapshot the database, normalize
// the catalog, release the lock. Running against an already normalized
// catalog is a no-op apart from the backup.
func (j *Job) Run(ctx context.Context) (Report, error) {
	var report Report

	ok, err := j.lock.TryLock()
	if err != nil {
		return report, fmt.Errorf("acquire dedup lock: %w", err)
	}
	if !ok {
		return report, ErrAlreadyRunning
	}
	defer func() {
		if unlockErr := j.lock.Unlock(); unlockErr != nil {
			j.logger.Warn("release dedup lock", logging.Error(unlockErr))
		}
	}()

	report.BackupPath = j.backupPath()
	if err := j.store.Backup(ctx, report.BackupPath); err != nil {
		return report, err
	}
	j.logger.Info("database backed up", logging.String("path", report.BackupPath))

	result, err := j.store.NormalizeCatalog(ctx)
	if err != nil {
		return report, fmt.Errorf("normalize catalog: %w", err)
	}
	report.GamesRenamed = result.GamesRenamed
	report.GamesMerged = result.GamesMerged
	report.ReviewsReassigned = result.ReviewsReassigned
	report.ReviewsDeleted = result.ReviewsDeleted

	j.logger.Info("dedup pass complete",
		logging.Int("games_renamed", report.GamesRenamed),
		logging.Int("games_merged", report.GamesMerged),
		logging.Int("reviews_reassigned", report.ReviewsReassigned),
		logging.Int("reviews_deleted", report.ReviewsDeleted))
	return report, nil
}

// backupPath derives a timestamped sibling of the database file. VACUUM INTO
// refuses to overwrite, so repeated runs in the same second get a numeric
// suffix.
func (j *Job) backupPath() string {
	base := strings.TrimSuffix(j.store.Path(), filepath.Ext(j.store.Path()))
	stamp := j.now().UTC().Format("20060102-150405")
	candidate := fmt.Sprintf("%s-%s.bak", base, stamp)
	for n := 1; fileExists(candidate); n++ {
		candidate = fmt.Sprintf("%s-%s-%d.bak", base, stamp, n)
	}
	return candidate
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
