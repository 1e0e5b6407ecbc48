// Package scheduler runs periodic catalog backups.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/logging"
	"github.com/mrlokans/bookcatalog/internal/storage"
)

const (
	backupPrefix     = "library-"
	backupSuffix     = ".json"
	backupTimeFormat = "20060102T150405.000Z"
)

// SnapshotSource provides the books to back up.
type SnapshotSource interface {
	Snapshot() []*entities.Book
}

// BackupConfig controls where and how often backups are written.
type BackupConfig struct {
	Schedule string
	Dir      string
	// Keep is the number of most recent backups retained. Zero keeps all.
	Keep int
}

// BackupScheduler periodically writes the catalog to timestamped JSON files
// in the same format as the main catalog file.
type BackupScheduler struct {
	source SnapshotSource
	cfg    BackupConfig
	logger *log.Logger
	now    func() time.Time

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	runMu      sync.Mutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewBackupScheduler creates a new scheduler instance
func NewBackupScheduler(source SnapshotSource, cfg BackupConfig, logger *log.Logger) *BackupScheduler {
	return &BackupScheduler{
		source: source,
		cfg:    cfg,
		logger: logging.OrDefault(logger).WithPrefix("backup"),
		now:    time.Now,
		cron:   cron.New(cron.WithParser(parser)),
	}
}

// Start schedules the backup job. The scheduler stops when ctx ends.
func (s *BackupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.cfg.Dir == "" {
		return fmt.Errorf("backup directory not configured")
	}

	if err := ValidateCronSchedule(s.cfg.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, s.runBackup)
	if err != nil {
		return fmt.Errorf("failed to schedule backup job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	next, _ := GetNextRunTime(s.cfg.Schedule, s.now())
	s.logger.Info("scheduler started",
		"schedule", s.cfg.Schedule,
		"description", GetCronDescription(s.cfg.Schedule),
		"dir", s.cfg.Dir,
		"next", next)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running backup.
func (s *BackupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	s.logger.Info("scheduler stopped")
}

// IsRunning returns whether the scheduler is active
func (s *BackupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next backup will occur
func (s *BackupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// RunNow writes a backup immediately and applies retention. It returns the
// path of the new file.
func (s *BackupScheduler) RunNow() (string, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	books := s.source.Snapshot()
	rows := make([]storage.Row, 0, len(books))
	for _, b := range books {
		rows = append(rows, storage.FromBook(b))
	}

	name := backupPrefix + s.now().UTC().Format(backupTimeFormat) + backupSuffix
	path := filepath.Join(s.cfg.Dir, name)
	if err := storage.NewJSONFile(path).Save(rows); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	if err := s.prune(); err != nil {
		s.logger.Warn("failed to prune old backups", "err", err)
	}
	return path, nil
}

// Backups lists existing backup files, oldest first.
func (s *BackupScheduler) Backups() ([]string, error) {
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list backups: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
			continue
		}
		paths = append(paths, filepath.Join(s.cfg.Dir, name))
	}
	// Names embed a fixed-width UTC timestamp, so lexical order is time order.
	slices.Sort(paths)
	return paths, nil
}

func (s *BackupScheduler) prune() error {
	if s.cfg.Keep <= 0 {
		return nil
	}

	paths, err := s.Backups()
	if err != nil {
		return err
	}
	if len(paths) <= s.cfg.Keep {
		return nil
	}

	for _, path := range paths[:len(paths)-s.cfg.Keep] {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		s.logger.Debug("old backup removed", "file", path)
	}
	return nil
}

func (s *BackupScheduler) runBackup() {
	startTime := s.now()

	path, err := s.RunNow()
	if err != nil {
		s.logger.Error("backup failed", "err", err)
		return
	}
	s.logger.Info("backup written", "file", path, "duration", s.now().Sub(startTime).Round(time.Millisecond))
}
