package scheduler

import (
	"context"
	"fmt"
	"time"

	"salon-pos/internal/config"
	"salon-pos/internal/models"

	"github.com/go-co-op/gocron"
)

// Uploader is the part of the sheets client the backup job needs.
type Uploader interface {
	Import(ctx context.Context, sales []models.Sale) error
}

// Source loads every sale to back up.
type Source func() ([]models.Sale, error)

// BackupJob mirrors the full sales list to the spreadsheet.
type BackupJob struct {
	load    Source
	upload  Uploader
	timeout time.Duration
}

func NewBackupJob(load Source, upload Uploader, timeout time.Duration) *BackupJob {
	return &BackupJob{load: load, upload: upload, timeout: timeout}
}

// Run performs one backup and returns how many sales were sent.
func (j *BackupJob) Run() (int, error) {
	sales, err := j.load()
	if err != nil {
		return 0, fmt.Errorf("backup: load: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	if err := j.upload.Import(ctx, sales); err != nil {
		return 0, fmt.Errorf("backup: upload: %w", err)
	}
	return len(sales), nil
}

func (j *BackupJob) run() {
	logger := config.GetLogger()
	n, err := j.Run()
	if err != nil {
		config.LogError(logger, "scheduler", "BackupJob.run", "nightly backup", nil, err)
		return
	}
	config.LogInfo(logger, "scheduler", "BackupJob.run", "nightly backup sent", map[string]any{"sales": n})
}

// Start schedules the job daily at "HH:MM" in loc and starts the scheduler in
// the background. The caller stops it with Stop.
func Start(job *BackupJob, at string, loc *time.Location) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(loc)
	if _, err := s.Every(1).Day().At(at).Do(job.run); err != nil {
		return nil, fmt.Errorf("schedule backup at %q: %w", at, err)
	}
	s.StartAsync()
	return s, nil
}
