package infra

import (
	"log"

	"github.com/robfig/cron/v3"

	"ensotrade/internal/repository"
)

// Scheduler manages periodic maintenance of the local fallback store.
// The store caps history per user on every append, but a crash between
// load and write can leave extra rows behind; the hourly compaction
// re-applies the cap for every user.
type Scheduler struct {
	cron  *cron.Cron
	local *repository.LocalAnalysisStore
}

// NewScheduler creates a new maintenance scheduler
func NewScheduler(local *repository.LocalAnalysisStore) *Scheduler {
	return &Scheduler{
		cron:  cron.New(),
		local: local,
	}
}

// Start registers the compaction job and starts the scheduler
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("0 * * * *", func() {
		if err := s.local.Compact(); err != nil {
			log.Printf("[ERROR] Fallback store compaction failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Println("[OK] Fallback compaction scheduled hourly")
	return nil
}

// Stop stops the scheduler gracefully
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[OK] Scheduler stopped")
}
