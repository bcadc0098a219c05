package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// CronService runs the periodic maintenance jobs of the portal
type CronService struct {
	cron     *cron.Cron
	purger   ExpiredCredentialPurger
	schedule string
}

// NewCronService creates the scheduler. Nothing runs until Start.
func NewCronService(purger ExpiredCredentialPurger, schedule string) *CronService {
	return &CronService{
		cron:     cron.New(),
		purger:   purger,
		schedule: schedule,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.purgeExpiredCredentials); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("🕐 Cron started: credential cleanup [%s]", s.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 Cron stopped")
}

func (s *CronService) purgeExpiredCredentials() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := s.PurgeExpiredCredentials(ctx); err != nil {
		log.Printf("❌ Credential cleanup failed: %v", err)
	}
}

// PurgeExpiredCredentials removes persisted credentials past their expiry
func (s *CronService) PurgeExpiredCredentials(ctx context.Context) (int64, error) {
	removed, err := s.purger.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		log.Printf("🧹 Removed %d expired credential(s)", removed)
	}
	return removed, nil
}
