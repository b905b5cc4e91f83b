package CronJobs

import (
	"fmt"
	"log"

	"Pulse/Scrapper"

	"github.com/robfig/cron/v3"
)

// BankRateSync refreshes the stored central bank rates on a schedule.
type BankRateSync struct {
	cronScheduler  *cron.Cron
	pageURL        string
	runImmediately bool
	jobID          cron.EntryID
}

// NewBankRateSync creates the sync job for the given rates page.
func NewBankRateSync(pageURL string, runImmediately bool) *BankRateSync {
	return &BankRateSync{
		cronScheduler:  cron.New(cron.WithSeconds()),
		pageURL:        pageURL,
		runImmediately: runImmediately,
	}
}

// Start schedules the sync. The bank publishes new rates once per business
// day, so one morning run is enough.
func (s *BankRateSync) Start() error {
	var err error
	s.jobID, err = s.cronScheduler.AddFunc("0 0 7 * * *", func() {
		log.Println("Running scheduled bank rate sync")
		s.runSync()
	})

	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	s.cronScheduler.Start()
	fmt.Println("Bank rate sync scheduler started - will run daily at 7:00 AM")

	if s.runImmediately {
		fmt.Println("Running initial bank rate sync")
		s.runSync()
	}

	return nil
}

// Stop terminates the scheduler.
func (s *BankRateSync) Stop() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
		log.Println("Bank rate sync scheduler stopped")
	}
}

// UpdateSchedule changes the sync schedule.
// Format: "0 0 7 * * *" = At 07:00:00 AM every day
func (s *BankRateSync) UpdateSchedule(schedule string) error {
	s.cronScheduler.Remove(s.jobID)

	var err error
	s.jobID, err = s.cronScheduler.AddFunc(schedule, func() {
		log.Println("Running scheduled bank rate sync")
		s.runSync()
	})

	if err != nil {
		return fmt.Errorf("error rescheduling cron job: %w", err)
	}

	return nil
}

func (s *BankRateSync) runSync() {
	if err := Scrapper.SyncBankRates(s.pageURL); err != nil {
		log.Printf("Bank rate sync failed: %v", err)
	}
}
