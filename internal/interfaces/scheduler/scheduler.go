package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Config holds scheduler settings.
type Config struct {
	CronSpec     string
	WorkerCount  int
	JobDelay     time.Duration
	QueueSize    int
	RunOnStartup bool
}

// Scheduler runs the reminder scan on a cron schedule and feeds the
// resulting jobs to the worker pool.
type Scheduler struct {
	pool         *WorkerPool
	cron         *cron.Cron
	jobProvider  func(context.Context) ([]Job, error)
	runOnStartup bool
}

func New(cfg Config, jobProvider func(context.Context) ([]Job, error)) (*Scheduler, error) {
	s := &Scheduler{
		pool:         NewWorkerPool(cfg.WorkerCount, cfg.JobDelay, cfg.QueueSize),
		cron:         cron.New(),
		jobProvider:  jobProvider,
		runOnStartup: cfg.RunOnStartup,
	}

	if _, err := s.cron.AddFunc(cfg.CronSpec, s.runOnce); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", cfg.CronSpec, err)
	}
	return s, nil
}

// Start launches the workers and the cron loop.
func (s *Scheduler) Start() {
	s.pool.Start()
	s.cron.Start()
	log.Println("Scheduler started")

	if s.runOnStartup {
		go s.runOnce()
	}
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	jobs, err := s.jobProvider(ctx)
	if err != nil {
		log.Printf("Scheduler: failed to build jobs: %v", err)
		return
	}
	if len(jobs) == 0 {
		log.Println("Scheduler: nothing due")
		return
	}
	s.pool.SubmitBatch(jobs)
}

// Shutdown stops the cron loop and drains the worker pool.
func (s *Scheduler) Shutdown(timeout time.Duration) {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(timeout):
	}
	s.pool.ShutdownWithTimeout(timeout)
	log.Println("Scheduler stopped")
}
