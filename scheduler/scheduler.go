package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"listing_resolver/config"
)

// Runner processes one dropped batch file. Implemented by the CLI layer.
type Runner interface {
	RunFile(ctx context.Context, path string) error
}

// Scheduler drives daemon mode: on a cron expression or fixed interval it
// scans the watch directory for CSV batches, processes each, and moves it
// into a done/ subdirectory.
type Scheduler struct {
	cfg    config.SchedulerConfig
	runner Runner
	cron   *cron.Cron
	ticker *time.Ticker
	stopCh chan struct{}
}

func New(cfg config.SchedulerConfig, runner Runner) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		runner: runner,
		cron:   cron.New(),
		stopCh: make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Join(s.cfg.WatchDir, "done"), 0755); err != nil {
		return fmt.Errorf("create watch dir: %w", err)
	}

	if s.cfg.Cron != "" {
		log.Printf("Scheduler: cron %s", s.cfg.Cron)
		_, err := s.cron.AddFunc(s.cfg.Cron, func() { s.sweep(ctx) })
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		s.cron.Start()
		return nil
	}

	interval := s.cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	log.Printf("Scheduler: interval %s", interval)
	s.ticker = time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.sweep(ctx)
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
}

// sweep processes every pending CSV in the watch directory. A file that
// fails stays in place for the next sweep.
func (s *Scheduler) sweep(ctx context.Context) {
	entries, err := os.ReadDir(s.cfg.WatchDir)
	if err != nil {
		log.Printf("Scheduler: read watch dir: %v", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".csv" {
			continue
		}

		path := filepath.Join(s.cfg.WatchDir, entry.Name())
		log.Printf("Scheduler: processing %s", path)

		if err := s.runner.RunFile(ctx, path); err != nil {
			log.Printf("Scheduler: %s failed: %v", path, err)
			continue
		}

		done := filepath.Join(s.cfg.WatchDir, "done", entry.Name())
		if err := os.Rename(path, done); err != nil {
			log.Printf("Scheduler: move %s: %v", path, err)
		}
	}
}
