// Package scheduler drives the periodic deadline scan. Each tick is a single
// synchronous unit of work; a failed scan is logged and the next tick runs
// normally.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"notedo/internal/notify"
)

// Scheduler triggers the deadline scanner on a fixed interval.
type Scheduler struct {
	scanner  *notify.DeadlineScanner
	interval time.Duration
	log      *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a scheduler running the scanner every interval.
func New(scanner *notify.DeadlineScanner, interval time.Duration, log *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scanner:  scanner,
		interval: interval,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins scanning: one immediate scan, then one per interval.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
	s.log.Info("deadline scheduler started", "interval", s.interval)
}

// Stop cancels the scan loop and waits for an in-flight scan to finish.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	s.log.Info("deadline scheduler stopped")
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.scan()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.scan()
		}
	}
}

func (s *Scheduler) scan() {
	notified, archived, err := s.scanner.ScanAndDispatch(s.ctx, time.Now())
	if err != nil {
		if s.ctx.Err() == nil {
			s.log.Error("deadline scan failed", "error", err)
		}
		return
	}
	s.log.Info("deadline scan completed", "notified", notified, "archived", archived)
}
