// Package scheduler runs a periodic extract-all trigger on a cron
// schedule read from configure.toml. The reference crate had no such
// loop; this supplements it the way the teacher runs its own re-scrape
// loop — a global gocron.Scheduler wrapping one cron entry — grounded on
// internal/scheduler/scheduler.go, retargeted at internal/cruler instead
// of the teacher's ScrapingJob engine.
package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"

	"github.com/cruler-project/cruler/internal/logx"
)

// Scheduler wraps a gocron.Scheduler running one job: a periodic
// extract-all over the rule files under RootPath.
type Scheduler struct {
	gocron   *gocron.Scheduler
	rootPath string
	logger   *logx.Logger
}

// New builds a Scheduler. rootPath is passed through to
// cruler.ExtractAllFromRoot on every tick; a nil logger disables logging.
func New(rootPath string, logger *logx.Logger) *Scheduler {
	if logger == nil {
		logger, _ = logx.New("", logx.LevelInfo, false)
	}
	return &Scheduler{
		gocron:   gocron.NewScheduler(time.UTC),
		rootPath: rootPath,
		logger:   logger,
	}
}

// Start schedules run (normally cruler.ExtractAllFromRoot bound to
// rootPath) against cronExpr and begins running it asynchronously. A
// second call replaces the previously scheduled job.
func (s *Scheduler) Start(cronExpr string, run func(rootPath string) error) error {
	s.gocron.Clear()

	_, err := s.gocron.Cron(cronExpr).Do(func() {
		s.logger.Info("scheduler: running extract-all", map[string]any{"root": s.rootPath})
		if err := run(s.rootPath); err != nil {
			s.logger.Error("scheduler: extract-all failed", map[string]any{"error": err.Error()})
		}
	})
	if err != nil {
		return err
	}

	s.gocron.StartAsync()
	return nil
}

// Stop halts the scheduler, letting any in-flight run finish.
func (s *Scheduler) Stop() {
	s.gocron.Stop()
}
