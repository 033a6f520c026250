package backup

import (
	"fmt"
	"sync"
	"time"

	"scratch-tracker/internal/config"
	"scratch-tracker/internal/logger"
	"scratch-tracker/internal/models"
)

// Scheduler fires the nightly automatic backup. A coarse ticker checks the
// clock; lastRunDate guards against firing twice inside the same minute.
type Scheduler struct {
	Service *Service
	Config  config.BackupConfig
	Logger  *logger.Logger

	mu          sync.Mutex
	lastRunDate string
	running     bool
	stop        chan struct{}
	wg          sync.WaitGroup
}

func NewScheduler(service *Service, cfg config.BackupConfig, log *logger.Logger) *Scheduler {
	return &Scheduler{Service: service, Config: cfg, Logger: log}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || !s.Config.Enabled {
		return
	}
	s.running = true
	s.stop = make(chan struct{})

	s.wg.Add(1)
	go s.loop()

	s.Logger.Info("BACKUP", fmt.Sprintf("automatic backups scheduled daily at %02d:%02d (retention %d days)",
		s.Config.Hour, s.Config.Minute, s.Config.RetentionDays))
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	s.mu.Unlock()

	s.wg.Wait()
	s.Logger.Info("BACKUP", "backup scheduler stopped")
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	interval := s.Config.CheckInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			if s.due(now) {
				s.runOnce(now)
			}
		}
	}
}

func (s *Scheduler) due(now time.Time) bool {
	if now.Hour() != s.Config.Hour || now.Minute() != s.Config.Minute {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunDate != now.Format(models.ReportDateLayout)
}

func (s *Scheduler) runOnce(now time.Time) {
	s.mu.Lock()
	s.lastRunDate = now.Format(models.ReportDateLayout)
	s.mu.Unlock()

	if _, err := s.Service.Create(models.BackupTypeAuto); err != nil {
		s.Logger.Error("BACKUP", fmt.Sprintf("automatic backup failed: %v", err))
		return
	}
	if _, err := s.Service.CleanupOld(s.Config.RetentionDays); err != nil {
		s.Logger.Error("BACKUP", fmt.Sprintf("retention cleanup failed: %v", err))
	}
}
