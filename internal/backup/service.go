package backup

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"scratch-tracker/internal/logger"
	"scratch-tracker/internal/models"
)

type DBLayer interface {
	ListBackups(limit int) ([]models.Backup, error)
	GetBackupByID(id string) (*models.Backup, error)
	InsertBackup(backup *models.Backup) error
	DeleteBackupsBefore(cutoff time.Time) (int, error)
}

// TicketSource and friends are the slices of the other services a snapshot
// pulls from.
type TicketSource interface {
	ListTickets() ([]models.Ticket, error)
	GetStates() ([]models.TicketState, error)
}

type EmployeeSource interface {
	ListEmployees() ([]models.Employee, error)
}

type ReportSource interface {
	ListReports(startDate, endDate string, limit int) ([]models.DailyReport, error)
}

type KafkaPublisher interface {
	Publish(topic, key string, value []byte) error
}

type Service struct {
	DB           DBLayer
	Tickets      TicketSource
	Employees    EmployeeSource
	Reports      ReportSource
	Kafka        KafkaPublisher
	CreatedTopic string
	Logger       *logger.Logger
}

func NewService(db DBLayer, tickets TicketSource, employees EmployeeSource, reports ReportSource, kafka KafkaPublisher, createdTopic string, log *logger.Logger) *Service {
	return &Service{
		DB:           db,
		Tickets:      tickets,
		Employees:    employees,
		Reports:      reports,
		Kafka:        kafka,
		CreatedTopic: createdTopic,
		Logger:       log,
	}
}

// Snapshot assembles the full export document from live data.
func (s *Service) Snapshot() (*models.BackupSnapshot, error) {
	tickets, err := s.Tickets.ListTickets()
	if err != nil {
		return nil, fmt.Errorf("snapshot tickets: %w", err)
	}
	states, err := s.Tickets.GetStates()
	if err != nil {
		return nil, fmt.Errorf("snapshot ticket states: %w", err)
	}
	employees, err := s.Employees.ListEmployees()
	if err != nil {
		return nil, fmt.Errorf("snapshot employees: %w", err)
	}
	reports, err := s.Reports.ListReports("", "", 0)
	if err != nil {
		return nil, fmt.Errorf("snapshot reports: %w", err)
	}

	return &models.BackupSnapshot{
		Tickets:      tickets,
		TicketStates: states,
		Employees:    employees,
		Reports:      reports,
		BackupDate:   time.Now().UTC(),
	}, nil
}

func (s *Service) Create(backupType string) (*models.Backup, error) {
	if backupType != models.BackupTypeAuto && backupType != models.BackupTypeManual {
		backupType = models.BackupTypeManual
	}

	snapshot, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	backup := &models.Backup{
		ID:         uuid.New().String(),
		BackupType: backupType,
		BackupData: payload,
		CreatedAt:  time.Now(),
	}
	if err := s.DB.InsertBackup(backup); err != nil {
		return nil, err
	}

	s.Logger.Info("BACKUP", fmt.Sprintf("%s backup %s created (%d bytes)", backupType, backup.ID, len(payload)))
	s.publishCreated(backup)

	return backup, nil
}

func (s *Service) List(limit int) ([]models.Backup, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.DB.ListBackups(limit)
}

// Download returns the stored snapshot document exactly as it was written.
func (s *Service) Download(id string) (json.RawMessage, error) {
	backup, err := s.DB.GetBackupByID(id)
	if err != nil {
		return nil, err
	}
	return backup.BackupData, nil
}

func (s *Service) CleanupOld(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	deleted, err := s.DB.DeleteBackupsBefore(cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.Logger.Info("BACKUP", fmt.Sprintf("retention cleanup removed %d backups older than %d days", deleted, retentionDays))
	}
	return deleted, nil
}

func (s *Service) publishCreated(backup *models.Backup) {
	if s.Kafka == nil || s.CreatedTopic == "" {
		return
	}
	event, err := json.Marshal(map[string]string{
		"backupId":   backup.ID,
		"backupType": backup.BackupType,
	})
	if err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("failed to marshal backup event: %v", err))
		return
	}
	if err := s.Kafka.Publish(s.CreatedTopic, backup.ID, event); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("failed to publish %s: %v", s.CreatedTopic, err))
	}
}
