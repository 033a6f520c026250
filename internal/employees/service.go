package employees

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"scratch-tracker/internal/employees/db"
	"scratch-tracker/internal/models"
)

type DBLayer interface {
	ListEmployees() ([]models.Employee, error)
	GetEmployeeByName(name string) (*models.Employee, error)
	CreateEmployee(employee models.Employee) error
	DeleteEmployee(id string) error
}

type Service struct {
	DB DBLayer
}

func NewService(database DBLayer) *Service {
	return &Service{DB: database}
}

func (s *Service) ListEmployees() ([]models.Employee, error) {
	return s.DB.ListEmployees()
}

func (s *Service) AddEmployee(name string) (*models.Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("employee name is required")
	}

	if _, err := s.DB.GetEmployeeByName(name); err == nil {
		return nil, db.ErrDuplicate
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to check employee: %w", err)
	}

	employee := models.Employee{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := s.DB.CreateEmployee(employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (s *Service) DeleteEmployee(id string) error {
	return s.DB.DeleteEmployee(id)
}
