package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/uptrace/bun"

	"scratch-tracker/internal/models"
)

var (
	ErrNotFound  = errors.New("employee not found")
	ErrDuplicate = errors.New("employee already exists")
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) ListEmployees() ([]models.Employee, error) {
	var employees []models.Employee
	err := d.Bun.NewSelect().
		Model(&employees).
		Order("name ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return employees, nil
}

func (d *DB) GetEmployeeByName(name string) (*models.Employee, error) {
	var employee models.Employee
	err := d.Bun.NewSelect().
		Model(&employee).
		Where("name = ?", name).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (d *DB) CreateEmployee(employee models.Employee) error {
	_, err := d.Bun.NewInsert().Model(&employee).Exec(context.Background())
	if err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key value")) {
		return ErrDuplicate
	}
	return err
}

func (d *DB) DeleteEmployee(id string) error {
	result, err := d.Bun.NewDelete().
		Model((*models.Employee)(nil)).
		Where("id = ?", id).
		Exec(context.Background())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
