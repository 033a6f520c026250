package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"

	"scratch-tracker/internal/employees/db"
	"scratch-tracker/internal/models"
)

func setupTestDB(t *testing.T) (*db.DB, *bun.DB) {
	sqldb, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	if _, err := bunDB.NewCreateTable().Model((*models.Employee)(nil)).Exec(context.Background()); err != nil {
		t.Fatalf("Failed to create employee table: %v", err)
	}

	return &db.DB{Bun: bunDB}, bunDB
}

func TestCreateAndListEmployees(t *testing.T) {
	employeeDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	for _, name := range []string{"Charlie", "Alice", "Bob"} {
		err := employeeDB.CreateEmployee(models.Employee{
			ID:        uuid.New().String(),
			Name:      name,
			CreatedAt: time.Now(),
		})
		require.NoError(t, err)
	}

	employees, err := employeeDB.ListEmployees()
	require.NoError(t, err)
	require.Len(t, employees, 3)

	// Alphabetical order
	assert.Equal(t, "Alice", employees[0].Name)
	assert.Equal(t, "Bob", employees[1].Name)
	assert.Equal(t, "Charlie", employees[2].Name)
}

func TestCreateEmployeeDuplicateName(t *testing.T) {
	employeeDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	employee := models.Employee{ID: uuid.New().String(), Name: "Alice", CreatedAt: time.Now()}
	require.NoError(t, employeeDB.CreateEmployee(employee))

	dup := models.Employee{ID: uuid.New().String(), Name: "Alice", CreatedAt: time.Now()}
	assert.ErrorIs(t, employeeDB.CreateEmployee(dup), db.ErrDuplicate)
}

func TestGetEmployeeByName(t *testing.T) {
	employeeDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	employee := models.Employee{ID: uuid.New().String(), Name: "Alice", CreatedAt: time.Now()}
	require.NoError(t, employeeDB.CreateEmployee(employee))

	found, err := employeeDB.GetEmployeeByName("Alice")
	require.NoError(t, err)
	assert.Equal(t, employee.ID, found.ID)

	_, err = employeeDB.GetEmployeeByName("Nobody")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestDeleteEmployee(t *testing.T) {
	employeeDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	employee := models.Employee{ID: uuid.New().String(), Name: "Alice", CreatedAt: time.Now()}
	require.NoError(t, employeeDB.CreateEmployee(employee))

	require.NoError(t, employeeDB.DeleteEmployee(employee.ID))
	assert.ErrorIs(t, employeeDB.DeleteEmployee(employee.ID), db.ErrNotFound)

	employees, err := employeeDB.ListEmployees()
	require.NoError(t, err)
	assert.Empty(t, employees)
}
