package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"scratch-tracker/internal/models"
)

var ErrNotFound = errors.New("backup not found")

type DB struct {
	Bun *bun.DB
}

// ListBackups returns backup metadata only, newest first. The payload column
// stays out of list responses.
func (d *DB) ListBackups(limit int) ([]models.Backup, error) {
	var backups []models.Backup
	query := d.Bun.NewSelect().
		Model(&backups).
		Column("id", "backup_type", "created_at").
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(context.Background()); err != nil {
		return nil, err
	}
	return backups, nil
}

func (d *DB) GetBackupByID(id string) (*models.Backup, error) {
	var backup models.Backup
	err := d.Bun.NewSelect().
		Model(&backup).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &backup, nil
}

func (d *DB) InsertBackup(backup *models.Backup) error {
	_, err := d.Bun.NewInsert().
		Model(backup).
		Exec(context.Background())
	return err
}

// DeleteBackupsBefore removes backups older than the cutoff and reports how
// many rows went away.
func (d *DB) DeleteBackupsBefore(cutoff time.Time) (int, error) {
	res, err := d.Bun.NewDelete().
		Model((*models.Backup)(nil)).
		Where("created_at < ?", cutoff).
		Exec(context.Background())
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}
