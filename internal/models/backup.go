package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

const (
	BackupTypeAuto   = "auto"
	BackupTypeManual = "manual"
)

type Backup struct {
	bun.BaseModel `bun:"table:backups"`

	ID         string          `bun:"id,pk" json:"id"`
	BackupType string          `bun:"backup_type,notnull" json:"backupType"`
	BackupData json.RawMessage `bun:"backup_data,notnull,type:text" json:"backupData,omitempty"`
	CreatedAt  time.Time       `bun:"created_at,notnull" json:"createdAt"`
}

// BackupSnapshot is the full JSON export of the shop's data. All field types
// round-trip losslessly: money marshals as quoted decimal strings.
type BackupSnapshot struct {
	Tickets      []Ticket      `json:"tickets"`
	TicketStates []TicketState `json:"ticketStates"`
	Employees    []Employee    `json:"employees"`
	Reports      []DailyReport `json:"reports"`
	BackupDate   time.Time     `json:"backupDate"`
}
