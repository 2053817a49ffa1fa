package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProcessedEventModel is the event-ledger row. EventID is the primary key;
// the duplicate-key failure on insert is the idempotency boundary, so no
// separate uniqueness bookkeeping exists anywhere else.
type ProcessedEventModel struct {
	EventID     string         `gorm:"primaryKey;size:191"`
	EventType   string         `gorm:"not null;size:64;index"`
	TenantID    string         `gorm:"size:64;index;comment:denormalized for audit"`
	Payload     datatypes.JSON `gorm:"comment:raw envelope for manual reconciliation"`
	ProcessedAt time.Time      `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (ProcessedEventModel) TableName() string {
	return "processed_events"
}
