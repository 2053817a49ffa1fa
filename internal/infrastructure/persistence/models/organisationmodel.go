package models

import "time"

// OrganisationModel mirrors the tenant table this service reads from.
// Rows are owned by the account service; billing never writes them.
type OrganisationModel struct {
	ID          string `gorm:"primaryKey;size:64"`
	Name        string `gorm:"size:255"`
	OwnerUserID string `gorm:"not null;size:64;index"`
	OwnerEmail  string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for GORM
func (OrganisationModel) TableName() string {
	return "organisations"
}
