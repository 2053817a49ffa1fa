package models

import (
	"time"
)

// SubscriptionModel is the persistence shape of the subscription store.
// This is the anti-corruption layer between domain and database.
// The unique index on TenantID is what makes concurrent provisioning safe:
// at most one subscription row can ever exist per tenant.
type SubscriptionModel struct {
	ID                 uint    `gorm:"primarykey"`
	TenantID           string  `gorm:"uniqueIndex;not null;size:64"`
	SubscriptionRef    *string `gorm:"index;size:191;comment:provider subscription id"`
	CustomerRef        *string `gorm:"size:191;comment:provider customer id"`
	Status             string  `gorm:"not null;size:32;index:idx_subscription_status"`
	TrialStart         *time.Time
	TrialEnd           *time.Time
	CurrentPeriodStart time.Time `gorm:"not null"`
	CurrentPeriodEnd   time.Time `gorm:"not null"`
	CancelAtPeriodEnd  bool      `gorm:"not null;default:false"`
	CanceledAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}
