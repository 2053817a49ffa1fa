package billing

import (
	"fmt"
	"time"
)

// ProcessedEvent is one ledger entry. Inserting a duplicate EventID is the
// idempotency boundary: the insert fails, the transition is never re-applied,
// and the caller answers the provider with success.
type ProcessedEvent struct {
	EventID     string
	EventType   string
	TenantID    string
	Payload     []byte
	ProcessedAt time.Time
}

// NewProcessedEvent records a provider event about to be applied. The raw
// payload is kept for audit and manual reconciliation.
func NewProcessedEvent(eventID, eventType, tenantID string, payload []byte, now time.Time) (*ProcessedEvent, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event ID is required")
	}
	if eventType == "" {
		return nil, fmt.Errorf("event type is required")
	}
	return &ProcessedEvent{
		EventID:     eventID,
		EventType:   eventType,
		TenantID:    tenantID,
		Payload:     payload,
		ProcessedAt: now.UTC(),
	}, nil
}
