package billing

import "errors"

var (
	// ErrEventAlreadyProcessed means the ledger already holds this event ID.
	// Expected steady state under at-least-once delivery, not a failure.
	ErrEventAlreadyProcessed = errors.New("event already processed")

	// ErrSubscriptionExists means a row for the tenant already exists. The
	// unique key on tenant_id surfaces it for the loser of a provisioning race.
	ErrSubscriptionExists = errors.New("subscription already exists for tenant")
)
