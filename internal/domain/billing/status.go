package billing

// Status is the closed set of subscription states. It mirrors the provider's
// lifecycle vocabulary so `updated` snapshots can be adopted verbatim.
type Status string

const (
	StatusTrialing          Status = "trialing"
	StatusActive            Status = "active"
	StatusPastDue           Status = "past_due"
	StatusCanceled          Status = "canceled"
	StatusIncomplete        Status = "incomplete"
	StatusIncompleteExpired Status = "incomplete_expired"
	StatusUnpaid            Status = "unpaid"
)

func (s Status) String() string {
	return string(s)
}

// GrantsAccess reports whether this status entitles the tenant to premium
// features. The switch is exhaustive over the closed enum so a new status
// cannot slip through as silently premium.
func (s Status) GrantsAccess() bool {
	switch s {
	case StatusTrialing, StatusActive:
		return true
	case StatusPastDue, StatusCanceled, StatusIncomplete, StatusIncompleteExpired, StatusUnpaid:
		return false
	default:
		return false
	}
}

var ValidStatuses = map[Status]bool{
	StatusTrialing:          true,
	StatusActive:            true,
	StatusPastDue:           true,
	StatusCanceled:          true,
	StatusIncomplete:        true,
	StatusIncompleteExpired: true,
	StatusUnpaid:            true,
}
