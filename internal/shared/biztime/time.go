// Package biztime centralizes time handling for billing state.
// All storage, transport, and comparisons use UTC; provider payloads carry
// unix-second timestamps which are converted here. Implicit Local timezone
// is prohibited.
package biztime

import "time"

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ToUTC converts a time (any timezone) to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// FromUnix converts a provider unix-second timestamp to UTC.
// Zero means "not set" in every provider payload we consume and maps to nil.
func FromUnix(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}

// ToUnix converts an optional UTC timestamp back to the provider's
// unix-second representation, with 0 meaning "not set".
func ToUnix(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UTC().Unix()
}
