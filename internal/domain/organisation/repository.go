package organisation

import "context"

// Repository reads tenant records. The billing service never mutates
// organisations; ownership data is managed upstream.
type Repository interface {
	// GetByID returns nil, nil when no such organisation exists.
	GetByID(ctx context.Context, id string) (*Organisation, error)
}
