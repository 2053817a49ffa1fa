package usecases

import "context"

// TransactionManager abstracts the shared db transaction runner so use cases
// can be exercised with fakes. Satisfied by *db.TransactionManager.
type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
