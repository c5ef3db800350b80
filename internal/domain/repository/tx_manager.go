package repository

import "context"

// TxManager runs fn in a single database transaction. Repositories called with
// the ctx passed to fn take part in that transaction.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
