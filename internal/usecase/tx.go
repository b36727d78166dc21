package usecase

import "context"

// TxRunner wraps a function in one all-or-nothing storage transaction. The
// settlement pipeline owns the transaction boundary: validation happens before
// WithinTx, every persistence call happens inside it.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type noopTxRunner struct{}

func (noopTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// NewNoopTxRunner is used with storage backends that have no transaction
// support, such as the in-memory repositories.
func NewNoopTxRunner() TxRunner {
	return noopTxRunner{}
}
