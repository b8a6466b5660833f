package repository

import "context"

// Tx is an opaque transaction handle. Repositories accept it so use cases can
// group writes; nil (or NoTX) means "run on the pool".
type Tx any

// NoTX is passed where an operation intentionally runs outside a transaction.
var NoTX Tx = nil

// TransactionManager opens a transaction, invokes fn, and commits or rolls
// back depending on the returned error.
type TransactionManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
