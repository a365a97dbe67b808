package repositories

import "context"

// TxRunner runs fn inside one store transaction. The transaction commits when
// fn returns nil and rolls back otherwise, leaving no partial writes.
type TxRunner[T any] interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx T) error) error
}
