package journal

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages journal persistence. Entries are append-only; there is
// no update or delete.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	GetByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]*Entry, error)
}
