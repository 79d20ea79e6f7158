package ports

import (
	"context"

	"fooddispatch/internal/core/domain/model/earnings"
)

// EarningRepository defines the persistence contract for the append-only
// earnings ledger.
type EarningRepository interface {
	// Add appends a ledger entry. Appending a second delivery-fee entry for
	// the same order is a silent no-op: the ledger keeps the first one.
	Add(ctx context.Context, entry *earnings.EarningEntry) error
}
