package ports

import (
	"context"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/taskoffer"
)

// TaskOfferRepository defines the persistence contract for task offers.
type TaskOfferRepository interface {
	// Add persists a new task offer to storage.
	Add(ctx context.Context, aggregate *taskoffer.TaskOffer) error

	// Update persists changes to an existing task offer.
	Update(ctx context.Context, aggregate *taskoffer.TaskOffer) error

	// Get retrieves a task offer by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*taskoffer.TaskOffer, error)

	// GetForUpdate retrieves a task offer and locks its row for the duration
	// of the surrounding transaction, serializing the concurrent-accept race.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*taskoffer.TaskOffer, error)

	// GetLiveByOrder retrieves the pending offer for an order, if any.
	GetLiveByOrder(ctx context.Context, orderID kernel.UUID) (*taskoffer.TaskOffer, error)

	// GetAllExpired retrieves pending offers whose response deadline passed
	// at or before now, locking their rows.
	GetAllExpired(ctx context.Context, now time.Time) ([]*taskoffer.TaskOffer, error)
}
