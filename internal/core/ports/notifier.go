package ports

import (
	"context"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
)

// Notifier is the outbound contract to the notification collaborator.
//
// Calls are fire-and-forget from the caller's point of view: handlers log
// notification failures and never let them block or roll back a lifecycle
// operation.
type Notifier interface {
	// NotifyOrderStatusChanged reports an externally visible status change.
	NotifyOrderStatusChanged(ctx context.Context, orderID kernel.UUID, status order.Status) error

	// NotifyTaskOffered tells a driver they hold a delivery task offer.
	NotifyTaskOffered(ctx context.Context, driverID kernel.UUID, offerID kernel.UUID) error

	// NotifyUnassignableOrder escalates an order whose dispatch retries are
	// exhausted to manual intervention.
	NotifyUnassignableOrder(ctx context.Context, orderID kernel.UUID, attempts int) error
}
