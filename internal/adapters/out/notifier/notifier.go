// Package notifier delivers notification events to the external notification
// collaborator. The current implementation writes structured log records;
// swapping in a push or webhook transport only means replacing this adapter.
package notifier

import (
	"context"
	"log/slog"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
)

// SlogNotifier implements ports.Notifier by emitting structured log records.
type SlogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier creates a log-backed notifier.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{
		logger: logger.With("component", "notifier"),
	}
}

// NotifyOrderStatusChanged reports an externally visible status change.
func (n *SlogNotifier) NotifyOrderStatusChanged(ctx context.Context, orderID kernel.UUID, status order.Status) error {
	n.logger.InfoContext(ctx, "order status changed",
		"order_id", orderID.String(),
		"status", status.String(),
	)
	return nil
}

// NotifyTaskOffered tells a driver they hold a delivery task offer.
func (n *SlogNotifier) NotifyTaskOffered(ctx context.Context, driverID kernel.UUID, offerID kernel.UUID) error {
	n.logger.InfoContext(ctx, "task offered to driver",
		"driver_id", driverID.String(),
		"offer_id", offerID.String(),
	)
	return nil
}

// NotifyUnassignableOrder escalates an order whose dispatch retries are
// exhausted.
func (n *SlogNotifier) NotifyUnassignableOrder(ctx context.Context, orderID kernel.UUID, attempts int) error {
	n.logger.WarnContext(ctx, "order is unassignable, manual intervention required",
		"order_id", orderID.String(),
		"attempts", attempts,
	)
	return nil
}
