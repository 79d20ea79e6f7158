package ports

import (
	"context"

	"fooddispatch/internal/core/domain/model/kernel"
)

// PaymentGateway is the outbound contract to the payment collaborator.
// Capturing the payment is a precondition for a restaurant accepting an
// order.
type PaymentGateway interface {
	// IsCaptured reports whether the order's payment has been captured.
	IsCaptured(ctx context.Context, orderID kernel.UUID) (bool, error)
}
