package queries

import (
	"context"
	"database/sql"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveOrdersQueryHandler retrieves orders still moving through the
// lifecycle, excluding delivered, cancelled, and failed ones.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler for in-flight order queries.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle executes the query. Results are sorted by order id for consistent
// output.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetActiveOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			driver_id,
			dispatch_attempts,
			unassignable
		FROM orders
		WHERE status NOT IN (?, ?, ?)
		ORDER BY id
	`, order.Delivered.String(), order.Cancelled.String(), order.Failed.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			response GetActiveOrdersQueryResponse
			id       uuid.UUID
			driverID sql.Null[uuid.UUID]
		)

		if err := rows.Scan(&id, &response.Status, &driverID,
			&response.DispatchAttempts, &response.Unassignable); err != nil {
			return nil, err
		}

		orderID, err := kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		response.ID = orderID

		if driverID.Valid {
			boundDriver, err := kernel.UUIDFromBytes(driverID.V[:])
			if err != nil {
				return nil, err
			}
			response.DriverID = &boundDriver
		}

		orders = append(orders, response)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
