package queries

import (
	"context"

	"fooddispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDriverEarningsQueryHandler lists a driver's ledger entries page by page.
type GetDriverEarningsQueryHandler struct {
	db *gorm.DB
}

// NewGetDriverEarningsQueryHandler creates a handler for ledger listings.
func NewGetDriverEarningsQueryHandler(db *gorm.DB) GetDriverEarningsQueryHandler {
	return GetDriverEarningsQueryHandler{db: db}
}

// Handle executes the listing with the requested ordering and page.
func (h GetDriverEarningsQueryHandler) Handle(
	ctx context.Context,
	query GetDriverEarningsQuery,
) (GetDriverEarningsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDriverEarningsQueryResponse{}, err
	}

	response := GetDriverEarningsQueryResponse{
		Entries:  make([]DriverEarningEntry, 0, query.PageSize()),
		Page:     query.Page(),
		PageSize: query.PageSize(),
	}

	countRow := h.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM earning_entries WHERE driver_id = ?
	`, query.DriverID().Bytes()).Row()
	if err := countRow.Scan(&response.TotalCount); err != nil {
		return GetDriverEarningsQueryResponse{}, err
	}

	direction := "DESC"
	if query.Ordering() == OrderingTimestampAsc {
		direction = "ASC"
	}

	offset := (query.Page() - 1) * query.PageSize()

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			amount_cents,
			entry_type,
			occurred_at
		FROM earning_entries
		WHERE driver_id = ?
		ORDER BY occurred_at `+direction+`, id
		LIMIT ? OFFSET ?
	`, query.DriverID().Bytes(), query.PageSize(), offset).Rows()
	if err != nil {
		return GetDriverEarningsQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry   DriverEarningEntry
			id      uuid.UUID
			orderID uuid.UUID
		)

		if err := rows.Scan(&id, &orderID, &entry.AmountCents, &entry.EntryType, &entry.OccurredAt); err != nil {
			return GetDriverEarningsQueryResponse{}, err
		}

		entryID, err := kernel.UUIDFromBytes(id[:])
		if err != nil {
			return GetDriverEarningsQueryResponse{}, err
		}
		entry.ID = entryID

		entryOrderID, err := kernel.UUIDFromBytes(orderID[:])
		if err != nil {
			return GetDriverEarningsQueryResponse{}, err
		}
		entry.OrderID = entryOrderID

		response.Entries = append(response.Entries, entry)
	}

	if err := rows.Err(); err != nil {
		return GetDriverEarningsQueryResponse{}, err
	}

	return response, nil
}
