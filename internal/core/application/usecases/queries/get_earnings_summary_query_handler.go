package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetEarningsSummaryQueryHandler computes a driver's earnings aggregate with
// a single SQL round trip. The total is derived from the entries on demand;
// no running balance is stored anywhere.
type GetEarningsSummaryQueryHandler struct {
	db *gorm.DB
}

// NewGetEarningsSummaryQueryHandler creates a handler for earnings summaries.
func NewGetEarningsSummaryQueryHandler(db *gorm.DB) GetEarningsSummaryQueryHandler {
	return GetEarningsSummaryQueryHandler{db: db}
}

// Handle executes the aggregate over [windowStart, windowEnd).
func (h GetEarningsSummaryQueryHandler) Handle(
	ctx context.Context,
	query GetEarningsSummaryQuery,
) (GetEarningsSummaryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetEarningsSummaryQueryResponse{}, err
	}

	response := GetEarningsSummaryQueryResponse{
		DriverID:    query.DriverID(),
		WindowStart: query.WindowStart(),
		WindowEnd:   query.WindowEnd(),
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*),
			COALESCE(SUM(amount_cents), 0)
		FROM earning_entries
		WHERE driver_id = ?
		  AND occurred_at >= ?
		  AND occurred_at < ?
	`, query.DriverID().Bytes(), query.WindowStart(), query.WindowEnd()).Row()

	if err := row.Scan(&response.EntryCount, &response.TotalCents); err != nil {
		return GetEarningsSummaryQueryResponse{}, err
	}

	return response, nil
}
