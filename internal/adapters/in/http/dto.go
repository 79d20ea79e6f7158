package http

import (
	"time"

	"fooddispatch/internal/core/application/usecases/queries"
)

// geoPoint is the wire form of a coordinate pair.
type geoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// orderItemRequest is one requested line item of a new order.
type orderItemRequest struct {
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// placeOrderRequest is the body of POST /api/v1/orders.
type placeOrderRequest struct {
	CustomerID   string             `json:"customer_id"`
	RestaurantID string             `json:"restaurant_id"`
	Pickup       geoPoint           `json:"pickup"`
	Dropoff      *geoPoint          `json:"dropoff,omitempty"`
	Items        []orderItemRequest `json:"items"`
}

// createdResponse carries the identifier of a newly created resource.
type createdResponse struct {
	ID string `json:"id"`
}

// transitionOrderRequest is the body of POST /api/v1/orders/:id/transition.
type transitionOrderRequest struct {
	Target string `json:"target"`
}

// createDriverRequest is the body of POST /api/v1/drivers.
type createDriverRequest struct {
	Name     string   `json:"name"`
	Vehicle  string   `json:"vehicle"`
	Location geoPoint `json:"location"`
}

// updateLocationRequest is the body of PUT /api/v1/drivers/:id/location.
type updateLocationRequest struct {
	Location geoPoint `json:"location"`
}

// respondToOfferRequest is the body of POST /api/v1/offers/:id/respond.
type respondToOfferRequest struct {
	Decision string `json:"decision"`
}

// activeOrderResponse is one in-flight order of GET /api/v1/orders/active.
type activeOrderResponse struct {
	ID               string  `json:"id"`
	Status           string  `json:"status"`
	DriverID         *string `json:"driver_id,omitempty"`
	DispatchAttempts int     `json:"dispatch_attempts"`
	Unassignable     bool    `json:"unassignable"`
}

// earningEntryResponse is one ledger entry of the earnings listing.
type earningEntryResponse struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"order_id"`
	AmountCents int64     `json:"amount_cents"`
	EntryType   string    `json:"entry_type"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// earningsPageResponse is the body of GET /api/v1/drivers/:id/earnings.
type earningsPageResponse struct {
	Entries    []earningEntryResponse `json:"entries"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalCount int64                  `json:"total_count"`
}

// earningsSummaryResponse is the body of
// GET /api/v1/drivers/:id/earnings/summary.
type earningsSummaryResponse struct {
	DriverID    string    `json:"driver_id"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	EntryCount  int64     `json:"entry_count"`
	TotalCents  int64     `json:"total_cents"`
}

func toEarningsPageResponse(page queries.GetDriverEarningsQueryResponse) earningsPageResponse {
	entries := make([]earningEntryResponse, 0, len(page.Entries))
	for _, entry := range page.Entries {
		entries = append(entries, earningEntryResponse{
			ID:          entry.ID.String(),
			OrderID:     entry.OrderID.String(),
			AmountCents: entry.AmountCents,
			EntryType:   entry.EntryType,
			OccurredAt:  entry.OccurredAt,
		})
	}
	return earningsPageResponse{
		Entries:    entries,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalCount: page.TotalCount,
	}
}
