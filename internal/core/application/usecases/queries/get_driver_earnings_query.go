package queries

import (
	"errors"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"
	"fooddispatch/internal/pkg/guard"
)

var ErrGetDriverEarningsQueryIsNotConstructed = errors.New(
	"GetDriverEarningsQuery must be created via NewGetDriverEarningsQuery constructor",
)

// Ordering directions accepted by the driver earnings listing.
const (
	// OrderingTimestampDesc lists newest entries first. Default.
	OrderingTimestampDesc = "-timestamp"
	// OrderingTimestampAsc lists oldest entries first.
	OrderingTimestampAsc = "timestamp"
)

const defaultPageSize = 20

// GetDriverEarningsQuery lists a driver's ledger entries, paginated.
type GetDriverEarningsQuery struct {
	driverID kernel.UUID
	page     int
	pageSize int
	ordering string

	guard guard.ConstructorGuard
}

// NewGetDriverEarningsQuery creates a paginated ledger listing query.
// Pages are 1-based; page values below 1 become 1, pageSize values below 1
// fall back to the default. The ordering must be "timestamp" or "-timestamp".
func NewGetDriverEarningsQuery(driverID kernel.UUID, page, pageSize int, ordering string) (GetDriverEarningsQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetDriverEarningsQuery{}, err
	}

	if ordering == "" {
		ordering = OrderingTimestampDesc
	}
	if ordering != OrderingTimestampDesc && ordering != OrderingTimestampAsc {
		return GetDriverEarningsQuery{}, errs.NewValueIsInvalidError("ordering")
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	return GetDriverEarningsQuery{
		driverID: driverID,
		page:     page,
		pageSize: pageSize,
		ordering: ordering,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDriverEarningsQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverEarningsQueryIsNotConstructed)
}

// DriverID returns the driver whose ledger is listed.
func (q GetDriverEarningsQuery) DriverID() kernel.UUID { return q.driverID }

// Page returns the 1-based page number.
func (q GetDriverEarningsQuery) Page() int { return q.page }

// PageSize returns the page size.
func (q GetDriverEarningsQuery) PageSize() int { return q.pageSize }

// Ordering returns the requested sort direction.
func (q GetDriverEarningsQuery) Ordering() string { return q.ordering }

// GetDriverEarningsQueryResponse is one page of ledger entries.
type GetDriverEarningsQueryResponse struct {
	Entries    []DriverEarningEntry
	Page       int
	PageSize   int
	TotalCount int64
}

// DriverEarningEntry is one projected ledger entry.
type DriverEarningEntry struct {
	ID          kernel.UUID
	OrderID     kernel.UUID
	AmountCents int64
	EntryType   string
	OccurredAt  time.Time
}
