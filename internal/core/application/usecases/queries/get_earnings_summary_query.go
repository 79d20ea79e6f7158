// Package queries contains read-only operations over the persistence layer.
// Implements the Query side of the CQRS architecture: raw SQL projections
// that bypass the aggregate factories for speed.
package queries

import (
	"errors"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"
	"fooddispatch/internal/pkg/guard"
)

var ErrGetEarningsSummaryQueryIsNotConstructed = errors.New(
	"GetEarningsSummaryQuery must be created via NewGetEarningsSummaryQuery constructor",
)

// GetEarningsSummaryQuery aggregates a driver's ledger over a half-open time
// window [start, end).
type GetEarningsSummaryQuery struct {
	driverID    kernel.UUID
	windowStart time.Time
	windowEnd   time.Time

	guard guard.ConstructorGuard
}

// NewGetEarningsSummaryQuery creates a query for a driver's earnings window.
func NewGetEarningsSummaryQuery(driverID kernel.UUID, windowStart, windowEnd time.Time) (GetEarningsSummaryQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetEarningsSummaryQuery{}, err
	}
	if !windowEnd.After(windowStart) {
		return GetEarningsSummaryQuery{}, errs.NewValueIsInvalidError("window")
	}

	return GetEarningsSummaryQuery{
		driverID:    driverID,
		windowStart: windowStart,
		windowEnd:   windowEnd,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetEarningsSummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetEarningsSummaryQueryIsNotConstructed)
}

// DriverID returns the driver whose ledger is summarized.
func (q GetEarningsSummaryQuery) DriverID() kernel.UUID { return q.driverID }

// WindowStart returns the inclusive start of the window.
func (q GetEarningsSummaryQuery) WindowStart() time.Time { return q.windowStart }

// WindowEnd returns the exclusive end of the window.
func (q GetEarningsSummaryQuery) WindowEnd() time.Time { return q.windowEnd }

// GetEarningsSummaryQueryResponse is the aggregate over the window.
type GetEarningsSummaryQueryResponse struct {
	DriverID    kernel.UUID
	WindowStart time.Time
	WindowEnd   time.Time
	EntryCount  int64
	TotalCents  int64
}
