package earnings

import (
	"errors"
	"fmt"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"
	"fooddispatch/internal/pkg/guard"
)

// ErrEarningEntryIsNotConstructed is returned when using an improperly
// initialized EarningEntry.
var ErrEarningEntryIsNotConstructed = errors.New("EarningEntry must be created via NewEarningEntry or RestoreEarningEntry")

// EarningEntry is one immutable credit (or adjustment debit) on a driver's
// ledger. It carries no update API: corrections are new adjustment entries.
type EarningEntry struct {
	id         kernel.UUID
	driverID   kernel.UUID
	orderID    kernel.UUID
	amount     kernel.Money
	entryType  EntryType
	occurredAt time.Time

	guard guard.ConstructorGuard
}

// NewEarningEntry creates a ledger entry.
//
// Delivery fees and bonuses must carry a positive amount; adjustments may be
// negative but not zero.
func NewEarningEntry(
	id kernel.UUID,
	driverID kernel.UUID,
	orderID kernel.UUID,
	amount kernel.Money,
	entryType EntryType,
	occurredAt time.Time,
) (*EarningEntry, error) {
	entry := &EarningEntry{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		entry.setID(id),
		entry.setDriverID(driverID),
		entry.setOrderID(orderID),
		entry.setEntryType(entryType),
	); err != nil {
		return nil, err
	}

	if err := entry.setAmount(amount); err != nil {
		return nil, err
	}

	entry.occurredAt = occurredAt
	return entry, nil
}

// RestoreEarningEntry reconstructs a ledger entry from persistent storage.
func RestoreEarningEntry(
	id kernel.UUID,
	driverID kernel.UUID,
	orderID kernel.UUID,
	amount kernel.Money,
	entryType EntryType,
	occurredAt time.Time,
) (*EarningEntry, error) {
	return NewEarningEntry(id, driverID, orderID, amount, entryType, occurredAt)
}

// Validate ensures the EarningEntry was created via a factory function.
func (e *EarningEntry) Validate() error {
	if e == nil {
		return ErrEarningEntryIsNotConstructed
	}
	return e.guard.Validate(ErrEarningEntryIsNotConstructed)
}

// ID returns the entry's unique identifier.
func (e *EarningEntry) ID() kernel.UUID {
	return e.id
}

// DriverID returns the credited driver.
func (e *EarningEntry) DriverID() kernel.UUID {
	return e.driverID
}

// OrderID returns the order the entry relates to.
func (e *EarningEntry) OrderID() kernel.UUID {
	return e.orderID
}

// Amount returns the credited amount.
func (e *EarningEntry) Amount() kernel.Money {
	return e.amount
}

// EntryType returns the entry classification.
func (e *EarningEntry) EntryType() EntryType {
	return e.entryType
}

// IsBonus reports whether the entry is an incentive credit.
func (e *EarningEntry) IsBonus() bool {
	return e.entryType == EntryTypeBonus
}

// OccurredAt returns when the earning was recorded.
func (e *EarningEntry) OccurredAt() time.Time {
	return e.occurredAt
}

func (e *EarningEntry) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *EarningEntry) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	e.driverID = driverID
	return nil
}

func (e *EarningEntry) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	e.orderID = orderID
	return nil
}

func (e *EarningEntry) setEntryType(entryType EntryType) error {
	if err := entryType.Validate(); err != nil {
		return err
	}
	e.entryType = entryType
	return nil
}

func (e *EarningEntry) setAmount(amount kernel.Money) error {
	if e.entryType != EntryTypeAdjustment && amount <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d cents is not positive", amount.Cents()))
	}
	if e.entryType == EntryTypeAdjustment && amount == 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount",
			errors.New("adjustment amount must be non-zero"))
	}
	e.amount = amount
	return nil
}
