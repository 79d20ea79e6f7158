// Package earningrepo persists the append-only driver earnings ledger.
package earningrepo

import (
	"time"

	"fooddispatch/internal/core/domain/model/earnings"
	"fooddispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// EarningEntryDTO represents the database structure for persisting ledger
// entries. A partial unique index on (order_id) where entry_type is
// delivery_fee enforces at most one fee per order.
type EarningEntryDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	DriverID uuid.UUID `gorm:"type:uuid;index"`
	OrderID  uuid.UUID `gorm:"type:uuid"`

	AmountCents int64
	EntryType   string
	OccurredAt  time.Time `gorm:"index"`
}

// TableName specifies the database table name for earning entries.
func (EarningEntryDTO) TableName() string {
	return "earning_entries"
}

// fromDomain converts a ledger entry to its database representation.
func fromDomain(entry *earnings.EarningEntry) EarningEntryDTO {
	return EarningEntryDTO{
		ID:          entry.ID().Bytes(),
		DriverID:    entry.DriverID().Bytes(),
		OrderID:     entry.OrderID().Bytes(),
		AmountCents: entry.Amount().Cents(),
		EntryType:   entry.EntryType().String(),
		OccurredAt:  entry.OccurredAt(),
	}
}

// toDomain converts a database row back to a ledger entry via
// RestoreEarningEntry.
func toDomain(dto EarningEntryDTO) (*earnings.EarningEntry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	entryType, err := earnings.EntryTypeFromString(dto.EntryType)
	if err != nil {
		return nil, err
	}

	return earnings.RestoreEarningEntry(
		id, driverID, orderID,
		kernel.NewMoneyFromCents(dto.AmountCents),
		entryType, dto.OccurredAt,
	)
}
