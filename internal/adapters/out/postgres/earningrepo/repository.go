package earningrepo

import (
	"context"
	"errors"

	"fooddispatch/internal/core/domain/model/earnings"
	"fooddispatch/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GormEarningRepository implements EarningRepository using GORM.
type GormEarningRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormEarningRepository creates a new GORM earning repository.
func NewGormEarningRepository(db *gorm.DB, tracker aggregateTracker) *GormEarningRepository {
	return &GormEarningRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add appends a ledger entry. When the entry collides with the one-fee-per-
// order unique index the write is dropped silently: a retried delivery
// confirmation must not double-pay the driver.
func (r *GormEarningRepository) Add(ctx context.Context, entry *earnings.EarningEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	r.tracker.TrackAggregate(entry.ID(), entry)
	return nil
}

// GetAllByDriver retrieves every ledger entry for a driver, oldest first.
func (r *GormEarningRepository) GetAllByDriver(ctx context.Context, driverID kernel.UUID) ([]*earnings.EarningEntry, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dtos []EarningEntryDTO
	err := r.db.WithContext(ctx).
		Order("occurred_at").
		Find(&dtos, "driver_id = ?", driverID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*earnings.EarningEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
