package offerrepo

import (
	"context"
	"errors"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/taskoffer"
	"fooddispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskOfferRepository implements TaskOfferRepository using GORM.
type GormTaskOfferRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormTaskOfferRepository creates a new GORM task offer repository.
func NewGormTaskOfferRepository(db *gorm.DB, tracker aggregateTracker) *GormTaskOfferRepository {
	return &GormTaskOfferRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new task offer to the database. The partial unique index on
// order_id rejects a second live offer for the same order.
func (r *GormTaskOfferRepository) Add(ctx context.Context, aggregate *taskoffer.TaskOffer) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing task offer to the database.
func (r *GormTaskOfferRepository) Update(ctx context.Context, aggregate *taskoffer.TaskOffer) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&TaskOfferDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a task offer by ID.
func (r *GormTaskOfferRepository) Get(ctx context.Context, id kernel.UUID) (*taskoffer.TaskOffer, error) {
	return r.get(ctx, id, r.db)
}

// GetForUpdate retrieves a task offer by ID and locks its row until the
// surrounding transaction completes.
func (r *GormTaskOfferRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*taskoffer.TaskOffer, error) {
	return r.get(ctx, id, r.db.Clauses(clause.Locking{Strength: "UPDATE"}))
}

func (r *GormTaskOfferRepository) get(ctx context.Context, id kernel.UUID, db *gorm.DB) (*taskoffer.TaskOffer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TaskOfferDTO
	if err := db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("task offer", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetLiveByOrder retrieves the pending offer for an order, if any.
func (r *GormTaskOfferRepository) GetLiveByOrder(ctx context.Context, orderID kernel.UUID) (*taskoffer.TaskOffer, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto TaskOfferDTO
	err := r.db.WithContext(ctx).
		First(&dto, "order_id = ? AND outcome = ?", orderID.Bytes(), taskoffer.OutcomePending.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("live task offer for order", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllExpired retrieves pending offers whose response deadline has passed,
// locking their rows so the sweep does not race driver responses.
func (r *GormTaskOfferRepository) GetAllExpired(ctx context.Context, now time.Time) ([]*taskoffer.TaskOffer, error) {
	var dtos []TaskOfferDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("expires_at").
		Find(&dtos, "outcome = ? AND expires_at <= ?", taskoffer.OutcomePending.String(), now).Error
	if err != nil {
		return nil, err
	}

	offers := make([]*taskoffer.TaskOffer, 0, len(dtos))
	for _, dto := range dtos {
		offer, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}

	return offers, nil
}
