// Package offerrepo provides data transfer objects and mapping functions for
// task offer persistence. It implements the repository pattern for the task
// offer aggregate, converting between domain entities and database rows.
package offerrepo

import (
	"encoding/json"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/taskoffer"

	"github.com/google/uuid"
)

// TaskOfferDTO represents the database structure for persisting task offers.
// The candidate ranking is stored as a JSONB array of driver ids: it is fixed
// at offer creation and only ever read back whole.
type TaskOfferDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID uuid.UUID `gorm:"type:uuid;index"`

	Candidates   json.RawMessage `gorm:"type:jsonb"`
	CurrentIndex int

	TTLNanos  int64
	ExpiresAt time.Time `gorm:"index"`

	Outcome          string     `gorm:"index"`
	AcceptedDriverID *uuid.UUID `gorm:"type:uuid"`
}

// TableName specifies the database table name for task offer entities.
func (TaskOfferDTO) TableName() string {
	return "task_offers"
}

// fromDomain converts a task offer aggregate to its database representation.
func fromDomain(aggregate *taskoffer.TaskOffer) (TaskOfferDTO, error) {
	candidates := make([]uuid.UUID, 0, len(aggregate.Candidates()))
	for _, candidate := range aggregate.Candidates() {
		candidates = append(candidates, candidate.Bytes())
	}
	candidatesJSON, err := json.Marshal(candidates)
	if err != nil {
		return TaskOfferDTO{}, err
	}

	dto := TaskOfferDTO{
		ID:           aggregate.ID().Bytes(),
		OrderID:      aggregate.OrderID().Bytes(),
		Candidates:   candidatesJSON,
		CurrentIndex: aggregate.CurrentIndex(),
		TTLNanos:     aggregate.TTL().Nanoseconds(),
		ExpiresAt:    aggregate.ExpiresAt(),
		Outcome:      aggregate.Outcome().String(),
	}

	if accepted := aggregate.AcceptedDriver(); accepted != nil {
		raw := accepted.Bytes()
		dto.AcceptedDriverID = &raw
	}

	return dto, nil
}

// toDomain converts a database row back to a task offer aggregate via
// RestoreTaskOffer.
func toDomain(dto TaskOfferDTO) (*taskoffer.TaskOffer, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var candidateIDs []uuid.UUID
	if err := json.Unmarshal(dto.Candidates, &candidateIDs); err != nil {
		return nil, err
	}
	candidates := make([]kernel.UUID, 0, len(candidateIDs))
	for _, candidateID := range candidateIDs {
		candidate, candidateErr := kernel.UUIDFromBytes(candidateID[:])
		if candidateErr != nil {
			return nil, candidateErr
		}
		candidates = append(candidates, candidate)
	}

	outcome, err := taskoffer.OutcomeFromString(dto.Outcome)
	if err != nil {
		return nil, err
	}

	var acceptedDriverID *kernel.UUID
	if dto.AcceptedDriverID != nil {
		accepted, acceptedErr := kernel.UUIDFromBytes((*dto.AcceptedDriverID)[:])
		if acceptedErr != nil {
			return nil, acceptedErr
		}
		acceptedDriverID = &accepted
	}

	return taskoffer.RestoreTaskOffer(
		id, orderID, candidates, dto.CurrentIndex,
		time.Duration(dto.TTLNanos), dto.ExpiresAt,
		outcome, acceptedDriverID,
	)
}
