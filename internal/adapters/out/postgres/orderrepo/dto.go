// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between domain entities and database rows.
package orderrepo

import (
	"encoding/json"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The line items and the transition history are stored as JSONB documents:
// both are owned by the order and never queried independently.
type OrderDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID   uuid.UUID `gorm:"type:uuid;index"`
	RestaurantID uuid.UUID `gorm:"type:uuid;index"`

	PickupLat  float64
	PickupLng  float64
	DropoffLat *float64
	DropoffLng *float64

	Items      json.RawMessage `gorm:"type:jsonb"`
	TotalCents int64
	Status     string          `gorm:"index"`
	History    json.RawMessage `gorm:"type:jsonb"`

	DriverID *uuid.UUID `gorm:"type:uuid;index"`

	DispatchAttempts int
	NextDispatchAt   *time.Time `gorm:"index"`
	Unassignable     bool
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// itemDTO is one JSON-encoded line item.
type itemDTO struct {
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// historyDTO is one JSON-encoded transition history entry.
type historyDTO struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	items := make([]itemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, itemDTO{
			Name:           item.Name(),
			Quantity:       item.Quantity(),
			UnitPriceCents: item.UnitPrice().Cents(),
		})
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return OrderDTO{}, err
	}

	history := make([]historyDTO, 0, len(aggregate.History()))
	for _, change := range aggregate.History() {
		history = append(history, historyDTO{
			Status: change.Status.String(),
			At:     change.At,
		})
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return OrderDTO{}, err
	}

	dto := OrderDTO{
		ID:               aggregate.ID().Bytes(),
		CustomerID:       aggregate.CustomerID().Bytes(),
		RestaurantID:     aggregate.RestaurantID().Bytes(),
		PickupLat:        aggregate.Pickup().Latitude(),
		PickupLng:        aggregate.Pickup().Longitude(),
		Items:            itemsJSON,
		TotalCents:       aggregate.Total().Cents(),
		Status:           aggregate.Status().String(),
		History:          historyJSON,
		DispatchAttempts: aggregate.DispatchAttempts(),
		NextDispatchAt:   aggregate.NextDispatchAt(),
		Unassignable:     aggregate.IsUnassignable(),
	}

	if dropoff := aggregate.Dropoff(); dropoff != nil {
		lat, lng := dropoff.Latitude(), dropoff.Longitude()
		dto.DropoffLat = &lat
		dto.DropoffLng = &lng
	}

	if driverID := aggregate.Driver(); driverID != nil {
		raw := driverID.Bytes()
		dto.DriverID = &raw
	}

	return dto, nil
}

// toDomain converts a database row back to an order aggregate via
// RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	pickup, err := kernel.NewGeoPoint(dto.PickupLat, dto.PickupLng)
	if err != nil {
		return nil, err
	}

	var dropoff *kernel.GeoPoint
	if dto.DropoffLat != nil && dto.DropoffLng != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.DropoffLat, *dto.DropoffLng)
		if pointErr != nil {
			return nil, pointErr
		}
		dropoff = &point
	}

	var itemDTOs []itemDTO
	if err := json.Unmarshal(dto.Items, &itemDTOs); err != nil {
		return nil, err
	}
	items := make([]order.Item, 0, len(itemDTOs))
	for _, it := range itemDTOs {
		item, itemErr := order.NewItem(it.Name, it.Quantity, kernel.NewMoneyFromCents(it.UnitPriceCents))
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	var historyDTOs []historyDTO
	if err := json.Unmarshal(dto.History, &historyDTOs); err != nil {
		return nil, err
	}
	history := make([]order.StatusChange, 0, len(historyDTOs))
	for _, change := range historyDTOs {
		status, statusErr := order.StatusFromString(change.Status)
		if statusErr != nil {
			return nil, statusErr
		}
		history = append(history, order.StatusChange{Status: status, At: change.At})
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	return order.RestoreOrder(
		id, customerID, restaurantID, pickup, dropoff, items,
		status, driverID, history,
		dto.DispatchAttempts, dto.NextDispatchAt, dto.Unassignable,
	)
}
