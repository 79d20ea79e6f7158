package commands

import (
	"errors"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/pkg/errs"
	"fooddispatch/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// OrderItem is one requested line item of a new order.
type OrderItem struct {
	Name           string
	Quantity       int
	UnitPriceCents int64
}

// PlaceOrderCommand creates a new order in Placed status.
//
// The pickup point is the restaurant's location as supplied by the geography
// collaborator; the dropoff is the delivery destination and may be absent.
type PlaceOrderCommand struct {
	orderID      kernel.UUID
	customerID   kernel.UUID
	restaurantID kernel.UUID
	pickup       kernel.GeoPoint
	dropoff      *kernel.GeoPoint
	items        []OrderItem

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand creates a command to place a new order.
func NewPlaceOrderCommand(
	orderID kernel.UUID,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	pickup kernel.GeoPoint,
	dropoff *kernel.GeoPoint,
	items []OrderItem,
) (PlaceOrderCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		customerID.Validate(),
		restaurantID.Validate(),
		pickup.Validate(),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	if dropoff != nil {
		if err := dropoff.Validate(); err != nil {
			return PlaceOrderCommand{}, err
		}
	}

	if len(items) == 0 {
		return PlaceOrderCommand{}, errs.NewValueIsRequiredError("items")
	}

	return PlaceOrderCommand{
		orderID:      orderID,
		customerID:   customerID,
		restaurantID: restaurantID,
		pickup:       pickup,
		dropoff:      dropoff,
		items:        items,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c *PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

// OrderID returns the identifier for the new order.
func (c *PlaceOrderCommand) OrderID() kernel.UUID { return c.orderID }

// CustomerID returns the ordering customer.
func (c *PlaceOrderCommand) CustomerID() kernel.UUID { return c.customerID }

// RestaurantID returns the preparing restaurant.
func (c *PlaceOrderCommand) RestaurantID() kernel.UUID { return c.restaurantID }

// Pickup returns the restaurant location.
func (c *PlaceOrderCommand) Pickup() kernel.GeoPoint { return c.pickup }

// Dropoff returns the delivery destination, or nil when unknown.
func (c *PlaceOrderCommand) Dropoff() *kernel.GeoPoint { return c.dropoff }

// Items returns the requested line items.
func (c *PlaceOrderCommand) Items() []OrderItem { return c.items }

// toDomainItems converts the requested line items into domain values.
func (c *PlaceOrderCommand) toDomainItems() ([]order.Item, error) {
	items := make([]order.Item, 0, len(c.items))
	for _, it := range c.items {
		item, err := order.NewItem(it.Name, it.Quantity, kernel.NewMoneyFromCents(it.UnitPriceCents))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
