package commands

import (
	"context"
	"time"

	"fooddispatch/internal/core/domain/model/order"
)

// PlaceOrderCommandHandler persists new orders.
type PlaceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	now        func() time.Time
}

// NewPlaceOrderCommandHandler creates a handler for order placement.
func NewPlaceOrderCommandHandler(uowFactory OrderUoWFactory) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Handle creates the order aggregate in Placed status and persists it.
func (h PlaceOrderCommandHandler) Handle(ctx context.Context, command PlaceOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	items, err := command.toDomainItems()
	if err != nil {
		return err
	}

	aggregate, err := order.NewOrder(
		command.OrderID(),
		command.CustomerID(),
		command.RestaurantID(),
		command.Pickup(),
		command.Dropoff(),
		items,
		h.now(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
