package commands

import (
	"context"

	"fooddispatch/internal/core/domain/model/driver"
)

// CreateDriverCommandHandler registers drivers in the dispatch registry.
type CreateDriverCommandHandler struct {
	uowFactory DriverUoWFactory
	capacity   int
}

// NewCreateDriverCommandHandler creates a handler for driver registration.
// capacity is the configured concurrent-task cap applied to new drivers.
func NewCreateDriverCommandHandler(uowFactory DriverUoWFactory, capacity int) CreateDriverCommandHandler {
	return CreateDriverCommandHandler{
		uowFactory: uowFactory,
		capacity:   capacity,
	}
}

// Handle creates the driver aggregate and persists it.
func (h CreateDriverCommandHandler) Handle(ctx context.Context, command CreateDriverCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	aggregate, err := driver.NewDriver(
		command.DriverID(),
		command.Name(),
		command.Location(),
		command.Vehicle(),
		h.capacity,
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

	if err := uow.DriverRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
