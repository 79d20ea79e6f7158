package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fooddispatch/internal/core/domain/model/earnings"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/domain/services"
	"fooddispatch/internal/core/ports"
	"fooddispatch/internal/pkg/errs"
)

// ErrPaymentNotCaptured is returned when a restaurant tries to accept an
// order whose payment has not been captured yet.
var ErrPaymentNotCaptured = errors.New("order payment is not captured")

// TransitionOrderCommandHandler drives order lifecycle transitions and their
// side effects.
//
// All state changes happen in one transaction on the locked order row. On top
// of the bare transition the handler fires the lifecycle hooks:
//   - RestaurantAccepted requires the payment to be captured first
//   - ReadyForPickup schedules an immediate dispatch attempt
//   - Delivered appends the delivery fee to the earnings ledger (idempotent)
//     and releases the driver's task slot
//   - Cancelled and Failed release the driver and expire any live offer
//
// Status change notifications go out after commit and never fail the command.
type TransitionOrderCommandHandler struct {
	uowFactory    UoWFactory
	notifier      ports.Notifier
	payments      ports.PaymentGateway
	feeCalculator services.FeeCalculator
	logger        *slog.Logger
	now           func() time.Time
}

// NewTransitionOrderCommandHandler creates a handler for lifecycle transitions.
func NewTransitionOrderCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	payments ports.PaymentGateway,
	feeCalculator services.FeeCalculator,
	logger *slog.Logger,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory:    uowFactory,
		notifier:      notifier,
		payments:      payments,
		feeCalculator: feeCalculator,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Handle performs the transition and its side effects atomically.
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, command TransitionOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	if command.Target() == order.RestaurantAccepted {
		captured, err := h.payments.IsCaptured(ctx, command.OrderID())
		if err != nil {
			return fmt.Errorf("payment capture check: %w", err)
		}
		if !captured {
			return ErrPaymentNotCaptured
		}
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().GetForUpdate(ctx, command.OrderID())
	if err != nil {
		return err
	}

	// The bound driver is unbound by cancellation; capture it first so the
	// release hook still sees it.
	boundDriver := aggregate.Driver()

	now := h.now()
	if err := aggregate.TransitionTo(command.Target(), command.Actor(), now); err != nil {
		return err
	}

	switch command.Target() {
	case order.ReadyForPickup:
		if err := aggregate.ScheduleDispatch(now); err != nil {
			return err
		}
	case order.Delivered:
		if err := h.recordDelivery(ctx, uow, aggregate, now); err != nil {
			return err
		}
		if err := h.releaseDriver(ctx, uow, boundDriver); err != nil {
			return err
		}
	case order.Cancelled, order.Failed:
		if err := h.releaseDriver(ctx, uow, boundDriver); err != nil {
			return err
		}
		if err := h.cancelLiveOffer(ctx, uow, aggregate.ID()); err != nil {
			return err
		}
	}

	if err := uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	if err := h.notifier.NotifyOrderStatusChanged(ctx, aggregate.ID(), aggregate.Status()); err != nil {
		h.logger.WarnContext(ctx, "status change notification failed",
			slog.String("order_id", aggregate.ID().String()),
			slog.String("status", aggregate.Status().String()),
			slog.Any("error", err))
	}

	return nil
}

// recordDelivery appends the delivery fee to the driver's ledger. The ledger
// keeps at most one delivery fee per order, so re-delivering the same order
// leaves exactly one entry.
func (h TransitionOrderCommandHandler) recordDelivery(
	ctx context.Context,
	uow UoW,
	aggregate *order.Order,
	now time.Time,
) error {
	driverID := aggregate.Driver()
	if driverID == nil {
		return errs.NewValueIsRequiredError("order driver")
	}

	fee, err := h.feeCalculator.DeliveryFee(aggregate)
	if err != nil {
		return err
	}

	entry, err := earnings.NewEarningEntry(
		kernel.NewUUID(),
		*driverID,
		aggregate.ID(),
		fee,
		earnings.EntryTypeDeliveryFee,
		now,
	)
	if err != nil {
		return err
	}

	return uow.EarningRepository().Add(ctx, entry)
}

// releaseDriver frees the driver's task slot under a row lock. A nil driver
// means the order never got one; nothing to release.
func (h TransitionOrderCommandHandler) releaseDriver(ctx context.Context, uow UoW, driverID *kernel.UUID) error {
	if driverID == nil {
		return nil
	}

	repo := uow.DriverRepository()

	aggregate, err := repo.GetForUpdate(ctx, *driverID)
	if err != nil {
		return err
	}

	if err := aggregate.Release(); err != nil {
		return err
	}

	return repo.Update(ctx, aggregate)
}

// cancelLiveOffer expires the order's pending offer, if one exists. The order
// leaving ReadyForPickup wins over any in-flight driver response.
func (h TransitionOrderCommandHandler) cancelLiveOffer(ctx context.Context, uow UoW, orderID kernel.UUID) error {
	repo := uow.TaskOfferRepository()

	offer, err := repo.GetLiveByOrder(ctx, orderID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	offer.Cancel()
	return repo.Update(ctx, offer)
}
