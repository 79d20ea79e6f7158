package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fooddispatch/internal/core/domain/model/driver"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/domain/model/taskoffer"
	"fooddispatch/internal/core/ports"
)

// RespondToOfferCommandHandler resolves driver responses to task offers.
//
// An accept vets the response, reserves the driver's task slot under a row
// lock, and binds the driver to the order, all in one transaction. Losing the
// capacity race is recovered internally: the offer advances to the next
// candidate and the responder gets ErrOfferNoLongerAvailable. A decline
// advances the offer; exhausting the candidate list re-queues the order for
// dispatch under the same retry cap.
type RespondToOfferCommandHandler struct {
	uowFactory  UoWFactory
	notifier    ports.Notifier
	logger      *slog.Logger
	maxAttempts int
	now         func() time.Time
}

// NewRespondToOfferCommandHandler creates a handler for offer responses.
func NewRespondToOfferCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	logger *slog.Logger,
	maxAttempts int,
) RespondToOfferCommandHandler {
	return RespondToOfferCommandHandler{
		uowFactory:  uowFactory,
		notifier:    notifier,
		logger:      logger,
		maxAttempts: maxAttempts,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Handle processes the response and commits the outcome.
func (h RespondToOfferCommandHandler) Handle(ctx context.Context, command RespondToOfferCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	offer, err := uow.TaskOfferRepository().GetForUpdate(ctx, command.OfferID())
	if err != nil {
		return err
	}

	now := h.now()

	var (
		note       *unassignableNotification
		handleErr  error
		orderBound *order.Order
	)

	switch command.Decision() {
	case DecisionAccept:
		orderBound, note, handleErr = h.accept(ctx, uow, offer, command.DriverID(), now)
	case DecisionDecline:
		note, handleErr = h.decline(ctx, uow, offer, command.DriverID(), now)
	}
	if handleErr != nil {
		return handleErr
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	if orderBound != nil {
		if err := h.notifier.NotifyOrderStatusChanged(ctx, orderBound.ID(), orderBound.Status()); err != nil {
			h.logger.WarnContext(ctx, "status change notification failed",
				slog.String("order_id", orderBound.ID().String()),
				slog.Any("error", err))
		}
	}
	if note != nil {
		if err := h.notifier.NotifyUnassignableOrder(ctx, note.orderID, note.attempts); err != nil {
			h.logger.WarnContext(ctx, "unassignable order notification failed",
				slog.String("order_id", note.orderID.String()),
				slog.Any("error", err))
		}
	}

	return nil
}

// accept reserves the driver and binds them to the order. When the driver
// lost the capacity race the offer moves on and the responder is told the
// offer is gone; that outcome still commits.
func (h RespondToOfferCommandHandler) accept(
	ctx context.Context,
	uow UoW,
	offer *taskoffer.TaskOffer,
	driverID kernel.UUID,
	now time.Time,
) (*order.Order, *unassignableNotification, error) {
	if err := offer.ValidateResponse(driverID, now); err != nil {
		return nil, nil, err
	}

	driverRepo := uow.DriverRepository()

	responder, err := driverRepo.GetForUpdate(ctx, driverID)
	if err != nil {
		return nil, nil, err
	}

	if reserveErr := responder.Reserve(); reserveErr != nil {
		if !errors.Is(reserveErr, driver.ErrCapacityExceeded) {
			return nil, nil, reserveErr
		}

		// Lost the capacity race: pass the offer over this driver and keep
		// the change even though the responder gets an error.
		note, err := h.advanceOffer(ctx, uow, offer, now)
		if err != nil {
			return nil, nil, err
		}
		if err := uow.Commit(ctx); err != nil {
			return nil, nil, err
		}
		if note != nil {
			if err := h.notifier.NotifyUnassignableOrder(ctx, note.orderID, note.attempts); err != nil {
				h.logger.WarnContext(ctx, "unassignable order notification failed",
					slog.String("order_id", note.orderID.String()),
					slog.Any("error", err))
			}
		}
		return nil, nil, taskoffer.ErrOfferNoLongerAvailable
	}

	if err := offer.Accept(driverID, now); err != nil {
		return nil, nil, err
	}

	boundOrder, err := uow.OrderRepository().GetForUpdate(ctx, offer.OrderID())
	if err != nil {
		return nil, nil, err
	}

	if err := boundOrder.AssignDriver(driverID, now); err != nil {
		return nil, nil, err
	}

	if err := driverRepo.Update(ctx, responder); err != nil {
		return nil, nil, err
	}
	if err := uow.TaskOfferRepository().Update(ctx, offer); err != nil {
		return nil, nil, err
	}
	if err := uow.OrderRepository().Update(ctx, boundOrder); err != nil {
		return nil, nil, err
	}

	return boundOrder, nil, nil
}

// decline passes the offer over the responding driver.
func (h RespondToOfferCommandHandler) decline(
	ctx context.Context,
	uow UoW,
	offer *taskoffer.TaskOffer,
	driverID kernel.UUID,
	now time.Time,
) (*unassignableNotification, error) {
	if err := offer.Decline(driverID, now); err != nil {
		return nil, err
	}

	if err := uow.TaskOfferRepository().Update(ctx, offer); err != nil {
		return nil, err
	}

	if offer.Outcome() != taskoffer.OutcomeExpired {
		return nil, nil
	}

	return h.requeueOrder(ctx, uow, offer.OrderID(), now)
}

// advanceOffer passes the offer over the current candidate and re-queues the
// order when the candidate list is exhausted.
func (h RespondToOfferCommandHandler) advanceOffer(
	ctx context.Context,
	uow UoW,
	offer *taskoffer.TaskOffer,
	now time.Time,
) (*unassignableNotification, error) {
	exhausted, err := offer.AdvancePastCurrent(now)
	if err != nil {
		return nil, err
	}

	if err := uow.TaskOfferRepository().Update(ctx, offer); err != nil {
		return nil, err
	}

	if !exhausted {
		return nil, nil
	}

	return h.requeueOrder(ctx, uow, offer.OrderID(), now)
}

// requeueOrder counts the failed offer cycle against the order's retry cap
// and schedules an immediate re-dispatch, or escalates on exhaustion.
func (h RespondToOfferCommandHandler) requeueOrder(
	ctx context.Context,
	uow UoW,
	orderID kernel.UUID,
	now time.Time,
) (*unassignableNotification, error) {
	aggregate, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}

	exhausted, err := aggregate.RegisterDispatchAttempt(h.maxAttempts)
	if err != nil {
		return nil, err
	}

	var note *unassignableNotification
	if exhausted {
		note = &unassignableNotification{
			orderID:  aggregate.ID(),
			attempts: aggregate.DispatchAttempts(),
		}
	} else {
		// Driver locations may have changed; the next sweep re-queries
		// eligibility right away.
		if err := aggregate.ScheduleDispatch(now); err != nil {
			return nil, err
		}
	}

	if err := uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return nil, err
	}

	return note, nil
}
