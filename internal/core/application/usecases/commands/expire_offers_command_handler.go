package commands

import (
	"context"
	"log/slog"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/ports"
)

// ExpireOffersCommandHandler runs the offer deadline sweep.
//
// A candidate that missed the deadline is passed over exactly as if they had
// declined: the next candidate gets a fresh deadline and a notification, and
// an exhausted offer resolves Expired and re-queues its order for dispatch
// under the same retry cap.
type ExpireOffersCommandHandler struct {
	uowFactory  UoWFactory
	notifier    ports.Notifier
	logger      *slog.Logger
	maxAttempts int
	now         func() time.Time
}

// NewExpireOffersCommandHandler creates a handler for deadline sweeps.
func NewExpireOffersCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	logger *slog.Logger,
	maxAttempts int,
) ExpireOffersCommandHandler {
	return ExpireOffersCommandHandler{
		uowFactory:  uowFactory,
		notifier:    notifier,
		logger:      logger,
		maxAttempts: maxAttempts,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Handle advances every overdue offer in one transaction, then sends the
// collected notifications.
func (h ExpireOffersCommandHandler) Handle(ctx context.Context, command ExpireOffersCommand) error {
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

	now := h.now()

	overdue, err := uow.TaskOfferRepository().GetAllExpired(ctx, now)
	if err != nil {
		return err
	}

	var (
		offerNotes        []offerNotification
		unassignableNotes []unassignableNotification
	)

	for _, offer := range overdue {
		exhausted, err := offer.AdvancePastCurrent(now)
		if err != nil {
			return err
		}

		if err := uow.TaskOfferRepository().Update(ctx, offer); err != nil {
			return err
		}

		if exhausted {
			note, err := h.requeueOrder(ctx, uow, offer.OrderID(), now)
			if err != nil {
				return err
			}
			if note != nil {
				unassignableNotes = append(unassignableNotes, *note)
			}
			continue
		}

		if candidate := offer.CurrentCandidate(); candidate != nil {
			offerNotes = append(offerNotes, offerNotification{
				driverID: *candidate,
				offerID:  offer.ID(),
			})
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	for _, note := range offerNotes {
		if err := h.notifier.NotifyTaskOffered(ctx, note.driverID, note.offerID); err != nil {
			h.logger.WarnContext(ctx, "task offer notification failed",
				slog.String("offer_id", note.offerID.String()),
				slog.Any("error", err))
		}
	}
	for _, note := range unassignableNotes {
		if err := h.notifier.NotifyUnassignableOrder(ctx, note.orderID, note.attempts); err != nil {
			h.logger.WarnContext(ctx, "unassignable order notification failed",
				slog.String("order_id", note.orderID.String()),
				slog.Any("error", err))
		}
	}

	return nil
}

// requeueOrder counts the exhausted offer against the order's retry cap and
// schedules an immediate re-dispatch, or escalates on exhaustion.
func (h ExpireOffersCommandHandler) requeueOrder(
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
		if err := aggregate.ScheduleDispatch(now); err != nil {
			return nil, err
		}
	}

	if err := uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return nil, err
	}

	return note, nil
}
