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
	"fooddispatch/internal/core/domain/services"
	"fooddispatch/internal/core/ports"
	"fooddispatch/internal/pkg/errs"
)

// DispatchOrdersCommandHandler runs the dispatch sweep.
//
// For every ReadyForPickup order whose dispatch attempt is due it ranks the
// available drivers and creates a task offer for the best candidates. When no
// driver is eligible the attempt counts against the retry cap: the order gets
// a backoff retry, or, once the cap is exhausted, an UnassignableOrder
// escalation and no further automatic attempts.
type DispatchOrdersCommandHandler struct {
	uowFactory  UoWFactory
	matcher     services.DriverMatcher
	notifier    ports.Notifier
	logger      *slog.Logger
	offerTTL    time.Duration
	backoff     time.Duration
	maxAttempts int
	now         func() time.Time
}

// NewDispatchOrdersCommandHandler creates a handler for dispatch sweeps.
func NewDispatchOrdersCommandHandler(
	uowFactory UoWFactory,
	matcher services.DriverMatcher,
	notifier ports.Notifier,
	logger *slog.Logger,
	offerTTL time.Duration,
	backoff time.Duration,
	maxAttempts int,
) DispatchOrdersCommandHandler {
	return DispatchOrdersCommandHandler{
		uowFactory:  uowFactory,
		matcher:     matcher,
		notifier:    notifier,
		logger:      logger,
		offerTTL:    offerTTL,
		backoff:     backoff,
		maxAttempts: maxAttempts,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// offerNotification is a post-commit notification about a created offer.
type offerNotification struct {
	driverID kernel.UUID
	offerID  kernel.UUID
}

// unassignableNotification is a post-commit escalation of an exhausted order.
type unassignableNotification struct {
	orderID  kernel.UUID
	attempts int
}

// Handle processes every due order in one transaction, then sends the
// collected notifications. Notification failures are logged and dropped.
func (h DispatchOrdersCommandHandler) Handle(ctx context.Context, command DispatchOrdersCommand) error {
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

	dueOrders, err := uow.OrderRepository().GetAllDueForDispatch(ctx, now)
	if err != nil {
		return err
	}
	if len(dueOrders) == 0 {
		return uow.Commit(ctx)
	}

	availableDrivers, err := uow.DriverRepository().GetAllAvailable(ctx)
	if err != nil {
		return err
	}

	var (
		offerNotes        []offerNotification
		unassignableNotes []unassignableNotification
	)

	for _, dueOrder := range dueOrders {
		offerNote, unassignableNote, err := h.dispatchOne(ctx, uow, dueOrder, availableDrivers, now)
		if err != nil {
			return err
		}
		if offerNote != nil {
			offerNotes = append(offerNotes, *offerNote)
		}
		if unassignableNote != nil {
			unassignableNotes = append(unassignableNotes, *unassignableNote)
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

// dispatchOne attempts dispatch for a single due order: a new task offer when
// candidates exist, otherwise a retry or an exhaustion escalation.
func (h DispatchOrdersCommandHandler) dispatchOne(
	ctx context.Context,
	uow UoW,
	dueOrder *order.Order,
	availableDrivers []*driver.Driver,
	now time.Time,
) (*offerNotification, *unassignableNotification, error) {
	// A live offer means a previous sweep already dispatched this order.
	_, err := uow.TaskOfferRepository().GetLiveByOrder(ctx, dueOrder.ID())
	if err == nil {
		return nil, nil, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil, err
	}

	candidates, err := h.matcher.Match(dueOrder, availableDrivers)
	if errors.Is(err, services.ErrNoEligibleDrivers) {
		note, retryErr := h.retryOrEscalate(ctx, uow, dueOrder, now)
		return nil, note, retryErr
	}
	if err != nil {
		return nil, nil, err
	}

	candidateIDs := make([]kernel.UUID, len(candidates))
	for i, candidate := range candidates {
		candidateIDs[i] = candidate.ID()
	}

	offer, err := taskoffer.NewTaskOffer(kernel.NewUUID(), dueOrder.ID(), candidateIDs, h.offerTTL, now)
	if err != nil {
		return nil, nil, err
	}

	if err := uow.TaskOfferRepository().Add(ctx, offer); err != nil {
		return nil, nil, err
	}

	if err := dueOrder.BeginDispatch(); err != nil {
		return nil, nil, err
	}
	if err := uow.OrderRepository().Update(ctx, dueOrder); err != nil {
		return nil, nil, err
	}

	return &offerNotification{driverID: candidateIDs[0], offerID: offer.ID()}, nil, nil
}

// retryOrEscalate counts the failed attempt and either schedules a backoff
// retry or marks the order unassignable once the cap is exhausted.
func (h DispatchOrdersCommandHandler) retryOrEscalate(
	ctx context.Context,
	uow UoW,
	dueOrder *order.Order,
	now time.Time,
) (*unassignableNotification, error) {
	var note *unassignableNotification

	exhausted, err := dueOrder.RegisterDispatchAttempt(h.maxAttempts)
	if err != nil {
		return nil, err
	}

	if exhausted {
		note = &unassignableNotification{
			orderID:  dueOrder.ID(),
			attempts: dueOrder.DispatchAttempts(),
		}
	} else {
		if err := dueOrder.ScheduleDispatch(now.Add(h.backoff)); err != nil {
			return nil, err
		}
	}

	if err := uow.OrderRepository().Update(ctx, dueOrder); err != nil {
		return nil, err
	}

	return note, nil
}
