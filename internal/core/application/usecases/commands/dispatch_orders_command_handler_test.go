package commands_test

import (
	"testing"
	"time"

	"fooddispatch/internal/core/application/usecases/commands"
	"fooddispatch/internal/core/domain/model/driver"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/domain/model/taskoffer"
	"fooddispatch/internal/core/domain/services"
	"fooddispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testBackoff = 30 * time.Second

func newDispatchHandler(uow *MockUoW, notifier *MockNotifier) commands.DispatchOrdersCommandHandler {
	factory := &MockUoWFactory{}
	factory.On("Create").Return(uow)
	return commands.NewDispatchOrdersCommandHandler(
		factory, services.NewDriverMatcher(10), notifier, testLogger(),
		testOfferTTL, testBackoff, testMaxAttempts,
	)
}

func dueOrder(t *testing.T) *order.Order {
	t.Helper()
	aggregate := orderInStatus(t, order.ReadyForPickup)
	require.NoError(t, aggregate.ScheduleDispatch(testNow()))
	return aggregate
}

func TestDispatchOrdersCommandHandler_Handle_CreatesOffer(t *testing.T) {
	ctx := t.Context()
	aggregate := dueOrder(t)
	candidate := newTestDriver(t, 1)

	orderRepo := &MockOrderRepository{}
	orderRepo.On("GetAllDueForDispatch", ctx, mock.AnythingOfType("time.Time")).
		Return([]*order.Order{aggregate}, nil)
	orderRepo.On("Update", ctx, aggregate).Return(nil)

	driverRepo := &MockDriverRepository{}
	driverRepo.On("GetAllAvailable", ctx).Return([]*driver.Driver{candidate}, nil)

	var createdOffer *taskoffer.TaskOffer
	offerRepo := &MockTaskOfferRepository{}
	offerRepo.On("GetLiveByOrder", ctx, aggregate.ID()).
		Return(nil, errs.NewObjectNotFoundError("offer", aggregate.ID()))
	offerRepo.On("Add", ctx, mock.MatchedBy(func(offer *taskoffer.TaskOffer) bool {
		createdOffer = offer
		return offer.OrderID().IsEqual(aggregate.ID())
	})).Return(nil)

	uow := &MockUoW{}
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("DriverRepository").Return(driverRepo)
	uow.On("TaskOfferRepository").Return(offerRepo)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)

	notifier := &MockNotifier{}
	notifier.On("NotifyTaskOffered", ctx, candidate.ID(), mock.AnythingOfType("kernel.UUID")).Return(nil)

	handler := newDispatchHandler(uow, notifier)
	require.NoError(t, handler.Handle(ctx, commands.NewDispatchOrdersCommand()))

	require.NotNil(t, createdOffer)
	require.NotNil(t, createdOffer.CurrentCandidate())
	assert.True(t, candidate.ID().IsEqual(*createdOffer.CurrentCandidate()))
	assert.Nil(t, aggregate.NextDispatchAt(), "offered order is no longer due")
	notifier.AssertExpectations(t)
}

func TestDispatchOrdersCommandHandler_Handle_NoEligibleSchedulesRetry(t *testing.T) {
	ctx := t.Context()
	aggregate := dueOrder(t)

	orderRepo := &MockOrderRepository{}
	orderRepo.On("GetAllDueForDispatch", ctx, mock.AnythingOfType("time.Time")).
		Return([]*order.Order{aggregate}, nil)
	orderRepo.On("Update", ctx, aggregate).Return(nil)

	driverRepo := &MockDriverRepository{}
	driverRepo.On("GetAllAvailable", ctx).Return([]*driver.Driver{}, nil)

	offerRepo := &MockTaskOfferRepository{}
	offerRepo.On("GetLiveByOrder", ctx, aggregate.ID()).
		Return(nil, errs.NewObjectNotFoundError("offer", aggregate.ID()))

	uow := &MockUoW{}
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("DriverRepository").Return(driverRepo)
	uow.On("TaskOfferRepository").Return(offerRepo)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)

	handler := newDispatchHandler(uow, &MockNotifier{})
	require.NoError(t, handler.Handle(ctx, commands.NewDispatchOrdersCommand()))

	assert.Equal(t, 1, aggregate.DispatchAttempts())
	require.NotNil(t, aggregate.NextDispatchAt())
	assert.False(t, aggregate.IsUnassignable())
}

func TestDispatchOrdersCommandHandler_Handle_RetryExhaustionEscalates(t *testing.T) {
	ctx := t.Context()
	aggregate := dueOrder(t)

	// Burn through the retry cap.
	for i := 0; i < testMaxAttempts; i++ {
		_, err := aggregate.RegisterDispatchAttempt(testMaxAttempts)
		require.NoError(t, err)
	}

	orderRepo := &MockOrderRepository{}
	orderRepo.On("GetAllDueForDispatch", ctx, mock.AnythingOfType("time.Time")).
		Return([]*order.Order{aggregate}, nil)
	orderRepo.On("Update", ctx, aggregate).Return(nil)

	driverRepo := &MockDriverRepository{}
	driverRepo.On("GetAllAvailable", ctx).Return([]*driver.Driver{}, nil)

	offerRepo := &MockTaskOfferRepository{}
	offerRepo.On("GetLiveByOrder", ctx, aggregate.ID()).
		Return(nil, errs.NewObjectNotFoundError("offer", aggregate.ID()))

	uow := &MockUoW{}
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("DriverRepository").Return(driverRepo)
	uow.On("TaskOfferRepository").Return(offerRepo)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)

	notifier := &MockNotifier{}
	notifier.On("NotifyUnassignableOrder", ctx, aggregate.ID(), testMaxAttempts+1).Return(nil)

	handler := newDispatchHandler(uow, notifier)
	require.NoError(t, handler.Handle(ctx, commands.NewDispatchOrdersCommand()))

	assert.True(t, aggregate.IsUnassignable())
	assert.Equal(t, order.ReadyForPickup, aggregate.Status(),
		"unassignable orders stay put for manual intervention")
	notifier.AssertExpectations(t)
}

func TestDispatchOrdersCommandHandler_Handle_NothingDue(t *testing.T) {
	ctx := t.Context()

	orderRepo := &MockOrderRepository{}
	orderRepo.On("GetAllDueForDispatch", ctx, mock.AnythingOfType("time.Time")).
		Return([]*order.Order{}, nil)

	uow := &MockUoW{}
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)

	handler := newDispatchHandler(uow, &MockNotifier{})
	require.NoError(t, handler.Handle(ctx, commands.NewDispatchOrdersCommand()))
}
