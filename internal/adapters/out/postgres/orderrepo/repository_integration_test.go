package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"fooddispatch/internal/adapters/out/postgres/orderrepo"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for
// OrderRepository using PostgreSQL containers to verify persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	suite.assertOrderCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_ExistingOrder_RoundTrips() {
	ctx := context.Background()

	original := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", original.ID(), original).Once()
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), retrieved.ID())
	suite.Equal(original.CustomerID(), retrieved.CustomerID())
	suite.Equal(original.RestaurantID(), retrieved.RestaurantID())
	suite.Equal(original.Status(), retrieved.Status())
	suite.Equal(original.Total(), retrieved.Total())
	suite.Len(retrieved.Items(), len(original.Items()))
	suite.Len(retrieved.History(), 1)
	suite.Nil(retrieved.Driver())
	suite.Nil(retrieved.NextDispatchAt())
	suite.False(retrieved.IsUnassignable())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsLifecycleProgress() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	restaurant := suite.actor(kernel.RoleRestaurant, testOrder.RestaurantID())
	suite.Require().NoError(testOrder.TransitionTo(order.RestaurantAccepted, restaurant, now))
	suite.Require().NoError(testOrder.TransitionTo(order.Preparing, restaurant, now))
	suite.Require().NoError(testOrder.TransitionTo(order.ReadyForPickup, restaurant, now))
	suite.Require().NoError(testOrder.ScheduleDispatch(now))

	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.ReadyForPickup, retrieved.Status())
	suite.Len(retrieved.History(), 4)
	suite.Require().NotNil(retrieved.NextDispatchAt())
	suite.WithinDuration(now, *retrieved.NextDispatchAt(), time.Millisecond)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_ClearsDriverBinding() {
	ctx := context.Background()
	now := time.Now().UTC()

	testOrder := suite.orderReadyForDispatch(now)
	driverID := kernel.NewUUID()
	suite.Require().NoError(testOrder.AssignDriver(driverID, now))

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	customer := suite.actor(kernel.RoleCustomer, testOrder.CustomerID())
	suite.Require().NoError(testOrder.TransitionTo(order.Cancelled, customer, now))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Cancelled, retrieved.Status())
	suite.Nil(retrieved.Driver())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsError() {
	ctx := context.Background()

	err := suite.repository.Update(ctx, suite.createTestOrder())
	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllDueForDispatch_FiltersCorrectly() {
	ctx := context.Background()
	now := time.Now().UTC()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(4)

	// Due: scheduled in the past.
	due := suite.orderReadyForDispatch(now.Add(-time.Minute))
	suite.Require().NoError(suite.repository.Add(ctx, due))

	// Not due: scheduled in the future.
	future := suite.orderReadyForDispatch(now.Add(time.Minute))
	suite.Require().NoError(suite.repository.Add(ctx, future))

	// Not due: no schedule at all.
	unscheduled := suite.createTestOrder()
	suite.Require().NoError(suite.repository.Add(ctx, unscheduled))

	// Not due: unassignable.
	exhausted := suite.orderReadyForDispatch(now.Add(-time.Minute))
	for range 6 {
		_, err := exhausted.RegisterDispatchAttempt(5)
		suite.Require().NoError(err)
		suite.Require().NoError(exhausted.ScheduleDispatch(now.Add(-time.Minute)))
	}
	suite.Require().NoError(suite.repository.Add(ctx, exhausted))

	dueOrders, err := suite.repository.GetAllDueForDispatch(ctx, now)
	suite.Require().NoError(err)
	suite.Require().Len(dueOrders, 1)
	suite.Equal(due.ID(), dueOrders[0].ID())

	suite.tracker.AssertExpectations(suite.T())
}

// createTestOrder creates a basic placed order with default values.
func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	pickup, err := kernel.NewGeoPoint(52.52, 13.405)
	suite.Require().NoError(err)
	dropoff, err := kernel.NewGeoPoint(52.5, 13.39)
	suite.Require().NoError(err)

	item, err := order.NewItem("Pad Thai", 2, kernel.NewMoneyFromCents(1250))
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		pickup, &dropoff, []order.Item{item}, time.Now().UTC(),
	)
	suite.Require().NoError(err)
	return testOrder
}

// orderReadyForDispatch walks a fresh order to ReadyForPickup and schedules
// its dispatch at the given time.
func (suite *OrderRepositoryIntegrationTestSuite) orderReadyForDispatch(at time.Time) *order.Order {
	testOrder := suite.createTestOrder()
	restaurant := suite.actor(kernel.RoleRestaurant, testOrder.RestaurantID())

	suite.Require().NoError(testOrder.TransitionTo(order.RestaurantAccepted, restaurant, at))
	suite.Require().NoError(testOrder.TransitionTo(order.Preparing, restaurant, at))
	suite.Require().NoError(testOrder.TransitionTo(order.ReadyForPickup, restaurant, at))
	suite.Require().NoError(testOrder.ScheduleDispatch(at))
	return testOrder
}

func (suite *OrderRepositoryIntegrationTestSuite) actor(role kernel.Role, id kernel.UUID) kernel.Actor {
	actor, err := kernel.NewActor(role, id)
	suite.Require().NoError(err)
	return actor
}

// assertOrderCount verifies the number of orders in the database.
func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int) {
	var count int64
	err := suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
