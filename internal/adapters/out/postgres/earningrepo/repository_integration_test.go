package earningrepo_test

import (
	"context"
	"testing"
	"time"

	"fooddispatch/internal/adapters/out/postgres/earningrepo"
	"fooddispatch/internal/core/domain/model/earnings"
	"fooddispatch/internal/core/domain/model/kernel"

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

// EarningRepositoryIntegrationTestSuite verifies the append-only ledger
// against a real PostgreSQL database.
type EarningRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *earningrepo.GormEarningRepository
	tracker    *MockAggregateTracker
}

func (suite *EarningRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&earningrepo.EarningEntryDTO{}))
	suite.Require().NoError(db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_earning_entries_order_fee
		ON earning_entries (order_id)
		WHERE entry_type = 'delivery_fee'
	`).Error)
}

func (suite *EarningRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE earning_entries").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = earningrepo.NewGormEarningRepository(suite.db, suite.tracker)
}

func (suite *EarningRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *EarningRepositoryIntegrationTestSuite) TestAdd_ThenGetAllByDriver_RoundTrips() {
	ctx := context.Background()
	driverID := kernel.NewUUID()
	base := time.Now().UTC().Truncate(time.Microsecond)

	older := suite.newEntry(driverID, kernel.NewUUID(), 450, earnings.EntryTypeDeliveryFee, base.Add(-time.Hour))
	newer := suite.newEntry(driverID, kernel.NewUUID(), 700, earnings.EntryTypeDeliveryFee, base)

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(3)
	suite.Require().NoError(suite.repository.Add(ctx, newer))
	suite.Require().NoError(suite.repository.Add(ctx, older))

	// Another driver's entry must not show up.
	other := suite.newEntry(kernel.NewUUID(), kernel.NewUUID(), 300, earnings.EntryTypeBonus, base)
	suite.Require().NoError(suite.repository.Add(ctx, other))

	entries, err := suite.repository.GetAllByDriver(ctx, driverID)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)

	// Oldest first.
	suite.Equal(older.ID(), entries[0].ID())
	suite.Equal(newer.ID(), entries[1].ID())
	suite.Equal(int64(450), entries[0].Amount().Cents())
	suite.Equal(earnings.EntryTypeDeliveryFee, entries[0].EntryType())
	suite.WithinDuration(older.OccurredAt(), entries[0].OccurredAt(), time.Millisecond)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *EarningRepositoryIntegrationTestSuite) TestAdd_SecondFeeForSameOrder_KeepsFirst() {
	ctx := context.Background()
	driverID := kernel.NewUUID()
	orderID := kernel.NewUUID()
	now := time.Now().UTC()

	first := suite.newEntry(driverID, orderID, 450, earnings.EntryTypeDeliveryFee, now)
	retried := suite.newEntry(driverID, orderID, 999, earnings.EntryTypeDeliveryFee, now)

	// Only the first write reaches the tracker; the retry is dropped.
	suite.tracker.On("TrackAggregate", first.ID(), first).Once()
	suite.Require().NoError(suite.repository.Add(ctx, first))
	suite.Require().NoError(suite.repository.Add(ctx, retried))

	entries, err := suite.repository.GetAllByDriver(ctx, driverID)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	suite.Equal(first.ID(), entries[0].ID())
	suite.Equal(int64(450), entries[0].Amount().Cents())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *EarningRepositoryIntegrationTestSuite) newEntry(
	driverID, orderID kernel.UUID, cents int64, entryType earnings.EntryType, at time.Time,
) *earnings.EarningEntry {
	entry, err := earnings.NewEarningEntry(
		kernel.NewUUID(), driverID, orderID,
		kernel.NewMoneyFromCents(cents), entryType, at,
	)
	suite.Require().NoError(err)
	return entry
}

func TestEarningRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(EarningRepositoryIntegrationTestSuite))
}
